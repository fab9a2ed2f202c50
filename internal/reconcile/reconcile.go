// Package reconcile derives the headline figures from the delivery and
// transaction ledgers plus the operator's override baseline. It never
// mutates its inputs.
package reconcile

import (
	"sort"

	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/transaction"
)

// Baseline is an additive correction on top of computed sums. A nil field
// means no correction.
type Baseline struct {
	Paid *int64 `json:"paid"`
	Prev *int64 `json:"prev"`
}

func (b Baseline) IsZero() bool {
	return b.Paid == nil && b.Prev == nil
}

func (b Baseline) Clone() Baseline {
	var out Baseline

	if b.Paid != nil {
		out.Paid = new(*b.Paid)
	}

	if b.Prev != nil {
		out.Prev = new(*b.Prev)
	}

	return out
}

type State string

const (
	StateSettled  State = "settled"
	StateOwed     State = "owed"
	StateOverpaid State = "overpaid"
)

type Summary struct {
	Shop string `json:"shop,omitempty"`

	AutoPaid       int64 `json:"autoPaid"`
	ManualPaid     int64 `json:"manualPaid"`
	ManualDeducted int64 `json:"manualDeducted"`
	CombinedPaid   int64 `json:"combinedPaid"`
	ComputedPrev   int64 `json:"computedPrev"`

	DisplayPaid int64 `json:"paid"`
	DisplayPrev int64 `json:"previousBalance"`
	TotalValue  int64 `json:"value"`
	Remaining   int64 `json:"remaining"`
	TotalProfit int64 `json:"profit"`

	Deliveries int `json:"deliveries"`
}

func (s Summary) State() State {
	switch {
	case s.Remaining == 0:
		return StateSettled
	case s.Remaining > 0:
		return StateOwed
	default:
		return StateOverpaid
	}
}

// Compute folds deliveries and transactions into a Summary. The baseline
// is added to the computed paid and previous-balance sums, never
// substituted for them.
func Compute(deliveries []delivery.Delivery, txs []transaction.Transaction, baseline Baseline) Summary {
	var s Summary

	for _, d := range deliveries {
		s.AutoPaid += d.PaidCents
		s.ComputedPrev += d.PreviousBalanceCents
		s.TotalValue += d.TotalCents
		s.TotalProfit += d.ProfitCents
	}

	for _, tx := range txs {
		switch tx.Kind {
		case transaction.KindPayment:
			s.ManualPaid += tx.AmountCents
		case transaction.KindDeduction:
			s.ManualDeducted += tx.AmountCents
		}
	}

	s.Deliveries = len(deliveries)
	s.CombinedPaid = s.AutoPaid + s.ManualPaid + s.ManualDeducted

	s.DisplayPaid = s.CombinedPaid
	if baseline.Paid != nil {
		s.DisplayPaid += *baseline.Paid
	}

	s.DisplayPrev = s.ComputedPrev
	if baseline.Prev != nil {
		s.DisplayPrev += *baseline.Prev
	}

	s.Remaining = s.DisplayPrev + (s.TotalValue - s.DisplayPaid)

	return s
}

// ByShop returns one summary per shop that has deliveries, sorted by shop
// name. Transactions count toward the shop they name; the baseline is a
// global correction and is not applied here.
func ByShop(deliveries []delivery.Delivery, txs []transaction.Transaction) []Summary {
	rowsByShop := make(map[string][]delivery.Delivery)
	for _, d := range deliveries {
		rowsByShop[d.Shop] = append(rowsByShop[d.Shop], d)
	}

	txsByShop := make(map[string][]transaction.Transaction)
	for _, tx := range txs {
		if tx.Shop != "" {
			txsByShop[tx.Shop] = append(txsByShop[tx.Shop], tx)
		}
	}

	shops := make([]string, 0, len(rowsByShop))
	for shop := range rowsByShop {
		shops = append(shops, shop)
	}

	sort.Strings(shops)

	out := make([]Summary, 0, len(shops))
	for _, shop := range shops {
		s := Compute(rowsByShop[shop], txsByShop[shop], Baseline{})
		s.Shop = shop
		out = append(out, s)
	}

	return out
}

package snapshot

import (
	"slices"

	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/reconcile"
	"github.com/MrJamesThe3rd/bakery/internal/registry"
	"github.com/MrJamesThe3rd/bakery/internal/transaction"
)

// State is everything a snapshot captures. Cost overrides are session-only
// and deliberately absent.
type State struct {
	Deliveries    []delivery.Delivery       `json:"rows"`
	Transactions  []transaction.Transaction `json:"transactions"`
	Baseline      reconcile.Baseline        `json:"overrides"`
	Purchases     []purchase.Purchase       `json:"purchases"`
	PurchaseItems []string                  `json:"purchaseItems"`
	Categories    []string                  `json:"categories"`
}

// Clone returns a deep copy sharing no memory with s.
func (s State) Clone() State {
	return State{
		Deliveries:    slices.Clone(s.Deliveries),
		Transactions:  slices.Clone(s.Transactions),
		Baseline:      s.Baseline.Clone(),
		Purchases:     slices.Clone(s.Purchases),
		PurchaseItems: slices.Clone(s.PurchaseItems),
		Categories:    slices.Clone(s.Categories),
	}
}

// Mode selects how a snapshot is merged into the live state.
type Mode string

const (
	ModeReplace Mode = "replace"
	ModeAppend  Mode = "append"
)

func (m Mode) Valid() bool {
	return m == ModeReplace || m == ModeAppend
}

// Merge combines current with snap. Replace takes the snapshot wholesale,
// categories included; when shop is set only that shop's deliveries are
// swapped. Append concatenates records, unions the name lists and keeps
// the current baseline. Lists a snapshot never captured (nil) are left as
// they are in current.
func Merge(current, snap State, mode Mode, shop string) State {
	snap = snap.Clone()
	out := current.Clone()

	if mode == ModeReplace {
		if shop != "" {
			out.Deliveries = slices.DeleteFunc(out.Deliveries, func(d delivery.Delivery) bool { return d.Shop == shop })
			out.Deliveries = append(out.Deliveries, snap.Deliveries...)
		} else {
			out.Deliveries = snap.Deliveries
		}

		out.Transactions = snap.Transactions
		out.Baseline = snap.Baseline

		if snap.Categories != nil {
			out.Categories = snap.Categories
		}

		if snap.Purchases != nil {
			out.Purchases = snap.Purchases
		}

		if snap.PurchaseItems != nil {
			out.PurchaseItems = snap.PurchaseItems
		}

		return out
	}

	out.Deliveries = append(out.Deliveries, snap.Deliveries...)
	out.Transactions = append(out.Transactions, snap.Transactions...)
	out.Purchases = append(out.Purchases, snap.Purchases...)

	categories := registry.New(out.Categories...)
	categories.Union(snap.Categories)
	out.Categories = categories.Names()

	items := registry.New(out.PurchaseItems...)
	items.Union(snap.PurchaseItems)
	out.PurchaseItems = items.Names()

	return out
}

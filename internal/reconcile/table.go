package reconcile

import (
	"strconv"

	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/money"
	"github.com/MrJamesThe3rd/bakery/internal/transaction"
)

// Columns is the header of the exported delivery table.
var Columns = []string{
	"No.", "Date", "Shop", "Item", "Qty", "Price Per piece",
	"Total ($)", "Paid Amount", "Prev Balance ($)", "Current Balance ($)",
}

// Table is a read-only tabular view for CSV/XLSX formatters.
type Table struct {
	Header  []string
	Rows    [][]string
	Totals  []string
	Summary Summary
}

// BuildTable renders deliveries oldest-first and appends a totals row
// computed with the same Compute call that backs the on-screen summary.
// Rows keep their ledger number, so the newest delivery is No. 1.
func BuildTable(deliveries []delivery.Delivery, txs []transaction.Transaction, baseline Baseline) Table {
	summary := Compute(deliveries, txs, baseline)

	rows := make([][]string, 0, len(deliveries))

	for i := len(deliveries) - 1; i >= 0; i-- {
		d := deliveries[i]
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			dates.Display(d.Date),
			d.Shop,
			d.Item,
			strconv.FormatInt(d.Quantity, 10),
			money.Format(d.UnitPriceCents),
			money.Format(d.TotalCents),
			money.Format(d.PaidCents),
			money.Format(d.PreviousBalanceCents),
			money.Format(d.BalanceCents),
		})
	}

	var qty int64
	for _, d := range deliveries {
		qty += d.Quantity
	}

	totals := []string{
		"Totals", "", "", "",
		strconv.FormatInt(qty, 10),
		"",
		money.Format(summary.TotalValue),
		money.Format(summary.DisplayPaid),
		money.Format(summary.DisplayPrev),
		money.Format(summary.Remaining),
	}

	return Table{
		Header:  Columns,
		Rows:    rows,
		Totals:  totals,
		Summary: summary,
	}
}

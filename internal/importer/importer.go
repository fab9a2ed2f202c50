// Package importer turns spreadsheet rows into delivery records.
package importer

import (
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/money"
	"github.com/MrJamesThe3rd/bakery/internal/registry"
)

// Options configure a single import run.
type Options struct {
	Mapping    Mapping
	HasHeader  bool
	Categories []string
}

// Result reports what Reconcile did. Duplicates are included in Added:
// they are counted, not dropped.
type Result struct {
	Deliveries []delivery.Delivery
	Added      int
	Invalid    int
	Duplicates int
}

type dupKey struct {
	Date     string
	Shop     string
	Item     string
	Quantity int64
}

// Reconcile validates rows against opts and builds new deliveries.
// Invalid rows are counted and skipped. A row is a duplicate when its
// (date, shop, item, quantity) matches an existing delivery or an earlier
// row of the same batch. Imported rows start with a zero previous balance.
func Reconcile(rows [][]string, existing []delivery.Delivery, opts Options) (*Result, error) {
	if err := opts.Mapping.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[dupKey]struct{}, len(existing))
	for _, d := range existing {
		seen[dupKey{Date: d.Date, Shop: d.Shop, Item: d.Item, Quantity: d.Quantity}] = struct{}{}
	}

	start := 0
	if opts.HasHeader {
		start = 1
	}

	res := &Result{}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		// Only a row with no cells at all is skipped; a row of empty cells
		// counts as invalid.
		if len(row) == 0 {
			continue
		}

		d, ok := parseRow(row, opts)
		if !ok {
			res.Invalid++
			continue
		}

		k := dupKey{Date: d.Date, Shop: d.Shop, Item: d.Item, Quantity: d.Quantity}
		if _, found := seen[k]; found {
			res.Duplicates++
		} else {
			seen[k] = struct{}{}
		}

		res.Deliveries = append(res.Deliveries, d)
		res.Added++
	}

	return res, nil
}

func parseRow(row []string, opts Options) (delivery.Delivery, bool) {
	get := func(f Field) string {
		idx, ok := opts.Mapping[f]
		if !ok {
			return ""
		}

		return cellValue(row, idx)
	}

	dateStr, shop, item := get(FieldDate), get(FieldShop), get(FieldItem)
	qtyStr, perStr := get(FieldQuantity), get(FieldUnitPrice)

	if dateStr == "" || shop == "" || item == "" || qtyStr == "" || perStr == "" {
		return delivery.Delivery{}, false
	}

	date, err := dates.Parse(dateStr)
	if err != nil {
		return delivery.Delivery{}, false
	}

	qty := money.ParseQuantity(qtyStr)

	per, err := money.ParseSignedCents(perStr)
	if err != nil || qty <= 0 || per <= 0 {
		return delivery.Delivery{}, false
	}

	var paid int64
	if s := get(FieldPaid); s != "" {
		paid, err = money.ParseSignedCents(s)
		if err != nil || paid < 0 {
			return delivery.Delivery{}, false
		}
	}

	rawCategory := get(FieldCategory)
	category := registry.MapCategory(rawCategory, opts.Categories)

	if rawCategory == "" && containsName(opts.Categories, item) {
		category = item
	}

	if !containsName(opts.Categories, category) {
		category = registry.FallbackCategory
	}

	return delivery.Build(delivery.CreateParams{
		Date:           date,
		Shop:           shop,
		DeliveredBy:    get(FieldDeliveredBy),
		Item:           item,
		Category:       category,
		Quantity:       int64(qty),
		UnitPriceCents: per,
		PaidCents:      paid,
		Notes:          get(FieldNotes),
	}), true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}

// Summary renders a result for logs and CLI output.
func (r *Result) Summary() string {
	return fmt.Sprintf("added %d, duplicates %d, invalid %d", r.Added, r.Duplicates, r.Invalid)
}

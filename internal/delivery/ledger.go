package delivery

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/undo"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

type CreateParams struct {
	Date                 string
	Shop                 string
	DeliveredBy          string
	Item                 string
	Category             string
	Quantity             int64
	UnitPriceCents       int64
	UnitCostCents        int64
	PaidCents            int64
	PreviousBalanceCents int64
	Notes                string
}

type ListFilter struct {
	Shop   string
	Search string
}

// BalanceField selects which shop aggregate UpdateShopBalance rewrites.
type BalanceField string

const (
	BalancePaid BalanceField = "paid"
	BalancePrev BalanceField = "prev"
)

// Ledger keeps deliveries most-recent-first.
type Ledger struct {
	rows    []Delivery
	removed *undo.Slot[Delivery]
}

func NewLedger(window time.Duration, now func() time.Time) *Ledger {
	return &Ledger{removed: undo.New[Delivery](window, now)}
}

func (p CreateParams) validate() error {
	switch {
	case strings.TrimSpace(p.Shop) == "":
		return validation.Field("shop", "required")
	case strings.TrimSpace(p.Item) == "":
		return validation.Field("item", "required")
	case p.Quantity <= 0:
		return validation.Field("quantity", "must be positive")
	case p.UnitPriceCents <= 0:
		return validation.Field("perPieceCents", "must be positive")
	case p.UnitCostCents < 0:
		return validation.Field("costCents", "must not be negative")
	case p.PaidCents < 0:
		return validation.Field("paidCents", "must not be negative")
	}

	if _, err := dates.Parse(p.Date); err != nil {
		return validation.Field("date", err.Error())
	}

	return nil
}

// Build turns params into a delivery with a fresh id and derived fields,
// without inserting it.
func Build(p CreateParams) Delivery {
	d := Delivery{
		ID:                   uuid.NewString(),
		Date:                 p.Date,
		Shop:                 strings.TrimSpace(p.Shop),
		DeliveredBy:          strings.TrimSpace(p.DeliveredBy),
		Item:                 strings.TrimSpace(p.Item),
		Category:             p.Category,
		Quantity:             p.Quantity,
		UnitPriceCents:       p.UnitPriceCents,
		UnitCostCents:        p.UnitCostCents,
		PaidCents:            p.PaidCents,
		PreviousBalanceCents: p.PreviousBalanceCents,
		Notes:                p.Notes,
	}
	d.recompute()

	return d
}

// Add validates params and prepends the new delivery.
func (l *Ledger) Add(p CreateParams) (Delivery, error) {
	iso, err := dates.Parse(p.Date)
	if err == nil {
		p.Date = iso
	}

	if err := p.validate(); err != nil {
		return Delivery{}, err
	}

	d := Build(p)
	l.rows = slices.Insert(l.rows, 0, d)

	return d, nil
}

// Update sets a single field and refreshes only the derived values that
// depend on it.
func (l *Ledger) Update(id string, field Field, value string) (Delivery, error) {
	idx := l.index(id)
	if idx < 0 {
		return Delivery{}, ErrNotFound
	}

	d := &l.rows[idx]

	switch field {
	case FieldDate:
		iso, err := dates.Parse(value)
		if err != nil {
			return Delivery{}, validation.Field(string(field), err.Error())
		}

		d.Date = iso
	case FieldShop:
		if strings.TrimSpace(value) == "" {
			return Delivery{}, validation.Field(string(field), "required")
		}

		d.Shop = strings.TrimSpace(value)
	case FieldDeliveredBy:
		d.DeliveredBy = strings.TrimSpace(value)
	case FieldItem:
		if strings.TrimSpace(value) == "" {
			return Delivery{}, validation.Field(string(field), "required")
		}

		d.Item = strings.TrimSpace(value)
	case FieldCategory:
		d.Category = value
	case FieldNotes:
		d.Notes = value
	case FieldQuantity, FieldUnitPrice, FieldUnitCost, FieldPaid, FieldPreviousBalance:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return Delivery{}, validation.Field(string(field), "must be a whole number of cents")
		}

		if err := l.setNumeric(d, field, n); err != nil {
			return Delivery{}, err
		}
	default:
		return Delivery{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	return *d, nil
}

func (l *Ledger) setNumeric(d *Delivery, field Field, n int64) error {
	if n < 0 && field != FieldPreviousBalance {
		return validation.Field(string(field), "must not be negative")
	}

	switch field {
	case FieldQuantity:
		d.Quantity = n
		d.recompute()
	case FieldUnitPrice:
		d.UnitPriceCents = n
		d.recompute()
	case FieldUnitCost:
		d.UnitCostCents = n
		d.recomputeProfit()
	case FieldPaid:
		d.PaidCents = n
		d.recomputeBalance()
	case FieldPreviousBalance:
		d.PreviousBalanceCents = n
		d.recomputeBalance()
	}

	return nil
}

// Remove detaches the delivery and keeps it for a timed undo.
func (l *Ledger) Remove(id string) (Delivery, error) {
	idx := l.index(id)
	if idx < 0 {
		return Delivery{}, ErrNotFound
	}

	d := l.rows[idx]
	l.rows = slices.Delete(l.rows, idx, idx+1)
	l.removed.Hold(d, idx)

	return d, nil
}

// Undo reinserts the last removed delivery at its old position.
func (l *Ledger) Undo() (Delivery, bool) {
	d, idx, ok := l.removed.Undo()
	if !ok {
		return Delivery{}, false
	}

	l.rows = slices.Insert(l.rows, min(idx, len(l.rows)), d)

	return d, true
}

// Tick expires the pending undo once its window has passed.
func (l *Ledger) Tick() bool {
	return l.removed.Tick()
}

func (l *Ledger) UndoPending() bool {
	return l.removed.Pending()
}

func (l *Ledger) Get(id string) (Delivery, error) {
	idx := l.index(id)
	if idx < 0 {
		return Delivery{}, ErrNotFound
	}

	return l.rows[idx], nil
}

// List returns a copy of the deliveries matching filter, in ledger order.
func (l *Ledger) List(filter ListFilter) []Delivery {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]Delivery, 0, len(l.rows))

	for _, d := range l.rows {
		if filter.Shop != "" && d.Shop != filter.Shop {
			continue
		}

		if search != "" && !d.matches(search) {
			continue
		}

		out = append(out, d)
	}

	return out
}

func (d Delivery) matches(search string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		d.Date, dates.Display(d.Date), d.Shop, d.DeliveredBy, d.Item, d.Category, d.Notes,
	}, "\x00"))

	return strings.Contains(haystack, search)
}

// All returns a copy of every delivery.
func (l *Ledger) All() []Delivery {
	return slices.Clone(l.rows)
}

// Shops returns the distinct shop names, sorted.
func (l *Ledger) Shops() []string {
	seen := make(map[string]struct{})

	var shops []string

	for _, d := range l.rows {
		if _, ok := seen[d.Shop]; ok || d.Shop == "" {
			continue
		}

		seen[d.Shop] = struct{}{}
		shops = append(shops, d.Shop)
	}

	sort.Strings(shops)

	return shops
}

// Replace swaps the whole ledger. Derived fields are recomputed and any
// pending undo is dropped.
func (l *Ledger) Replace(rows []Delivery) {
	l.rows = slices.Clone(rows)
	Normalize(l.rows)
	l.removed.Clear()
}

// Append adds rows after the existing ones.
func (l *Ledger) Append(rows []Delivery) {
	added := slices.Clone(rows)
	Normalize(added)
	l.rows = append(l.rows, added...)
}

func (l *Ledger) Clear() {
	l.rows = nil
	l.removed.Clear()
}

// UpdateShopBalance rewrites a shop's aggregate paid or previous balance to
// target. The difference lands on a single row: the newest one for paid, the
// oldest one for the previous balance. The touched value never drops below 0.
func (l *Ledger) UpdateShopBalance(shop string, field BalanceField, target int64) error {
	var idxs []int

	current := int64(0)

	for i, d := range l.rows {
		if d.Shop != shop {
			continue
		}

		idxs = append(idxs, i)

		switch field {
		case BalancePaid:
			current += d.PaidCents
		case BalancePrev:
			current += d.PreviousBalanceCents
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	if len(idxs) == 0 {
		return ErrNotFound
	}

	diff := target - current
	if diff == 0 {
		return nil
	}

	if field == BalancePaid {
		d := &l.rows[idxs[0]]
		d.PaidCents = max(d.PaidCents+diff, 0)
		d.recomputeBalance()

		return nil
	}

	d := &l.rows[idxs[len(idxs)-1]]
	d.PreviousBalanceCents = max(d.PreviousBalanceCents+diff, 0)
	d.recomputeBalance()

	return nil
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.rows, func(d Delivery) bool { return d.ID == id })
}

// Mark is a saved copy of the ledger, including its pending undo.
type Mark struct {
	rows    []Delivery
	removed undo.Slot[Delivery]
}

// Mark captures the ledger so a failed save can be rolled back.
func (l *Ledger) Mark() Mark {
	return Mark{rows: slices.Clone(l.rows), removed: l.removed.Mark()}
}

// Reset restores the ledger to m.
func (l *Ledger) Reset(m Mark) {
	l.rows = m.rows
	l.removed.Reset(m.removed)
}

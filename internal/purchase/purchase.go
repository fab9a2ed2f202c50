package purchase

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/money"
	"github.com/MrJamesThe3rd/bakery/internal/undo"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

var (
	ErrNotFound     = errors.New("purchase not found")
	ErrUnknownField = errors.New("unknown purchase field")
)

// Purchase is a raw-material buy. Everything below TotalCents is derived.
type Purchase struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Item       string  `json:"item"`
	Quantity   float64 `json:"qty"`
	Unit       Unit    `json:"unit"`
	TotalCents int64   `json:"totalCents"`

	Key            string  `json:"key"`
	BaseQuantity   float64 `json:"baseQty"`
	BaseUnit       Unit    `json:"baseUnit"`
	BaseCostCents  int64   `json:"costPerBaseCents"`
	UnitPriceCents int64   `json:"unitPriceCents"`
}

func (p *Purchase) recompute() {
	p.Key = Normalize(p.Item)

	conv := Convert(p.Key, p.Quantity, p.Unit, p.TotalCents)
	p.BaseQuantity = conv.BaseQuantity
	p.BaseUnit = conv.BaseUnit
	p.BaseCostCents = conv.BaseUnitCents

	p.UnitPriceCents, _ = money.Div(p.TotalCents, p.Quantity)
}

// Conversion re-derives the display conversion for the purchase.
func (p Purchase) Conversion() Conversion {
	return Convert(p.Key, p.Quantity, p.Unit, p.TotalCents)
}

type CreateParams struct {
	Date       string
	Item       string
	Quantity   float64
	Unit       Unit
	TotalCents int64
}

type Field string

const (
	FieldDate     Field = "date"
	FieldItem     Field = "item"
	FieldQuantity Field = "qty"
	FieldUnit     Field = "unit"
	FieldTotal    Field = "totalCents"
)

// CostSource says where a resolved cost came from.
type CostSource string

const (
	SourceOverride CostSource = "override"
	SourcePurchase CostSource = "purchase"
	SourcePreset   CostSource = "preset"
	SourceNone     CostSource = "none"
)

type Cost struct {
	Key    string     `json:"key"`
	Cents  int64      `json:"cents"`
	Unit   Unit       `json:"unit"`
	Source CostSource `json:"source"`
}

// Presets are the fallback costs in cents per base unit.
var Presets = map[string]int64{
	Sugar:     58,
	Flour:     56,
	Milk:      19,
	Eggs:      24,
	Oil:       71,
	Packaging: 5,
	Coconut:   308,
	Sesame:    121,
}

// Model owns the purchase list and the per-session cost overrides.
type Model struct {
	purchases []Purchase
	overrides map[string]int64
	removed   *undo.Slot[Purchase]
}

func NewModel(window time.Duration, now func() time.Time) *Model {
	return &Model{
		overrides: make(map[string]int64),
		removed:   undo.New[Purchase](window, now),
	}
}

func validate(key string, qty float64, unit Unit, totalCents int64) error {
	switch {
	case key == "":
		return validation.Field("item", "required")
	case math.IsNaN(qty) || math.IsInf(qty, 0):
		return validation.Field("qty", "must be a finite number")
	case qty <= 0:
		return validation.Field("qty", "must be positive")
	case totalCents <= 0:
		return validation.Field("totalCents", "must be positive")
	case !UnitAllowed(key, unit):
		return validation.Field("unit", fmt.Sprintf("%q is not a valid unit for %s", unit, key))
	case math.IsInf(Convert(key, qty, unit, totalCents).BaseQuantity, 0):
		return validation.Field("qty", "is too large")
	}

	return nil
}

// Add appends a purchase. Later purchases win in LatestCost.
func (m *Model) Add(p CreateParams) (Purchase, error) {
	date, err := dates.Parse(p.Date)
	if err != nil {
		return Purchase{}, validation.Field("date", err.Error())
	}

	item := strings.TrimSpace(p.Item)
	if err := validate(Normalize(item), p.Quantity, p.Unit, p.TotalCents); err != nil {
		return Purchase{}, err
	}

	pu := Purchase{
		ID:         uuid.NewString(),
		Date:       date,
		Item:       item,
		Quantity:   p.Quantity,
		Unit:       p.Unit,
		TotalCents: p.TotalCents,
	}
	pu.recompute()

	m.purchases = append(m.purchases, pu)

	return pu, nil
}

// Update edits one field in place. Editing does not move the purchase, so
// its precedence in LatestCost is unchanged.
func (m *Model) Update(id string, field Field, value string) (Purchase, error) {
	idx := m.index(id)
	if idx < 0 {
		return Purchase{}, ErrNotFound
	}

	next := m.purchases[idx]
	value = strings.TrimSpace(value)

	switch field {
	case FieldDate:
		date, err := dates.Parse(value)
		if err != nil {
			return Purchase{}, validation.Field(string(field), err.Error())
		}

		next.Date = date
	case FieldItem:
		next.Item = value
	case FieldQuantity:
		qty, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Purchase{}, validation.Field(string(field), "must be a number")
		}

		next.Quantity = qty
	case FieldUnit:
		next.Unit = Unit(strings.ToLower(value))
	case FieldTotal:
		next.TotalCents = money.ParseCents(value)
	default:
		return Purchase{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	if err := validate(Normalize(next.Item), next.Quantity, next.Unit, next.TotalCents); err != nil {
		return Purchase{}, err
	}

	next.recompute()
	m.purchases[idx] = next

	return next, nil
}

func (m *Model) Remove(id string) (Purchase, error) {
	idx := m.index(id)
	if idx < 0 {
		return Purchase{}, ErrNotFound
	}

	p := m.purchases[idx]
	m.purchases = slices.Delete(m.purchases, idx, idx+1)
	m.removed.Hold(p, idx)

	return p, nil
}

func (m *Model) Undo() (Purchase, bool) {
	p, idx, ok := m.removed.Undo()
	if !ok {
		return Purchase{}, false
	}

	m.purchases = slices.Insert(m.purchases, min(idx, len(m.purchases)), p)

	return p, true
}

func (m *Model) Tick() bool {
	return m.removed.Tick()
}

func (m *Model) List() []Purchase {
	return slices.Clone(m.purchases)
}

// Replace swaps the purchase list, recomputing derived fields.
func (m *Model) Replace(ps []Purchase) {
	m.purchases = slices.Clone(ps)
	for i := range m.purchases {
		m.purchases[i].recompute()
	}

	m.removed.Clear()
}

func (m *Model) Append(ps []Purchase) {
	for _, p := range ps {
		p.recompute()
		m.purchases = append(m.purchases, p)
	}
}

func (m *Model) Clear() {
	m.purchases = nil
	m.overrides = make(map[string]int64)
	m.removed.Clear()
}

// SetOverride pins a manual cost for the session. A non-positive value
// clears the override.
func (m *Model) SetOverride(item string, cents int64) {
	key := Normalize(item)
	if cents <= 0 {
		delete(m.overrides, key)
		return
	}

	m.overrides[key] = cents
}

func (m *Model) ClearOverride(item string) {
	delete(m.overrides, Normalize(item))
}

func (m *Model) Overrides() map[string]int64 {
	out := make(map[string]int64, len(m.overrides))
	for k, v := range m.overrides {
		out[k] = v
	}

	return out
}

// LatestCost resolves the cost of one base unit of item: the session
// override first, then the last purchase in list order, then the preset.
func (m *Model) LatestCost(item string) Cost {
	key := Normalize(item)
	c := Cost{Key: key, Unit: BaseUnitFor(key)}

	if v, ok := m.overrides[key]; ok && v > 0 {
		c.Cents, c.Source = v, SourceOverride
		return c
	}

	for i := len(m.purchases) - 1; i >= 0; i-- {
		if p := m.purchases[i]; p.Key == key && p.BaseQuantity > 0 {
			c.Cents, c.Source = p.BaseCostCents, SourcePurchase
			return c
		}
	}

	if v, ok := Presets[key]; ok {
		c.Cents, c.Source = v, SourcePreset
		return c
	}

	c.Source = SourceNone

	return c
}

// Costs resolves LatestCost for every preset ingredient.
func (m *Model) Costs() []Cost {
	out := make([]Cost, 0, len(Ingredients))
	for _, key := range Ingredients {
		out = append(out, m.LatestCost(key))
	}

	return out
}

func (m *Model) index(id string) int {
	return slices.IndexFunc(m.purchases, func(p Purchase) bool { return p.ID == id })
}

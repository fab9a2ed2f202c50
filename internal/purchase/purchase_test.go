package purchase_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

func TestModel_Add(t *testing.T) {
	type testCase struct {
		name      string
		params    purchase.CreateParams
		wantField string
	}

	tests := []testCase{
		{
			name:   "Success",
			params: purchase.CreateParams{Date: "2024-05-01", Item: "Sugar", Quantity: 10, Unit: purchase.UnitPound, TotalCents: 600},
		},
		{
			name:      "IncompatibleUnit",
			params:    purchase.CreateParams{Date: "2024-05-01", Item: "Milk", Quantity: 1, Unit: purchase.UnitKilo, TotalCents: 300},
			wantField: "unit",
		},
		{
			name:      "ZeroQuantity",
			params:    purchase.CreateParams{Date: "2024-05-01", Item: "Sugar", Unit: purchase.UnitPound, TotalCents: 300},
			wantField: "qty",
		},
		{
			name:      "MissingItem",
			params:    purchase.CreateParams{Date: "2024-05-01", Quantity: 1, Unit: purchase.UnitEach, TotalCents: 300},
			wantField: "item",
		},
		{
			name:      "OverflowingQuantity",
			params:    purchase.CreateParams{Date: "2024-05-01", Item: "Milk", Quantity: 1e308, Unit: purchase.UnitGallon, TotalCents: 300},
			wantField: "qty",
		},
		{
			name:      "InfiniteQuantity",
			params:    purchase.CreateParams{Date: "2024-05-01", Item: "Sugar", Quantity: math.Inf(1), Unit: purchase.UnitPound, TotalCents: 300},
			wantField: "qty",
		},
		{
			name:      "ZeroTotal",
			params:    purchase.CreateParams{Date: "2024-05-01", Item: "Flour", Quantity: 1, Unit: purchase.UnitPound},
			wantField: "totalCents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := purchase.NewModel(0, nil)

			var (
				got purchase.Purchase
				err error
			)
			require.NotPanics(t, func() {
				got, err = m.Add(tt.params)
			})
			if tt.wantField != "" {
				var fe *validation.FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantField, fe.Field)
				assert.Empty(t, m.List())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, purchase.Sugar, got.Key)
			assert.Equal(t, int64(60), got.BaseCostCents)
			assert.Equal(t, int64(60), got.UnitPriceCents)
		})
	}
}

func TestModel_LatestCostPrecedence(t *testing.T) {
	m := purchase.NewModel(0, nil)

	assert.Equal(t, purchase.Cost{Key: purchase.Milk, Cents: 19, Unit: purchase.BaseCup, Source: purchase.SourcePreset}, m.LatestCost("Milk"))

	first, err := m.Add(purchase.CreateParams{Date: "2024-05-02", Item: "milk", Quantity: 1, Unit: purchase.UnitGallon, TotalCents: 320})
	require.NoError(t, err)

	// Older date, added later: insertion order decides.
	_, err = m.Add(purchase.CreateParams{Date: "2024-04-01", Item: "Milk", Quantity: 1, Unit: purchase.UnitGallon, TotalCents: 480})
	require.NoError(t, err)

	m.SetOverride("MILK", 25)

	got := m.LatestCost("milk")
	assert.Equal(t, int64(25), got.Cents)
	assert.Equal(t, purchase.SourceOverride, got.Source)

	m.ClearOverride("milk")

	got = m.LatestCost("milk")
	assert.Equal(t, int64(30), got.Cents)
	assert.Equal(t, purchase.SourcePurchase, got.Source)

	for _, p := range m.List() {
		_, err := m.Remove(p.ID)
		require.NoError(t, err)
	}

	got = m.LatestCost("milk")
	assert.Equal(t, int64(19), got.Cents)
	assert.Equal(t, purchase.SourcePreset, got.Source)

	assert.Equal(t, purchase.SourceNone, m.LatestCost("vanilla").Source)
	assert.NotEmpty(t, first.ID)
}

func TestModel_SetOverrideNonPositiveClears(t *testing.T) {
	m := purchase.NewModel(0, nil)

	m.SetOverride("flour", 70)
	m.SetOverride("flour", 0)

	assert.Equal(t, purchase.SourcePreset, m.LatestCost("flour").Source)
	assert.Empty(t, m.Overrides())
}

func TestModel_Update(t *testing.T) {
	m := purchase.NewModel(0, nil)

	p, err := m.Add(purchase.CreateParams{Date: "2024-05-01", Item: "Sugar", Quantity: 10, Unit: purchase.UnitPound, TotalCents: 600})
	require.NoError(t, err)

	got, err := m.Update(p.ID, purchase.FieldUnit, "kg")
	require.NoError(t, err)
	assert.InDelta(t, 22.0462, got.BaseQuantity, 1e-9)
	assert.Equal(t, int64(27), got.BaseCostCents)

	got, err = m.Update(p.ID, purchase.FieldTotal, "$12.00")
	require.NoError(t, err)
	assert.Equal(t, int64(1200), got.TotalCents)
	assert.Equal(t, int64(120), got.UnitPriceCents)

	_, err = m.Update(p.ID, purchase.FieldUnit, "gallon")
	assert.ErrorIs(t, err, validation.ErrInvalid)

	stored := m.List()[0]
	assert.Equal(t, purchase.UnitKilo, stored.Unit, "rejected edit leaves the purchase untouched")

	_, err = m.Update(p.ID, purchase.FieldItem, "Eggs")
	assert.ErrorIs(t, err, validation.ErrInvalid, "kg is not an egg unit")

	_, err = m.Update("missing", purchase.FieldQuantity, "1")
	assert.ErrorIs(t, err, purchase.ErrNotFound)
}

func TestModel_UpdateNonFiniteQuantity(t *testing.T) {
	m := purchase.NewModel(0, nil)

	p, err := m.Add(purchase.CreateParams{Date: "2024-05-01", Item: "Milk", Quantity: 1, Unit: purchase.UnitGallon, TotalCents: 400})
	require.NoError(t, err)

	for _, value := range []string{"NaN", "Inf", "-Inf", "1e308"} {
		t.Run(value, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err = m.Update(p.ID, purchase.FieldQuantity, value)
			})

			var fe *validation.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "qty", fe.Field)
			assert.Equal(t, 1.0, m.List()[0].Quantity)
		})
	}
}

func TestModel_RemoveUndo(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	m := purchase.NewModel(10*time.Second, func() time.Time { return now })

	a, _ := m.Add(purchase.CreateParams{Date: "2024-05-01", Item: "Oil", Quantity: 1, Unit: purchase.UnitLiter, TotalCents: 300})
	b, _ := m.Add(purchase.CreateParams{Date: "2024-05-01", Item: "Oil", Quantity: 1, Unit: purchase.UnitLiter, TotalCents: 600})

	_, err := m.Remove(a.ID)
	require.NoError(t, err)

	_, ok := m.Undo()
	require.True(t, ok)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)
}

func TestModel_Costs(t *testing.T) {
	m := purchase.NewModel(0, nil)

	costs := m.Costs()
	require.Len(t, costs, len(purchase.Ingredients))

	for _, c := range costs {
		assert.Equal(t, purchase.Presets[c.Key], c.Cents)
	}
}

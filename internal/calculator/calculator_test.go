package calculator_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bakery/internal/calculator"
	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

func TestCompute(t *testing.T) {
	type testCase struct {
		name    string
		inputs  calculator.Inputs
		want    calculator.Result
		wantErr error
	}

	tests := []testCase{
		{
			name:    "AllZero",
			inputs:  calculator.Inputs{Ingredients: map[string]float64{"sugar": 0}},
			wantErr: calculator.ErrNothingToCalculate,
		},
		{
			name:    "Empty",
			wantErr: calculator.ErrNothingToCalculate,
		},
		{
			name:    "ZeroPieces",
			inputs:  calculator.Inputs{Ingredients: map[string]float64{"flour": 2}},
			wantErr: calculator.ErrPiecesRequired,
		},
		{
			name: "PresetCosts",
			inputs: calculator.Inputs{
				Ingredients:          map[string]float64{"sugar": 2, "eggs": 6, "flour": 0},
				PackagingCents:       5,
				ElectricityKwh:       2,
				ElectricityRateCents: 20,
				Pieces:               10,
				PricePerPieceCents:   50,
			},
			want: calculator.Result{
				Lines: []calculator.Line{
					{Key: "eggs", Quantity: 6, UnitCents: 24, Source: purchase.SourcePreset, CostCents: 144},
					{Key: "sugar", Quantity: 2, UnitCents: 58, Source: purchase.SourcePreset, CostCents: 116},
				},
				IngredientsCents: 260,
				PackagingCents:   50,
				ElectricityCents: 40,
				TotalCostCents:   350,
				CostPerPiece:     35,
				ProfitPerPiece:   15,
				TotalProfit:      150,
			},
		},
		{
			name: "DefaultElectricityRate",
			inputs: calculator.Inputs{
				ElectricityKwh: 10,
				Pieces:         2,
			},
			want: calculator.Result{
				ElectricityCents: 170,
				TotalCostCents:   170,
				CostPerPiece:     85,
				ProfitPerPiece:   -85,
				TotalProfit:      -170,
			},
		},
		{
			name: "UnevenCostPerPiece",
			inputs: calculator.Inputs{
				ElectricityKwh:       10,
				ElectricityRateCents: 1,
				Pieces:               3,
				PricePerPieceCents:   10,
			},
			want: calculator.Result{
				ElectricityCents: 10,
				TotalCostCents:   10,
				CostPerPiece:     3,
				ProfitPerPiece:   7,
				TotalProfit:      20,
			},
		},
		{
			name: "InfiniteIngredient",
			inputs: calculator.Inputs{
				Ingredients: map[string]float64{"flour": math.Inf(1)},
				Pieces:      1,
			},
			wantErr: validation.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calculator.Compute(purchase.NewModel(0, nil), tt.inputs)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_UsesOverride(t *testing.T) {
	m := purchase.NewModel(0, nil)
	m.SetOverride("sugar", 100)

	got, err := calculator.Compute(m, calculator.Inputs{Ingredients: map[string]float64{"Sugar": 1.5}, Pieces: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.TotalCostCents)
	assert.Equal(t, int64(50), got.CostPerPiece)
	assert.Equal(t, purchase.SourceOverride, got.Lines[0].Source)
}

func TestDebouncer(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := calculator.NewDebouncer(150*time.Millisecond, func() time.Time { return now })

	assert.True(t, d.Allow())
	assert.False(t, d.Allow())

	now = now.Add(100 * time.Millisecond)
	assert.False(t, d.Allow())

	now = now.Add(50 * time.Millisecond)
	assert.True(t, d.Allow())
}

func TestSaveLog(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)
	log := calculator.NewSaveLog(3, func() time.Time { return now })

	in := calculator.Inputs{Ingredients: map[string]float64{"sugar": 1}, Pieces: 1}
	costs := map[string]int64{"sugar": 58}

	first := log.Add("", in, calculator.Result{TotalCostCents: 58}, costs)
	assert.Equal(t, "Calculation 2024-01-01 08:30", first.Name)

	// Mutating the caller's maps must not leak into the frozen save.
	in.Ingredients["sugar"] = 99
	costs["sugar"] = 1

	got := log.Active()[0]
	assert.InDelta(t, 1.0, got.Inputs.Ingredients["sugar"], 0)
	assert.Equal(t, int64(58), got.Costs["sugar"])

	for _, name := range []string{"b", "c", "d"} {
		log.Add(name, in, calculator.Result{}, nil)
	}

	all := log.All()
	require.Len(t, all, 3)
	assert.Equal(t, "d", all[0].Name)
	assert.Equal(t, "b", all[2].Name, "oldest evicted")

	require.NoError(t, log.Delete(all[1].ID))
	assert.Len(t, log.Active(), 2)
	require.Len(t, log.Deleted(), 1)
	assert.NotNil(t, log.Deleted()[0].DeletedAt)

	require.NoError(t, log.Restore(all[1].ID))
	assert.Empty(t, log.Deleted())

	require.NoError(t, log.Purge(all[1].ID))
	assert.Len(t, log.All(), 2)
	assert.ErrorIs(t, log.Purge(all[1].ID), calculator.ErrSaveNotFound)
}

package calculator

import (
	"errors"
	"sort"

	"github.com/MrJamesThe3rd/bakery/internal/money"
	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

var (
	ErrNothingToCalculate = errors.New("nothing to calculate")
	ErrPiecesRequired     = errors.New("pieces required")
)

// DefaultElectricityRateCents is the per-kWh rate used when none is given.
const DefaultElectricityRateCents = 17

// CostSource resolves the current cost of one base unit of an ingredient.
type CostSource interface {
	LatestCost(item string) purchase.Cost
}

// Inputs describes one production batch. Ingredient quantities are in each
// ingredient's base unit (lb, cup, egg, unit).
type Inputs struct {
	Ingredients          map[string]float64 `json:"ingredients"`
	PackagingCents       int64              `json:"packagingCents"`
	ElectricityKwh       float64            `json:"electricityKwh"`
	ElectricityRateCents int64              `json:"electricityRateCents"`
	Pieces               int64              `json:"pieces"`
	PricePerPieceCents   int64              `json:"pricePerPieceCents"`
}

func (in Inputs) empty() bool {
	for _, qty := range in.Ingredients {
		if qty != 0 {
			return false
		}
	}

	return in.PackagingCents == 0 && in.ElectricityKwh == 0 &&
		in.Pieces == 0 && in.PricePerPieceCents == 0
}

// Line is one ingredient's contribution to the batch cost.
type Line struct {
	Key       string              `json:"key"`
	Quantity  float64             `json:"quantity"`
	UnitCents int64               `json:"unitCents"`
	Source    purchase.CostSource `json:"source"`
	CostCents int64               `json:"costCents"`
}

type Result struct {
	Lines            []Line `json:"lines"`
	IngredientsCents int64  `json:"ingredientsCents"`
	PackagingCents   int64  `json:"packagingCents"`
	ElectricityCents int64  `json:"electricityCents"`
	TotalCostCents   int64  `json:"totalCostCents"`
	CostPerPiece     int64  `json:"costPerPieceCents"`
	ProfitPerPiece   int64  `json:"profitPerPieceCents"`
	TotalProfit      int64  `json:"totalProfitCents"`
}

// Compute prices a batch. It refuses to divide by zero pieces and reports
// an all-zero input as ErrNothingToCalculate.
func Compute(costs CostSource, in Inputs) (Result, error) {
	if in.empty() {
		return Result{}, ErrNothingToCalculate
	}

	if in.Pieces <= 0 {
		return Result{}, ErrPiecesRequired
	}

	keys := make([]string, 0, len(in.Ingredients))
	for k := range in.Ingredients {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var r Result

	for _, k := range keys {
		qty := in.Ingredients[k]
		if qty == 0 {
			continue
		}

		c := costs.LatestCost(k)

		lineCents, ok := money.Mul(c.Cents, qty)
		if !ok {
			return Result{}, validation.Field("ingredients."+k, "must be a finite number")
		}

		line := Line{
			Key:       c.Key,
			Quantity:  qty,
			UnitCents: c.Cents,
			Source:    c.Source,
			CostCents: lineCents,
		}
		r.Lines = append(r.Lines, line)
		r.IngredientsCents += line.CostCents
	}

	rate := in.ElectricityRateCents
	if rate == 0 {
		rate = DefaultElectricityRateCents
	}

	electricity, ok := money.Mul(rate, in.ElectricityKwh)
	if !ok {
		return Result{}, validation.Field("electricityKwh", "must be a finite number")
	}

	r.PackagingCents = in.PackagingCents * in.Pieces
	r.ElectricityCents = electricity
	r.TotalCostCents = r.IngredientsCents + r.PackagingCents + r.ElectricityCents

	// Per-piece figures are rounded for display only; the batch profit is
	// exact.
	r.CostPerPiece, _ = money.Div(r.TotalCostCents, float64(in.Pieces))
	r.ProfitPerPiece = in.PricePerPieceCents - r.CostPerPiece
	r.TotalProfit = in.PricePerPieceCents*in.Pieces - r.TotalCostCents

	return r, nil
}

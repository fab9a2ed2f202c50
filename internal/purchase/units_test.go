package purchase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bakery/internal/purchase"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Eggs":           purchase.Eggs,
		" egg ":          purchase.Eggs,
		"Sugar (white)":  purchase.Sugar,
		"FLOUR":          purchase.Flour,
		"milk powder":    purchase.Milk,
		"Oil":            purchase.Oil,
		"Packages":       purchase.Packaging,
		"packaging box":  purchase.Packaging,
		"Coconut flakes": purchase.Coconut,
		"sesame seeds":   purchase.Sesame,
		"  Vanilla ":     "vanilla",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, purchase.Normalize(in))
		})
	}
}

func TestUnitAllowed(t *testing.T) {
	assert.True(t, purchase.UnitAllowed(purchase.Sugar, purchase.UnitKilo))
	assert.False(t, purchase.UnitAllowed(purchase.Sugar, purchase.UnitGallon))
	assert.True(t, purchase.UnitAllowed(purchase.Eggs, purchase.UnitPack))
	assert.False(t, purchase.UnitAllowed(purchase.Packaging, purchase.UnitDozen))
	assert.True(t, purchase.UnitAllowed("vanilla", "bottle"))
	assert.False(t, purchase.UnitAllowed("vanilla", ""))
	assert.Nil(t, purchase.AllowedUnits("vanilla"))
}

func TestConvert(t *testing.T) {
	type args struct {
		key   string
		qty   float64
		unit  purchase.Unit
		total int64
	}

	type testCase struct {
		name          string
		args          args
		wantBase      purchase.Unit
		wantCents     int64
		wantSecondary int64
	}

	tests := []testCase{
		{name: "SugarPounds", args: args{purchase.Sugar, 10, purchase.UnitPound, 580}, wantBase: purchase.BasePound, wantCents: 58},
		{name: "SugarKilos", args: args{purchase.Sugar, 1, purchase.UnitKilo, 128}, wantBase: purchase.BasePound, wantCents: 58},
		{name: "CoconutKilos", args: args{purchase.Coconut, 1, purchase.UnitKilo, 679}, wantBase: purchase.BasePound, wantCents: 308},
		{name: "MilkGallon", args: args{purchase.Milk, 1, purchase.UnitGallon, 304}, wantBase: purchase.BaseCup, wantCents: 19, wantSecondary: 304},
		{name: "OilLiter", args: args{purchase.Oil, 1, purchase.UnitLiter, 300}, wantBase: purchase.BaseCup, wantCents: 71, wantSecondary: 300},
		{name: "EggsDozen", args: args{purchase.Eggs, 2, purchase.UnitDozen, 576}, wantBase: purchase.BaseEgg, wantCents: 24},
		{name: "EggsPack", args: args{purchase.Eggs, 1, purchase.UnitPack, 1440}, wantBase: purchase.BaseEgg, wantCents: 24},
		{name: "Packaging", args: args{purchase.Packaging, 200, purchase.UnitEach, 1000}, wantBase: purchase.BaseUnit, wantCents: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := purchase.Convert(tt.args.key, tt.args.qty, tt.args.unit, tt.args.total)

			assert.True(t, got.OK)
			assert.Equal(t, tt.wantBase, got.BaseUnit)
			assert.Equal(t, tt.wantCents, got.BaseUnitCents)
			assert.Equal(t, tt.wantSecondary, got.SecondaryCents)
		})
	}
}

func TestConvert_GallonMatchesCups(t *testing.T) {
	gallon := purchase.Convert(purchase.Milk, 1, purchase.UnitGallon, 450)
	cups := purchase.Convert(purchase.Milk, 16, purchase.UnitCup, 450)

	assert.Equal(t, gallon.BaseUnitCents, cups.BaseUnitCents)
	assert.InDelta(t, gallon.BaseQuantity, cups.BaseQuantity, 1e-9)
}

func TestConvert_ZeroQuantity(t *testing.T) {
	got := purchase.Convert(purchase.Flour, 0, purchase.UnitPound, 500)

	assert.False(t, got.OK)
	assert.Zero(t, got.BaseUnitCents)
}

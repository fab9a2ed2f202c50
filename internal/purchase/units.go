package purchase

import (
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/bakery/internal/money"
)

// Unit is a purchase-time unit of measure.
type Unit string

const (
	UnitPound  Unit = "lb"
	UnitKilo   Unit = "kg"
	UnitGallon Unit = "gallon"
	UnitLiter  Unit = "liter"
	UnitCup    Unit = "cup"
	UnitDozen  Unit = "dozen"
	UnitPack   Unit = "pack"
	UnitEach   Unit = "unit"
)

// Base units that costs are expressed in.
const (
	BasePound Unit = "lb"
	BaseCup   Unit = "cup"
	BaseEgg   Unit = "egg"
	BaseUnit  Unit = "unit"
)

// Canonical ingredient keys.
const (
	Sugar     = "sugar"
	Flour     = "flour"
	Milk      = "milk"
	Eggs      = "eggs"
	Oil       = "oil"
	Packaging = "packaging"
	Coconut   = "coconut"
	Sesame    = "sesame"
)

// Ingredients lists every ingredient with a preset cost, in display order.
var Ingredients = []string{Sugar, Flour, Milk, Eggs, Oil, Packaging, Coconut, Sesame}

const (
	lbPerKg      = 2.20462
	cupsPerGal   = 16.0
	cupsPerLiter = 1000 / 236.588
	eggsPerDozen = 12.0
	eggsPerPack  = 60.0
)

var allowedUnits = map[string][]Unit{
	Sugar:     {UnitPound, UnitKilo},
	Flour:     {UnitPound, UnitKilo},
	Coconut:   {UnitPound, UnitKilo},
	Sesame:    {UnitPound, UnitKilo},
	Milk:      {UnitGallon, UnitLiter, UnitCup},
	Oil:       {UnitLiter, UnitGallon},
	Eggs:      {UnitDozen, UnitPack, UnitEach},
	Packaging: {UnitEach},
}

// Normalize maps a free-text item name to its canonical ingredient key.
// Unknown names come back lowercased and trimmed.
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))

	switch {
	case strings.HasPrefix(n, "egg"):
		return Eggs
	case strings.HasPrefix(n, "packag"):
		return Packaging
	}

	for _, key := range []string{Sugar, Flour, Milk, Oil, Coconut, Sesame} {
		if strings.HasPrefix(n, key) {
			return key
		}
	}

	return n
}

// AllowedUnits returns the purchase units accepted for key, or nil when any
// unit is accepted.
func AllowedUnits(key string) []Unit {
	return slices.Clone(allowedUnits[key])
}

func UnitAllowed(key string, unit Unit) bool {
	units, known := allowedUnits[key]
	if !known {
		return unit != ""
	}

	return slices.Contains(units, unit)
}

// BaseUnitFor returns the unit costs for key are expressed in.
func BaseUnitFor(key string) Unit {
	switch key {
	case Sugar, Flour, Coconut, Sesame:
		return BasePound
	case Milk, Oil:
		return BaseCup
	case Eggs:
		return BaseEgg
	}

	return BaseUnit
}

// Conversion is a purchase quantity expressed in its ingredient's base unit.
type Conversion struct {
	BaseQuantity float64 `json:"baseQty"`
	BaseUnit     Unit    `json:"baseUnit"`

	// BaseUnitCents is the rounded cost of one base unit. OK is false when
	// the base quantity is zero and no cost could be derived.
	BaseUnitCents int64 `json:"baseUnitCents"`
	OK            bool  `json:"ok"`

	// Secondary is a display-only reading in a friendlier unit, such as
	// cost per gallon for milk. Empty when not applicable.
	SecondaryCents int64 `json:"secondaryCents,omitempty"`
	SecondaryUnit  Unit  `json:"secondaryUnit,omitempty"`
}

// Convert expresses qty of unit in key's base unit and derives the cost of
// one base unit from totalCents.
func Convert(key string, qty float64, unit Unit, totalCents int64) Conversion {
	c := Conversion{BaseUnit: BaseUnitFor(key)}

	switch c.BaseUnit {
	case BasePound:
		c.BaseQuantity = qty
		if unit == UnitKilo {
			c.BaseQuantity = qty * lbPerKg
		}
	case BaseCup:
		switch unit {
		case UnitGallon:
			c.BaseQuantity = qty * cupsPerGal
		case UnitLiter:
			c.BaseQuantity = qty * cupsPerLiter
		default:
			c.BaseQuantity = qty
		}
	case BaseEgg:
		switch unit {
		case UnitDozen:
			c.BaseQuantity = qty * eggsPerDozen
		case UnitPack:
			c.BaseQuantity = qty * eggsPerPack
		default:
			c.BaseQuantity = qty
		}
	default:
		c.BaseQuantity = qty
	}

	c.BaseUnitCents, c.OK = money.Div(totalCents, c.BaseQuantity)
	if !c.OK {
		return c
	}

	switch key {
	case Milk:
		c.SecondaryUnit = UnitGallon
		c.SecondaryCents, _ = money.Div(totalCents, c.BaseQuantity/cupsPerGal)
	case Oil:
		c.SecondaryUnit = UnitLiter
		c.SecondaryCents, _ = money.Div(totalCents, c.BaseQuantity/cupsPerLiter)
	}

	return c
}

package delivery

import "errors"

var (
	ErrNotFound     = errors.New("delivery not found")
	ErrUnknownField = errors.New("unknown delivery field")
)

// Delivery is goods handed to a shop on credit.
type Delivery struct {
	ID                   string `json:"id"`
	Date                 string `json:"date"`
	Shop                 string `json:"shop"`
	DeliveredBy          string `json:"deliveredBy"`
	Item                 string `json:"item"`
	Category             string `json:"category"`
	Quantity             int64  `json:"quantity"`
	UnitPriceCents       int64  `json:"perPieceCents"`
	UnitCostCents        int64  `json:"costCents"`
	PaidCents            int64  `json:"paidCents"`
	PreviousBalanceCents int64  `json:"previousBalanceCents"` // negative means shop credit
	Notes                string `json:"notes"`

	// Derived, see recompute.
	TotalCents   int64 `json:"totalCents"`
	ProfitCents  int64 `json:"profitCents"`
	BalanceCents int64 `json:"balanceCents"`
}

// Field names a user-editable column of a delivery.
type Field string

const (
	FieldDate            Field = "date"
	FieldShop            Field = "shop"
	FieldDeliveredBy     Field = "deliveredBy"
	FieldItem            Field = "item"
	FieldCategory        Field = "category"
	FieldQuantity        Field = "quantity"
	FieldUnitPrice       Field = "perPieceCents"
	FieldUnitCost        Field = "costCents"
	FieldPaid            Field = "paidCents"
	FieldPreviousBalance Field = "previousBalanceCents"
	FieldNotes           Field = "notes"
)

func (d *Delivery) recomputeTotal() {
	d.TotalCents = d.Quantity * d.UnitPriceCents
}

func (d *Delivery) recomputeProfit() {
	d.ProfitCents = d.Quantity * (d.UnitPriceCents - d.UnitCostCents)
}

func (d *Delivery) recomputeBalance() {
	d.BalanceCents = d.PreviousBalanceCents + d.TotalCents - d.PaidCents
}

func (d *Delivery) recompute() {
	d.recomputeTotal()
	d.recomputeProfit()
	d.recomputeBalance()
}

// Normalize recomputes every derived field, e.g. after loading rows
// written by an older version or edited by hand.
func Normalize(rows []Delivery) {
	for i := range rows {
		rows[i].recompute()
	}
}

package transaction

import "errors"

var ErrNotFound = errors.New("transaction not found")

// Kind represents how a manual entry settles a shop's debt.
type Kind string

const (
	KindPayment   Kind = "payment"
	KindDeduction Kind = "deduction"
)

func (k Kind) Valid() bool {
	return k == KindPayment || k == KindDeduction
}

// Transaction is a manual payment or deduction recorded outside of any
// delivery. Both kinds count toward the amount paid; a deduction is money
// already settled against the debt, not a negative payment.
type Transaction struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Kind        Kind   `json:"type"`
	AmountCents int64  `json:"amountCents"` // Amount in cents
	Shop        string `json:"shop,omitempty"`
	Notes       string `json:"notes"`
}

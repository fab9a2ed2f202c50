package transaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bakery/internal/transaction"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLedger_Add(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name    string
		args    args
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Payment",
			args: args{params: transaction.CreateParams{Date: "2024-05-02", Kind: transaction.KindPayment, AmountCents: 500}},
		},
		{
			name: "Deduction",
			args: args{params: transaction.CreateParams{Date: "5/2/2024", Kind: transaction.KindDeduction, AmountCents: 50}},
		},
		{
			name:    "ZeroAmount",
			args:    args{params: transaction.CreateParams{Date: "2024-05-02", Kind: transaction.KindPayment}},
			wantErr: true,
		},
		{
			name:    "UnknownKind",
			args:    args{params: transaction.CreateParams{Date: "2024-05-02", Kind: "refund", AmountCents: 1}},
			wantErr: true,
		},
		{
			name:    "BadDate",
			args:    args{params: transaction.CreateParams{Date: "soon", Kind: transaction.KindPayment, AmountCents: 1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := transaction.NewLedger(10*time.Second, nil)

			got, err := l.Add(tt.args.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, validation.ErrInvalid)
				assert.Empty(t, l.All())

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, "2024-05-02", got.Date)
			assert.Len(t, l.All(), 1)
		})
	}
}

func TestLedger_RemoveUndo(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	l := transaction.NewLedger(10*time.Second, clock.Now)

	a, _ := l.Add(transaction.CreateParams{Date: "2024-05-01", Kind: transaction.KindPayment, AmountCents: 100})
	b, _ := l.Add(transaction.CreateParams{Date: "2024-05-01", Kind: transaction.KindDeduction, AmountCents: 200})

	_, err := l.Remove(a.ID)
	require.NoError(t, err)
	assert.True(t, l.UndoPending())

	got, ok := l.Undo()
	require.True(t, ok)
	assert.Equal(t, a, got)
	assert.Equal(t, []transaction.Transaction{b, a}, l.All())

	_, err = l.Remove(b.ID)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)

	_, ok = l.Undo()
	assert.False(t, ok)
	assert.Equal(t, []transaction.Transaction{a}, l.All())

	_, err = l.Remove("missing")
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestLedger_List(t *testing.T) {
	l := transaction.NewLedger(0, nil)

	_, _ = l.Add(transaction.CreateParams{Date: "2024-05-01", Kind: transaction.KindPayment, AmountCents: 100, Shop: "A"})
	_, _ = l.Add(transaction.CreateParams{Date: "2024-05-01", Kind: transaction.KindDeduction, AmountCents: 100, Shop: "B"})

	assert.Len(t, l.List(transaction.ListFilter{}), 2)
	assert.Len(t, l.List(transaction.ListFilter{Shop: "A"}), 1)
	assert.Len(t, l.List(transaction.ListFilter{Kind: new(transaction.KindDeduction)}), 1)
}

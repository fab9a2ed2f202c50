package transaction

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/undo"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

type CreateParams struct {
	Date        string
	Kind        Kind
	AmountCents int64
	Shop        string
	Notes       string
}

type ListFilter struct {
	Shop string
	Kind *Kind
}

// Ledger holds manual transactions, most-recent-first. Entries are
// immutable; the only mutation besides Add is Remove.
type Ledger struct {
	txs     []Transaction
	removed *undo.Slot[Transaction]
}

func NewLedger(window time.Duration, now func() time.Time) *Ledger {
	return &Ledger{removed: undo.New[Transaction](window, now)}
}

func (l *Ledger) Add(p CreateParams) (Transaction, error) {
	if !p.Kind.Valid() {
		return Transaction{}, validation.Field("type", "must be payment or deduction")
	}

	if p.AmountCents <= 0 {
		return Transaction{}, validation.Field("amountCents", "must be positive")
	}

	date, err := dates.Parse(p.Date)
	if err != nil {
		return Transaction{}, validation.Field("date", err.Error())
	}

	tx := Transaction{
		ID:          uuid.NewString(),
		Date:        date,
		Kind:        p.Kind,
		AmountCents: p.AmountCents,
		Shop:        strings.TrimSpace(p.Shop),
		Notes:       p.Notes,
	}
	l.txs = slices.Insert(l.txs, 0, tx)

	return tx, nil
}

// Remove detaches the transaction and keeps it for a timed undo.
func (l *Ledger) Remove(id string) (Transaction, error) {
	idx := slices.IndexFunc(l.txs, func(tx Transaction) bool { return tx.ID == id })
	if idx < 0 {
		return Transaction{}, ErrNotFound
	}

	tx := l.txs[idx]
	l.txs = slices.Delete(l.txs, idx, idx+1)
	l.removed.Hold(tx, idx)

	return tx, nil
}

func (l *Ledger) Undo() (Transaction, bool) {
	tx, idx, ok := l.removed.Undo()
	if !ok {
		return Transaction{}, false
	}

	l.txs = slices.Insert(l.txs, min(idx, len(l.txs)), tx)

	return tx, true
}

func (l *Ledger) Tick() bool {
	return l.removed.Tick()
}

func (l *Ledger) UndoPending() bool {
	return l.removed.Pending()
}

func (l *Ledger) List(filter ListFilter) []Transaction {
	out := make([]Transaction, 0, len(l.txs))

	for _, tx := range l.txs {
		if filter.Shop != "" && tx.Shop != filter.Shop {
			continue
		}

		if filter.Kind != nil && tx.Kind != *filter.Kind {
			continue
		}

		out = append(out, tx)
	}

	return out
}

func (l *Ledger) All() []Transaction {
	return slices.Clone(l.txs)
}

// Replace swaps every transaction and drops any pending undo.
func (l *Ledger) Replace(txs []Transaction) {
	l.txs = slices.Clone(txs)
	l.removed.Clear()
}

func (l *Ledger) Append(txs []Transaction) {
	l.txs = append(l.txs, txs...)
}

func (l *Ledger) Clear() {
	l.txs = nil
	l.removed.Clear()
}

// Mark is a saved copy of the ledger, including its pending undo.
type Mark struct {
	txs     []Transaction
	removed undo.Slot[Transaction]
}

func (l *Ledger) Mark() Mark {
	return Mark{txs: slices.Clone(l.txs), removed: l.removed.Mark()}
}

func (l *Ledger) Reset(m Mark) {
	l.txs = m.txs
	l.removed.Reset(m.removed)
}

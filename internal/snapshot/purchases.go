package snapshot

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/registry"
)

// PurchaseState is the purchase table and its item list, saved on their own
// so the cost sheet can be swapped without touching the ledger.
type PurchaseState struct {
	Purchases     []purchase.Purchase `json:"purchases"`
	PurchaseItems []string            `json:"purchaseItems"`
}

func (s PurchaseState) Clone() PurchaseState {
	return PurchaseState{
		Purchases:     slices.Clone(s.Purchases),
		PurchaseItems: slices.Clone(s.PurchaseItems),
	}
}

type PurchaseSave struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	PurchaseState
}

// PurchaseLog is the bounded, newest-first list of purchase saves. Unlike
// Log there is no trash: Delete removes the entry for good.
type PurchaseLog struct {
	saves []PurchaseSave
	cap   int
	now   func() time.Time
}

func NewPurchaseLog(limit int, now func() time.Time) *PurchaseLog {
	if limit <= 0 {
		limit = DefaultCap
	}

	if now == nil {
		now = time.Now
	}

	return &PurchaseLog{cap: limit, now: now}
}

// Create stores a deep copy of state under name, evicting the oldest save
// once the log is full.
func (l *PurchaseLog) Create(name string, state PurchaseState) PurchaseSave {
	name = strings.TrimSpace(name)
	if name == "" {
		name = untitled
	}

	s := PurchaseSave{
		ID:            uuid.NewString(),
		Timestamp:     l.now(),
		Name:          name,
		PurchaseState: state.Clone(),
	}

	l.saves = slices.Insert(l.saves, 0, s)
	if len(l.saves) > l.cap {
		l.saves = l.saves[:l.cap]
	}

	return s
}

func (l *PurchaseLog) Get(id string) (PurchaseSave, error) {
	i := l.index(id)
	if i < 0 {
		return PurchaseSave{}, ErrNotFound
	}

	s := l.saves[i]
	s.PurchaseState = s.PurchaseState.Clone()

	return s, nil
}

func (l *PurchaseLog) All() []PurchaseSave {
	return slices.Clone(l.saves)
}

func (l *PurchaseLog) Replace(saves []PurchaseSave) {
	l.saves = slices.Clone(saves)
	if len(l.saves) > l.cap {
		l.saves = l.saves[:l.cap]
	}
}

// Delete removes a save permanently. phrase must equal ConfirmPhrase.
func (l *PurchaseLog) Delete(id, phrase string) error {
	if strings.TrimSpace(phrase) != ConfirmPhrase {
		return ErrConfirmationMismatch
	}

	i := l.index(id)
	if i < 0 {
		return ErrNotFound
	}

	l.saves = slices.Delete(l.saves, i, i+1)

	return nil
}

func (l *PurchaseLog) index(id string) int {
	return slices.IndexFunc(l.saves, func(s PurchaseSave) bool { return s.ID == id })
}

// MergePurchases combines current with a save. Replace takes the save's
// purchases and items as they are; append adds its purchases after the
// current ones and unions the item lists.
func MergePurchases(current, saved PurchaseState, mode Mode) PurchaseState {
	saved = saved.Clone()

	if mode == ModeReplace {
		return saved
	}

	out := current.Clone()
	out.Purchases = append(out.Purchases, saved.Purchases...)

	items := registry.New(out.PurchaseItems...)
	items.Union(saved.PurchaseItems)
	out.PurchaseItems = items.Names()

	return out
}

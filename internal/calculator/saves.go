package calculator

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSaveCap bounds how many calculations are kept.
const DefaultSaveCap = 10

var ErrSaveNotFound = errors.New("calculation not found")

// Save is a frozen calculator run. Costs holds the unit costs that were in
// effect, so later overrides or purchases do not change it.
type Save struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Name      string           `json:"name"`
	Deleted   bool             `json:"deleted"`
	DeletedAt *time.Time       `json:"deletedAt,omitempty"`
	Inputs    Inputs           `json:"inputs"`
	Costs     map[string]int64 `json:"costs"`
	Result    Result           `json:"result"`
}

// SaveLog keeps the newest saves first and evicts past its cap.
type SaveLog struct {
	saves []Save
	cap   int
	now   func() time.Time
}

func NewSaveLog(limit int, now func() time.Time) *SaveLog {
	if limit <= 0 {
		limit = DefaultSaveCap
	}

	if now == nil {
		now = time.Now
	}

	return &SaveLog{cap: limit, now: now}
}

// Add records a deep copy of inputs, costs and result.
func (l *SaveLog) Add(name string, in Inputs, result Result, costs map[string]int64) Save {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Calculation " + l.now().Format("2006-01-02 15:04")
	}

	ingredients := make(map[string]float64, len(in.Ingredients))
	for k, v := range in.Ingredients {
		ingredients[k] = v
	}

	in.Ingredients = ingredients

	frozen := make(map[string]int64, len(costs))
	for k, v := range costs {
		frozen[k] = v
	}

	result.Lines = slices.Clone(result.Lines)

	s := Save{
		ID:        uuid.NewString(),
		Timestamp: l.now(),
		Name:      name,
		Inputs:    in,
		Costs:     frozen,
		Result:    result,
	}

	l.saves = slices.Insert(l.saves, 0, s)
	if len(l.saves) > l.cap {
		l.saves = l.saves[:l.cap]
	}

	return s
}

// Delete hides a save without discarding it.
func (l *SaveLog) Delete(id string) error {
	i := l.index(id)
	if i < 0 {
		return ErrSaveNotFound
	}

	now := l.now()
	l.saves[i].Deleted = true
	l.saves[i].DeletedAt = &now

	return nil
}

func (l *SaveLog) Restore(id string) error {
	i := l.index(id)
	if i < 0 {
		return ErrSaveNotFound
	}

	l.saves[i].Deleted = false
	l.saves[i].DeletedAt = nil

	return nil
}

// Purge removes a save for good.
func (l *SaveLog) Purge(id string) error {
	i := l.index(id)
	if i < 0 {
		return ErrSaveNotFound
	}

	l.saves = slices.Delete(l.saves, i, i+1)

	return nil
}

func (l *SaveLog) Active() []Save {
	return l.filter(false)
}

func (l *SaveLog) Deleted() []Save {
	return l.filter(true)
}

func (l *SaveLog) All() []Save {
	return slices.Clone(l.saves)
}

func (l *SaveLog) Replace(saves []Save) {
	l.saves = slices.Clone(saves)
	if len(l.saves) > l.cap {
		l.saves = l.saves[:l.cap]
	}
}

func (l *SaveLog) filter(deleted bool) []Save {
	var out []Save

	for _, s := range l.saves {
		if s.Deleted == deleted {
			out = append(out, s)
		}
	}

	return out
}

func (l *SaveLog) index(id string) int {
	return slices.IndexFunc(l.saves, func(s Save) bool { return s.ID == id })
}

package snapshot

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultCap is how many snapshots are kept before the oldest is evicted.
	DefaultCap = 5

	// ConfirmPhrase must be typed to permanently delete a snapshot.
	ConfirmPhrase = "DELETE"

	untitled = "Untitled"
)

var (
	ErrNotFound             = errors.New("snapshot not found")
	ErrNotDeleted           = errors.New("snapshot is not deleted")
	ErrConfirmationMismatch = errors.New("confirmation phrase does not match")
)

type Snapshot struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Name      string     `json:"name"`
	Shop      string     `json:"shop,omitempty"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	State     State      `json:"data"`
}

// Log is a bounded, newest-first list of snapshots. Eviction on overflow
// drops the oldest entry outright, deleted or not.
type Log struct {
	snaps []Snapshot
	cap   int
	now   func() time.Time
}

func NewLog(limit int, now func() time.Time) *Log {
	if limit <= 0 {
		limit = DefaultCap
	}

	if now == nil {
		now = time.Now
	}

	return &Log{cap: limit, now: now}
}

// Create stores a deep copy of state under name. A non-empty shop marks the
// snapshot as scoped to that shop's deliveries.
func (l *Log) Create(name, shop string, state State) Snapshot {
	name = strings.TrimSpace(name)
	if name == "" {
		name = untitled
	}

	s := Snapshot{
		ID:        uuid.NewString(),
		Timestamp: l.now(),
		Name:      name,
		Shop:      shop,
		State:     state.Clone(),
	}

	l.snaps = slices.Insert(l.snaps, 0, s)
	if len(l.snaps) > l.cap {
		l.snaps = l.snaps[:l.cap]
	}

	return s
}

// Get returns a copy of the snapshot; callers cannot mutate the stored one.
func (l *Log) Get(id string) (Snapshot, error) {
	i := l.index(id)
	if i < 0 {
		return Snapshot{}, ErrNotFound
	}

	s := l.snaps[i]
	s.State = s.State.Clone()

	return s, nil
}

func (l *Log) Active() []Snapshot {
	return l.filter(false)
}

func (l *Log) Deleted() []Snapshot {
	return l.filter(true)
}

func (l *Log) All() []Snapshot {
	return slices.Clone(l.snaps)
}

func (l *Log) Replace(snaps []Snapshot) {
	l.snaps = slices.Clone(snaps)
	if len(l.snaps) > l.cap {
		l.snaps = l.snaps[:l.cap]
	}
}

func (l *Log) Rename(id, name string) (Snapshot, error) {
	i := l.index(id)
	if i < 0 {
		return Snapshot{}, ErrNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = untitled
	}

	l.snaps[i].Name = name

	return l.snaps[i], nil
}

// Delete soft-deletes a snapshot.
func (l *Log) Delete(id string) error {
	i := l.index(id)
	if i < 0 {
		return ErrNotFound
	}

	now := l.now()
	l.snaps[i].Deleted = true
	l.snaps[i].DeletedAt = &now

	return nil
}

// RestoreDeleted brings a soft-deleted snapshot back, renaming it when its
// name is taken by an active snapshot.
func (l *Log) RestoreDeleted(id string) (Snapshot, error) {
	i := l.index(id)
	if i < 0 {
		return Snapshot{}, ErrNotFound
	}

	if !l.snaps[i].Deleted {
		return Snapshot{}, ErrNotDeleted
	}

	l.snaps[i].Name = l.uniqueName(l.snaps[i].Name)
	l.snaps[i].Deleted = false
	l.snaps[i].DeletedAt = nil

	return l.snaps[i], nil
}

// Purge removes a snapshot permanently. phrase must equal ConfirmPhrase.
func (l *Log) Purge(id, phrase string) error {
	if strings.TrimSpace(phrase) != ConfirmPhrase {
		return ErrConfirmationMismatch
	}

	i := l.index(id)
	if i < 0 {
		return ErrNotFound
	}

	l.snaps = slices.Delete(l.snaps, i, i+1)

	return nil
}

// uniqueName returns base, or "base (restored)", "base (restored 2)", ...
// whichever first differs from every active name ignoring case.
func (l *Log) uniqueName(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = untitled
	}

	taken := make(map[string]bool)
	for _, s := range l.snaps {
		if !s.Deleted {
			taken[strings.ToLower(s.Name)] = true
		}
	}

	if !taken[strings.ToLower(base)] {
		return base
	}

	candidate := base + " (restored)"
	for n := 2; taken[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s (restored %d)", base, n)
	}

	return candidate
}

func (l *Log) filter(deleted bool) []Snapshot {
	var out []Snapshot

	for _, s := range l.snaps {
		if s.Deleted == deleted {
			out = append(out, s)
		}
	}

	return out
}

func (l *Log) index(id string) int {
	return slices.IndexFunc(l.snaps, func(s Snapshot) bool { return s.ID == id })
}

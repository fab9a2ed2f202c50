package undo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bakery/internal/undo"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSlot_UndoWithinWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	slot := undo.New[string](10*time.Second, clock.Now)

	slot.Hold("a", 3)
	clock.Advance(9 * time.Second)

	assert.True(t, slot.Pending())

	item, idx, ok := slot.Undo()
	assert.True(t, ok)
	assert.Equal(t, "a", item)
	assert.Equal(t, 3, idx)

	_, _, ok = slot.Undo()
	assert.False(t, ok, "slot is emptied by a successful undo")
}

func TestSlot_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	slot := undo.New[string](10*time.Second, clock.Now)

	slot.Hold("a", 0)
	assert.False(t, slot.Tick())

	clock.Advance(10 * time.Second)
	assert.False(t, slot.Pending())
	assert.True(t, slot.Tick())
	assert.False(t, slot.Tick())

	_, _, ok := slot.Undo()
	assert.False(t, ok)
}

func TestSlot_NewHoldReplacesPending(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	slot := undo.New[string](10*time.Second, clock.Now)

	slot.Hold("first", 0)
	clock.Advance(5 * time.Second)
	slot.Hold("second", 1)
	clock.Advance(7 * time.Second)

	item, idx, ok := slot.Undo()
	assert.True(t, ok, "window restarts on the newer hold")
	assert.Equal(t, "second", item)
	assert.Equal(t, 1, idx)
}

func TestSlot_MarkAndReset(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	slot := undo.New[string](10*time.Second, clock.Now)

	slot.Hold("a", 0)
	mark := slot.Mark()

	slot.Hold("b", 3)
	slot.Reset(mark)

	item, idx, ok := slot.Undo()
	assert.True(t, ok)
	assert.Equal(t, "a", item)
	assert.Equal(t, 0, idx)
}

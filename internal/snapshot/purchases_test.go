package snapshot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/snapshot"
)

func purchases(items ...string) snapshot.PurchaseState {
	var s snapshot.PurchaseState

	for _, item := range items {
		s.Purchases = append(s.Purchases, purchase.Purchase{ID: item, Item: item, Quantity: 1, TotalCents: 100})
		s.PurchaseItems = append(s.PurchaseItems, item)
	}

	return s
}

func TestPurchaseLog_CreateCapsAndCopies(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	log := snapshot.NewPurchaseLog(2, func() time.Time { return now })

	live := purchases("Sugar")
	first := log.Create("", live)
	assert.Equal(t, "Untitled", first.Name)
	assert.Equal(t, now, first.Timestamp)

	live.Purchases[0].Item = "mutated"

	got, err := log.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sugar", got.Purchases[0].Item)

	log.Create("second", purchases("Flour"))
	third := log.Create("third", purchases("Milk"))

	all := log.All()
	require.Len(t, all, 2)
	assert.Equal(t, third.ID, all[0].ID, "newest first")

	_, err = log.Get(first.ID)
	assert.ErrorIs(t, err, snapshot.ErrNotFound, "oldest is evicted")
}

func TestPurchaseLog_Delete(t *testing.T) {
	tests := []struct {
		name    string
		id      func(s snapshot.PurchaseSave) string
		phrase  string
		wantErr error
		wantLen int
	}{
		{
			name:    "Confirmed",
			id:      func(s snapshot.PurchaseSave) string { return s.ID },
			phrase:  "DELETE",
			wantLen: 0,
		},
		{
			name:    "WrongPhrase",
			id:      func(s snapshot.PurchaseSave) string { return s.ID },
			phrase:  "yes",
			wantErr: snapshot.ErrConfirmationMismatch,
			wantLen: 1,
		},
		{
			name:    "Missing",
			id:      func(snapshot.PurchaseSave) string { return "missing" },
			phrase:  "DELETE",
			wantErr: snapshot.ErrNotFound,
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := snapshot.NewPurchaseLog(5, nil)
			s := log.Create("x", purchases("Sugar"))

			err := log.Delete(tt.id(s), tt.phrase)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Len(t, log.All(), tt.wantLen)
		})
	}
}

func TestMergePurchases(t *testing.T) {
	current := purchases("Sugar", "Flour")
	saved := purchases("Flour", "Milk")

	t.Run("Replace", func(t *testing.T) {
		got := snapshot.MergePurchases(current, saved, snapshot.ModeReplace)

		assert.Equal(t, saved.Purchases, got.Purchases)
		assert.Equal(t, []string{"Flour", "Milk"}, got.PurchaseItems)
	})

	t.Run("Append", func(t *testing.T) {
		got := snapshot.MergePurchases(current, saved, snapshot.ModeAppend)

		assert.Len(t, got.Purchases, 4)
		assert.Equal(t, "Milk", got.Purchases[3].Item)
		assert.Equal(t, []string{"Sugar", "Flour", "Milk"}, got.PurchaseItems)
	})

	assert.Len(t, current.Purchases, 2, "merge never mutates its inputs")
}

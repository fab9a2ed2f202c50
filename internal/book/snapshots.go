package book

import (
	"context"

	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/snapshot"
	"github.com/MrJamesThe3rd/bakery/internal/storage"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

// CreateSnapshot saves a deep copy of the current state. When shop is set
// only that shop's deliveries are captured.
func (b *Book) CreateSnapshot(ctx context.Context, name, shop string) (snapshot.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.state()
	if shop != "" {
		state.Deliveries = b.deliveries.List(delivery.ListFilter{Shop: shop})
	}

	s := b.snapshots.Create(name, shop, state)

	return s, b.persist(ctx, storage.KeySnapshots)
}

// RestoreSnapshot merges a snapshot into the live state. It clears any
// pending import undo; the snapshot itself is not modified.
func (b *Book) RestoreSnapshot(ctx context.Context, id string, mode snapshot.Mode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !mode.Valid() {
		return validation.Field("mode", "must be replace or append")
	}

	s, err := b.snapshots.Get(id)
	if err != nil {
		return err
	}

	b.apply(snapshot.Merge(b.state(), s.State, mode, s.Shop))
	b.lastImport = nil

	return b.persist(ctx,
		storage.KeyDeliveries, storage.KeyTransactions, storage.KeyBaseline,
		storage.KeyPurchases, storage.KeyPurchaseItems, storage.KeyCategories,
	)
}

func (b *Book) Snapshots(deleted bool) []snapshot.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	if deleted {
		return b.snapshots.Deleted()
	}

	return b.snapshots.Active()
}

func (b *Book) Snapshot(id string) (snapshot.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.snapshots.Get(id)
}

func (b *Book) RenameSnapshot(ctx context.Context, id, name string) (snapshot.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.snapshots.Rename(id, name)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	return s, b.persist(ctx, storage.KeySnapshots)
}

func (b *Book) DeleteSnapshot(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.snapshots.Delete(id); err != nil {
		return err
	}

	return b.persist(ctx, storage.KeySnapshots)
}

func (b *Book) RestoreDeletedSnapshot(ctx context.Context, id string) (snapshot.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.snapshots.RestoreDeleted(id)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	return s, b.persist(ctx, storage.KeySnapshots)
}

// PurgeSnapshot permanently deletes a snapshot; phrase must be
// snapshot.ConfirmPhrase.
func (b *Book) PurgeSnapshot(ctx context.Context, id, phrase string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.snapshots.Purge(id, phrase); err != nil {
		return err
	}

	return b.persist(ctx, storage.KeySnapshots)
}

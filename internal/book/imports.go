package book

import (
	"context"
	"log/slog"
	"slices"

	"github.com/MrJamesThe3rd/bakery/internal/importer"
	"github.com/MrJamesThe3rd/bakery/internal/storage"
)

type ImportParams struct {
	Rows      [][]string
	Mapping   importer.Mapping
	HasHeader bool
	Append    bool
}

// Import adds the valid rows as new deliveries, appending to or replacing
// the ledger. The state right before the import is kept so UndoImport can
// revert the whole batch; a later import replaces that undo point.
func (b *Book) Import(ctx context.Context, p ImportParams) (*importer.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res, err := importer.Reconcile(p.Rows, b.deliveries.All(), importer.Options{
		Mapping:    p.Mapping,
		HasHeader:  p.HasHeader,
		Categories: b.categories.Names(),
	})
	if err != nil {
		return nil, err
	}

	b.lastImport = &importUndo{
		Deliveries:   b.deliveries.All(),
		Transactions: b.transactions.All(),
		Baseline:     b.baseline.Clone(),
	}

	if p.Append {
		b.deliveries.Append(res.Deliveries)
	} else {
		b.deliveries.Replace(res.Deliveries)
	}

	slog.Info("imported deliveries",
		"added", res.Added, "duplicates", res.Duplicates, "invalid", res.Invalid, "append", p.Append)

	return res, b.persist(ctx, storage.KeyDeliveries)
}

// UndoImport restores deliveries, transactions and the baseline captured
// before the last import. It reports false when there is nothing to undo.
func (b *Book) UndoImport(ctx context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.lastImport == nil {
		return false, nil
	}

	u := b.lastImport
	b.lastImport = nil

	b.deliveries.Replace(slices.Clone(u.Deliveries))
	b.transactions.Replace(slices.Clone(u.Transactions))
	b.baseline = u.Baseline

	return true, b.persist(ctx, storage.KeyDeliveries, storage.KeyTransactions, storage.KeyBaseline)
}

func (b *Book) CanUndoImport() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.lastImport != nil
}

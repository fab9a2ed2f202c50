package book

import (
	"context"

	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/reconcile"
	"github.com/MrJamesThe3rd/bakery/internal/registry"
	"github.com/MrJamesThe3rd/bakery/internal/storage"
	"github.com/MrJamesThe3rd/bakery/internal/transaction"
)

func (b *Book) AddDelivery(ctx context.Context, p delivery.CreateParams) (delivery.Delivery, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.Category == "" {
		p.Category = registry.MapCategory(p.Item, b.categories.Names())
	}

	mark := b.deliveries.Mark()

	d, err := b.deliveries.Add(p)
	if err != nil {
		return delivery.Delivery{}, err
	}

	if err := b.saveDeliveries(ctx, mark); err != nil {
		return delivery.Delivery{}, err
	}

	return d, nil
}

func (b *Book) UpdateDelivery(ctx context.Context, id string, field delivery.Field, value string) (delivery.Delivery, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mark := b.deliveries.Mark()

	d, err := b.deliveries.Update(id, field, value)
	if err != nil {
		return delivery.Delivery{}, err
	}

	if err := b.saveDeliveries(ctx, mark); err != nil {
		return delivery.Delivery{}, err
	}

	return d, nil
}

func (b *Book) RemoveDelivery(ctx context.Context, id string) (delivery.Delivery, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mark := b.deliveries.Mark()

	d, err := b.deliveries.Remove(id)
	if err != nil {
		return delivery.Delivery{}, err
	}

	if err := b.saveDeliveries(ctx, mark); err != nil {
		return delivery.Delivery{}, err
	}

	return d, nil
}

// UndoDelivery reinserts the last removed delivery if its undo window is
// still open. It reports false otherwise.
func (b *Book) UndoDelivery(ctx context.Context) (delivery.Delivery, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mark := b.deliveries.Mark()

	d, ok := b.deliveries.Undo()
	if !ok {
		return delivery.Delivery{}, false, nil
	}

	if err := b.saveDeliveries(ctx, mark); err != nil {
		return delivery.Delivery{}, false, err
	}

	return d, true, nil
}

func (b *Book) Deliveries(filter delivery.ListFilter) []delivery.Delivery {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.deliveries.List(filter)
}

func (b *Book) Shops() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.deliveries.Shops()
}

// UpdateShopBalance rewrites a shop's aggregate paid or previous balance.
func (b *Book) UpdateShopBalance(ctx context.Context, shop string, field delivery.BalanceField, cents int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	mark := b.deliveries.Mark()

	if err := b.deliveries.UpdateShopBalance(shop, field, cents); err != nil {
		return err
	}

	return b.saveDeliveries(ctx, mark)
}

// saveDeliveries persists the deliveries, putting the ledger back to mark
// when the write fails so memory never runs ahead of storage.
func (b *Book) saveDeliveries(ctx context.Context, mark delivery.Mark) error {
	if err := b.persist(ctx, storage.KeyDeliveries); err != nil {
		b.deliveries.Reset(mark)
		return err
	}

	return nil
}

func (b *Book) AddTransaction(ctx context.Context, p transaction.CreateParams) (transaction.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mark := b.transactions.Mark()

	tx, err := b.transactions.Add(p)
	if err != nil {
		return transaction.Transaction{}, err
	}

	if err := b.saveTransactions(ctx, mark); err != nil {
		return transaction.Transaction{}, err
	}

	return tx, nil
}

func (b *Book) RemoveTransaction(ctx context.Context, id string) (transaction.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mark := b.transactions.Mark()

	tx, err := b.transactions.Remove(id)
	if err != nil {
		return transaction.Transaction{}, err
	}

	if err := b.saveTransactions(ctx, mark); err != nil {
		return transaction.Transaction{}, err
	}

	return tx, nil
}

func (b *Book) UndoTransaction(ctx context.Context) (transaction.Transaction, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mark := b.transactions.Mark()

	tx, ok := b.transactions.Undo()
	if !ok {
		return transaction.Transaction{}, false, nil
	}

	if err := b.saveTransactions(ctx, mark); err != nil {
		return transaction.Transaction{}, false, err
	}

	return tx, true, nil
}

func (b *Book) saveTransactions(ctx context.Context, mark transaction.Mark) error {
	if err := b.persist(ctx, storage.KeyTransactions); err != nil {
		b.transactions.Reset(mark)
		return err
	}

	return nil
}

func (b *Book) Transactions(filter transaction.ListFilter) []transaction.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.transactions.List(filter)
}

// SetBaseline is the "set totals" action: it replaces the baseline itself,
// never the combined figures. A nil field removes that correction.
func (b *Book) SetBaseline(ctx context.Context, baseline reconcile.Baseline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.baseline = baseline.Clone()

	return b.persist(ctx, storage.KeyBaseline)
}

// ClearBaseline drops both corrections so the displayed figures are the
// computed ones again.
func (b *Book) ClearBaseline(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.baseline = reconcile.Baseline{}

	return b.persist(ctx, storage.KeyBaseline)
}

// SetDisplayedTotals derives the baseline that makes the displayed paid
// and previous balance equal the given figures, leaving the live records
// alone. Nil targets leave that side of the baseline unchanged.
func (b *Book) SetDisplayedTotals(ctx context.Context, paid, prev *int64) (reconcile.Summary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	computed := reconcile.Compute(b.deliveries.All(), b.transactions.All(), reconcile.Baseline{})

	if paid != nil {
		b.baseline.Paid = new(*paid - computed.CombinedPaid)
	}

	if prev != nil {
		b.baseline.Prev = new(*prev - computed.ComputedPrev)
	}

	if err := b.persist(ctx, storage.KeyBaseline); err != nil {
		return reconcile.Summary{}, err
	}

	return reconcile.Compute(b.deliveries.All(), b.transactions.All(), b.baseline), nil
}

func (b *Book) Baseline() reconcile.Baseline {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.baseline.Clone()
}

// Summary reconciles the deliveries of shop (all shops when empty) with
// every transaction and the baseline.
func (b *Book) Summary(shop string) reconcile.Summary {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := reconcile.Compute(b.deliveries.List(delivery.ListFilter{Shop: shop}), b.transactions.All(), b.baseline)
	s.Shop = shop

	return s
}

// ShopSummaries breaks the ledger down per shop, attributing transactions
// recorded against a shop.
func (b *Book) ShopSummaries() []reconcile.Summary {
	b.mu.Lock()
	defer b.mu.Unlock()

	return reconcile.ByShop(b.deliveries.All(), b.transactions.All())
}

// Table is the export view; its totals row matches Summary(shop).
func (b *Book) Table(shop string) reconcile.Table {
	b.mu.Lock()
	defer b.mu.Unlock()

	return reconcile.BuildTable(b.deliveries.List(delivery.ListFilter{Shop: shop}), b.transactions.All(), b.baseline)
}

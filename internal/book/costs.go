package book

import (
	"context"
	"errors"

	"github.com/MrJamesThe3rd/bakery/internal/calculator"
	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/registry"
	"github.com/MrJamesThe3rd/bakery/internal/snapshot"
	"github.com/MrJamesThe3rd/bakery/internal/storage"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

// ErrCooldown is returned when Calculate is triggered again too quickly.
var ErrCooldown = errors.New("calculation ignored during cooldown")

func (b *Book) AddPurchase(ctx context.Context, p purchase.CreateParams) (purchase.Purchase, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pu, err := b.purchases.Add(p)
	if err != nil {
		return purchase.Purchase{}, err
	}

	keys := []string{storage.KeyPurchases}
	if !b.purchaseItems.Contains(pu.Item) {
		_ = b.purchaseItems.Add(pu.Item)
		keys = append(keys, storage.KeyPurchaseItems)
	}

	return pu, b.persist(ctx, keys...)
}

func (b *Book) UpdatePurchase(ctx context.Context, id string, field purchase.Field, value string) (purchase.Purchase, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pu, err := b.purchases.Update(id, field, value)
	if err != nil {
		return purchase.Purchase{}, err
	}

	return pu, b.persist(ctx, storage.KeyPurchases)
}

func (b *Book) RemovePurchase(ctx context.Context, id string) (purchase.Purchase, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pu, err := b.purchases.Remove(id)
	if err != nil {
		return purchase.Purchase{}, err
	}

	return pu, b.persist(ctx, storage.KeyPurchases)
}

func (b *Book) UndoPurchase(ctx context.Context) (purchase.Purchase, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pu, ok := b.purchases.Undo()
	if !ok {
		return purchase.Purchase{}, false, nil
	}

	return pu, true, b.persist(ctx, storage.KeyPurchases)
}

// ClearPurchases drops every purchase record. Deliveries and transactions
// are untouched.
func (b *Book) ClearPurchases(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.purchases.Replace(nil)

	return b.persist(ctx, storage.KeyPurchases)
}

func (b *Book) Purchases() []purchase.Purchase {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.purchases.List()
}

// SetCostOverride pins a session-only cost; it is never persisted.
func (b *Book) SetCostOverride(item string, cents int64) purchase.Cost {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.purchases.SetOverride(item, cents)

	return b.purchases.LatestCost(item)
}

func (b *Book) LatestCost(item string) purchase.Cost {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.purchases.LatestCost(item)
}

func (b *Book) Costs() []purchase.Cost {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.purchases.Costs()
}

func (b *Book) withRate(in calculator.Inputs) calculator.Inputs {
	if in.ElectricityRateCents == 0 {
		in.ElectricityRateCents = b.opts.ElectricityRateCents
	}

	return in
}

// Calculate prices a batch with the current costs. Repeated triggers
// within the cooldown return ErrCooldown.
func (b *Book) Calculate(in calculator.Inputs) (calculator.Result, error) {
	if !b.debounce.Allow() {
		return calculator.Result{}, ErrCooldown
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return calculator.Compute(b.purchases, b.withRate(in))
}

// SaveCalculation computes in and stores a frozen record of inputs, costs
// and results.
func (b *Book) SaveCalculation(ctx context.Context, name string, in calculator.Inputs) (calculator.Save, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	in = b.withRate(in)

	result, err := calculator.Compute(b.purchases, in)
	if err != nil {
		return calculator.Save{}, err
	}

	costs := make(map[string]int64)
	for _, c := range b.purchases.Costs() {
		costs[c.Key] = c.Cents
	}

	for _, line := range result.Lines {
		costs[line.Key] = line.UnitCents
	}

	s := b.calcSaves.Add(name, in, result, costs)

	return s, b.persist(ctx, storage.KeyCalcSaves)
}

func (b *Book) Calculations(deleted bool) []calculator.Save {
	b.mu.Lock()
	defer b.mu.Unlock()

	if deleted {
		return b.calcSaves.Deleted()
	}

	return b.calcSaves.Active()
}

func (b *Book) DeleteCalculation(ctx context.Context, id string) error {
	return b.mutateCalc(ctx, id, b.calcSaves.Delete)
}

func (b *Book) RestoreCalculation(ctx context.Context, id string) error {
	return b.mutateCalc(ctx, id, b.calcSaves.Restore)
}

func (b *Book) PurgeCalculation(ctx context.Context, id string) error {
	return b.mutateCalc(ctx, id, b.calcSaves.Purge)
}

func (b *Book) mutateCalc(ctx context.Context, id string, fn func(string) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := fn(id); err != nil {
		return err
	}

	return b.persist(ctx, storage.KeyCalcSaves)
}

// Registry selects one of the book's name lists.
type Registry string

const (
	RegistryCategories    Registry = "categories"
	RegistryPurchaseItems Registry = "purchase-items"
)

var ErrUnknownRegistry = errors.New("unknown registry")

func (b *Book) registry(r Registry) (*registry.List, string, error) {
	switch r {
	case RegistryCategories:
		return b.categories, storage.KeyCategories, nil
	case RegistryPurchaseItems:
		return b.purchaseItems, storage.KeyPurchaseItems, nil
	}

	return nil, "", ErrUnknownRegistry
}

func (b *Book) Names(r Registry) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, _, err := b.registry(r)
	if err != nil {
		return nil, err
	}

	return list.Names(), nil
}

// AddName adds to a registry, returning registry.ErrDuplicate for a name
// already present.
func (b *Book) AddName(ctx context.Context, r Registry, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, key, err := b.registry(r)
	if err != nil {
		return err
	}

	if err := list.Add(name); err != nil {
		return err
	}

	return b.persist(ctx, key)
}

func (b *Book) RemoveName(ctx context.Context, r Registry, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	list, key, err := b.registry(r)
	if err != nil {
		return err
	}

	if err := list.Remove(name); err != nil {
		return err
	}

	return b.persist(ctx, key)
}

// SavePurchases stores a copy of the purchase table and its item list.
func (b *Book) SavePurchases(ctx context.Context, name string) (snapshot.PurchaseSave, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.purchaseSaves.Create(name, b.purchaseState())

	return s, b.persist(ctx, storage.KeyPurchaseSaves)
}

func (b *Book) PurchaseSaves() []snapshot.PurchaseSave {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.purchaseSaves.All()
}

// RestorePurchases merges a purchase save into the live table. Deliveries,
// transactions and the save itself are untouched.
func (b *Book) RestorePurchases(ctx context.Context, id string, mode snapshot.Mode) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !mode.Valid() {
		return validation.Field("mode", "must be replace or append")
	}

	s, err := b.purchaseSaves.Get(id)
	if err != nil {
		return err
	}

	merged := snapshot.MergePurchases(b.purchaseState(), s.PurchaseState, mode)
	b.purchases.Replace(merged.Purchases)
	b.purchaseItems.Replace(merged.PurchaseItems)

	return b.persist(ctx, storage.KeyPurchases, storage.KeyPurchaseItems)
}

// DeletePurchaseSave removes a save for good; phrase must be
// snapshot.ConfirmPhrase.
func (b *Book) DeletePurchaseSave(ctx context.Context, id, phrase string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.purchaseSaves.Delete(id, phrase); err != nil {
		return err
	}

	return b.persist(ctx, storage.KeyPurchaseSaves)
}

func (b *Book) purchaseState() snapshot.PurchaseState {
	return snapshot.PurchaseState{
		Purchases:     b.purchases.List(),
		PurchaseItems: b.purchaseItems.Names(),
	}
}

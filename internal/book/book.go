// Package book is the store object every adapter goes through. It owns the
// ledgers, persists after each mutation and serializes operations.
package book

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/bakery/internal/calculator"
	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/reconcile"
	"github.com/MrJamesThe3rd/bakery/internal/registry"
	"github.com/MrJamesThe3rd/bakery/internal/snapshot"
	"github.com/MrJamesThe3rd/bakery/internal/storage"
	"github.com/MrJamesThe3rd/bakery/internal/transaction"
	"github.com/MrJamesThe3rd/bakery/internal/undo"
)

//go:generate mockgen -source=book.go -destination=storage_mock.go -package=book
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

type Options struct {
	UndoWindow           time.Duration
	SnapshotCap          int
	CalcSaveCap          int
	CalcCooldown         time.Duration
	ElectricityRateCents int64
	Now                  func() time.Time
}

func (o Options) withDefaults() Options {
	if o.UndoWindow <= 0 {
		o.UndoWindow = undo.DefaultWindow
	}

	if o.SnapshotCap <= 0 {
		o.SnapshotCap = snapshot.DefaultCap
	}

	if o.CalcSaveCap <= 0 {
		o.CalcSaveCap = calculator.DefaultSaveCap
	}

	if o.CalcCooldown <= 0 {
		o.CalcCooldown = calculator.DefaultCooldown
	}

	if o.ElectricityRateCents <= 0 {
		o.ElectricityRateCents = calculator.DefaultElectricityRateCents
	}

	if o.Now == nil {
		o.Now = time.Now
	}

	return o
}

// importUndo is the state captured right before the last import.
type importUndo struct {
	Deliveries   []delivery.Delivery
	Transactions []transaction.Transaction
	Baseline     reconcile.Baseline
}

type Book struct {
	mu    sync.Mutex
	store Storage
	opts  Options

	deliveries    *delivery.Ledger
	transactions  *transaction.Ledger
	baseline      reconcile.Baseline
	purchases     *purchase.Model
	categories    *registry.List
	purchaseItems *registry.List
	snapshots     *snapshot.Log
	purchaseSaves *snapshot.PurchaseLog
	calcSaves     *calculator.SaveLog
	debounce      *calculator.Debouncer

	lastImport *importUndo
}

// New returns an empty book with default categories and purchase items.
// Call Load to pick up persisted state.
func New(store Storage, opts Options) *Book {
	opts = opts.withDefaults()

	return &Book{
		store:         store,
		opts:          opts,
		deliveries:    delivery.NewLedger(opts.UndoWindow, opts.Now),
		transactions:  transaction.NewLedger(opts.UndoWindow, opts.Now),
		purchases:     purchase.NewModel(opts.UndoWindow, opts.Now),
		categories:    registry.New(registry.DefaultCategories...),
		purchaseItems: registry.New(registry.DefaultPurchaseItems...),
		snapshots:     snapshot.NewLog(opts.SnapshotCap, opts.Now),
		purchaseSaves: snapshot.NewPurchaseLog(opts.SnapshotCap, opts.Now),
		calcSaves:     calculator.NewSaveLog(opts.CalcSaveCap, opts.Now),
		debounce:      calculator.NewDebouncer(opts.CalcCooldown, opts.Now),
	}
}

// Load reads every key. Missing or malformed values fall back to the
// default for that key; only storage failures are returned.
func (b *Book) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		rows          []delivery.Delivery
		txs           []transaction.Transaction
		purchases     []purchase.Purchase
		purchaseItems []string
		categories    []string
		baseline      reconcile.Baseline
		snaps         []snapshot.Snapshot
		purchaseSaves []snapshot.PurchaseSave
		saves         []calculator.Save
	)

	targets := map[string]any{
		storage.KeyDeliveries:    &rows,
		storage.KeyTransactions:  &txs,
		storage.KeyPurchases:     &purchases,
		storage.KeyPurchaseItems: &purchaseItems,
		storage.KeyCategories:    &categories,
		storage.KeyBaseline:      &baseline,
		storage.KeySnapshots:     &snaps,
		storage.KeyPurchaseSaves: &purchaseSaves,
		storage.KeyCalcSaves:     &saves,
	}

	for _, key := range storage.Keys {
		found, err := b.load(ctx, key, targets[key])
		if err != nil {
			return err
		}

		if !found {
			// Reset the target in case a partial decode left junk behind.
			switch key {
			case storage.KeyDeliveries:
				rows = nil
			case storage.KeyTransactions:
				txs = nil
			case storage.KeyPurchases:
				purchases = nil
			case storage.KeyPurchaseItems:
				purchaseItems = nil
			case storage.KeyCategories:
				categories = nil
			case storage.KeyBaseline:
				baseline = reconcile.Baseline{}
			case storage.KeySnapshots:
				snaps = nil
			case storage.KeyPurchaseSaves:
				purchaseSaves = nil
			case storage.KeyCalcSaves:
				saves = nil
			}
		}
	}

	if len(categories) == 0 {
		categories = registry.DefaultCategories
	}

	if len(purchaseItems) == 0 {
		purchaseItems = registry.DefaultPurchaseItems
	}

	b.deliveries.Replace(rows)
	b.transactions.Replace(txs)
	b.purchases.Replace(purchases)
	b.categories.Replace(categories)
	b.purchaseItems.Replace(purchaseItems)
	b.baseline = baseline
	b.snapshots.Replace(snaps)
	b.purchaseSaves.Replace(purchaseSaves)
	b.calcSaves.Replace(saves)
	b.lastImport = nil

	return nil
}

func (b *Book) load(ctx context.Context, key string, target any) (bool, error) {
	data, err := b.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("loading %s: %w", key, err)
	}

	if len(data) == 0 || string(data) == "null" {
		return false, nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		slog.Warn("discarding malformed stored state", "key", key, "error", err)
		return false, nil
	}

	return true, nil
}

// persist writes the given keys. Callers hold b.mu.
func (b *Book) persist(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		var value any

		switch key {
		case storage.KeyDeliveries:
			value = b.deliveries.All()
		case storage.KeyTransactions:
			value = b.transactions.All()
		case storage.KeyPurchases:
			value = b.purchases.List()
		case storage.KeyPurchaseItems:
			value = b.purchaseItems.Names()
		case storage.KeyCategories:
			value = b.categories.Names()
		case storage.KeyBaseline:
			value = b.baseline
		case storage.KeySnapshots:
			value = b.snapshots.All()
		case storage.KeyPurchaseSaves:
			value = b.purchaseSaves.All()
		case storage.KeyCalcSaves:
			value = b.calcSaves.All()
		default:
			return fmt.Errorf("unknown storage key %q", key)
		}

		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}

		if err := b.store.Save(ctx, key, data); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}

	return nil
}

// state captures the snapshot-able part of the book. Callers hold b.mu.
func (b *Book) state() snapshot.State {
	return snapshot.State{
		Deliveries:    b.deliveries.All(),
		Transactions:  b.transactions.All(),
		Baseline:      b.baseline.Clone(),
		Purchases:     b.purchases.List(),
		PurchaseItems: b.purchaseItems.Names(),
		Categories:    b.categories.Names(),
	}
}

// apply installs s as the live state. Callers hold b.mu.
func (b *Book) apply(s snapshot.State) {
	b.deliveries.Replace(s.Deliveries)
	b.transactions.Replace(s.Transactions)
	b.baseline = s.Baseline
	b.purchases.Replace(s.Purchases)
	b.purchaseItems.Replace(s.PurchaseItems)
	b.categories.Replace(s.Categories)
}

// Tick expires pending undos whose window has passed.
func (b *Book) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deliveries.Tick()
	b.transactions.Tick()
	b.purchases.Tick()
}

// ClearAll wipes deliveries, transactions, the baseline and calculator
// saves. Purchases and their saves, registries and snapshots survive.
func (b *Book) ClearAll(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deliveries.Clear()
	b.transactions.Clear()
	b.baseline = reconcile.Baseline{}
	b.calcSaves.Replace(nil)
	b.lastImport = nil

	return b.persist(ctx, storage.KeyDeliveries, storage.KeyTransactions, storage.KeyBaseline, storage.KeyCalcSaves)
}

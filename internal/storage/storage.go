// Package storage defines the key/value contract the book persists through.
package storage

import "errors"

// ErrNotFound is returned by Load when nothing was ever saved under a key.
var ErrNotFound = errors.New("key not found")

// Keys the book persists.
const (
	KeyDeliveries    = "deliveries"
	KeyTransactions  = "transactions"
	KeyPurchases     = "purchases"
	KeyPurchaseItems = "purchase_items"
	KeyCategories    = "categories"
	KeyBaseline      = "baseline"
	KeySnapshots     = "snapshots"
	KeyPurchaseSaves = "purchase_saves"
	KeyCalcSaves     = "calc_saves"
)

// Keys lists every persisted key.
var Keys = []string{
	KeyDeliveries, KeyTransactions, KeyPurchases, KeyPurchaseItems,
	KeyCategories, KeyBaseline, KeySnapshots, KeyPurchaseSaves, KeyCalcSaves,
}

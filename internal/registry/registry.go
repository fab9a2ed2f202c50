// Package registry holds the category and purchase-item name lists.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

var (
	ErrDuplicate = errors.New("name already exists")
	ErrNotFound  = errors.New("name not found")
)

// DefaultCategories seeds the category list of a fresh book.
var DefaultCategories = []string{
	"Doolsho", "Sisin", "Kac Kac", "Ninac Loos", "Kashaato",
	"Buskut", "Icun", "Shushumoow", "Mix",
}

// DefaultPurchaseItems seeds the purchase-item list of a fresh book.
var DefaultPurchaseItems = []string{
	"Sugar", "Milk", "Eggs", "Flour", "Oil", "Packaging", "Coconut", "Sesame",
}

// FallbackCategory is used for anything that maps to no known category.
const FallbackCategory = "Mix"

// List is an ordered set of names, unique ignoring case.
type List struct {
	names []string
}

func New(names ...string) *List {
	l := &List{}
	l.Union(names)

	return l
}

// Add appends name. Adding an existing name is an error, not a no-op.
func (l *List) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validation.Field("name", "required")
	}

	if l.Contains(name) {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}

	l.names = append(l.names, name)

	return nil
}

func (l *List) Remove(name string) error {
	i := l.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	l.names = slices.Delete(l.names, i, i+1)

	return nil
}

func (l *List) Contains(name string) bool {
	return l.index(name) >= 0
}

// Union appends the names not yet present, preserving their order.
func (l *List) Union(names []string) {
	for _, n := range names {
		_ = l.Add(n)
	}
}

func (l *List) Replace(names []string) {
	l.names = nil
	l.Union(names)
}

func (l *List) Names() []string {
	return slices.Clone(l.names)
}

func (l *List) index(name string) int {
	name = strings.TrimSpace(name)

	return slices.IndexFunc(l.names, func(n string) bool { return strings.EqualFold(n, name) })
}

// MapCategory maps a raw category (including the legacy English labels) to
// an entry of categories, falling back to FallbackCategory.
func MapCategory(raw string, categories []string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cookies":
		return "Buskut"
	case "cakes":
		return "Doolsho"
	case "bread":
		return "Kashaato"
	case "other", "others":
		return FallbackCategory
	}

	for _, c := range categories {
		if strings.EqualFold(c, strings.TrimSpace(raw)) {
			return c
		}
	}

	return FallbackCategory
}

package importer

import (
	"strings"

	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

// Field is a delivery attribute an import column can feed.
type Field string

const (
	FieldDate        Field = "date"
	FieldShop        Field = "shop"
	FieldItem        Field = "item"
	FieldQuantity    Field = "qty"
	FieldUnitPrice   Field = "per"
	FieldPaid        Field = "paid"
	FieldNotes       Field = "notes"
	FieldCategory    Field = "category"
	FieldDeliveredBy Field = "deliveredBy"
)

// Fields lists every mappable field in the order they are offered.
var Fields = []Field{
	FieldDate, FieldShop, FieldItem, FieldQuantity, FieldUnitPrice,
	FieldPaid, FieldNotes, FieldCategory, FieldDeliveredBy,
}

// RequiredFields must be mapped for an import to start and present for a
// row to be accepted.
var RequiredFields = []Field{FieldDate, FieldShop, FieldItem, FieldQuantity, FieldUnitPrice}

// Mapping maps a field to a zero-based column index. Unmapped fields are
// absent.
type Mapping map[Field]int

func (m Mapping) Validate() error {
	for _, f := range RequiredFields {
		idx, ok := m[f]
		if !ok {
			return validation.Field(string(f), "column not mapped")
		}

		if idx < 0 {
			return validation.Field(string(f), "column index must not be negative")
		}
	}

	return nil
}

// headerHints are matched as substrings of the lowercased header cell.
var headerHints = map[Field][]string{
	FieldDate:        {"date"},
	FieldShop:        {"shop"},
	FieldItem:        {"item"},
	FieldQuantity:    {"qty", "quantity"},
	FieldUnitPrice:   {"per", "price"},
	FieldPaid:        {"paid"},
	FieldNotes:       {"note"},
	FieldCategory:    {"category"},
	FieldDeliveredBy: {"delivered", "driver"},
}

// GuessMapping proposes a mapping from a header row: each field takes the
// first column whose name contains one of its hints.
func GuessMapping(header []string) Mapping {
	m := make(Mapping)

	for _, f := range Fields {
		for i, cell := range header {
			name := strings.ToLower(strings.TrimSpace(cell))
			if matchesAny(name, headerHints[f]) {
				m[f] = i
				break
			}
		}
	}

	return m
}

func matchesAny(name string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(name, h) {
			return true
		}
	}

	return false
}

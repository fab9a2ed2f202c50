package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bakery/internal/delivery"
	"github.com/MrJamesThe3rd/bakery/internal/importer"
	"github.com/MrJamesThe3rd/bakery/internal/registry"
	"github.com/MrJamesThe3rd/bakery/internal/validation"
)

var mapping = importer.Mapping{
	importer.FieldDate:      0,
	importer.FieldShop:      1,
	importer.FieldItem:      2,
	importer.FieldQuantity:  3,
	importer.FieldUnitPrice: 4,
	importer.FieldPaid:      5,
	importer.FieldCategory:  6,
}

func opts(hasHeader bool) importer.Options {
	return importer.Options{Mapping: mapping, HasHeader: hasHeader, Categories: registry.DefaultCategories}
}

func TestReconcile(t *testing.T) {
	type args struct {
		rows     [][]string
		existing []delivery.Delivery
		options  importer.Options
	}

	type testCase struct {
		name           string
		args           args
		wantAdded      int
		wantInvalid    int
		wantDuplicates int
	}

	header := []string{"Date", "Shop", "Item", "Qty", "Price", "Paid", "Category"}
	row := []string{"2024-05-01", "Hodan", "Buskut", "10", "1.50", "10", ""}

	tests := []testCase{
		{
			name:      "HeaderSkipped",
			args:      args{rows: [][]string{header, row}, options: opts(true)},
			wantAdded: 1,
		},
		{
			name:        "HeaderNotFlaggedIsInvalid",
			args:        args{rows: [][]string{header, row}, options: opts(false)},
			wantAdded:   1,
			wantInvalid: 1,
		},
		{
			name:           "DuplicatesCountedAndImported",
			args:           args{rows: [][]string{row, row}, options: opts(false)},
			wantAdded:      2,
			wantDuplicates: 1,
		},
		{
			name: "DuplicateOfExisting",
			args: args{
				rows: [][]string{row},
				existing: []delivery.Delivery{
					{Date: "2024-05-01", Shop: "Hodan", Item: "Buskut", Quantity: 10},
				},
				options: opts(false),
			},
			wantAdded:      1,
			wantDuplicates: 1,
		},
		{
			name: "InvalidRowsSkipped",
			args: args{
				rows: [][]string{
					{"2024-05-01", "", "Buskut", "10", "1.50"},
					{"May 1st", "Hodan", "Buskut", "10", "1.50"},
					{"2024-05-01", "Hodan", "Buskut", "0", "1.50"},
					{"2024-05-01", "Hodan", "Buskut", "10", "free"},
					{"2024-05-01", "Hodan", "Buskut", "10", "1.50", "lots"},
					{"2024-05-01", "Hodan", "Buskut"},
					{"5/2/2024", "Hodan", "Buskut", "3", "$2.00"},
				},
				options: opts(false),
			},
			wantAdded:   1,
			wantInvalid: 6,
		},
		{
			name: "EmptyCellsAreInvalid",
			args: args{
				rows:    [][]string{{"", " ", ""}, {}, row},
				options: opts(false),
			},
			wantAdded:   1,
			wantInvalid: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importer.Reconcile(tt.args.rows, tt.args.existing, tt.args.options)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAdded, got.Added)
			assert.Equal(t, tt.wantInvalid, got.Invalid)
			assert.Equal(t, tt.wantDuplicates, got.Duplicates)
			assert.Len(t, got.Deliveries, tt.wantAdded)
		})
	}
}

func TestReconcile_BuildsDeliveries(t *testing.T) {
	rows := [][]string{
		{"3/4/2024", "Hodan", "Buskut", "10 pcs", "$1.50", "10", "cookies"},
		{"2024/3/5", "Amal", "Sisin", "2", "3", "", ""},
		{"2024-03-06", "Amal", "Cake", "1", "9", "", "Pizza"},
	}

	got, err := importer.Reconcile(rows, nil, opts(false))
	require.NoError(t, err)
	require.Len(t, got.Deliveries, 3)

	first := got.Deliveries[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "2024-03-04", first.Date)
	assert.Equal(t, int64(10), first.Quantity)
	assert.Equal(t, int64(150), first.UnitPriceCents)
	assert.Equal(t, int64(1000), first.PaidCents)
	assert.Equal(t, int64(0), first.PreviousBalanceCents)
	assert.Equal(t, int64(500), first.BalanceCents)
	assert.Equal(t, "Buskut", first.Category)

	assert.Equal(t, "Sisin", got.Deliveries[1].Category, "item doubles as category when none given")
	assert.Equal(t, "Mix", got.Deliveries[2].Category)
	assert.Equal(t, "added 3, duplicates 0, invalid 0", got.Summary())
}

func TestReconcile_RequiresMapping(t *testing.T) {
	_, err := importer.Reconcile(nil, nil, importer.Options{Mapping: importer.Mapping{importer.FieldDate: 0}})
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestGuessMapping(t *testing.T) {
	header := []string{"No.", "Date", "Shop", "Item", "Qty", "Price Per piece", "Total ($)", "Paid Amount", "Notes"}

	got := importer.GuessMapping(header)

	assert.Equal(t, importer.Mapping{
		importer.FieldDate:      1,
		importer.FieldShop:      2,
		importer.FieldItem:      3,
		importer.FieldQuantity:  4,
		importer.FieldUnitPrice: 5,
		importer.FieldPaid:      7,
		importer.FieldNotes:     8,
	}, got)
	assert.NoError(t, got.Validate())
}

// Package export renders ledger tables as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/bakery/internal/dates"
	"github.com/MrJamesThe3rd/bakery/internal/money"
	"github.com/MrJamesThe3rd/bakery/internal/purchase"
	"github.com/MrJamesThe3rd/bakery/internal/reconcile"
)

var (
	ErrNothingToExport = errors.New("nothing to export")
	ErrUnknownFormat   = errors.New("unknown export format")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv; charset=utf-8"
}

// Sheet is one exportable table. Totals is optional.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
	Totals []string
}

// Deliveries wraps the reconciled delivery table.
func Deliveries(t reconcile.Table) Sheet {
	return Sheet{
		Name:   "Deliveries",
		Header: t.Header,
		Rows:   t.Rows,
		Totals: t.Totals,
	}
}

var purchaseColumns = []string{"Date", "Item", "Qty", "Unit", "Unit Price", "Total Paid", "Derived Cost"}

// Purchases lists purchases in entry order with their derived base cost.
func Purchases(ps []purchase.Purchase) Sheet {
	rows := make([][]string, 0, len(ps))

	for _, p := range ps {
		derived := ""
		if p.BaseUnit != "" {
			derived = money.Format(p.BaseCostCents) + "/" + string(p.BaseUnit)
		}

		rows = append(rows, []string{
			dates.Display(p.Date),
			p.Item,
			strconv.FormatFloat(p.Quantity, 'f', -1, 64),
			string(p.Unit),
			money.Format(p.UnitPriceCents),
			money.Format(p.TotalCents),
			derived,
		})
	}

	return Sheet{Name: "Purchases", Header: purchaseColumns, Rows: rows}
}

// Filename follows the bakery-<kind>-<date>.<ext> pattern.
func Filename(kind string, f Format, now time.Time) string {
	return fmt.Sprintf("bakery-%s-%s.%s", kind, now.Format(time.DateOnly), f)
}

// Write renders s in format f.
func Write(w io.Writer, f Format, s Sheet) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatXLSX:
		return WriteXLSX(w, s)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteCSV writes a UTF-8 BOM so spreadsheet apps pick the right charset.
func WriteCSV(w io.Writer, s Sheet) error {
	if len(s.Rows) == 0 {
		return ErrNothingToExport
	}

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("writing bom: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(s.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := cw.WriteAll(s.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}

	if len(s.Totals) > 0 {
		if err := cw.Write(s.Totals); err != nil {
			return fmt.Errorf("writing totals: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook. Numeric cells are stored as
// numbers and the totals row is bold.
func WriteXLSX(w io.Writer, s Sheet) error {
	if len(s.Rows) == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.Name); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writeRow(f, s.Name, 1, s.Header, false); err != nil {
		return err
	}

	if err := f.SetRowStyle(s.Name, 1, 1, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, row := range s.Rows {
		if err := writeRow(f, s.Name, i+2, row, true); err != nil {
			return err
		}
	}

	if len(s.Totals) > 0 {
		totalsRow := len(s.Rows) + 2
		if err := writeRow(f, s.Name, totalsRow, s.Totals, true); err != nil {
			return err
		}

		if err := f.SetRowStyle(s.Name, totalsRow, totalsRow, bold); err != nil {
			return fmt.Errorf("styling totals: %w", err)
		}
	}

	for i, h := range s.Header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("naming column: %w", err)
		}

		if err := f.SetColWidth(s.Name, col, col, columnWidth(h)); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string, numeric bool) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("addressing cell: %w", err)
		}

		var value any = v
		if numeric {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				value = n
			}
		}

		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("setting %s: %w", cell, err)
		}
	}

	return nil
}

func columnWidth(header string) float64 {
	return float64(max(len(header)+2, 12))
}

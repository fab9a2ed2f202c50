package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	enc "github.com/MrJamesThe3rd/bakery/internal/encoding"
)

// Format is the file type of an import.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown import format")

// Reader turns a file into rows of string cells.
type Reader interface {
	Read(r io.Reader) ([][]string, error)
}

type Service struct {
	readers map[Format]Reader
}

func NewService() *Service {
	return &Service{
		readers: map[Format]Reader{
			FormatCSV:  CSVReader{},
			FormatXLSX: XLSXReader{},
		},
	}
}

// FormatFromName picks a format from a file name's extension.
func FormatFromName(name string) Format {
	if strings.HasSuffix(strings.ToLower(name), ".xlsx") {
		return FormatXLSX
	}

	return FormatCSV
}

func (s *Service) Read(format Format, r io.Reader) ([][]string, error) {
	reader, ok := s.readers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return reader.Read(r)
}

// CSVReader reads comma, semicolon or tab separated text in any charset
// encoding.Detect recognizes.
type CSVReader struct{}

func (CSVReader) Read(r io.Reader) ([][]string, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// sniffDelimiter picks the most frequent candidate in the first line.
func sniffDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))

	best, bestCount := ',', 0
	for _, c := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}

	return best
}

// XLSXReader reads the first sheet of a workbook.
type XLSXReader struct{}

func (XLSXReader) Read(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return rows, nil
}

// Package csv encodes and decodes the product CSV interchange format:
//
//	ID,Name,Category,Price,Stock
//	1,"Laptop Pro","Electronics",1299.99,15
//
// Text fields are always quoted with embedded quotes doubled; numbers are
// never quoted.
package csv

import (
	"bytes"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ghuser/stockledger/pkg/money"
	"github.com/ghuser/stockledger/services/catalog/domain/models"
)

// ProductHeader is the first line of every product export.
const ProductHeader = "ID,Name,Category,Price,Stock"

// PriceFormat selects how prices are written.
type PriceFormat int

const (
	// PriceRaw writes the shortest exact decimal ("19.5").
	PriceRaw PriceFormat = iota
	// PriceFixed writes two decimals ("19.50").
	PriceFixed
)

// Quote wraps s in double quotes, doubling any quotes inside.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// EncodeProducts renders products with the given price format.
func EncodeProducts(products []models.Product, format PriceFormat) []byte {
	var b bytes.Buffer
	b.WriteString(ProductHeader)
	b.WriteByte('\n')
	for _, p := range products {
		price := money.Raw(p.Price)
		if format == PriceFixed {
			price = money.Fixed(p.Price)
		}
		fmt.Fprintf(&b, "%d,%s,%s,%s,%d\n", p.ID, Quote(p.Name), Quote(p.Category), price, p.Stock)
	}
	return b.Bytes()
}

// Row is one decoded data line.
type Row struct {
	Line  int
	Draft models.Draft
}

// LineError reports a data line that could not be decoded.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

var (
	// ErrMissingColumns is returned when the header lacks name, price or stock.
	ErrMissingColumns = errors.New("CSV must contain name, price, and stock columns")
	// ErrNoRows is returned when the file has a header but no data lines.
	ErrNoRows = errors.New("no valid products found in CSV")
)

type columns struct {
	name, category, price, stock int
}

func findColumns(header []string) (columns, error) {
	find := func(label string) int {
		for i, h := range header {
			if strings.Contains(strings.ToLower(h), label) {
				return i
			}
		}
		return -1
	}
	c := columns{
		name:     find("name"),
		category: find("category"),
		price:    find("price"),
		stock:    find("stock"),
	}
	if c.name < 0 || c.price < 0 || c.stock < 0 {
		return c, ErrMissingColumns
	}
	return c, nil
}

// DecodeProducts reads a product CSV. Column positions come from the header
// by case-insensitive substring; a missing category column or an empty
// category cell yields models.DefaultCategory. Blank lines are skipped.
func DecodeProducts(r io.Reader) ([]Row, error) {
	cr := stdcsv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := findColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		d, err := decodeRecord(rec, cols)
		if err != nil {
			return nil, &LineError{Line: line, Err: err}
		}
		rows = append(rows, Row{Line: line, Draft: d})
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

func decodeRecord(rec []string, c columns) (models.Draft, error) {
	field := func(i int) (string, bool) {
		if i < 0 || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	name, ok := field(c.name)
	if !ok {
		return models.Draft{}, errors.New("missing name")
	}
	priceText, ok := field(c.price)
	if !ok {
		return models.Draft{}, errors.New("missing price")
	}
	price, err := money.Parse(priceText)
	if err != nil {
		return models.Draft{}, err
	}
	stockText, ok := field(c.stock)
	if !ok {
		return models.Draft{}, errors.New("missing stock")
	}
	stock, err := strconv.Atoi(stockText)
	if err != nil {
		return models.Draft{}, fmt.Errorf("invalid stock %q", stockText)
	}
	category, _ := field(c.category)
	if category == "" {
		category = models.DefaultCategory
	}
	return models.Draft{Name: name, Category: category, Price: price, Stock: stock}, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

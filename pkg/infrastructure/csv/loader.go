// Package csv loads the raw retail data files and writes the pipeline's
// report files. Numeric coercion of raw fields (thousands spaces, percent
// signs, locale decimal commas) happens here so the core only ever sees
// typed values.
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"salesalloc/pkg/allocation"
)

// Loader reads the pipeline's CSV inputs.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

var productsHeader = []string{"month", "article", "designation", "group_code", "stock_qty", "price", "fee_pct", "surcharge"}

// LoadProducts reads a products file (raw or transformed), keyed by month.
func (l *Loader) LoadProducts(filename string) (map[int][]*allocation.Product, error) {
	records, err := readAll(filename, "products", productsHeader)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[int][]*allocation.Product)
	for i, record := range records {
		month, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: bad month %q", i+2, record[0])
		}
		stock, err := coerceQuantity(record[4])
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		price, err := coerceDecimal(record[5])
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		feePct, err := coerceDecimal(record[6])
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		surcharge, err := coerceDecimal(record[7])
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		p := allocation.NewProduct(
			allocation.ArticleCode(strings.TrimSpace(record[1])),
			strings.TrimSpace(record[2]),
			strings.TrimSpace(record[3]),
			stock, price, feePct, surcharge,
		)
		byMonth[month] = append(byMonth[month], p)
	}
	return byMonth, nil
}

var showroomsHeader = []string{"month", "reference", "assigned_total"}

// LoadShowRooms reads a showrooms file (raw or transformed), keyed by month.
func (l *Loader) LoadShowRooms(filename string) (map[int][]*allocation.ShowRoom, error) {
	records, err := readAll(filename, "showrooms", showroomsHeader)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[int][]*allocation.ShowRoom)
	for i, record := range records {
		month, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("showrooms CSV row %d: bad month %q", i+2, record[0])
		}
		assigned, err := coerceDecimal(record[2])
		if err != nil {
			return nil, fmt.Errorf("showrooms CSV row %d: %w", i+2, err)
		}
		sh := allocation.NewShowRoom(strings.TrimSpace(record[1]), assigned)
		byMonth[month] = append(byMonth[month], sh)
	}
	return byMonth, nil
}

var calculationHeader = []string{
	"month", "showroom", "assigned_total", "article", "designation", "group_code",
	"price", "fee_pct", "surcharge", "quantity", "total", "current_stock", "initial_stock",
}

// LoadCalculationReport reads the allocation output back, rebuilding
// showrooms with their attached sales, keyed by month then reference.
func (l *Loader) LoadCalculationReport(filename string) (map[int]map[string]*allocation.ShowRoom, error) {
	records, err := readAll(filename, "calculation report", calculationHeader)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[int]map[string]*allocation.ShowRoom)
	for i, record := range records {
		month, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("calculation report row %d: bad month %q", i+2, record[0])
		}
		assigned, err := coerceDecimal(record[2])
		if err != nil {
			return nil, fmt.Errorf("calculation report row %d: %w", i+2, err)
		}
		price, err := coerceDecimal(record[6])
		if err != nil {
			return nil, fmt.Errorf("calculation report row %d: %w", i+2, err)
		}
		feePct, err := coerceDecimal(record[7])
		if err != nil {
			return nil, fmt.Errorf("calculation report row %d: %w", i+2, err)
		}
		surcharge, err := coerceDecimal(record[8])
		if err != nil {
			return nil, fmt.Errorf("calculation report row %d: %w", i+2, err)
		}
		quantity, err := coerceQuantity(record[9])
		if err != nil {
			return nil, fmt.Errorf("calculation report row %d: %w", i+2, err)
		}
		current, err := coerceQuantity(record[11])
		if err != nil {
			return nil, fmt.Errorf("calculation report row %d: %w", i+2, err)
		}
		initial, err := coerceQuantity(record[12])
		if err != nil {
			return nil, fmt.Errorf("calculation report row %d: %w", i+2, err)
		}

		if byMonth[month] == nil {
			byMonth[month] = make(map[string]*allocation.ShowRoom)
		}
		ref := strings.TrimSpace(record[1])
		sh, ok := byMonth[month][ref]
		if !ok {
			sh = allocation.NewShowRoom(ref, assigned)
			byMonth[month][ref] = sh
		}

		p := allocation.NewProduct(
			allocation.ArticleCode(strings.TrimSpace(record[3])),
			strings.TrimSpace(record[4]),
			strings.TrimSpace(record[5]),
			current, price, feePct, surcharge,
		)
		p.InitialStock = initial
		sh.AddSale(allocation.Sale{Product: p, UnitsSold: quantity})
	}
	return byMonth, nil
}

// readAll opens a CSV file, validates its header and returns the data rows.
// A missing file is reported with guidance on the expected location.
func readAll(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s (place the file there or point the config at it): %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV %s is empty; expected header %v", kind, filename, expectedHeader)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, records[0])
	}
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return false
		}
	}
	return true
}

// coerceDecimal normalizes a raw numeric field: thousands spaces and percent
// signs stripped, comma decimal separator accepted, empty and "-" read as 0.
func coerceDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad numeric field %q: %w", s, err)
	}
	return d, nil
}

func coerceQuantity(s string) (allocation.Quantity, error) {
	d, err := coerceDecimal(s)
	if err != nil {
		return 0, err
	}
	return allocation.Quantity(d.IntPart()), nil
}

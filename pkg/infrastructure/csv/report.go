package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"salesalloc/pkg/allocation"
)

// Report writes the pipeline's CSV outputs into one folder. Files are
// appended to so monthly loops accumulate rows into a single report; the
// header is written once when the file is created.
type Report struct {
	OutputDir string
}

func NewReport(outputDir string) (*Report, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report folder %s: %w", outputDir, err)
	}
	return &Report{OutputDir: outputDir}, nil
}

// WriteTransformedProducts appends normalized product rows.
func (r *Report) WriteTransformedProducts(month int, products []*allocation.Product, name string) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.Itoa(month),
			string(p.Article),
			p.Designation,
			p.GroupCode,
			strconv.FormatInt(int64(p.StockQty), 10),
			p.Price.String(),
			p.FeePct.String(),
			p.Surcharge.String(),
		})
	}
	return r.appendCSV(name, productsHeader, rows)
}

// WriteTransformedShowRooms appends normalized showroom rows.
func (r *Report) WriteTransformedShowRooms(month int, showrooms []*allocation.ShowRoom, name string) error {
	rows := make([][]string, 0, len(showrooms))
	for _, sh := range showrooms {
		rows = append(rows, []string{strconv.Itoa(month), sh.Reference, sh.AssignedTotal.String()})
	}
	return r.appendCSV(name, showroomsHeader, rows)
}

// WriteCalculationReport appends one row per sale line of a solved showroom,
// skipping zero quantities. Returned merchandise keeps its negative sign in
// the quantity column.
func (r *Report) WriteCalculationReport(month int, sh *allocation.ShowRoom) error {
	var rows [][]string
	for _, s := range sh.Sales {
		if s.UnitsSold == 0 {
			continue
		}
		p := s.Product
		rows = append(rows, []string{
			strconv.Itoa(month),
			sh.Reference,
			sh.AssignedTotal.String(),
			string(p.Article),
			p.Designation,
			p.GroupCode,
			p.Price.String(),
			p.FeePct.String(),
			p.Surcharge.String(),
			strconv.FormatInt(int64(s.CorrectedUnits()), 10),
			s.TotalAmount().String(),
			strconv.FormatInt(int64(p.StockQty), 10),
			strconv.FormatInt(int64(p.InitialStock), 10),
		})
	}
	return r.appendCSV("showrooms_calculation_report.csv", calculationHeader, rows)
}

var metricsHeader = []string{
	"run_id", "month", "showroom", "status", "tolerance", "max_percentage",
	"assigned", "calculated", "absolute_difference", "relative_difference", "products_used",
}

// WriteMetrics appends one audit row for a solve attempt's outcome.
func (r *Report) WriteMetrics(m allocation.Metrics) error {
	row := []string{
		m.RunID,
		strconv.Itoa(m.Month),
		m.ShowRoom.Reference,
		m.Status.String(),
		strconv.FormatFloat(m.Params.Tolerance, 'g', -1, 64),
		strconv.FormatFloat(m.Params.MaxPercentage, 'g', -1, 64),
		m.Assigned().String(),
		m.Calculated().String(),
		m.AbsoluteDifference().String(),
		strconv.FormatFloat(m.RelativeDifference(), 'g', 6, 64),
		strconv.Itoa(m.ProductsUsed()),
	}
	return r.appendCSV("metrics.csv", metricsHeader, [][]string{row})
}

var dailySalesHeader = []string{
	"month", "showroom", "day", "date", "customer", "article", "quantity", "price", "total",
}

// WriteDailySales appends one row per customer purchase line of the
// showroom's daily split.
func (r *Report) WriteDailySales(month int, sh *allocation.ShowRoom) error {
	var rows [][]string
	for _, day := range sh.DailySales {
		for _, customer := range day.Customers {
			ref := customer.UniqueID(month, day.Day, sh.Reference)
			for _, s := range customer.Purchases {
				rows = append(rows, []string{
					strconv.Itoa(month),
					sh.Reference,
					strconv.Itoa(day.Day),
					day.Date.Format("2006-01-02"),
					ref,
					string(s.Product.Article),
					strconv.FormatInt(int64(s.CorrectedUnits()), 10),
					s.Product.Price.String(),
					s.TotalAmount().String(),
				})
			}
		}
	}
	return r.appendCSV("daily_sales.csv", dailySalesHeader, rows)
}

var remainingHeader = []string{"month", "article", "initial_stock", "current_stock", "units_used"}

// WriteRemainingProducts appends the month-end stock situation per article.
func (r *Report) WriteRemainingProducts(month int, products []*allocation.Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.Itoa(month),
			string(p.Article),
			strconv.FormatInt(int64(p.InitialStock), 10),
			strconv.FormatInt(int64(p.StockQty), 10),
			strconv.FormatInt(int64(p.InitialStock-p.StockQty), 10),
		})
	}
	return r.appendCSV("remaining_products.csv", remainingHeader, rows)
}

var qualityHeader = []string{
	"month", "article", "initial_stock", "current_stock", "units_sold",
	"stock_difference", "consistent", "raw_initial_stock", "matches_raw_data",
}

// WriteQualityAudit writes the stock-conservation audit.
func (r *Report) WriteQualityAudit(records []allocation.QualityRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(rec.Month),
			string(rec.Article),
			strconv.FormatInt(int64(rec.InitialStock), 10),
			strconv.FormatInt(int64(rec.CurrentStock), 10),
			strconv.FormatInt(int64(rec.UnitsSold), 10),
			strconv.FormatInt(int64(rec.StockDifference()), 10),
			strconv.FormatBool(rec.Consistent()),
			strconv.FormatInt(int64(rec.RawInitialStock), 10),
			strconv.FormatBool(rec.MatchesRawData()),
		})
	}
	return r.appendCSV("quality_audit.csv", qualityHeader, rows)
}

func (r *Report) appendCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(r.OutputDir, name)
	info, err := os.Stat(path)
	writeHeader := err != nil || info.Size() == 0

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report file %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

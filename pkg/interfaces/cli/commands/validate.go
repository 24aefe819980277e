package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"salesalloc/pkg/allocation"
	csvdata "salesalloc/pkg/infrastructure/csv"
)

// ValidateCommand audits the calculation output for stock conservation:
// every article's initial stock must equal its remaining stock plus the
// units sold across all showrooms, and the initial stock must match the
// raw data files.
type ValidateCommand struct {
	Deps
}

func NewValidateCommand(deps Deps) *ValidateCommand {
	return &ValidateCommand{Deps: deps}
}

func (c *ValidateCommand) Execute(ctx context.Context) error {
	log := c.logger()

	loader := csvdata.NewLoader()
	reportPath := filepath.Join(c.Config.CalculateDir(), "showrooms_calculation_report.csv")
	byMonth, err := loader.LoadCalculationReport(reportPath)
	if err != nil {
		return fmt.Errorf("failed to load calculation report: %w", err)
	}
	raw, err := loader.LoadProducts(c.Config.ProductsPath())
	if err != nil {
		return fmt.Errorf("failed to load raw products: %w", err)
	}

	records := allocation.AuditProductQuantities(byMonth)
	records = allocation.AttachRawStock(records, raw)

	inconsistent := 0
	for _, rec := range records {
		if !rec.Consistent() {
			inconsistent++
			log.Warn("stock not conserved",
				"month", rec.Month,
				"article", rec.Article,
				"initial", rec.InitialStock,
				"current", rec.CurrentStock,
				"units_sold", rec.UnitsSold)
		}
	}

	report, err := newReport(c.Config.ValidateDir())
	if err != nil {
		return err
	}
	if err := report.WriteQualityAudit(records); err != nil {
		return fmt.Errorf("failed to write quality audit: %w", err)
	}

	log.Info("validation complete",
		"records", len(records),
		"inconsistent", inconsistent,
		"output", c.Config.ValidateDir())
	return nil
}

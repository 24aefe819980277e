package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"salesalloc/pkg/allocation"
	csvdata "salesalloc/pkg/infrastructure/csv"
)

// SplitDaysCommand fans the monthly allocation over the working days of
// each month and, within each day, over a synthetic customer population.
// It reads the calculation report back rather than recomputing anything.
type SplitDaysCommand struct {
	Deps
}

func NewSplitDaysCommand(deps Deps) *SplitDaysCommand {
	return &SplitDaysCommand{Deps: deps}
}

func (c *SplitDaysCommand) Execute(ctx context.Context) error {
	log := c.logger()

	loader := csvdata.NewLoader()
	reportPath := filepath.Join(c.Config.CalculateDir(), "showrooms_calculation_report.csv")
	byMonth, err := loader.LoadCalculationReport(reportPath)
	if err != nil {
		return fmt.Errorf("failed to load calculation report: %w", err)
	}
	builder, err := c.loadMergeRules()
	if err != nil {
		return err
	}
	report, err := newReport(c.Config.ValidateDir())
	if err != nil {
		return err
	}

	runner := allocation.NewRunner(allocation.NewSolver(nil), log, allocation.RunnerConfig{
		Seed: c.Config.Solver.Seed,
	})
	closure := c.Config.Closure()

	for _, month := range sortedMonths(byMonth) {
		refs := make([]string, 0, len(byMonth[month]))
		for ref := range byMonth[month] {
			refs = append(refs, ref)
		}
		sort.Strings(refs)

		for _, ref := range refs {
			sh := byMonth[month][ref]
			inv := c.newInventory(builder)
			if err := runner.SplitOverDays(inv, sh, month, c.Config.Year, c.Config.WorkingDays, closure); err != nil {
				return fmt.Errorf("month %d showroom %s: daily split failed: %w", month, ref, err)
			}
			if err := report.WriteDailySales(month, sh); err != nil {
				return fmt.Errorf("month %d showroom %s: failed to write daily sales: %w", month, ref, err)
			}
		}
		log.Info("split month over days",
			"month", month,
			"showrooms", len(refs),
			"working_days", c.Config.WorkingDays)
	}

	log.Info("daily split complete", "output", c.Config.ValidateDir())
	return nil
}

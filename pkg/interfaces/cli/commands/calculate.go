package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"salesalloc/pkg/allocation"
	"salesalloc/pkg/allocation/mip"
	csvdata "salesalloc/pkg/infrastructure/csv"
)

// CalculateCommand runs the monthly allocation over the transformed files:
// each month gets a fresh inventory, the aggregate target is solved first,
// then every showroom in turn, and the results land in the calculation
// report alongside per-attempt metrics and the month-end stock.
type CalculateCommand struct {
	Deps
}

func NewCalculateCommand(deps Deps) *CalculateCommand {
	return &CalculateCommand{Deps: deps}
}

func (c *CalculateCommand) Execute(ctx context.Context) error {
	log := c.logger()

	loader := csvdata.NewLoader()
	products, err := loader.LoadProducts(filepath.Join(c.Config.TransformDir(), c.Config.ProductsFile))
	if err != nil {
		return fmt.Errorf("failed to load transformed products: %w", err)
	}
	showrooms, err := loader.LoadShowRooms(filepath.Join(c.Config.TransformDir(), c.Config.ShowRoomsFile))
	if err != nil {
		return fmt.Errorf("failed to load transformed showrooms: %w", err)
	}
	builder, err := c.loadMergeRules()
	if err != nil {
		return err
	}
	report, err := newReport(c.Config.CalculateDir())
	if err != nil {
		return err
	}

	solver := allocation.NewSolver(mip.New(mip.Options{
		TimeLimit: c.Config.TimeLimit(),
		RelGap:    c.Config.Solver.RelativeGap,
	}))
	runner := allocation.NewRunner(solver, log, allocation.RunnerConfig{
		Seed: c.Config.Solver.Seed,
	})

	for _, month := range sortedMonths(showrooms) {
		inv := c.newInventory(builder)
		if _, err := inv.AddProducts(products[month]); err != nil {
			return fmt.Errorf("month %d: failed to build inventory: %w", month, err)
		}
		log.Info("calculating month",
			"month", month,
			"showrooms", len(showrooms[month]),
			"products", len(inv.Products(true)))

		result, err := runner.RunMonth(ctx, inv, showrooms[month], month)
		if err != nil {
			return fmt.Errorf("month %d: allocation failed: %w", month, err)
		}

		if result.Aggregate != nil {
			if err := report.WriteMetrics(result.AggregateMetrics); err != nil {
				return fmt.Errorf("month %d: failed to write metrics: %w", month, err)
			}
		}
		for _, m := range result.Metrics {
			if err := report.WriteMetrics(m); err != nil {
				return fmt.Errorf("month %d: failed to write metrics: %w", month, err)
			}
		}
		for _, m := range result.Unsolved {
			log.Warn("showroom left unsolved",
				"month", month,
				"showroom", m.ShowRoom.Reference,
				"assigned", m.Assigned().String())
			if err := report.WriteMetrics(m); err != nil {
				return fmt.Errorf("month %d: failed to write metrics: %w", month, err)
			}
		}

		for _, sh := range showrooms[month] {
			if len(sh.Sales) == 0 {
				continue
			}
			if err := report.WriteCalculationReport(month, sh); err != nil {
				return fmt.Errorf("month %d: failed to write calculation report: %w", month, err)
			}
		}
		if err := report.WriteRemainingProducts(month, inv.Products(true)); err != nil {
			return fmt.Errorf("month %d: failed to write remaining products: %w", month, err)
		}
	}

	log.Info("calculation complete", "output", c.Config.CalculateDir())
	return nil
}

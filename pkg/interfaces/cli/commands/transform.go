package commands

import (
	"context"
	"fmt"

	csvdata "salesalloc/pkg/infrastructure/csv"
)

// TransformCommand normalizes the raw retail exports into the canonical
// CSV layout the rest of the pipeline consumes. Numeric coercion happens
// during loading, so writing the rows back yields clean files.
type TransformCommand struct {
	Deps
}

func NewTransformCommand(deps Deps) *TransformCommand {
	return &TransformCommand{Deps: deps}
}

func (c *TransformCommand) Execute(ctx context.Context) error {
	log := c.logger()
	log.Info("transforming raw data files",
		"products", c.Config.ProductsPath(),
		"showrooms", c.Config.ShowRoomsPath())

	loader := csvdata.NewLoader()
	products, err := loader.LoadProducts(c.Config.ProductsPath())
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	showrooms, err := loader.LoadShowRooms(c.Config.ShowRoomsPath())
	if err != nil {
		return fmt.Errorf("failed to load showrooms: %w", err)
	}

	report, err := newReport(c.Config.TransformDir())
	if err != nil {
		return err
	}
	for _, month := range sortedMonths(products) {
		if err := report.WriteTransformedProducts(month, products[month], c.Config.ProductsFile); err != nil {
			return fmt.Errorf("failed to write transformed products: %w", err)
		}
	}
	for _, month := range sortedMonths(showrooms) {
		if err := report.WriteTransformedShowRooms(month, showrooms[month], c.Config.ShowRoomsFile); err != nil {
			return fmt.Errorf("failed to write transformed showrooms: %w", err)
		}
	}

	log.Info("transform complete", "output", c.Config.TransformDir())
	return nil
}

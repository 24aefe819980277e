// Package commands implements the pipeline steps the CLI drives: transform
// the raw files, calculate the monthly allocations, split them over days and
// customers, and validate stock conservation.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"salesalloc/pkg/allocation"
	"salesalloc/pkg/infrastructure/config"
	csvdata "salesalloc/pkg/infrastructure/csv"
	"salesalloc/pkg/rules"
)

// Deps carries what every command needs.
type Deps struct {
	Config config.Config
	Logger *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// loadMergeRules reads the merge-rule file; a missing file means no bundle
// rules, every product sells as a singleton. A malformed file is an error.
func (d Deps) loadMergeRules() (*rules.Builder, error) {
	parsed, err := rules.Load(d.Config.MergeRulesPath())
	if errors.Is(err, os.ErrNotExist) {
		d.logger().Warn("no merge rules found, products sell as singletons",
			"path", d.Config.MergeRulesPath())
		return rules.NewBuilder(nil), nil
	}
	if err != nil {
		return nil, err
	}
	return rules.NewBuilder(parsed), nil
}

func (d Deps) newInventory(builder *rules.Builder) *allocation.Inventory {
	return allocation.NewInventory(builder, d.Config.AllowIncompletePackages)
}

// sortedMonths returns map keys in calendar order so the pipeline is
// deterministic across runs.
func sortedMonths[V any](byMonth map[int]V) []int {
	months := make([]int, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}

func newReport(dir string) (*csvdata.Report, error) {
	report, err := csvdata.NewReport(dir)
	if err != nil {
		return nil, fmt.Errorf("prepare output folder: %w", err)
	}
	return report, nil
}

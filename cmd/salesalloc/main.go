package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"salesalloc/pkg/infrastructure/config"
	"salesalloc/pkg/infrastructure/logging"
	"salesalloc/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		configFile = flag.String("config", "", "Path to YAML configuration file")
		dataDir    = flag.String("data", "", "Directory containing the raw data files")
		outputDir  = flag.String("output", "", "Output directory for results")
		year       = flag.Int("year", 0, "Calendar year of the sales targets")
		seed       = flag.Int64("seed", 0, "Random seed for the daily and customer splits")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help || flag.NArg() == 0 {
		printUsage()
		if *help {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *year != 0 {
		cfg.Year = *year
	}
	if *seed != 0 {
		cfg.Solver.Seed = *seed
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	deps := commands.Deps{
		Config: cfg,
		Logger: logging.NewLogger(cfg.Logging),
	}
	ctx := context.Background()

	for _, step := range flag.Args() {
		if err := runStep(ctx, deps, step); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func runStep(ctx context.Context, deps commands.Deps, step string) error {
	switch step {
	case "transform":
		return commands.NewTransformCommand(deps).Execute(ctx)
	case "calculate":
		return commands.NewCalculateCommand(deps).Execute(ctx)
	case "split-days":
		return commands.NewSplitDaysCommand(deps).Execute(ctx)
	case "validate":
		return commands.NewValidateCommand(deps).Execute(ctx)
	case "all":
		for _, s := range []string{"transform", "calculate", "split-days", "validate"} {
			if err := runStep(ctx, deps, s); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown step %q (expected transform, calculate, split-days, validate or all)", step)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `salesalloc - showroom sales target allocation

Usage:
  salesalloc [flags] <step>...

Steps:
  transform    Normalize the raw product and showroom files
  calculate    Allocate monthly targets across the stocked products
  split-days   Fan allocations over working days and customers
  validate     Audit the allocation for stock conservation
  all          Run every step in order

Flags:
`)
	flag.PrintDefaults()
}

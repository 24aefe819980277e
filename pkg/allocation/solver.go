package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"salesalloc/pkg/allocation/mip"
)

const (
	// DefaultTimeLimit bounds a single backend invocation.
	DefaultTimeLimit = 240 * time.Second
	// DefaultRelGap is the relative optimality gap accepted from the backend.
	DefaultRelGap = 0.001
)

// Params are the two knobs the retry controller sweeps: the allowed relative
// deviation of the achieved total from the target, and the cap on how much of
// a single package's stock one allocation may consume.
type Params struct {
	Tolerance     float64
	MaxPercentage float64
}

// Backend is the integer-programming solver the allocation problem is
// delegated to: integer variables with bounds, a banded linear constraint,
// and a maximize objective.
type Backend interface {
	Solve(ctx context.Context, p mip.Problem) (mip.Result, error)
}

// Allocation is a proposed quantity for one package. Nothing is consumed
// until the caller commits it through Inventory.RecordSale.
type Allocation struct {
	Package  *Package
	Quantity Quantity
}

// Solver formulates the per-showroom integer allocation problem and reads
// back the backend's solution. It never mutates the inventory itself.
type Solver struct {
	backend Backend
}

// NewSolver wires a solver to a backend; nil selects the built-in
// branch-and-bound backend with default limits.
func NewSolver(backend Backend) *Solver {
	if backend == nil {
		backend = mip.New(mip.Options{TimeLimit: DefaultTimeLimit, RelGap: DefaultRelGap})
	}
	return &Solver{backend: backend}
}

// Allocate chooses integer quantities per sellable package so the total value
// lands within target*(1 +/- tolerance), maximizing the total under the band,
// with no package exceeding its stock times the max-percentage cap.
// A zero target or an empty inventory yields a solved-but-empty allocation.
func (s *Solver) Allocate(ctx context.Context, inv *Inventory, target decimal.Decimal, params Params) ([]Allocation, mip.Status, error) {
	packages := inv.Packages(false)
	if target.LessThanOrEqual(decimal.Zero) || len(packages) == 0 {
		return nil, mip.Optimal, nil
	}

	vars := make([]mip.Variable, len(packages))
	for i, pkg := range packages {
		vars[i] = mip.Variable{
			Name:  fmt.Sprintf("q_%s", pkg.Code),
			Upper: int64(maxUsable(pkg.StockQty, params.MaxPercentage)),
			Coeff: pkg.Price.InexactFloat64(),
		}
	}
	t := target.InexactFloat64()
	prob := mip.Problem{
		Vars: vars,
		Low:  t * (1 - params.Tolerance),
		High: t * (1 + params.Tolerance),
	}

	res, err := s.backend.Solve(ctx, prob)
	if err != nil {
		return nil, mip.Unknown, fmt.Errorf("solver backend: %w", err)
	}
	if !res.Status.Solved() {
		return nil, res.Status, nil
	}

	var allocs []Allocation
	for i, v := range res.Values {
		if qty := Quantity(v); qty > 0 {
			allocs = append(allocs, Allocation{Package: packages[i], Quantity: qty})
		}
	}
	return allocs, res.Status, nil
}

// maxUsable caps a package's usable quantity at stock times the
// max-percentage, truncated, never above the live stock.
func maxUsable(stock Quantity, maxPct float64) Quantity {
	capped := Quantity(float64(stock) * maxPct)
	if capped > stock {
		return stock
	}
	return capped
}

// AllocationTotal is the monetary value of a proposed allocation.
func AllocationTotal(allocs []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Package.Price.Mul(decimal.NewFromInt(int64(a.Quantity))))
	}
	return total
}

// SolvedCorrectly is the acceptance test: the calculated total must land in
// assigned +/- tolerance*assigned. A zero assigned target is trivially
// satisfied.
func SolvedCorrectly(assigned, calculated decimal.Decimal, tolerance float64) bool {
	if assigned.IsZero() {
		return true
	}
	limit := assigned.Mul(decimal.NewFromFloat(tolerance)).Abs()
	return assigned.Sub(calculated).Abs().LessThanOrEqual(limit)
}

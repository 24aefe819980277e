package allocation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salesalloc/pkg/allocation/mip"
)

// Default parameter ladders, swept tightest to loosest. The Cartesian product
// bounds the retry loop; no wall clock applies to the sweep itself.
var (
	DefaultToleranceLadder  = []float64{1e-9, 1e-6, 1e-4, 1e-3, 0.01, 0.05, 0.1, 0.2, 0.5}
	DefaultPercentageLadder = []float64{0.1, 0.2, 0.3, 0.5, 0.8, 1.0}
)

// DefaultGreedyAttempts is how many relaxation passes the greedy mop-up runs.
const DefaultGreedyAttempts = 3

// RunnerConfig tunes the retry controller. Zero values select defaults.
type RunnerConfig struct {
	ToleranceLadder  []float64
	PercentageLadder []float64
	GreedyAttempts   int
	Seed             int64
}

// Runner drives the solver across the parameter ladder for each showroom of
// a monthly batch, committing inventory consumption only for accepted
// results and collecting the showrooms no parameter pair could solve.
type Runner struct {
	solver         *Solver
	cache          *ResultCache
	logger         *slog.Logger
	rng            *rand.Rand
	tolLadder      []float64
	pctLadder      []float64
	greedyAttempts int
}

func NewRunner(solver *Solver, logger *slog.Logger, cfg RunnerConfig) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		solver:         solver,
		cache:          NewResultCache(),
		logger:         logger,
		rng:            rand.New(rand.NewSource(cfg.Seed)),
		tolLadder:      cfg.ToleranceLadder,
		pctLadder:      cfg.PercentageLadder,
		greedyAttempts: cfg.GreedyAttempts,
	}
	if len(r.tolLadder) == 0 {
		r.tolLadder = DefaultToleranceLadder
	}
	if len(r.pctLadder) == 0 {
		r.pctLadder = DefaultPercentageLadder
	}
	if r.greedyAttempts == 0 {
		r.greedyAttempts = DefaultGreedyAttempts
	}
	return r
}

// BatchResult is the outcome of one monthly pass: per-showroom metrics for
// accepted results and the unsolved remainder, which is reported, never
// fatal.
type BatchResult struct {
	Aggregate        *ShowRoom
	AggregateMetrics Metrics
	Metrics          []Metrics
	Unsolved         []Metrics
}

// RunMonth allocates a month: first the aggregate pseudo-showroom against the
// full inventory to smooth out individually unsolvable targets, then each
// showroom sequentially against a fresh inventory seeded from the aggregate
// sales. The last showroom absorbs whatever stock remains.
func (r *Runner) RunMonth(ctx context.Context, inv *Inventory, showrooms []*ShowRoom, month int) (*BatchResult, error) {
	runID := uuid.NewString()

	var active []*ShowRoom
	total := decimal.Zero
	for _, sh := range showrooms {
		if sh.AssignedTotal.IsZero() {
			continue
		}
		active = append(active, sh)
		total = total.Add(sh.AssignedTotal)
	}
	result := &BatchResult{}
	if len(active) == 0 {
		return result, nil
	}

	agg := NewShowRoom(fmt.Sprintf("ALL-MONTH-%d", month), total)
	aggMetrics, solved, err := r.SolveShowRoom(ctx, inv, agg, month, runID)
	if err != nil {
		return nil, err
	}
	if !solved {
		// the aggregate must consume stock regardless so the per-showroom
		// pass has something to distribute
		r.logger.Warn("aggregate target not solvable, filling greedily",
			"month", month, "target", total.String())
		sales, err := r.solver.GreedyFill(inv, total, r.pctLadder[len(r.pctLadder)-1], r.greedyAttempts)
		if err != nil {
			return nil, err
		}
		agg.AddSales(sales)
	}
	result.Aggregate = agg
	result.AggregateMetrics = aggMetrics

	subInv := inv.Scoped()
	if err := subInv.AddProductsFromSales(agg.Sales); err != nil {
		return nil, err
	}

	last := active[len(active)-1]
	for _, sh := range active {
		metrics, solved, err := r.SolveShowRoom(ctx, subInv, sh, month, runID)
		if err != nil {
			return nil, err
		}
		if solved {
			result.Metrics = append(result.Metrics, metrics)
		} else {
			r.logger.Warn("showroom not solved by any parameter pair",
				"month", month, "showroom", sh.Reference,
				"assigned", sh.AssignedTotal.String())
			result.Unsolved = append(result.Unsolved, metrics)
		}
		if sh == last {
			sales, err := r.solver.AllocateRemaining(subInv)
			if err != nil {
				return nil, err
			}
			sh.AddSales(sales)
		}
	}
	return result, nil
}

// SolveShowRoom sweeps the (tolerance, max-percentage) lattice from strict to
// loose and commits the first allocation that passes the acceptance test.
// Returns false when every pair is exhausted; the showroom keeps whatever
// sales it already had and the inventory is untouched.
func (r *Runner) SolveShowRoom(ctx context.Context, inv *Inventory, sh *ShowRoom, month int, runID string) (Metrics, bool, error) {
	last := Metrics{ShowRoom: sh, Month: month, RunID: runID, Status: mip.Unknown}
	for _, tol := range r.tolLadder {
		for _, pct := range r.pctLadder {
			params := Params{Tolerance: tol, MaxPercentage: pct}
			key := cacheKey{
				Showroom:    sh.Reference,
				Month:       month,
				Tolerance:   tol,
				MaxPct:      pct,
				Fingerprint: inv.Fingerprint(),
			}
			if entry, ok := r.cache.get(key); ok {
				if err := r.replay(inv, sh, entry); err == nil {
					r.mopUp(sh, inv, pct)
					return Metrics{ShowRoom: sh, Month: month, RunID: runID, Status: entry.Status, Params: params}, true, nil
				}
				// stale cached quantities no longer fit the stock; fall
				// through and recompute fresh
			}

			target := sh.AssignedTotal.Sub(sh.CalculatedTotal())
			allocs, status, err := r.solver.Allocate(ctx, inv, target, params)
			if err != nil {
				return last, false, err
			}
			last = Metrics{ShowRoom: sh, Month: month, RunID: runID, Status: status, Params: params}
			if !status.Solved() {
				continue
			}
			candidate := sh.CalculatedTotal().Add(AllocationTotal(allocs))
			if !SolvedCorrectly(sh.AssignedTotal, candidate, tol) {
				continue
			}

			quantities := make(map[string]Quantity, len(allocs))
			for _, a := range allocs {
				sales, err := inv.RecordSale(a.Quantity, a.Package)
				if err != nil {
					return last, false, fmt.Errorf("committing accepted allocation: %w", err)
				}
				sh.AddSales(sales)
				quantities[a.Package.Code] = a.Quantity
			}
			r.cache.put(key, cacheEntry{Quantities: quantities, Status: status})
			r.mopUp(sh, inv, pct)
			return last, true, nil
		}
	}
	return last, false, nil
}

// mopUp runs the greedy matcher against the freshly depleted inventory to
// narrow any remaining difference. It never overshoots the target.
func (r *Runner) mopUp(sh *ShowRoom, inv *Inventory, pct float64) {
	remaining := sh.AssignedTotal.Sub(sh.CalculatedTotal())
	if !remaining.IsPositive() {
		return
	}
	sales, err := r.solver.GreedyFill(inv, remaining, pct, r.greedyAttempts)
	if err != nil {
		// greedy consumption is best effort on top of an accepted result
		r.logger.Warn("greedy mop-up stopped early", "showroom", sh.Reference, "error", err)
	}
	sh.AddSales(sales)
}

// replay re-applies a cached result. Every package is validated against live
// stock before anything is committed, so a stale entry fails cleanly and the
// caller recomputes instead of trusting it.
func (r *Runner) replay(inv *Inventory, sh *ShowRoom, entry cacheEntry) error {
	codes := make([]string, 0, len(entry.Quantities))
	for code := range entry.Quantities {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	packages := make([]*Package, len(codes))
	for i, code := range codes {
		pkg := inv.FindPackage(code)
		if pkg == nil || pkg.StockQty < entry.Quantities[code] {
			return fmt.Errorf("cached package %s no longer backed by stock", code)
		}
		packages[i] = pkg
	}
	for i, code := range codes {
		sales, err := inv.RecordSale(entry.Quantities[code], packages[i])
		if err != nil {
			return err
		}
		sh.AddSales(sales)
	}
	return nil
}

// SplitOverDays replays a showroom's monthly sales into the given fresh
// inventory and fans every package's quantity across the working days of the
// month, then fans each day's units across a customer count derived from the
// day's volume.
func (r *Runner) SplitOverDays(inv *Inventory, sh *ShowRoom, month, year, days int, closure time.Weekday) error {
	if err := inv.AddProductsFromSales(sh.Sales); err != nil {
		return err
	}
	daySales := make([][]Sale, days)
	for _, pkg := range inv.Packages(false) {
		for i, qty := range EqualSplit(r.rng, days, pkg.StockQty) {
			if qty == 0 {
				continue
			}
			sales, err := inv.RecordSale(qty, pkg)
			if err != nil {
				return err
			}
			daySales[i] = append(daySales[i], sales...)
		}
	}
	for day := 1; day <= days; day++ {
		sh.AddDailySales(day, month, year, closure, daySales[day-1])
	}
	r.splitCustomers(sh)
	return nil
}

func (r *Runner) splitCustomers(sh *ShowRoom) {
	for i := range sh.DailySales {
		day := &sh.DailySales[i]
		units := day.TotalUnits()
		if units <= 0 {
			continue
		}
		n := customersForUnits(units)
		purchases := make([][]Sale, n)
		for _, sale := range day.Sales {
			for j, qty := range RandomSplit(r.rng, n, sale.UnitsSold) {
				if qty > 0 {
					purchases[j] = append(purchases[j], Sale{Product: sale.Product, UnitsSold: qty})
				}
			}
		}
		var filled [][]Sale
		for _, p := range purchases {
			if len(p) > 0 {
				filled = append(filled, p)
			}
		}
		day.AddCustomerPurchases(filled)
	}
}

// customersForUnits derives the day's customer count from its volume,
// roughly one customer per three units.
func customersForUnits(units Quantity) int {
	n := int(units) / 3
	if n < 1 {
		n = 1
	}
	if Quantity(n) > units {
		n = int(units)
	}
	return n
}

package allocation

import "github.com/shopspring/decimal"

// GreedyFill is the deterministic fallback matcher: walk the live packages in
// inventory order and, per package, take the largest quantity under the
// percentage cap whose value does not overshoot the remaining difference.
// Repeats up to attempts full passes, relaxing the percentage each pass,
// until the difference is met or stock runs out. Consumption is committed
// through RecordSale as it goes; the accumulated sales are returned.
//
// Greedy trades optimality for guaranteed termination: it is the backstop
// when the integer backend times out or reports infeasible.
func (s *Solver) GreedyFill(inv *Inventory, remaining decimal.Decimal, maxPct float64, attempts int) ([]Sale, error) {
	var sales []Sale
	pct := maxPct
	for attempt := 0; attempt < attempts; attempt++ {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		progress := false
		for _, pkg := range inv.Packages(false) {
			if !pkg.Price.IsPositive() {
				continue
			}
			for qty := maxUsable(pkg.StockQty, pct); qty >= 1; qty-- {
				value := pkg.Price.Mul(decimal.NewFromInt(int64(qty)))
				if value.GreaterThan(remaining) {
					continue
				}
				recorded, err := inv.RecordSale(qty, pkg)
				if err != nil {
					return sales, err
				}
				sales = append(sales, recorded...)
				remaining = remaining.Sub(value)
				progress = true
				break
			}
		}
		if !progress {
			break
		}
		pct += (1 - pct) / 2
	}
	return sales, nil
}

// AllocateRemaining empties the inventory: every live package is sold out in
// full. Used by the final pass that pushes unallocated stock onto the last
// showroom so month-end stock is fully accounted for.
func (s *Solver) AllocateRemaining(inv *Inventory) ([]Sale, error) {
	var sales []Sale
	for _, pkg := range inv.Packages(false) {
		recorded, err := inv.RecordSale(pkg.StockQty, pkg)
		if err != nil {
			return sales, err
		}
		sales = append(sales, recorded...)
	}
	return sales, nil
}

// Package mip solves the bounded integer program the allocation solver
// builds: integer variables x_i in [0, U_i], a linear value sum
// V = sum(c_i * x_i) constrained to a [low, high] band, objective
// maximize V. This is a bounded-knapsack-shaped problem, searched with
// branch and bound under a wall-clock limit and a relative optimality gap.
package mip

import (
	"context"
	"math"
	"sort"
	"time"
)

// Status is the solver's verdict on a problem.
type Status int

const (
	// Optimal: search completed (or met the gap target) with a solution
	// inside the band.
	Optimal Status = iota
	// Feasible: a solution inside the band was found but the search was
	// truncated by the time limit before proving optimality.
	Feasible
	// Infeasible: the search completed without finding any point in the band.
	Infeasible
	// Unknown: the search was truncated before finding a point in the band.
	Unknown
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "Optimal"
	case Feasible:
		return "Feasible"
	case Infeasible:
		return "Infeasible"
	case Unknown:
		return "Unknown"
	default:
		return "Invalid"
	}
}

// Solved reports whether the result carries a usable assignment.
func (s Status) Solved() bool {
	return s == Optimal || s == Feasible
}

// Variable is one integer decision variable with lower bound 0.
type Variable struct {
	Name  string
	Upper int64
	Coeff float64
}

// Problem is a band-constrained value-maximization over integer variables.
type Problem struct {
	Vars []Variable
	Low  float64
	High float64
}

// Options control the search.
type Options struct {
	// TimeLimit bounds the wall clock spent searching. Zero means no limit.
	TimeLimit time.Duration
	// RelGap stops the search once the incumbent is within this relative
	// distance of the band's upper edge.
	RelGap float64
}

// Result carries the verdict and, when solved, per-variable values aligned
// with Problem.Vars.
type Result struct {
	Status    Status
	Objective float64
	Values    []int64
}

// Solver runs branch-and-bound searches. Safe to reuse across problems.
type Solver struct {
	opts Options
}

func New(opts Options) *Solver {
	return &Solver{opts: opts}
}

// searchState is the per-solve working set.
type searchState struct {
	vars      []Variable // normalized: no negative coefficients
	order     []int      // indices sorted by coefficient, descending
	suffixMax []float64  // max value attainable from order[d:]
	low, high float64
	eps       float64
	gapTarget float64

	best      float64
	bestFound bool
	bestVals  []int64
	current   []int64

	deadline  time.Time
	truncated bool
	nodes     int
	ctx       context.Context
}

// Solve searches the problem. The context cancels the search early; a
// cancelled search returns its best incumbent as Feasible.
func (s *Solver) Solve(ctx context.Context, p Problem) (Result, error) {
	if len(p.Vars) == 0 {
		if p.Low <= 0 && 0 <= p.High {
			return Result{Status: Optimal}, nil
		}
		return Result{Status: Infeasible}, nil
	}

	// Flip negative-coefficient variables (x -> U - x) so every coefficient
	// is positive; the constant moves into the band.
	vars := make([]Variable, len(p.Vars))
	flipped := make([]bool, len(p.Vars))
	base := 0.0
	for i, v := range p.Vars {
		vars[i] = v
		if v.Coeff < 0 {
			base += v.Coeff * float64(v.Upper)
			vars[i].Coeff = -v.Coeff
			flipped[i] = true
		}
	}

	st := &searchState{
		vars:     vars,
		low:      p.Low - base,
		high:     p.High - base,
		eps:      1e-6 + 1e-9*math.Abs(p.High),
		current:  make([]int64, len(vars)),
		bestVals: make([]int64, len(vars)),
		ctx:      ctx,
	}
	st.gapTarget = st.high - s.opts.RelGap*math.Abs(st.high)
	if s.opts.TimeLimit > 0 {
		st.deadline = time.Now().Add(s.opts.TimeLimit)
	}

	st.order = make([]int, len(vars))
	for i := range st.order {
		st.order[i] = i
	}
	sort.SliceStable(st.order, func(a, b int) bool {
		return vars[st.order[a]].Coeff > vars[st.order[b]].Coeff
	})
	st.suffixMax = make([]float64, len(vars)+1)
	for d := len(vars) - 1; d >= 0; d-- {
		v := vars[st.order[d]]
		st.suffixMax[d] = st.suffixMax[d+1] + v.Coeff*float64(v.Upper)
	}

	st.search(0, 0)

	res := Result{}
	switch {
	case st.bestFound && !st.truncated:
		res.Status = Optimal
	case st.bestFound:
		res.Status = Feasible
	case st.truncated:
		res.Status = Unknown
	default:
		res.Status = Infeasible
	}
	if st.bestFound {
		res.Objective = st.best + base
		res.Values = make([]int64, len(p.Vars))
		for i := range p.Vars {
			if flipped[i] {
				res.Values[i] = p.Vars[i].Upper - st.bestVals[i]
			} else {
				res.Values[i] = st.bestVals[i]
			}
		}
	}
	return res, nil
}

// search explores quantities for the variable at depth d, largest value
// first, with cur the value accumulated so far.
func (st *searchState) search(d int, cur float64) {
	if st.stopped() {
		return
	}
	// nothing below can reach the lower band edge
	if cur+st.suffixMax[d] < st.low-st.eps {
		return
	}
	// nothing below can beat the incumbent
	if st.bestFound && cur+st.suffixMax[d] <= st.best+st.eps {
		return
	}
	// taking everything left stays inside the band: that is the subtree's
	// optimum, no need to branch
	if cur+st.suffixMax[d] <= st.high+st.eps {
		total := cur + st.suffixMax[d]
		if total >= st.low-st.eps && (!st.bestFound || total > st.best) {
			for dd := d; dd < len(st.order); dd++ {
				if st.vars[st.order[dd]].Coeff > 0 {
					st.current[st.order[dd]] = st.vars[st.order[dd]].Upper
				}
			}
			st.record(total)
			for dd := d; dd < len(st.order); dd++ {
				st.current[st.order[dd]] = 0
			}
		}
		return
	}
	if d == len(st.order) {
		if cur >= st.low-st.eps && cur <= st.high+st.eps {
			st.record(cur)
		}
		return
	}

	idx := st.order[d]
	v := st.vars[idx]
	if v.Coeff == 0 {
		// worthless variables contribute nothing, fix them at zero
		st.current[idx] = 0
		st.search(d+1, cur)
		return
	}
	qMax := v.Upper
	if v.Coeff > 0 {
		if byBand := int64(math.Floor((st.high - cur + st.eps) / v.Coeff)); byBand < qMax {
			qMax = byBand
		}
	}
	if qMax < 0 {
		qMax = 0
	}
	for q := qMax; q >= 0; q-- {
		st.current[idx] = q
		st.search(d+1, cur+v.Coeff*float64(q))
		if st.stopped() || st.gapMet() {
			break
		}
	}
	st.current[idx] = 0
}

func (st *searchState) record(total float64) {
	if total > st.high+st.eps {
		return
	}
	if !st.bestFound || total > st.best {
		st.best = total
		st.bestFound = true
		copy(st.bestVals, st.current)
	}
}

func (st *searchState) gapMet() bool {
	return st.bestFound && st.best >= st.gapTarget-st.eps
}

func (st *searchState) stopped() bool {
	if st.truncated {
		return true
	}
	st.nodes++
	if st.nodes%1024 == 0 {
		if !st.deadline.IsZero() && time.Now().After(st.deadline) {
			st.truncated = true
			return true
		}
		select {
		case <-st.ctx.Done():
			st.truncated = true
			return true
		default:
		}
	}
	return false
}

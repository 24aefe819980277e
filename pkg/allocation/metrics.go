package allocation

import (
	"github.com/shopspring/decimal"

	"salesalloc/pkg/allocation/mip"
)

// Metrics is a read-only view over a solved showroom used to judge and audit
// the result: assigned vs calculated totals, fit quality, and the parameters
// that produced it.
type Metrics struct {
	ShowRoom *ShowRoom
	Month    int
	RunID    string
	Status   mip.Status
	Params   Params
}

func (m Metrics) Assigned() decimal.Decimal {
	return m.ShowRoom.AssignedTotal
}

func (m Metrics) Calculated() decimal.Decimal {
	return m.ShowRoom.CalculatedTotal()
}

func (m Metrics) AbsoluteDifference() decimal.Decimal {
	return m.Assigned().Sub(m.Calculated()).Abs()
}

// RelativeDifference is the absolute difference over the assigned total,
// defined as 0 for a zero-assigned showroom.
func (m Metrics) RelativeDifference() float64 {
	assigned := m.Assigned()
	if assigned.IsZero() {
		return 0
	}
	return m.AbsoluteDifference().Div(assigned.Abs()).InexactFloat64()
}

// ProductsUsed counts distinct articles with units actually sold.
func (m Metrics) ProductsUsed() int {
	seen := make(map[ArticleCode]struct{})
	for _, s := range m.ShowRoom.Sales {
		if s.UnitsSold != 0 {
			seen[s.Product.Article] = struct{}{}
		}
	}
	return len(seen)
}

// Solved applies the acceptance test with the parameters that produced this
// result.
func (m Metrics) Solved() bool {
	return SolvedCorrectly(m.Assigned(), m.Calculated(), m.Params.Tolerance)
}

package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Sale links a product to a units-sold count at a point in time.
type Sale struct {
	Product   *Product
	UnitsSold Quantity
}

// TotalAmount is units sold times unit price.
func (s Sale) TotalAmount() decimal.Decimal {
	return s.Product.Price.Mul(decimal.NewFromInt(int64(s.UnitsSold)))
}

// TotalTaxInclusive is units sold times the tax-inclusive unit price.
func (s Sale) TotalTaxInclusive() decimal.Decimal {
	return s.Product.TaxInclusivePrice().Mul(decimal.NewFromInt(int64(s.UnitsSold)))
}

// CorrectedUnits reports the units with the sign reports expect: negative
// for returned merchandise, which carries a negative price.
func (s Sale) CorrectedUnits() Quantity {
	if s.Product.Price.IsNegative() {
		return -s.UnitsSold
	}
	return s.UnitsSold
}

func (s Sale) String() string {
	return fmt.Sprintf("Sale %s (sold: %d)", s.Product.Article, s.UnitsSold)
}

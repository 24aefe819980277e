package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Package groups one or more products that are sold and depleted as a single
// atomic unit. Its stock ceiling is fixed at construction by the packer;
// a checkout of N package units deducts N units from every member.
type Package struct {
	Code     string
	Members  []*Product
	StockQty Quantity
	Price    decimal.Decimal
}

// NewPackage creates a package over the given members with a combined stock
// ceiling. The package price is the sum of the member prices.
func NewPackage(code string, members []*Product, stockLimit Quantity) *Package {
	price := decimal.Zero
	for _, p := range members {
		price = price.Add(p.Price)
	}
	return &Package{
		Code:     code,
		Members:  members,
		StockQty: stockLimit,
		Price:    price,
	}
}

// UpdateStock cascades a checkout or insert to every member and adjusts the
// package ceiling. On checkout every member is validated first so a failure
// leaves no partial state behind.
func (k *Package) UpdateStock(qty Quantity, op StockOperation) error {
	if op == Checkout {
		if k.StockQty < qty {
			return &StockExhaustedError{Article: ArticleCode(k.Code), Requested: qty, Available: k.StockQty}
		}
		for _, p := range k.Members {
			if p.StockQty < qty {
				return &StockExhaustedError{Article: p.Article, Requested: qty, Available: p.StockQty}
			}
		}
	}
	for _, p := range k.Members {
		if err := p.UpdateStock(qty, op); err != nil {
			return err
		}
	}
	if op == Checkout {
		k.StockQty -= qty
	} else {
		k.StockQty += qty
	}
	return nil
}

func (k *Package) String() string {
	codes := make([]ArticleCode, 0, len(k.Members))
	for _, p := range k.Members {
		codes = append(codes, p.Article)
	}
	return fmt.Sprintf("Package %s (%d units | %v)", k.Code, k.StockQty, codes)
}

package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ArticleCode is the stable unique key identifying a product.
type ArticleCode string

// Quantity represents an integer count of units.
type Quantity int64

// StockOperation is the direction of a stock update.
type StockOperation int

const (
	Checkout StockOperation = iota
	Insert
)

func (o StockOperation) String() string {
	switch o {
	case Checkout:
		return "Checkout"
	case Insert:
		return "Insert"
	default:
		return "Unknown"
	}
}

// defaultTaxRate is applied when a product is created without an explicit rate.
var defaultTaxRate = decimal.NewFromFloat(0.19)

// StockExhaustedError is returned when a checkout would drive stock negative.
// The product is left unchanged.
type StockExhaustedError struct {
	Article   ArticleCode
	Requested Quantity
	Available Quantity
}

func (e *StockExhaustedError) Error() string {
	return fmt.Sprintf("cannot checkout %d units of %s: only %d in stock",
		e.Requested, e.Article, e.Available)
}

// Product is an inventory item. StockQty is mutated in place through
// UpdateStock so every holder of the same Product observes the change;
// InitialStock is captured at construction and never recomputed.
type Product struct {
	Article      ArticleCode
	Designation  string
	GroupCode    string
	StockQty     Quantity
	InitialStock Quantity
	Price        decimal.Decimal
	FeePct       decimal.Decimal
	Surcharge    decimal.Decimal
	TaxRate      decimal.Decimal
	Returned     bool
}

// NewProduct creates a product and captures its initial stock.
func NewProduct(article ArticleCode, designation, groupCode string, stock Quantity, price, feePct, surcharge decimal.Decimal) *Product {
	return &Product{
		Article:      article,
		Designation:  designation,
		GroupCode:    groupCode,
		StockQty:     stock,
		InitialStock: stock,
		Price:        price,
		FeePct:       feePct,
		Surcharge:    surcharge,
		TaxRate:      defaultTaxRate,
	}
}

// Equal reports whether two products are the same logical product.
// Identity is keyed solely on the article code.
func (p *Product) Equal(other *Product) bool {
	return other != nil && p.Article == other.Article
}

// UpdateStock applies a checkout or insert of qty units. A checkout that
// would drive stock below zero fails with StockExhaustedError and leaves
// the stock untouched.
func (p *Product) UpdateStock(qty Quantity, op StockOperation) error {
	delta := qty
	if op == Checkout {
		delta = -qty
	}
	if p.StockQty+delta < 0 {
		return &StockExhaustedError{Article: p.Article, Requested: qty, Available: p.StockQty}
	}
	p.StockQty += delta
	return nil
}

// TaxInclusivePrice computes the unit price with fee, tax and flat surcharge
// applied, rounded to 2 decimals.
func (p *Product) TaxInclusivePrice() decimal.Decimal {
	fee := p.Price.Mul(p.FeePct).Div(decimal.NewFromInt(100))
	subtotal := p.Price.Add(fee)
	tax := subtotal.Mul(p.TaxRate)
	return subtotal.Add(tax).Add(p.Surcharge).Round(2)
}

// Clone returns an independent copy of the product. Used when a deliberate
// point-in-time snapshot is needed; everything else shares the canonical
// inventory-owned instance.
func (p *Product) Clone() *Product {
	cp := *p
	return &cp
}

func (p *Product) String() string {
	return fmt.Sprintf("Product %s (%s | %d units)", p.Article, p.Price, p.StockQty)
}

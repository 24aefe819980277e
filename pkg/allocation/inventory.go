package allocation

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// DefinitionsBuilder produces ordered bundle definitions (largest first) for
// the given universe of article codes. Implementations live outside the core;
// the merge-rule configuration layer provides one.
type DefinitionsBuilder interface {
	MakeDefinitions(articles []ArticleCode) ([][]ArticleCode, error)
}

// Inventory owns the canonical set of products for a scope and the packages
// derived from them. Products are deduplicated by article code; every
// consumption goes through RecordSale or UpdateQuantities, the only paths
// enforcing the non-negative stock invariant.
type Inventory struct {
	builder         DefinitionsBuilder
	allowIncomplete bool
	products        map[ArticleCode]*Product
	order           []ArticleCode
	packages        []*Package
}

// NewInventory creates an empty inventory. A nil builder yields singleton
// packages only.
func NewInventory(builder DefinitionsBuilder, allowIncomplete bool) *Inventory {
	return &Inventory{
		builder:         builder,
		allowIncomplete: allowIncomplete,
		products:        make(map[ArticleCode]*Product),
	}
}

// AddProducts merges the given products into the inventory: duplicates by
// article code have stock and initial stock summed, negative-stock entries
// are flipped into returned items, and packages are rebuilt.
func (inv *Inventory) AddProducts(products []*Product) ([]*Product, error) {
	for _, p := range products {
		if existing, ok := inv.products[p.Article]; ok {
			existing.StockQty += p.StockQty
			existing.InitialStock += p.StockQty
			continue
		}
		inv.products[p.Article] = p.Clone()
		inv.order = append(inv.order, p.Article)
	}
	inv.flipReturnedItems()
	if err := inv.rebuildPackages(); err != nil {
		return nil, err
	}
	return inv.Products(true), nil
}

// AddProductsFromSales reconstructs the inventory content from sales, seeding
// a narrower scope from a wider one's output. Each sale's product is
// snapshotted with stock set to the units sold, then merged and re-packaged.
func (inv *Inventory) AddProductsFromSales(sales []Sale) error {
	products := make([]*Product, 0, len(sales))
	for _, s := range sales {
		p := s.Product.Clone()
		p.StockQty = s.UnitsSold
		p.InitialStock = s.UnitsSold
		products = append(products, p)
	}
	_, err := inv.AddProducts(products)
	return err
}

// UpdateQuantities checks out each sale's units against the matching product.
// A sale that would overdraw fails with StockExhaustedError; the error
// propagates and is never absorbed here.
func (inv *Inventory) UpdateQuantities(sales []Sale) error {
	for _, s := range sales {
		p, ok := inv.products[s.Product.Article]
		if !ok {
			continue
		}
		if err := p.UpdateStock(s.UnitsSold, Checkout); err != nil {
			return err
		}
	}
	return nil
}

// Products returns the owned products in insertion order, excluding
// zero-stock entries unless all is requested.
func (inv *Inventory) Products(all bool) []*Product {
	out := make([]*Product, 0, len(inv.order))
	for _, code := range inv.order {
		p := inv.products[code]
		if all || p.StockQty > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Packages returns the current packages, excluding depleted ones unless all
// is requested. The filtered view is ordered by descending member count so
// bundles are preferred over singletons when consumed in order.
func (inv *Inventory) Packages(all bool) []*Package {
	if all {
		return inv.packages
	}
	out := make([]*Package, 0, len(inv.packages))
	for _, k := range inv.packages {
		if k.StockQty > 0 {
			out = append(out, k)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Members) > len(out[j].Members)
	})
	return out
}

// FindPackage returns the live package with the given code, if any.
func (inv *Inventory) FindPackage(code string) *Package {
	for _, k := range inv.packages {
		if k.Code == code {
			return k
		}
	}
	return nil
}

// RecordSale checks out qty units of the package, cascading to every member,
// and returns one sale per member product. This is the only sanctioned path
// by which a solver commits consumption.
func (inv *Inventory) RecordSale(qty Quantity, pkg *Package) ([]Sale, error) {
	if err := pkg.UpdateStock(qty, Checkout); err != nil {
		return nil, err
	}
	sales := make([]Sale, 0, len(pkg.Members))
	for _, p := range pkg.Members {
		sales = append(sales, Sale{Product: p, UnitsSold: qty})
	}
	return sales, nil
}

// Scoped returns a fresh empty inventory sharing this one's bundle rules.
func (inv *Inventory) Scoped() *Inventory {
	return NewInventory(inv.builder, inv.allowIncomplete)
}

// Fingerprint captures the current stock state. Two inventories with the
// same fingerprint hold the same articles at the same stock levels.
func (inv *Inventory) Fingerprint() uint64 {
	codes := make([]string, 0, len(inv.products))
	for code := range inv.products {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	h := fnv.New64a()
	for _, code := range codes {
		fmt.Fprintf(h, "%s=%d;", code, inv.products[ArticleCode(code)].StockQty)
	}
	return h.Sum64()
}

// flipReturnedItems turns merged negative-stock entries into returned
// merchandise: stock and price negated, returned flag set.
func (inv *Inventory) flipReturnedItems() {
	for _, p := range inv.products {
		if p.StockQty < 0 {
			p.Returned = true
			p.Price = p.Price.Neg()
			p.StockQty = -p.StockQty
		}
	}
}

func (inv *Inventory) rebuildPackages() error {
	products := inv.Products(true)
	var defs [][]ArticleCode
	if inv.builder != nil {
		codes := make([]ArticleCode, 0, len(products))
		for _, p := range products {
			codes = append(codes, p.Article)
		}
		var err error
		defs, err = inv.builder.MakeDefinitions(codes)
		if err != nil {
			return err
		}
	}
	inv.packages = NewPacker(products, defs, inv.allowIncomplete).Build()
	return nil
}

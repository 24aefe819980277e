package allocation

import "fmt"

// Packer turns a flat product collection plus ordered bundle definitions into
// non-overlapping packages covering every product exactly once. Definitions
// are processed in the order given (largest first by convention) so earlier,
// more specific bundles claim products before smaller or generic ones;
// leftovers become singleton packages.
type Packer struct {
	products        []*Product
	definitions     [][]ArticleCode
	unclaimed       map[ArticleCode]Quantity
	allowIncomplete bool
}

func NewPacker(products []*Product, definitions [][]ArticleCode, allowIncomplete bool) *Packer {
	unclaimed := make(map[ArticleCode]Quantity, len(products))
	for _, p := range products {
		unclaimed[p.Article] = p.StockQty
	}
	return &Packer{
		products:        products,
		definitions:     definitions,
		unclaimed:       unclaimed,
		allowIncomplete: allowIncomplete,
	}
}

// Build constructs the packages. The running unclaimed ledger, not live
// product stock, tracks how much of each product remains available to later
// definitions; live stock is only consumed on sale.
func (pk *Packer) Build() []*Package {
	var packages []*Package
	for i, def := range pk.definitions {
		var members []*Product
		for _, code := range def {
			for _, p := range pk.products {
				if p.Article == code && pk.unclaimed[p.Article] > 0 {
					members = append(members, p)
				}
			}
		}
		if !pk.allowIncomplete && len(members) != len(def) {
			continue
		}
		// all members out of stock or codes absent
		if len(members) == 0 {
			continue
		}

		ceiling := pk.sharedCeiling(members)
		for _, p := range members {
			pk.unclaimed[p.Article] -= ceiling
		}
		packages = append(packages, NewPackage(fmt.Sprintf("PKG-%d", i), members, ceiling))
	}

	for _, p := range pk.products {
		if left := pk.unclaimed[p.Article]; left > 0 {
			packages = append(packages, NewPackage(fmt.Sprintf("PKG-%s", p.Article), []*Product{p}, left))
			pk.unclaimed[p.Article] = 0
		}
	}
	return packages
}

// sharedCeiling is the minimum across members of live stock and remaining
// unclaimed quantity.
func (pk *Packer) sharedCeiling(members []*Product) Quantity {
	ceiling := members[0].StockQty
	for _, p := range members {
		if p.StockQty < ceiling {
			ceiling = p.StockQty
		}
		if pk.unclaimed[p.Article] < ceiling {
			ceiling = pk.unclaimed[p.Article]
		}
	}
	return ceiling
}

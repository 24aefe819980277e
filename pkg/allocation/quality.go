package allocation

import "sort"

// QualityRecord audits stock conservation for one article in one month:
// the initial stock must equal what is left plus everything sold across all
// showrooms, and the initial stock seen in the calculation output must match
// the raw input data.
type QualityRecord struct {
	Month           int
	Article         ArticleCode
	InitialStock    Quantity
	CurrentStock    Quantity
	UnitsSold       Quantity
	RawInitialStock Quantity
}

// StockDifference is zero when no unit was lost or invented.
func (q QualityRecord) StockDifference() Quantity {
	return q.InitialStock - (q.CurrentStock + q.UnitsSold)
}

func (q QualityRecord) Consistent() bool {
	return q.StockDifference() == 0
}

func (q QualityRecord) MatchesRawData() bool {
	return q.RawInitialStock == q.InitialStock
}

// AuditProductQuantities aggregates the calculation output per month and
// article: total units sold across showrooms, the lowest current stock seen
// (the final state) and the highest initial stock seen.
func AuditProductQuantities(byMonth map[int]map[string]*ShowRoom) []QualityRecord {
	type key struct {
		month   int
		article ArticleCode
	}
	grouped := make(map[key][]Sale)
	for month, showrooms := range byMonth {
		for _, sh := range showrooms {
			for _, s := range sh.Sales {
				k := key{month, s.Product.Article}
				grouped[k] = append(grouped[k], s)
			}
		}
	}

	records := make([]QualityRecord, 0, len(grouped))
	for k, sales := range grouped {
		rec := QualityRecord{
			Month:        k.month,
			Article:      k.article,
			InitialStock: sales[0].Product.InitialStock,
			CurrentStock: sales[0].Product.StockQty,
		}
		for _, s := range sales {
			if s.Product.InitialStock > rec.InitialStock {
				rec.InitialStock = s.Product.InitialStock
			}
			if s.Product.StockQty < rec.CurrentStock {
				rec.CurrentStock = s.Product.StockQty
			}
			rec.UnitsSold += s.UnitsSold
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Month != records[j].Month {
			return records[i].Month < records[j].Month
		}
		return records[i].Article < records[j].Article
	})
	return records
}

// AttachRawStock fills each record's raw initial stock from the raw product
// rows, summed per article within the month.
func AttachRawStock(records []QualityRecord, raw map[int][]*Product) []QualityRecord {
	totals := make(map[int]map[ArticleCode]Quantity)
	for month, products := range raw {
		totals[month] = make(map[ArticleCode]Quantity)
		for _, p := range products {
			totals[month][p.Article] += p.StockQty
		}
	}
	for i := range records {
		if byArticle, ok := totals[records[i].Month]; ok {
			records[i].RawInitialStock = byArticle[records[i].Article]
		}
	}
	return records
}

package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditProduct(article ArticleCode, initial, current Quantity) *Product {
	p := newTestProduct(article, current, 10)
	p.InitialStock = initial
	return p
}

func TestAuditProductQuantities(t *testing.T) {
	// one article sold across two showrooms in the same month; the report
	// rows carry snapshots at different depletion points
	sr1 := NewShowRoom("SR1", decimal.NewFromInt(100))
	sr1.AddSale(Sale{Product: auditProduct("A", 20, 14), UnitsSold: 6})
	sr2 := NewShowRoom("SR2", decimal.NewFromInt(50))
	sr2.AddSale(Sale{Product: auditProduct("A", 20, 4), UnitsSold: 10})
	sr2.AddSale(Sale{Product: auditProduct("B", 5, 0), UnitsSold: 5})

	byMonth := map[int]map[string]*ShowRoom{
		2: {"SR1": sr1, "SR2": sr2},
	}
	records := AuditProductQuantities(byMonth)
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, ArticleCode("A"), a.Article)
	assert.Equal(t, 2, a.Month)
	assert.Equal(t, Quantity(20), a.InitialStock, "highest initial wins")
	assert.Equal(t, Quantity(4), a.CurrentStock, "lowest current is the final state")
	assert.Equal(t, Quantity(16), a.UnitsSold)
	assert.True(t, a.Consistent())

	b := records[1]
	assert.Equal(t, ArticleCode("B"), b.Article)
	assert.True(t, b.Consistent())
}

func TestAuditProductQuantities_DetectsLostUnits(t *testing.T) {
	sr := NewShowRoom("SR1", decimal.NewFromInt(100))
	sr.AddSale(Sale{Product: auditProduct("A", 20, 10), UnitsSold: 6})

	records := AuditProductQuantities(map[int]map[string]*ShowRoom{1: {"SR1": sr}})
	require.Len(t, records, 1)
	assert.False(t, records[0].Consistent())
	assert.Equal(t, Quantity(4), records[0].StockDifference())
}

func TestAttachRawStock(t *testing.T) {
	records := []QualityRecord{
		{Month: 1, Article: "A", InitialStock: 12},
		{Month: 1, Article: "B", InitialStock: 5},
	}
	raw := map[int][]*Product{
		1: {
			newTestProduct("A", 7, 10),
			newTestProduct("A", 5, 10), // duplicate rows sum
			newTestProduct("B", 4, 10),
		},
	}

	records = AttachRawStock(records, raw)
	assert.Equal(t, Quantity(12), records[0].RawInitialStock)
	assert.True(t, records[0].MatchesRawData())
	assert.Equal(t, Quantity(4), records[1].RawInitialStock)
	assert.False(t, records[1].MatchesRawData())
}

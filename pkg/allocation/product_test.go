package allocation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(article ArticleCode, stock Quantity, price float64) *Product {
	return NewProduct(article, "test product", "GRP", stock, decimal.NewFromFloat(price), decimal.Zero, decimal.Zero)
}

func TestProduct_UpdateStock(t *testing.T) {
	p := newTestProduct("ART1", 10, 5)

	require.NoError(t, p.UpdateStock(4, Checkout))
	assert.Equal(t, Quantity(6), p.StockQty)

	require.NoError(t, p.UpdateStock(3, Insert))
	assert.Equal(t, Quantity(9), p.StockQty)

	assert.Equal(t, Quantity(10), p.InitialStock, "initial stock never moves after construction")
}

func TestProduct_UpdateStock_Exhausted(t *testing.T) {
	p := newTestProduct("ART1", 3, 5)

	err := p.UpdateStock(4, Checkout)
	require.Error(t, err)

	var exhausted *StockExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, ArticleCode("ART1"), exhausted.Article)
	assert.Equal(t, Quantity(4), exhausted.Requested)
	assert.Equal(t, Quantity(3), exhausted.Available)

	assert.Equal(t, Quantity(3), p.StockQty, "failed checkout must leave stock untouched")
}

func TestProduct_TaxInclusivePrice(t *testing.T) {
	p := NewProduct("ART1", "lamp", "GRP", 1,
		decimal.NewFromInt(100),
		decimal.NewFromInt(10),
		decimal.NewFromInt(5))

	// 100 + 10% fee = 110, + 19% tax = 130.90, + 5 surcharge = 135.90
	assert.Equal(t, "135.9", p.TaxInclusivePrice().String())
}

func TestProduct_Equal(t *testing.T) {
	a := newTestProduct("ART1", 10, 5)
	b := newTestProduct("ART1", 99, 42)
	c := newTestProduct("ART2", 10, 5)

	assert.True(t, a.Equal(b), "identity is the article code only")
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestProduct_Clone(t *testing.T) {
	p := newTestProduct("ART1", 10, 5)
	cp := p.Clone()

	require.NoError(t, cp.UpdateStock(10, Checkout))
	assert.Equal(t, Quantity(10), p.StockQty, "clone mutations must not reach the original")
	assert.Equal(t, Quantity(0), cp.StockQty)
}

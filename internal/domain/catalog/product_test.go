package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduct(t *testing.T) {
	newProduct := func(t *testing.T, stock int) *Product {
		t.Helper()
		p, err := New("p1", "Widget", "", "tools", decimal.NewFromInt(10), stock)
		require.NoError(t, err)
		return p
	}

	t.Run("within stock", func(t *testing.T) {
		p := newProduct(t, 5)
		require.NoError(t, p.Deduct(3))
		assert.Equal(t, 2, p.Stock)
	})

	t.Run("exceeds stock", func(t *testing.T) {
		p := newProduct(t, 1)

		err := p.Deduct(2)

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "p1", stockErr.ProductID)
		assert.Equal(t, 2, stockErr.Requested)
		assert.Equal(t, 1, stockErr.Available)
		assert.Equal(t, 1, p.Stock, "stock must be unchanged after a rejected deduction")
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		p := newProduct(t, 5)
		assert.ErrorIs(t, p.Deduct(0), ErrInvalidQuantity)
		assert.Equal(t, 5, p.Stock)
	})
}

func TestNewProductValidation(t *testing.T) {
	_, err := New("p1", "", "", "", decimal.NewFromInt(1), 1)
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = New("p1", "Widget", "", "", decimal.NewFromInt(-1), 1)
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = New("p1", "Widget", "", "", decimal.NewFromInt(1), -1)
	assert.ErrorIs(t, err, ErrNegativeStock)
}

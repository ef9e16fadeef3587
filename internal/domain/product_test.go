package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.UTC)

	t.Run("TruncatesTimestampsToMilliseconds", func(t *testing.T) {
		p, err := NewProduct("Iphone 14 Pro Max", 10, decimal.RequireFromString("8.500"), false, StatusActive, now)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, now.Truncate(time.Millisecond), p.CreatedAt)
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
		assert.True(t, p.Price.Equal(decimal.RequireFromString("8.5")))
	})

	t.Run("RejectsEmptyName", func(t *testing.T) {
		_, err := NewProduct("", 1, decimal.NewFromInt(1), true, StatusActive, now)
		require.ErrorIs(t, err, ErrInvalidProductName)
	})

	t.Run("RejectsNegativePrice", func(t *testing.T) {
		_, err := NewProduct("Mouse", 1, decimal.RequireFromString("-0.01"), true, StatusActive, now)
		require.ErrorIs(t, err, ErrInvalidProductPrice)
	})

	t.Run("RejectsNegativeQuantity", func(t *testing.T) {
		_, err := NewProduct("Mouse", -1, decimal.NewFromInt(1), true, StatusActive, now)
		require.ErrorIs(t, err, ErrInvalidProductQuantity)
	})
}

func TestProductApply(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p, err := NewProduct("Keyboard", 5, decimal.RequireFromString("19.99"), true, StatusActive, now)
	require.NoError(t, err)

	assert.False(t, p.Apply(ProductPatch{}, now.Add(time.Second)))
	assert.Equal(t, now, p.UpdatedAt)

	qty := 50
	assert.True(t, p.Apply(ProductPatch{Quantity: &qty}, now.Add(time.Second)))
	assert.Equal(t, 50, p.Quantity)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, p.Available)
	assert.Equal(t, now.Add(time.Second), p.UpdatedAt)
}

func TestNextUpdatedAt(t *testing.T) {
	prev := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, prev.Add(time.Second), NextUpdatedAt(prev, prev.Add(time.Second+time.Microsecond)))
	assert.Equal(t, prev.Add(time.Millisecond), NextUpdatedAt(prev, prev))
	assert.Equal(t, prev.Add(time.Millisecond), NextUpdatedAt(prev, prev.Add(-time.Minute)))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusActive, StatusFromActive(true))
	assert.Equal(t, StatusInactive, StatusFromActive(false))
	assert.True(t, StatusActive.IsActive())
	assert.False(t, StatusInactive.IsActive())

	assert.True(t, OnlyActive.Matches(StatusActive))
	assert.False(t, OnlyActive.Matches(StatusInactive))
	assert.True(t, AnyStatus.Matches(StatusInactive))
}

func TestProductFilter(t *testing.T) {
	lo := decimal.RequireFromString("5")
	hi := decimal.RequireFromString("10")
	at := func(price string, status Status) *Product {
		return &Product{Price: decimal.RequireFromString(price), Status: status}
	}

	f := ProductFilter{MinPrice: &lo, MaxPrice: &hi}
	assert.True(t, f.Matches(at("5", StatusActive)))
	assert.True(t, f.Matches(at("10.00", StatusActive)))
	assert.False(t, f.Matches(at("10.01", StatusActive)))
	assert.False(t, f.Matches(at("4.99", StatusActive)))
	assert.False(t, f.Matches(at("7", StatusInactive)))
	assert.True(t, ProductFilter{}.Matches(at("1000", StatusActive)))
}

func TestErrors(t *testing.T) {
	id := uuid.MustParse("1e4f214e-85f7-461a-89d0-a751a32e3bb9")

	notFound := NewNotFoundError(id)
	assert.Equal(t, "Product not found with filter: 1e4f214e-85f7-461a-89d0-a751a32e3bb9", notFound.Error())
	assert.True(t, errors.Is(notFound, ErrProductNotFound))

	collision := NewCollisionError("Iphone 14 Pro Max")
	assert.Equal(t, "Product with name Iphone 14 Pro Max already exists", collision.Message)
	assert.True(t, errors.Is(collision, ErrDuplicateName))
}

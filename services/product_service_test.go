package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

func TestAddProductAssignsID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.products.Add(ctx, models.Product{ID: "client-chosen", Name: "Lamp", Description: "desk lamp", Price: 25, Quantity: 3})
	require.NoError(t, err)
	assert.NotEqual(t, "client-chosen", p.ID)

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, *p, *got)

	_, err = f.products.Add(ctx, models.Product{Name: "Bad", Description: "x", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "Lamp", 25)
	f.product(t, "Lamp", 30)
	f.product(t, "Chair", 80)

	page, err := NewPage(1, 50)
	require.NoError(t, err)

	lamps, err := f.products.Search(ctx, "Lamp", page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), lamps.Total)
	for _, p := range lamps.Items {
		assert.Equal(t, "Lamp", p.Name)
	}

	_, err = f.products.Search(ctx, "Sofa", page)
	assert.ErrorIs(t, err, ErrNoMoreRecords)

	all, err := f.products.List(ctx, page)
	require.NoError(t, err)
	assert.Len(t, all.Items, 3)
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Lamp", 25)

	updated, err := f.products.UpdatePrice(ctx, p.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.Price)

	updated, err = f.products.UpdateQuantity(ctx, p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
	assert.Equal(t, 40.0, updated.Price)

	_, err = f.products.UpdatePrice(ctx, p.ID, -2)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.products.UpdatePrice(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Lamp", 25)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	_, err := f.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, p.ID), ErrProductNotFound)
}

func TestProductPriceMustBeFinite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Lamp", 25)

	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := f.products.UpdatePrice(ctx, p.ID, price)
		assert.ErrorIs(t, err, ErrInvalidInput, "price %v", price)

		_, err = f.products.Add(ctx, models.Product{Name: "Bad", Description: "x", Price: price})
		assert.ErrorIs(t, err, ErrInvalidInput, "price %v", price)
	}

	got, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Price)

	free, err := f.products.Add(ctx, models.Product{Name: "Sticker", Description: "free", Price: 0})
	require.NoError(t, err)
	assert.Zero(t, free.Price)
}

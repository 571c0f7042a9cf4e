package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/auth"
	"storefront/models"
)

func TestRegisterHashesPassword(t *testing.T) {
	f := newFixture(t)

	acct, err := f.accounts.Register(context.Background(), models.RoleAdmin, RegisterInput{
		Username: "root", Email: "root@shop.io", Password: "secret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, acct.ID)
	assert.True(t, acct.IsAdmin)
	assert.NotEqual(t, "secret", acct.Password)
	assert.True(t, auth.CheckPassword(acct.Password, "secret"))
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	f := newFixture(t)
	f.user(t, "ann@shop.io")

	_, err := f.accounts.Register(context.Background(), models.RoleUser, RegisterInput{
		Username: "other", Email: "ann@shop.io", Password: "pw",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// users and admins are separate namespaces
	_, err = f.accounts.Register(context.Background(), models.RoleAdmin, RegisterInput{
		Username: "ann", Email: "ann@shop.io", Password: "pw",
	})
	assert.NoError(t, err)
}

func TestAccountLookupAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ann@shop.io")

	got, err := f.accounts.Get(ctx, models.RoleUser, "ann@shop.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.accounts.Get(ctx, models.RoleAdmin, "ann@shop.io")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	updated, err := f.accounts.UpdateAddress(ctx, models.RoleUser, "ann@shop.io", "2 Side St")
	require.NoError(t, err)
	assert.Equal(t, "2 Side St", updated.Address)

	_, err = f.accounts.UpdateAddress(ctx, models.RoleUser, "nobody@shop.io", "x")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = f.accounts.Get(ctx, "guest", "ann@shop.io")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	page, err := NewPage(1, 2)
	require.NoError(t, err)

	_, err = f.accounts.List(ctx, models.RoleUser, page)
	assert.ErrorIs(t, err, ErrNoMoreRecords)

	f.user(t, "a@shop.io")
	f.user(t, "b@shop.io")
	f.user(t, "c@shop.io")

	listing, err := f.accounts.List(ctx, models.RoleUser, page)
	require.NoError(t, err)
	assert.Equal(t, int64(3), listing.Total)
	assert.Len(t, listing.Items, 2)
}

func TestDeleteUserRemovesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ann@shop.io")
	p := f.product(t, "Lamp", 100)
	_, err := f.carts.AddItem(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.accounts.Delete(ctx, models.RoleUser, "ann@shop.io"))

	_, err = f.accounts.Get(ctx, models.RoleUser, "ann@shop.io")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	cart, err := f.carts.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	assert.ErrorIs(t, f.accounts.Delete(ctx, models.RoleUser, "ann@shop.io"), ErrAccountNotFound)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"storefront/database"
	"storefront/lock"
	"storefront/models"
	"storefront/util"
)

// CartService owns the read-modify-write cycle on a user's single cart
// document. Every mutation runs under the user's cart lock.
type CartService struct {
	carts    database.Collection
	products database.Collection
	locker   lock.Locker
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCartService serializes mutations of one user's cart through locker.
func NewCartService(store database.Store, locker lock.Locker, timeout time.Duration) *CartService {
	return &CartService{
		carts:    store.Collection(database.Carts),
		products: store.Collection(database.Products),
		locker:   locker,
		timeout:  timeout,
		logger:   util.GetLogger(),
	}
}

// Get returns the user's cart; a user without one gets an empty cart.
func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cart, err := s.load(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return cart, err
}

func (s *CartService) load(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.M{"user_id": userID}, &cart)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &cart, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	_, err := s.carts.Update(ctx,
		bson.M{"user_id": cart.UserID},
		bson.M{"user_id": cart.UserID, "items": cart.Items},
		true)
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// AddItem adds quantity of a catalog product, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if productID == "" || quantity < 1 {
		return nil, fmt.Errorf("%w: product_id is required and quantity must be at least 1", ErrInvalidInput)
	}

	n, err := s.products.Count(ctx, bson.M{"id": productID})
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	release, err := s.locker.Lock(ctx, lock.CartKey(userID))
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.load(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		cart = &models.Cart{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	if err := cart.AddItem(productID, quantity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	util.CartUpdatesTotal.WithLabelValues("add").Inc()
	s.logger.Debug("Cart item added",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity))
	return cart, nil
}

// RemoveItem drops the whole line for productID. It fails with
// ErrCartNotFound or ErrItemNotInCart when there is nothing to remove.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	release, err := s.locker.Lock(ctx, lock.CartKey(userID))
	if err != nil {
		return nil, err
	}
	defer release()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cart.RemoveItem(productID) {
		return nil, fmt.Errorf("%w: %s", ErrItemNotInCart, productID)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	util.CartUpdatesTotal.WithLabelValues("remove").Inc()
	return cart, nil
}

// Clear deletes the whole cart document.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	release, err := s.locker.Lock(ctx, lock.CartKey(userID))
	if err != nil {
		return err
	}
	defer release()

	n, err := s.carts.Delete(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if n == 0 {
		return ErrCartNotFound
	}

	util.CartUpdatesTotal.WithLabelValues("clear").Inc()
	return nil
}

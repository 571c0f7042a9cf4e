package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"storefront/database"
	"storefront/models"
	"storefront/util"
)

// ProductService is the catalog.
type ProductService struct {
	products database.Collection
	timeout  time.Duration
	logger   *zap.Logger
}

func NewProductService(store database.Store, timeout time.Duration) *ProductService {
	return &ProductService{
		products: store.Collection(database.Products),
		timeout:  timeout,
		logger:   util.GetLogger(),
	}
}

// Add stores p under a freshly generated id; any id sent by the caller is ignored.
func (s *ProductService) Add(ctx context.Context, p models.Product) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := checkPrice(p.Price); err != nil {
		return nil, err
	}
	if p.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	}
	p.ID = uuid.New().String()
	if err := s.products.Insert(ctx, &p); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	s.logger.Info("Product added", zap.String("id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

// Get returns the product with id or ErrProductNotFound.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var p models.Product
	err := s.products.FindOne(ctx, bson.M{"id": id}, &p)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List pages through the whole catalog.
func (s *ProductService) List(ctx context.Context, page Page) (*Listing[models.Product], error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return listPage[models.Product](ctx, s.products, bson.M{}, page)
}

// Search matches the exact product name.
func (s *ProductService) Search(ctx context.Context, name string, page Page) (*Listing[models.Product], error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return listPage[models.Product](ctx, s.products, bson.M{"name": name}, page)
}

// UpdatePrice sets a finite, non-negative price. Placed orders keep the
// price they were created with.
func (s *ProductService) UpdatePrice(ctx context.Context, id string, price float64) (*models.Product, error) {
	if err := checkPrice(price); err != nil {
		return nil, err
	}
	return s.update(ctx, id, bson.M{"price": price})
}

// checkPrice accepts finite, non-negative prices.
func checkPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: price must be a finite number", ErrInvalidInput)
	}
	if price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	return nil
}

// UpdateQuantity sets the stock count.
func (s *ProductService) UpdateQuantity(ctx context.Context, id string, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalidInput)
	}
	return s.update(ctx, id, bson.M{"quantity": quantity})
}

func (s *ProductService) update(ctx context.Context, id string, set bson.M) (*models.Product, error) {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	matched, err := s.products.Update(tctx, bson.M{"id": id}, set, false)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if matched == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return s.Get(ctx, id)
}

// Delete removes a product. Carts still referencing it fail pricing at
// order time.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.products.Delete(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	s.logger.Info("Product deleted", zap.String("id", id))
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"storefront/broker"
	"storefront/database"
	"storefront/lock"
	"storefront/models"
	"storefront/util"
)

// OrderService turns carts into priced, immutable orders.
type OrderService struct {
	store     database.Store
	users     database.Collection
	products  database.Collection
	carts     database.Collection
	orders    database.Collection
	locker    lock.Locker
	publisher broker.Publisher
	timeout   time.Duration
	logger    *zap.Logger
}

// NewOrderService shares locker with the cart service so checkout and cart
// edits of one user never interleave.
func NewOrderService(
	store database.Store,
	locker lock.Locker,
	publisher broker.Publisher,
	timeout time.Duration,
) *OrderService {
	return &OrderService{
		store:     store,
		users:     store.Collection(database.Users),
		products:  store.Collection(database.Products),
		carts:     store.Collection(database.Carts),
		orders:    store.Collection(database.Orders),
		locker:    locker,
		publisher: publisher,
		timeout:   timeout,
		logger:    util.GetLogger(),
	}
}

// PlaceOrder converts the user's cart into a placed order and clears the cart.
//
// The user must exist (ErrInvalidUser). A missing cart yields an empty order.
// Every line is priced against the live catalog; if any product is gone the
// call fails with ErrInvalidProduct and nothing is written. The order insert
// and the cart delete share one store transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	start := time.Now()
	defer func() {
		util.OrderPlacementLatency.Observe(time.Since(start).Seconds())
	}()

	order, err := s.placeLocked(ctx, userID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	util.OrdersPlacedTotal.Inc()
	util.OrderAmount.Observe(order.Amount)
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Float64("amount", order.Amount),
		zap.Int("lines", len(order.ProductIDs)))

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID: order.ID,
		UserID:  order.UserID,
		Amount:  order.Amount,
		Items:   order.ProductIDs,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.String("order_id", order.ID), zap.Error(err))
	}

	return order, nil
}

func (s *OrderService) placeLocked(ctx context.Context, userID string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	release, err := s.locker.Lock(ctx, lock.CartKey(userID))
	if err != nil {
		return nil, err
	}
	defer release()

	n, err := s.users.Count(ctx, bson.M{"id": userID})
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUser, userID)
	}

	order := &models.Order{
		ID:         uuid.New().String(),
		UserID:     userID,
		ProductIDs: []models.CartItem{},
		AllProduct: []models.ProductSnapshot{},
	}

	var cart models.Cart
	err = s.carts.FindOne(ctx, bson.M{"user_id": userID}, &cart)
	switch {
	case err == nil:
		order.ProductIDs = append(order.ProductIDs, cart.Items...)
	case !errors.Is(err, database.ErrNotFound):
		return nil, fmt.Errorf("load cart: %w", err)
	}

	if err := s.price(ctx, order); err != nil {
		return nil, err
	}
	order.IsPlaced = true

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.orders.Insert(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if _, err := s.carts.Delete(ctx, bson.M{"user_id": userID}); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// price fills Amount and AllProduct from current catalog prices.
func (s *OrderService) price(ctx context.Context, order *models.Order) error {
	var amount float64
	for _, line := range order.ProductIDs {
		var p models.Product
		err := s.products.FindOne(ctx, bson.M{"id": line.ProductID}, &p)
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrInvalidProduct, line.ProductID)
		}
		if err != nil {
			return fmt.Errorf("load product %s: %w", line.ProductID, err)
		}
		amount += p.Price * float64(line.Quantity)
		order.AllProduct = append(order.AllProduct, p.Snapshot())
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return fmt.Errorf("%w: order amount out of range", ErrInvalidInput)
	}
	order.Amount = amount
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidUser):
		return "invalid_user"
	case errors.Is(err, ErrInvalidProduct):
		return "invalid_product"
	case errors.Is(err, lock.ErrLockTimeout):
		return "lock_timeout"
	}
	return "store_error"
}

// ListAll pages through every order.
func (s *OrderService) ListAll(ctx context.Context, page Page) (*Listing[models.Order], error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return listPage[models.Order](ctx, s.orders, bson.M{}, page)
}

// ListForUser pages through the orders placed by userID.
func (s *OrderService) ListForUser(ctx context.Context, userID string, page Page) (*Listing[models.Order], error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return listPage[models.Order](ctx, s.orders, bson.M{"user_id": userID}, page)
}

// Delete removes an order or returns ErrOrderNotFound.
func (s *OrderService) Delete(ctx context.Context, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.orders.Delete(ctx, bson.M{"id": orderID})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	s.logger.Info("Order deleted", zap.String("order_id", orderID))
	return nil
}

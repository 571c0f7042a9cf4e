package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"storefront/database"
	"storefront/lock"
	"storefront/models"
)

const testTimeout = 2 * time.Second

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.OrderPlacedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, e *models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

// failingStore wraps a store and makes deletes on one collection fail.
type failingStore struct {
	*database.MemoryStore
	failDeletesOn string
}

func (s *failingStore) Collection(name string) database.Collection {
	c := s.MemoryStore.Collection(name)
	if name == s.failDeletesOn {
		return failingDeletes{c}
	}
	return c
}

type failingDeletes struct {
	database.Collection
}

var errDeleteFailed = errors.New("delete failed")

func (failingDeletes) Delete(context.Context, bson.M) (int64, error) {
	return 0, errDeleteFailed
}

type fixture struct {
	store     database.Store
	mem       *database.MemoryStore
	publisher *recordingPublisher
	accounts  *AccountService
	products  *ProductService
	carts     *CartService
	orders    *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := database.NewMemoryStore()
	return newFixtureWithStore(t, mem, mem)
}

func newFixtureWithStore(t *testing.T, store database.Store, mem *database.MemoryStore) *fixture {
	t.Helper()
	locker := lock.NewLocal()
	pub := &recordingPublisher{}
	return &fixture{
		store:     store,
		mem:       mem,
		publisher: pub,
		accounts:  NewAccountService(store, testTimeout),
		products:  NewProductService(store, testTimeout),
		carts:     NewCartService(store, locker, testTimeout),
		orders:    NewOrderService(store, locker, pub, testTimeout),
	}
}

func (f *fixture) user(t *testing.T, email string) *models.Account {
	t.Helper()
	acct, err := f.accounts.Register(context.Background(), models.RoleUser, RegisterInput{
		Username: email, Email: email, Address: "1 Main St", Password: "pw",
	})
	require.NoError(t, err)
	return acct
}

func (f *fixture) product(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	p, err := f.products.Add(context.Background(), models.Product{
		Name: name, Description: name + " description", Price: price, Quantity: 10,
	})
	require.NoError(t, err)
	return p
}

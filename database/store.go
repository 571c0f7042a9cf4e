package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// Collection names.
const (
	Users    = "User"
	Admins   = "Admin"
	Products = "Product"
	Orders   = "Order"
	Carts    = "Cart"
)

var ErrNotFound = errors.New("document not found")

// Collection is the document access every service is written against.
// Filters are equality matches on top-level fields.
type Collection interface {
	// FindOne decodes the first match into out or returns ErrNotFound.
	FindOne(ctx context.Context, filter bson.M, out interface{}) error
	// FindMany decodes matches into out, a pointer to a slice.
	// A limit of zero means no limit.
	FindMany(ctx context.Context, filter bson.M, skip, limit int64, out interface{}) error
	Count(ctx context.Context, filter bson.M) (int64, error)
	Insert(ctx context.Context, doc interface{}) error
	// Update applies set to the first match, inserting filter+set when upsert
	// is true and nothing matches. It returns the number of matched documents.
	Update(ctx context.Context, filter bson.M, set bson.M, upsert bool) (int64, error)
	// Delete removes the first match and returns the number removed.
	Delete(ctx context.Context, filter bson.M) (int64, error)
}

// Store hands out collections and groups writes.
type Store interface {
	Collection(name string) Collection
	// WithTransaction runs fn so that its writes commit together where the
	// backend allows it. ctx passed to fn must be used for every call inside.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

package services

import (
	"context"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"

	"storefront/database"
)

const (
	DefaultPageNo   = 1
	DefaultPageSize = 50
)

// Page selects one window of a listing. Pages are numbered from 1.
type Page struct {
	No   int64
	Size int64
}

// NewPage validates a page request. Both values must be positive and the
// resulting offset must fit in an int64.
func NewPage(no, size int64) (Page, error) {
	if no < 1 || size < 1 {
		return Page{}, fmt.Errorf("%w: page_no and page_size must be positive", ErrInvalidInput)
	}
	if no-1 > math.MaxInt64/size {
		return Page{}, fmt.Errorf("%w: page_no is too large for page_size %d", ErrInvalidInput, size)
	}
	return Page{No: no, Size: size}, nil
}

// Skip is the number of matching documents before this page.
func (p Page) Skip() int64 {
	return (p.No - 1) * p.Size
}

// Listing is one page of a collection plus the size of the whole filtered set.
type Listing[T any] struct {
	PageNo   int64
	PageSize int64
	Total    int64
	Items    []T
}

func listPage[T any](ctx context.Context, coll database.Collection, filter bson.M, page Page) (*Listing[T], error) {
	total, err := coll.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	var items []T
	if err := coll.FindMany(ctx, filter, page.Skip(), page.Size, &items); err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoMoreRecords
	}

	return &Listing[T]{
		PageNo:   page.No,
		PageSize: page.Size,
		Total:    total,
		Items:    items,
	}, nil
}

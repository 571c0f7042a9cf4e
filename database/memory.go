package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore keeps documents in process. It backs tests and
// STORE_DRIVER=memory; data is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	colls map[string][]bson.M

	// txMu serializes transactions; a failed transaction restores the
	// snapshot taken when it started.
	txMu sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{colls: make(map[string][]bson.M)}
}

func (s *MemoryStore) Collection(name string) Collection {
	return &memCollection{store: s, name: name}
}

func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.colls = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) snapshot() map[string][]bson.M {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]bson.M, len(s.colls))
	for name, docs := range s.colls {
		// documents are replaced, never mutated in place, so a shallow copy is enough
		out[name] = append([]bson.M(nil), docs...)
	}
	return out
}

type memCollection struct {
	store *MemoryStore
	name  string
}

func (c *memCollection) FindOne(ctx context.Context, filter bson.M, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := toDoc(filter)
	if err != nil {
		return err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	for _, doc := range c.store.colls[c.name] {
		if matches(doc, f) {
			return fromDoc(doc, out)
		}
	}
	return ErrNotFound
}

func (c *memCollection) FindMany(ctx context.Context, filter bson.M, skip, limit int64, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.New("memory store: FindMany needs a pointer to a slice")
	}
	f, err := toDoc(filter)
	if err != nil {
		return err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	slice := rv.Elem()
	slice.Set(reflect.MakeSlice(slice.Type(), 0, 0))
	var seen int64
	for _, doc := range c.store.colls[c.name] {
		if !matches(doc, f) {
			continue
		}
		seen++
		if seen <= skip {
			continue
		}
		if limit > 0 && int64(slice.Len()) >= limit {
			break
		}
		elem := reflect.New(slice.Type().Elem())
		if err := fromDoc(doc, elem.Interface()); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return nil
}

func (c *memCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := toDoc(filter)
	if err != nil {
		return 0, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	var n int64
	for _, doc := range c.store.colls[c.name] {
		if matches(doc, f) {
			n++
		}
	}
	return n, nil
}

func (c *memCollection) Insert(ctx context.Context, doc interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d, err := toDoc(doc)
	if err != nil {
		return err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.colls[c.name] = append(c.store.colls[c.name], d)
	return nil
}

func (c *memCollection) Update(ctx context.Context, filter bson.M, set bson.M, upsert bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := toDoc(filter)
	if err != nil {
		return 0, err
	}
	fields, err := toDoc(set)
	if err != nil {
		return 0, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	docs := c.store.colls[c.name]
	for i, doc := range docs {
		if !matches(doc, f) {
			continue
		}
		updated := make(bson.M, len(doc)+len(fields))
		for k, v := range doc {
			updated[k] = v
		}
		for k, v := range fields {
			updated[k] = v
		}
		docs[i] = updated
		return 1, nil
	}

	if upsert {
		created := make(bson.M, len(f)+len(fields))
		for k, v := range f {
			created[k] = v
		}
		for k, v := range fields {
			created[k] = v
		}
		c.store.colls[c.name] = append(docs, created)
	}
	return 0, nil
}

func (c *memCollection) Delete(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := toDoc(filter)
	if err != nil {
		return 0, err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	docs := c.store.colls[c.name]
	for i, doc := range docs {
		if matches(doc, f) {
			rest := make([]bson.M, 0, len(docs)-1)
			rest = append(rest, docs[:i]...)
			rest = append(rest, docs[i+1:]...)
			c.store.colls[c.name] = rest
			return 1, nil
		}
	}
	return 0, nil
}

// toDoc normalizes any bson-encodable value so stored documents and filters
// compare with the same Go types.
func toDoc(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memory store: encode: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("memory store: decode: %w", err)
	}
	return m, nil
}

func fromDoc(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

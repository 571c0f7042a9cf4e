// Package lock serializes work per key, such as all cart mutations of one user.
package lock

import (
	"context"
	"errors"
)

var ErrLockTimeout = errors.New("timed out waiting for lock")

// Locker grants exclusive access to key until the returned release is called.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// CartKey is the lock scope shared by cart mutations and order placement.
func CartKey(userID string) string {
	return "cart:" + userID
}

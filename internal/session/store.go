// Package session keeps login sessions server side. The browser only holds
// a signed cookie naming the session id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNoSession = errors.New("session not found")

// Store maps session ids onto user ids.
type Store interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	Get(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

func newID() string {
	return uuid.NewString()
}

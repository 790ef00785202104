// Package store defines the persistence interfaces implemented by the
// postgres subpackage.
package store

import (
	"context"

	"github.com/jwhitmore/portfolio-backend/types"
)

// MessageStore is the persistence gateway for contact messages. Messages are
// insert-only; there is no update or delete path.
type MessageStore interface {
	// CreateMessage inserts one message and populates the store-assigned
	// ID and CreatedAt on the passed message. Returns the assigned ID.
	CreateMessage(ctx context.Context, msg *types.Message) (int64, error)

	// ListMessages returns stored messages ordered newest-first.
	ListMessages(ctx context.Context, limit, offset int) ([]types.Message, error)

	// CountMessages returns the total number of stored messages.
	CountMessages(ctx context.Context) (int, error)
}

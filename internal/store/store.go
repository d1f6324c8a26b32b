// Package store persists conversation history per user.
package store

import (
	"context"

	"github.com/zhouzirui/daptic/internal/model/chat"
)

// Store keeps the messages exchanged by each user in insertion order.
type Store interface {
	Append(ctx context.Context, username string, msg chat.Message) error
	List(ctx context.Context, username string) ([]chat.Message, error)
	Close() error
}

// Package reply defines where a widget session gets its answers from.
package reply

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoReply is returned when a request succeeded but carried no usable reply.
var ErrNoReply = errors.New("no reply in response")

// StatusError is a non-success answer that carries an error text meant for the user.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// Source produces a reply for a prompt.
type Source interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context, prompt string) (string, error)

// Reply calls f(ctx, prompt).
func (f Func) Reply(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

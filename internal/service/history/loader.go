// Package history restores a widget's log from previously stored messages.
package history

import (
	"context"
	"log"

	"github.com/zhouzirui/daptic/internal/model/chat"
	"github.com/zhouzirui/daptic/internal/widget"
)

// Source returns the stored conversation of the current user, oldest first.
type Source interface {
	History(ctx context.Context) ([]chat.Message, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]chat.Message, error)

// History calls f(ctx).
func (f SourceFunc) History(ctx context.Context) ([]chat.Message, error) { return f(ctx) }

// Loader replays history into a widget log.
type Loader struct {
	source Source
	log    *widget.Log
}

// NewLoader returns a loader filling l from source.
func NewLoader(source Source, l *widget.Log) *Loader {
	return &Loader{source: source, log: l}
}

// Load fetches the history and, on success, replaces the log's contents with
// it in order. Messages with an unknown role are skipped. When fetching fails
// the log is left untouched and the error is returned.
func (ld *Loader) Load(ctx context.Context) error {
	messages, err := ld.source.History(ctx)
	if err != nil {
		log.Printf("[history] failed to load history: %v", err)
		return err
	}

	ld.log.Clear()
	for _, msg := range messages {
		if !msg.Role.Valid() {
			log.Printf("[history] skipping message with role %q", msg.Role)
			continue
		}
		ld.log.Append(msg)
	}
	return nil
}

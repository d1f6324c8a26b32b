package reply

import (
	"context"

	"github.com/zhouzirui/daptic/internal/service/chat"
)

// Direct answers through the in-process chat service instead of going over HTTP.
type Direct struct {
	svc      *chat.Service
	username string
}

// NewDirect returns a Source that generates replies for username with svc.
func NewDirect(svc *chat.Service, username string) *Direct {
	return &Direct{svc: svc, username: username}
}

// Reply generates a reply and maps service failures to StatusError the same
// way the HTTP API maps them to status codes.
func (d *Direct) Reply(ctx context.Context, prompt string) (string, error) {
	text, err := d.svc.Generate(ctx, d.username, prompt)
	if err != nil {
		status, message := chat.StatusOf(err)
		return "", &StatusError{Status: status, Message: message}
	}
	if text == "" {
		return "", ErrNoReply
	}
	return text, nil
}

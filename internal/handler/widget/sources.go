package widget

import (
	"context"
	"time"

	"github.com/zhouzirui/daptic/internal/client/backend"
	"github.com/zhouzirui/daptic/internal/model/chat"
	"github.com/zhouzirui/daptic/internal/service/history"
	"github.com/zhouzirui/daptic/internal/service/reply"
	chatService "github.com/zhouzirui/daptic/internal/service/chat"
)

// Sources builds the reply and history sources for one connected user.
type Sources func(username string) (reply.Source, history.Source, error)

// BackendSources talks to the chat API at baseURL over HTTP.
func BackendSources(baseURL string, timeout time.Duration) Sources {
	return func(username string) (reply.Source, history.Source, error) {
		client, err := backend.New(baseURL, username, timeout)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
}

// DirectSources calls the chat service in-process.
func DirectSources(svc *chatService.Service) Sources {
	return func(username string) (reply.Source, history.Source, error) {
		past := history.SourceFunc(func(ctx context.Context) ([]chat.Message, error) {
			return svc.History(ctx, username)
		})
		return reply.NewDirect(svc, username), past, nil
	}
}

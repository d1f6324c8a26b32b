package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/daptic/internal/config"
	"github.com/zhouzirui/daptic/internal/model/chat"
)

// Ark generates replies with an Ark chat model behind an eino chain.
type Ark struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewArk builds the chat model from cfg and compiles the prompt chain.
func NewArk(ctx context.Context, cfg config.ArkConfig) (*Ark, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewArkWithModel(ctx, chatModel)
}

// NewArkWithModel compiles the prompt chain around an existing chat model.
func NewArkWithModel(ctx context.Context, chatModel model.ChatModel) (*Ark, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Ark{chain: runnable}, nil
}

// Generate runs the chain once.
func (a *Ark) Generate(ctx context.Context, req Request) (string, error) {
	ctx, span := tracer.Start(ctx, "ark.generate")
	defer span.End()

	input := map[string]any{
		"system":  req.System,
		"history": buildHistoryMessages(req.History),
		"query":   req.Prompt,
	}

	response, err := a.chain.Invoke(ctx, input)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil {
		return "", nil
	}

	log.Printf("[ai] ark generated response length=%d", len(response.Content))
	return response.Content, nil
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.RoleBot:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}
	return history
}

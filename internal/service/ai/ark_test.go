package ai

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/daptic/internal/model/chat"
)

type echoModel struct {
	seen []*schema.Message
}

func (m *echoModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.seen = input
	return schema.AssistantMessage("echo: "+input[len(input)-1].Content, nil), nil
}

func (m *echoModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage("echo", nil)}), nil
}

func (m *echoModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func TestArkGenerateBuildsSystemHistoryAndQuery(t *testing.T) {
	ctx := context.Background()
	fake := &echoModel{}
	gen, err := NewArkWithModel(ctx, fake)
	if err != nil {
		t.Fatalf("NewArkWithModel err: %v", err)
	}

	text, err := gen.Generate(ctx, Request{
		System:  "You are D.A.P.T.I.C.",
		Prompt:  "hello",
		History: []chat.Message{chat.UserMessage("hi"), chat.BotMessage("hey")},
	})
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if text != "echo: hello" {
		t.Fatalf("unexpected reply %q", text)
	}

	if len(fake.seen) != 4 {
		t.Fatalf("expected 4 model messages, got %d", len(fake.seen))
	}
	if fake.seen[0].Role != schema.System || fake.seen[2].Role != schema.Assistant {
		t.Fatalf("unexpected roles %s, %s", fake.seen[0].Role, fake.seen[2].Role)
	}
}

package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/zhouzirui/daptic/internal/model/chat"
	"github.com/zhouzirui/daptic/internal/service/ai"
	"github.com/zhouzirui/daptic/internal/store"
)

// NoResponse is stored and returned when the model answered without text.
const NoResponse = "❌ No response."

const historyLimit = 10

var (
	ErrPromptRequired = errors.New("prompt required")
	ErrUnavailable    = errors.New("ai unavailable")
)

// PromptTooLongError reports a prompt above the configured cap.
type PromptTooLongError struct {
	Max int
}

func (e *PromptTooLongError) Error() string {
	return fmt.Sprintf("prompt too long (max %d)", e.Max)
}

// Options tune Service behaviour.
type Options struct {
	InstructionFile string
	MaxPromptLen    int
}

// Service runs the backend side of a conversation: it validates prompts,
// persists both sides of each exchange and asks the generator for replies.
type Service struct {
	store     store.Store
	generator ai.Generator
	opts      Options
}

// NewService wires a store and an optional generator. A nil generator makes
// Generate fail with ErrUnavailable.
func NewService(st store.Store, generator ai.Generator, opts Options) *Service {
	if opts.MaxPromptLen <= 0 {
		opts.MaxPromptLen = 2000
	}
	return &Service{store: st, generator: generator, opts: opts}
}

// Generate answers prompt on behalf of username.
func (s *Service) Generate(ctx context.Context, username, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrPromptRequired
	}
	if utf8.RuneCountInString(prompt) > s.opts.MaxPromptLen {
		return "", &PromptTooLongError{Max: s.opts.MaxPromptLen}
	}
	if s.generator == nil {
		return "", ErrUnavailable
	}

	history, err := s.recentHistory(ctx, username)
	if err != nil {
		log.Printf("[chat] failed to load history for %s: %v", username, err)
	}

	s.persist(ctx, username, chat.UserMessage(prompt))

	reply, err := s.generator.Generate(ctx, ai.Request{
		System:  ai.LoadInstruction(s.opts.InstructionFile),
		Prompt:  prompt,
		History: history,
	})
	if err != nil {
		log.Printf("[chat] generation failed for %s: %v", username, err)
		return "", err
	}

	if reply == "" {
		reply = NoResponse
	}
	s.persist(ctx, username, chat.BotMessage(reply))

	return reply, nil
}

// History returns every stored message of username.
func (s *Service) History(ctx context.Context, username string) ([]chat.Message, error) {
	return s.store.List(ctx, username)
}

func (s *Service) recentHistory(ctx context.Context, username string) ([]chat.Message, error) {
	messages, err := s.store.List(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}
	return messages, nil
}

// persist stores msg; failures are logged and do not interrupt the exchange.
func (s *Service) persist(ctx context.Context, username string, msg chat.Message) {
	if err := s.store.Append(ctx, username, msg); err != nil {
		log.Printf("[chat] failed to persist %s message: %v", msg.Role, err)
	}
}

// StatusOf maps a Generate error to the HTTP status and user-facing text the
// API answers with.
func StatusOf(err error) (int, string) {
	var tooLong *PromptTooLongError
	var upstream *ai.UpstreamError

	switch {
	case errors.Is(err, ErrPromptRequired):
		return http.StatusBadRequest, "Prompt required"
	case errors.As(err, &tooLong):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("Prompt too long (max %d)", tooLong.Max)
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, ErrUnavailable.Error()
	case errors.As(err, &upstream):
		return upstream.Status, "Remote API error"
	default:
		return http.StatusBadGateway, "Failed to reach remote API"
	}
}

// Package conversation runs one chat turn at a time for a widget: it renders
// the user message, keeps a typing indicator up while the reply is obtained
// and reveals the reply after a simulated typing delay.
package conversation

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/zhouzirui/daptic/internal/model/chat"
	"github.com/zhouzirui/daptic/internal/service/intent"
	"github.com/zhouzirui/daptic/internal/service/reply"
	"github.com/zhouzirui/daptic/internal/widget"
)

// Texts shown as bot messages when a turn fails.
const (
	NetworkErrorText = "Network error – please try again."
	ServerErrorText  = "Server error"
	NoResponseText   = "❌ No response."
)

// ErrBusy is returned by Submit while a previous turn is still running.
var ErrBusy = errors.New("a reply is still pending")

// State is the phase of the session.
type State int32

const (
	Idle State = iota
	AwaitingReply
)

func (s State) String() string {
	if s == AwaitingReply {
		return "awaiting_reply"
	}
	return "idle"
}

// Options configure a Session.
type Options struct {
	// Intents answers fixed questions locally; nil disables intent matching.
	Intents *intent.Matcher
	// Timeout bounds each call to the reply source; zero means no bound.
	Timeout time.Duration
	Delay   Delay
	// Jitter picks the random part of the delay; defaults to RandomJitter.
	Jitter func(max time.Duration) time.Duration
	// After waits for a duration; defaults to time.After.
	After func(time.Duration) <-chan time.Time
}

// Session sequences chat turns against one widget log.
type Session struct {
	log    *widget.Log
	source reply.Source
	opts   Options
	state  atomic.Int32

	replyDuration metric.Float64Histogram
	intentMatches metric.Int64Counter
}

// NewSession returns an idle session rendering into l and asking source for replies.
func NewSession(l *widget.Log, source reply.Source, opts Options) *Session {
	if opts.Jitter == nil {
		opts.Jitter = RandomJitter
	}
	if opts.After == nil {
		opts.After = time.After
	}

	meter := otel.Meter("github.com/zhouzirui/daptic/internal/service/conversation")
	replyDuration, err := meter.Float64Histogram(
		"daptic.reply.duration",
		metric.WithDescription("Time to obtain a reply, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		log.Printf("[conversation] failed to create reply histogram: %v", err)
	}
	intentMatches, err := meter.Int64Counter(
		"daptic.intent.matches",
		metric.WithDescription("Prompts answered by a local intent rule"),
	)
	if err != nil {
		log.Printf("[conversation] failed to create intent counter: %v", err)
	}

	return &Session{
		log:           l,
		source:        source,
		opts:          opts,
		replyDuration: replyDuration,
		intentMatches: intentMatches,
	}
}

// State returns the current phase.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Submit runs one turn for text and returns when the reply has been rendered.
// Blank text is ignored. Failures of the reply source are rendered as bot
// messages and do not surface as errors; Submit only fails with ErrBusy or
// when ctx ends during the typing delay.
func (s *Session) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !s.state.CompareAndSwap(int32(Idle), int32(AwaitingReply)) {
		return ErrBusy
	}
	defer s.state.Store(int32(Idle))

	s.log.Append(chat.UserMessage(text))
	pending := s.log.ShowTyping()

	answer, err := s.obtain(ctx, text)
	pending.Hide()
	if err != nil {
		log.Printf("[conversation] reply failed: %v", err)
		s.log.Append(chat.BotMessage(errorText(err)))
		return nil
	}

	return s.reveal(ctx, answer)
}

// obtain answers from the intent rules when one matches, otherwise from the source.
func (s *Session) obtain(ctx context.Context, prompt string) (string, error) {
	if rule, ok := s.opts.Intents.MatchRule(prompt); ok {
		if s.intentMatches != nil {
			s.intentMatches.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", rule.Name)))
		}
		return rule.Response, nil
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := s.source.Reply(ctx, prompt)
	if s.replyDuration != nil {
		s.replyDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
			metric.WithAttributes(attribute.Bool("error", err != nil)))
	}
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", reply.ErrNoReply
	}
	return answer, nil
}

// reveal shows a second typing indicator for the simulated delay and then the reply.
func (s *Session) reveal(ctx context.Context, answer string) error {
	delay := s.opts.Delay.For(answer, s.opts.Jitter)
	typing := s.log.ShowTyping()

	select {
	case <-ctx.Done():
		typing.Hide()
		return ctx.Err()
	case <-s.opts.After(delay):
	}

	typing.Hide()
	s.log.Append(chat.BotMessage(answer))
	return nil
}

// errorText picks the bot message shown for a failed reply.
func errorText(err error) string {
	var statusErr *reply.StatusError
	switch {
	case errors.As(err, &statusErr):
		if statusErr.Message == "" {
			return ServerErrorText
		}
		return statusErr.Message
	case errors.Is(err, reply.ErrNoReply):
		return NoResponseText
	default:
		return NetworkErrorText
	}
}

// Package widget holds the visible chat log of one connected widget and
// publishes every change to it as an Event.
package widget

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/daptic/internal/model/chat"
	"github.com/zhouzirui/daptic/internal/render"
)

// Op names a change applied to the log.
type Op string

const (
	OpAppend Op = "append"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
	OpScroll Op = "scroll"
)

// Event is one change the page has to apply to its log element.
type Event struct {
	Op        Op     `json:"op"`
	ID        string `json:"id,omitempty"`
	HTML      string `json:"html,omitempty"`
	ScrollTop int    `json:"scrollTop,omitempty"`
}

// Sink receives log events in the order they happen.
type Sink interface {
	Emit(Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event) error

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) error { return f(e) }

// Node is one bubble in the log. Nodes are never modified after insertion.
type Node struct {
	ID        string
	Message   chat.Message
	HTML      string
	Typing    bool
	Timestamp time.Time
}

// Log is the ordered list of bubbles shown to a user. It is safe for
// concurrent use; after Detach every mutation is ignored.
type Log struct {
	mu        sync.Mutex
	nodes     []Node
	scrollTop int
	detached  bool
	sink      Sink
	now       func() time.Time
}

// NewLog creates an empty log publishing to sink. A nil sink discards events.
func NewLog(sink Sink) *Log {
	return &Log{sink: sink, now: time.Now}
}

// Append renders msg as a new bubble at the end of the log and scrolls to it.
func (l *Log) Append(msg chat.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.detached {
		return
	}

	at := msg.CreatedAt
	if at.IsZero() {
		at = l.now()
	}
	node := Node{
		ID:        uuid.NewString(),
		Message:   msg,
		Timestamp: at,
	}
	node.HTML = render.Bubble(node.ID, msg, at)
	l.insert(node)
}

// ShowTyping inserts one typing placeholder and returns its handle.
func (l *Log) ShowTyping() *Typing {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.detached {
		return nil
	}

	node := Node{
		ID:        uuid.NewString(),
		Message:   chat.BotMessage(""),
		Typing:    true,
		Timestamp: l.now(),
	}
	node.HTML = render.TypingBubble(node.ID)
	l.insert(node)
	return &Typing{log: l, id: node.ID}
}

// Clear removes every bubble from the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.detached {
		return
	}

	l.nodes = nil
	l.scrollTop = 0
	l.emit(Event{Op: OpClear})
}

// Detach marks the log as unmounted. Pending callbacks that still hold the
// log become no-ops.
func (l *Log) Detach() {
	l.mu.Lock()
	l.detached = true
	l.mu.Unlock()
}

// Attached reports whether the log still accepts changes.
func (l *Log) Attached() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.detached
}

// Nodes returns a snapshot of the log in display order.
func (l *Log) Nodes() []Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Node(nil), l.nodes...)
}

// Messages returns the rendered messages, skipping typing placeholders.
func (l *Log) Messages() []chat.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]chat.Message, 0, len(l.nodes))
	for _, n := range l.nodes {
		if !n.Typing {
			out = append(out, n.Message)
		}
	}
	return out
}

// TypingCount returns the number of typing placeholders currently shown.
func (l *Log) TypingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, n := range l.nodes {
		if n.Typing {
			count++
		}
	}
	return count
}

// ScrollTop is the current scroll position, measured in bubbles.
func (l *Log) ScrollTop() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scrollTop
}

// ScrollHeight is the maximum scroll position.
func (l *Log) ScrollHeight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.nodes)
}

// insert appends node and pins the scroll position to the bottom. Callers hold mu.
func (l *Log) insert(node Node) {
	l.nodes = append(l.nodes, node)
	l.emit(Event{Op: OpAppend, ID: node.ID, HTML: node.HTML})

	l.scrollTop = len(l.nodes)
	l.emit(Event{Op: OpScroll, ScrollTop: l.scrollTop})
}

// remove deletes the node with id if it is still present.
func (l *Log) remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.detached {
		return
	}

	for i, n := range l.nodes {
		if n.ID != id {
			continue
		}
		l.nodes = append(l.nodes[:i:i], l.nodes[i+1:]...)
		if l.scrollTop > len(l.nodes) {
			l.scrollTop = len(l.nodes)
		}
		l.emit(Event{Op: OpRemove, ID: id})
		return
	}
}

func (l *Log) emit(e Event) {
	if l.sink == nil {
		return
	}
	if err := l.sink.Emit(e); err != nil {
		log.Printf("[widget] failed to emit %s event: %v", e.Op, err)
	}
}

package render

import (
	"strings"
	"time"

	"github.com/zhouzirui/daptic/internal/model/chat"
)

// Body renders the inner markup of a message bubble. Bot messages holding a
// fenced region go through CodeBlocks; everything else becomes one escaped
// paragraph.
func Body(msg chat.Message) string {
	if msg.Role == chat.RoleBot && HasCodeBlock(msg.Text) {
		return CodeBlocks(msg.Text)
	}
	return "<p>" + Escape(msg.Text) + "</p>"
}

// Bubble wraps the rendered body of msg in its message container.
func Bubble(id string, msg chat.Message, at time.Time) string {
	var b strings.Builder
	b.WriteString(`<div class="message `)
	b.WriteString(Escape(string(msg.Role)))
	b.WriteString(`-message" id="`)
	b.WriteString(Escape(id))
	b.WriteString(`" data-timestamp="`)
	b.WriteString(at.UTC().Format(time.RFC3339))
	b.WriteString(`">`)
	b.WriteString(Body(msg))
	b.WriteString("</div>")
	return b.String()
}

// TypingBubble renders the bouncing-dots placeholder shown while a reply is pending.
func TypingBubble(id string) string {
	return `<div class="message bot-message typing" id="` + Escape(id) +
		`"><div class="bot-typing"><span></span><span></span><span></span></div></div>`
}

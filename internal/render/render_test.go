package render

import (
	"strings"
	"testing"
	"time"

	"github.com/zhouzirui/daptic/internal/model/chat"
)

func TestEscapeSpecialCharacters(t *testing.T) {
	got := Escape(`<script>alert("x")</script> & 'y'`)
	want := "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; &#39;y&#39;"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBodyWithoutFencesIsSingleEscapedBlock(t *testing.T) {
	inputs := []string{"", "hello", "a < b && c > d", "```unterminated <b>"}
	for _, in := range inputs {
		for _, role := range []chat.Role{chat.RoleUser, chat.RoleBot} {
			got := Body(chat.Message{Role: role, Text: in})
			want := "<p>" + Escape(in) + "</p>"
			if got != want {
				t.Fatalf("role=%s input=%q: expected %q, got %q", role, in, want, got)
			}
		}
	}
}

func TestUserMessagesNeverRenderCode(t *testing.T) {
	got := Body(chat.UserMessage("```go\nx := 1\n```"))
	if strings.Contains(got, "<pre>") {
		t.Fatalf("user message rendered as code: %q", got)
	}
}

func TestCodeBlocksRendersEachRegionInOrder(t *testing.T) {
	text := "Intro <1>\n```go\n  a := 1 < 2\n```\nmiddle & more\n```\nsecond\n```\n```py\nthird\n```"
	got := CodeBlocks(text)

	if n := strings.Count(got, "<pre>"); n != 3 {
		t.Fatalf("expected 3 code blocks, got %d in %q", n, got)
	}

	want := "<p>Intro &lt;1&gt;</p>" +
		`<pre><code class="language-go">a := 1 &lt; 2</code></pre>` +
		"<p>middle &amp; more</p>" +
		"<pre><code>second</code></pre>" +
		`<pre><code class="language-py">third</code></pre>`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCodeBlocksIsNonGreedy(t *testing.T) {
	got := CodeBlocks("```\none\n``` between ```\ntwo\n```")
	if strings.Count(got, "<pre>") != 2 {
		t.Fatalf("expected two regions, got %q", got)
	}
	if !strings.Contains(got, "<p>between</p>") {
		t.Fatalf("text between regions should be a paragraph, got %q", got)
	}
}

func TestCodeBlocksUnterminatedFenceIsPlainText(t *testing.T) {
	got := CodeBlocks("```js\nvar a = 1;\n```\nafter ```python\n<never closed>")
	if strings.Count(got, "<pre>") != 1 {
		t.Fatalf("expected one region, got %q", got)
	}
	if !strings.HasSuffix(got, "<p>after ```python\n&lt;never closed&gt;</p>") {
		t.Fatalf("unterminated fence should stay escaped text, got %q", got)
	}
	if HasCodeBlock("```python\nprint(1)") {
		t.Fatal("lone opening fence must not count as a code block")
	}
}

func TestCodeBlocksInlineFenceWithoutLanguage(t *testing.T) {
	got := CodeBlocks("```print(1)```")
	if got != "<pre><code>print(1)</code></pre>" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestCodeBlocksLeavesNoUnescapedMarkup(t *testing.T) {
	got := CodeBlocks("<img src=x> & ```html\n<b>&</b>\n``` <i>")
	stripped := got
	for _, tag := range []string{"<p>", "</p>", `<pre><code class="language-html">`, "</code></pre>"} {
		stripped = strings.ReplaceAll(stripped, tag, "")
	}
	for _, entity := range []string{"&amp;", "&lt;", "&gt;"} {
		stripped = strings.ReplaceAll(stripped, entity, "")
	}
	if strings.ContainsAny(stripped, "<>&") {
		t.Fatalf("found unescaped special character in %q", got)
	}
}

func TestBubbleCarriesRoleAndTimestamp(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	got := Bubble("n1", chat.BotMessage("hi"), at)
	want := `<div class="message bot-message" id="n1" data-timestamp="2024-05-01T10:00:00Z"><p>hi</p></div>`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTypingBubble(t *testing.T) {
	got := TypingBubble("t1")
	if !strings.Contains(got, `class="message bot-message typing"`) || !strings.Contains(got, `id="t1"`) {
		t.Fatalf("unexpected typing bubble %q", got)
	}
}

package render

import (
	"regexp"
	"strings"
)

// fencePattern matches one fenced region. The language tag is only taken
// when it ends the opening fence line; the body stops at the nearest
// closing fence.
var fencePattern = regexp.MustCompile("(?s)```(?:([\\w+#.-]+)[ \\t]*\\r?\\n)?(.*?)```")

// HasCodeBlock reports whether text holds at least one complete fenced region.
func HasCodeBlock(text string) bool {
	return fencePattern.MatchString(text)
}

// CodeBlocks renders every fenced region of text as a <pre><code> block and
// the text around them as escaped paragraphs. An opening fence without a
// closing fence is not a region and stays in the paragraph text.
func CodeBlocks(text string) string {
	var b strings.Builder
	last := 0
	for _, m := range fencePattern.FindAllStringSubmatchIndex(text, -1) {
		writeParagraph(&b, text[last:m[0]])

		lang := ""
		if m[2] >= 0 {
			lang = text[m[2]:m[3]]
		}
		writeCode(&b, lang, text[m[4]:m[5]])
		last = m[1]
	}
	writeParagraph(&b, text[last:])
	return b.String()
}

func writeCode(b *strings.Builder, lang, code string) {
	b.WriteString("<pre><code")
	if lang != "" {
		b.WriteString(` class="language-`)
		b.WriteString(Escape(lang))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	b.WriteString(Escape(strings.TrimSpace(code)))
	b.WriteString("</code></pre>")
}

func writeParagraph(b *strings.Builder, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.WriteString("<p>")
	b.WriteString(Escape(text))
	b.WriteString("</p>")
}

// Package render turns chat text into HTML fragments for the widget log.
package render

import "html"

// Escape makes text safe to place inside element content or a quoted
// attribute value. It escapes &, <, >, " and '.
func Escape(text string) string {
	return html.EscapeString(text)
}

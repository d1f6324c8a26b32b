package conversation

import (
	"math/rand/v2"
	"time"
	"unicode/utf8"
)

// Delay computes how long the bot pretends to type a reply.
type Delay struct {
	Base      time.Duration
	PerChar   time.Duration
	JitterMax time.Duration
}

// DefaultDelay is 600ms plus 10ms per character plus up to 300ms.
var DefaultDelay = Delay{
	Base:      600 * time.Millisecond,
	PerChar:   10 * time.Millisecond,
	JitterMax: 300 * time.Millisecond,
}

// For returns Base + runes(reply)*PerChar + jitter, where jitter is
// jitterFn(JitterMax) clamped to [0, JitterMax].
func (d Delay) For(reply string, jitterFn func(max time.Duration) time.Duration) time.Duration {
	total := d.Base + time.Duration(utf8.RuneCountInString(reply))*d.PerChar
	if d.JitterMax <= 0 || jitterFn == nil {
		return total
	}

	jitter := jitterFn(d.JitterMax)
	if jitter < 0 {
		jitter = 0
	}
	if jitter > d.JitterMax {
		jitter = d.JitterMax
	}
	return total + jitter
}

// RandomJitter returns a uniformly random duration in [0, max].
func RandomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return rand.N(max + 1)
}

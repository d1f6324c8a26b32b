// Package intent answers a few fixed questions about the bot without
// contacting any backend.
package intent

import (
	"strings"

	"github.com/zhouzirui/daptic/internal/model/persona"
)

// Rule maps a set of keywords to a canned response.
type Rule struct {
	Name     string
	Keywords []string
	Response string
}

// Matcher evaluates rules in declaration order.
type Matcher struct {
	rules []Rule
}

// NewMatcher returns a matcher over a copy of rules.
func NewMatcher(rules []Rule) *Matcher {
	return &Matcher{rules: append([]Rule(nil), rules...)}
}

// DefaultRules builds the name, creator and creation rules for p.
func DefaultRules(p persona.Persona) []Rule {
	return []Rule{
		{
			Name:     "name",
			Keywords: []string{"name", "who are you", "what is your name"},
			Response: p.Introduction,
		},
		{
			Name:     "creator",
			Keywords: []string{"creator", "who made you", "who created you"},
			Response: p.CreatorBio,
		},
		{
			Name:     "creation",
			Keywords: []string{"creation", "how were you made", "how were you created"},
			Response: p.Creation,
		},
	}
}

// Match returns the response of the first rule with a keyword contained in
// prompt. Matching ignores case.
func (m *Matcher) Match(prompt string) (string, bool) {
	rule, ok := m.MatchRule(prompt)
	if !ok {
		return "", false
	}
	return rule.Response, true
}

// MatchRule is like Match but returns the whole rule.
func (m *Matcher) MatchRule(prompt string) (Rule, bool) {
	if m == nil {
		return Rule{}, false
	}
	lowered := strings.ToLower(prompt)
	for _, rule := range m.rules {
		for _, keyword := range rule.Keywords {
			if keyword != "" && strings.Contains(lowered, strings.ToLower(keyword)) {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

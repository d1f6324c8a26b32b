package intent_test

import (
	"testing"

	"github.com/zhouzirui/daptic/internal/model/persona"
	"github.com/zhouzirui/daptic/internal/service/intent"
)

func defaultMatcher() (*intent.Matcher, persona.Persona) {
	p := persona.Seed()[0]
	return intent.NewMatcher(intent.DefaultRules(p)), p
}

func TestMatchNameQuestionAnyCase(t *testing.T) {
	m, p := defaultMatcher()
	for _, prompt := range []string{"What is your name", "WHAT IS YOUR NAME?", "who are you"} {
		got, ok := m.Match(prompt)
		if !ok {
			t.Fatalf("expected match for %q", prompt)
		}
		if got != p.Introduction {
			t.Fatalf("expected name response for %q, got %q", prompt, got)
		}
	}
}

func TestMatchCreatorAndCreation(t *testing.T) {
	m, p := defaultMatcher()

	if got, _ := m.Match("Who created you?"); got != p.CreatorBio {
		t.Fatalf("expected creator response, got %q", got)
	}
	if got, _ := m.Match("how were you created"); got != p.Creation {
		t.Fatalf("expected creation response, got %q", got)
	}
}

func TestMatchFirstRuleWins(t *testing.T) {
	m := intent.NewMatcher([]intent.Rule{
		{Name: "first", Keywords: []string{"alpha"}, Response: "one"},
		{Name: "second", Keywords: []string{"alpha", "beta"}, Response: "two"},
	})

	rule, ok := m.MatchRule("alpha beta")
	if !ok || rule.Name != "first" {
		t.Fatalf("expected first rule, got %+v (ok=%v)", rule, ok)
	}
}

func TestMatchNoKeyword(t *testing.T) {
	m, _ := defaultMatcher()
	if got, ok := m.Match("hello there"); ok {
		t.Fatalf("expected no match, got %q", got)
	}
	if _, ok := m.Match("Tell me about D.A.P.T.I.C."); ok {
		t.Fatal("expected no match for suggestion prompt")
	}
}

func TestNilMatcherNeverMatches(t *testing.T) {
	var m *intent.Matcher
	if _, ok := m.Match("name"); ok {
		t.Fatal("nil matcher must not match")
	}
}

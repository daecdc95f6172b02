package dialogue

import (
	"testing"
)

func TestFAQScorer_MatchesOnKeywords(t *testing.T) {
	cands := []Candidate{
		{ID: "hours", Keywords: []string{"open", "hours", "close"}, Text: "What are your hours?"},
		{ID: "fee", Keywords: []string{"cost", "price", "fee", "how much"}, Text: "How much does a service call cost?"},
	}

	got, ok := FAQScorer.Best(cands, "how much is this going to cost me?")

	if !ok {
		t.Fatal("expected a match")
	}
	if got.ID != "fee" {
		t.Errorf("expected 'fee', got '%s'", got.ID)
	}
}

func TestFAQScorer_UsageBonusAloneNeverMatches(t *testing.T) {
	cands := []Candidate{
		{ID: "popular", Keywords: []string{"warranty"}, Text: "Do you honor warranties?", Usage: 100000},
	}

	_, ok := FAQScorer.Best(cands, "my dryer is making a weird noise")

	if ok {
		t.Error("candidate with zero keyword hits must never match, regardless of usage count")
	}
}

func TestFAQScorer_UsageBreaksNearTies(t *testing.T) {
	cands := []Candidate{
		{ID: "a", Keywords: []string{"warranty"}, Text: "zzz", Usage: 0},
		{ID: "b", Keywords: []string{"warranty"}, Text: "zzz", Usage: 50},
	}

	got, ok := FAQScorer.Best(cands, "is there a warranty?")

	if !ok {
		t.Fatal("expected a match")
	}
	if got.ID != "b" {
		t.Errorf("higher usage should win between equal keyword scores, got '%s'", got.ID)
	}
}

func TestFAQScorer_TiesKeepInputOrder(t *testing.T) {
	cands := []Candidate{
		{ID: "first", Keywords: []string{"warranty"}, Text: "zzz", Usage: 10},
		{ID: "second", Keywords: []string{"warranty"}, Text: "zzz", Usage: 10},
	}

	got, ok := FAQScorer.Best(cands, "warranty question")

	if !ok {
		t.Fatal("expected a match")
	}
	if got.ID != "first" {
		t.Errorf("equal scores must keep input order, got '%s'", got.ID)
	}
}

func TestFAQScorer_BelowThresholdReturnsNone(t *testing.T) {
	cands := []Candidate{
		{ID: "hours", Keywords: []string{"open late"}, Text: "Are you open late?"},
	}

	_, ok := FAQScorer.Best(cands, "do you repair freezers?")

	if ok {
		t.Error("expected no match below the minimum score")
	}
}

func TestAudioScorer_PhraseLengthAndExactBonus(t *testing.T) {
	greeting := "Thanks for calling, how can I help you today?"
	cands := []Candidate{
		{ID: "greeting", Keywords: []string{"thanks for calling", "how can i help"}, Text: greeting},
		{ID: "hours", Keywords: []string{"monday through friday"}, Text: "We're open Monday through Friday, eight to five."},
	}

	got, ok := AudioScorer.Best(cands, greeting)

	if !ok {
		t.Fatal("expected the greeting clip to match its own transcript")
	}
	if got.ID != "greeting" {
		t.Errorf("expected 'greeting', got '%s'", got.ID)
	}
}

func TestAudioScorer_SlotPromptGuard(t *testing.T) {
	cands := []Candidate{
		{
			ID:       "name-prompt",
			Keywords: []string{"full name", "can i get"},
			Text:     "Can I get your full name?",
		},
	}

	_, ok := AudioScorer.Best(cands, "Can I get your full name?")

	if ok {
		t.Error("slot-filling prompts must never be replaced by a cached clip")
	}
}

func TestAudioScorer_PricingDisclosureExemptFromGuard(t *testing.T) {
	feeScript := "The diagnostic fee is $89, and we'll need your full name to book the visit."
	cands := []Candidate{
		{
			ID:       "fee",
			Keywords: []string{"diagnostic fee", "$89"},
			Text:     feeScript,
		},
	}

	got, ok := AudioScorer.Best(cands, feeScript)

	if !ok {
		t.Fatal("pricing-disclosure clips are exempt from the slot-prompt guard")
	}
	if got.ID != "fee" {
		t.Errorf("expected 'fee', got '%s'", got.ID)
	}
}

func TestAudioScorer_ShortKeywordBelowThreshold(t *testing.T) {
	cands := []Candidate{
		{ID: "ok", Keywords: []string{"ok"}, Text: "Okay, got it."},
	}

	_, ok := AudioScorer.Best(cands, "ok")

	if ok {
		t.Error("a two-character phrase hit (2 points) must not reach the 15-point minimum")
	}
}

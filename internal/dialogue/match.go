package dialogue

import (
	"math"
	"sort"
	"strings"
)

// Candidate is one scorable entry: an FAQ record or an audio template,
// flattened to the fields scoring needs.
type Candidate struct {
	ID       string
	Keywords []string
	Text     string // FAQ question or template transcript
	Usage    int
}

// Scorer is the generic keyword/phrase scoring routine. The two profiles in
// use differ in how keyword hits are weighted and in the audio profile's
// exact-phrase bonus and slot-prompt guard.
type Scorer struct {
	// KeywordWeight is the flat score per matched keyword. Ignored when
	// PhraseLengthPoints is set, in which case a matched phrase scores its
	// own length.
	KeywordWeight      float64
	PhraseLengthPoints bool

	// WordBonus is added per significant word of the candidate's text found
	// in the query. Only applies once at least one keyword matched.
	WordBonus float64

	// ExactPhraseBonus is added when the candidate's whole text appears in
	// the query.
	ExactPhraseBonus float64

	// UsageBonusCap bounds the historical-usage bonus. It must stay below
	// MinScore so usage alone can never produce a match.
	UsageBonusCap float64

	// GuardPhrases disqualify a candidate whose text contains any of them,
	// unless the text also contains one of AllowPhrases.
	GuardPhrases []string
	AllowPhrases []string

	MinScore float64
}

// FAQScorer matches inbound utterances against a tenant's FAQ catalog.
var FAQScorer = Scorer{
	KeywordWeight: 10,
	WordBonus:     2,
	UsageBonusCap: 5,
	MinScore:      10,
}

// AudioScorer matches a generated reply against pre-rendered clips. The guard
// keeps the flow engine's own slot-filling prompts from being swapped for a
// generic cached clip; pricing-disclosure clips are exempt because the fee
// script is itself a slot-style prompt.
var AudioScorer = Scorer{
	PhraseLengthPoints: true,
	ExactPhraseBonus:   50,
	UsageBonusCap:      5,
	MinScore:           15,
	GuardPhrases: []string{
		"what's your full name",
		"your full name",
		"best callback number",
		"callback number",
		"street address",
		"city and zip",
		"which appliance",
		"what appliance",
		"what brand",
		"when works best",
		"preferred appointment time",
		"what's going on with",
	},
	AllowPhrases: []string{
		"$89",
		"diagnostic fee",
	},
}

type scored struct {
	cand  Candidate
	score float64
}

// Best returns the highest-scoring candidate at or above MinScore, or false
// when nothing qualifies. Ties keep input order. A candidate with no keyword
// hit scores zero outright: neither word nor usage bonuses can rescue it.
func (sc Scorer) Best(cands []Candidate, query string) (Candidate, bool) {
	lower := strings.ToLower(query)

	results := make([]scored, 0, len(cands))
	for _, c := range cands {
		if sc.guarded(c) {
			continue
		}
		s := sc.score(c, lower)
		if s >= sc.MinScore {
			results = append(results, scored{cand: c, score: s})
		}
	}
	if len(results) == 0 {
		return Candidate{}, false
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	return results[0].cand, true
}

func (sc Scorer) guarded(c Candidate) bool {
	if len(sc.GuardPhrases) == 0 {
		return false
	}
	text := strings.ToLower(c.Text)
	hit := false
	for _, g := range sc.GuardPhrases {
		if strings.Contains(text, g) {
			hit = true
			break
		}
	}
	if !hit {
		return false
	}
	for _, a := range sc.AllowPhrases {
		if strings.Contains(text, strings.ToLower(a)) {
			return false
		}
	}
	return true
}

func (sc Scorer) score(c Candidate, lowerQuery string) float64 {
	var score float64
	for _, kw := range c.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(lowerQuery, kw) {
			if sc.PhraseLengthPoints {
				score += float64(len(kw))
			} else {
				score += sc.KeywordWeight
			}
		}
	}
	if score == 0 {
		return 0
	}

	if sc.WordBonus > 0 {
		for _, w := range significantWords(c.Text) {
			if strings.Contains(lowerQuery, w) {
				score += sc.WordBonus
			}
		}
	}
	if sc.ExactPhraseBonus > 0 {
		text := strings.ToLower(strings.TrimSpace(c.Text))
		if text != "" && strings.Contains(lowerQuery, text) {
			score += sc.ExactPhraseBonus
		}
	}
	score += math.Min(float64(c.Usage), sc.UsageBonusCap)
	return score
}

var scoringStopwords = map[string]bool{
	"what": true, "when": true, "where": true, "does": true, "your": true,
	"this": true, "that": true, "with": true, "have": true, "much": true,
	"will": true, "about": true, "there": true,
}

func significantWords(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, "?.,!\"'")
		if len(w) > 3 && !scoringStopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

package dialogue

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/fieldserve/repairline/internal/domain"
)

// categoryEntry maps one canonical slot value to its trigger phrases. Entries
// are scanned in slice order and the first phrase hit wins, so ordering is
// load-bearing: "dishwasher" must precede "washer" or every dishwasher
// mention would be read as a washing machine.
type categoryEntry struct {
	value   string
	phrases []string
}

var applianceTypes = []categoryEntry{
	{"dishwasher", []string{"dishwasher", "dish washer"}},
	{"washer", []string{"washer", "washing machine"}},
	{"dryer", []string{"dryer", "drying machine"}},
	{"refrigerator", []string{"refrigerator", "fridge"}},
	{"freezer", []string{"freezer", "deep freeze"}},
	{"oven", []string{"oven", "wall oven"}},
	{"stove", []string{"stove", "range", "cooktop", "burner"}},
	{"microwave", []string{"microwave"}},
	{"ice maker", []string{"ice maker", "icemaker", "ice machine"}},
	{"garbage disposal", []string{"garbage disposal", "disposal", "disposer"}},
}

var applianceMakes = []categoryEntry{
	{"Samsung", []string{"samsung"}},
	{"LG", []string{"lg"}},
	{"Whirlpool", []string{"whirlpool"}},
	{"GE", []string{"general electric", " ge "}},
	{"Maytag", []string{"maytag"}},
	{"Kenmore", []string{"kenmore"}},
	{"Frigidaire", []string{"frigidaire"}},
	{"Bosch", []string{"bosch"}},
	{"KitchenAid", []string{"kitchenaid", "kitchen aid"}},
	{"Electrolux", []string{"electrolux"}},
	{"Amana", []string{"amana"}},
	{"Sub-Zero", []string{"sub-zero", "subzero", "sub zero"}},
}

// Issue values are canonical codes; the flow engine maps them back to spoken
// phrases for the summary.
var issueDescriptions = []categoryEntry{
	{"leaking", []string{"leaking", "leak", "flooding", "water everywhere", "puddle", "water on the floor"}},
	{"not_cooling", []string{"not cooling", "won't cool", "not cold", "warm inside", "not staying cold"}},
	{"not_heating", []string{"not heating", "won't heat", "no heat", "not getting hot", "cold air"}},
	{"not_starting", []string{"won't start", "not starting", "won't turn on", "not turning on", "completely dead", "no power"}},
	{"not_draining", []string{"not draining", "won't drain", "standing water", "full of water"}},
	{"not_spinning", []string{"not spinning", "won't spin", "stopped spinning"}},
	{"making_noise", []string{"making noise", "loud noise", "grinding", "squealing", "banging", "rattling", "humming loudly"}},
	{"door_issue", []string{"door won't", "door is stuck", "door broken", "won't latch", "won't close"}},
	{"ice_maker_issue", []string{"no ice", "not making ice", "ice maker stopped"}},
	{"error_code", []string{"error code", "flashing", "blinking", "showing an error"}},
	{"not_working", []string{"not working", "broken", "stopped working", "acting up"}},
}

var issueLocations = []categoryEntry{
	{"kitchen", []string{"kitchen"}},
	{"laundry room", []string{"laundry room", "laundry"}},
	{"basement", []string{"basement"}},
	{"garage", []string{"garage"}},
	{"upstairs", []string{"upstairs"}},
	{"downstairs", []string{"downstairs"}},
	{"rental", []string{"rental property", "rental", "tenant's place"}},
}

var confirmations = []categoryEntry{
	{"yes", []string{"yes", "yeah", "yep", "correct", "that's right", "sounds good", "perfect"}},
	{"no", []string{"nope", "that's wrong", "incorrect", "not right", "no,", "no."}},
}

// categoryMatchers runs in this order on every turn; each owns one slot.
var categoryMatchers = []struct {
	slot    string
	entries []categoryEntry
}{
	{domain.SlotApplianceType, applianceTypes},
	{domain.SlotApplianceMake, applianceMakes},
	{domain.SlotIssueDescription, issueDescriptions},
	{domain.SlotIssueLocation, issueLocations},
	{domain.SlotLastConfirmation, confirmations},
}

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:my name is|name's|this is|i am|i'm)\s+([a-z]+(?:\s+[a-z]+)?)`),
		regexp.MustCompile(`(?:it's|call me)\s+([a-z]+\s+[a-z]+)`),
	}
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\b\d{10}\b`),
	}
	streetPattern = regexp.MustCompile(`\b\d{1,6}\s+(?:[a-z]+\s+){0,3}?(?:street|st|avenue|ave|road|rd|drive|dr|lane|ln|court|ct|circle|cir|boulevard|blvd|way|place|pl|terrace|ter)\b`)
	zipPattern    = regexp.MustCompile(`\b(\d{5})\b`)
	cityPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`(?:in|at|here in)\s+([a-z]+(?:\s+[a-z]+)?)\s*,?\s*(?:[a-z]{2}\s+)?\d{5}`),
		regexp.MustCompile(`(?:city is|live in|located in|i'm in|we're in)\s+([a-z]+(?:\s+[a-z]+)?)`),
	}
	timePatterns = []struct {
		re    *regexp.Regexp
		value string // when empty, the matched text is used
	}{
		{regexp.MustCompile(`emergency|urgent|asap|right away|as soon as possible|immediately`), "urgent"},
		{regexp.MustCompile(`(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)(?:\s+(?:morning|afternoon|evening))?`), ""},
		{regexp.MustCompile(`(?:today|tomorrow|this week|next week|weekend)(?:\s+(?:morning|afternoon|evening))?`), ""},
		{regexp.MustCompile(`(?:morning|afternoon|evening|after \d{1,2}|before \d{1,2})`), ""},
	}
)

// nameStopwords blocks the opportunistic two-word name fallback from eating
// ordinary phrases. Appliance and brand vocabulary is folded in below.
var nameStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "but": true, "can": true,
	"come": true, "fix": true, "for": true, "get": true, "have": true,
	"hello": true, "help": true, "hey": true, "hi": true, "how": true,
	"is": true, "it": true, "its": true, "it's": true, "i'm": true,
	"that's": true, "what's": true, "just": true, "machine": true,
	"me": true, "meant": true, "my": true, "in": true, "near": true,
	"need": true, "not": true, "now": true, "of": true, "on": true,
	"out": true, "please": true, "send": true, "so": true, "some": true,
	"someone": true, "sorry": true, "still": true, "thanks": true,
	"that": true, "the": true, "there": true, "this": true, "to": true,
	"today": true, "tomorrow": true, "yesterday": true, "was": true,
	"we": true, "what": true, "when": true, "will": true, "with": true,
	"wont": true, "won't": true, "don't": true, "can't": true,
	"could": true, "would": true, "should": true, "you": true,
	"your": true, "unit": true, "loud": true, "water": true,
	"morning": true, "afternoon": true, "evening": true, "urgent": true,
	"emergency": true, "street": true, "avenue": true, "road": true,
	"drive": true, "lane": true, "number": true, "phone": true,
	"call": true, "reach": true, "back": true, "time": true,
	"name": true, "address": true, "city": true, "zip": true, "code": true,
}

func init() {
	categories := [][]categoryEntry{
		applianceTypes, applianceMakes, issueDescriptions, issueLocations, confirmations,
	}
	for _, entries := range categories {
		for _, e := range entries {
			for _, w := range strings.Fields(e.value) {
				nameStopwords[strings.ToLower(w)] = true
			}
			for _, p := range e.phrases {
				for _, w := range strings.Fields(strings.TrimSpace(p)) {
					nameStopwords[strings.Trim(w, ",.")] = true
				}
			}
		}
	}
}

// Extract runs the matcher battery over one utterance and returns the prior
// slot set updated with everything that matched. It is pure and idempotent:
// a matcher that finds nothing leaves the prior value alone, and a value is
// only ever replaced by a new non-empty match. The completion percentage is
// recomputed on the way out.
func Extract(utterance string, prior domain.SlotSet) domain.SlotSet {
	out := prior.Clone()
	if out == nil {
		out = domain.SlotSet{}
	}
	lower := strings.ToLower(utterance)

	for _, m := range categoryMatchers {
		if v, ok := matchCategory(lower, m.entries); ok {
			out[m.slot] = v
		}
	}

	if name, ok := extractName(lower); ok {
		out[domain.SlotCustomerName] = name
	}
	if phone, ok := extractPhone(lower); ok {
		out[domain.SlotCallbackNumber] = phone
	}
	if street, ok := extractStreet(lower); ok {
		out[domain.SlotStreetAddress] = street
	}
	if city, zip, ok := extractCityZip(lower); ok {
		if city != "" {
			out[domain.SlotCity] = city
		}
		if zip != "" {
			out[domain.SlotZipCode] = zip
		}
	}
	if t, ok := extractPreferredTime(lower); ok {
		out[domain.SlotPreferredTime] = t
	}

	out[domain.SlotCompletion] = strconv.Itoa(CompletionPercent(out))
	return out
}

func matchCategory(lower string, entries []categoryEntry) (string, bool) {
	for _, e := range entries {
		for _, p := range e.phrases {
			if strings.Contains(lower, p) {
				return e.value, true
			}
		}
	}
	return "", false
}

// extractName tries the anchored templates first, then falls back to any bare
// two-word alphabetic token. The fallback is deliberately permissive and is a
// known source of false positives; downstream flow behavior is tuned against
// it, so it must not be tightened.
func extractName(lower string) (string, bool) {
	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if name, ok := sanitizeName(m[1]); ok {
				return name, true
			}
		}
	}

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	for i := 0; i+1 < len(words); i++ {
		first, second := words[i], words[i+1]
		if nameStopwords[first] || nameStopwords[second] {
			continue
		}
		if name, ok := sanitizeName(first + " " + second); ok {
			return name, true
		}
	}
	return "", false
}

func sanitizeName(raw string) (string, bool) {
	words := strings.Fields(raw)
	if len(words) == 0 || len(words) > 2 {
		return "", false
	}
	for _, w := range words {
		if len(w) < 2 || len(w) > 12 {
			return "", false
		}
		if nameStopwords[w] {
			return "", false
		}
		for _, r := range w {
			if !unicode.IsLetter(r) && r != '\'' {
				return "", false
			}
		}
	}
	return titleCase(strings.Join(words, " ")), true
}

func extractPhone(lower string) (string, bool) {
	for _, re := range phonePatterns {
		if m := re.FindString(lower); m != "" {
			digits := digitsOnly(m)
			if len(digits) == 10 || (len(digits) == 11 && digits[0] == '1') {
				return digits[len(digits)-10:], true
			}
		}
	}
	return "", false
}

func extractStreet(lower string) (string, bool) {
	m := streetPattern.FindString(lower)
	if m == "" {
		return "", false
	}
	if len(m) < 6 || len(m) > 60 {
		return "", false
	}
	return titleCase(m), true
}

func extractCityZip(lower string) (city, zip string, ok bool) {
	if m := zipPattern.FindStringSubmatch(lower); m != nil {
		zip = m[1]
	}
	for _, re := range cityPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if c, valid := sanitizeCity(m[1]); valid {
				city = c
				break
			}
		}
	}
	return city, zip, city != "" || zip != ""
}

func sanitizeCity(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 3 || len(raw) > 30 {
		return "", false
	}
	for _, w := range strings.Fields(raw) {
		if nameStopwords[w] {
			return "", false
		}
	}
	return titleCase(raw), true
}

func extractPreferredTime(lower string) (string, bool) {
	for _, p := range timePatterns {
		if m := p.re.FindString(lower); m != "" {
			if p.value != "" {
				return p.value, true
			}
			return m, true
		}
	}
	return "", false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

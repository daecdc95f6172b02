package dialogue

import (
	"strings"
	"testing"

	"github.com/fieldserve/repairline/internal/domain"
)

func completeSlots() domain.SlotSet {
	return domain.SlotSet{
		domain.SlotApplianceType:    "washer",
		domain.SlotIssueDescription: "leaking",
		domain.SlotApplianceMake:    "Samsung",
		domain.SlotCustomerName:     "John Smith",
		domain.SlotStreetAddress:    "425 Oak Street",
		domain.SlotCity:             "Riverside",
		domain.SlotZipCode:          "92501",
		domain.SlotCallbackNumber:   "5551234567",
		domain.SlotPreferredTime:    "tomorrow morning",
	}
}

func TestCompletionPercent_CityAndZipCountSeparately(t *testing.T) {
	slots := completeSlots()
	delete(slots, domain.SlotZipCode)

	// 8 of 9: zip is its own field for scoring purposes.
	if got := CompletionPercent(slots); got != 89 {
		t.Errorf("expected 89, got %d", got)
	}

	// ...but the flow engine sees a single grouped "location" ask.
	missing := MissingFields(slots)
	if len(missing) != 1 || missing[0] != FieldLocation {
		t.Errorf("expected missing [location], got %v", missing)
	}
}

func TestMissingFields_Order(t *testing.T) {
	slots := domain.SlotSet{domain.SlotApplianceType: "oven"}

	missing := MissingFields(slots)

	want := []string{
		domain.SlotIssueDescription,
		domain.SlotApplianceMake,
		domain.SlotCustomerName,
		domain.SlotStreetAddress,
		FieldLocation,
		domain.SlotCallbackNumber,
		domain.SlotPreferredTime,
	}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %v", len(want), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d]: expected %s, got %s", i, want[i], missing[i])
		}
	}
}

func TestNextResponse_UrgentPath(t *testing.T) {
	slots := domain.SlotSet{
		domain.SlotApplianceType:    "dishwasher",
		domain.SlotIssueDescription: "leaking",
		domain.SlotPreferredTime:    "urgent",
	}
	if c := CompletionPercent(slots); c >= 50 {
		t.Fatalf("test setup: completion must be < 50, got %d", c)
	}

	got := NextResponse(slots, domain.ChannelVoice)

	if !strings.Contains(got, "urgent") {
		t.Errorf("expected urgent-path response, got %q", got)
	}
	if !strings.Contains(got, "name") || !strings.Contains(got, "address") {
		t.Errorf("urgent response should ask for name and address, got %q", got)
	}
}

func TestNextResponse_UrgentIgnoredWhenMostlyComplete(t *testing.T) {
	slots := completeSlots()
	slots[domain.SlotPreferredTime] = "urgent"
	delete(slots, domain.SlotCallbackNumber)

	got := NextResponse(slots, domain.ChannelVoice)

	// 89% complete: the urgent shortcut no longer applies, the single
	// remaining field is asked for instead.
	if !strings.Contains(got, "callback number") {
		t.Errorf("expected the callback ask, got %q", got)
	}
}

func TestNextResponse_TerminalSummary(t *testing.T) {
	for _, ch := range []domain.Channel{domain.ChannelVoice, domain.ChannelText} {
		got := NextResponse(completeSlots(), ch)

		for _, want := range []string{"John Smith", "425 Oak Street", "leaking", "$89", "$150", "$300"} {
			if !strings.Contains(got, want) {
				t.Errorf("%s summary missing %q: %q", ch, want, got)
			}
		}
	}
}

func TestNextResponse_SummaryIssueFallbackPhrase(t *testing.T) {
	slots := completeSlots()
	slots[domain.SlotIssueDescription] = "weird_unknown_code"

	got := NextResponse(slots, domain.ChannelVoice)

	if !strings.Contains(got, "having issues") {
		t.Errorf("unknown issue code should fall back to 'having issues', got %q", got)
	}
}

func TestNextResponse_DetailedCompoundSingleField(t *testing.T) {
	slots := completeSlots()
	delete(slots, domain.SlotPreferredTime)

	got := NextResponse(slots, domain.ChannelText)

	if !strings.Contains(got, "I just need a preferred appointment time") {
		t.Errorf("expected single compound ask for preferred time, got %q", got)
	}
}

func TestNextResponse_DetailedCompoundTwoFields(t *testing.T) {
	slots := completeSlots()
	delete(slots, domain.SlotCallbackNumber)
	delete(slots, domain.SlotPreferredTime)

	got := NextResponse(slots, domain.ChannelVoice)

	if !strings.Contains(got, "the best callback number and a preferred appointment time") {
		t.Errorf("expected compound two-field ask, got %q", got)
	}
}

func TestNextResponse_DetailedThreeMissingFallsThrough(t *testing.T) {
	// 6 of 9 present (67%), three distinct missing entries: the compound
	// sentence caps at two, so the highest-priority field is asked alone.
	slots := domain.SlotSet{
		domain.SlotApplianceType:    "dryer",
		domain.SlotIssueDescription: "not_heating",
		domain.SlotApplianceMake:    "LG",
		domain.SlotCity:             "Riverside",
		domain.SlotZipCode:          "92501",
		domain.SlotPreferredTime:    "friday",
	}

	got := NextResponse(slots, domain.ChannelVoice)

	if !strings.Contains(got, "name") {
		t.Errorf("expected the name question (first missing), got %q", got)
	}
	if strings.Contains(got, "I just need") {
		t.Errorf("three missing fields must not produce a compound ask, got %q", got)
	}
}

func TestNextResponse_VagueAsksApplianceSpecificIssue(t *testing.T) {
	slots := domain.SlotSet{domain.SlotApplianceType: "refrigerator"}

	got := NextResponse(slots, domain.ChannelVoice)

	if !strings.Contains(got, "refrigerator") {
		t.Errorf("vague branch should name the known appliance, got %q", got)
	}
}

func TestNextResponse_VagueWithoutApplianceAsksForIt(t *testing.T) {
	got := NextResponse(domain.SlotSet{}, domain.ChannelText)

	if !strings.Contains(strings.ToLower(got), "appliance") {
		t.Errorf("empty slots should ask which appliance, got %q", got)
	}
}

func TestNextResponse_MiddleBandAsksNextQuestion(t *testing.T) {
	// 4 of 9 (44%): neither detailed nor vague, plain next-question.
	slots := domain.SlotSet{
		domain.SlotApplianceType:    "washer",
		domain.SlotIssueDescription: "leaking",
		domain.SlotApplianceMake:    "Samsung",
		domain.SlotCustomerName:     "John Smith",
	}

	got := NextResponse(slots, domain.ChannelVoice)

	if !strings.Contains(got, "street address") {
		t.Errorf("expected the street-address question, got %q", got)
	}
}

func TestNextResponse_ChannelPhrasingDiffers(t *testing.T) {
	slots := domain.SlotSet{}

	voice := NextResponse(slots, domain.ChannelVoice)
	text := NextResponse(slots, domain.ChannelText)

	if voice == text {
		t.Errorf("voice and text phrasings should differ, both were %q", voice)
	}
	if len(text) <= len(voice) {
		t.Errorf("text form should be the longer multiple-choice phrasing")
	}
}

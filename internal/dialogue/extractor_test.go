package dialogue

import (
	"reflect"
	"testing"

	"github.com/fieldserve/repairline/internal/domain"
)

func TestExtract_ApplianceMakeAndIssue(t *testing.T) {
	// Arrange
	utterance := "My Samsung washer is leaking"

	// Act
	slots := Extract(utterance, nil)

	// Assert
	if got := slots.Get(domain.SlotApplianceType); got != "washer" {
		t.Errorf("expected applianceType 'washer', got '%s'", got)
	}
	if got := slots.Get(domain.SlotApplianceMake); got != "Samsung" {
		t.Errorf("expected applianceMake 'Samsung', got '%s'", got)
	}
	if got := slots.Get(domain.SlotIssueDescription); got != "leaking" {
		t.Errorf("expected issueDescription 'leaking', got '%s'", got)
	}
	if got := slots.Get(domain.SlotCustomerName); got != "" {
		t.Errorf("expected no customerName, got '%s'", got)
	}
	if got := slots.Get(domain.SlotCompletion); got != "33" {
		t.Errorf("expected completion '33' (3 of 9), got '%s'", got)
	}
}

func TestExtract_DishwasherBeatsWasher(t *testing.T) {
	slots := Extract("the dishwasher is flooding", nil)

	if got := slots.Get(domain.SlotApplianceType); got != "dishwasher" {
		t.Errorf("expected 'dishwasher' (entry order must shadow the 'washer' substring), got '%s'", got)
	}
	if got := slots.Get(domain.SlotIssueDescription); got != "leaking" {
		t.Errorf("expected 'leaking' from 'flooding', got '%s'", got)
	}
}

func TestExtract_EmergencySetsUrgentTime(t *testing.T) {
	slots := Extract("Emergency! My dishwasher is flooding", nil)

	if got := slots.Get(domain.SlotPreferredTime); got != "urgent" {
		t.Errorf("expected preferredTime 'urgent', got '%s'", got)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	utterances := []string{
		"My Samsung washer is leaking",
		"my name is john smith, I'm at 425 oak street in riverside 92501",
		"call me back at (555) 123-4567 tomorrow morning",
		"the LG fridge in the kitchen is not cooling",
	}

	for _, u := range utterances {
		once := Extract(u, nil)
		twice := Extract(u, once)

		if !reflect.DeepEqual(once, twice) {
			t.Errorf("extraction not idempotent for %q:\nonce:  %v\ntwice: %v", u, once, twice)
		}
	}
}

func TestExtract_NeverClearsPriorValues(t *testing.T) {
	prior := domain.SlotSet{
		domain.SlotApplianceType: "dryer",
		domain.SlotCustomerName:  "Maria Lopez",
	}

	slots := Extract("ok thanks", prior)

	if got := slots.Get(domain.SlotApplianceType); got != "dryer" {
		t.Errorf("prior applianceType should survive a no-match turn, got '%s'", got)
	}
	if got := slots.Get(domain.SlotCustomerName); got != "Maria Lopez" {
		t.Errorf("prior customerName should survive a no-match turn, got '%s'", got)
	}
}

func TestExtract_OverwritesOnNewMatch(t *testing.T) {
	prior := domain.SlotSet{domain.SlotApplianceType: "dryer"}

	slots := Extract("sorry, I meant the refrigerator", prior)

	if got := slots.Get(domain.SlotApplianceType); got != "refrigerator" {
		t.Errorf("new match should overwrite prior value, got '%s'", got)
	}
}

func TestExtract_AnchoredName(t *testing.T) {
	slots := Extract("hi, my name is John Smith", nil)

	if got := slots.Get(domain.SlotCustomerName); got != "John Smith" {
		t.Errorf("expected 'John Smith', got '%s'", got)
	}
}

func TestExtract_OpportunisticNameOverMatch(t *testing.T) {
	// Known-permissive behavior: a bare two-word alphabetic phrase with no
	// anchor is read as a name. Downstream flow logic is tuned against this,
	// so the test documents the false positive instead of rejecting it.
	slots := Extract("there is a smell near the guest bathroom", nil)

	if got := slots.Get(domain.SlotCustomerName); got != "Guest Bathroom" {
		t.Errorf("expected permissive name pickup 'Guest Bathroom', got '%s'", got)
	}
}

func TestExtract_PhoneFormats(t *testing.T) {
	cases := map[string]string{
		"call me at (555) 123-4567":   "5551234567",
		"my number is 555-123-4567":   "5551234567",
		"reach me on 5551234567":      "5551234567",
		"it's 1 555 123 4567 mobile":  "5551234567",
		"you can text 555.123.4567":   "5551234567",
	}

	for utterance, want := range cases {
		slots := Extract(utterance, nil)
		if got := slots.Get(domain.SlotCallbackNumber); got != want {
			t.Errorf("Extract(%q): expected callbackNumber '%s', got '%s'", utterance, want, got)
		}
	}
}

func TestExtract_AddressCityZip(t *testing.T) {
	slots := Extract("I'm at 425 oak street in riverside, 92501", nil)

	if got := slots.Get(domain.SlotStreetAddress); got != "425 Oak Street" {
		t.Errorf("expected '425 Oak Street', got '%s'", got)
	}
	if got := slots.Get(domain.SlotCity); got != "Riverside" {
		t.Errorf("expected city 'Riverside', got '%s'", got)
	}
	if got := slots.Get(domain.SlotZipCode); got != "92501" {
		t.Errorf("expected zip '92501', got '%s'", got)
	}
}

func TestExtract_ZipWithoutCity(t *testing.T) {
	slots := Extract("the zip is 92501", nil)

	if got := slots.Get(domain.SlotZipCode); got != "92501" {
		t.Errorf("expected zip '92501', got '%s'", got)
	}
	if got := slots.Get(domain.SlotCity); got != "" {
		t.Errorf("expected no city, got '%s'", got)
	}
}

func TestExtract_PreferredTimeWindow(t *testing.T) {
	slots := Extract("could someone come tomorrow morning", nil)

	if got := slots.Get(domain.SlotPreferredTime); got != "tomorrow morning" {
		t.Errorf("expected 'tomorrow morning', got '%s'", got)
	}
}

func TestExtract_IssueLocationAndConfirmation(t *testing.T) {
	slots := Extract("yes, it's the unit in the basement", nil)

	if got := slots.Get(domain.SlotLastConfirmation); got != "yes" {
		t.Errorf("expected lastConfirmation 'yes', got '%s'", got)
	}
	if got := slots.Get(domain.SlotIssueLocation); got != "basement" {
		t.Errorf("expected issueLocation 'basement', got '%s'", got)
	}
}

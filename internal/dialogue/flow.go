package dialogue

import (
	"fmt"
	"strings"

	"github.com/fieldserve/repairline/internal/domain"
)

// issuePhrases turns the extractor's canonical issue codes back into spoken
// language for the booking summary.
var issuePhrases = map[string]string{
	"leaking":         "leaking",
	"not_cooling":     "not cooling",
	"not_heating":     "not heating",
	"not_starting":    "not starting",
	"not_draining":    "not draining",
	"not_spinning":    "not spinning",
	"making_noise":    "making noise",
	"door_issue":      "having door trouble",
	"ice_maker_issue": "not making ice",
	"error_code":      "showing an error",
	"not_working":     "not working",
}

// fieldAsks is what each missing field is called inside the compound
// "I just need X and Y" sentence.
var fieldAsks = map[string]string{
	domain.SlotApplianceType:    "which appliance needs service",
	domain.SlotIssueDescription: "what's going on with it",
	domain.SlotApplianceMake:    "the brand",
	domain.SlotCustomerName:     "your name",
	domain.SlotStreetAddress:    "the street address",
	FieldLocation:               "your city and zip code",
	domain.SlotCallbackNumber:   "the best callback number",
	domain.SlotPreferredTime:    "a preferred appointment time",
}

// question holds the channel-specific phrasing pair for one field.
type question struct {
	voice string
	text  string
}

var fieldQuestions = map[string]question{
	domain.SlotApplianceType: {
		voice: "Which appliance is giving you trouble?",
		text:  "Which appliance needs service? For example: washer, dryer, refrigerator, dishwasher, oven, or stove.",
	},
	domain.SlotCustomerName: {
		voice: "Can I get your full name?",
		text:  "Can I get your full name for the work order?",
	},
	domain.SlotStreetAddress: {
		voice: "What's the street address where the appliance is?",
		text:  "What's the street address where we'll be doing the repair?",
	},
	FieldLocation: {
		voice: "And what city and zip code is that in?",
		text:  "What city and zip code is that address in?",
	},
	domain.SlotCallbackNumber: {
		voice: "What's the best callback number for you?",
		text:  "What's the best callback number in case the technician needs to reach you?",
	},
	domain.SlotPreferredTime: {
		voice: "When works best for the visit, morning or afternoon?",
		text:  "When would you like the technician to come out? You can say things like \"tomorrow morning\", \"Friday afternoon\", or \"as soon as possible\".",
	},
}

// NextResponse picks the next thing to say given the accumulated slots.
// Branches are evaluated in a fixed order and the first hit wins; the
// completion thresholds are integer percentages compared exactly as written.
func NextResponse(slots domain.SlotSet, ch domain.Channel) string {
	completion := CompletionPercent(slots)

	if slots.Get(domain.SlotPreferredTime) == "urgent" && completion < 50 {
		return urgentResponse(ch)
	}

	missing := MissingFields(slots)
	if len(missing) == 0 {
		return summaryResponse(slots, ch)
	}

	if completion >= 60 {
		if len(missing) <= 2 {
			return compoundAsk(missing, ch)
		}
		return askQuestion(missing[0], slots, ch)
	}

	if completion < 30 {
		if !slots.Has(domain.SlotIssueDescription) && slots.Has(domain.SlotApplianceType) {
			return issueQuestion(slots.Get(domain.SlotApplianceType), ch)
		}
		return askQuestion(missing[0], slots, ch)
	}

	return askQuestion(missing[0], slots, ch)
}

func urgentResponse(ch domain.Channel) string {
	if ch == domain.ChannelVoice {
		return "I understand this is urgent, and we'll get someone out as fast as we can. I just need your name and the address, and I'll get a technician dispatched right away."
	}
	return "Got it, we'll treat this as urgent and get a technician out as fast as possible. Just reply with your name and the full address, and I'll get the dispatch started right away."
}

func compoundAsk(missing []string, ch domain.Channel) string {
	asks := make([]string, 0, len(missing))
	for _, f := range missing {
		asks = append(asks, fieldAsks[f])
	}
	joined := asks[0]
	if len(asks) == 2 {
		joined = asks[0] + " and " + asks[1]
	}
	if ch == domain.ChannelVoice {
		return fmt.Sprintf("Almost done! I just need %s.", joined)
	}
	return fmt.Sprintf("Almost there! I just need %s and then you're all booked.", joined)
}

func askQuestion(field string, slots domain.SlotSet, ch domain.Channel) string {
	appliance := slots.Get(domain.SlotApplianceType)
	switch field {
	case domain.SlotIssueDescription:
		return issueQuestion(appliance, ch)
	case domain.SlotApplianceMake:
		return makeQuestion(appliance, ch)
	}
	q, ok := fieldQuestions[field]
	if !ok {
		q = fieldQuestions[domain.SlotApplianceType]
	}
	if ch == domain.ChannelVoice {
		return q.voice
	}
	return q.text
}

func issueQuestion(appliance string, ch domain.Channel) string {
	if appliance == "" {
		if ch == domain.ChannelVoice {
			return "What seems to be the problem with it?"
		}
		return "What's going on with the appliance? For example: leaking, not starting, making noise, or not cooling."
	}
	if ch == domain.ChannelVoice {
		return fmt.Sprintf("What's the %s doing, or not doing?", appliance)
	}
	return fmt.Sprintf("What's the problem with the %s? For example: leaking, not starting, making noise, or not heating.", appliance)
}

func makeQuestion(appliance string, ch domain.Channel) string {
	if appliance == "" {
		if ch == domain.ChannelVoice {
			return "What brand is the appliance?"
		}
		return "What brand is the appliance? For example: Samsung, LG, Whirlpool, or GE."
	}
	if ch == domain.ChannelVoice {
		return fmt.Sprintf("What brand is the %s?", appliance)
	}
	return fmt.Sprintf("What brand is the %s? For example: Samsung, LG, Whirlpool, or GE.", appliance)
}

func summaryResponse(slots domain.SlotSet, ch domain.Channel) string {
	issue := issuePhrases[slots.Get(domain.SlotIssueDescription)]
	if issue == "" {
		issue = "having issues"
	}
	when := slots.Get(domain.SlotPreferredTime)
	if when == "urgent" {
		when = "as soon as possible"
	}
	unit := strings.TrimSpace(slots.Get(domain.SlotApplianceMake) + " " + slots.Get(domain.SlotApplianceType))
	address := fmt.Sprintf("%s, %s %s",
		slots.Get(domain.SlotStreetAddress), slots.Get(domain.SlotCity), slots.Get(domain.SlotZipCode))

	if ch == domain.ChannelVoice {
		return fmt.Sprintf(
			"Perfect, %s! I have you down for your %s that's %s, at %s. We'll call you at %s, and the technician will come out %s. "+
				"The diagnostic fee is $89, and it's credited toward the repair if you go ahead with it. Most repairs run between $150 and $300. You're all set!",
			slots.Get(domain.SlotCustomerName), unit, issue, address,
			slots.Get(domain.SlotCallbackNumber), when)
	}
	return fmt.Sprintf(
		"You're all set, %s! Here's what I have:\n"+
			"Appliance: %s (%s)\n"+
			"Address: %s\n"+
			"Callback: %s\n"+
			"Preferred time: %s\n"+
			"The diagnostic fee is $89, credited toward the repair if you go ahead. Most repairs run $150 to $300. Reply here if anything changes!",
		slots.Get(domain.SlotCustomerName), unit, issue, address,
		slots.Get(domain.SlotCallbackNumber), when)
}

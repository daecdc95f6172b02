package domain

// Slot field names. The set is fixed; values are free-form strings filled in
// by the extractor over the course of a conversation.
const (
	SlotApplianceType    = "applianceType"
	SlotIssueDescription = "issueDescription"
	SlotApplianceMake    = "applianceMake"
	SlotCustomerName     = "customerName"
	SlotStreetAddress    = "streetAddress"
	SlotCity             = "city"
	SlotZipCode          = "zipCode"
	SlotCallbackNumber   = "callbackNumber"
	SlotPreferredTime    = "preferredTime"
	SlotIssueLocation    = "issueLocation"
	SlotLastConfirmation = "lastConfirmation"
	SlotCompletion       = "completionPercentage"
)

// RequiredSlots is the ordered list of fields a booking needs before it can be
// dispatched. City and zip count separately here; the flow engine groups them
// into a single "location" ask.
var RequiredSlots = []string{
	SlotApplianceType,
	SlotIssueDescription,
	SlotApplianceMake,
	SlotCustomerName,
	SlotStreetAddress,
	SlotCity,
	SlotZipCode,
	SlotCallbackNumber,
	SlotPreferredTime,
}

// SlotSet maps slot field names to extracted values.
type SlotSet map[string]string

// Get returns the value for a field, empty string if unset.
func (s SlotSet) Get(field string) string {
	if s == nil {
		return ""
	}
	return s[field]
}

// Has reports whether a field holds a non-empty value.
func (s SlotSet) Has(field string) bool {
	return s.Get(field) != ""
}

// Clone returns a shallow copy so callers can mutate freely.
func (s SlotSet) Clone() SlotSet {
	out := make(SlotSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge writes every non-empty value from other into s, last write wins.
// Existing values are never cleared by an empty incoming value.
func (s SlotSet) Merge(other SlotSet) {
	for k, v := range other {
		if v != "" {
			s[k] = v
		}
	}
}

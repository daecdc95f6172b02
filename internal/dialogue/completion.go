package dialogue

import (
	"math"

	"github.com/fieldserve/repairline/internal/domain"
)

// FieldLocation is the grouped city+zip entry the flow engine asks about as a
// single question. Completion scoring does NOT use this grouping: city and
// zip each count as one of the nine required fields.
const FieldLocation = "location"

// askPriority is the fixed order missing fields are asked about.
var askPriority = []string{
	domain.SlotApplianceType,
	domain.SlotIssueDescription,
	domain.SlotApplianceMake,
	domain.SlotCustomerName,
	domain.SlotStreetAddress,
	FieldLocation,
	domain.SlotCallbackNumber,
	domain.SlotPreferredTime,
}

// CompletionPercent scores a slot set 0-100 against the nine required fields,
// rounded to the nearest integer.
func CompletionPercent(s domain.SlotSet) int {
	present := 0
	for _, f := range domain.RequiredSlots {
		if s.Has(f) {
			present++
		}
	}
	return int(math.Round(100 * float64(present) / float64(len(domain.RequiredSlots))))
}

// MissingFields lists what still needs to be asked, in ask priority order.
// City and zip collapse into a single "location" entry when either is absent.
func MissingFields(s domain.SlotSet) []string {
	var missing []string
	for _, f := range askPriority {
		switch f {
		case FieldLocation:
			if !s.Has(domain.SlotCity) || !s.Has(domain.SlotZipCode) {
				missing = append(missing, FieldLocation)
			}
		default:
			if !s.Has(f) {
				missing = append(missing, f)
			}
		}
	}
	return missing
}

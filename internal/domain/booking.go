package domain

// Pricing disclosed in the booking summary. The diagnostic fee is credited
// toward the repair when the customer goes ahead.
const (
	DiagnosticFeeCents = 8900
	RepairRangeLowUSD  = 150
	RepairRangeHighUSD = 300
)

// Booking is the dispatch-ready view of a completed slot set, handed to the
// confirmation email and the payment-link side effects.
type Booking struct {
	TenantID      string `json:"tenant_id"`
	ContactID     string `json:"contact_id"`
	CustomerName  string `json:"customer_name"`
	ApplianceMake string `json:"appliance_make"`
	ApplianceType string `json:"appliance_type"`
	Issue         string `json:"issue"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	ZipCode       string `json:"zip_code"`
	Callback      string `json:"callback"`
	PreferredTime string `json:"preferred_time"`
}

// BookingFromSlots lifts a slot set into a booking. Callers should only do
// this once the required fields are complete.
func BookingFromSlots(tenantID, contactID string, s SlotSet) Booking {
	return Booking{
		TenantID:      tenantID,
		ContactID:     contactID,
		CustomerName:  s.Get(SlotCustomerName),
		ApplianceMake: s.Get(SlotApplianceMake),
		ApplianceType: s.Get(SlotApplianceType),
		Issue:         s.Get(SlotIssueDescription),
		StreetAddress: s.Get(SlotStreetAddress),
		City:          s.Get(SlotCity),
		ZipCode:       s.Get(SlotZipCode),
		Callback:      s.Get(SlotCallbackNumber),
		PreferredTime: s.Get(SlotPreferredTime),
	}
}

package domain

import "time"

// Tenant is one dispatcher company using the receptionist.
type Tenant struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name"`
	FromNumber    string    `json:"from_number"`
	DispatchEmail string    `json:"dispatch_email"`
	Greeting      string    `json:"greeting,omitempty"`
	BusinessHours string    `json:"business_hours,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

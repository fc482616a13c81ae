package models

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationStatus is the lifecycle state of a registration.
type RegistrationStatus string

const (
	// StatusRegistered is the initial state of a new registration.
	StatusRegistered RegistrationStatus = "registered"
	// StatusAttended marks a registration whose attendee showed up.
	StatusAttended RegistrationStatus = "attended"
	// StatusCancelled marks an unregistered attendee. The row is retained
	// so attendance history survives cancellation.
	StatusCancelled RegistrationStatus = "cancelled"
)

// Registration is an attendee registration for an event.
type Registration struct {
	ID         uuid.UUID          `json:"id"`
	EventID    uuid.UUID          `json:"event_id"`
	AttendeeID uuid.UUID          `json:"attendee_id"`
	Status     RegistrationStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Active reports whether the registration still counts toward the
// one-active-registration-per-attendee rule.
func (r *Registration) Active() bool {
	return r.Status != StatusCancelled
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a post-event rating left by an attendee. At most one feedback
// row exists per (event, attendee) pair and there is no update path.
type Feedback struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	AttendeeID uuid.UUID `json:"attendee_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

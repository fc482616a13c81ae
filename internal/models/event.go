package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a scheduled event owned by an organizer.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	OrganizerID uuid.UUID `json:"organizer_id"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventWithStats is a read-only view combining an Event with metrics derived
// from the current registration and feedback collections. It is recomputed on
// every read and never stored, so it always reflects store state at read time.
type EventWithStats struct {
	Event
	Registrations   int         `json:"registrations"`
	AttendanceRate  float64     `json:"attendance_rate"`
	Organizer       *UserPublic `json:"organizer,omitempty"`
	EngagementScore int         `json:"engagement_score"`
}

// Package store holds the authoritative in-memory event, registration, and
// feedback collections and derives per-event statistics on demand. It is the
// sole owner of event domain state; everything lives in process memory and
// vanishes on restart.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/scoring"
)

var (
	// ErrEventNotFound is returned for reads and updates of unknown event IDs.
	ErrEventNotFound = errors.New("event not found")
	// ErrAlreadyRegistered is returned when a non-cancelled registration
	// already exists for the (event, attendee) pair.
	ErrAlreadyRegistered = errors.New("already registered for event")
	// ErrFeedbackExists is returned when feedback was already submitted for
	// the (event, attendee) pair, regardless of registration status.
	ErrFeedbackExists = errors.New("feedback already submitted")
)

// UserDirectory resolves user IDs to users. The auth repository satisfies it.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Store is the in-memory aggregation store. Handlers across concurrent HTTP
// requests share one instance, so every operation is serialized by a single
// mutex to keep the one-active-registration and one-feedback rules intact
// under races.
type Store struct {
	mu             sync.Mutex
	users          UserDirectory
	responsiveness scoring.Signal

	events        []models.Event
	registrations []models.Registration
	feedback      []models.Feedback

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithResponsivenessSignal overrides the organizer-responsiveness term used
// when scoring events. The default is scoring.Neutral.
func WithResponsivenessSignal(sig scoring.Signal) Option {
	return func(s *Store) { s.responsiveness = sig }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store. users may be nil, in which case derived views
// carry no organizer.
func New(users UserDirectory, opts ...Option) *Store {
	s := &Store{
		users:          users,
		responsiveness: scoring.Neutral,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed replaces the store contents with the given initial state.
func (s *Store) Seed(events []models.Event, registrations []models.Registration, feedback []models.Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]models.Event(nil), events...)
	s.registrations = append([]models.Registration(nil), registrations...)
	s.feedback = append([]models.Feedback(nil), feedback...)
}

// EventWithStats returns the event decorated with derived statistics, or
// ErrEventNotFound.
func (s *Store) EventWithStats(ctx context.Context, eventID uuid.UUID) (*models.EventWithStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.ID == eventID {
			stats := s.statsLocked(ctx, ev)
			return &stats, nil
		}
	}
	return nil, ErrEventNotFound
}

// EventsForOrganizer returns every event owned by the organizer, each
// decorated with stats, in insertion order.
func (s *Store) EventsForOrganizer(ctx context.Context, organizerID uuid.UUID) []models.EventWithStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.EventWithStats
	for _, ev := range s.events {
		if ev.OrganizerID == organizerID {
			out = append(out, s.statsLocked(ctx, ev))
		}
	}
	return out
}

// BrowseEvents returns every event decorated with stats, in insertion order.
// This is the attendee-facing catalog: it is deliberately unfiltered.
func (s *Store) BrowseEvents(ctx context.Context) []models.EventWithStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.EventWithStats, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, s.statsLocked(ctx, ev))
	}
	return out
}

// RegisteredEvents returns the events for which the attendee holds a
// non-cancelled registration, decorated with stats.
func (s *Store) RegisteredEvents(ctx context.Context, attendeeID uuid.UUID) []models.EventWithStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	registered := make(map[uuid.UUID]bool)
	for _, r := range s.registrations {
		if r.AttendeeID == attendeeID && r.Active() {
			registered[r.EventID] = true
		}
	}
	var out []models.EventWithStats
	for _, ev := range s.events {
		if registered[ev.ID] {
			out = append(out, s.statsLocked(ctx, ev))
		}
	}
	return out
}

// CreateEventParams are the caller-supplied event fields. Field validation
// (required fields, capacity > 0) happens at the HTTP layer before the store
// is reached.
type CreateEventParams struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	Capacity    int
	OrganizerID uuid.UUID
	ImageURL    string
}

// CreateEvent appends a new event with a fresh identity and creation
// timestamp. It always succeeds at this layer.
func (s *Store) CreateEvent(_ context.Context, params CreateEventParams) models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := models.Event{
		ID:          uuid.New(),
		Title:       params.Title,
		Description: params.Description,
		Date:        params.Date,
		Location:    params.Location,
		Capacity:    params.Capacity,
		OrganizerID: params.OrganizerID,
		ImageURL:    params.ImageURL,
		CreatedAt:   s.now(),
	}
	s.events = append(s.events, ev)
	return ev
}

// UpdateEventParams carries the partial update for an event. Nil fields are
// left untouched; identity and creation time are never rewritten.
type UpdateEventParams struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Capacity    *int
	ImageURL    *string
}

// UpdateEvent merges params into the event, or returns ErrEventNotFound
// leaving the collection unchanged.
func (s *Store) UpdateEvent(_ context.Context, eventID uuid.UUID, params UpdateEventParams) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID != eventID {
			continue
		}
		ev := &s.events[i]
		if params.Title != nil {
			ev.Title = *params.Title
		}
		if params.Description != nil {
			ev.Description = *params.Description
		}
		if params.Date != nil {
			ev.Date = *params.Date
		}
		if params.Location != nil {
			ev.Location = *params.Location
		}
		if params.Capacity != nil {
			ev.Capacity = *params.Capacity
		}
		if params.ImageURL != nil {
			ev.ImageURL = *params.ImageURL
		}
		out := *ev
		return &out, nil
	}
	return nil, ErrEventNotFound
}

// DeleteEvent removes the event and hard-deletes its registrations and
// feedback. Unlike registration cancellation nothing is retained: history is
// preserved per attendee, but cascade-cleaned on event removal. Returns true
// even when the event did not exist.
func (s *Store) DeleteEvent(_ context.Context, eventID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.events[:0]
	for _, ev := range s.events {
		if ev.ID != eventID {
			kept = append(kept, ev)
		}
	}
	s.events = kept

	keptRegs := s.registrations[:0]
	for _, r := range s.registrations {
		if r.EventID != eventID {
			keptRegs = append(keptRegs, r)
		}
	}
	s.registrations = keptRegs

	keptFb := s.feedback[:0]
	for _, f := range s.feedback {
		if f.EventID != eventID {
			keptFb = append(keptFb, f)
		}
	}
	s.feedback = keptFb
	return true
}

// RegisterForEvent creates a registration with status registered, or returns
// ErrAlreadyRegistered when a non-cancelled registration already exists for
// the pair. Event existence is not checked here; callers validate it.
func (s *Store) RegisterForEvent(_ context.Context, eventID, attendeeID uuid.UUID) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.registrations {
		if r.EventID == eventID && r.AttendeeID == attendeeID && r.Active() {
			return nil, ErrAlreadyRegistered
		}
	}
	reg := models.Registration{
		ID:         uuid.New(),
		EventID:    eventID,
		AttendeeID: attendeeID,
		Status:     models.StatusRegistered,
		CreatedAt:  s.now(),
	}
	s.registrations = append(s.registrations, reg)
	return &reg, nil
}

// UnregisterFromEvent flips the attendee's non-cancelled registration to
// cancelled, retaining the row, and returns true. Returns false when no
// active registration exists.
func (s *Store) UnregisterFromEvent(_ context.Context, eventID, attendeeID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.registrations {
		r := &s.registrations[i]
		if r.EventID == eventID && r.AttendeeID == attendeeID && r.Active() {
			r.Status = models.StatusCancelled
			return true
		}
	}
	return false
}

// SubmitFeedback appends a feedback record, or returns ErrFeedbackExists when
// the pair already submitted one. Rating range validation happens at the HTTP
// layer.
func (s *Store) SubmitFeedback(_ context.Context, eventID, attendeeID uuid.UUID, rating int, comment string) (*models.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.feedback {
		if f.EventID == eventID && f.AttendeeID == attendeeID {
			return nil, ErrFeedbackExists
		}
	}
	fb := models.Feedback{
		ID:         uuid.New(),
		EventID:    eventID,
		AttendeeID: attendeeID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  s.now(),
	}
	s.feedback = append(s.feedback, fb)
	return &fb, nil
}

// Registrations returns the registrations for an event, any status.
func (s *Store) Registrations(_ context.Context, eventID uuid.UUID) []models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Registration
	for _, r := range s.registrations {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out
}

// FeedbackCount returns how many feedback rows the store holds.
func (s *Store) FeedbackCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.feedback)
}

// statsLocked decorates ev with derived metrics. Callers hold s.mu.
func (s *Store) statsLocked(ctx context.Context, ev models.Event) models.EventWithStats {
	var total, attended int
	for _, r := range s.registrations {
		if r.EventID == ev.ID {
			total++
			if r.Status == models.StatusAttended {
				attended++
			}
		}
	}
	var rate float64
	if total > 0 {
		rate = float64(attended) / float64(total)
	}

	var organizer *models.UserPublic
	if s.users != nil {
		if u, err := s.users.GetByID(ctx, ev.OrganizerID); err == nil && u != nil {
			pub := u.ToPublic()
			organizer = &pub
		}
	}

	return models.EventWithStats{
		Event:           ev,
		Registrations:   total,
		AttendanceRate:  rate,
		Organizer:       organizer,
		EngagementScore: scoring.Score(ev, s.registrations, s.feedback, s.responsiveness(ev.ID)),
	}
}

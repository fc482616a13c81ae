package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/models"
)

var errUnknownUser = errors.New("unknown user")

// fakeDirectory is a map-backed UserDirectory for tests.
type fakeDirectory map[uuid.UUID]*models.User

func (d fakeDirectory) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := d[id]; ok {
		return u, nil
	}
	return nil, errUnknownUser
}

func newTestStore() (*Store, *models.User, *models.User) {
	organizer := &models.User{ID: uuid.New(), Email: "org@example.com", Name: "Org", Role: models.RoleOrganizer}
	attendee := &models.User{ID: uuid.New(), Email: "att@example.com", Name: "Att", Role: models.RoleAttendee}
	dir := fakeDirectory{organizer.ID: organizer, attendee.ID: attendee}
	return New(dir), organizer, attendee
}

func createEvent(t *testing.T, s *Store, organizerID uuid.UUID, capacity int) models.Event {
	t.Helper()
	return s.CreateEvent(context.Background(), CreateEventParams{
		Title:       "Test Event",
		Description: "desc",
		Date:        time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC),
		Location:    "Test Hall",
		Capacity:    capacity,
		OrganizerID: organizerID,
	})
}

func TestEventWithStatsNotFound(t *testing.T) {
	s, _, _ := newTestStore()
	if _, err := s.EventWithStats(context.Background(), uuid.New()); err != ErrEventNotFound {
		t.Fatalf("unknown event: got err %v, want ErrEventNotFound", err)
	}
}

func TestEventWithStatsCountsAllStatuses(t *testing.T) {
	ctx := context.Background()
	s, organizer, _ := newTestStore()
	ev := createEvent(t, s, organizer.ID, 100)

	attendees := make([]uuid.UUID, 4)
	for i := range attendees {
		attendees[i] = uuid.New()
		if _, err := s.RegisterForEvent(ctx, ev.ID, attendees[i]); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}
	// Cancel one: the row is retained and still counted.
	if !s.UnregisterFromEvent(ctx, ev.ID, attendees[0]) {
		t.Fatal("unregister returned false")
	}

	stats, err := s.EventWithStats(ctx, ev.ID)
	if err != nil {
		t.Fatalf("EventWithStats: %v", err)
	}
	if stats.Registrations != 4 {
		t.Errorf("registration count: got %d, want 4 (cancelled rows included)", stats.Registrations)
	}
	if stats.AttendanceRate != 0 {
		t.Errorf("attendance rate: got %f, want 0", stats.AttendanceRate)
	}
	if stats.Organizer == nil || stats.Organizer.ID != organizer.ID {
		t.Errorf("organizer not resolved: %+v", stats.Organizer)
	}
}

func TestRegisterTwiceAndReRegister(t *testing.T) {
	ctx := context.Background()
	s, organizer, attendee := newTestStore()
	ev := createEvent(t, s, organizer.ID, 10)

	if _, err := s.RegisterForEvent(ctx, ev.ID, attendee.ID); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := s.RegisterForEvent(ctx, ev.ID, attendee.ID); err != ErrAlreadyRegistered {
		t.Fatalf("duplicate register: got err %v, want ErrAlreadyRegistered", err)
	}
	if !s.UnregisterFromEvent(ctx, ev.ID, attendee.ID) {
		t.Fatal("unregister returned false")
	}
	// Re-registration after cancellation is allowed.
	if _, err := s.RegisterForEvent(ctx, ev.ID, attendee.ID); err != nil {
		t.Fatalf("re-register after cancel: %v", err)
	}
	if got := len(s.Registrations(ctx, ev.ID)); got != 2 {
		t.Errorf("registration rows: got %d, want 2 (soft-cancel retains rows)", got)
	}
}

func TestUnregisterWithoutRegistration(t *testing.T) {
	ctx := context.Background()
	s, organizer, attendee := newTestStore()
	ev := createEvent(t, s, organizer.ID, 10)
	if s.UnregisterFromEvent(ctx, ev.ID, attendee.ID) {
		t.Error("unregister with no active registration returned true")
	}
}

func TestDeleteEventIdempotentCascade(t *testing.T) {
	ctx := context.Background()
	s, organizer, attendee := newTestStore()
	ev := createEvent(t, s, organizer.ID, 10)

	if _, err := s.RegisterForEvent(ctx, ev.ID, attendee.ID); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.SubmitFeedback(ctx, ev.ID, attendee.ID, 5, "great"); err != nil {
		t.Fatalf("feedback: %v", err)
	}

	if !s.DeleteEvent(ctx, ev.ID) {
		t.Error("first delete returned false")
	}
	if !s.DeleteEvent(ctx, ev.ID) {
		t.Error("second delete returned false")
	}
	if _, err := s.EventWithStats(ctx, ev.ID); err != ErrEventNotFound {
		t.Errorf("deleted event still readable: err %v", err)
	}
	if got := len(s.Registrations(ctx, ev.ID)); got != 0 {
		t.Errorf("registrations not cascaded: %d rows left", got)
	}
	if got := s.FeedbackCount(); got != 0 {
		t.Errorf("feedback not cascaded: %d rows left", got)
	}
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	s, organizer, _ := newTestStore()
	ev := createEvent(t, s, organizer.ID, 10)

	title := "Renamed"
	capacity := 25
	updated, err := s.UpdateEvent(ctx, ev.ID, UpdateEventParams{Title: &title, Capacity: &capacity})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if updated.Title != "Renamed" || updated.Capacity != 25 {
		t.Errorf("merge failed: %+v", updated)
	}
	if updated.Location != ev.Location || updated.ID != ev.ID || !updated.CreatedAt.Equal(ev.CreatedAt) {
		t.Errorf("unspecified fields or identity changed: %+v", updated)
	}
}

func TestUpdateEventNotFound(t *testing.T) {
	ctx := context.Background()
	s, organizer, _ := newTestStore()
	createEvent(t, s, organizer.ID, 10)

	title := "x"
	if _, err := s.UpdateEvent(ctx, uuid.New(), UpdateEventParams{Title: &title}); err != ErrEventNotFound {
		t.Fatalf("unknown id: got err %v, want ErrEventNotFound", err)
	}
	if got := len(s.BrowseEvents(ctx)); got != 1 {
		t.Errorf("event collection changed on failed update: %d events", got)
	}
}

func TestSubmitFeedbackOncePerPair(t *testing.T) {
	ctx := context.Background()
	s, organizer, attendee := newTestStore()
	ev := createEvent(t, s, organizer.ID, 10)

	if _, err := s.SubmitFeedback(ctx, ev.ID, attendee.ID, 4, "good"); err != nil {
		t.Fatalf("first feedback: %v", err)
	}
	if _, err := s.SubmitFeedback(ctx, ev.ID, attendee.ID, 5, "again"); err != ErrFeedbackExists {
		t.Fatalf("duplicate feedback: got err %v, want ErrFeedbackExists", err)
	}
	if got := s.FeedbackCount(); got != 1 {
		t.Errorf("feedback collection length changed: got %d, want 1", got)
	}

	// Duplicate check applies even after the registration is cancelled.
	if _, err := s.RegisterForEvent(ctx, ev.ID, attendee.ID); err != nil {
		t.Fatalf("register: %v", err)
	}
	s.UnregisterFromEvent(ctx, ev.ID, attendee.ID)
	if _, err := s.SubmitFeedback(ctx, ev.ID, attendee.ID, 3, "later"); err != ErrFeedbackExists {
		t.Fatalf("feedback after cancel: got err %v, want ErrFeedbackExists", err)
	}
}

func TestBrowseEventsReturnsAll(t *testing.T) {
	ctx := context.Background()
	s, organizer, _ := newTestStore()
	createEvent(t, s, organizer.ID, 10)
	createEvent(t, s, organizer.ID, 20)
	other := uuid.New()
	createEvent(t, s, other, 30)

	// The catalog is unfiltered regardless of who is asking.
	if got := len(s.BrowseEvents(ctx)); got != 3 {
		t.Errorf("BrowseEvents: got %d events, want 3", got)
	}
	if got := len(s.EventsForOrganizer(ctx, organizer.ID)); got != 2 {
		t.Errorf("EventsForOrganizer: got %d events, want 2", got)
	}
}

func TestRegisteredEventsExcludesCancelled(t *testing.T) {
	ctx := context.Background()
	s, organizer, attendee := newTestStore()
	ev1 := createEvent(t, s, organizer.ID, 10)
	ev2 := createEvent(t, s, organizer.ID, 10)

	if _, err := s.RegisterForEvent(ctx, ev1.ID, attendee.ID); err != nil {
		t.Fatalf("register ev1: %v", err)
	}
	if _, err := s.RegisterForEvent(ctx, ev2.ID, attendee.ID); err != nil {
		t.Fatalf("register ev2: %v", err)
	}
	s.UnregisterFromEvent(ctx, ev2.ID, attendee.ID)

	list := s.RegisteredEvents(ctx, attendee.ID)
	if len(list) != 1 || list[0].ID != ev1.ID {
		t.Errorf("RegisteredEvents: got %d events, want only the active one", len(list))
	}
}

func TestStatsMatchRegistrationRows(t *testing.T) {
	ctx := context.Background()
	s, organizer, _ := newTestStore()
	ev := createEvent(t, s, organizer.ID, 100)
	for i := 0; i < 7; i++ {
		if _, err := s.RegisterForEvent(ctx, ev.ID, uuid.New()); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}
	stats, err := s.EventWithStats(ctx, ev.ID)
	if err != nil {
		t.Fatalf("EventWithStats: %v", err)
	}
	if rows := len(s.Registrations(ctx, ev.ID)); stats.Registrations != rows {
		t.Errorf("stats count %d != row count %d", stats.Registrations, rows)
	}
}

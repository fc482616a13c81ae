package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/models"
)

type fakeSeeder struct {
	byEmail map[string]*models.User
	created int
}

func (f *fakeSeeder) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, errors.New("no rows")
}

func (f *fakeSeeder) Create(_ context.Context, email, _, name string, role models.Role) (*models.User, error) {
	u := &models.User{ID: uuid.New(), Email: email, Name: name, Role: role}
	f.byEmail[email] = u
	f.created++
	return u, nil
}

func (f *fakeSeeder) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("no rows")
}

func TestLoadDemo(t *testing.T) {
	ctx := context.Background()
	seeder := &fakeSeeder{byEmail: make(map[string]*models.User)}
	s := New(seeder)

	if err := LoadDemo(ctx, seeder, s, nil); err != nil {
		t.Fatalf("LoadDemo: %v", err)
	}
	if seeder.created != 3 {
		t.Fatalf("created %d users, want 3", seeder.created)
	}

	events := s.BrowseEvents(ctx)
	if len(events) != 3 {
		t.Fatalf("seeded %d events, want 3", len(events))
	}
	byTitle := make(map[string]models.EventWithStats, len(events))
	for _, ev := range events {
		byTitle[ev.Title] = ev
	}

	conf, ok := byTitle["Tech Conference 2025"]
	if !ok {
		t.Fatal("Tech Conference 2025 missing")
	}
	if conf.Registrations != 1 {
		t.Fatalf("conference registrations = %d, want 1", conf.Registrations)
	}
	if conf.Organizer == nil || conf.Organizer.Email != "organizer@example.com" {
		t.Fatalf("conference organizer = %+v", conf.Organizer)
	}
	if byTitle["Marketing Summit"].Registrations != 0 {
		t.Fatalf("summit registrations = %d, want 0", byTitle["Marketing Summit"].Registrations)
	}
	if s.FeedbackCount() != 1 {
		t.Fatalf("feedback rows = %d, want 1", s.FeedbackCount())
	}

	attendee := seeder.byEmail["attendee@example.com"]
	mine := s.RegisteredEvents(ctx, attendee.ID)
	if len(mine) != 2 {
		t.Fatalf("attendee registered for %d events, want 2", len(mine))
	}
}

func TestLoadDemoReusesExistingAccounts(t *testing.T) {
	ctx := context.Background()
	seeder := &fakeSeeder{byEmail: map[string]*models.User{
		"organizer@example.com": {ID: uuid.New(), Email: "organizer@example.com", Role: models.RoleOrganizer},
	}}
	s := New(seeder)

	if err := LoadDemo(ctx, seeder, s, nil); err != nil {
		t.Fatalf("LoadDemo: %v", err)
	}
	if seeder.created != 2 {
		t.Fatalf("created %d users, want 2 (existing organizer reused)", seeder.created)
	}
}

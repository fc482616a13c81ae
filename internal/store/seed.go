package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/pkg/utils"
)

// UserSeeder creates demo users. The auth repository satisfies it.
type UserSeeder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email, passwordHash, name string, role models.Role) (*models.User, error)
}

// DemoPassword is the password for every seeded demo account.
const DemoPassword = "eventflow-demo"

type demoUser struct {
	email string
	name  string
	role  models.Role
}

// LoadDemo provisions the demo accounts and seeds the store with the demo
// event catalog: three users, three events, two registrations, one feedback.
// Existing accounts with the demo emails are reused.
func LoadDemo(ctx context.Context, users UserSeeder, s *Store, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	specs := []demoUser{
		{"organizer@example.com", "John Organizer", models.RoleOrganizer},
		{"attendee@example.com", "Sarah Attendee", models.RoleAttendee},
		{"organizer2@example.com", "Mike Event Manager", models.RoleOrganizer},
	}
	seeded := make([]*models.User, len(specs))
	for i, spec := range specs {
		u, err := users.GetByEmail(ctx, spec.email)
		if err != nil {
			hash, err := utils.HashPassword(DemoPassword)
			if err != nil {
				return fmt.Errorf("hash demo password: %w", err)
			}
			u, err = users.Create(ctx, spec.email, hash, spec.name, spec.role)
			if err != nil {
				return fmt.Errorf("create demo user %s: %w", spec.email, err)
			}
		}
		seeded[i] = u
	}
	organizer, attendee, organizer2 := seeded[0], seeded[1], seeded[2]

	events := []models.Event{
		{
			ID:          uuid.New(),
			Title:       "Tech Conference 2025",
			Description: "Join us for the biggest tech conference of the year with industry experts and networking opportunities.",
			Date:        time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC),
			Location:    "Convention Center, San Francisco",
			Capacity:    500,
			OrganizerID: organizer.ID,
			ImageURL:    "https://images.pexels.com/photos/2774556/pexels-photo-2774556.jpeg",
			CreatedAt:   time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:          uuid.New(),
			Title:       "Design Workshop",
			Description: "Learn the latest design trends and improve your skills with hands-on exercises.",
			Date:        time.Date(2025, 6, 22, 10, 0, 0, 0, time.UTC),
			Location:    "Design Hub, New York",
			Capacity:    50,
			OrganizerID: organizer.ID,
			ImageURL:    "https://images.pexels.com/photos/7096/people-woman-coffee-meeting.jpg",
			CreatedAt:   time.Date(2025, 2, 5, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:          uuid.New(),
			Title:       "Marketing Summit",
			Description: "Discover cutting-edge marketing strategies from leading industry professionals.",
			Date:        time.Date(2025, 7, 10, 9, 30, 0, 0, time.UTC),
			Location:    "Business Center, Chicago",
			Capacity:    200,
			OrganizerID: organizer2.ID,
			ImageURL:    "https://images.pexels.com/photos/3184657/pexels-photo-3184657.jpeg",
			CreatedAt:   time.Date(2025, 3, 12, 10, 15, 0, 0, time.UTC),
		},
	}

	registrations := []models.Registration{
		{
			ID:         uuid.New(),
			EventID:    events[0].ID,
			AttendeeID: attendee.ID,
			Status:     models.StatusRegistered,
			CreatedAt:  time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:         uuid.New(),
			EventID:    events[1].ID,
			AttendeeID: attendee.ID,
			Status:     models.StatusRegistered,
			CreatedAt:  time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	feedback := []models.Feedback{
		{
			ID:         uuid.New(),
			EventID:    events[0].ID,
			AttendeeID: attendee.ID,
			Rating:     4,
			Comment:    "Great event, learned a lot!",
			CreatedAt:  time.Date(2025, 5, 16, 18, 0, 0, 0, time.UTC),
		},
	}

	s.Seed(events, registrations, feedback)
	logger.Info("demo data seeded",
		zap.Int("users", len(seeded)),
		zap.Int("events", len(events)),
		zap.Int("registrations", len(registrations)),
	)
	return nil
}

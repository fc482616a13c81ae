package scoring

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/models"
)

func makeEvent(capacity int) models.Event {
	return models.Event{ID: uuid.New(), Title: "Test Event", Capacity: capacity}
}

func makeRegistrations(ev models.Event, total, attended int) []models.Registration {
	regs := make([]models.Registration, 0, total)
	for i := 0; i < total; i++ {
		status := models.StatusRegistered
		if i < attended {
			status = models.StatusAttended
		}
		regs = append(regs, models.Registration{
			ID:         uuid.New(),
			EventID:    ev.ID,
			AttendeeID: uuid.New(),
			Status:     status,
		})
	}
	return regs
}

func TestScoreEmptyEvent(t *testing.T) {
	ev := makeEvent(100)
	if got := Score(ev, nil, nil, 0); got != 0 {
		t.Errorf("empty event with neutral responsiveness: got %d, want 0", got)
	}
	// With only the responsiveness term the score stays under 1/6 of the scale.
	if got := Score(ev, nil, nil, 0.99); got > 17 {
		t.Errorf("responsiveness-only score %d exceeds 17", got)
	}
}

func TestScoreFullHouse(t *testing.T) {
	ev := makeEvent(10)
	regs := makeRegistrations(ev, 10, 10)
	fb := []models.Feedback{
		{ID: uuid.New(), EventID: ev.ID, Rating: 5},
		{ID: uuid.New(), EventID: ev.ID, Rating: 5},
	}
	// registration 2 + attendance 2 + feedback 1 = 5 of 6 before responsiveness.
	if got := Score(ev, regs, fb, 0); got != 83 {
		t.Errorf("full house, responsiveness 0: got %d, want 83", got)
	}
	if got := Score(ev, regs, fb, 1); got != 100 {
		t.Errorf("full house, responsiveness 1: got %d, want 100", got)
	}
}

func TestScoreBounds(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		ev := makeEvent(1 + r.Intn(50))
		total := r.Intn(80)
		regs := makeRegistrations(ev, total, r.Intn(total+1))
		var fb []models.Feedback
		for j := 0; j < r.Intn(5); j++ {
			fb = append(fb, models.Feedback{ID: uuid.New(), EventID: ev.ID, Rating: 1 + r.Intn(5)})
		}
		got := Score(ev, regs, fb, r.Float64())
		if got < 0 || got > 100 {
			t.Fatalf("score %d out of [0,100] for capacity=%d total=%d", got, ev.Capacity, total)
		}
	}
}

func TestScoreAttendanceMonotonic(t *testing.T) {
	ev := makeEvent(20)
	prev := -1
	for attended := 0; attended <= 10; attended++ {
		got := Score(ev, makeRegistrations(ev, 10, attended), nil, 0.5)
		if got < prev {
			t.Fatalf("score decreased from %d to %d when attended rose to %d", prev, got, attended)
		}
		prev = got
	}
}

func TestScoreCapacityGuard(t *testing.T) {
	ev := makeEvent(0)
	regs := makeRegistrations(ev, 5, 0)
	// A non-positive capacity must not panic or blow the registration term.
	if got := Score(ev, regs, nil, 0); got != 0 {
		t.Errorf("capacity 0 with no attendance: got %d, want 0", got)
	}
}

func TestScoreCapsOverbooking(t *testing.T) {
	ev := makeEvent(5)
	over := Score(ev, makeRegistrations(ev, 50, 0), nil, 0)
	full := Score(ev, makeRegistrations(ev, 5, 0), nil, 0)
	if over != full {
		t.Errorf("overbooked score %d differs from exactly-full score %d", over, full)
	}
}

func TestScoreIgnoresOtherEvents(t *testing.T) {
	ev := makeEvent(10)
	other := makeEvent(10)
	regs := append(makeRegistrations(ev, 2, 1), makeRegistrations(other, 8, 8)...)
	fb := []models.Feedback{{ID: uuid.New(), EventID: other.ID, Rating: 5}}

	mixed := Score(ev, regs, fb, 0)
	isolated := Score(ev, makeRegistrations(ev, 2, 1), nil, 0)
	if mixed != isolated {
		t.Errorf("rows for other events leaked into score: got %d, want %d", mixed, isolated)
	}
}

func TestScoreResponsivenessClamped(t *testing.T) {
	ev := makeEvent(10)
	if got := Score(ev, nil, nil, 5); got != Score(ev, nil, nil, 1) {
		t.Errorf("responsiveness above 1 not clamped: got %d", got)
	}
	if got := Score(ev, nil, nil, -3); got != 0 {
		t.Errorf("negative responsiveness not clamped: got %d", got)
	}
}

func TestRandomSignalRange(t *testing.T) {
	sig := RandomSignal(rand.New(rand.NewSource(42)))
	for i := 0; i < 100; i++ {
		v := sig(uuid.Nil)
		if v < 0 || v >= 1 {
			t.Fatalf("random signal %f out of [0,1)", v)
		}
	}
}

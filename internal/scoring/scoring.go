// Package scoring computes the 0-100 engagement score summarizing an event's
// success from its registration fill rate, attendance rate, organizer
// responsiveness, and feedback quality.
package scoring

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/models"
)

// Sub-score weights. The four terms sum to a 6-point scale which is then
// normalized to a 0-100 percentage.
const (
	registrationPoints   = 2.0
	attendancePoints     = 2.0
	responsivenessPoints = 1.0
	feedbackPoints       = 1.0
	totalPoints          = registrationPoints + attendancePoints + responsivenessPoints + feedbackPoints
)

// Signal supplies the organizer-responsiveness term for an event, a value in
// [0,1]. Keeping it injectable keeps Score deterministic and testable; the
// production default is Neutral until a real responsiveness metric exists.
type Signal func(eventID uuid.UUID) float64

// Neutral is the default responsiveness signal: it contributes nothing.
func Neutral(uuid.UUID) float64 { return 0 }

// RandomSignal returns a signal drawing uniformly from [0,1) on every call.
// It exists for demo parity with the original product behavior; it makes
// scores non-reproducible, so it is never the default.
func RandomSignal(r *rand.Rand) Signal {
	return func(uuid.UUID) float64 { return r.Float64() }
}

// Score computes the engagement score for event given the full registration
// and feedback collections (rows for other events are ignored) and the
// responsiveness term for this event.
//
//   - registration: min(regs/capacity, 1) * 2, capped once capacity is
//     reached; 0 when capacity is not positive.
//   - attendance: attended/total * 2, where total counts every status
//     including cancelled; 0 when there are no registrations.
//   - responsiveness: the supplied term, clamped to [0,1].
//   - feedback: mean rating / 5; 0 when no feedback exists.
//
// The sum (0-6) is normalized to an integer percentage, rounding half up
// once on the final value.
func Score(event models.Event, registrations []models.Registration, feedbacks []models.Feedback, responsiveness float64) int {
	var total, attended int
	for _, r := range registrations {
		if r.EventID != event.ID {
			continue
		}
		total++
		if r.Status == models.StatusAttended {
			attended++
		}
	}

	var registrationScore float64
	if event.Capacity > 0 {
		rate := float64(total) / float64(event.Capacity)
		if rate > 1 {
			rate = 1
		}
		registrationScore = rate * registrationPoints
	}

	var attendanceScore float64
	if total > 0 {
		attendanceScore = float64(attended) / float64(total) * attendancePoints
	}

	responsivenessScore := clamp01(responsiveness) * responsivenessPoints

	var feedbackScore float64
	var ratingSum, ratingCount int
	for _, f := range feedbacks {
		if f.EventID != event.ID {
			continue
		}
		ratingSum += f.Rating
		ratingCount++
	}
	if ratingCount > 0 {
		feedbackScore = float64(ratingSum) / float64(ratingCount) / 5 * feedbackPoints
	}

	sum := registrationScore + attendanceScore + responsivenessScore + feedbackScore
	return int(math.Round(sum / totalPoints * 100))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

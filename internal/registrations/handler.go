// Package registrations exposes event registration over HTTP.
package registrations

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/store"
	"github.com/eventflow/backend/pkg/queue"
	"github.com/eventflow/backend/pkg/response"
)

// EmailQueue enqueues notification email jobs. Nil disables notifications.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	store  *store.Store
	emails EmailQueue
	logger *zap.Logger
}

// NewHandler creates a registrations handler. emails may be nil.
func NewHandler(s *store.Store, emails EmailQueue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: s, emails: emails, logger: logger}
}

// Register handles POST /events/:id/register. One active registration per
// attendee per event; re-registering after cancellation is allowed.
func (h *Handler) Register(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ctx := c.Request.Context()
	ev, err := h.store.EventWithStats(ctx, eventID)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}

	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	reg, err := h.store.RegisterForEvent(ctx, eventID, uid)
	if err != nil {
		response.Conflict(c, "already registered for this event")
		return
	}

	if h.emails != nil {
		email, _ := c.Get(middleware.ContextUserEmail)
		recipient, _ := email.(string)
		if recipient != "" {
			err := h.emails.EnqueueEmail(ctx, queue.EmailPayload{
				EmailType:      queue.EmailRegistrationConfirmed,
				EventID:        eventID,
				EventTitle:     ev.Title,
				RecipientEmail: recipient,
				Subject:        "Registration confirmed: " + ev.Title,
				Body:           "You are registered for \"" + ev.Title + "\" on " + ev.Date.Format("Jan 2, 2006") + ".",
			})
			if err != nil {
				h.logger.Warn("enqueue confirmation failed", zap.Error(err), zap.String("event_id", eventID.String()))
			}
		}
	}

	response.Created(c, reg)
}

// Unregister handles DELETE /events/:id/register. The registration is
// soft-cancelled: the row survives with status cancelled.
func (h *Handler) Unregister(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if !h.store.UnregisterFromEvent(c.Request.Context(), eventID, uid) {
		response.NotFound(c, "no active registration for this event")
		return
	}
	response.NoContent(c)
}

// ListMine handles GET /registrations: the events the caller holds an active
// registration for, decorated with stats.
func (h *Handler) ListMine(c *gin.Context) {
	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	response.OK(c, h.store.RegisteredEvents(c.Request.Context(), uid))
}

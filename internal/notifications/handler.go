package notifications

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/store"
	"github.com/eventflow/backend/pkg/response"
)

// Handler handles notification log HTTP endpoints.
type Handler struct {
	repo  *Repository
	store *store.Store
}

// NewHandler creates a notifications handler.
func NewHandler(repo *Repository, s *store.Store) *Handler {
	return &Handler{repo: repo, store: s}
}

// ListByEvent handles GET /events/:id/emails (owner only). Returns the
// notification delivery log for the event.
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ev, err := h.store.EventWithStats(c.Request.Context(), eventID)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if ev.OrganizerID != uid {
		response.Forbidden(c, "only the organizer can view the notification log")
		return
	}

	logs, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to load notification log")
		return
	}
	response.OK(c, logs)
}

// Package feedback exposes post-event feedback submission over HTTP.
package feedback

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/store"
	"github.com/eventflow/backend/pkg/response"
)

// SubmitRequest is the body for POST /events/:id/feedback. The rating range
// is enforced here; the store stores whatever it is handed.
type SubmitRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Handler handles feedback HTTP endpoints.
type Handler struct {
	store *store.Store
}

// NewHandler creates a feedback handler.
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// Submit handles POST /events/:id/feedback. One feedback per attendee per
// event, ever; there is no update path.
func (h *Handler) Submit(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.EventWithStats(ctx, eventID); err != nil {
		response.NotFound(c, "event not found")
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	fb, err := h.store.SubmitFeedback(ctx, eventID, uid, req.Rating, req.Comment)
	if err != nil {
		response.Conflict(c, "feedback already submitted for this event")
		return
	}
	response.Created(c, fb)
}

// Package events exposes the event catalog and organizer CRUD over HTTP.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/middleware"
	"github.com/eventflow/backend/internal/store"
	"github.com/eventflow/backend/pkg/queue"
	"github.com/eventflow/backend/pkg/response"
	"github.com/eventflow/backend/pkg/storage"
)

// EmailQueue enqueues notification email jobs. Nil disables notifications.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

// CreateRequest is the body for POST /events.
type CreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,gt=0"`
	ImageURL    string `json:"image_url"`
}

// UpdateRequest is the body for PATCH /events/:id. Absent fields are left untouched.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	ImageURL    *string `json:"image_url"`
}

// ImageUploadRequest is the body for POST /events/:id/image/upload-url.
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	store  *store.Store
	users  store.UserDirectory
	s3     *storage.S3
	emails EmailQueue
	logger *zap.Logger
}

// NewHandler creates an events handler. s3 and emails may be nil when the
// corresponding backing services are not configured.
func NewHandler(s *store.Store, users store.UserDirectory, s3 *storage.S3, emails EmailQueue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: s, users: users, s3: s3, emails: emails, logger: logger}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// List handles GET /events: the full catalog with stats, for any signed-in
// user. Query ?mine=1 narrows to events organized by the caller.
func (h *Handler) List(c *gin.Context) {
	if c.Query("mine") == "1" {
		uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		response.OK(c, h.store.EventsForOrganizer(c.Request.Context(), uid))
		return
	}
	response.OK(c, h.store.BrowseEvents(c.Request.Context()))
}

// GetByID handles GET /events/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ev, err := h.store.EventWithStats(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, ev)
}

// Create handles POST /events (organizer only). Field validation lives here;
// the store accepts whatever it is handed.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		response.BadRequest(c, "invalid date")
		return
	}
	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	ev := h.store.CreateEvent(c.Request.Context(), store.CreateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		Capacity:    req.Capacity,
		OrganizerID: uid,
		ImageURL:    req.ImageURL,
	})
	response.Created(c, ev)
}

// Update handles PATCH /events/:id (owner only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ev, err := h.store.EventWithStats(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if ev.OrganizerID != uid {
		response.Forbidden(c, "only the organizer can update this event")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}
	params := store.UpdateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	if req.Date != nil {
		t, err := parseDate(*req.Date)
		if err != nil {
			response.BadRequest(c, "invalid date")
			return
		}
		params.Date = &t
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			response.BadRequest(c, "capacity must be positive")
			return
		}
		params.Capacity = req.Capacity
	}

	updated, err := h.store.UpdateEvent(c.Request.Context(), id, params)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	response.OK(c, updated)
}

// Delete handles DELETE /events/:id (owner only). Active registrants get a
// cancellation notice; registrations and feedback are cascade-deleted.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ctx := c.Request.Context()
	ev, err := h.store.EventWithStats(ctx, id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if ev.OrganizerID != uid {
		response.Forbidden(c, "only the organizer can delete this event")
		return
	}

	h.notifyCancellation(ctx, ev.Title, id)
	h.store.DeleteEvent(ctx, id)
	response.NoContent(c)
}

// notifyCancellation enqueues an event-cancelled notice for every active
// registrant. Notification failures never fail the delete.
func (h *Handler) notifyCancellation(ctx context.Context, title string, eventID uuid.UUID) {
	if h.emails == nil || h.users == nil {
		return
	}
	for _, reg := range h.store.Registrations(ctx, eventID) {
		if !reg.Active() {
			continue
		}
		u, err := h.users.GetByID(ctx, reg.AttendeeID)
		if err != nil {
			h.logger.Warn("resolve registrant failed", zap.Error(err), zap.String("attendee_id", reg.AttendeeID.String()))
			continue
		}
		err = h.emails.EnqueueEmail(ctx, queue.EmailPayload{
			EmailType:      queue.EmailEventCancelled,
			EventID:        eventID,
			EventTitle:     title,
			RecipientEmail: u.Email,
			Subject:        "Event cancelled: " + title,
			Body:           "The event \"" + title + "\" has been cancelled by its organizer.",
		})
		if err != nil {
			h.logger.Warn("enqueue cancellation notice failed", zap.Error(err), zap.String("event_id", eventID.String()))
		}
	}
}

// GenerateImageUploadURL handles POST /events/:id/image/upload-url (owner
// only). Returns a pre-signed PUT URL plus the public URL to store back on
// the event via PATCH.
func (h *Handler) GenerateImageUploadURL(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "image storage not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ev, err := h.store.EventWithStats(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if ev.OrganizerID != uid {
		response.Forbidden(c, "only the organizer can upload an image")
		return
	}

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "content_type required")
		return
	}
	if !storage.ValidateImageFileType(req.ContentType, "") {
		response.BadRequest(c, "unsupported image type")
		return
	}

	key := storage.ImageKey(id.String(), req.ContentType)
	uploadURL, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(), key, req.ContentType)
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to generate upload url")
		return
	}
	response.OK(c, gin.H{
		"upload_url": uploadURL,
		"public_url": h.s3.PublicObjectURL(key),
		"expires_in": h.s3.PresignExpire().String(),
	})
}

// UploadImage handles POST /events/:id/image (owner only): multipart upload
// through the server, storing the resulting URL on the event.
func (h *Handler) UploadImage(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "image storage not configured")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ev, err := h.store.EventWithStats(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "event not found")
		return
	}
	uid := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	if ev.OrganizerID != uid {
		response.Forbidden(c, "only the organizer can upload an image")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file required")
		return
	}
	if fileHeader.Size > storage.MaxImageFileSize {
		response.BadRequest(c, "file too large")
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidateImageFileType(contentType, fileHeader.Filename) {
		response.BadRequest(c, "unsupported image type")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Internal(c, "failed to read file")
		return
	}
	defer f.Close()

	key := storage.ImageKey(id.String(), contentType)
	url, err := h.s3.UploadImage(c.Request.Context(), key, contentType, f)
	if err != nil {
		h.logger.Error("image upload failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to upload image")
		return
	}

	updated, err := h.store.UpdateEvent(c.Request.Context(), id, store.UpdateEventParams{ImageURL: &url})
	if err != nil && !errors.Is(err, store.ErrEventNotFound) {
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, gin.H{"image_url": url, "event": updated})
}

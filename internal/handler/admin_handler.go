package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/middleware"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/service"
)

// AdminHandler serves the moderation console: account review and
// event oversight. Every route requires an admin session.
type AdminHandler struct {
	moderationService *service.ModerationService
	eventService      *service.EventService
}

func NewAdminHandler(moderationService *service.ModerationService, eventService *service.EventService) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
		eventService:      eventService,
	}
}

type RejectUserRequest struct {
	Reason string `json:"reason"`
}

// ListUsers returns every account, soft-deleted ones included, newest
// first.
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.moderationService.ListUsers()
	if err != nil {
		serviceError(c, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ApproveUser moves a pending account to APPROVED.
// POST /api/admin/users/:id/approve
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	h.moderate(c, func(adminID, userID uuid.UUID) error {
		return h.moderationService.Approve(adminID, userID)
	}, "User approved")
}

// RejectUser suspends an account with an optional reason.
// POST /api/admin/users/:id/reject
func (h *AdminHandler) RejectUser(c *gin.Context) {
	var req RejectUserRequest
	// Body is optional; a missing or malformed body means no reason
	_ = c.ShouldBindJSON(&req)

	h.moderate(c, func(adminID, userID uuid.UUID) error {
		return h.moderationService.Reject(adminID, userID, req.Reason)
	}, "User rejected")
}

// SoftDeleteUser marks the account deleted, locking it out without
// destroying its history.
// POST /api/admin/users/:id/soft-delete
func (h *AdminHandler) SoftDeleteUser(c *gin.Context) {
	h.moderate(c, func(adminID, userID uuid.UUID) error {
		return h.moderationService.SoftDelete(adminID, userID)
	}, "User deleted")
}

// RestoreUser brings a soft-deleted account back as APPROVED.
// POST /api/admin/users/:id/restore
func (h *AdminHandler) RestoreUser(c *gin.Context) {
	h.moderate(c, func(adminID, userID uuid.UUID) error {
		return h.moderationService.Restore(adminID, userID)
	}, "User restored")
}

func (h *AdminHandler) moderate(c *gin.Context, op func(adminID, userID uuid.UUID) error, message string) {
	admin := middleware.CurrentUser(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := op(admin.ID, userID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// ListEvents is the moderation listing: free-text search over title
// and description, optionally scoped to a room.
// GET /api/admin/events?q=&room_id=&limit=
func (h *AdminHandler) ListEvents(c *gin.Context) {
	var roomID *uuid.UUID
	if raw := c.Query("room_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
			return
		}
		roomID = &id
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	events, err := h.eventService.Search(c.Query("q"), roomID, limit)
	if err != nil {
		serviceError(c, err)
		return
	}
	if events == nil {
		events = []*models.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// CancelEvent flips an event to CANCELLED, keeping the row.
// POST /api/admin/events/:id/cancel
func (h *AdminHandler) CancelEvent(c *gin.Context) {
	h.eventOp(c, h.eventService.Cancel, "Event cancelled")
}

// RestoreEvent flips a cancelled event back to ACTIVE.
// POST /api/admin/events/:id/restore
func (h *AdminHandler) RestoreEvent(c *gin.Context) {
	h.eventOp(c, h.eventService.Restore, "Event restored")
}

// DeleteEvent removes the event row entirely.
// DELETE /api/admin/events/:id
func (h *AdminHandler) DeleteEvent(c *gin.Context) {
	h.eventOp(c, h.eventService.HardDelete, "Event deleted")
}

func (h *AdminHandler) eventOp(c *gin.Context, op func(adminID, eventID uuid.UUID) error, message string) {
	admin := middleware.CurrentUser(c)

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	if err := op(admin.ID, eventID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

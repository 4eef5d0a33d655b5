package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/middleware"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/internal/service"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest accepts two wire shapes for the time window:
// canonical RFC3339 start_time/end_time, or the date + HH:mm pair the
// older clients send (composed into UTC timestamps).
type CreateEventRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	Color         string `json:"color"`
	RoomID        string `json:"room_id" binding:"required"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Date          string `json:"date"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Type          string `json:"type" binding:"required"`
	TypeOtherName string `json:"type_other_name"`
}

type UpdateEventRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Color         *string `json:"color"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	Type          *string `json:"type"`
	TypeOtherName *string `json:"type_other_name"`
}

// window normalizes the two create shapes into concrete timestamps.
func (r *CreateEventRequest) window() (start, end time.Time, err error) {
	if r.StartTime != "" || r.EndTime != "" {
		start, err = time.Parse(time.RFC3339, r.StartTime)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_time: %w", err)
		}
		end, err = time.Parse(time.RFC3339, r.EndTime)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_time: %w", err)
		}
		return start, end, nil
	}
	if r.Date == "" || r.Start == "" || r.End == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("either start_time/end_time or date with start and end is required")
	}
	start, err = time.Parse(time.RFC3339, fmt.Sprintf("%sT%s:00Z", r.Date, r.Start))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date or start: %w", err)
	}
	end, err = time.Parse(time.RFC3339, fmt.Sprintf("%sT%s:00Z", r.Date, r.End))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end: %w", err)
	}
	return start, end, nil
}

// List returns events matching the query filters. Unparsable filters
// never fail the request: the handler answers 200 with an empty list so
// calendar views degrade instead of erroring.
// GET /api/events?room_id=&room=&from=&to=&status=&type=
func (h *EventHandler) List(c *gin.Context) {
	var filter repository.EventFilter
	degraded := false

	if raw := c.Query("room_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			degraded = true
		} else {
			filter.RoomID = &id
		}
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			degraded = true
		} else {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			degraded = true
		} else {
			filter.To = &t
		}
	}
	if raw := c.Query("status"); raw != "" {
		s := models.EventStatus(raw)
		if s != models.EventActive && s != models.EventCancelled {
			degraded = true
		} else {
			filter.Status = &s
		}
	}
	if raw := c.Query("type"); raw != "" {
		t := models.EventType(raw)
		if !models.ValidEventType(t) {
			degraded = true
		} else {
			filter.Type = &t
		}
	}

	if degraded {
		c.JSON(http.StatusOK, gin.H{"events": []*models.Event{}})
		return
	}

	events, err := h.eventService.List(filter, c.Query("room"))
	if err != nil {
		serviceError(c, err)
		return
	}
	if events == nil {
		events = []*models.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Create books a room for the signed-in user.
// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, room and type are required"})
		return
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
		return
	}
	start, end, err := req.window()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.Create(caller, service.CreateEventInput{
		Title:         req.Title,
		Description:   req.Description,
		Color:         req.Color,
		RoomID:        roomID,
		StartTime:     start,
		EndTime:       end,
		Type:          models.EventType(req.Type),
		TypeOtherName: req.TypeOtherName,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// Update applies partial changes to an event the caller owns (admins
// may edit any event).
// PATCH /api/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	input := service.UpdateEventInput{
		Title:         req.Title,
		Description:   req.Description,
		Color:         req.Color,
		TypeOtherName: req.TypeOtherName,
	}
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_time"})
			return
		}
		input.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_time"})
			return
		}
		input.EndTime = &t
	}
	if req.Type != nil {
		t := models.EventType(*req.Type)
		input.Type = &t
	}

	event, err := h.eventService.Update(caller, eventID, input)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// Delete removes the event row entirely. There is one delete path and
// it is reserved for admins; everyone else cancels instead.
// DELETE /api/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	if caller.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	if err := h.eventService.HardDelete(caller.ID, eventID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

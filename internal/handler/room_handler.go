package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/service"
)

type RoomHandler struct {
	roomService *service.RoomService
}

func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

type CreateRoomRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

// List returns the room catalog, alphabetically.
// GET /api/rooms
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.roomService.List()
	if err != nil {
		serviceError(c, err)
		return
	}
	if rooms == nil {
		rooms = []*models.Room{}
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// Create adds a room to the catalog. Admin only.
// POST /api/rooms
func (h *RoomHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room name is required"})
		return
	}

	room, err := h.roomService.Create(req.Name, req.Icon)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room": room})
}

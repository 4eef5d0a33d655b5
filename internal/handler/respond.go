package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomkit/roombook/internal/service"
)

// serviceError maps domain errors onto the HTTP taxonomy: validation
// 400, unauthorized 401, forbidden 403, not found 404, conflict 409,
// everything else 500 with a generic message so storage details never
// leak to clients.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrNotApproved):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account pending approval"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrRoomNameTaken),
		errors.Is(err, service.ErrUserNotDeleted),
		errors.Is(err, service.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case isValidation(err),
		errors.Is(err, service.ErrEndBeforeStart),
		errors.Is(err, service.ErrInvalidEventType),
		errors.Is(err, service.ErrOtherNameRequired),
		errors.Is(err, service.ErrRoomNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func isValidation(err error) bool {
	var ve *service.ValidationError
	return errors.As(err, &ve)
}

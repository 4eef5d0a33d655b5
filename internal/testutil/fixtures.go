package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/utils"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user with a hashed password and returns the
// model. Status defaults matter in most scenarios, so it is explicit.
func CreateTestUser(db *gorm.DB, email, password string, role models.Role, status models.UserStatus) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        utils.NormalizeEmail(email),
		Name:         "Test User",
		PasswordHash: &hashedPassword,
		Role:         role,
		Status:       status,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateTestAdmin inserts an approved admin account.
func CreateTestAdmin(db *gorm.DB, email, password string) (*models.User, error) {
	return CreateTestUser(db, email, password, models.RoleAdmin, models.StatusApproved)
}

// CreateTestRoom inserts a room and returns the model.
func CreateTestRoom(db *gorm.DB, name, icon string) (*models.Room, error) {
	room := &models.Room{
		ID:   uuid.New(),
		Name: name,
		Icon: icon,
	}
	if err := db.Create(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

// CreateTestEvent inserts an active event in the given room.
func CreateTestEvent(db *gorm.DB, roomID, createdByID uuid.UUID, title string, start, end time.Time) (*models.Event, error) {
	event := &models.Event{
		ID:          uuid.New(),
		Title:       title,
		StartTime:   start,
		EndTime:     end,
		RoomID:      roomID,
		CreatedByID: createdByID,
		Status:      models.EventActive,
		Type:        models.EventTypePhd,
	}
	if err := db.Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

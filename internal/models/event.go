package models

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventActive    EventStatus = "ACTIVE"
	EventCancelled EventStatus = "CANCELLED"
)

type EventType string

const (
	EventTypePhd    EventType = "PHD"
	EventTypeThesis EventType = "THESIS"
	EventTypeOther  EventType = "OTHER"
)

// ValidEventType reports whether t is one of the known event types.
func ValidEventType(t EventType) bool {
	switch t {
	case EventTypePhd, EventTypeThesis, EventTypeOther:
		return true
	}
	return false
}

// Event is a reserved time window against a Room. Cancelling keeps the
// row (status flip); only the admin hard-delete removes it.
type Event struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string      `gorm:"type:varchar(200);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description,omitempty"`
	Color       string      `gorm:"type:varchar(32)" json:"color,omitempty"`
	StartTime   time.Time   `gorm:"not null;index" json:"start_time"`
	EndTime     time.Time   `gorm:"not null" json:"end_time"`
	RoomID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"room_id"`
	CreatedByID uuid.UUID   `gorm:"type:uuid;not null;index" json:"created_by_id"`
	Status      EventStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	Type        EventType   `gorm:"type:varchar(20);not null;default:'OTHER'" json:"type"`
	// Required exactly when Type == OTHER, cleared otherwise.
	TypeOtherName string    `gorm:"type:varchar(100)" json:"type_other_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Room      Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
}

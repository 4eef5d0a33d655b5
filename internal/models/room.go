package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is a bookable room. Append-only reference data, created by seed
// or the admin catalog endpoint.
type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Icon      string    `gorm:"type:varchar(50)" json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalDecision string

const (
	DecisionApprove ApprovalDecision = "APPROVE"
	DecisionReject  ApprovalDecision = "REJECT"
	DecisionDelete  ApprovalDecision = "DELETE"
	DecisionRestore ApprovalDecision = "RESTORE"
)

// UserApproval is the audit record written in the same transaction as
// every status-changing admin action on a user. Immutable once created.
type UserApproval struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	AdminID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"admin_id"`
	Decision  ApprovalDecision `gorm:"type:varchar(20);not null" json:"decision"`
	Reason    string           `gorm:"type:text" json:"reason"`
	CreatedAt time.Time        `json:"created_at"`
}

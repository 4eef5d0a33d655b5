package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/audit"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrUserNotDeleted rejects restore on an account that is not
	// currently soft-deleted.
	ErrUserNotDeleted = errors.New("user is not deleted")
)

// Default reasons recorded when the admin does not supply one.
const (
	defaultApproveReason = "Approved by admin"
	defaultRejectReason  = "Rejected by admin"
	defaultDeleteReason  = "Soft-deleted by admin"
	defaultRestoreReason = "Restored by admin"
)

// ModerationService owns the user status state machine:
// PENDING -> APPROVED (approve), PENDING|APPROVED -> SUSPENDED (reject),
// any live account -> deleted+SUSPENDED (soft delete), deleted ->
// APPROVED (restore). Nothing transitions back to PENDING.
type ModerationService struct {
	userRepo *repository.UserRepository
	auditLog *audit.Log
}

func NewModerationService(userRepo *repository.UserRepository, auditLog *audit.Log) *ModerationService {
	return &ModerationService{
		userRepo: userRepo,
		auditLog: auditLog,
	}
}

// ListUsers returns every account, soft-deleted ones included, for the
// admin user list.
func (s *ModerationService) ListUsers() ([]*models.User, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		logger.Log.Error("Failed to fetch users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// Approve moves the user to APPROVED and clears any soft-delete mark.
func (s *ModerationService) Approve(adminID, userID uuid.UUID) error {
	return s.apply(adminID, userID, models.DecisionApprove, defaultApproveReason,
		func() error { return s.userRepo.Approve(userID, adminID, defaultApproveReason) })
}

// Reject suspends the user with the given reason.
func (s *ModerationService) Reject(adminID, userID uuid.UUID, reason string) error {
	if reason == "" {
		reason = defaultRejectReason
	}
	return s.apply(adminID, userID, models.DecisionReject, reason,
		func() error { return s.userRepo.Reject(userID, adminID, reason) })
}

// SoftDelete marks the account deleted and suspended; restorable.
func (s *ModerationService) SoftDelete(adminID, userID uuid.UUID) error {
	return s.apply(adminID, userID, models.DecisionDelete, defaultDeleteReason,
		func() error { return s.userRepo.SoftDelete(userID, adminID, defaultDeleteReason) })
}

// Restore clears the soft-delete mark and re-approves. Fails with
// ErrUserNotDeleted when the target is not deleted.
func (s *ModerationService) Restore(adminID, userID uuid.UUID) error {
	return s.apply(adminID, userID, models.DecisionRestore, defaultRestoreReason,
		func() error { return s.userRepo.Restore(userID, adminID, defaultRestoreReason) })
}

// apply runs one moderation mutation (state change + approval row in a
// single transaction inside the repository) and, on success, appends
// the decision to the file audit log. The file log is best-effort; a
// write failure is logged but does not undo the committed decision.
func (s *ModerationService) apply(adminID, userID uuid.UUID, decision models.ApprovalDecision, reason string, mutate func() error) error {
	logger.Log.Info("Applying moderation decision",
		zap.String("admin_id", adminID.String()),
		zap.String("user_id", userID.String()),
		zap.String("decision", string(decision)),
	)

	if err := mutate(); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if errors.Is(err, repository.ErrNotDeleted) {
			return ErrUserNotDeleted
		}
		logger.Log.Error("Moderation decision failed",
			zap.String("user_id", userID.String()),
			zap.String("decision", string(decision)),
			zap.Error(err),
		)
		return err
	}

	if s.auditLog != nil {
		entry := audit.Entry{
			UserID:    userID.String(),
			AdminID:   adminID.String(),
			Decision:  string(decision),
			Reason:    reason,
			Timestamp: time.Now(),
		}
		if err := s.auditLog.Record(entry); err != nil {
			logger.Log.Error("Failed to append audit log entry",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}

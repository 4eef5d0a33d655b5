package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/models"
	"gorm.io/gorm"
)

// ErrNotDeleted is returned by Restore when the target user is not
// currently soft-deleted.
var ErrNotDeleted = errors.New("user is not deleted")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByEmail looks a user up by already-normalized email. Includes
// soft-deleted rows so signup cannot reuse a deleted account's email
// and OAuth cannot resurrect one silently.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Unscoped().Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByID resolves an id through the default scope, so soft-deleted
// accounts come back as absent. The access guard depends on this: a
// deleted account's still-valid token must not resolve to a caller.
func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) UpdateName(id uuid.UUID, name string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("name", name).Error
}

// GetAllUsers returns all users including soft-deleted ones, newest first.
func (r *UserRepository) GetAllUsers() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Unscoped().Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Approve sets the user APPROVED and clears any soft-delete mark,
// writing the audit row in the same transaction.
func (r *UserRepository) Approve(userID, adminID uuid.UUID, reason string) error {
	return r.moderate(userID, adminID, models.DecisionApprove, reason, map[string]interface{}{
		"status":     models.StatusApproved,
		"deleted_at": nil,
	})
}

// Reject suspends the user, writing the audit row in the same transaction.
func (r *UserRepository) Reject(userID, adminID uuid.UUID, reason string) error {
	return r.moderate(userID, adminID, models.DecisionReject, reason, map[string]interface{}{
		"status": models.StatusSuspended,
	})
}

// SoftDelete marks the user deleted and suspended, writing the audit
// row in the same transaction.
func (r *UserRepository) SoftDelete(userID, adminID uuid.UUID, reason string) error {
	return r.moderate(userID, adminID, models.DecisionDelete, reason, map[string]interface{}{
		"status":     models.StatusSuspended,
		"deleted_at": time.Now(),
	})
}

// Restore clears the soft-delete mark and re-approves the user. Fails
// with ErrNotDeleted when the target is not currently deleted, without
// writing an audit row.
func (r *UserRepository) Restore(userID, adminID uuid.UUID, reason string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Unscoped().Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}
		if !user.DeletedAt.Valid {
			return ErrNotDeleted
		}

		updates := map[string]interface{}{
			"status":     models.StatusApproved,
			"deleted_at": nil,
		}
		if err := tx.Unscoped().Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return err
		}

		approval := &models.UserApproval{
			ID:       uuid.New(),
			UserID:   userID,
			AdminID:  adminID,
			Decision: models.DecisionRestore,
			Reason:   reason,
		}
		return tx.Create(approval).Error
	})
}

// GetApprovals returns the audit records for a user, oldest first.
func (r *UserRepository) GetApprovals(userID uuid.UUID) ([]*models.UserApproval, error) {
	var approvals []*models.UserApproval
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&approvals).Error
	if err != nil {
		return nil, err
	}
	return approvals, nil
}

// moderate applies a status change and its audit record atomically:
// both succeed or both fail.
func (r *UserRepository) moderate(userID, adminID uuid.UUID, decision models.ApprovalDecision, reason string, updates map[string]interface{}) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Unscoped().Where("id = ?", userID).First(&user).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return err
		}

		approval := &models.UserApproval{
			ID:       uuid.New(),
			UserID:   userID,
			AdminID:  adminID,
			Decision: decision,
			Reason:   reason,
		}
		return tx.Create(approval).Error
	})
}

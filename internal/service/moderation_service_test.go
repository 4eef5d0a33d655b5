package service_test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/audit"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/internal/service"
	"github.com/roomkit/roombook/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ModerationServiceTestSuite struct {
	suite.Suite
	testDB            *testutil.TestDatabase
	userRepo          *repository.UserRepository
	auditLog          *audit.Log
	moderationService *service.ModerationService
	admin             *models.User
}

func (s *ModerationServiceTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.userRepo = repository.NewUserRepository(s.testDB.DB)

	auditLog, err := audit.Open(filepath.Join(s.T().TempDir(), "moderation.log"))
	s.Require().NoError(err)
	s.auditLog = auditLog

	s.moderationService = service.NewModerationService(s.userRepo, s.auditLog)
}

func (s *ModerationServiceTestSuite) TearDownSuite() {
	s.auditLog.Close()
	s.testDB.Teardown(s.T())
}

func (s *ModerationServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	admin, err := testutil.CreateTestAdmin(s.testDB.DB, "admin@example.com", "Admin123456")
	s.Require().NoError(err)
	s.admin = admin
}

func (s *ModerationServiceTestSuite) pendingUser() *models.User {
	user, err := testutil.CreateTestUser(s.testDB.DB, "user@example.com", "Password123", models.RoleUser, models.StatusPending)
	s.Require().NoError(err)
	return user
}

func (s *ModerationServiceTestSuite) reload(id uuid.UUID) *models.User {
	var user models.User
	err := s.testDB.DB.Unscoped().Where("id = ?", id).First(&user).Error
	s.Require().NoError(err)
	return &user
}

func (s *ModerationServiceTestSuite) TestApprove() {
	user := s.pendingUser()

	err := s.moderationService.Approve(s.admin.ID, user.ID)

	s.Require().NoError(err)
	s.Equal(models.StatusApproved, s.reload(user.ID).Status)
}

func (s *ModerationServiceTestSuite) TestApprove_WritesApprovalRow() {
	user := s.pendingUser()

	s.Require().NoError(s.moderationService.Approve(s.admin.ID, user.ID))

	approvals, err := s.userRepo.GetApprovals(user.ID)
	s.Require().NoError(err)
	s.Require().Len(approvals, 1, "Every decision writes its audit row")
	s.Equal(models.DecisionApprove, approvals[0].Decision)
	s.Equal(s.admin.ID, approvals[0].AdminID)
}

func (s *ModerationServiceTestSuite) TestApprove_WritesFileAuditEntry() {
	user := s.pendingUser()

	s.Require().NoError(s.moderationService.Approve(s.admin.ID, user.ID))

	entries, err := s.auditLog.ReadAll()
	s.Require().NoError(err)
	s.Require().NotEmpty(entries)
	last := entries[len(entries)-1]
	s.Equal(user.ID.String(), last.UserID)
	s.Equal("APPROVE", last.Decision)
}

func (s *ModerationServiceTestSuite) TestReject_DefaultReason() {
	user := s.pendingUser()

	s.Require().NoError(s.moderationService.Reject(s.admin.ID, user.ID, ""))

	s.Equal(models.StatusSuspended, s.reload(user.ID).Status)

	approvals, err := s.userRepo.GetApprovals(user.ID)
	s.Require().NoError(err)
	s.Require().Len(approvals, 1)
	s.Equal("Rejected by admin", approvals[0].Reason)
}

func (s *ModerationServiceTestSuite) TestReject_CustomReason() {
	user := s.pendingUser()

	s.Require().NoError(s.moderationService.Reject(s.admin.ID, user.ID, "Unverifiable affiliation"))

	approvals, err := s.userRepo.GetApprovals(user.ID)
	s.Require().NoError(err)
	s.Require().Len(approvals, 1)
	s.Equal("Unverifiable affiliation", approvals[0].Reason)
}

func (s *ModerationServiceTestSuite) TestSoftDeleteAndRestore() {
	user := s.pendingUser()

	s.Require().NoError(s.moderationService.SoftDelete(s.admin.ID, user.ID))

	deleted := s.reload(user.ID)
	s.True(deleted.IsDeleted())
	s.Equal(models.StatusSuspended, deleted.Status)

	s.Require().NoError(s.moderationService.Restore(s.admin.ID, user.ID))

	restored := s.reload(user.ID)
	s.False(restored.IsDeleted())
	s.Equal(models.StatusApproved, restored.Status, "Restore re-approves, never back to PENDING")
}

func (s *ModerationServiceTestSuite) TestRestore_NotDeletedConflict() {
	user := s.pendingUser()

	err := s.moderationService.Restore(s.admin.ID, user.ID)

	s.ErrorIs(err, service.ErrUserNotDeleted)

	approvals, repoErr := s.userRepo.GetApprovals(user.ID)
	s.Require().NoError(repoErr)
	s.Empty(approvals, "A rejected restore writes no audit row")
}

func (s *ModerationServiceTestSuite) TestUnknownUser() {
	err := s.moderationService.Approve(s.admin.ID, uuid.New())

	s.ErrorIs(err, service.ErrUserNotFound)
}

func (s *ModerationServiceTestSuite) TestListUsers_IncludesSoftDeleted() {
	user := s.pendingUser()
	s.Require().NoError(s.moderationService.SoftDelete(s.admin.ID, user.ID))

	users, err := s.moderationService.ListUsers()

	s.Require().NoError(err)
	s.Len(users, 2, "Admin listing keeps soft-deleted accounts visible")
}

func TestModerationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ModerationServiceTestSuite))
}

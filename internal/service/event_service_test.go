package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/internal/service"
	"github.com/roomkit/roombook/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type EventServiceTestSuite struct {
	suite.Suite
	testDB       *testutil.TestDatabase
	eventRepo    *repository.EventRepository
	eventService *service.EventService
	room         *models.Room
	approved     *models.User
	pending      *models.User
	admin        *models.User
}

func (s *EventServiceTestSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.eventRepo = repository.NewEventRepository(s.testDB.DB)
	roomRepo := repository.NewRoomRepository(s.testDB.DB)
	s.eventService = service.NewEventService(s.eventRepo, roomRepo, nil, false)
}

func (s *EventServiceTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *EventServiceTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	var err error
	s.room, err = testutil.CreateTestRoom(s.testDB.DB, "Physics", "Atom")
	s.Require().NoError(err)

	s.approved, err = testutil.CreateTestUser(s.testDB.DB, "approved@example.com", "Password123", models.RoleUser, models.StatusApproved)
	s.Require().NoError(err)
	s.pending, err = testutil.CreateTestUser(s.testDB.DB, "pending@example.com", "Password123", models.RoleUser, models.StatusPending)
	s.Require().NoError(err)
	s.admin, err = testutil.CreateTestAdmin(s.testDB.DB, "admin@example.com", "Admin123456")
	s.Require().NoError(err)
}

func (s *EventServiceTestSuite) createInput() service.CreateEventInput {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return service.CreateEventInput{
		Title:     "PhD defense",
		RoomID:    s.room.ID,
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Type:      models.EventTypePhd,
	}
}

func (s *EventServiceTestSuite) TestCreate_Success() {
	event, err := s.eventService.Create(s.approved, s.createInput())

	s.Require().NoError(err)
	s.Equal(models.EventActive, event.Status)
	s.Equal(s.approved.ID, event.CreatedByID)
}

func (s *EventServiceTestSuite) TestCreate_PendingUserBlocked() {
	_, err := s.eventService.Create(s.pending, s.createInput())

	s.ErrorIs(err, service.ErrNotApproved, "Approval gates booking, not login")
}

func (s *EventServiceTestSuite) TestCreate_AdminAlwaysAllowed() {
	_, err := s.eventService.Create(s.admin, s.createInput())

	s.NoError(err)
}

func (s *EventServiceTestSuite) TestCreate_WindowValidation() {
	input := s.createInput()
	input.EndTime = input.StartTime

	_, err := s.eventService.Create(s.approved, input)
	s.ErrorIs(err, service.ErrEndBeforeStart, "Zero-length windows are rejected")

	input.EndTime = input.StartTime.Add(-time.Hour)
	_, err = s.eventService.Create(s.approved, input)
	s.ErrorIs(err, service.ErrEndBeforeStart)
}

func (s *EventServiceTestSuite) TestCreate_TypeRules() {
	s.Run("other_requires_name", func() {
		input := s.createInput()
		input.Type = models.EventTypeOther

		_, err := s.eventService.Create(s.approved, input)
		s.ErrorIs(err, service.ErrOtherNameRequired)
	})

	s.Run("other_with_name", func() {
		input := s.createInput()
		input.Type = models.EventTypeOther
		input.TypeOtherName = "Lab meeting"

		event, err := s.eventService.Create(s.approved, input)
		s.Require().NoError(err)
		s.Equal("Lab meeting", event.TypeOtherName)
	})

	s.Run("non_other_clears_name", func() {
		input := s.createInput()
		input.TypeOtherName = "Leftover label"

		event, err := s.eventService.Create(s.approved, input)
		s.Require().NoError(err)
		s.Empty(event.TypeOtherName)
	})

	s.Run("unknown_type", func() {
		input := s.createInput()
		input.Type = "WORKSHOP"

		_, err := s.eventService.Create(s.approved, input)
		s.ErrorIs(err, service.ErrInvalidEventType)
	})
}

func (s *EventServiceTestSuite) TestCreate_UnknownRoom() {
	input := s.createInput()
	input.RoomID = uuid.New()

	_, err := s.eventService.Create(s.approved, input)

	s.ErrorIs(err, service.ErrRoomNotFound)
}

func (s *EventServiceTestSuite) TestCreate_ExclusiveBookings() {
	roomRepo := repository.NewRoomRepository(s.testDB.DB)
	exclusive := service.NewEventService(s.eventRepo, roomRepo, nil, true)

	_, err := exclusive.Create(s.approved, s.createInput())
	s.Require().NoError(err)

	s.Run("overlap_rejected", func() {
		input := s.createInput()
		input.StartTime = input.StartTime.Add(30 * time.Minute)
		input.EndTime = input.EndTime.Add(30 * time.Minute)

		_, err := exclusive.Create(s.approved, input)
		s.ErrorIs(err, service.ErrSlotTaken)
	})

	s.Run("back_to_back_allowed", func() {
		input := s.createInput()
		input.StartTime = input.EndTime
		input.EndTime = input.EndTime.Add(time.Hour)

		_, err := exclusive.Create(s.approved, input)
		s.NoError(err)
	})

	s.Run("cancelled_does_not_hold_slot", func() {
		first, err := s.eventService.List(repository.EventFilter{}, "")
		s.Require().NoError(err)
		s.Require().NotEmpty(first)
		s.Require().NoError(exclusive.Cancel(s.admin.ID, first[0].ID))

		input := s.createInput()
		input.StartTime = first[0].StartTime
		input.EndTime = first[0].EndTime

		_, err = exclusive.Create(s.approved, input)
		s.NoError(err)
	})
}

func (s *EventServiceTestSuite) TestList_UnknownRoomNameDegradesToEmpty() {
	_, err := s.eventService.Create(s.approved, s.createInput())
	s.Require().NoError(err)

	events, err := s.eventService.List(repository.EventFilter{}, "No Such Room")

	s.Require().NoError(err, "The read path degrades, it never errors on a bad room name")
	s.Empty(events)
}

func (s *EventServiceTestSuite) TestList_ByRoomName() {
	_, err := s.eventService.Create(s.approved, s.createInput())
	s.Require().NoError(err)

	events, err := s.eventService.List(repository.EventFilter{}, "Physics")

	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *EventServiceTestSuite) TestUpdate_MergedWindowValidation() {
	event, err := s.eventService.Create(s.approved, s.createInput())
	s.Require().NoError(err)

	// Moving only the end before the existing start must fail
	badEnd := event.StartTime.Add(-time.Hour)
	_, err = s.eventService.Update(s.approved, event.ID, service.UpdateEventInput{EndTime: &badEnd})
	s.ErrorIs(err, service.ErrEndBeforeStart,
		"The invariant is checked against the effective merged bounds")

	// Moving both sides together is fine
	newStart := event.StartTime.Add(24 * time.Hour)
	newEnd := event.EndTime.Add(24 * time.Hour)
	updated, err := s.eventService.Update(s.approved, event.ID, service.UpdateEventInput{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	s.Require().NoError(err)
	s.True(updated.StartTime.Equal(newStart))
}

func (s *EventServiceTestSuite) TestUpdate_CreatorOrAdminOnly() {
	event, err := s.eventService.Create(s.approved, s.createInput())
	s.Require().NoError(err)

	other, err := testutil.CreateTestUser(s.testDB.DB, "other@example.com", "Password123", models.RoleUser, models.StatusApproved)
	s.Require().NoError(err)

	title := "Hijacked"
	_, err = s.eventService.Update(other, event.ID, service.UpdateEventInput{Title: &title})
	s.ErrorIs(err, service.ErrNotOwner)

	_, err = s.eventService.Update(s.admin, event.ID, service.UpdateEventInput{Title: &title})
	s.NoError(err, "Admins may edit any event")
}

func (s *EventServiceTestSuite) TestUpdate_TypeChangeToOtherRequiresName() {
	event, err := s.eventService.Create(s.approved, s.createInput())
	s.Require().NoError(err)

	other := models.EventTypeOther
	_, err = s.eventService.Update(s.approved, event.ID, service.UpdateEventInput{Type: &other})
	s.ErrorIs(err, service.ErrOtherNameRequired)

	name := "Reading group"
	updated, err := s.eventService.Update(s.approved, event.ID, service.UpdateEventInput{
		Type:          &other,
		TypeOtherName: &name,
	})
	s.Require().NoError(err)
	s.Equal("Reading group", updated.TypeOtherName)
}

func (s *EventServiceTestSuite) TestCancelAndRestore() {
	event, err := s.eventService.Create(s.approved, s.createInput())
	s.Require().NoError(err)

	s.Require().NoError(s.eventService.Cancel(s.admin.ID, event.ID))

	reloaded, err := s.eventRepo.GetEventByID(event.ID)
	s.Require().NoError(err)
	s.Equal(models.EventCancelled, reloaded.Status, "Cancelling keeps the row")

	// Idempotent
	s.NoError(s.eventService.Cancel(s.admin.ID, event.ID))

	s.Require().NoError(s.eventService.Restore(s.admin.ID, event.ID))
	reloaded, err = s.eventRepo.GetEventByID(event.ID)
	s.Require().NoError(err)
	s.Equal(models.EventActive, reloaded.Status)
}

func (s *EventServiceTestSuite) TestHardDelete() {
	event, err := s.eventService.Create(s.approved, s.createInput())
	s.Require().NoError(err)

	s.Require().NoError(s.eventService.HardDelete(s.admin.ID, event.ID))

	reloaded, err := s.eventRepo.GetEventByID(event.ID)
	s.Require().NoError(err)
	s.Nil(reloaded, "Hard delete removes the row entirely")

	s.ErrorIs(s.eventService.HardDelete(s.admin.ID, event.ID), service.ErrEventNotFound)
}

func (s *EventServiceTestSuite) TestSearch() {
	input := s.createInput()
	input.Title = "Thesis defense rehearsal"
	input.Description = "Final run-through"
	_, err := s.eventService.Create(s.approved, input)
	s.Require().NoError(err)

	events, err := s.eventService.Search("rehearsal", nil, 50)
	s.Require().NoError(err)
	s.Len(events, 1)

	events, err = s.eventService.Search("nonexistent", nil, 50)
	s.Require().NoError(err)
	s.Empty(events)
}

func TestEventServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EventServiceTestSuite))
}

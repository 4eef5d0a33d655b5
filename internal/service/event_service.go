package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/broker"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrEndBeforeStart    = errors.New("end must be after start")
	ErrInvalidEventType  = errors.New("invalid event type")
	ErrOtherNameRequired = errors.New("type name is required for type OTHER")
	ErrNotApproved       = errors.New("account pending approval")
	ErrNotOwner          = errors.New("only the creator or an admin may modify this event")
	ErrSlotTaken         = errors.New("time slot is already booked")
)

// CreateEventInput is the canonical create contract; both wire shapes
// (ISO timestamps and date + HH:mm pairs) normalize into it before the
// service is called.
type CreateEventInput struct {
	Title         string
	Description   string
	Color         string
	RoomID        uuid.UUID
	StartTime     time.Time
	EndTime       time.Time
	Type          models.EventType
	TypeOtherName string
}

// UpdateEventInput carries partial fields; nil means "leave unchanged".
type UpdateEventInput struct {
	Title         *string
	Description   *string
	Color         *string
	StartTime     *time.Time
	EndTime       *time.Time
	Type          *models.EventType
	TypeOtherName *string
}

type EventService struct {
	eventRepo *repository.EventRepository
	roomRepo  *repository.RoomRepository
	broker    broker.Broker
	exclusive bool
}

func NewEventService(eventRepo *repository.EventRepository, roomRepo *repository.RoomRepository, b broker.Broker, exclusive bool) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		roomRepo:  roomRepo,
		broker:    b,
		exclusive: exclusive,
	}
}

// List returns events matching the filter. Room resolution failures
// surface as an empty list, never an error: the read path degrades
// gracefully.
func (s *EventService) List(filter repository.EventFilter, roomName string) ([]*models.Event, error) {
	if filter.RoomID == nil && roomName != "" {
		room, err := s.roomRepo.GetRoomByName(roomName)
		if err != nil {
			logger.Log.Error("Failed to resolve room name",
				zap.String("room_name", roomName),
				zap.Error(err),
			)
			return nil, err
		}
		if room == nil {
			return []*models.Event{}, nil
		}
		filter.RoomID = &room.ID
	}

	events, err := s.eventRepo.ListEvents(filter)
	if err != nil {
		logger.Log.Error("Failed to list events", zap.Error(err))
		return nil, err
	}
	return events, nil
}

// Search is the admin listing with free-text matching.
func (s *EventService) Search(q string, roomID *uuid.UUID, limit int) ([]*models.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.eventRepo.SearchEvents(q, roomID, limit)
}

// Create books a room for the caller. The caller must be approved or an
// admin; the window must be non-empty; OTHER events must carry a name.
func (s *EventService) Create(caller *models.User, input CreateEventInput) (*models.Event, error) {
	if !caller.CanCreateEvents() {
		logger.Log.Warn("Event creation blocked for unapproved account",
			zap.String("user_id", caller.ID.String()),
			zap.String("status", string(caller.Status)),
		)
		return nil, ErrNotApproved
	}

	if err := validateWindow(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	typ, otherName, err := normalizeType(input.Type, input.TypeOtherName)
	if err != nil {
		return nil, err
	}

	room, err := s.roomRepo.GetRoomByID(input.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	event := &models.Event{
		ID:            uuid.New(),
		Title:         input.Title,
		Description:   input.Description,
		Color:         input.Color,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		RoomID:        input.RoomID,
		CreatedByID:   caller.ID,
		Status:        models.EventActive,
		Type:          typ,
		TypeOtherName: otherName,
	}

	if s.exclusive {
		err = s.eventRepo.CreateEventExclusive(event)
	} else {
		err = s.eventRepo.CreateEvent(event)
	}
	if err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			logger.Log.Warn("Booking rejected: slot taken",
				zap.String("room_id", input.RoomID.String()),
				zap.Time("start", input.StartTime),
			)
			return nil, ErrSlotTaken
		}
		logger.Log.Error("Failed to create event", zap.Error(err))
		return nil, err
	}

	logger.Log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("room_id", event.RoomID.String()),
		zap.String("created_by", caller.ID.String()),
	)

	s.notify("created", event)
	return event, nil
}

// Update applies partial changes. The end-after-start invariant is
// re-checked against the effective bounds: existing values fill in for
// whichever side the caller did not supply. Only the creator or an
// admin may update.
func (s *EventService) Update(caller *models.User, eventID uuid.UUID, input UpdateEventInput) (*models.Event, error) {
	event, err := s.eventRepo.GetEventByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if caller.Role != models.RoleAdmin && event.CreatedByID != caller.ID {
		return nil, ErrNotOwner
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Color != nil {
		event.Color = *input.Color
	}
	if input.StartTime != nil {
		event.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		event.EndTime = *input.EndTime
	}

	if err := validateWindow(event.StartTime, event.EndTime); err != nil {
		return nil, err
	}

	if input.Type != nil {
		other := event.TypeOtherName
		if input.TypeOtherName != nil {
			other = *input.TypeOtherName
		}
		typ, otherName, err := normalizeType(*input.Type, other)
		if err != nil {
			return nil, err
		}
		event.Type = typ
		event.TypeOtherName = otherName
	} else if input.TypeOtherName != nil {
		if event.Type == models.EventTypeOther && *input.TypeOtherName == "" {
			return nil, ErrOtherNameRequired
		}
		if event.Type == models.EventTypeOther {
			event.TypeOtherName = *input.TypeOtherName
		}
	}

	if err := s.eventRepo.SaveEvent(event); err != nil {
		logger.Log.Error("Failed to update event",
			zap.String("event_id", eventID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Event updated",
		zap.String("event_id", eventID.String()),
		zap.String("updated_by", caller.ID.String()),
	)

	s.notify("updated", event)
	return event, nil
}

// Cancel flips the event to CANCELLED without removing it. Cancelling
// an already-cancelled event simply re-applies.
func (s *EventService) Cancel(adminID, eventID uuid.UUID) error {
	return s.setStatus(adminID, eventID, models.EventCancelled, "cancelled")
}

// Restore flips a cancelled event back to ACTIVE.
func (s *EventService) Restore(adminID, eventID uuid.UUID) error {
	return s.setStatus(adminID, eventID, models.EventActive, "restored")
}

// HardDelete removes the event row entirely. Admin moderation only;
// irreversible.
func (s *EventService) HardDelete(adminID, eventID uuid.UUID) error {
	event, err := s.eventRepo.GetEventByID(eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}

	if err := s.eventRepo.DeleteEvent(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		logger.Log.Error("Failed to delete event",
			zap.String("event_id", eventID.String()),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Event deleted",
		zap.String("event_id", eventID.String()),
		zap.String("admin_id", adminID.String()),
	)

	s.notify("deleted", event)
	return nil
}

func (s *EventService) setStatus(adminID, eventID uuid.UUID, status models.EventStatus, action string) error {
	event, err := s.eventRepo.GetEventByID(eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return ErrEventNotFound
	}

	if err := s.eventRepo.UpdateEventStatus(eventID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		logger.Log.Error("Failed to change event status",
			zap.String("event_id", eventID.String()),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Event status changed",
		zap.String("event_id", eventID.String()),
		zap.String("status", string(status)),
		zap.String("admin_id", adminID.String()),
	)

	event.Status = status
	s.notify(action, event)
	return nil
}

// notify publishes a change notice for live calendar clients. Failures
// are logged and swallowed: the mutation already committed and the
// clients reconcile on their next refetch anyway.
func (s *EventService) notify(action string, event *models.Event) {
	if s.broker == nil {
		return
	}
	notice := broker.EventNotice{
		Action:     action,
		EventID:    event.ID.String(),
		RoomID:     event.RoomID.String(),
		OccurredAt: time.Now(),
	}
	if err := s.broker.Publish(notice); err != nil {
		logger.Log.Error("Failed to publish event notice",
			zap.String("event_id", event.ID.String()),
			zap.Error(err),
		)
	}
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrEndBeforeStart
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	return nil
}

// normalizeType validates the type enum and enforces the OTHER naming
// rule: the label is required exactly for OTHER and cleared otherwise.
func normalizeType(typ models.EventType, otherName string) (models.EventType, string, error) {
	if !models.ValidEventType(typ) {
		return "", "", ErrInvalidEventType
	}
	if typ == models.EventTypeOther {
		if otherName == "" {
			return "", "", ErrOtherNameRequired
		}
		return typ, otherName, nil
	}
	return typ, "", nil
}

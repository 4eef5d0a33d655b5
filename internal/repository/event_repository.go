package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/models"
	"gorm.io/gorm"
)

// ErrOverlap is returned by CreateEventExclusive when the requested
// window intersects an active event in the same room.
var ErrOverlap = errors.New("time slot is already booked")

// EventFilter narrows ListEvents. From/To are inclusive bounds on
// start_time/end_time respectively.
type EventFilter struct {
	RoomID *uuid.UUID
	From   *time.Time
	To     *time.Time
	Status *models.EventStatus
	Type   *models.EventType
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) CreateEvent(event *models.Event) error {
	return r.db.Create(event).Error
}

// CreateEventExclusive creates the event only if no active event in the
// same room overlaps its window. The check and the insert share one
// transaction so concurrent bookings cannot both pass.
func (r *EventRepository) CreateEventExclusive(event *models.Event) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Event{}).
			Where("room_id = ? AND status = ?", event.RoomID, models.EventActive).
			Where("start_time < ? AND end_time > ?", event.EndTime, event.StartTime).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrOverlap
		}
		return tx.Create(event).Error
	})
}

func (r *EventRepository) GetEventByID(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// ListEvents returns events matching the filter ordered by start time.
func (r *EventRepository) ListEvents(filter EventFilter) ([]*models.Event, error) {
	query := r.db.Model(&models.Event{})

	if filter.RoomID != nil {
		query = query.Where("room_id = ?", *filter.RoomID)
	}
	if filter.From != nil {
		query = query.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("end_time <= ?", *filter.To)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var events []*models.Event
	err := query.Order("start_time ASC").Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// SearchEvents is the admin listing: free-text match on title or
// description, optional room filter, newest first, capped at limit.
func (r *EventRepository) SearchEvents(q string, roomID *uuid.UUID, limit int) ([]*models.Event, error) {
	query := r.db.Model(&models.Event{})

	if roomID != nil {
		query = query.Where("room_id = ?", *roomID)
	}
	if q != "" {
		pattern := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var events []*models.Event
	err := query.Order("start_time DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) SaveEvent(event *models.Event) error {
	return r.db.Save(event).Error
}

// UpdateEventStatus flips the status of an existing event. Returns
// gorm.ErrRecordNotFound for an unknown id.
func (r *EventRepository) UpdateEventStatus(id uuid.UUID, status models.EventStatus) error {
	result := r.db.Model(&models.Event{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteEvent removes the row entirely. Irreversible.
func (r *EventRepository) DeleteEvent(id uuid.UUID) error {
	result := r.db.Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

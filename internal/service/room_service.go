package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrRoomNameRequired = errors.New("room name is required")
	ErrRoomNameTaken    = errors.New("room name already exists")
)

type RoomService struct {
	roomRepo *repository.RoomRepository
}

func NewRoomService(roomRepo *repository.RoomRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo}
}

// List returns the catalog ordered by name.
func (s *RoomService) List() ([]*models.Room, error) {
	rooms, err := s.roomRepo.ListRooms()
	if err != nil {
		logger.Log.Error("Failed to list rooms", zap.Error(err))
		return nil, err
	}
	return rooms, nil
}

// Create adds a room to the catalog. Names are unique.
func (s *RoomService) Create(name, icon string) (*models.Room, error) {
	if name == "" {
		return nil, ErrRoomNameRequired
	}

	existing, err := s.roomRepo.GetRoomByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRoomNameTaken
	}

	room := &models.Room{
		ID:   uuid.New(),
		Name: name,
		Icon: icon,
	}
	if err := s.roomRepo.CreateRoom(room); err != nil {
		logger.Log.Error("Failed to create room",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Room created", zap.String("name", name))
	return room, nil
}

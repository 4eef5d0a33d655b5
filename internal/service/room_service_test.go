package service_test

import (
	"testing"

	"github.com/roomkit/roombook/internal/repository"
	"github.com/roomkit/roombook/internal/service"
	"github.com/roomkit/roombook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoomService(t *testing.T) *service.RoomService {
	testDB := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { testDB.Teardown(t) })
	testutil.CleanDatabase(t, testDB.DB)

	return service.NewRoomService(repository.NewRoomRepository(testDB.DB))
}

func TestRoomService_CreateAndList(t *testing.T) {
	roomService := setupRoomService(t)

	_, err := roomService.Create("Physics", "Atom")
	require.NoError(t, err)
	_, err = roomService.Create("Biology", "Microscope")
	require.NoError(t, err)

	rooms, err := roomService.List()
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Biology", rooms[0].Name, "Catalog is alphabetical")
	assert.Equal(t, "Physics", rooms[1].Name)
}

func TestRoomService_NameRequired(t *testing.T) {
	roomService := setupRoomService(t)

	_, err := roomService.Create("", "Atom")

	assert.ErrorIs(t, err, service.ErrRoomNameRequired)
}

func TestRoomService_DuplicateName(t *testing.T) {
	roomService := setupRoomService(t)

	_, err := roomService.Create("Physics", "Atom")
	require.NoError(t, err)

	_, err = roomService.Create("Physics", "FlaskConical")

	assert.ErrorIs(t, err, service.ErrRoomNameTaken)
}

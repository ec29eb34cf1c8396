package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/repository"
)

func TestCreateRoomQuota(t *testing.T) {
	f := newFixture(t, 4)
	svc := NewRoomService(f.store)
	ctx := context.Background()

	// 4 of the hotel's 10 units are already allocated by the fixture room.
	_, err := svc.CreateRoom(ctx, f.owner.ID, f.hotel.ID, CreateRoomInput{
		Name:     "Penthouse",
		Price:    900,
		Quantity: 7,
	})
	assert.ErrorIs(t, err, domain.ErrRoomQuotaExceeded)

	room, err := svc.CreateRoom(ctx, f.owner.ID, f.hotel.ID, CreateRoomInput{
		Name:     "Penthouse",
		Price:    900,
		Quantity: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, room.Quantity)

	// The quota is now exhausted.
	_, err = svc.CreateRoom(ctx, f.owner.ID, f.hotel.ID, CreateRoomInput{
		Name:     "Closet",
		Price:    10,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrRoomQuotaExceeded)
}

func TestCreateRoomOwnershipAndValidation(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewRoomService(f.store)
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, f.guest.ID, f.hotel.ID, CreateRoomInput{
		Name:     "Suite",
		Price:    200,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.CreateRoom(ctx, f.owner.ID, "missing", CreateRoomInput{
		Name:     "Suite",
		Price:    200,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)

	_, err = svc.CreateRoom(ctx, f.owner.ID, f.hotel.ID, CreateRoomInput{
		Name:     "Suite",
		Price:    0,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = svc.CreateRoom(ctx, f.owner.ID, f.hotel.ID, CreateRoomInput{
		Name:     "Suite",
		Price:    200,
		Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestUpdateRoomQuota(t *testing.T) {
	f := newFixture(t, 4)
	svc := NewRoomService(f.store)
	ctx := context.Background()

	// Growing within the quota is fine: 10 total, 4 in use by this room.
	ten := 10
	room, err := svc.UpdateRoom(ctx, f.owner.ID, f.room.ID, repository.RoomUpdate{Quantity: &ten})
	require.NoError(t, err)
	assert.Equal(t, 10, room.Quantity)

	eleven := 11
	_, err = svc.UpdateRoom(ctx, f.owner.ID, f.room.ID, repository.RoomUpdate{Quantity: &eleven})
	assert.ErrorIs(t, err, domain.ErrRoomQuotaExceeded)

	price := 250
	_, err = svc.UpdateRoom(ctx, f.guest.ID, f.room.ID, repository.RoomUpdate{Price: &price})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestDeleteRoom(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewRoomService(f.store)
	ctx := context.Background()

	_, err := svc.DeleteRoom(ctx, f.guest.ID, f.room.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	deleted, err := svc.DeleteRoom(ctx, f.owner.ID, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, f.room.ID, deleted.ID)

	_, err = svc.GetRoom(ctx, f.room.ID)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestAvailableRooms(t *testing.T) {
	f := newFixture(t, 2)
	rooms := NewRoomService(f.store)
	bookings := NewBookingService(f.store, nil)
	ctx := context.Background()

	from, to := window(10, 3)

	listings, err := rooms.AvailableRooms(ctx, f.hotel.ID, from, to)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 2, listings[0].RoomsLeft)
	assert.Equal(t, 300, listings[0].TotalCost)

	_, err = bookings.CreateBooking(ctx, f.room.ID, from, to, f.guest.ID)
	require.NoError(t, err)

	listings, err = rooms.AvailableRooms(ctx, f.hotel.ID, from, to)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, 1, listings[0].RoomsLeft)

	_, err = rooms.AvailableRooms(ctx, "missing", from, to)
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)
}

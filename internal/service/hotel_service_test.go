package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/repository"
)

func hotelUpdateName(name *string) repository.HotelUpdate {
	return repository.HotelUpdate{Name: name}
}

func hotelUpdateQuantity(quantity *int) repository.HotelUpdate {
	return repository.HotelUpdate{RoomsQuantity: quantity}
}

func TestCreateHotelRequiresOwnerRole(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewHotelService(f.store)
	ctx := context.Background()

	in := CreateHotelInput{Name: "Seaside", Location: "Porto", RoomsQuantity: 5}

	_, err := svc.CreateHotel(ctx, f.guest.ID, in)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	hotel, err := svc.CreateHotel(ctx, f.owner.ID, in)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, hotel.OwnerID)
	assert.Equal(t, 5, hotel.RoomsQuantity)
}

func TestCheckOwner(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewHotelService(f.store)
	ctx := context.Background()

	hotel, err := svc.CheckOwner(ctx, f.hotel.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, f.hotel.ID, hotel.ID)

	_, err = svc.CheckOwner(ctx, f.hotel.ID, f.guest.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.CheckOwner(ctx, "missing", f.owner.ID)
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)
}

func TestUpdateHotelOwnership(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewHotelService(f.store)
	ctx := context.Background()

	name := "Renamed"
	_, err := svc.UpdateHotel(ctx, f.guest.ID, f.hotel.ID, hotelUpdateName(&name))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	updated, err := svc.UpdateHotel(ctx, f.owner.ID, f.hotel.ID, hotelUpdateName(&name))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestUpdateHotelCannotShrinkBelowQuota(t *testing.T) {
	f := newFixture(t, 4)
	svc := NewHotelService(f.store)
	ctx := context.Background()

	// The seeded room type already holds 4 of the hotel's 10 units.
	tooSmall := 3
	_, err := svc.UpdateHotel(ctx, f.owner.ID, f.hotel.ID, hotelUpdateQuantity(&tooSmall))
	assert.ErrorIs(t, err, domain.ErrRoomQuotaExceeded)

	exact := 4
	updated, err := svc.UpdateHotel(ctx, f.owner.ID, f.hotel.ID, hotelUpdateQuantity(&exact))
	require.NoError(t, err)
	assert.Equal(t, 4, updated.RoomsQuantity)
}

func TestDeleteHotel(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewHotelService(f.store)
	ctx := context.Background()

	_, err := svc.DeleteHotel(ctx, f.guest.ID, f.hotel.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	deleted, err := svc.DeleteHotel(ctx, f.owner.ID, f.hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, f.hotel.ID, deleted.ID)

	_, err = svc.GetHotel(ctx, f.hotel.ID)
	assert.ErrorIs(t, err, domain.ErrHotelNotFound)
}

func TestSearchAvailable(t *testing.T) {
	f := newFixture(t, 1)
	hotels := NewHotelService(f.store)
	rooms := NewRoomService(f.store)
	bookings := NewBookingService(f.store, nil)
	ctx := context.Background()

	// A single-unit hotel next to the ten-unit fixture one.
	tiny, err := hotels.CreateHotel(ctx, f.owner.ID, CreateHotelInput{
		Name:          "Tiny Inn",
		Location:      "Old Town, Lisbon",
		RoomsQuantity: 1,
	})
	require.NoError(t, err)
	tinyRoom, err := rooms.CreateRoom(ctx, f.owner.ID, tiny.ID, CreateRoomInput{
		Name:     "Single",
		Price:    80,
		Quantity: 1,
	})
	require.NoError(t, err)

	from, to := window(10, 3)

	hits, err := hotels.SearchAvailable(ctx, "lisbon", from, to)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	byID := map[string]int{}
	for _, h := range hits {
		byID[h.ID] = h.RoomsLeft
	}
	assert.Equal(t, f.hotel.RoomsQuantity, byID[f.hotel.ID])
	assert.Equal(t, 1, byID[tiny.ID])

	hits, err = hotels.SearchAvailable(ctx, "berlin", from, to)
	require.NoError(t, err)
	assert.Empty(t, hits)

	// A fully booked hotel drops out of the results.
	_, err = bookings.CreateBooking(ctx, tinyRoom.ID, from, to, f.guest.ID)
	require.NoError(t, err)

	hits, err = hotels.SearchAvailable(ctx, "lisbon", from, to)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, f.hotel.ID, hits[0].ID)
}

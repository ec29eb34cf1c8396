package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/repository"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedUser(t *testing.T, store *Store) *domain.User {
	t.Helper()
	user, err := domain.NewUser("user@example.com", "hash", domain.RoleUser)
	require.NoError(t, err)
	err = repository.Within(context.Background(), store, func(uow repository.UnitOfWork) error {
		return uow.Users().Insert(context.Background(), user)
	})
	require.NoError(t, err)
	return user
}

func TestCommitPublishesWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	user := seedUser(t, store)

	err := repository.Within(ctx, store, func(uow repository.UnitOfWork) error {
		got, err := uow.Users().FindByID(ctx, user.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, user.Email, got.Email)
		return nil
	})
	require.NoError(t, err)
}

func TestRollbackDiscardsAllStagedWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	owner := seedUser(t, store)
	boom := errors.New("boom")

	hotel, err := domain.NewHotel(owner.ID, "Plaza", "Lisbon", nil, 5)
	require.NoError(t, err)
	room, err := domain.NewRoom(hotel.ID, "Standard", "", 100, nil, 2)
	require.NoError(t, err)

	err = repository.Within(ctx, store, func(uow repository.UnitOfWork) error {
		if err := uow.Hotels().Insert(ctx, hotel); err != nil {
			return err
		}
		if err := uow.Rooms().Insert(ctx, room); err != nil {
			return err
		}
		// Both staged writes must vanish together.
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = repository.Within(ctx, store, func(uow repository.UnitOfWork) error {
		if _, err := uow.Hotels().FindByID(ctx, hotel.ID); !errors.Is(err, domain.ErrHotelNotFound) {
			return errors.New("hotel should not exist")
		}
		if _, err := uow.Rooms().FindByID(ctx, room.ID); !errors.Is(err, domain.ErrRoomNotFound) {
			return errors.New("room should not exist")
		}
		return nil
	})
	require.NoError(t, err)
}

func TestScopeSeesOwnWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	owner := seedUser(t, store)

	err := repository.Within(ctx, store, func(uow repository.UnitOfWork) error {
		hotel, err := domain.NewHotel(owner.ID, "Plaza", "Lisbon", nil, 5)
		if err != nil {
			return err
		}
		if err := uow.Hotels().Insert(ctx, hotel); err != nil {
			return err
		}
		// Uncommitted writes are visible inside the same scope.
		_, err = uow.Hotels().FindByID(ctx, hotel.ID)
		return err
	})
	require.NoError(t, err)
}

func TestDeleteHotelCascades(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	owner := seedUser(t, store)

	hotel, err := domain.NewHotel(owner.ID, "Plaza", "Lisbon", nil, 5)
	require.NoError(t, err)
	room, err := domain.NewRoom(hotel.ID, "Standard", "", 100, nil, 2)
	require.NoError(t, err)
	booking := domain.NewBooking(room, owner.ID, domain.DateRange{
		From: day(2026, 9, 10),
		To:   day(2026, 9, 13),
	})

	err = repository.Within(ctx, store, func(uow repository.UnitOfWork) error {
		if err := uow.Hotels().Insert(ctx, hotel); err != nil {
			return err
		}
		if err := uow.Rooms().Insert(ctx, room); err != nil {
			return err
		}
		return uow.Bookings().Insert(ctx, booking)
	})
	require.NoError(t, err)

	err = repository.Within(ctx, store, func(uow repository.UnitOfWork) error {
		_, err := uow.Hotels().DeleteByID(ctx, hotel.ID)
		return err
	})
	require.NoError(t, err)

	err = repository.Within(ctx, store, func(uow repository.UnitOfWork) error {
		if _, err := uow.Rooms().FindByID(ctx, room.ID); !errors.Is(err, domain.ErrRoomNotFound) {
			return errors.New("room should cascade")
		}
		_, err := uow.Bookings().FindOne(ctx, repository.BookingFilter{ID: booking.ID})
		if !errors.Is(err, domain.ErrBookingNotFound) {
			return errors.New("booking should cascade")
		}
		return nil
	})
	require.NoError(t, err)
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DJprogre33/booking-app/internal/domain"
)

// DBTX is the query surface repositories run on. It is satisfied both by
// *pgxpool.Pool and pgx.Tx, so a repository always uses the connection bound
// to it and never opens its own.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HotelRepository is the typed data-access surface for hotels.
type HotelRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Hotel, error)
	FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Hotel, error)
	Insert(ctx context.Context, hotel *domain.Hotel) error
	UpdateByID(ctx context.Context, id string, upd HotelUpdate) (*domain.Hotel, error)
	DeleteByID(ctx context.Context, id string) (*domain.Hotel, error)

	// SearchAvailable lists hotels whose location contains the given
	// substring and which have at least one free unit in the window.
	SearchAvailable(ctx context.Context, location string, window domain.DateRange) ([]*domain.HotelAvailability, error)
}

// HotelUpdate carries the updatable hotel fields; nil means keep.
type HotelUpdate struct {
	Name          *string
	Location      *string
	Services      *[]string
	RoomsQuantity *int
	ImageURL      *string
}

// RoomRepository is the typed data-access surface for room types.
type RoomRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Room, error)
	// FindByIDForUpdate locks the room row for the rest of the transaction.
	// The booking workflow takes this lock before counting overlaps so the
	// capacity check and the insert form one critical section.
	FindByIDForUpdate(ctx context.Context, id string) (*domain.Room, error)
	FindAllByHotel(ctx context.Context, hotelID string) ([]*domain.Room, error)
	Insert(ctx context.Context, room *domain.Room) error
	UpdateByID(ctx context.Context, id string, upd RoomUpdate) (*domain.Room, error)
	DeleteByID(ctx context.Context, id string) (*domain.Room, error)

	// QuotaUsed sums the declared quantities of the hotel's room types.
	// This is the structural inventory check, independent of any window.
	QuotaUsed(ctx context.Context, hotelID string) (int, error)

	// AvailableByHotel lists room types with at least one free unit in the
	// window, including derived rooms_left and total_cost.
	AvailableByHotel(ctx context.Context, hotelID string, window domain.DateRange) ([]*domain.RoomAvailability, error)
}

// RoomUpdate carries the updatable room fields; nil means keep.
type RoomUpdate struct {
	Name        *string
	Description *string
	Price       *int
	Services    *[]string
	Quantity    *int
	ImageURL    *string
}

// BookingFilter narrows booking lookups. Zero-value fields are ignored.
type BookingFilter struct {
	ID     string
	RoomID string
	UserID string
}

// BookingRepository is the typed data-access surface for bookings. Bookings
// are only inserted and deleted, never updated in place.
type BookingRepository interface {
	FindOne(ctx context.Context, filter BookingFilter) (*domain.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error)
	Insert(ctx context.Context, booking *domain.Booking) error
	// Delete removes the single booking matching the filter and returns it.
	Delete(ctx context.Context, filter BookingFilter) (*domain.Booking, error)

	// CountOverlapping counts bookings of the room whose window intersects
	// the given one.
	CountOverlapping(ctx context.Context, roomID string, window domain.DateRange) (int, error)
}

// UserRepository is the typed data-access surface for principals.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
}

// SessionRepository is the typed data-access surface for refresh sessions.
type SessionRepository interface {
	Insert(ctx context.Context, session *domain.RefreshSession) error
	FindByToken(ctx context.Context, refreshToken string) (*domain.RefreshSession, error)
	DeleteByToken(ctx context.Context, refreshToken string) error
	DeleteAllByUser(ctx context.Context, userID string) error
}

// UnitOfWork lends repository handles bound to one underlying transaction.
// Commit is the only way writes become durable; a unit must not be reused
// after Commit or Rollback.
type UnitOfWork interface {
	Hotels() HotelRepository
	Rooms() RoomRepository
	Bookings() BookingRepository
	Users() UserRepository
	Sessions() SessionRepository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory starts unit of work instances.
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// Within runs fn inside a single unit of work. The transaction is rolled
// back unless fn returns nil, in which case it is committed. Rollback after
// a successful commit is a no-op.
func Within(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow, err := factory.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer uow.Rollback(ctx) //nolint:errcheck

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

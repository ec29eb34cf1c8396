package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/DJprogre33/booking-app/internal/domain"
)

// overlapSQL renders the half-open interval intersection predicate for the
// bookings table. fromArg and toArg are the placeholders holding the
// requested window. It is the SQL twin of domain.DateRange.Overlaps and the
// only place the predicate is spelled.
func overlapSQL(alias, fromArg, toArg string) string {
	return fmt.Sprintf("%[1]s.date_from < %[3]s AND %[1]s.date_to > %[2]s", alias, fromArg, toArg)
}

const bookingColumns = "id, room_id, user_id, date_from, date_to, price, created_at"

// PostgresBookingRepository implements BookingRepository over a bound DBTX.
type PostgresBookingRepository struct {
	db DBTX
}

// NewPostgresBookingRepository creates a booking repository on the given
// connection or transaction.
func NewPostgresBookingRepository(db DBTX) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

func (f BookingFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("id", f.ID)
	add("room_id", f.RoomID)
	add("user_id", f.UserID)
	if len(conds) == 0 {
		return "TRUE", nil
	}
	return strings.Join(conds, " AND "), args
}

// FindOne returns the booking matching the filter.
func (r *PostgresBookingRepository) FindOne(ctx context.Context, filter BookingFilter) (*domain.Booking, error) {
	where, args := filter.where()
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE %s", bookingColumns, where)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return booking, nil
}

// FindAll returns every booking matching the filter, newest first.
func (r *PostgresBookingRepository) FindAll(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error) {
	where, args := filter.where()
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE %s ORDER BY date_from, created_at", bookingColumns, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*domain.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// Insert stores a new booking.
func (r *PostgresBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, room_id, user_id, date_from, date_to, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.UserID,
		booking.DateFrom,
		booking.DateTo,
		booking.Price,
		booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// Delete removes the booking matching the filter and returns the deleted
// record.
func (r *PostgresBookingRepository) Delete(ctx context.Context, filter BookingFilter) (*domain.Booking, error) {
	where, args := filter.where()
	query := fmt.Sprintf("DELETE FROM bookings WHERE %s RETURNING %s", where, bookingColumns)

	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("delete booking: %w", err)
	}
	return booking, nil
}

// CountOverlapping counts the room's bookings intersecting the window.
func (r *PostgresBookingRepository) CountOverlapping(ctx context.Context, roomID string, window domain.DateRange) (int, error) {
	query := fmt.Sprintf(
		"SELECT COUNT(*) FROM bookings WHERE room_id = $1 AND %s",
		overlapSQL("bookings", "$2", "$3"),
	)

	var count int
	if err := r.db.QueryRow(ctx, query, roomID, window.From, window.To).Scan(&count); err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}
	return count, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserID,
		&booking.DateFrom,
		&booking.DateTo,
		&booking.Price,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

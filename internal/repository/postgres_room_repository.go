package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/DJprogre33/booking-app/internal/domain"
)

const roomColumns = "id, hotel_id, name, description, price, services, quantity, image_url"

// PostgresRoomRepository implements RoomRepository over a bound DBTX.
type PostgresRoomRepository struct {
	db DBTX
}

// NewPostgresRoomRepository creates a room repository on the given connection
// or transaction.
func NewPostgresRoomRepository(db DBTX) *PostgresRoomRepository {
	return &PostgresRoomRepository{db: db}
}

// FindByID returns the room type with the given id.
func (r *PostgresRoomRepository) FindByID(ctx context.Context, id string) (*domain.Room, error) {
	return r.findByID(ctx, id, "")
}

// FindByIDForUpdate returns the room type and locks its row until the bound
// transaction ends. Concurrent booking attempts on the same room serialize on
// this lock.
func (r *PostgresRoomRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Room, error) {
	return r.findByID(ctx, id, " FOR UPDATE")
}

func (r *PostgresRoomRepository) findByID(ctx context.Context, id, suffix string) (*domain.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE id = $1%s", roomColumns, suffix)

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("find room: %w", err)
	}
	return room, nil
}

// FindAllByHotel returns every room type of the hotel.
func (r *PostgresRoomRepository) FindAllByHotel(ctx context.Context, hotelID string) ([]*domain.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE hotel_id = $1 ORDER BY name", roomColumns)

	rows, err := r.db.Query(ctx, query, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	rooms := []*domain.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// Insert stores a new room type.
func (r *PostgresRoomRepository) Insert(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (id, hotel_id, name, description, price, services, quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		room.ID,
		room.HotelID,
		room.Name,
		room.Description,
		room.Price,
		room.Services,
		room.Quantity,
		room.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

// UpdateByID applies the non-nil fields of upd and returns the updated row.
func (r *PostgresRoomRepository) UpdateByID(ctx context.Context, id string, upd RoomUpdate) (*domain.Room, error) {
	sets, args := []string{}, []any{id}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Price != nil {
		set("price", *upd.Price)
	}
	if upd.Services != nil {
		set("services", *upd.Services)
	}
	if upd.Quantity != nil {
		set("quantity", *upd.Quantity)
	}
	if upd.ImageURL != nil {
		set("image_url", *upd.ImageURL)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	query := fmt.Sprintf(
		"UPDATE rooms SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), roomColumns,
	)
	room, err := scanRoom(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("update room: %w", err)
	}
	return room, nil
}

// DeleteByID removes the room type and returns the deleted record.
func (r *PostgresRoomRepository) DeleteByID(ctx context.Context, id string) (*domain.Room, error) {
	query := fmt.Sprintf("DELETE FROM rooms WHERE id = $1 RETURNING %s", roomColumns)

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("delete room: %w", err)
	}
	return room, nil
}

// QuotaUsed sums the declared quantities of the hotel's room types.
func (r *PostgresRoomRepository) QuotaUsed(ctx context.Context, hotelID string) (int, error) {
	var used int
	err := r.db.QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity), 0) FROM rooms WHERE hotel_id = $1",
		hotelID,
	).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("sum room quantities: %w", err)
	}
	return used, nil
}

// AvailableByHotel lists the hotel's room types that still have free units in
// the window, with derived rooms_left and total_cost.
func (r *PostgresRoomRepository) AvailableByHotel(ctx context.Context, hotelID string, window domain.DateRange) ([]*domain.RoomAvailability, error) {
	query := fmt.Sprintf(`
		SELECT r.id, r.hotel_id, r.name, r.description, r.price, r.services, r.quantity, r.image_url,
		       r.quantity - COALESCE(b.booked, 0) AS rooms_left,
		       r.price * ($3::date - $2::date) AS total_cost
		FROM rooms r
		LEFT JOIN (
			SELECT room_id, COUNT(*) AS booked
			FROM bookings
			WHERE %s
			GROUP BY room_id
		) b ON b.room_id = r.id
		WHERE r.hotel_id = $1
		  AND r.quantity - COALESCE(b.booked, 0) > 0
		ORDER BY r.price
	`, overlapSQL("bookings", "$2", "$3"))

	rows, err := r.db.Query(ctx, query, hotelID, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	defer rows.Close()

	listings := []*domain.RoomAvailability{}
	for rows.Next() {
		item := &domain.RoomAvailability{}
		err := rows.Scan(
			&item.ID,
			&item.HotelID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Services,
			&item.Quantity,
			&item.ImageURL,
			&item.RoomsLeft,
			&item.TotalCost,
		)
		if err != nil {
			return nil, fmt.Errorf("scan room listing: %w", err)
		}
		listings = append(listings, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	return listings, nil
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	room := &domain.Room{}
	err := row.Scan(
		&room.ID,
		&room.HotelID,
		&room.Name,
		&room.Description,
		&room.Price,
		&room.Services,
		&room.Quantity,
		&room.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	return room, nil
}

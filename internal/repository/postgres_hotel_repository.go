package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/DJprogre33/booking-app/internal/domain"
)

const hotelColumns = "id, owner_id, name, location, services, rooms_quantity, image_url"

// PostgresHotelRepository implements HotelRepository over a bound DBTX.
type PostgresHotelRepository struct {
	db DBTX
}

// NewPostgresHotelRepository creates a hotel repository on the given
// connection or transaction.
func NewPostgresHotelRepository(db DBTX) *PostgresHotelRepository {
	return &PostgresHotelRepository{db: db}
}

// FindByID returns the hotel with the given id.
func (r *PostgresHotelRepository) FindByID(ctx context.Context, id string) (*domain.Hotel, error) {
	query := fmt.Sprintf("SELECT %s FROM hotels WHERE id = $1", hotelColumns)

	hotel, err := scanHotel(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHotelNotFound
		}
		return nil, fmt.Errorf("find hotel: %w", err)
	}
	return hotel, nil
}

// FindAllByOwner returns every hotel owned by the principal.
func (r *PostgresHotelRepository) FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Hotel, error) {
	query := fmt.Sprintf("SELECT %s FROM hotels WHERE owner_id = $1 ORDER BY name", hotelColumns)

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	hotels := []*domain.Hotel{}
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		hotels = append(hotels, hotel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	return hotels, nil
}

// Insert stores a new hotel.
func (r *PostgresHotelRepository) Insert(ctx context.Context, hotel *domain.Hotel) error {
	query := `
		INSERT INTO hotels (id, owner_id, name, location, services, rooms_quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		hotel.ID,
		hotel.OwnerID,
		hotel.Name,
		hotel.Location,
		hotel.Services,
		hotel.RoomsQuantity,
		hotel.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("insert hotel: %w", err)
	}
	return nil
}

// UpdateByID applies the non-nil fields of upd and returns the updated row.
func (r *PostgresHotelRepository) UpdateByID(ctx context.Context, id string, upd HotelUpdate) (*domain.Hotel, error) {
	sets, args := []string{}, []any{id}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.Services != nil {
		set("services", *upd.Services)
	}
	if upd.RoomsQuantity != nil {
		set("rooms_quantity", *upd.RoomsQuantity)
	}
	if upd.ImageURL != nil {
		set("image_url", *upd.ImageURL)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	query := fmt.Sprintf(
		"UPDATE hotels SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), hotelColumns,
	)
	hotel, err := scanHotel(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHotelNotFound
		}
		return nil, fmt.Errorf("update hotel: %w", err)
	}
	return hotel, nil
}

// DeleteByID removes the hotel and returns the deleted record. Rooms and
// bookings under it go with it via ON DELETE CASCADE.
func (r *PostgresHotelRepository) DeleteByID(ctx context.Context, id string) (*domain.Hotel, error) {
	query := fmt.Sprintf("DELETE FROM hotels WHERE id = $1 RETURNING %s", hotelColumns)

	hotel, err := scanHotel(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHotelNotFound
		}
		return nil, fmt.Errorf("delete hotel: %w", err)
	}
	return hotel, nil
}

// SearchAvailable lists hotels matching the location substring that still
// have free units in the window, with the per-hotel rooms_left aggregate.
func (r *PostgresHotelRepository) SearchAvailable(ctx context.Context, location string, window domain.DateRange) ([]*domain.HotelAvailability, error) {
	query := fmt.Sprintf(`
		SELECT h.id, h.owner_id, h.name, h.location, h.services, h.rooms_quantity, h.image_url,
		       h.rooms_quantity - COALESCE(b.booked, 0) AS rooms_left
		FROM hotels h
		LEFT JOIN (
			SELECT r.hotel_id, COUNT(*) AS booked
			FROM bookings
			JOIN rooms r ON bookings.room_id = r.id
			WHERE %s
			GROUP BY r.hotel_id
		) b ON b.hotel_id = h.id
		WHERE h.location ILIKE '%%' || $1 || '%%'
		  AND h.rooms_quantity - COALESCE(b.booked, 0) > 0
		ORDER BY h.name
	`, overlapSQL("bookings", "$2", "$3"))

	rows, err := r.db.Query(ctx, query, location, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("search hotels: %w", err)
	}
	defer rows.Close()

	listings := []*domain.HotelAvailability{}
	for rows.Next() {
		item := &domain.HotelAvailability{}
		err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Name,
			&item.Location,
			&item.Services,
			&item.RoomsQuantity,
			&item.ImageURL,
			&item.RoomsLeft,
		)
		if err != nil {
			return nil, fmt.Errorf("scan hotel listing: %w", err)
		}
		listings = append(listings, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search hotels: %w", err)
	}
	return listings, nil
}

func scanHotel(row pgx.Row) (*domain.Hotel, error) {
	hotel := &domain.Hotel{}
	err := row.Scan(
		&hotel.ID,
		&hotel.OwnerID,
		&hotel.Name,
		&hotel.Location,
		&hotel.Services,
		&hotel.RoomsQuantity,
		&hotel.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	return hotel, nil
}

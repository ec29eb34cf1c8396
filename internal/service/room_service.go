package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/logger"
	"github.com/DJprogre33/booking-app/internal/repository"
	"github.com/DJprogre33/booking-app/internal/telemetry"
)

// CreateRoomInput carries the fields needed to register a room type.
type CreateRoomInput struct {
	Name        string
	Description string
	Price       int
	Services    []string
	Quantity    int
	ImageURL    string
}

// RoomService manages room types. Every room belongs to a hotel and the sum
// of room quantities may not exceed the hotel's declared total.
type RoomService interface {
	// CreateRoom adds a room type to the principal's hotel.
	CreateRoom(ctx context.Context, principalID, hotelID string, in CreateRoomInput) (*domain.Room, error)

	// GetRoom returns the room by id.
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)

	// ListRooms returns all room types of the hotel.
	ListRooms(ctx context.Context, hotelID string) ([]*domain.Room, error)

	// UpdateRoom applies the partial update after the ownership check.
	UpdateRoom(ctx context.Context, principalID, roomID string, upd repository.RoomUpdate) (*domain.Room, error)

	// DeleteRoom removes the room type and returns the deleted record.
	DeleteRoom(ctx context.Context, principalID, roomID string) (*domain.Room, error)

	// AvailableRooms lists the hotel's room types with the number of free
	// units and the stay cost for the window.
	AvailableRooms(ctx context.Context, hotelID string, dateFrom, dateTo time.Time) ([]*domain.RoomAvailability, error)
}

type roomService struct {
	factory repository.UnitOfWorkFactory
	now     func() time.Time
}

// NewRoomService creates a room service
func NewRoomService(factory repository.UnitOfWorkFactory) RoomService {
	return &roomService{factory: factory, now: time.Now}
}

func (s *roomService) CreateRoom(ctx context.Context, principalID, hotelID string, in CreateRoomInput) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "RoomService.CreateRoom")
	defer span.End()

	var room *domain.Room
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		hotel, err := checkOwner(ctx, uow, hotelID, principalID)
		if err != nil {
			return err
		}

		used, err := uow.Rooms().QuotaUsed(ctx, hotelID)
		if err != nil {
			return err
		}
		if used+in.Quantity > hotel.RoomsQuantity {
			return domain.ErrRoomQuotaExceeded
		}

		room, err = domain.NewRoom(hotelID, in.Name, in.Description, in.Price, in.Services, in.Quantity)
		if err != nil {
			return err
		}
		room.ImageURL = in.ImageURL
		return uow.Rooms().Insert(ctx, room)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("room created",
		zap.String("room_id", room.ID),
		zap.String("hotel_id", room.HotelID),
		zap.Int("quantity", room.Quantity),
	)
	return room, nil
}

func (s *roomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "RoomService.GetRoom")
	defer span.End()

	var room *domain.Room
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		var err error
		room, err = uow.Rooms().FindByID(ctx, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, hotelID string) ([]*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "RoomService.ListRooms")
	defer span.End()

	var rooms []*domain.Room
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		if _, err := uow.Hotels().FindByID(ctx, hotelID); err != nil {
			return err
		}
		var err error
		rooms, err = uow.Rooms().FindAllByHotel(ctx, hotelID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *roomService) UpdateRoom(ctx context.Context, principalID, roomID string, upd repository.RoomUpdate) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "RoomService.UpdateRoom")
	defer span.End()

	var room *domain.Room
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		current, err := uow.Rooms().FindByID(ctx, roomID)
		if err != nil {
			return err
		}
		hotel, err := checkOwner(ctx, uow, current.HotelID, principalID)
		if err != nil {
			return err
		}

		if upd.Price != nil && *upd.Price <= 0 {
			return domain.ErrInvalidPrice
		}
		if upd.Quantity != nil {
			if *upd.Quantity <= 0 {
				return domain.ErrInvalidQuantity
			}
			used, err := uow.Rooms().QuotaUsed(ctx, current.HotelID)
			if err != nil {
				return err
			}
			if used-current.Quantity+*upd.Quantity > hotel.RoomsQuantity {
				return domain.ErrRoomQuotaExceeded
			}
		}

		room, err = uow.Rooms().UpdateByID(ctx, roomID, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, principalID, roomID string) (*domain.Room, error) {
	ctx, span := telemetry.StartSpan(ctx, "RoomService.DeleteRoom")
	defer span.End()

	var room *domain.Room
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		current, err := uow.Rooms().FindByID(ctx, roomID)
		if err != nil {
			return err
		}
		if _, err := checkOwner(ctx, uow, current.HotelID, principalID); err != nil {
			return err
		}
		room, err = uow.Rooms().DeleteByID(ctx, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("room deleted",
		zap.String("room_id", room.ID),
		zap.String("hotel_id", room.HotelID),
	)
	return room, nil
}

func (s *roomService) AvailableRooms(ctx context.Context, hotelID string, dateFrom, dateTo time.Time) ([]*domain.RoomAvailability, error) {
	ctx, span := telemetry.StartSpan(ctx, "RoomService.AvailableRooms")
	defer span.End()

	window, err := domain.NewDateRange(dateFrom, dateTo, s.now())
	if err != nil {
		return nil, err
	}

	var rooms []*domain.RoomAvailability
	err = repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		if _, err := uow.Hotels().FindByID(ctx, hotelID); err != nil {
			return err
		}
		var err error
		rooms, err = uow.Rooms().AvailableByHotel(ctx, hotelID, window)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

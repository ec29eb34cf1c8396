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

// CreateHotelInput carries the fields needed to register a hotel.
type CreateHotelInput struct {
	Name          string
	Location      string
	Services      []string
	RoomsQuantity int
	ImageURL      string
}

// HotelService manages hotels and guards mutations behind ownership.
type HotelService interface {
	// CreateHotel registers a hotel owned by the principal. Only principals
	// with the hotel owner role may create hotels.
	CreateHotel(ctx context.Context, principalID string, in CreateHotelInput) (*domain.Hotel, error)

	// GetHotel returns the hotel by id.
	GetHotel(ctx context.Context, hotelID string) (*domain.Hotel, error)

	// ListOwnHotels returns all hotels owned by the principal.
	ListOwnHotels(ctx context.Context, principalID string) ([]*domain.Hotel, error)

	// UpdateHotel applies the partial update after the ownership check.
	UpdateHotel(ctx context.Context, principalID, hotelID string, upd repository.HotelUpdate) (*domain.Hotel, error)

	// DeleteHotel removes the hotel and returns the deleted record.
	DeleteHotel(ctx context.Context, principalID, hotelID string) (*domain.Hotel, error)

	// CheckOwner verifies the principal owns the hotel and returns it.
	CheckOwner(ctx context.Context, hotelID, principalID string) (*domain.Hotel, error)

	// SearchAvailable lists hotels matching the location that still have at
	// least one free unit in the window.
	SearchAvailable(ctx context.Context, location string, dateFrom, dateTo time.Time) ([]*domain.HotelAvailability, error)
}

type hotelService struct {
	factory repository.UnitOfWorkFactory
	now     func() time.Time
}

// NewHotelService creates a hotel service
func NewHotelService(factory repository.UnitOfWorkFactory) HotelService {
	return &hotelService{factory: factory, now: time.Now}
}

// checkOwner loads the hotel inside an already open unit of work and
// verifies ownership. A missing hotel is ErrHotelNotFound, a foreign one is
// ErrAccessDenied.
func checkOwner(ctx context.Context, uow repository.UnitOfWork, hotelID, principalID string) (*domain.Hotel, error) {
	hotel, err := uow.Hotels().FindByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if hotel.OwnerID != principalID {
		return nil, domain.ErrAccessDenied
	}
	return hotel, nil
}

func (s *hotelService) CreateHotel(ctx context.Context, principalID string, in CreateHotelInput) (*domain.Hotel, error) {
	ctx, span := telemetry.StartSpan(ctx, "HotelService.CreateHotel")
	defer span.End()

	var hotel *domain.Hotel
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		principal, err := uow.Users().FindByID(ctx, principalID)
		if err != nil {
			return err
		}
		if principal.Role != domain.RoleHotelOwner {
			return domain.ErrAccessDenied
		}

		hotel, err = domain.NewHotel(principalID, in.Name, in.Location, in.Services, in.RoomsQuantity)
		if err != nil {
			return err
		}
		hotel.ImageURL = in.ImageURL
		return uow.Hotels().Insert(ctx, hotel)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("hotel created",
		zap.String("hotel_id", hotel.ID),
		zap.String("owner_id", hotel.OwnerID),
	)
	return hotel, nil
}

func (s *hotelService) GetHotel(ctx context.Context, hotelID string) (*domain.Hotel, error) {
	ctx, span := telemetry.StartSpan(ctx, "HotelService.GetHotel")
	defer span.End()

	var hotel *domain.Hotel
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		var err error
		hotel, err = uow.Hotels().FindByID(ctx, hotelID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hotel, nil
}

func (s *hotelService) ListOwnHotels(ctx context.Context, principalID string) ([]*domain.Hotel, error) {
	ctx, span := telemetry.StartSpan(ctx, "HotelService.ListOwnHotels")
	defer span.End()

	var hotels []*domain.Hotel
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		var err error
		hotels, err = uow.Hotels().FindAllByOwner(ctx, principalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hotels, nil
}

func (s *hotelService) UpdateHotel(ctx context.Context, principalID, hotelID string, upd repository.HotelUpdate) (*domain.Hotel, error) {
	ctx, span := telemetry.StartSpan(ctx, "HotelService.UpdateHotel")
	defer span.End()

	var hotel *domain.Hotel
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		if _, err := checkOwner(ctx, uow, hotelID, principalID); err != nil {
			return err
		}

		if upd.RoomsQuantity != nil {
			if *upd.RoomsQuantity <= 0 {
				return domain.ErrInvalidQuantity
			}
			// Shrinking the hotel below the quantity already allocated to
			// room types would leave the structural quota violated.
			used, err := uow.Rooms().QuotaUsed(ctx, hotelID)
			if err != nil {
				return err
			}
			if used > *upd.RoomsQuantity {
				return domain.ErrRoomQuotaExceeded
			}
		}

		var err error
		hotel, err = uow.Hotels().UpdateByID(ctx, hotelID, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hotel, nil
}

func (s *hotelService) DeleteHotel(ctx context.Context, principalID, hotelID string) (*domain.Hotel, error) {
	ctx, span := telemetry.StartSpan(ctx, "HotelService.DeleteHotel")
	defer span.End()

	var hotel *domain.Hotel
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		if _, err := checkOwner(ctx, uow, hotelID, principalID); err != nil {
			return err
		}
		var err error
		hotel, err = uow.Hotels().DeleteByID(ctx, hotelID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("hotel deleted",
		zap.String("hotel_id", hotel.ID),
		zap.String("owner_id", hotel.OwnerID),
	)
	return hotel, nil
}

func (s *hotelService) CheckOwner(ctx context.Context, hotelID, principalID string) (*domain.Hotel, error) {
	ctx, span := telemetry.StartSpan(ctx, "HotelService.CheckOwner")
	defer span.End()

	var hotel *domain.Hotel
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		var err error
		hotel, err = checkOwner(ctx, uow, hotelID, principalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hotel, nil
}

func (s *hotelService) SearchAvailable(ctx context.Context, location string, dateFrom, dateTo time.Time) ([]*domain.HotelAvailability, error) {
	ctx, span := telemetry.StartSpan(ctx, "HotelService.SearchAvailable")
	defer span.End()

	window, err := domain.NewDateRange(dateFrom, dateTo, s.now())
	if err != nil {
		return nil, err
	}

	var hotels []*domain.HotelAvailability
	err = repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		var err error
		hotels, err = uow.Hotels().SearchAvailable(ctx, location, window)
		return err
	})
	if err != nil {
		return nil, err
	}
	return hotels, nil
}

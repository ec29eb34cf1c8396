package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/logger"
	"github.com/DJprogre33/booking-app/internal/metrics"
	"github.com/DJprogre33/booking-app/internal/repository"
	"github.com/DJprogre33/booking-app/internal/telemetry"
)

// BookingService is the reservation workflow. Every mutation runs inside a
// single unit of work so the capacity check and the insert cannot be split
// by a concurrent request.
type BookingService interface {
	// CreateBooking reserves one unit of the room for the window, or fails
	// with domain.ErrNoRoomsAvailable when all units are taken.
	CreateBooking(ctx context.Context, roomID string, dateFrom, dateTo time.Time, principalID string) (*domain.Booking, error)

	// GetBooking returns the principal's booking. A booking owned by someone
	// else is reported as not found.
	GetBooking(ctx context.Context, bookingID, principalID string) (*domain.Booking, error)

	// ListBookings returns all bookings of the principal.
	ListBookings(ctx context.Context, principalID string) ([]*domain.Booking, error)

	// DeleteBooking removes the booking and returns the deleted record.
	// Admins may delete any booking, everyone else only their own.
	DeleteBooking(ctx context.Context, bookingID, principalID string) (*domain.Booking, error)

	// RoomsLeft reports how many units of the room are free for the window.
	RoomsLeft(ctx context.Context, roomID string, dateFrom, dateTo time.Time) (int, error)
}

type bookingService struct {
	factory   repository.UnitOfWorkFactory
	publisher EventPublisher
	now       func() time.Time
}

// NewBookingService creates a booking service
func NewBookingService(factory repository.UnitOfWorkFactory, publisher EventPublisher) BookingService {
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	return &bookingService{
		factory:   factory,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, roomID string, dateFrom, dateTo time.Time, principalID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.CreateBooking")
	defer span.End()

	start := s.now()

	window, err := domain.NewDateRange(dateFrom, dateTo, s.now())
	if err != nil {
		return nil, err
	}

	var (
		booking *domain.Booking
		contact string
	)
	err = repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		// Lock the room row first. Concurrent reservations for the same
		// room serialize here, so the overlap count below stays valid
		// until the insert commits.
		room, err := uow.Rooms().FindByIDForUpdate(ctx, roomID)
		if err != nil {
			return err
		}

		user, err := uow.Users().FindByID(ctx, principalID)
		if err != nil {
			return err
		}
		contact = user.Email

		taken, err := uow.Bookings().CountOverlapping(ctx, roomID, window)
		if err != nil {
			return err
		}
		if room.Quantity-taken <= 0 {
			return domain.ErrNoRoomsAvailable
		}

		booking = domain.NewBooking(room, principalID, window)
		return uow.Bookings().Insert(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoRoomsAvailable) {
			metrics.IncCapacityRejected(ctx)
			logger.Get().Info("reservation rejected, no capacity",
				zap.String("room_id", roomID),
				zap.String("user_id", principalID),
				zap.Time("date_from", window.From),
				zap.Time("date_to", window.To),
			)
		}
		return nil, err
	}

	metrics.IncCreated(ctx)
	metrics.ObserveBookingDuration(ctx, s.now().Sub(start).Seconds())
	logger.Get().Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("room_id", booking.RoomID),
		zap.String("user_id", booking.UserID),
		zap.Int("total_cost", booking.TotalCost()),
	)

	s.notify(func(ctx context.Context) error {
		return s.publisher.PublishBookingCreated(ctx, booking, contact)
	}, booking.ID)

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID, principalID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.GetBooking")
	defer span.End()

	var booking *domain.Booking
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		var err error
		// Filtering by owner makes foreign bookings indistinguishable from
		// missing ones.
		booking, err = uow.Bookings().FindOne(ctx, repository.BookingFilter{
			ID:     bookingID,
			UserID: principalID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, principalID string) ([]*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.ListBookings")
	defer span.End()

	var bookings []*domain.Booking
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		var err error
		bookings, err = uow.Bookings().FindAll(ctx, repository.BookingFilter{
			UserID: principalID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *bookingService) DeleteBooking(ctx context.Context, bookingID, principalID string) (*domain.Booking, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.DeleteBooking")
	defer span.End()

	var (
		booking *domain.Booking
		contact string
	)
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		principal, err := uow.Users().FindByID(ctx, principalID)
		if err != nil {
			return err
		}

		filter := repository.BookingFilter{ID: bookingID}
		if principal.Role != domain.RoleAdmin {
			filter.UserID = principalID
		}

		booking, err = uow.Bookings().Delete(ctx, filter)
		if err != nil {
			return err
		}

		owner, err := uow.Users().FindByID(ctx, booking.UserID)
		if err != nil {
			return err
		}
		contact = owner.Email
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncDeleted(ctx)
	logger.Get().Info("booking deleted",
		zap.String("booking_id", booking.ID),
		zap.String("deleted_by", principalID),
	)

	s.notify(func(ctx context.Context) error {
		return s.publisher.PublishBookingCancelled(ctx, booking, contact)
	}, booking.ID)

	return booking, nil
}

func (s *bookingService) RoomsLeft(ctx context.Context, roomID string, dateFrom, dateTo time.Time) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "BookingService.RoomsLeft")
	defer span.End()

	window, err := domain.NewDateRange(dateFrom, dateTo, s.now())
	if err != nil {
		return 0, err
	}

	var left int
	err = repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		room, err := uow.Rooms().FindByID(ctx, roomID)
		if err != nil {
			return err
		}
		taken, err := uow.Bookings().CountOverlapping(ctx, roomID, window)
		if err != nil {
			return err
		}
		left = room.Quantity - taken
		if left < 0 {
			left = 0
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return left, nil
}

// notify dispatches a booking event after the commit. The event runs on a
// detached context so request cancellation cannot abort it, and failures are
// only logged.
func (s *bookingService) notify(publish func(ctx context.Context) error, bookingID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := publish(ctx); err != nil {
		logger.Get().Warn("failed to publish booking event",
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/dto"
	"github.com/DJprogre33/booking-app/internal/repository"
	"github.com/DJprogre33/booking-app/internal/service"
)

// MockRoomService is a mock implementation of service.RoomService
type MockRoomService struct {
	CreateRoomFunc     func(ctx context.Context, principalID, hotelID string, in service.CreateRoomInput) (*domain.Room, error)
	GetRoomFunc        func(ctx context.Context, roomID string) (*domain.Room, error)
	ListRoomsFunc      func(ctx context.Context, hotelID string) ([]*domain.Room, error)
	UpdateRoomFunc     func(ctx context.Context, principalID, roomID string, upd repository.RoomUpdate) (*domain.Room, error)
	DeleteRoomFunc     func(ctx context.Context, principalID, roomID string) (*domain.Room, error)
	AvailableRoomsFunc func(ctx context.Context, hotelID string, dateFrom, dateTo time.Time) ([]*domain.RoomAvailability, error)
}

func (m *MockRoomService) CreateRoom(ctx context.Context, principalID, hotelID string, in service.CreateRoomInput) (*domain.Room, error) {
	if m.CreateRoomFunc != nil {
		return m.CreateRoomFunc(ctx, principalID, hotelID, in)
	}
	return nil, nil
}

func (m *MockRoomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	if m.GetRoomFunc != nil {
		return m.GetRoomFunc(ctx, roomID)
	}
	return nil, nil
}

func (m *MockRoomService) ListRooms(ctx context.Context, hotelID string) ([]*domain.Room, error) {
	if m.ListRoomsFunc != nil {
		return m.ListRoomsFunc(ctx, hotelID)
	}
	return nil, nil
}

func (m *MockRoomService) UpdateRoom(ctx context.Context, principalID, roomID string, upd repository.RoomUpdate) (*domain.Room, error) {
	if m.UpdateRoomFunc != nil {
		return m.UpdateRoomFunc(ctx, principalID, roomID, upd)
	}
	return nil, nil
}

func (m *MockRoomService) DeleteRoom(ctx context.Context, principalID, roomID string) (*domain.Room, error) {
	if m.DeleteRoomFunc != nil {
		return m.DeleteRoomFunc(ctx, principalID, roomID)
	}
	return nil, nil
}

func (m *MockRoomService) AvailableRooms(ctx context.Context, hotelID string, dateFrom, dateTo time.Time) ([]*domain.RoomAvailability, error) {
	if m.AvailableRoomsFunc != nil {
		return m.AvailableRoomsFunc(ctx, hotelID, dateFrom, dateTo)
	}
	return nil, nil
}

func setupRoomRouter(rooms *MockRoomService, bookings *MockBookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewRoomHandler(rooms, bookings).RegisterPublicRoutes(router.Group(""))
	return router
}

func TestRoomHandler_RoomsLeft(t *testing.T) {
	router := setupRoomRouter(&MockRoomService{}, &MockBookingService{
		RoomsLeftFunc: func(ctx context.Context, roomID string, dateFrom, dateTo time.Time) (int, error) {
			assert.Equal(t, "room-1", roomID)
			return 2, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/rooms/room-1/left?date_from=2026-09-10&date_to=2026-09-13", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.RoomsLeftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.RoomsLeft)
	assert.Equal(t, "2026-09-10", resp.DateFrom)
}

func TestRoomHandler_RoomsLeftBadWindow(t *testing.T) {
	router := setupRoomRouter(&MockRoomService{}, &MockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/rooms/room-1/left?date_from=2026-09-10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoomHandler_AvailableRooms(t *testing.T) {
	router := setupRoomRouter(&MockRoomService{
		AvailableRoomsFunc: func(ctx context.Context, hotelID string, dateFrom, dateTo time.Time) ([]*domain.RoomAvailability, error) {
			return []*domain.RoomAvailability{
				{
					Room:      domain.Room{ID: "room-1", HotelID: hotelID, Name: "Standard", Price: 100, Quantity: 2},
					RoomsLeft: 1,
					TotalCost: 300,
				},
			}, nil
		},
	}, &MockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/hotels/hotel-1/rooms/available?date_from=2026-09-10&date_to=2026-09-13", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []dto.RoomAvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, 1, resp[0].RoomsLeft)
	assert.Equal(t, 300, resp[0].TotalCost)
}

func TestRoomHandler_AvailableRoomsHotelNotFound(t *testing.T) {
	router := setupRoomRouter(&MockRoomService{
		AvailableRoomsFunc: func(ctx context.Context, hotelID string, dateFrom, dateTo time.Time) ([]*domain.RoomAvailability, error) {
			return nil, domain.ErrHotelNotFound
		},
	}, &MockBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/hotels/missing/rooms/available?date_from=2026-09-10&date_to=2026-09-13", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

package handler

import (
	"bytes"
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
)

// MockBookingService is a mock implementation of service.BookingService
type MockBookingService struct {
	CreateBookingFunc func(ctx context.Context, roomID string, dateFrom, dateTo time.Time, principalID string) (*domain.Booking, error)
	GetBookingFunc    func(ctx context.Context, bookingID, principalID string) (*domain.Booking, error)
	ListBookingsFunc  func(ctx context.Context, principalID string) ([]*domain.Booking, error)
	DeleteBookingFunc func(ctx context.Context, bookingID, principalID string) (*domain.Booking, error)
	RoomsLeftFunc     func(ctx context.Context, roomID string, dateFrom, dateTo time.Time) (int, error)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, roomID string, dateFrom, dateTo time.Time, principalID string) (*domain.Booking, error) {
	if m.CreateBookingFunc != nil {
		return m.CreateBookingFunc(ctx, roomID, dateFrom, dateTo, principalID)
	}
	return nil, nil
}

func (m *MockBookingService) GetBooking(ctx context.Context, bookingID, principalID string) (*domain.Booking, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(ctx, bookingID, principalID)
	}
	return nil, nil
}

func (m *MockBookingService) ListBookings(ctx context.Context, principalID string) ([]*domain.Booking, error) {
	if m.ListBookingsFunc != nil {
		return m.ListBookingsFunc(ctx, principalID)
	}
	return nil, nil
}

func (m *MockBookingService) DeleteBooking(ctx context.Context, bookingID, principalID string) (*domain.Booking, error) {
	if m.DeleteBookingFunc != nil {
		return m.DeleteBookingFunc(ctx, bookingID, principalID)
	}
	return nil, nil
}

func (m *MockBookingService) RoomsLeft(ctx context.Context, roomID string, dateFrom, dateTo time.Time) (int, error) {
	if m.RoomsLeftFunc != nil {
		return m.RoomsLeftFunc(ctx, roomID, dateFrom, dateTo)
	}
	return 0, nil
}

func setupBookingRouter(svc *MockBookingService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}
	NewBookingHandler(svc).RegisterRoutes(router.Group(""))
	return router
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:       "booking-1",
		RoomID:   "room-1",
		UserID:   "user-1",
		DateFrom: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		Price:    100,
	}
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		body           any
		mockFunc       func(ctx context.Context, roomID string, dateFrom, dateTo time.Time, principalID string) (*domain.Booking, error)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:   "created",
			userID: "user-1",
			body: dto.CreateBookingRequest{
				RoomID:   "room-1",
				DateFrom: "2026-09-10",
				DateTo:   "2026-09-13",
			},
			mockFunc: func(ctx context.Context, roomID string, dateFrom, dateTo time.Time, principalID string) (*domain.Booking, error) {
				return sampleBooking(), nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unauthorized",
			userID:         "",
			body:           dto.CreateBookingRequest{RoomID: "room-1", DateFrom: "2026-09-10", DateTo: "2026-09-13"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "missing fields",
			userID:         "user-1",
			body:           map[string]string{"room_id": "room-1"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:           "malformed date",
			userID:         "user-1",
			body:           dto.CreateBookingRequest{RoomID: "room-1", DateFrom: "10/09/2026", DateTo: "2026-09-13"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:   "no capacity",
			userID: "user-1",
			body: dto.CreateBookingRequest{
				RoomID:   "room-1",
				DateFrom: "2026-09-10",
				DateTo:   "2026-09-13",
			},
			mockFunc: func(ctx context.Context, roomID string, dateFrom, dateTo time.Time, principalID string) (*domain.Booking, error) {
				return nil, domain.ErrNoRoomsAvailable
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "NO_ROOMS_AVAILABLE",
		},
		{
			name:   "room not found",
			userID: "user-1",
			body: dto.CreateBookingRequest{
				RoomID:   "missing",
				DateFrom: "2026-09-10",
				DateTo:   "2026-09-13",
			},
			mockFunc: func(ctx context.Context, roomID string, dateFrom, dateTo time.Time, principalID string) (*domain.Booking, error) {
				return nil, domain.ErrRoomNotFound
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupBookingRouter(&MockBookingService{CreateBookingFunc: tt.mockFunc}, tt.userID)

			payload, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Code)
			}
		})
	}
}

func TestBookingHandler_CreateBookingResponseShape(t *testing.T) {
	router := setupBookingRouter(&MockBookingService{
		CreateBookingFunc: func(ctx context.Context, roomID string, dateFrom, dateTo time.Time, principalID string) (*domain.Booking, error) {
			assert.Equal(t, "room-1", roomID)
			assert.Equal(t, "user-1", principalID)
			return sampleBooking(), nil
		},
	}, "user-1")

	payload, _ := json.Marshal(dto.CreateBookingRequest{
		RoomID:   "room-1",
		DateFrom: "2026-09-10",
		DateTo:   "2026-09-13",
	})
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "booking-1", resp.ID)
	assert.Equal(t, "2026-09-10", resp.DateFrom)
	assert.Equal(t, "2026-09-13", resp.DateTo)
	assert.Equal(t, 3, resp.TotalDays)
	assert.Equal(t, 300, resp.TotalCost)
}

func TestBookingHandler_GetBooking(t *testing.T) {
	router := setupBookingRouter(&MockBookingService{
		GetBookingFunc: func(ctx context.Context, bookingID, principalID string) (*domain.Booking, error) {
			if bookingID == "booking-1" && principalID == "user-1" {
				return sampleBooking(), nil
			}
			return nil, domain.ErrBookingNotFound
		},
	}, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/bookings/booking-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/bookings/foreign", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_ListBookings(t *testing.T) {
	router := setupBookingRouter(&MockBookingService{
		ListBookingsFunc: func(ctx context.Context, principalID string) ([]*domain.Booking, error) {
			return []*domain.Booking{sampleBooking()}, nil
		},
	}, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []dto.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "booking-1", resp[0].ID)
}

func TestBookingHandler_DeleteBooking(t *testing.T) {
	router := setupBookingRouter(&MockBookingService{
		DeleteBookingFunc: func(ctx context.Context, bookingID, principalID string) (*domain.Booking, error) {
			return sampleBooking(), nil
		},
	}, "user-1")

	req := httptest.NewRequest(http.MethodDelete, "/bookings/booking-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "booking-1", resp.ID)
}

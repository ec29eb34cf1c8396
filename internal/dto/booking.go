package dto

import (
	"github.com/DJprogre33/booking-app/internal/domain"
)

// CreateBookingRequest represents a request to reserve a room
type CreateBookingRequest struct {
	RoomID   string `json:"room_id" binding:"required"`
	DateFrom string `json:"date_from" binding:"required"`
	DateTo   string `json:"date_to" binding:"required"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
	Price     int    `json:"price"`
	TotalDays int    `json:"total_days"`
	TotalCost int    `json:"total_cost"`
}

// RoomsLeftResponse reports free units of a room for a window
type RoomsLeftResponse struct {
	RoomID    string `json:"room_id"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
	RoomsLeft int    `json:"rooms_left"`
}

// ToBookingResponse maps a booking to its API shape.
func ToBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		DateFrom:  FormatDate(b.DateFrom),
		DateTo:    FormatDate(b.DateTo),
		Price:     b.Price,
		TotalDays: b.TotalDays(),
		TotalCost: b.TotalCost(),
	}
}

// ToBookingResponses maps a booking list to its API shape.
func ToBookingResponses(bookings []*domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ToBookingResponse(b))
	}
	return out
}

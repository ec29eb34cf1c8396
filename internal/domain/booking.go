package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking reserves one unit of a room type for a half-open date window.
// Price is copied from the room at creation time and never changes afterward;
// TotalDays and TotalCost are derived from it and the window, never stored
// independently.
type Booking struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	DateFrom  time.Time `json:"date_from"`
	DateTo    time.Time `json:"date_to"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBooking creates a booking for the given room and window, copying the
// room's current price.
func NewBooking(room *Room, userID string, window DateRange) *Booking {
	return &Booking{
		ID:        uuid.New().String(),
		RoomID:    room.ID,
		UserID:    userID,
		DateFrom:  window.From,
		DateTo:    window.To,
		Price:     room.Price,
		CreatedAt: time.Now().UTC(),
	}
}

// Window returns the booked date range.
func (b *Booking) Window() DateRange {
	return DateRange{From: b.DateFrom, To: b.DateTo}
}

// TotalDays returns the number of booked nights.
func (b *Booking) TotalDays() int {
	return b.Window().Days()
}

// TotalCost returns the stay cost: price per night times nights.
func (b *Booking) TotalCost() int {
	return b.Price * b.TotalDays()
}

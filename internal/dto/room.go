package dto

import (
	"github.com/DJprogre33/booking-app/internal/domain"
)

// CreateRoomRequest represents a request to add a room type to a hotel
type CreateRoomRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       int      `json:"price" binding:"required,min=1"`
	Services    []string `json:"services"`
	Quantity    int      `json:"quantity" binding:"required,min=1"`
	ImageURL    string   `json:"image_url"`
}

// UpdateRoomRequest represents a partial room update
type UpdateRoomRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *int      `json:"price"`
	Services    *[]string `json:"services"`
	Quantity    *int      `json:"quantity"`
	ImageURL    *string   `json:"image_url"`
}

// RoomResponse represents a room type in API responses
type RoomResponse struct {
	ID          string   `json:"id"`
	HotelID     string   `json:"hotel_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int      `json:"price"`
	Services    []string `json:"services"`
	Quantity    int      `json:"quantity"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// RoomAvailabilityResponse is a room type with free units and stay cost
type RoomAvailabilityResponse struct {
	RoomResponse
	RoomsLeft int `json:"rooms_left"`
	TotalCost int `json:"total_cost"`
}

// ToRoomResponse maps a room to its API shape.
func ToRoomResponse(r *domain.Room) RoomResponse {
	return RoomResponse{
		ID:          r.ID,
		HotelID:     r.HotelID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Services:    r.Services,
		Quantity:    r.Quantity,
		ImageURL:    r.ImageURL,
	}
}

// ToRoomResponses maps a room list to its API shape.
func ToRoomResponses(rooms []*domain.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, ToRoomResponse(r))
	}
	return out
}

// ToRoomAvailabilityResponses maps availability rows to their API shape.
func ToRoomAvailabilityResponses(rows []*domain.RoomAvailability) []RoomAvailabilityResponse {
	out := make([]RoomAvailabilityResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, RoomAvailabilityResponse{
			RoomResponse: ToRoomResponse(&r.Room),
			RoomsLeft:    r.RoomsLeft,
			TotalCost:    r.TotalCost,
		})
	}
	return out
}

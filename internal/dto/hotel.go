package dto

import (
	"github.com/DJprogre33/booking-app/internal/domain"
)

// CreateHotelRequest represents a request to register a hotel
type CreateHotelRequest struct {
	Name          string   `json:"name" binding:"required"`
	Location      string   `json:"location" binding:"required"`
	Services      []string `json:"services"`
	RoomsQuantity int      `json:"rooms_quantity" binding:"required,min=1"`
	ImageURL      string   `json:"image_url"`
}

// UpdateHotelRequest represents a partial hotel update
type UpdateHotelRequest struct {
	Name          *string   `json:"name"`
	Location      *string   `json:"location"`
	Services      *[]string `json:"services"`
	RoomsQuantity *int      `json:"rooms_quantity"`
	ImageURL      *string   `json:"image_url"`
}

// HotelResponse represents a hotel in API responses
type HotelResponse struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"owner_id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Services      []string `json:"services"`
	RoomsQuantity int      `json:"rooms_quantity"`
	ImageURL      string   `json:"image_url,omitempty"`
}

// HotelAvailabilityResponse is a hotel search hit with free units
type HotelAvailabilityResponse struct {
	HotelResponse
	RoomsLeft int `json:"rooms_left"`
}

// ToHotelResponse maps a hotel to its API shape.
func ToHotelResponse(h *domain.Hotel) HotelResponse {
	return HotelResponse{
		ID:            h.ID,
		OwnerID:       h.OwnerID,
		Name:          h.Name,
		Location:      h.Location,
		Services:      h.Services,
		RoomsQuantity: h.RoomsQuantity,
		ImageURL:      h.ImageURL,
	}
}

// ToHotelResponses maps a hotel list to its API shape.
func ToHotelResponses(hotels []*domain.Hotel) []HotelResponse {
	out := make([]HotelResponse, 0, len(hotels))
	for _, h := range hotels {
		out = append(out, ToHotelResponse(h))
	}
	return out
}

// ToHotelAvailabilityResponses maps search hits to their API shape.
func ToHotelAvailabilityResponses(hits []*domain.HotelAvailability) []HotelAvailabilityResponse {
	out := make([]HotelAvailabilityResponse, 0, len(hits))
	for _, h := range hits {
		out = append(out, HotelAvailabilityResponse{
			HotelResponse: ToHotelResponse(&h.Hotel),
			RoomsLeft:     h.RoomsLeft,
		})
	}
	return out
}

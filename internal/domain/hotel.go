package domain

import "github.com/google/uuid"

// Hotel represents a property owned by a principal with the "hotel owner"
// role. RoomsQuantity is the declared total across all room types; the sum of
// room quantities may never exceed it (checked at room create/update time).
type Hotel struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"owner_id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Services      []string `json:"services"`
	RoomsQuantity int      `json:"rooms_quantity"`
	ImageURL      string   `json:"image_url,omitempty"`
}

// NewHotel creates a hotel with a generated id.
func NewHotel(ownerID, name, location string, services []string, roomsQuantity int) (*Hotel, error) {
	if roomsQuantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Hotel{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Name:          name,
		Location:      location,
		Services:      services,
		RoomsQuantity: roomsQuantity,
	}, nil
}

// HotelAvailability is a search-listing row: a hotel with the number of free
// units across all its room types for the requested window.
type HotelAvailability struct {
	Hotel
	RoomsLeft int `json:"rooms_left"`
}

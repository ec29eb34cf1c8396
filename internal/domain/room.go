package domain

import "github.com/google/uuid"

// Room is a room type, not a physical unit: Quantity interchangeable units
// sharing one price per night.
type Room struct {
	ID          string   `json:"id"`
	HotelID     string   `json:"hotel_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int      `json:"price"`
	Services    []string `json:"services"`
	Quantity    int      `json:"quantity"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// NewRoom creates a room type with a generated id.
func NewRoom(hotelID, name, description string, price int, services []string, quantity int) (*Room, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	return &Room{
		ID:          uuid.New().String(),
		HotelID:     hotelID,
		Name:        name,
		Description: description,
		Price:       price,
		Services:    services,
		Quantity:    quantity,
	}, nil
}

// RoomAvailability is a listing row: a room type with the free unit count and
// the stay cost derived for the requested window.
type RoomAvailability struct {
	Room
	RoomsLeft int `json:"rooms_left"`
	TotalCost int `json:"total_cost"`
}

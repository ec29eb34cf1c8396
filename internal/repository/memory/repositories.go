package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/repository"
)

type hotelRepo struct{ u *unitOfWork }

func (r *hotelRepo) FindByID(ctx context.Context, id string) (*domain.Hotel, error) {
	hotel, ok := r.u.hotels[id]
	if !ok {
		return nil, domain.ErrHotelNotFound
	}
	return cloneHotel(hotel), nil
}

func (r *hotelRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]*domain.Hotel, error) {
	hotels := []*domain.Hotel{}
	for _, h := range r.u.hotels {
		if h.OwnerID == ownerID {
			hotels = append(hotels, cloneHotel(h))
		}
	}
	sort.Slice(hotels, func(i, j int) bool { return hotels[i].Name < hotels[j].Name })
	return hotels, nil
}

func (r *hotelRepo) Insert(ctx context.Context, hotel *domain.Hotel) error {
	r.u.hotels[hotel.ID] = cloneHotel(hotel)
	return nil
}

func (r *hotelRepo) UpdateByID(ctx context.Context, id string, upd repository.HotelUpdate) (*domain.Hotel, error) {
	hotel, ok := r.u.hotels[id]
	if !ok {
		return nil, domain.ErrHotelNotFound
	}
	if upd.Name != nil {
		hotel.Name = *upd.Name
	}
	if upd.Location != nil {
		hotel.Location = *upd.Location
	}
	if upd.Services != nil {
		hotel.Services = append([]string(nil), *upd.Services...)
	}
	if upd.RoomsQuantity != nil {
		hotel.RoomsQuantity = *upd.RoomsQuantity
	}
	if upd.ImageURL != nil {
		hotel.ImageURL = *upd.ImageURL
	}
	return cloneHotel(hotel), nil
}

func (r *hotelRepo) DeleteByID(ctx context.Context, id string) (*domain.Hotel, error) {
	hotel, ok := r.u.hotels[id]
	if !ok {
		return nil, domain.ErrHotelNotFound
	}
	delete(r.u.hotels, id)
	for roomID, room := range r.u.rooms {
		if room.HotelID != id {
			continue
		}
		delete(r.u.rooms, roomID)
		for bookingID, booking := range r.u.bookings {
			if booking.RoomID == roomID {
				delete(r.u.bookings, bookingID)
			}
		}
	}
	return hotel, nil
}

func (r *hotelRepo) SearchAvailable(ctx context.Context, location string, window domain.DateRange) ([]*domain.HotelAvailability, error) {
	listings := []*domain.HotelAvailability{}
	for _, h := range r.u.hotels {
		if !strings.Contains(strings.ToLower(h.Location), strings.ToLower(location)) {
			continue
		}
		booked := 0
		for _, b := range r.u.bookings {
			room, ok := r.u.rooms[b.RoomID]
			if ok && room.HotelID == h.ID && b.Window().Overlaps(window) {
				booked++
			}
		}
		if left := h.RoomsQuantity - booked; left > 0 {
			listings = append(listings, &domain.HotelAvailability{Hotel: *cloneHotel(h), RoomsLeft: left})
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Name < listings[j].Name })
	return listings, nil
}

type roomRepo struct{ u *unitOfWork }

func (r *roomRepo) FindByID(ctx context.Context, id string) (*domain.Room, error) {
	room, ok := r.u.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

// FindByIDForUpdate is plain FindByID here: the scope already holds the store
// lock, so no extra locking is needed.
func (r *roomRepo) FindByIDForUpdate(ctx context.Context, id string) (*domain.Room, error) {
	return r.FindByID(ctx, id)
}

func (r *roomRepo) FindAllByHotel(ctx context.Context, hotelID string) ([]*domain.Room, error) {
	rooms := []*domain.Room{}
	for _, room := range r.u.rooms {
		if room.HotelID == hotelID {
			rooms = append(rooms, cloneRoom(room))
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

func (r *roomRepo) Insert(ctx context.Context, room *domain.Room) error {
	r.u.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (r *roomRepo) UpdateByID(ctx context.Context, id string, upd repository.RoomUpdate) (*domain.Room, error) {
	room, ok := r.u.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	if upd.Name != nil {
		room.Name = *upd.Name
	}
	if upd.Description != nil {
		room.Description = *upd.Description
	}
	if upd.Price != nil {
		room.Price = *upd.Price
	}
	if upd.Services != nil {
		room.Services = append([]string(nil), *upd.Services...)
	}
	if upd.Quantity != nil {
		room.Quantity = *upd.Quantity
	}
	if upd.ImageURL != nil {
		room.ImageURL = *upd.ImageURL
	}
	return cloneRoom(room), nil
}

func (r *roomRepo) DeleteByID(ctx context.Context, id string) (*domain.Room, error) {
	room, ok := r.u.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	delete(r.u.rooms, id)
	for bookingID, booking := range r.u.bookings {
		if booking.RoomID == id {
			delete(r.u.bookings, bookingID)
		}
	}
	return room, nil
}

func (r *roomRepo) QuotaUsed(ctx context.Context, hotelID string) (int, error) {
	used := 0
	for _, room := range r.u.rooms {
		if room.HotelID == hotelID {
			used += room.Quantity
		}
	}
	return used, nil
}

func (r *roomRepo) AvailableByHotel(ctx context.Context, hotelID string, window domain.DateRange) ([]*domain.RoomAvailability, error) {
	listings := []*domain.RoomAvailability{}
	for _, room := range r.u.rooms {
		if room.HotelID != hotelID {
			continue
		}
		booked := 0
		for _, b := range r.u.bookings {
			if b.RoomID == room.ID && b.Window().Overlaps(window) {
				booked++
			}
		}
		if left := room.Quantity - booked; left > 0 {
			listings = append(listings, &domain.RoomAvailability{
				Room:      *cloneRoom(room),
				RoomsLeft: left,
				TotalCost: room.Price * window.Days(),
			})
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Price < listings[j].Price })
	return listings, nil
}

type bookingRepo struct{ u *unitOfWork }

func matches(b *domain.Booking, f repository.BookingFilter) bool {
	if f.ID != "" && b.ID != f.ID {
		return false
	}
	if f.RoomID != "" && b.RoomID != f.RoomID {
		return false
	}
	if f.UserID != "" && b.UserID != f.UserID {
		return false
	}
	return true
}

func (r *bookingRepo) FindOne(ctx context.Context, filter repository.BookingFilter) (*domain.Booking, error) {
	for _, b := range r.u.bookings {
		if matches(b, filter) {
			return cloneBooking(b), nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (r *bookingRepo) FindAll(ctx context.Context, filter repository.BookingFilter) ([]*domain.Booking, error) {
	bookings := []*domain.Booking{}
	for _, b := range r.u.bookings {
		if matches(b, filter) {
			bookings = append(bookings, cloneBooking(b))
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].DateFrom.Before(bookings[j].DateFrom) })
	return bookings, nil
}

func (r *bookingRepo) Insert(ctx context.Context, booking *domain.Booking) error {
	r.u.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *bookingRepo) Delete(ctx context.Context, filter repository.BookingFilter) (*domain.Booking, error) {
	for id, b := range r.u.bookings {
		if matches(b, filter) {
			delete(r.u.bookings, id)
			return b, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (r *bookingRepo) CountOverlapping(ctx context.Context, roomID string, window domain.DateRange) (int, error) {
	count := 0
	for _, b := range r.u.bookings {
		if b.RoomID == roomID && b.Window().Overlaps(window) {
			count++
		}
	}
	return count, nil
}

type userRepo struct{ u *unitOfWork }

func (r *userRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.u.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.u.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepo) Insert(ctx context.Context, user *domain.User) error {
	for _, existing := range r.u.users {
		if existing.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	r.u.users[user.ID] = cloneUser(user)
	return nil
}

type sessionRepo struct{ u *unitOfWork }

func (r *sessionRepo) Insert(ctx context.Context, session *domain.RefreshSession) error {
	r.u.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *sessionRepo) FindByToken(ctx context.Context, refreshToken string) (*domain.RefreshSession, error) {
	for _, s := range r.u.sessions {
		if s.RefreshToken == refreshToken {
			return cloneSession(s), nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (r *sessionRepo) DeleteByToken(ctx context.Context, refreshToken string) error {
	for id, s := range r.u.sessions {
		if s.RefreshToken == refreshToken {
			delete(r.u.sessions, id)
			return nil
		}
	}
	return domain.ErrSessionNotFound
}

func (r *sessionRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	for id, s := range r.u.sessions {
		if s.UserID == userID {
			delete(r.u.sessions, id)
		}
	}
	return nil
}

// Package memory provides an in-memory repository bundle used in tests. A
// unit of work holds the store mutex from Begin until Commit or Rollback and
// stages writes on map copies, which models the atomicity and the
// serialization the Postgres implementation gets from its transaction and
// room row lock.
package memory

import (
	"context"
	"sync"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/repository"
)

// Store is an in-memory database. It implements
// repository.UnitOfWorkFactory.
type Store struct {
	mu sync.Mutex

	hotels   map[string]*domain.Hotel
	rooms    map[string]*domain.Room
	bookings map[string]*domain.Booking
	users    map[string]*domain.User
	sessions map[string]*domain.RefreshSession
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		hotels:   make(map[string]*domain.Hotel),
		rooms:    make(map[string]*domain.Room),
		bookings: make(map[string]*domain.Booking),
		users:    make(map[string]*domain.User),
		sessions: make(map[string]*domain.RefreshSession),
	}
}

// Begin locks the store and returns a unit of work staging its writes on
// copies of the data. Exactly one scope runs at a time.
func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	s.mu.Lock()
	u := &unitOfWork{
		store:    s,
		hotels:   cloneMap(s.hotels, cloneHotel),
		rooms:    cloneMap(s.rooms, cloneRoom),
		bookings: cloneMap(s.bookings, cloneBooking),
		users:    cloneMap(s.users, cloneUser),
		sessions: cloneMap(s.sessions, cloneSession),
	}
	return u, nil
}

type unitOfWork struct {
	store *Store
	done  bool

	hotels   map[string]*domain.Hotel
	rooms    map[string]*domain.Room
	bookings map[string]*domain.Booking
	users    map[string]*domain.User
	sessions map[string]*domain.RefreshSession
}

func (u *unitOfWork) Hotels() repository.HotelRepository     { return &hotelRepo{u} }
func (u *unitOfWork) Rooms() repository.RoomRepository       { return &roomRepo{u} }
func (u *unitOfWork) Bookings() repository.BookingRepository { return &bookingRepo{u} }
func (u *unitOfWork) Users() repository.UserRepository       { return &userRepo{u} }
func (u *unitOfWork) Sessions() repository.SessionRepository { return &sessionRepo{u} }

// Commit publishes the staged maps and releases the store.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.store.hotels = u.hotels
	u.store.rooms = u.rooms
	u.store.bookings = u.bookings
	u.store.users = u.users
	u.store.sessions = u.sessions
	u.done = true
	u.store.mu.Unlock()
	return nil
}

// Rollback discards the staged maps and releases the store. A no-op after
// Commit or a previous Rollback.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	u.store.mu.Unlock()
	return nil
}

func cloneMap[T any](src map[string]*T, clone func(*T) *T) map[string]*T {
	dst := make(map[string]*T, len(src))
	for k, v := range src {
		dst[k] = clone(v)
	}
	return dst
}

func cloneHotel(h *domain.Hotel) *domain.Hotel {
	c := *h
	c.Services = append([]string(nil), h.Services...)
	return &c
}

func cloneRoom(r *domain.Room) *domain.Room {
	c := *r
	c.Services = append([]string(nil), r.Services...)
	return &c
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func cloneSession(s *domain.RefreshSession) *domain.RefreshSession {
	c := *s
	return &c
}

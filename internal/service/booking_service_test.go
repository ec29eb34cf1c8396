package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/repository"
	"github.com/DJprogre33/booking-app/internal/repository/memory"
)

type capturePublisher struct {
	mu        sync.Mutex
	created   []string
	cancelled []string
}

func (p *capturePublisher) PublishBookingCreated(ctx context.Context, b *domain.Booking, contact string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, b.ID)
	return nil
}

func (p *capturePublisher) PublishBookingCancelled(ctx context.Context, b *domain.Booking, contact string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, b.ID)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

type fixture struct {
	store *memory.Store

	owner *domain.User
	guest *domain.User
	other *domain.User
	admin *domain.User

	hotel *domain.Hotel
	room  *domain.Room
}

// newFixture seeds a hotel with one room type of the given quantity.
func newFixture(t *testing.T, quantity int) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{store: store}

	var err error
	f.owner, err = domain.NewUser("owner@example.com", "hash", domain.RoleHotelOwner)
	require.NoError(t, err)
	f.guest, err = domain.NewUser("guest@example.com", "hash", domain.RoleUser)
	require.NoError(t, err)
	f.other, err = domain.NewUser("other@example.com", "hash", domain.RoleUser)
	require.NoError(t, err)
	f.admin, err = domain.NewUser("admin@example.com", "hash", domain.RoleAdmin)
	require.NoError(t, err)

	f.hotel, err = domain.NewHotel(f.owner.ID, "Grand Plaza", "Lisbon", []string{"wifi"}, 10)
	require.NoError(t, err)
	f.room, err = domain.NewRoom(f.hotel.ID, "Standard", "", 100, []string{"tv"}, quantity)
	require.NoError(t, err)

	err = repository.Within(context.Background(), store, func(uow repository.UnitOfWork) error {
		for _, u := range []*domain.User{f.owner, f.guest, f.other, f.admin} {
			if err := uow.Users().Insert(context.Background(), u); err != nil {
				return err
			}
		}
		if err := uow.Hotels().Insert(context.Background(), f.hotel); err != nil {
			return err
		}
		return uow.Rooms().Insert(context.Background(), f.room)
	})
	require.NoError(t, err)

	return f
}

func window(daysFromNow, nights int) (time.Time, time.Time) {
	from := time.Now().UTC().AddDate(0, 0, daysFromNow)
	return from, from.AddDate(0, 0, nights)
}

func TestCreateBookingCapacity(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewBookingService(f.store, nil)
	ctx := context.Background()

	from, to := window(10, 3)

	first, err := svc.CreateBooking(ctx, f.room.ID, from, to, f.guest.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, first.Price)
	assert.Equal(t, 300, first.TotalCost())

	_, err = svc.CreateBooking(ctx, f.room.ID, from, to, f.other.ID)
	require.NoError(t, err)

	// Both units taken for the window.
	_, err = svc.CreateBooking(ctx, f.room.ID, from, to, f.admin.ID)
	assert.ErrorIs(t, err, domain.ErrNoRoomsAvailable)

	// Freeing a unit makes the same window bookable again.
	_, err = svc.DeleteBooking(ctx, first.ID, f.guest.ID)
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, f.room.ID, from, to, f.admin.ID)
	assert.NoError(t, err)
}

func TestCreateBookingDisjointWindows(t *testing.T) {
	f := newFixture(t, 1)
	svc := NewBookingService(f.store, nil)
	ctx := context.Background()

	from1, to1 := window(10, 3)

	_, err := svc.CreateBooking(ctx, f.room.ID, from1, to1, f.guest.ID)
	require.NoError(t, err)

	// Checkout day doubles as the next guest's checkin day.
	_, err = svc.CreateBooking(ctx, f.room.ID, to1, to1.AddDate(0, 0, 2), f.other.ID)
	assert.NoError(t, err)

	// An overlapping window is still rejected.
	_, err = svc.CreateBooking(ctx, f.room.ID, from1.AddDate(0, 0, 1), to1.AddDate(0, 0, 1), f.admin.ID)
	assert.ErrorIs(t, err, domain.ErrNoRoomsAvailable)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewBookingService(f.store, nil)
	ctx := context.Background()

	past := time.Now().UTC().AddDate(0, 0, -5)
	_, err := svc.CreateBooking(ctx, f.room.ID, past, past.AddDate(0, 0, 3), f.guest.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	from, _ := window(10, 0)
	_, err = svc.CreateBooking(ctx, f.room.ID, from, from, f.guest.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = svc.CreateBooking(ctx, f.room.ID, from, from.AddDate(0, 0, 91), f.guest.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	// Validation failures must not touch the store.
	left, err := svc.RoomsLeft(ctx, f.room.ID, from, from.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, left)
}

func TestCreateBookingRoomNotFound(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewBookingService(f.store, nil)

	from, to := window(10, 3)
	_, err := svc.CreateBooking(context.Background(), "missing", from, to, f.guest.ID)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestGetBookingScopedToPrincipal(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewBookingService(f.store, nil)
	ctx := context.Background()

	from, to := window(10, 3)
	booking, err := svc.CreateBooking(ctx, f.room.ID, from, to, f.guest.ID)
	require.NoError(t, err)

	got, err := svc.GetBooking(ctx, booking.ID, f.guest.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)

	// Someone else's booking looks exactly like a missing one.
	_, err = svc.GetBooking(ctx, booking.ID, f.other.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	mine, err := svc.ListBookings(ctx, f.guest.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.ListBookings(ctx, f.other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestDeleteBookingAuthorization(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewBookingService(f.store, nil)
	ctx := context.Background()

	from, to := window(10, 3)
	booking, err := svc.CreateBooking(ctx, f.room.ID, from, to, f.guest.ID)
	require.NoError(t, err)

	_, err = svc.DeleteBooking(ctx, booking.ID, f.other.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	deleted, err := svc.DeleteBooking(ctx, booking.ID, f.guest.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, deleted.ID)

	_, err = svc.DeleteBooking(ctx, booking.ID, f.guest.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestDeleteBookingAsAdmin(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewBookingService(f.store, nil)
	ctx := context.Background()

	from, to := window(10, 3)
	booking, err := svc.CreateBooking(ctx, f.room.ID, from, to, f.guest.ID)
	require.NoError(t, err)

	deleted, err := svc.DeleteBooking(ctx, booking.ID, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, f.guest.ID, deleted.UserID)
}

func TestRoomsLeft(t *testing.T) {
	f := newFixture(t, 2)
	svc := NewBookingService(f.store, nil)
	ctx := context.Background()

	from, to := window(10, 3)

	left, err := svc.RoomsLeft(ctx, f.room.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, left)

	_, err = svc.CreateBooking(ctx, f.room.ID, from, to, f.guest.ID)
	require.NoError(t, err)

	left, err = svc.RoomsLeft(ctx, f.room.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, left)

	// Reads are idempotent.
	left, err = svc.RoomsLeft(ctx, f.room.ID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, left)

	// A disjoint window is unaffected.
	left, err = svc.RoomsLeft(ctx, f.room.ID, to, to.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, left)
}

func TestCreateBookingPublishesEvent(t *testing.T) {
	f := newFixture(t, 2)
	pub := &capturePublisher{}
	svc := NewBookingService(f.store, pub)
	ctx := context.Background()

	from, to := window(10, 3)
	booking, err := svc.CreateBooking(ctx, f.room.ID, from, to, f.guest.ID)
	require.NoError(t, err)

	pub.mu.Lock()
	assert.Equal(t, []string{booking.ID}, pub.created)
	pub.mu.Unlock()

	_, err = svc.DeleteBooking(ctx, booking.ID, f.guest.ID)
	require.NoError(t, err)

	pub.mu.Lock()
	assert.Equal(t, []string{booking.ID}, pub.cancelled)
	pub.mu.Unlock()
}

func TestConcurrentCreateNoOverbooking(t *testing.T) {
	f := newFixture(t, 1)
	svc := NewBookingService(f.store, nil)

	from, to := window(10, 3)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), f.room.ID, from, to, f.guest.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case err == domain.ErrNoRoomsAvailable:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
}

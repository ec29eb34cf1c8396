package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUnitOfWorkFactory starts units of work on a pgxpool connection pool.
type PgxUnitOfWorkFactory struct {
	pool *pgxpool.Pool
}

// NewPgxUnitOfWorkFactory creates a factory over the given pool.
func NewPgxUnitOfWorkFactory(pool *pgxpool.Pool) *PgxUnitOfWorkFactory {
	return &PgxUnitOfWorkFactory{pool: pool}
}

// Begin opens a transaction and binds one repository bundle to it.
func (f *PgxUnitOfWorkFactory) Begin(ctx context.Context) (UnitOfWork, error) {
	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return newPgxUnitOfWork(tx), nil
}

// pgxUnitOfWork lends repositories bound to a single pgx.Tx. The handles are
// created on scope entry and must not outlive the scope.
type pgxUnitOfWork struct {
	tx pgx.Tx

	hotels   HotelRepository
	rooms    RoomRepository
	bookings BookingRepository
	users    UserRepository
	sessions SessionRepository
}

func newPgxUnitOfWork(tx pgx.Tx) *pgxUnitOfWork {
	return &pgxUnitOfWork{
		tx:       tx,
		hotels:   NewPostgresHotelRepository(tx),
		rooms:    NewPostgresRoomRepository(tx),
		bookings: NewPostgresBookingRepository(tx),
		users:    NewPostgresUserRepository(tx),
		sessions: NewPostgresSessionRepository(tx),
	}
}

func (u *pgxUnitOfWork) Hotels() HotelRepository     { return u.hotels }
func (u *pgxUnitOfWork) Rooms() RoomRepository       { return u.rooms }
func (u *pgxUnitOfWork) Bookings() BookingRepository { return u.bookings }
func (u *pgxUnitOfWork) Users() UserRepository       { return u.users }
func (u *pgxUnitOfWork) Sessions() SessionRepository { return u.sessions }

// Commit makes the scope's writes durable.
func (u *pgxUnitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback undoes the scope's writes. Calling it after Commit or a previous
// Rollback is a no-op, which lets callers defer it unconditionally.
func (u *pgxUnitOfWork) Rollback(ctx context.Context) error {
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

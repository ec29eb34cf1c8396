package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/repository/memory"
)

func newAuthService(store *memory.Store) AuthService {
	return NewAuthService(store, AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		BcryptCost:      bcrypt.MinCost,
	})
}

func TestRegisterAndValidate(t *testing.T) {
	svc := newAuthService(memory.NewStore())
	ctx := context.Background()

	pair, err := svc.Register(ctx, "alice@example.com", "s3cretpass", "")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, domain.RoleUser, pair.User.Role)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, pair.User.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(memory.NewStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob@example.com", "s3cretpass", domain.RoleHotelOwner)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob@example.com", "otherpass", "")
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestRegisterInvalidRole(t *testing.T) {
	svc := newAuthService(memory.NewStore())

	_, err := svc.Register(context.Background(), "eve@example.com", "s3cretpass", "superadmin")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(memory.NewStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol@example.com", "s3cretpass", "")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "carol@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", pair.User.Email)

	_, err = svc.Login(ctx, "carol@example.com", "wrongpass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown email gets the same answer as a wrong password.
	_, err = svc.Login(ctx, "nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc := newAuthService(memory.NewStore())
	ctx := context.Background()

	pair, err := svc.Register(ctx, "dave@example.com", "s3cretpass", "")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The consumed token cannot be replayed.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = svc.Refresh(ctx, next.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshExpiredSession(t *testing.T) {
	store := memory.NewStore()
	svc := NewAuthService(store, AuthConfig{
		JWTSecret:       "test-secret",
		RefreshTokenTTL: -time.Minute,
		BcryptCost:      bcrypt.MinCost,
	})
	ctx := context.Background()

	pair, err := svc.Register(ctx, "frank@example.com", "s3cretpass", "")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	// The expired session was consumed by the failed refresh.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	svc := newAuthService(memory.NewStore())
	ctx := context.Background()

	pair, err := svc.Register(ctx, "grace@example.com", "s3cretpass", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	err = svc.Logout(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogoutAll(t *testing.T) {
	svc := newAuthService(memory.NewStore())
	ctx := context.Background()

	pair, err := svc.Register(ctx, "heidi@example.com", "s3cretpass", "")
	require.NoError(t, err)
	second, err := svc.Login(ctx, "heidi@example.com", "s3cretpass")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, pair.User.ID))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

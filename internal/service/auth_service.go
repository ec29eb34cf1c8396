package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/DJprogre33/booking-app/internal/domain"
	"github.com/DJprogre33/booking-app/internal/logger"
	"github.com/DJprogre33/booking-app/internal/repository"
	"github.com/DJprogre33/booking-app/internal/telemetry"
)

// AuthConfig holds token signing and lifetime settings.
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int
}

// TokenPair is the result of a successful authentication.
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         *domain.User `json:"user"`
}

// AuthService registers principals and issues, rotates and revokes tokens.
type AuthService interface {
	// Register creates a principal with the given role and logs it in.
	// An empty role defaults to the regular user role.
	Register(ctx context.Context, email, password string, role domain.Role) (*TokenPair, error)

	// Login verifies credentials and opens a refresh session.
	Login(ctx context.Context, email, password string) (*TokenPair, error)

	// Refresh trades a valid refresh token for a new pair. The old session
	// is always consumed, even when the token turns out to be expired.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the single refresh session.
	Logout(ctx context.Context, refreshToken string) error

	// LogoutAll revokes every refresh session of the principal.
	LogoutAll(ctx context.Context, userID string) error

	// ValidateToken verifies an access token signature and returns claims.
	ValidateToken(tokenString string) (*domain.Claims, error)

	// GetUser returns the principal by id.
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type authService struct {
	factory repository.UnitOfWorkFactory
	config  AuthConfig
}

// NewAuthService creates an auth service
func NewAuthService(factory repository.UnitOfWorkFactory, cfg AuthConfig) AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL == 0 {
		cfg.RefreshTokenTTL = 30 * 24 * time.Hour
	}
	return &authService{factory: factory, config: cfg}
}

func (s *authService) Register(ctx context.Context, email, password string, role domain.Role) (*TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	if role == "" {
		role = domain.RoleUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(email, string(hashed), role)
	if err != nil {
		return nil, err
	}

	var session *domain.RefreshSession
	err = repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		if err := uow.Users().Insert(ctx, user); err != nil {
			return err
		}
		session = domain.NewRefreshSession(user.ID, s.config.RefreshTokenTTL)
		return uow.Sessions().Insert(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return s.tokenPair(user, session)
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	var (
		user    *domain.User
		session *domain.RefreshSession
	)
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		var err error
		user, err = uow.Users().FindByEmail(ctx, email)
		if err != nil {
			// Same answer for unknown email and wrong password.
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrInvalidCredentials
			}
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
			return domain.ErrInvalidCredentials
		}

		session = domain.NewRefreshSession(user.ID, s.config.RefreshTokenTTL)
		return uow.Sessions().Insert(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	return s.tokenPair(user, session)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.Refresh")
	defer span.End()

	var (
		user    *domain.User
		session *domain.RefreshSession
		expired bool
	)
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		old, err := uow.Sessions().FindByToken(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return domain.ErrInvalidToken
			}
			return err
		}

		// Rotation: the presented token is single use.
		if err := uow.Sessions().DeleteByToken(ctx, refreshToken); err != nil {
			return err
		}
		if old.IsExpired() {
			// Commit so the stale session is consumed.
			expired = true
			return nil
		}

		user, err = uow.Users().FindByID(ctx, old.UserID)
		if err != nil {
			return err
		}

		session = domain.NewRefreshSession(user.ID, s.config.RefreshTokenTTL)
		return uow.Sessions().Insert(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, domain.ErrTokenExpired
	}

	return s.tokenPair(user, session)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.Logout")
	defer span.End()

	return repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		err := uow.Sessions().DeleteByToken(ctx, refreshToken)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	})
}

func (s *authService) LogoutAll(ctx context.Context, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.LogoutAll")
	defer span.End()

	return repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		return uow.Sessions().DeleteAllByUser(ctx, userID)
	})
}

func (s *authService) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	roleStr, _ := claims["role"].(string)

	return &domain.Claims{
		UserID: userID,
		Email:  email,
		Role:   domain.Role(roleStr),
	}, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "AuthService.GetUser")
	defer span.End()

	var user *domain.User
	err := repository.Within(ctx, s.factory, func(uow repository.UnitOfWork) error {
		var err error
		user, err = uow.Users().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) tokenPair(user *domain.User, session *domain.RefreshSession) (*TokenPair, error) {
	expiresAt := time.Now().Add(s.config.AccessTokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     user.ID,
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  signed,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

package domain

import "errors"

// Domain errors
var (
	// Booking errors
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNoRoomsAvailable = errors.New("no rooms available for the requested dates")

	// Hotel / room errors
	ErrHotelNotFound     = errors.New("hotel not found")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomQuotaExceeded = errors.New("room quantity exceeds the hotel's declared total")

	// Validation errors
	ErrInvalidDateRange = errors.New("date range must start today or later and span 1 to 90 days")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidPrice     = errors.New("price must be greater than zero")
	ErrInvalidRole      = errors.New("unknown user role")

	// Authorization errors
	ErrAccessDenied = errors.New("access denied")

	// User / auth errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrSessionNotFound    = errors.New("session not found")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrHotelNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidRole)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrNoRoomsAvailable) ||
		errors.Is(err, ErrRoomQuotaExceeded) ||
		errors.Is(err, ErrUserAlreadyExists)
}

// IsForbiddenError checks if the error is an authorization error
func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsAuthError checks if the error is an authentication error
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenExpired)
}

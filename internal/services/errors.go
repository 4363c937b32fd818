package services

import "errors"

var (
	// ErrFieldsRequired is returned when a request is missing required fields.
	ErrFieldsRequired = errors.New("all fields required")
	// ErrUserExists is returned when a signup targets a phone or email already in use.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailTaken is returned when a profile update targets another account's email.
	ErrEmailTaken = errors.New("email already in use by another account")
	// ErrUserNotFound is returned when no confirmed account matches the request.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCode is returned when the gateway rejects an OTP code.
	ErrInvalidCode = errors.New("invalid or expired OTP")
	// ErrSignupExpired is returned when no pending signup exists at confirm time.
	ErrSignupExpired = errors.New("signup session expired")
	// ErrGateway is returned when the OTP gateway fails or refuses to send a code.
	ErrGateway = errors.New("failed to send OTP")
)

package models

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrConfiguration      = errors.New("configuration error")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmptyRecord        = errors.New("record text cannot be empty")
	ErrRecordTooLong      = errors.New("record text too long")
	ErrCSRFToken          = errors.New("missing or invalid csrf token")
)

package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrFetchFailed       = errors.New("document fetch failed")
	ErrMailNotConfigured = errors.New("mail transport not configured")
	ErrMailAuth          = errors.New("mail authentication rejected")
	ErrMailSend          = errors.New("mail send failed")
)

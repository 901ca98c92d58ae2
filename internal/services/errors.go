package services

import "errors"

// Common service errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidState        = errors.New("invalid state transition")
	ErrDuplicate           = errors.New("duplicate record")
	ErrInvalidRecoveryCode = errors.New("recovery code is invalid or expired")
	ErrInsufficientAmount  = errors.New("amount is not enough to cover the outstanding balance")
)

package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrIdentityNotFound = errors.New("identity not found")
	ErrIdentityBlocked  = errors.New("identity is blocked")
	ErrUsernameExists   = errors.New("username already exists")

	// Score errors
	ErrScoreNotFound = errors.New("score record not found")

	// Credential errors
	ErrInvalidToken = errors.New("invalid or expired token")
)

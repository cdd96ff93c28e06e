package common

import "errors"

var (

	// repository specific errors
	ErrNotFound      = errors.New("not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrDuplicatePath = errors.New("storage path already exists")

	// service specific errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrMissingEmail        = errors.New("email is required")
	ErrMissingRegistration = errors.New("name, email and location are required")
)

var ErrMissingFields = errors.New("query and email are required")

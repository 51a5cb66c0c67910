package repository

import "errors"

var (
	ErrNotFound       = errors.New("entity not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

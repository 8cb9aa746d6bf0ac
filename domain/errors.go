package domain

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("record conflicts with an existing one")
	ErrInvalidReference  = errors.New("referenced record does not exist")
	ErrInsufficientStock = errors.New("insufficient stock")
)

package errors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrInvalidTransition = errors.New("invalid state changing")
	ErrInvalidParameters = errors.New("invalid parameters")
)

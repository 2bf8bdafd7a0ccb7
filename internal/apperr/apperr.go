// Package apperr holds the error kinds shared by every domain package.
// Domain code wraps them with context; transport code maps them with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

package store

import "errors"

var (
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrStatusChanged = errors.New("status changed concurrently")
	ErrDuplicateID   = errors.New("duplicate id")
)

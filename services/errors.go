package services

import "errors"

// Sentinel errors shared by all services. Controllers map these to HTTP
// statuses; services wrap them with context via fmt.Errorf("...: %w", ...).
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrStorage      = errors.New("storage failure")
)

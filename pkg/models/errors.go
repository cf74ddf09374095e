package models

import "errors"

var (
	ErrValidation  = errors.New("invalid request")
	ErrTranslation = errors.New("calculator result could not be translated")
	ErrComputation = errors.New("calculator failure")
	ErrNotFound    = errors.New("cached record not found")
)

package entity

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrVersionConflict    = errors.New("document was modified by another user")
	ErrInvalidStatus      = errors.New("status is not valid for this document kind")
	ErrInvalidKind        = errors.New("unknown document kind")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTranslatorDisabled = errors.New("translation is not configured")
)

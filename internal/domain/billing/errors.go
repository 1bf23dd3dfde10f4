package billing

import "errors"

var (
	// ErrItemIndexOutOfRange is returned when an editor index does not address a row
	ErrItemIndexOutOfRange = errors.New("line item index out of range")

	// ErrUnknownItemField is returned for fields other than description, quantity and unitPrice
	ErrUnknownItemField = errors.New("unknown line item field")

	// ErrInvalidNumber is returned when a numeric field receives non-numeric text
	ErrInvalidNumber = errors.New("value is not a number")

	// ErrSubmitInProgress is returned when a form is submitted while a save is running
	ErrSubmitInProgress = errors.New("submission already in progress")
)

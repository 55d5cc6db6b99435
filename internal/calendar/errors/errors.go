package errors

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")

	ErrInvalidID = errors.New("invalid listing ID format")
)

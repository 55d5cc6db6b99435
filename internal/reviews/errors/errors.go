package errors

import "errors"

var (
	ErrNotFound        = errors.New("review not found")
	ErrInvalidID       = errors.New("invalid review id")
	ErrAlreadyReviewed = errors.New("booking already reviewed")
)

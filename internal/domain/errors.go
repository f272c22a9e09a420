package domain

import "errors"

var (
	// ErrProductNotFound is returned when a barcode or detail lookup reports
	// that no such product exists. The request itself succeeded.
	ErrProductNotFound = errors.New("product not found")

	// ErrAPIFailure is returned when an Open Food Facts request fails at the
	// transport or protocol level, at any stage of a search.
	ErrAPIFailure = errors.New("Open Food Facts API request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrSessionClosed is returned when an operation is invoked on a list
	// session after Close.
	ErrSessionClosed = errors.New("session closed")
)

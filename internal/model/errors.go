package model

import "errors"

var (
	ErrNotFound              = errors.New("no bars for symbol")
	ErrInsufficientData      = errors.New("insufficient data")
	ErrDegenerateComputation = errors.New("degenerate computation")
	ErrMalformedBar          = errors.New("malformed bar")
	ErrInvalidRequest        = errors.New("invalid request")
)

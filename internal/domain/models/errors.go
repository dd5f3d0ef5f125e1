package models

import "errors"

var (
	ErrDataUnavailable     = errors.New("data unavailable")
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrEmptyUniverse       = errors.New("empty universe")
	ErrNoConfig            = errors.New("configuration missing")
	ErrUnknownSymbol       = errors.New("symbol not in universe")
)

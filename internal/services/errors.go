package services

import "errors"

// Transform service errors
var (
	ErrMissingTickers = errors.New("tickers required")
	ErrInvalidInput   = errors.New("invalid input")
)

package service

import "errors"

var (
	// ErrInvalidInput wraps every validation failure of a request
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned for bad credentials or signatures
	ErrUnauthorized = errors.New("unauthorized")
)

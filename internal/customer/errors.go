package customer

import "errors"

var (
	ErrNotFound      = errors.New("customer: not found")
	ErrAlreadyExists = errors.New("customer: email already registered")
	ErrInvalidInput  = errors.New("customer: invalid input")
)

package errors

import "errors"

var (
	ErrNotFound = errors.New("cart not found")

	ErrItemNotFound = errors.New("cart item not found")

	ErrServiceUnknown = errors.New("service not found in catalog")
)

// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// Validation represents a validation error in the application.
type Validation struct {
	base
}

// Error returns the error message for Validation.
func (v Validation) Error() string {
	return v.error()
}

// Unwrap returns the wrapped cause of the Validation error.
func (v Validation) Unwrap() error {
	return v.unwrap()
}

// NewValidation creates a new Validation error with the provided message.
func NewValidation(message string, err ...error) Validation {
	return Validation{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// Unauthorized represents an authentication failure in the application.
type Unauthorized struct {
	base
}

// Error returns the error message for Unauthorized.
func (u Unauthorized) Error() string {
	return u.error()
}

// NewUnauthorized creates a new Unauthorized error with the provided message.
func NewUnauthorized(message string, err ...error) Unauthorized {
	return Unauthorized{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

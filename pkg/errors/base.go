// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package errors

import "fmt"

// base is a struct that holds the common fields for error types
type base struct {
	message string
	err     error
}

// error is a method that returns the error message for the base struct
// any changes to the error message here will be reflected in all error types that embed base
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// unwrap exposes the wrapped cause so errors.Is and errors.As can walk
// through the typed wrappers
func (b base) unwrap() error {
	return b.err
}

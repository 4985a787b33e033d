// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package constants

const (
	// DefaultSampleSize is the default number of hits returned alongside
	// aggregation results when the caller does not ask for a specific size
	DefaultSampleSize = 10

	// MaxSampleSize caps the number of hits a single run may return
	MaxSampleSize = 100

	// NonceSize is the secretbox nonce length used by the page token codec
	NonceSize = 24
)

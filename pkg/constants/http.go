// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package constants

type contextKey string

const (
	// RequestIDHeader is the header name for the request ID
	RequestIDHeader = "X-REQUEST-ID"

	// RequestIDContextID is the context key under which the request ID is stored
	RequestIDContextID contextKey = "request_id"

	// PrincipalContextID is the context key under which the authenticated
	// principal is stored by the auth middleware
	PrincipalContextID contextKey = "principal"

	// AnonymousPrincipal is the principal used when no bearer token was presented
	AnonymousPrincipal = "_anonymous"
)

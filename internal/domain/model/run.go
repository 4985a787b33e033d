// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package model

import "encoding/json"

// RunCriteria encapsulates all parameters of a run of a built pipeline
// aggregation against the search backend
type RunCriteria struct {
	// Name is the aggregation name the pipeline document is registered
	// under in the search body
	Name string
	// Pipeline is the built operator document
	Pipeline Document
	// Index overrides the backend's configured index when non-empty
	Index string
	// Siblings holds the sibling aggregations the pipeline's bucket paths
	// reference, as raw JSON supplied by the caller
	Siblings json.RawMessage
	// Query is an optional filter query narrowing the document set
	Query json.RawMessage
	// SampleSize is the number of hits to return alongside the
	// aggregation results
	SampleSize int
	// PageToken is the opaque token for hit pagination
	PageToken *string
	// SearchAfter is the decoded page token; set internally, not by callers
	SearchAfter *string
}

// RunResult contains the outcome of running an aggregation
type RunResult struct {
	// Aggregations holds the engine's aggregation results verbatim
	Aggregations json.RawMessage
	// Hits sampled from the matched documents
	Hits []Hit
	// Total number of matched documents
	Total int
	// PageToken is set when more hits are available
	PageToken *string
}

// Hit is a single sampled document
type Hit struct {
	ID     string          `json:"id"`
	Score  float64         `json:"score"`
	Source json.RawMessage `json:"source"`
}

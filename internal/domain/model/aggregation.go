// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
)

// Document is a JSON-compatible aggregation document: a single-key mapping
// whose key is the operator name and whose value is the operator's field map.
type Document map[string]any

// GapPolicy controls how a pipeline aggregation treats buckets with missing
// data. The wire tokens are the vocabulary the search engine expects; no
// other values are valid.
type GapPolicy string

const (
	// GapPolicySkip omits gaps from the computation
	GapPolicySkip GapPolicy = "skip"
	// GapPolicyInsertZeros treats missing bucket values as zero
	GapPolicyInsertZeros GapPolicy = "insert_zeros"
)

// Valid reports whether the gap policy is one of the two known variants
func (g GapPolicy) Valid() bool {
	return g == GapPolicySkip || g == GapPolicyInsertZeros
}

// ParseGapPolicy converts a wire token into a GapPolicy, rejecting every
// token outside the two-value vocabulary
func ParseGapPolicy(token string) (GapPolicy, error) {
	policy := GapPolicy(token)
	if !policy.Valid() {
		return "", fmt.Errorf("unknown gap policy %q (valid values: %q, %q)", token, GapPolicySkip, GapPolicyInsertZeros)
	}
	return policy, nil
}

// AvgBucketParams encapsulates the parameters of an avg_bucket build.
// Nil optionals are absent, never defaulted.
type AvgBucketParams struct {
	// BucketPath references a sibling aggregation's bucket output
	BucketPath string
	// GapPolicy controls missing-bucket handling
	GapPolicy *GapPolicy
	// Format is an engine-specific numeric display format, passed through verbatim
	Format *int64
}

// BucketScriptParams encapsulates the parameters of a bucket_script build
type BucketScriptParams struct {
	// Script is the expression evaluated by the search engine
	Script string
	// BucketPathVars are the variable names referenced by the script
	BucketPathVars []string
	// BucketPathParams are the bucket path expressions, paired with
	// BucketPathVars by index
	BucketPathParams []string
	// GapPolicy controls missing-bucket handling
	GapPolicy *GapPolicy
	// Format is an engine-specific numeric display format, passed through verbatim
	Format *int64
}

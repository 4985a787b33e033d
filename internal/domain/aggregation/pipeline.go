// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

// Package aggregation builds pipeline aggregation documents for the search
// engine's query language. Every builder follows the same template: validate
// the operator's shape constraints, assemble a field map omitting absent
// optionals, and wrap it under the operator's canonical name.
//
// https://www.elastic.co/guide/en/elasticsearch/reference/7.9/search-aggregations-pipeline-avg-bucket-aggregation.html
package aggregation

import (
	"fmt"

	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
)

// Operator names as the search engine knows them
const (
	OperatorAvgBucket    = "avg_bucket"
	OperatorBucketScript = "bucket_script"
)

// ArityMismatchError reports that the bucket path variable and parameter
// sequences of a bucket_script build had different lengths. No document is
// produced when this is returned.
type ArityMismatchError struct {
	Vars   int
	Params int
}

// Error returns the error message for ArityMismatchError.
func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("not the same number of bucket path variables (%d) and parameters (%d) given", e.Vars, e.Params)
}

// AvgBucket builds an avg_bucket pipeline aggregation document. The gap
// policy and format fields are entirely absent from the document when nil;
// the engine distinguishes a missing key from an explicit null.
func AvgBucket(bucketPath string, gapPolicy *model.GapPolicy, format *int64) model.Document {
	fields := map[string]any{
		"bucket_path": bucketPath,
	}
	applyOptions(fields, gapPolicy, format)

	return model.Document{
		OperatorAvgBucket: fields,
	}
}

// BucketScript builds a bucket_script pipeline aggregation document. The
// variable and path sequences are zipped pairwise into the bucket_path map;
// a duplicate variable name overwrites the earlier entry. Unequal sequence
// lengths fail with an *ArityMismatchError before any document is built.
func BucketScript(script string, bucketPathVars, bucketPathParams []string, gapPolicy *model.GapPolicy, format *int64) (model.Document, error) {
	if len(bucketPathVars) != len(bucketPathParams) {
		return nil, &ArityMismatchError{
			Vars:   len(bucketPathVars),
			Params: len(bucketPathParams),
		}
	}

	bucketPath := make(map[string]string, len(bucketPathVars))
	for i, name := range bucketPathVars {
		bucketPath[name] = bucketPathParams[i]
	}

	fields := map[string]any{
		"script":      script,
		"bucket_path": bucketPath,
	}
	applyOptions(fields, gapPolicy, format)

	return model.Document{
		OperatorBucketScript: fields,
	}, nil
}

// applyOptions adds the optional fields shared by every pipeline operator,
// skipping the ones that were not supplied
func applyOptions(fields map[string]any, gapPolicy *model.GapPolicy, format *int64) {
	if gapPolicy != nil {
		fields["gap_policy"] = *gapPolicy
	}
	if format != nil {
		fields["format"] = *format
	}
}

// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"

	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
)

// avgBucketRequest is the wire form of an avg_bucket build request
type avgBucketRequest struct {
	BucketPath string  `json:"bucket_path"`
	GapPolicy  *string `json:"gap_policy,omitempty"`
	Format     *int64  `json:"format,omitempty"`
}

// bucketScriptRequest is the wire form of a bucket_script build request
type bucketScriptRequest struct {
	Script           string   `json:"script"`
	BucketPathVars   []string `json:"bucket_path_vars"`
	BucketPathParams []string `json:"bucket_path_params"`
	GapPolicy        *string  `json:"gap_policy,omitempty"`
	Format           *int64   `json:"format,omitempty"`
}

// runRequest is the wire form of a run request. Aggregation carries a
// previously built pipeline document; Siblings the aggregations it references.
type runRequest struct {
	Name        string          `json:"name"`
	Aggregation model.Document  `json:"aggregation"`
	Index       string          `json:"index,omitempty"`
	Siblings    json.RawMessage `json:"siblings,omitempty"`
	Query       json.RawMessage `json:"query,omitempty"`
	SampleSize  int             `json:"sample_size,omitempty"`
	PageToken   *string         `json:"page_token,omitempty"`
}

// runResponse is the wire form of a run result
type runResponse struct {
	Aggregations json.RawMessage `json:"aggregations"`
	Hits         []model.Hit     `json:"hits"`
	Total        int             `json:"total"`
	PageToken    *string         `json:"page_token,omitempty"`
}

// errorResponse is the wire form of any failed request
type errorResponse struct {
	Error string `json:"error"`
}

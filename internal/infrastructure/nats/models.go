// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package nats

import (
	"time"

	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
)

// Subjects answered by the build responder
const (
	// SubjectBuildAvgBucket carries avg_bucket build requests
	SubjectBuildAvgBucket = "aggs.build.avg_bucket"
	// SubjectBuildBucketScript carries bucket_script build requests
	SubjectBuildBucketScript = "aggs.build.bucket_script"
)

// Config represents NATS configuration
type Config struct {
	URL           string
	Timeout       time.Duration
	MaxReconnect  int
	ReconnectWait time.Duration
}

// AvgBucketRequest is the wire form of an avg_bucket build request
type AvgBucketRequest struct {
	BucketPath string  `json:"bucket_path"`
	GapPolicy  *string `json:"gap_policy,omitempty"`
	Format     *int64  `json:"format,omitempty"`
}

// BucketScriptRequest is the wire form of a bucket_script build request
type BucketScriptRequest struct {
	Script           string   `json:"script"`
	BucketPathVars   []string `json:"bucket_path_vars"`
	BucketPathParams []string `json:"bucket_path_params"`
	GapPolicy        *string  `json:"gap_policy,omitempty"`
	Format           *int64   `json:"format,omitempty"`
}

// BuildResponse is the wire form of a build reply. Exactly one of
// Aggregation and Error is set.
type BuildResponse struct {
	Aggregation model.Document `json:"aggregation,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/searchcraft/aggs-builder-service/internal/domain/aggregation"
	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
	"github.com/searchcraft/aggs-builder-service/internal/service"
	errs "github.com/searchcraft/aggs-builder-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Handler exposes the aggregation build and run operations over HTTP
type Handler struct {
	builder *service.AggregationBuild
	runner  *service.AggregationRun
}

// BuildAvgBucket handles POST /aggregations/avg-bucket
func (h *Handler) BuildAvgBucket(c *gin.Context) {
	var request avgBucketRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, errs.NewValidation("invalid request body", err))
		return
	}

	gapPolicy, err := decodeGapPolicy(request.GapPolicy)
	if err != nil {
		respondError(c, err)
		return
	}

	document, err := h.builder.BuildAvgBucket(c.Request.Context(), model.AvgBucketParams{
		BucketPath: request.BucketPath,
		GapPolicy:  gapPolicy,
		Format:     request.Format,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, document)
}

// BuildBucketScript handles POST /aggregations/bucket-script
func (h *Handler) BuildBucketScript(c *gin.Context) {
	var request bucketScriptRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, errs.NewValidation("invalid request body", err))
		return
	}

	gapPolicy, err := decodeGapPolicy(request.GapPolicy)
	if err != nil {
		respondError(c, err)
		return
	}

	document, err := h.builder.BuildBucketScript(c.Request.Context(), model.BucketScriptParams{
		Script:           request.Script,
		BucketPathVars:   request.BucketPathVars,
		BucketPathParams: request.BucketPathParams,
		GapPolicy:        gapPolicy,
		Format:           request.Format,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, document)
}

// Run handles POST /aggregations/run
func (h *Handler) Run(c *gin.Context) {
	var request runRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondError(c, errs.NewValidation("invalid request body", err))
		return
	}

	result, err := h.runner.Run(c.Request.Context(), model.RunCriteria{
		Name:       request.Name,
		Pipeline:   request.Aggregation,
		Index:      request.Index,
		Siblings:   request.Siblings,
		Query:      request.Query,
		SampleSize: request.SampleSize,
		PageToken:  request.PageToken,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, runResponse{
		Aggregations: result.Aggregations,
		Hits:         result.Hits,
		Total:        result.Total,
		PageToken:    result.PageToken,
	})
}

// Livez handles GET /livez
func (h *Handler) Livez(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Readyz handles GET /readyz
func (h *Handler) Readyz(c *gin.Context) {
	if err := h.runner.Ready(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, "OK")
}

// decodeGapPolicy parses an optional wire token into a gap policy
func decodeGapPolicy(token *string) (*model.GapPolicy, error) {
	if token == nil {
		return nil, nil
	}
	policy, err := model.ParseGapPolicy(*token)
	if err != nil {
		return nil, errs.NewValidation(err.Error())
	}
	return &policy, nil
}

// respondError maps domain and application errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed", "error", err)

	var (
		validation  errs.Validation
		unauth      errs.Unauthorized
		unavailable errs.ServiceUnavailable
		arity       *aggregation.ArityMismatchError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &arity), errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &unauth):
		status = http.StatusUnauthorized
	case errors.As(err, &unavailable):
		status = http.StatusServiceUnavailable
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

// NewHandler creates a new API handler
func NewHandler(builder *service.AggregationBuild, runner *service.AggregationRun) *Handler {
	return &Handler{
		builder: builder,
		runner:  runner,
	}
}

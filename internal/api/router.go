// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/searchcraft/aggs-builder-service/internal/domain/port"
	"github.com/searchcraft/aggs-builder-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all routes and middleware mounted
func NewRouter(handler *Handler, authenticator port.Authenticator, mode string) *gin.Engine {
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Principal(authenticator))

	aggregations := router.Group("/aggregations")
	{
		aggregations.POST("/avg-bucket", handler.BuildAvgBucket)
		aggregations.POST("/bucket-script", handler.BuildBucketScript)
		aggregations.POST("/run", handler.Run)
	}

	router.GET("/livez", handler.Livez)
	router.GET("/readyz", handler.Readyz)

	return router
}

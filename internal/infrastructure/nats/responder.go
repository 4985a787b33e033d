// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
	"github.com/searchcraft/aggs-builder-service/internal/service"

	"github.com/nats-io/nats.go"
)

// NATSSubscriber defines the connection operations the responder needs
// This allows for easy mocking and testing
type NATSSubscriber interface {
	Subscribe(subject string, handler nats.MsgHandler) (*nats.Subscription, error)
	Close() error
}

// BuildResponder answers pipeline aggregation build requests over NATS
// request/reply for in-cluster callers
type BuildResponder struct {
	client  NATSSubscriber
	builder *service.AggregationBuild
}

// Start subscribes the responder to the build subjects
func (r *BuildResponder) Start(ctx context.Context) error {
	subscriptions := map[string]func(context.Context, []byte) []byte{
		SubjectBuildAvgBucket:    r.HandleAvgBucket,
		SubjectBuildBucketScript: r.HandleBucketScript,
	}

	for subject, handle := range subscriptions {
		handle := handle
		_, err := r.client.Subscribe(subject, func(msg *nats.Msg) {
			reply := handle(ctx, msg.Data)
			if err := msg.Respond(reply); err != nil {
				slog.ErrorContext(ctx, "failed to respond to NATS build request",
					"subject", msg.Subject,
					"error", err,
				)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		slog.InfoContext(ctx, "NATS build subject subscribed", "subject", subject)
	}

	return nil
}

// Close drains the underlying connection
func (r *BuildResponder) Close() error {
	return r.client.Close()
}

// HandleAvgBucket decodes an avg_bucket build request and replies with the
// built document or an error payload
func (r *BuildResponder) HandleAvgBucket(ctx context.Context, data []byte) []byte {
	var request AvgBucketRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return errorResponse(ctx, fmt.Errorf("invalid avg_bucket request: %w", err))
	}

	gapPolicy, err := decodeGapPolicy(request.GapPolicy)
	if err != nil {
		return errorResponse(ctx, err)
	}

	document, err := r.builder.BuildAvgBucket(ctx, model.AvgBucketParams{
		BucketPath: request.BucketPath,
		GapPolicy:  gapPolicy,
		Format:     request.Format,
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return documentResponse(ctx, document)
}

// HandleBucketScript decodes a bucket_script build request and replies with
// the built document or an error payload
func (r *BuildResponder) HandleBucketScript(ctx context.Context, data []byte) []byte {
	var request BucketScriptRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return errorResponse(ctx, fmt.Errorf("invalid bucket_script request: %w", err))
	}

	gapPolicy, err := decodeGapPolicy(request.GapPolicy)
	if err != nil {
		return errorResponse(ctx, err)
	}

	document, err := r.builder.BuildBucketScript(ctx, model.BucketScriptParams{
		Script:           request.Script,
		BucketPathVars:   request.BucketPathVars,
		BucketPathParams: request.BucketPathParams,
		GapPolicy:        gapPolicy,
		Format:           request.Format,
	})
	if err != nil {
		return errorResponse(ctx, err)
	}

	return documentResponse(ctx, document)
}

// decodeGapPolicy parses an optional wire token into a gap policy
func decodeGapPolicy(token *string) (*model.GapPolicy, error) {
	if token == nil {
		return nil, nil
	}
	policy, err := model.ParseGapPolicy(*token)
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func documentResponse(ctx context.Context, document model.Document) []byte {
	reply, err := json.Marshal(BuildResponse{Aggregation: document})
	if err != nil {
		return errorResponse(ctx, err)
	}
	return reply
}

func errorResponse(ctx context.Context, err error) []byte {
	slog.ErrorContext(ctx, "NATS build request failed", "error", err)

	reply, errMarshal := json.Marshal(BuildResponse{Error: err.Error()})
	if errMarshal != nil {
		// marshaling a flat string cannot realistically fail
		return []byte(`{"error": "internal error"}`)
	}
	return reply
}

// NewBuildResponder creates a new build responder on the given connection
func NewBuildResponder(client NATSSubscriber, builder *service.AggregationBuild) *BuildResponder {
	return &BuildResponder{
		client:  client,
		builder: builder,
	}
}

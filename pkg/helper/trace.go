package helper

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yantoz/finderex/pkg/log"
)

// metaRequestID is the request metadata key carrying the client's request id.
const metaRequestID = "finderex/requestId"

// withTracing wraps a tool handler with an OpenTelemetry span and a logger
// tagged with the tool name and the client's request id.
func withTracing[In, Out any](tracer trace.Tracer, handler mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		name := req.Params.Name
		requestID, _ := req.Params.GetMeta()[metaRequestID].(string)

		ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
			attribute.String("request_id", requestID),
		))
		defer span.End()

		ctx = log.WithRequest(ctx, name, requestID)
		logger := log.WithContext(ctx)

		logger.DebugContext(ctx, "handling tool call")

		result, out, err := handler(ctx, req, in)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed", slog.Any("err", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			logger.DebugContext(ctx, "tool call completed")
		}

		return result, out, err
	}
}

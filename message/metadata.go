package message

import (
	"context"
	"time"

	wmmessage "github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const metadataNamespace = "relaybus"

var (
	MetadataTraceID      = metadataKey("trace_id")
	MetadataSpanID       = metadataKey("span_id")
	MetadataContentType  = metadataKey("content_type")
	MetadataOccurredAt   = metadataKey("occurred_at")
	MetadataPartitionKey = metadataKey("partition_key")
)

func metadataKey(suffix string) string {
	return metadataNamespace + "." + suffix
}

func ensureMetadata(msg *wmmessage.Message) {
	if msg.Metadata == nil {
		msg.Metadata = make(wmmessage.Metadata)
	}
}

// SetTrace injects tracing metadata and propagates OTEL headers through a
// Watermill message.
func SetTrace(ctx context.Context, msg *wmmessage.Message) {
	if msg == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ensureMetadata(msg)

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		msg.Metadata.Set(MetadataTraceID, spanCtx.TraceID().String())
		msg.Metadata.Set(MetadataSpanID, spanCtx.SpanID().String())
	}

	if msg.Metadata.Get(MetadataOccurredAt) == "" {
		msg.Metadata.Set(MetadataOccurredAt, time.Now().UTC().Format(time.RFC3339Nano))
	}

	msg.SetContext(ctx)

	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))
}

package mq

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/shop-backend/pkg/correlationid"
)

// ContextHeaders builds message headers carrying the trace context and
// correlation id from ctx, so consumers can stitch their work back onto the
// originating request.
func ContextHeaders(ctx context.Context) map[string]string {
	headers := map[string]string{}

	propagator := otel.GetTextMapPropagator()
	propagator.Inject(ctx, propagation.MapCarrier(headers))

	if id, ok := correlationid.FromContext(ctx); ok {
		headers[correlationid.Header] = id
	}

	return headers
}

// recordContext restores the trace context and correlation id carried in a
// consumed record's headers.
func recordContext(ctx context.Context, rec *kgo.Record) context.Context {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))

	if id, ok := headers[correlationid.Header]; ok {
		ctx = correlationid.WithContext(ctx, id)
	}

	return ctx
}

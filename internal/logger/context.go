package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds operation-scoped logging context
type LogContext struct {
	TraceID    string    // OpenTelemetry trace ID
	SpanID     string    // OpenTelemetry span ID
	Operation  string    // DSS operation name (lock.Acquire, store.Insert, etc.)
	EntityKind string    // entity kind being touched (object, medium, device, ...)
	Hostname   string    // acting hostname (lock owner)
	PID        int       // acting process id (lock owner)
	StartTime  time.Time // for duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for an operation
func NewLogContext(operation string) *LogContext {
	return &LogContext{
		Operation: operation,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:    lc.TraceID,
		SpanID:     lc.SpanID,
		Operation:  lc.Operation,
		EntityKind: lc.EntityKind,
		Hostname:   lc.Hostname,
		PID:        lc.PID,
		StartTime:  lc.StartTime,
	}
}

// WithEntityKind returns a copy with the entity kind set
func (lc *LogContext) WithEntityKind(kind string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.EntityKind = kind
	}
	return clone
}

// WithOwner returns a copy with lock-owner info set
func (lc *LogContext) WithOwner(hostname string, pid int) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Hostname = hostname
		clone.PID = pid
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}

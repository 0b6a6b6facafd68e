package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for catalog and lock operations.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Operation attributes
	// ========================================================================
	AttrOperation  = "dss.operation"   // lock.Acquire, store.Insert, resolver.Resolve, ...
	AttrEntityKind = "dss.entity_kind" // object, deprecated_object, layout, device, medium, log

	// ========================================================================
	// Identity attributes (pho_id + generation)
	// ========================================================================
	AttrFamily  = "dss.family"
	AttrName    = "dss.name"
	AttrLibrary = "dss.library"
	AttrOID     = "dss.oid"
	AttrUUID    = "dss.uuid"
	AttrVersion = "dss.version"

	// ========================================================================
	// Lock ownership attributes
	// ========================================================================
	AttrHostname = "dss.hostname"
	AttrPID      = "dss.pid"

	// ========================================================================
	// Result attributes
	// ========================================================================
	AttrErrorKind = "dss.error_kind"
	AttrRowCount  = "dss.row_count"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	SpanFilterCompile = "filter.compile"

	SpanStoreGet    = "store.get"
	SpanStoreInsert = "store.insert"
	SpanStoreUpdate = "store.update"
	SpanStoreDelete = "store.delete"
	SpanStoreMove   = "store.move"

	SpanLockAcquire = "lock.acquire"
	SpanLockRefresh = "lock.refresh"
	SpanLockRelease = "lock.release"
	SpanLockStatus  = "lock.status"
	SpanLockClean   = "lock.clean"

	SpanResolverResolve = "resolver.resolve"

	SpanLocatorLocate = "locator.locate"
)

// Operation returns an attribute for the DSS operation name
func Operation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// EntityKind returns an attribute for the entity kind
func EntityKind(kind string) attribute.KeyValue {
	return attribute.String(AttrEntityKind, kind)
}

// Family returns an attribute for a medium/device family
func Family(family string) attribute.KeyValue {
	return attribute.String(AttrFamily, family)
}

// Name returns an attribute for a pho_id name component
func Name(name string) attribute.KeyValue {
	return attribute.String(AttrName, name)
}

// Library returns an attribute for a pho_id library component
func Library(library string) attribute.KeyValue {
	return attribute.String(AttrLibrary, library)
}

// OID returns an attribute for an object id
func OID(oid string) attribute.KeyValue {
	return attribute.String(AttrOID, oid)
}

// UUID returns an attribute for a generation uuid
func UUID(uuid string) attribute.KeyValue {
	return attribute.String(AttrUUID, uuid)
}

// Version returns an attribute for a generation version
func Version(v int) attribute.KeyValue {
	return attribute.Int(AttrVersion, v)
}

// Hostname returns an attribute for the acting hostname
func Hostname(host string) attribute.KeyValue {
	return attribute.String(AttrHostname, host)
}

// PID returns an attribute for the acting process id
func PID(pid int) attribute.KeyValue {
	return attribute.Int(AttrPID, pid)
}

// ErrorKind returns an attribute for the DSS error kind
func ErrorKind(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}

// RowCount returns an attribute for rows affected/returned
func RowCount(n int) attribute.KeyValue {
	return attribute.Int(AttrRowCount, n)
}

// StartCatalogSpan starts a span for an entity store operation.
func StartCatalogSpan(ctx context.Context, spanName, entityKind string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{EntityKind(entityKind)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, spanName, trace.WithAttributes(allAttrs...))
}

// StartLockSpan starts a span for a lock manager operation.
func StartLockSpan(ctx context.Context, spanName string, hostname string, pid int, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{Hostname(hostname), PID(pid)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, spanName, trace.WithAttributes(allAttrs...))
}

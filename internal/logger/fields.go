package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation
// and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Operation
	// ========================================================================
	KeyOperation  = "operation"  // DSS operation name: lock.Acquire, store.Insert, etc.
	KeyEntityKind = "entity_kind" // object, deprecated_object, layout, device, medium, log
	KeyDurationMs = "duration_ms"

	// ========================================================================
	// Identity (pho_id + generation)
	// ========================================================================
	KeyFamily  = "family"  // tape, disk, dir, rados_pool
	KeyName    = "name"    // identifier name component of a pho_id
	KeyLibrary = "library" // library component of a pho_id
	KeyOID     = "oid"
	KeyUUID    = "uuid"
	KeyVersion = "version"

	// ========================================================================
	// Lock ownership
	// ========================================================================
	KeyHostname = "hostname" // lock owner hostname
	KeyPID      = "pid"      // lock owner process id

	// ========================================================================
	// Errors
	// ========================================================================
	KeyError     = "error"
	KeyErrorKind = "error_kind"

	// ========================================================================
	// Filter / catalog
	// ========================================================================
	KeyFilterDepth = "filter_depth"
	KeyRowCount    = "row_count"
)

// ----------------------------------------------------------------------------
// Distributed Tracing
// ----------------------------------------------------------------------------

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// ----------------------------------------------------------------------------
// Operation
// ----------------------------------------------------------------------------

// Operation returns a slog.Attr for the DSS operation name
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// EntityKind returns a slog.Attr for the entity kind being touched
func EntityKind(kind string) slog.Attr {
	return slog.String(KeyEntityKind, kind)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// ----------------------------------------------------------------------------
// Identity
// ----------------------------------------------------------------------------

// Family returns a slog.Attr for the medium/device family
func Family(family string) slog.Attr {
	return slog.String(KeyFamily, family)
}

// Name returns a slog.Attr for a pho_id name component
func Name(name string) slog.Attr {
	return slog.String(KeyName, name)
}

// Library returns a slog.Attr for a pho_id library component
func Library(library string) slog.Attr {
	return slog.String(KeyLibrary, library)
}

// OID returns a slog.Attr for an object id
func OID(oid string) slog.Attr {
	return slog.String(KeyOID, oid)
}

// UUID returns a slog.Attr for a generation uuid
func UUID(uuid string) slog.Attr {
	return slog.String(KeyUUID, uuid)
}

// Version returns a slog.Attr for a generation version
func Version(v int) slog.Attr {
	return slog.Int(KeyVersion, v)
}

// ----------------------------------------------------------------------------
// Lock ownership
// ----------------------------------------------------------------------------

// Hostname returns a slog.Attr for the acting hostname
func Hostname(host string) slog.Attr {
	return slog.String(KeyHostname, host)
}

// PID returns a slog.Attr for the acting process id
func PID(pid int) slog.Attr {
	return slog.Int(KeyPID, pid)
}

// ----------------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------------

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorKind returns a slog.Attr for the DSS error kind
func ErrorKind(kind string) slog.Attr {
	return slog.String(KeyErrorKind, kind)
}

// ----------------------------------------------------------------------------
// Filter / catalog
// ----------------------------------------------------------------------------

// FilterDepth returns a slog.Attr for compiled predicate recursion depth
func FilterDepth(depth int) slog.Attr {
	return slog.Int(KeyFilterDepth, depth)
}

// RowCount returns a slog.Attr for the number of rows affected/returned
func RowCount(n int) slog.Attr {
	return slog.Int(KeyRowCount, n)
}

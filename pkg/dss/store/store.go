// Package store defines the entity store contract (C2) implemented by the
// postgres and memory backends, plus the append-only log store (C6) that
// shares the same catalog connection.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
)

// InsertMode controls how much of an entity's fields Insert requires.
type InsertMode int

const (
	// InsertDefault accepts only the fields the entity kind mandates at
	// creation time, defaulting the rest.
	InsertDefault InsertMode = iota
	// InsertFull marks an insert whose caller supplies every field
	// (catalog restore/replay tooling). No backend checks that the fields
	// are set: the postgres object insert skips its created_at default,
	// and every other insert treats InsertFull like InsertDefault.
	InsertFull
)

// Store is the entity store contract: CRUD plus update-field-mask writes
// and inter-kind moves, for every catalog entity kind.
type Store interface {
	// Objects
	GetObject(ctx context.Context, oid string) (*dss.Object, error)
	ListObjects(ctx context.Context, pred filter.Predicate) ([]*dss.Object, error)
	InsertObject(ctx context.Context, obj *dss.Object, mode InsertMode) error
	DeleteObject(ctx context.Context, oid string) error
	MoveObjectToDeprecated(ctx context.Context, oid string, uuid uuid.UUID, version int) error

	// Deprecated objects
	GetDeprecatedObject(ctx context.Context, oid string, uuid uuid.UUID, version int) (*dss.DeprecatedObject, error)
	ListDeprecatedObjects(ctx context.Context, pred filter.Predicate) ([]*dss.DeprecatedObject, error)
	DeleteDeprecatedObject(ctx context.Context, oid string, uuid uuid.UUID, version int) error
	// MoveDeprecatedObjectToLive is the reverse of MoveObjectToDeprecated:
	// it atomically deletes the (oid, uuid, version) row from
	// deprecated_object and inserts it into object, failing the whole
	// move with dss.KindAlreadyExists if oid already names a live
	// object. Together the two primitives satisfy the round-trip law
	// Move(A->B,x); Move(B->A,x) restores state modulo timestamps.
	MoveDeprecatedObjectToLive(ctx context.Context, oid string, uuid uuid.UUID, version int) error

	// Layouts and extents
	GetLayout(ctx context.Context, objUUID uuid.UUID, version int) (*dss.Layout, []dss.Extent, error)
	InsertLayout(ctx context.Context, layout *dss.Layout, extents []dss.Extent) error
	DeleteLayout(ctx context.Context, objUUID uuid.UUID, version int) error

	// Devices
	GetDevice(ctx context.Context, id dss.PhoID) (*dss.Device, error)
	ListDevices(ctx context.Context, pred filter.Predicate) ([]*dss.Device, error)
	InsertDevice(ctx context.Context, dev *dss.Device, mode InsertMode) error
	UpdateDeviceAdmStatus(ctx context.Context, id dss.PhoID, status dss.AdminStatus) error
	UpdateDeviceHost(ctx context.Context, id dss.PhoID, host string) error
	DeleteDevice(ctx context.Context, id dss.PhoID) error

	// Media
	GetMedium(ctx context.Context, id dss.PhoID) (*dss.Medium, error)
	ListMedia(ctx context.Context, pred filter.Predicate) ([]*dss.Medium, error)
	InsertMedium(ctx context.Context, med *dss.Medium, mode InsertMode) error
	UpdateMedium(ctx context.Context, id dss.PhoID, mask MediaUpdateMask) error
	DeleteMedium(ctx context.Context, id dss.PhoID) error

	// Logs (C6)
	AppendLog(ctx context.Context, entry *dss.Log) error
	ListLogs(ctx context.Context, pred filter.Predicate) ([]*dss.Log, error)
	DeleteLogs(ctx context.Context, pred filter.Predicate) (int, error)

	// Healthcheck verifies the backend connection is usable.
	Healthcheck(ctx context.Context) error

	// Close releases backend resources (connection pools, etc).
	Close()
}

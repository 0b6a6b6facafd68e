// Package dss defines the shared data model and error taxonomy of the
// Phobos distributed state service: object identities, catalog entities,
// locks, and the typed errors every other package in this module returns.
package dss

import (
	"time"

	"github.com/google/uuid"
)

// Family identifies the storage family a medium or device belongs to.
type Family string

const (
	FamilyTape     Family = "tape"
	FamilyDisk     Family = "disk"
	FamilyDir      Family = "dir"
	FamilyRadosPool Family = "rados_pool"
)

func (f Family) String() string { return string(f) }

// Valid reports whether f is one of the known families.
func (f Family) Valid() bool {
	switch f {
	case FamilyTape, FamilyDisk, FamilyDir, FamilyRadosPool:
		return true
	default:
		return false
	}
}

// IsDirFamily reports whether f addresses a directory-backed medium, the
// one family the locator does not treat as host-independent when
// unlocked (an unlocked dir medium has no device to be located on).
func (f Family) IsDirFamily() bool { return f == FamilyDir }

// PhoID is the compound identity of a device or medium: a family, a name
// unique within that family and library, and a library grouping
// ("legacy" when the caller does not name one).
type PhoID struct {
	Family  Family
	Name    string
	Library string
}

// DefaultLibrary is used when a caller constructs a PhoID without naming one.
const DefaultLibrary = "legacy"

// NewPhoID builds a PhoID, defaulting Library to DefaultLibrary when empty.
func NewPhoID(family Family, name, library string) PhoID {
	if library == "" {
		library = DefaultLibrary
	}
	return PhoID{Family: family, Name: name, Library: library}
}

func (p PhoID) String() string {
	return string(p.Family) + ":" + p.Library + ":" + p.Name
}

// EntityKind names the catalog tables/entities the entity store manages.
type EntityKind string

const (
	KindObject           EntityKind = "object"
	KindDeprecatedObject EntityKind = "deprecated_object"
	KindLayout           EntityKind = "layout"
	KindExtent           EntityKind = "extent"
	KindDevice           EntityKind = "device"
	KindMedium           EntityKind = "medium"
	KindLog              EntityKind = "log"
)

// Object is a live catalog entry for an application object.
type Object struct {
	OID       string
	UUID      uuid.UUID
	Version   int
	UserMD    map[string]any
	CreatedAt time.Time
}

// DeprecatedObject is a retired generation of an Object, kept for lazy
// resolution against stale callers (see the Version Resolver).
type DeprecatedObject struct {
	OID        string
	UUID       uuid.UUID
	Version    int
	UserMD     map[string]any
	CreatedAt  time.Time
	DeprecatedAt time.Time
}

// LayoutType names a supported data-placement scheme.
type LayoutType string

const (
	LayoutRAID1 LayoutType = "raid1"
	LayoutRaw   LayoutType = "raw"
)

// Layout describes how an object's generation is physically laid out.
type Layout struct {
	ObjectUUID uuid.UUID
	Version    int
	Type       LayoutType
	Params     map[string]any
}

// Extent is one physical fragment of a Layout, located on a Medium.
type Extent struct {
	LayoutObjectUUID uuid.UUID
	LayoutVersion    int
	Rank             int
	MediumID         PhoID
	Offset           uint64
	Size             uint64
}

// AdminStatus is the operator-controlled lifecycle state of a device or medium.
type AdminStatus string

const (
	AdminStatusUnlocked AdminStatus = "unlocked"
	AdminStatusLocked   AdminStatus = "locked"
	AdminStatusFailed   AdminStatus = "failed"
)

// Device is a drive or mount point capable of hosting media I/O.
type Device struct {
	ID         PhoID
	Host       string
	AdmStatus  AdminStatus
	Model      string
}

// FSStatus is the on-medium filesystem lifecycle status.
type FSStatus string

const (
	FSStatusBlank  FSStatus = "blank"
	FSStatusEmpty  FSStatus = "empty"
	FSStatusUsed   FSStatus = "used"
	FSStatusFull   FSStatus = "full"
)

// Medium is a unit of physical storage (tape, disk partition, directory, pool).
type Medium struct {
	ID            PhoID
	AdmStatus     AdminStatus
	FSStatus      FSStatus
	FSLabel       string
	NbObj         int64
	LogicalSpcUsed uint64
	PhysSpcUsed   uint64
	PhysSpcFree   uint64
	Tags          []string
	Groupings     []string
	PutAccess     bool
	GetAccess     bool
	DeleteAccess  bool
	LastLocate    time.Time
}

// Log is an append-only journal entry recorded by C6.
type Log struct {
	ID        int64
	Family    Family
	DeviceID  string
	MediumID  string
	UserMD    map[string]any
	Errno     int
	CreatedAt time.Time
}

// LockOwner identifies the process that holds or is requesting a Lock.
type LockOwner struct {
	Hostname string
	PID      int
}

// Lock is a cluster-wide advisory lock on a single catalog entity.
type Lock struct {
	EntityKind EntityKind
	Identity   string // entity_kind-specific identity string, e.g. a PhoID.String() or an oid
	Owner      LockOwner
	AcquiredAt time.Time
	LastLocate time.Time
}

package store

import "github.com/cea-hpc/phobos-dss/pkg/dss"

// MediaField tags one updatable field of a Medium. This replaces the
// original 64-bit update bitmask with a typed, inspectable set: each tag
// present in a MediaUpdateMask carries its own value, so a caller can
// never forget which bit corresponds to which field, and a field can only
// appear once per mask.
type MediaField int

const (
	FieldAdmStatus MediaField = iota
	FieldFSStatus
	FieldFSLabel
	FieldNbObj
	FieldNbObjAdd
	FieldLogicalSpcUsed
	FieldLogicalSpcAdd
	FieldPhysSpcUsed
	FieldPhysSpcFree
	FieldTags
	FieldGroupings
	FieldPutAccess
	FieldGetAccess
	FieldDeleteAccess
)

// absoluteFieldOf maps an additive field tag to the absolute field it
// must not be combined with in the same mask.
var absoluteFieldOf = map[MediaField]MediaField{
	FieldNbObjAdd:       FieldNbObj,
	FieldLogicalSpcAdd:  FieldLogicalSpcUsed,
}

// MediaUpdate is one entry of a MediaUpdateMask: a field tag plus its
// new (absolute) or delta (additive) value.
type MediaUpdate struct {
	Field MediaField
	Value any
}

// MediaUpdateMask is an ordered, deduplicated set of field updates applied
// atomically by Store.UpdateMedium.
type MediaUpdateMask []MediaUpdate

// NewMediaUpdateMask validates updates and returns them as a mask,
// rejecting a mask that sets both the absolute and additive variant of
// the same field (see SPEC_FULL.md Open Question decision #3).
func NewMediaUpdateMask(updates ...MediaUpdate) (MediaUpdateMask, error) {
	seen := make(map[MediaField]bool, len(updates))
	for _, u := range updates {
		if seen[u.Field] {
			return nil, dss.NewInvalidf("duplicate field %d in update mask", u.Field)
		}
		seen[u.Field] = true
	}
	for additive, absolute := range absoluteFieldOf {
		if seen[additive] && seen[absolute] {
			return nil, dss.NewInvalidf("update mask sets both absolute and additive variants of the same field (%d/%d)", absolute, additive)
		}
	}
	return MediaUpdateMask(updates), nil
}

// Has reports whether the mask carries an update for field.
func (m MediaUpdateMask) Has(field MediaField) bool {
	for _, u := range m {
		if u.Field == field {
			return true
		}
	}
	return false
}

// Get returns the value set for field and whether it was present.
func (m MediaUpdateMask) Get(field MediaField) (any, bool) {
	for _, u := range m {
		if u.Field == field {
			return u.Value, true
		}
	}
	return nil, false
}

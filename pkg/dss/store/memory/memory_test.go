package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

func TestObjectLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	obj := &dss.Object{OID: "obj-1", UUID: uuid.New(), Version: 1}
	require.NoError(t, s.InsertObject(ctx, obj, store.InsertDefault))

	err := s.InsertObject(ctx, obj, store.InsertDefault)
	assert.True(t, dss.Is(err, dss.KindAlreadyExists))

	got, err := s.GetObject(ctx, "obj-1")
	require.NoError(t, err)
	assert.Equal(t, obj.UUID, got.UUID)

	require.NoError(t, s.MoveObjectToDeprecated(ctx, obj.OID, obj.UUID, obj.Version))
	_, err = s.GetObject(ctx, obj.OID)
	assert.True(t, dss.Is(err, dss.KindNotFound))

	dep, err := s.GetDeprecatedObject(ctx, obj.OID, obj.UUID, obj.Version)
	require.NoError(t, err)
	assert.Equal(t, obj.OID, dep.OID)
}

func TestMoveObjectRoundTripRestoresLiveState(t *testing.T) {
	s := New()
	ctx := context.Background()

	obj := &dss.Object{OID: "obj-1", UUID: uuid.New(), Version: 1, UserMD: map[string]any{"tag": "x"}}
	require.NoError(t, s.InsertObject(ctx, obj, store.InsertDefault))

	require.NoError(t, s.MoveObjectToDeprecated(ctx, obj.OID, obj.UUID, obj.Version))
	_, err := s.GetObject(ctx, obj.OID)
	assert.True(t, dss.Is(err, dss.KindNotFound))

	require.NoError(t, s.MoveDeprecatedObjectToLive(ctx, obj.OID, obj.UUID, obj.Version))
	_, err = s.GetDeprecatedObject(ctx, obj.OID, obj.UUID, obj.Version)
	assert.True(t, dss.Is(err, dss.KindNotFound))

	got, err := s.GetObject(ctx, obj.OID)
	require.NoError(t, err)
	assert.Equal(t, obj.UUID, got.UUID)
	assert.Equal(t, obj.Version, got.Version)
	assert.Equal(t, obj.UserMD, got.UserMD)
}

func TestMoveDeprecatedObjectToLiveFailsOnLiveCollision(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, s.InsertObject(ctx, &dss.Object{OID: "obj-1", UUID: id, Version: 1}, store.InsertDefault))
	require.NoError(t, s.MoveObjectToDeprecated(ctx, "obj-1", id, 1))
	require.NoError(t, s.InsertObject(ctx, &dss.Object{OID: "obj-1", UUID: id, Version: 2}, store.InsertDefault))

	err := s.MoveDeprecatedObjectToLive(ctx, "obj-1", id, 1)
	assert.True(t, dss.Is(err, dss.KindAlreadyExists))
}

func TestListObjectsWithFilter(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.InsertObject(ctx, &dss.Object{OID: "a", UUID: uuid.New(), Version: 1}, store.InsertDefault))
	require.NoError(t, s.InsertObject(ctx, &dss.Object{OID: "b", UUID: uuid.New(), Version: 1}, store.InsertDefault))

	out, err := s.ListObjects(ctx, filter.Predicate{"oid": "a"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].OID)
}

func TestMediumUpdateMask(t *testing.T) {
	s := New()
	ctx := context.Background()

	id := dss.PhoID{Family: dss.FamilyTape, Name: "t1", Library: dss.DefaultLibrary}
	require.NoError(t, s.InsertMedium(ctx, &dss.Medium{ID: id}, store.InsertDefault))

	mask, err := store.NewMediaUpdateMask(store.MediaUpdate{Field: store.FieldNbObjAdd, Value: 2})
	require.NoError(t, err)
	require.NoError(t, s.UpdateMedium(ctx, id, mask))

	m, err := s.GetMedium(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, m.NbObj)
}

func TestDeviceLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	id := dss.PhoID{Family: dss.FamilyTape, Name: "d1", Library: dss.DefaultLibrary}
	require.NoError(t, s.InsertDevice(ctx, &dss.Device{ID: id, Host: "h1"}, store.InsertDefault))

	require.NoError(t, s.UpdateDeviceHost(ctx, id, "h2"))
	dev, err := s.GetDevice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "h2", dev.Host)

	require.NoError(t, s.DeleteDevice(ctx, id))
	_, err = s.GetDevice(ctx, id)
	assert.True(t, dss.Is(err, dss.KindNotFound))
}

func TestLogAppendAndDeleteRequiresPredicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	entry := &dss.Log{Family: dss.FamilyTape, DeviceID: "d1", MediumID: "m1"}
	require.NoError(t, s.AppendLog(ctx, entry))
	assert.NotZero(t, entry.ID)

	_, err := s.DeleteLogs(ctx, nil)
	assert.True(t, dss.Is(err, dss.KindInvalid))

	n, err := s.DeleteLogs(ctx, filter.Predicate{"device_id": "d1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLayoutLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	objUUID := uuid.New()
	layout := &dss.Layout{ObjectUUID: objUUID, Version: 1, Type: dss.LayoutRaw}
	extents := []dss.Extent{{LayoutObjectUUID: objUUID, LayoutVersion: 1, Rank: 0, Size: 4096}}
	require.NoError(t, s.InsertLayout(ctx, layout, extents))

	gotLayout, gotExtents, err := s.GetLayout(ctx, objUUID, 1)
	require.NoError(t, err)
	assert.Equal(t, dss.LayoutRaw, gotLayout.Type)
	require.Len(t, gotExtents, 1)

	require.NoError(t, s.DeleteLayout(ctx, objUUID, 1))
	_, _, err = s.GetLayout(ctx, objUUID, 1)
	assert.True(t, dss.Is(err, dss.KindNotFound))
}

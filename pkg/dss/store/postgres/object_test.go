package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/store"
)

func TestObjectLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	obj := &dss.Object{OID: "obj-" + uuid.NewString(), UUID: uuid.New(), Version: 1, UserMD: map[string]any{"k": "v"}}
	require.NoError(t, s.InsertObject(ctx, obj, store.InsertDefault))

	got, err := s.GetObject(ctx, obj.OID)
	require.NoError(t, err)
	assert.Equal(t, obj.OID, got.OID)
	assert.Equal(t, obj.UUID, got.UUID)

	require.NoError(t, s.DeleteObject(ctx, obj.OID))

	_, err = s.GetObject(ctx, obj.OID)
	assert.True(t, dss.Is(err, dss.KindNotFound))
}

func TestInsertObjectDuplicateOIDConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	oid := "dup-" + uuid.NewString()
	obj := &dss.Object{OID: oid, UUID: uuid.New(), Version: 1}
	require.NoError(t, s.InsertObject(ctx, obj, store.InsertDefault))
	t.Cleanup(func() { _ = s.DeleteObject(ctx, oid) })

	dup := &dss.Object{OID: oid, UUID: uuid.New(), Version: 1}
	err := s.InsertObject(ctx, dup, store.InsertDefault)
	require.Error(t, err)
	assert.True(t, dss.Is(err, dss.KindAlreadyExists))
}

func TestMoveObjectToDeprecated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	oid := "move-" + uuid.NewString()
	objUUID := uuid.New()
	obj := &dss.Object{OID: oid, UUID: objUUID, Version: 1}
	require.NoError(t, s.InsertObject(ctx, obj, store.InsertDefault))

	require.NoError(t, s.MoveObjectToDeprecated(ctx, oid, objUUID, 1))

	_, err := s.GetObject(ctx, oid)
	assert.True(t, dss.Is(err, dss.KindNotFound))

	dep, err := s.GetDeprecatedObject(ctx, oid, objUUID, 1)
	require.NoError(t, err)
	assert.Equal(t, oid, dep.OID)

	require.NoError(t, s.DeleteDeprecatedObject(ctx, oid, objUUID, 1))
}

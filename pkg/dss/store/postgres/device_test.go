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

func TestDeviceLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := dss.PhoID{Family: dss.FamilyTape, Name: "drive-" + uuid.NewString(), Library: dss.DefaultLibrary}
	dev := &dss.Device{ID: id, Host: "host-a", Model: "ULTRIUM-9"}
	require.NoError(t, s.InsertDevice(ctx, dev, store.InsertDefault))
	t.Cleanup(func() { _ = s.DeleteDevice(ctx, id) })

	got, err := s.GetDevice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "host-a", got.Host)
	assert.Equal(t, dss.AdminStatusUnlocked, got.AdmStatus)

	require.NoError(t, s.UpdateDeviceAdmStatus(ctx, id, dss.AdminStatusLocked))
	got, err = s.GetDevice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, dss.AdminStatusLocked, got.AdmStatus)

	require.NoError(t, s.UpdateDeviceHost(ctx, id, "host-b"))
	got, err = s.GetDevice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "host-b", got.Host)

	require.NoError(t, s.DeleteDevice(ctx, id))
	_, err = s.GetDevice(ctx, id)
	assert.True(t, dss.Is(err, dss.KindNotFound))
}

func TestUpdateDeviceAdmStatusNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := dss.PhoID{Family: dss.FamilyTape, Name: "ghost-" + uuid.NewString(), Library: dss.DefaultLibrary}
	err := s.UpdateDeviceAdmStatus(ctx, id, dss.AdminStatusLocked)
	assert.True(t, dss.Is(err, dss.KindNotFound))
}

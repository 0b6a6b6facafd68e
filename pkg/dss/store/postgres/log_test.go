package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
)

func TestAppendAndListLogs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	deviceID := dss.PhoID{Family: dss.FamilyTape, Name: "drive-" + uuid.NewString(), Library: dss.DefaultLibrary}.String()
	entry := &dss.Log{
		Family:   dss.FamilyTape,
		DeviceID: deviceID,
		MediumID: dss.PhoID{Family: dss.FamilyTape, Name: "tape-" + uuid.NewString(), Library: dss.DefaultLibrary}.String(),
		UserMD:   map[string]any{"action": "mount"},
		Errno:    0,
	}
	require.NoError(t, s.AppendLog(ctx, entry))
	assert.NotZero(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	logs, err := s.ListLogs(ctx, filter.Predicate{"device_id": deviceID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entry.ID, logs[0].ID)

	n, err := s.DeleteLogs(ctx, filter.Predicate{"device_id": deviceID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteLogsRequiresPredicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.DeleteLogs(ctx, nil)
	assert.True(t, dss.Is(err, dss.KindInvalid))
}

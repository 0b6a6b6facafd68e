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

func TestLayoutLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	obj := &dss.Object{OID: "layout-" + uuid.NewString(), UUID: uuid.New(), Version: 1}
	require.NoError(t, s.InsertObject(ctx, obj, store.InsertDefault))
	t.Cleanup(func() { _ = s.DeleteObject(ctx, obj.OID) })

	layout := &dss.Layout{ObjectUUID: obj.UUID, Version: obj.Version, Type: dss.LayoutRaw, Params: map[string]any{"a": 1}}
	extents := []dss.Extent{
		{
			LayoutObjectUUID: obj.UUID, LayoutVersion: obj.Version, Rank: 0,
			MediumID: dss.PhoID{Family: dss.FamilyTape, Name: "tape-" + uuid.NewString(), Library: dss.DefaultLibrary},
			Offset:   0, Size: 4096,
		},
	}
	require.NoError(t, s.InsertLayout(ctx, layout, extents))

	gotLayout, gotExtents, err := s.GetLayout(ctx, obj.UUID, obj.Version)
	require.NoError(t, err)
	assert.Equal(t, dss.LayoutRaw, gotLayout.Type)
	require.Len(t, gotExtents, 1)
	assert.EqualValues(t, 4096, gotExtents[0].Size)

	require.NoError(t, s.DeleteLayout(ctx, obj.UUID, obj.Version))
	_, _, err = s.GetLayout(ctx, obj.UUID, obj.Version)
	assert.True(t, dss.Is(err, dss.KindNotFound))
}

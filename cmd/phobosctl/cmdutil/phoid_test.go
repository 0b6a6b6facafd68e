package cmdutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cea-hpc/phobos-dss/cmd/phobosctl/cmdutil"
	"github.com/cea-hpc/phobos-dss/pkg/dss"
)

func TestParsePhoIDTwoParts(t *testing.T) {
	id, err := cmdutil.ParsePhoID("tape:T0001")
	require.NoError(t, err)
	assert.Equal(t, dss.NewPhoID(dss.FamilyTape, "T0001", ""), id)
	assert.Equal(t, "tape:legacy:T0001", id.String())
}

func TestParsePhoIDThreeParts(t *testing.T) {
	id, err := cmdutil.ParsePhoID("disk:mylib:D0001")
	require.NoError(t, err)
	assert.Equal(t, dss.NewPhoID(dss.FamilyDisk, "D0001", "mylib"), id)
}

func TestParsePhoIDRejectsGarbage(t *testing.T) {
	_, err := cmdutil.ParsePhoID("not-a-phoid")
	require.Error(t, err)
	assert.True(t, dss.Is(err, dss.KindInvalid))
}

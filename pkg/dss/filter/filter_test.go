package filter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cea-hpc/phobos-dss/pkg/dss/filter"
)

func TestCompileEqualitySugar(t *testing.T) {
	c, err := filter.Compile(filter.Predicate{"oid": "obj-1"}, filter.ObjectFields, 0)
	require.NoError(t, err)
	assert.Equal(t, "oid = $1", c.SQL)
	assert.Equal(t, []any{"obj-1"}, c.Args)
}

func TestCompileUnknownFieldRejected(t *testing.T) {
	_, err := filter.Compile(filter.Predicate{"nope": "x"}, filter.ObjectFields, 0)
	assert.Error(t, err)
}

func TestCompileXJSONIsContainment(t *testing.T) {
	c, err := filter.Compile(filter.Predicate{"user_md": map[string]any{"$XJSON": map[string]any{"tag": "x"}}}, filter.ObjectFields, 0)
	require.NoError(t, err)
	assert.Equal(t, `user_md @> $1::jsonb`, c.SQL)
}

func TestCompileINJSONIsKeyExistence(t *testing.T) {
	c, err := filter.Compile(filter.Predicate{"user_md": map[string]any{"$INJSON": "tag"}}, filter.ObjectFields, 0)
	require.NoError(t, err)
	assert.Equal(t, `user_md ? $1`, c.SQL)

	c, err = filter.Compile(filter.Predicate{"user_md": map[string]any{"$INJSON": []string{"tag", "owner"}}}, filter.ObjectFields, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c.SQL, "user_md ?& $1"))
}

func TestMatchXJSONIsContainment(t *testing.T) {
	record := map[string]any{"user_md": map[string]any{"tag": "x", "owner": "alice"}}

	ok, err := filter.Match(filter.Predicate{"user_md": map[string]any{"$XJSON": map[string]any{"tag": "x"}}}, filter.ObjectFields, record)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = filter.Match(filter.Predicate{"user_md": map[string]any{"$XJSON": map[string]any{"tag": "y"}}}, filter.ObjectFields, record)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchINJSONIsKeyExistenceIgnoringValue(t *testing.T) {
	record := map[string]any{"user_md": map[string]any{"tag": "anything", "owner": "alice"}}

	ok, err := filter.Match(filter.Predicate{"user_md": map[string]any{"$INJSON": "tag"}}, filter.ObjectFields, record)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = filter.Match(filter.Predicate{"user_md": map[string]any{"$INJSON": []string{"tag", "owner"}}}, filter.ObjectFields, record)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = filter.Match(filter.Predicate{"user_md": map[string]any{"$INJSON": []string{"tag", "missing"}}}, filter.ObjectFields, record)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = filter.Match(filter.Predicate{"user_md": map[string]any{"$INJSON": "tag"}}, filter.ObjectFields, map[string]any{"user_md": "not-a-map"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompileAndLogical(t *testing.T) {
	pred := filter.Predicate{"$AND": []filter.Predicate{
		{"oid": "obj-1"},
		{"version": map[string]any{"$GT": 1}},
	}}
	c, err := filter.Compile(pred, filter.ObjectFields, 0)
	require.NoError(t, err)
	assert.Contains(t, c.SQL, "AND")
	assert.Equal(t, []any{"obj-1", 1}, c.Args)
}

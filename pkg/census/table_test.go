package census

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable([]byte(`[["NAME","B01003_001E"],["Austin city, Texas","965872"],["Short row"]]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"NAME", "B01003_001E"}, tbl.Header)
	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Has("NAME"))
	assert.False(t, tbl.Has("B19013_001E"))
	assert.Equal(t, "965872", tbl.Get(0, "B01003_001E"))
	assert.Equal(t, "", tbl.Get(1, "B01003_001E"), "short row")
	assert.Equal(t, "", tbl.Get(5, "NAME"), "row out of range")
	assert.Equal(t, "", tbl.Get(-1, "NAME"))
	assert.Equal(t, "", tbl.Get(0, "missing"))
}

func TestParseTable_MixedCells(t *testing.T) {
	tbl, err := ParseTable([]byte(`[["NAME","B01003_001E","B19013_001E","B25077_001E"],["Austin city, Texas",965872,null,-666666666]]`))
	require.NoError(t, err)

	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Austin city, Texas", tbl.Get(0, "NAME"))
	assert.Equal(t, "965872", tbl.Get(0, "B01003_001E"))
	assert.Equal(t, "", tbl.Get(0, "B19013_001E"))
	assert.Equal(t, "-666666666", tbl.Get(0, "B25077_001E"))
}

func TestParseTable_Empty(t *testing.T) {
	for _, in := range []string{"", "  \n", "[]"} {
		tbl, err := ParseTable([]byte(in))
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, 0, tbl.Len())
	}
}

func TestParseTable_Invalid(t *testing.T) {
	_, err := ParseTable([]byte(`error: unknown variable 'B99999_001E'`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "census: unmarshal table")
}

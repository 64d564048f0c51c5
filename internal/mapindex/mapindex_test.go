package mapindex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `// map index
prontera 1
izlude
geffen 10 // town

morocc
`
	idx, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Index: 1, Name: "prontera"},
		{Index: 2, Name: "izlude"},
		{Index: 10, Name: "geffen"},
		{Index: 11, Name: "morocc"},
	}, idx.Entries())

	i, ok := idx.IndexOf("GEFFEN")
	require.True(t, ok)
	assert.Equal(t, 10, i)

	name, ok := idx.NameOf(11)
	require.True(t, ok)
	assert.Equal(t, "morocc", name)

	_, ok = idx.IndexOf("payon")
	assert.False(t, ok)
	_, ok = idx.NameOf(3)
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"bad index", "prontera x\n", ErrBadIndex},
		{"zero index", "prontera 0\n", ErrBadIndex},
		{"duplicate name", "prontera 1\nPRONTERA 2\n", ErrDuplicateName},
		{"duplicate index", "prontera 5\nizlude 5\n", ErrDuplicateIndex},
		{"long name", "abcdefghijkl 1\n", ErrBadName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map_index.txt")
	require.NoError(t, os.WriteFile(path, []byte("prontera\nizlude\n"), 0o644))

	idx, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

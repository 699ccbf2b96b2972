package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0007_add_index.sql")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = parseVersion("init.sql")
	assert.Error(t, err)
	_, err = parseVersion("x1_init.sql")
	assert.Error(t, err)
}

func TestAvailable_SortedAndPending(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0010_later.sql": {Data: []byte("SELECT 1;")},
		"sql/0002_next.sql":  {Data: []byte("SELECT 1;")},
		"sql/0001_init.sql":  {Data: []byte("SELECT 1;")},
	}
	all, err := available(fsys)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{all[0].version, all[1].version, all[2].version})

	todo := pending(all, map[int]bool{1: true})
	require.Len(t, todo, 2)
	assert.Equal(t, "sql/0002_next.sql", todo[0].file)
}

func TestAvailable_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0001_a.sql": {Data: []byte("")},
		"sql/001_b.sql":  {Data: []byte("")},
	}
	_, err := available(fsys)
	assert.ErrorContains(t, err, "migration version 1")
}

func TestEmbeddedMigrations(t *testing.T) {
	all, err := available(migrationsFS)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].version)
}

package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonecore/internal/db"
	"github.com/udisondev/zonecore/internal/mapindex"
	"github.com/udisondev/zonecore/internal/testutil"
)

func TestMapIndexRepository(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := db.NewMapIndexRepository(pool)
	ctx := context.Background()

	entries, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	want := []mapindex.Entry{
		{Index: 3, Name: "geffen"},
		{Index: 1, Name: "prontera"},
		{Index: 2, Name: "izlude"},
	}
	require.NoError(t, repo.Replace(ctx, want))

	entries, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []mapindex.Entry{
		{Index: 1, Name: "prontera"},
		{Index: 2, Name: "izlude"},
		{Index: 3, Name: "geffen"},
	}, entries)

	idx, err := repo.LoadIndex(ctx)
	require.NoError(t, err)
	i, ok := idx.IndexOf("GEFFEN")
	require.True(t, ok)
	assert.Equal(t, 3, i)

	// replace is all or nothing
	err = repo.Replace(ctx, []mapindex.Entry{{Index: 5, Name: "payon"}, {Index: 6, Name: "PAYON"}})
	require.Error(t, err)
	entries, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	require.NoError(t, repo.Replace(ctx, []mapindex.Entry{{Index: 9, Name: "morocc"}}))
	idx, err = repo.LoadIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestMigrate_Idempotent(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := context.Background()
	dsn := pool.Config().ConnString()

	require.NoError(t, db.RunMigrations(ctx, dsn))

	database, err := db.New(ctx, dsn)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Migrate(ctx))
	require.NoError(t, database.Migrate(ctx))

	// the pool stays usable after the migration handle is closed
	entries, err := db.NewMapIndexRepository(database.Pool()).LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

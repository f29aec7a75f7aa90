package migrations_test

import (
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acristock/migrations"
)

func TestFS_Success_GooseCollectsAll(t *testing.T) {
	goose.SetBaseFS(migrations.FS)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	found, err := goose.CollectMigrations(".", 0, goose.MaxVersion)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, int64(1), found[0].Version)
	assert.Equal(t, int64(3), found[2].Version)
}

func TestFS_Success_EveryFileHasUpAndDown(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		body, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestFS_Success_PecasGuardsCutArea(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "00001_create_pecas.sql")
	require.NoError(t, err)

	assert.Contains(t, string(body), "CHECK (cut_area <= width::float8 * height / 1e6)")
}

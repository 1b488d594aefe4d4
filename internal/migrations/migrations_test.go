package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(embedded, embeddedDir+"/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	data, err := fs.ReadFile(embedded, files[0])
	require.NoError(t, err)

	sql := string(data)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	for _, table := range []string{"users", "affiliates", "creatives", "referrals", "visits"} {
		assert.True(t, strings.Contains(sql, "CREATE TABLE IF NOT EXISTS "+table+" "), "нет таблицы %s", table)
	}

	// Таблица WP Affiliate принадлежит стороннему плагину
	assert.NotContains(t, sql, "wp_affiliates_tbl")
}

func TestGetMigrationPath(t *testing.T) {
	logger := zap.NewNop()

	dir := t.TempDir()
	path, ok := getMigrationPath(dir, logger)
	assert.True(t, ok)
	assert.Equal(t, dir, path)

	_, ok = getMigrationPath(dir+"/missing", logger)
	assert.False(t, ok)
}

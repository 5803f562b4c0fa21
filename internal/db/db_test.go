package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boo-display-backend/config"
	"boo-display-backend/internal/logger"
	"boo-display-backend/internal/model"
)

func TestInit_SQLiteCreatesDirectoryAndTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "webhooks.db")

	gormDB, err := Init(&config.DatabaseConfig{Path: path}, logger.Nop())
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	assert.FileExists(t, path)
	assert.True(t, gormDB.Migrator().HasTable(&model.Webhook{}))
	assert.True(t, gormDB.Migrator().HasTable("text_history"))
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

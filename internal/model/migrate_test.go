package model

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Index names must be unique across the whole schema, not just per
// table: sqlite scopes them database-wide, so a name shared between two
// tables aborts migration.
func TestAutoMigrateFullSchemaOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	all := []interface{}{
		&User{},
		&Project{},
		&ProjectMember{},
		&Sequence{},
		&ClientRequirement{},
		&Epic{},
		&FunctionalRequirement{},
		&Sprint{},
		&Task{},
		&TimeEntry{},
		&LeaveRequest{},
		&OperationLog{},
		&ProjectSetting{},
	}
	require.NoError(t, db.AutoMigrate(all...))

	// Re-running must be a no-op, not a duplicate-index failure.
	require.NoError(t, db.AutoMigrate(all...))
}

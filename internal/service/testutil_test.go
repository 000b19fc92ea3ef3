package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sprintline/backend/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens an isolated in-memory database with the full schema.
// Single connection: the in-memory sqlite db is per-connection.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.ClientRequirement{},
		&model.Epic{},
		&model.FunctionalRequirement{},
		&model.Sprint{},
		&model.Task{},
		&model.TimeEntry{},
		&model.LeaveRequest{},
		&model.Sequence{},
		&model.OperationLog{},
		&model.ProjectSetting{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         model.RolePM,
		Status:       1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProject(t *testing.T, db *gorm.DB, code, name string, ownerID uint) *model.Project {
	t.Helper()
	project := &model.Project{
		Code:    code,
		Name:    name,
		OwnerID: ownerID,
		Status:  model.ProjectStatusActive,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func seedSprint(t *testing.T, db *gorm.DB, projectID uint, name string) *model.Sprint {
	t.Helper()
	sprint := &model.Sprint{
		ProjectID: projectID,
		Name:      name,
		Status:    model.SprintStatusPlanning,
	}
	require.NoError(t, db.Create(sprint).Error)
	return sprint
}

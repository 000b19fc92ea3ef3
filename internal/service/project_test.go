package service

import (
	"testing"

	"github.com/sprintline/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCreateNormalizesCode(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	projects := NewProjectService(db)

	project, err := projects.Create(" pay ", "Payments", "", "", user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "PAY", project.Code)
	assert.Equal(t, "scrum", project.Methodology)
	// Owner is auto-enrolled as a member.
	assert.True(t, projects.IsMember(project.ID, user.ID))
}

func TestProjectCreateUniqueness(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	projects := NewProjectService(db)

	_, err := projects.Create("PAY", "Payments", "", "", user.ID, nil)
	require.NoError(t, err)

	_, err = projects.Create("INV", "Payments", "", "", user.ID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40005:")

	_, err = projects.Create("PAY", "Invoicing", "", "", user.ID, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40005:")
}

func TestProjectUpdateNeverChangesCode(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	projects := NewProjectService(db)

	project, err := projects.Create("PAY", "Payments", "", "", user.ID, nil)
	require.NoError(t, err)

	updated, err := projects.Update(project.ID, map[string]interface{}{
		"name": "Payments v2",
		"code": "PAYX",
	})
	require.NoError(t, err)
	assert.Equal(t, "Payments v2", updated.Name)
	assert.Equal(t, "PAY", updated.Code)
}

func TestProjectArchiveBlockedByActiveSprint(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	projects := NewProjectService(db)
	sprints := NewSprintService(db, NewFRService(db), NewEpicService(db))

	project, err := projects.Create("PAY", "Payments", "", "", user.ID, nil)
	require.NoError(t, err)
	sprint := seedSprint(t, db, project.ID, "Sprint 1")
	_, err = sprints.Start(sprint.ID)
	require.NoError(t, err)

	err = projects.Archive(project.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")

	_, _, err = sprints.Complete(sprint.ID)
	require.NoError(t, err)
	require.NoError(t, projects.Archive(project.ID))

	got, err := projects.GetByID(project.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusArchived, got.Status)
}

func TestProjectMembership(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	projects := NewProjectService(db)

	project, err := projects.Create("PAY", "Payments", "", "", owner.ID, nil)
	require.NoError(t, err)

	added, skipped, err := projects.AddMembers(project.ID, []uint{bob.ID, carol.ID, owner.ID}, model.RoleQA)
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.Equal(t, []uint{owner.ID}, skipped)
	assert.Equal(t, int64(3), projects.GetMemberCount(project.ID))

	err = projects.RemoveMember(project.ID, owner.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")

	require.NoError(t, projects.RemoveMember(project.ID, bob.ID))
	assert.False(t, projects.IsMember(project.ID, bob.ID))
}

func TestProjectListScopedToMembership(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	projects := NewProjectService(db)

	_, err := projects.Create("PAY", "Payments", "", "", alice.ID, nil)
	require.NoError(t, err)
	_, err = projects.Create("INV", "Invoicing", "", "", bob.ID, nil)
	require.NoError(t, err)

	mine, total, err := projects.List(alice.ID, false, "", "", nil, 1, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mine, 1)
	assert.Equal(t, "PAY", mine[0].Code)

	all, total, err := projects.List(alice.ID, true, "", "", nil, 1, 20, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

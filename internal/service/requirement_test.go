package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirementCreateAssignsHierarchyID(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PTE", "Portal", user.ID)
	reqs := NewRequirementService(db)

	first, err := reqs.Create(project.ID, "Reporting", "", "p0", user.ID)
	require.NoError(t, err)
	assert.Equal(t, "PTE-RRPRT-01", first.HierarchyID)

	second, err := reqs.Create(project.ID, "Checkout flow", "", "p1", user.ID)
	require.NoError(t, err)
	assert.Equal(t, "PTE-RCHCK-02", second.HierarchyID)
}

func TestRequirementRenameKeepsHierarchyID(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PTE", "Portal", user.ID)
	reqs := NewRequirementService(db)

	req, err := reqs.Create(project.ID, "Reporting", "", "p0", user.ID)
	require.NoError(t, err)

	updated, err := reqs.Update(req.ID, map[string]interface{}{
		"title":        "Analytics",
		"hierarchy_id": "PTE-RHCKD-99",
	})
	require.NoError(t, err)
	assert.Equal(t, "Analytics", updated.Title)
	assert.Equal(t, "PTE-RRPRT-01", updated.HierarchyID)
}

func TestRequirementDeleteGuards(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PTE", "Portal", user.ID)
	reqs := NewRequirementService(db)
	epics := NewEpicService(db)
	frs := NewFRService(db)

	req, err := reqs.Create(project.ID, "Reporting", "", "p0", user.ID)
	require.NoError(t, err)

	epic, err := epics.Create(project.ID, &req.ID, "Exports", "", user.ID)
	require.NoError(t, err)

	err = reqs.Delete(req.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")

	fr, err := frs.Create(project.ID, &req.ID, nil, "Export CSV", "", "p1", nil, user.ID)
	require.NoError(t, err)

	require.NoError(t, epics.Delete(epic.ID))
	err = reqs.Delete(req.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")

	require.NoError(t, frs.Delete(fr.ID))
	require.NoError(t, reqs.Delete(req.ID))
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceMonotonicPerScope(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)

	for want := int64(1); want <= 5; want++ {
		got, err := allocSequence(db, project.ID, scopeTask)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSequenceScopesAreIndependent(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)

	for i := 0; i < 3; i++ {
		_, err := allocSequence(db, project.ID, scopeTask)
		require.NoError(t, err)
	}

	got, err := allocSequence(db, project.ID, scopeFR)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	got, err = allocSequence(db, project.ID, subtaskScope(7))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestSequenceProjectsAreIndependent(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	p1 := seedProject(t, db, "PAY", "Payments", user.ID)
	p2 := seedProject(t, db, "INV", "Invoicing", user.ID)

	_, err := allocSequence(db, p1.ID, scopeEpic)
	require.NoError(t, err)
	_, err = allocSequence(db, p1.ID, scopeEpic)
	require.NoError(t, err)

	got, err := allocSequence(db, p2.ID, scopeEpic)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeEntryKeepsSpentCounterInStep(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)
	tasks := NewTaskService(db, NewFRService(db), NewEpicService(db))
	entries := NewTimeEntryService(db)

	task, err := tasks.Create(TaskInput{ProjectID: project.ID, Title: "a", CreatorID: user.ID})
	require.NoError(t, err)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	first, err := entries.Create(user.ID, task.ID, day, 90, "pairing")
	require.NoError(t, err)
	_, err = entries.Create(user.ID, task.ID, day, 30, "")
	require.NoError(t, err)

	got, err := tasks.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, got.SpentMinutes)

	require.NoError(t, entries.Delete(first.ID, user.ID, false))
	got, err = tasks.GetByID(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.SpentMinutes)
}

func TestTimeEntryValidation(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)
	tasks := NewTaskService(db, NewFRService(db), NewEpicService(db))
	entries := NewTimeEntryService(db)

	task, err := tasks.Create(TaskInput{ProjectID: project.ID, Title: "a", CreatorID: user.ID})
	require.NoError(t, err)

	_, err = entries.Create(user.ID, task.ID, time.Now(), 0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001:")

	_, err = entries.Create(user.ID, 9999, time.Now(), 60, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40401:")
}

func TestTimeEntryDeleteOwnership(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	project := seedProject(t, db, "PAY", "Payments", alice.ID)
	tasks := NewTaskService(db, NewFRService(db), NewEpicService(db))
	entries := NewTimeEntryService(db)

	task, err := tasks.Create(TaskInput{ProjectID: project.ID, Title: "a", CreatorID: alice.ID})
	require.NoError(t, err)
	entry, err := entries.Create(alice.ID, task.ID, time.Now(), 60, "")
	require.NoError(t, err)

	err = entries.Delete(entry.ID, bob.ID, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40303:")

	// Admins may delete on behalf of others.
	require.NoError(t, entries.Delete(entry.ID, bob.ID, true))
}

func TestTimeEntrySummaryByDay(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)
	tasks := NewTaskService(db, NewFRService(db), NewEpicService(db))
	entries := NewTimeEntryService(db)

	task, err := tasks.Create(TaskInput{ProjectID: project.ID, Title: "a", CreatorID: user.ID})
	require.NoError(t, err)

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	_, err = entries.Create(user.ID, task.ID, monday, 60, "")
	require.NoError(t, err)
	_, err = entries.Create(user.ID, task.ID, monday, 30, "")
	require.NoError(t, err)
	_, err = entries.Create(user.ID, task.ID, tuesday, 45, "")
	require.NoError(t, err)

	totals, err := entries.SummaryByDay(user.ID, monday, tuesday)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, 90, totals[0].Minutes)
	assert.Equal(t, 45, totals[1].Minutes)
}

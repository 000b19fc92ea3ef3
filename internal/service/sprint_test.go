package service

import (
	"testing"
	"time"

	"github.com/sprintline/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSprintCreateValidatesDates(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)
	sprints := NewSprintService(db, NewFRService(db), NewEpicService(db))

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -7)
	_, err := sprints.Create(project.ID, "Sprint 1", "", &start, &end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001:")

	end = start.AddDate(0, 0, 14)
	sprint, err := sprints.Create(project.ID, "Sprint 1", "ship checkout", &start, &end)
	require.NoError(t, err)
	assert.Equal(t, model.SprintStatusPlanning, sprint.Status)
}

func TestSprintStartSingleActiveGuard(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)
	sprints := NewSprintService(db, NewFRService(db), NewEpicService(db))

	first := seedSprint(t, db, project.ID, "Sprint 1")
	second := seedSprint(t, db, project.ID, "Sprint 2")

	started, err := sprints.Start(first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SprintStatusActive, started.Status)
	// Start backfills the start date when planning left it empty.
	assert.NotNil(t, started.StartDate)

	_, err = sprints.Start(second.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")

	// A second start of the same sprint is refused too.
	_, err = sprints.Start(first.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")
}

func TestSprintCompleteMovesUnfinishedToBacklog(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)
	sprints := NewSprintService(db, NewFRService(db), NewEpicService(db))
	tasks := NewTaskService(db, NewFRService(db), NewEpicService(db))

	sprint := seedSprint(t, db, project.ID, "Sprint 1")
	_, err := sprints.Start(sprint.ID)
	require.NoError(t, err)

	doneTask, err := tasks.Create(TaskInput{ProjectID: project.ID, SprintID: &sprint.ID, Title: "a", CreatorID: user.ID})
	require.NoError(t, err)
	_, err = tasks.UpdateStatus(doneTask.ID, model.TaskStatusDone)
	require.NoError(t, err)

	open1, err := tasks.Create(TaskInput{ProjectID: project.ID, SprintID: &sprint.ID, Title: "b", CreatorID: user.ID})
	require.NoError(t, err)
	_, err = tasks.UpdateStatus(open1.ID, model.TaskStatusInProgress)
	require.NoError(t, err)
	open2, err := tasks.Create(TaskInput{ProjectID: project.ID, SprintID: &sprint.ID, Title: "c", CreatorID: user.ID})
	require.NoError(t, err)

	completed, moved, err := sprints.Complete(sprint.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SprintStatusCompleted, completed.Status)
	assert.Equal(t, int64(2), moved)

	got, err := tasks.GetByID(open1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusBacklog, got.Status)
	got, err = tasks.GetByID(open2.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusBacklog, got.Status)
	got, err = tasks.GetByID(doneTask.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusDone, got.Status)

	_, _, err = sprints.Complete(sprint.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")
}

// Pushing unfinished tasks back to the backlog is a task status change,
// so linked FRs must be re-derived afterwards.
func TestSprintCompleteResyncsLinkedFRs(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)
	frs := NewFRService(db)
	epics := NewEpicService(db)
	sprints := NewSprintService(db, frs, epics)
	tasks := NewTaskService(db, frs, epics)

	sprint := seedSprint(t, db, project.ID, "Sprint 1")
	_, err := sprints.Start(sprint.ID)
	require.NoError(t, err)

	fr, err := frs.Create(project.ID, nil, nil, "Tokenize card", "", "p1", nil, user.ID)
	require.NoError(t, err)
	task, err := tasks.Create(TaskInput{ProjectID: project.ID, SprintID: &sprint.ID, FRID: &fr.ID, Title: "a", CreatorID: user.ID})
	require.NoError(t, err)

	_, err = tasks.UpdateStatus(task.ID, model.TaskStatusInProgress)
	require.NoError(t, err)
	got, err := frs.GetByID(fr.ID)
	require.NoError(t, err)
	require.Equal(t, model.FRStatusImplemented, got.Status)

	_, _, err = sprints.Complete(sprint.ID)
	require.NoError(t, err)

	// The task is back in the backlog, so the FR is no longer implemented.
	got, err = frs.GetByID(fr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FRStatusApproved, got.Status)
}

func TestSprintDeleteGuards(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	project := seedProject(t, db, "PAY", "Payments", user.ID)
	sprints := NewSprintService(db, NewFRService(db), NewEpicService(db))
	tasks := NewTaskService(db, NewFRService(db), NewEpicService(db))

	sprint := seedSprint(t, db, project.ID, "Sprint 1")
	task, err := tasks.Create(TaskInput{ProjectID: project.ID, SprintID: &sprint.ID, Title: "a", CreatorID: user.ID})
	require.NoError(t, err)

	err = sprints.Delete(sprint.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")

	require.NoError(t, tasks.Delete(task.ID))
	require.NoError(t, sprints.Delete(sprint.ID))
}

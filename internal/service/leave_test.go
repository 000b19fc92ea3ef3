package service

import (
	"testing"
	"time"

	"github.com/sprintline/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveCreateValidation(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	leaves := NewLeaveService(db)

	start := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	_, err := leaves.Create(user.ID, "sabbatical", start, end, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001:")

	_, err = leaves.Create(user.ID, model.LeaveTypeVacation, end, start, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40001:")

	leave, err := leaves.Create(user.ID, model.LeaveTypeVacation, start, end, "beach")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusPending, leave.Status)

	// Overlapping window for the same user is refused.
	_, err = leaves.Create(user.ID, model.LeaveTypeSick, start.AddDate(0, 0, 2), end.AddDate(0, 0, 2), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40005:")

	// A different user is free to overlap.
	bob := seedUser(t, db, "bob")
	_, err = leaves.Create(bob.ID, model.LeaveTypeSick, start, end, "")
	require.NoError(t, err)
}

func TestLeaveDecide(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	approver := seedUser(t, db, "bob")
	leaves := NewLeaveService(db)

	start := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)
	leave, err := leaves.Create(user.ID, model.LeaveTypeVacation, start, start.AddDate(0, 0, 2), "")
	require.NoError(t, err)

	_, err = leaves.Decide(leave.ID, user.ID, true, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")

	decided, err := leaves.Decide(leave.ID, approver.ID, true, "enjoy")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveStatusApproved, decided.Status)
	require.NotNil(t, decided.ApproverID)
	assert.Equal(t, approver.ID, *decided.ApproverID)
	assert.NotNil(t, decided.DecidedAt)

	// Decisions are final.
	_, err = leaves.Decide(leave.ID, approver.ID, false, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40003:")
}

func TestLeaveCancel(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	leaves := NewLeaveService(db)

	start := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)
	leave, err := leaves.Create(user.ID, model.LeaveTypePersonal, start, start, "")
	require.NoError(t, err)

	err = leaves.Cancel(leave.ID, other.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40303:")

	require.NoError(t, leaves.Cancel(leave.ID, user.ID))

	// Cancelling frees the window for a new request.
	_, err = leaves.Create(user.ID, model.LeaveTypePersonal, start, start, "")
	require.NoError(t, err)
}

package service

import (
	"math"

	"github.com/sprintline/backend/internal/model"
)

// DeriveFRStatus recomputes a functional requirement's lifecycle status
// from the statuses of its linked tasks:
//
//	no tasks                     -> draft
//	any in_progress or review    -> implemented
//	all done                     -> tested
//	tasks exist, none started    -> approved
//
// The rule is recomputed from scratch on every call, so reopening a
// done task moves the FR backward. review and deployed are user-set
// states; callers skip the sync entirely while the FR sits in either.
func DeriveFRStatus(taskStatuses []string) string {
	if len(taskStatuses) == 0 {
		return model.FRStatusDraft
	}
	anyActive := false
	allDone := true
	for _, st := range taskStatuses {
		switch st {
		case model.TaskStatusInProgress, model.TaskStatusReview:
			anyActive = true
			allDone = false
		case model.TaskStatusDone:
		default:
			allDone = false
		}
	}
	if anyActive {
		return model.FRStatusImplemented
	}
	if allDone {
		return model.FRStatusTested
	}
	return model.FRStatusApproved
}

// EpicProgress is the completion percentage of an epic, rounded to the
// nearest integer. With no linked tasks the previously stored value is
// returned, so a fresh epic does not misreport 0%.
func EpicProgress(done, total, stored int) int {
	if total == 0 {
		return stored
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

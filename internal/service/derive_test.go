package service

import (
	"testing"

	"github.com/sprintline/backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestDeriveFRStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{name: "no tasks", statuses: nil, want: model.FRStatusDraft},
		{name: "single todo", statuses: []string{model.TaskStatusTodo}, want: model.FRStatusApproved},
		{name: "todo plus in_progress", statuses: []string{model.TaskStatusTodo, model.TaskStatusInProgress}, want: model.FRStatusImplemented},
		{name: "all done", statuses: []string{model.TaskStatusDone, model.TaskStatusDone}, want: model.FRStatusTested},
		{name: "in_progress dominates over done", statuses: []string{model.TaskStatusDone, model.TaskStatusInProgress}, want: model.FRStatusImplemented},
		{name: "review counts as active", statuses: []string{model.TaskStatusReview}, want: model.FRStatusImplemented},
		{name: "backlog only", statuses: []string{model.TaskStatusBacklog, model.TaskStatusBacklog}, want: model.FRStatusApproved},
		{name: "done plus untouched backlog", statuses: []string{model.TaskStatusDone, model.TaskStatusBacklog}, want: model.FRStatusApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveFRStatus(tt.statuses))
		})
	}
}

func TestEpicProgress(t *testing.T) {
	tests := []struct {
		name   string
		done   int
		total  int
		stored int
		want   int
	}{
		{name: "no tasks falls back to stored", done: 0, total: 0, stored: 40, want: 40},
		{name: "zero of three", done: 0, total: 3, stored: 99, want: 0},
		{name: "one of three rounds to 33", done: 1, total: 3, want: 33},
		{name: "two of three rounds to 67", done: 2, total: 3, want: 67},
		{name: "all done", done: 5, total: 5, want: 100},
		{name: "half", done: 1, total: 2, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EpicProgress(tt.done, tt.total, tt.stored))
		})
	}
}

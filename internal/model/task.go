package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	TaskStatusBacklog    = "backlog"
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

var TaskStatuses = []string{
	TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress,
	TaskStatusReview, TaskStatusDone,
}

func ValidTaskStatus(s string) bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Task struct {
	ID                      uint           `gorm:"primaryKey" json:"id"`
	ProjectID               uint           `gorm:"not null;uniqueIndex:uk_task_hierarchy;index:idx_tasks_project" json:"project_id"`
	SprintID                *uint          `gorm:"index:idx_tasks_sprint" json:"sprint_id"`
	EpicID                  *uint          `gorm:"index:idx_tasks_epic" json:"epic_id"`
	FunctionalRequirementID *uint          `gorm:"index:idx_tasks_fr" json:"functional_requirement_id"`
	ParentID                *uint          `gorm:"index:idx_tasks_parent" json:"parent_id"`
	HierarchyID             string         `gorm:"type:varchar(96);not null;uniqueIndex:uk_task_hierarchy" json:"hierarchy_id"`
	Title                   string         `gorm:"type:varchar(256);not null" json:"title"`
	Description             string         `gorm:"type:text" json:"description"`
	Status                  string         `gorm:"type:varchar(20);default:backlog;index:idx_tasks_status" json:"status"`
	Priority                string         `gorm:"type:varchar(5);default:p1" json:"priority"`
	AssigneeID              *uint          `gorm:"index:idx_tasks_assignee" json:"assignee_id"`
	// Position orders tasks inside a board column.
	Position        int            `gorm:"default:0" json:"position"`
	EstimateMinutes int            `gorm:"default:0" json:"estimate_minutes"`
	SpentMinutes    int            `gorm:"default:0" json:"spent_minutes"`
	// AutoCreated marks the task seeded by a sprint assignment on a
	// functional requirement; at most one exists per FR+sprint pair.
	AutoCreated bool           `gorm:"default:false" json:"auto_created"`
	CreatorID   uint           `gorm:"not null" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Sprint                *Sprint                `gorm:"foreignKey:SprintID" json:"sprint,omitempty"`
	Epic                  *Epic                  `gorm:"foreignKey:EpicID" json:"epic,omitempty"`
	FunctionalRequirement *FunctionalRequirement `gorm:"foreignKey:FunctionalRequirementID" json:"functional_requirement,omitempty"`
	Parent                *Task                  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Assignee              *User                  `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Project               *Project               `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Task) TableName() string { return "tasks" }

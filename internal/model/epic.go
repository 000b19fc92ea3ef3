package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	EpicStatusTodo       = "todo"
	EpicStatusInProgress = "in_progress"
	EpicStatusDone       = "done"
)

type Epic struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ProjectID     uint           `gorm:"not null;uniqueIndex:uk_epic_hierarchy;index:idx_epics_project" json:"project_id"`
	RequirementID *uint          `gorm:"index:idx_epics_requirement" json:"requirement_id"`
	HierarchyID   string         `gorm:"type:varchar(64);not null;uniqueIndex:uk_epic_hierarchy" json:"hierarchy_id"`
	Name          string         `gorm:"type:varchar(128);not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Status        string         `gorm:"type:varchar(20);default:todo;index:idx_epics_status" json:"status"`
	// Progress is the last persisted completion percentage. The live
	// value is derived from linked tasks on the read path; this column
	// only backs the zero-task fallback.
	Progress  int            `gorm:"default:0" json:"progress"`
	CreatorID uint           `gorm:"not null" json:"creator_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Requirement *ClientRequirement `gorm:"foreignKey:RequirementID" json:"requirement,omitempty"`
	Project     *Project           `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Creator     *User              `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (Epic) TableName() string { return "epics" }

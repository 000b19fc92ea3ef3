package model

import (
	"time"

	"gorm.io/gorm"
)

// ClientRequirement is the optional top-level grouping above epics.
// Deletion is refused in the service layer while epics or functional
// requirements still reference it.
type ClientRequirement struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ProjectID   uint           `gorm:"not null;uniqueIndex:uk_req_hierarchy;index:idx_reqs_project" json:"project_id"`
	HierarchyID string         `gorm:"type:varchar(64);not null;uniqueIndex:uk_req_hierarchy" json:"hierarchy_id"`
	Title       string         `gorm:"type:varchar(256);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Priority    string         `gorm:"type:varchar(5);default:p1" json:"priority"`
	CreatorID   uint           `gorm:"not null;index:idx_reqs_creator" json:"creator_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Creator *User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (ClientRequirement) TableName() string { return "client_requirements" }

package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Functional requirement lifecycle. review and deployed are reachable
// only by explicit user action; the task-driven sync sets the other
// four and never moves anything out of deployed.
const (
	FRStatusDraft       = "draft"
	FRStatusReview      = "review"
	FRStatusApproved    = "approved"
	FRStatusImplemented = "implemented"
	FRStatusTested      = "tested"
	FRStatusDeployed    = "deployed"
)

var FRStatuses = []string{
	FRStatusDraft, FRStatusReview, FRStatusApproved,
	FRStatusImplemented, FRStatusTested, FRStatusDeployed,
}

func ValidFRStatus(s string) bool {
	for _, v := range FRStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// UintList is a JSON-column list of user IDs.
type UintList []uint

func (l UintList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *UintList) Scan(value interface{}) error {
	if value == nil {
		*l = UintList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	}
	return json.Unmarshal(bytes, l)
}

type FunctionalRequirement struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ProjectID     uint           `gorm:"not null;uniqueIndex:uk_fr_hierarchy;index:idx_frs_project" json:"project_id"`
	RequirementID *uint          `gorm:"index:idx_frs_requirement" json:"requirement_id"`
	EpicID        *uint          `gorm:"index:idx_frs_epic" json:"epic_id"`
	SprintID      *uint          `gorm:"index:idx_frs_sprint" json:"sprint_id"`
	HierarchyID   string         `gorm:"type:varchar(64);not null;uniqueIndex:uk_fr_hierarchy" json:"hierarchy_id"`
	Title         string         `gorm:"type:varchar(256);not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Status        string         `gorm:"type:varchar(20);default:draft;index:idx_frs_status" json:"status"`
	Priority      string         `gorm:"type:varchar(5);default:p1" json:"priority"`
	AssigneeIDs   UintList       `gorm:"type:json" json:"assignee_ids"`
	CreatorID     uint           `gorm:"not null" json:"creator_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Requirement *ClientRequirement `gorm:"foreignKey:RequirementID" json:"requirement,omitempty"`
	Epic        *Epic              `gorm:"foreignKey:EpicID" json:"epic,omitempty"`
	Sprint      *Sprint            `gorm:"foreignKey:SprintID" json:"sprint,omitempty"`
	Project     *Project           `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Creator     *User              `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

func (FunctionalRequirement) TableName() string { return "functional_requirements" }

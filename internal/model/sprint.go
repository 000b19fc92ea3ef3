package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	SprintStatusPlanning  = "planning"
	SprintStatusActive    = "active"
	SprintStatusCompleted = "completed"
)

type Sprint struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProjectID uint           `gorm:"not null;index:idx_sprints_project" json:"project_id"`
	Name      string         `gorm:"type:varchar(128);not null" json:"name"`
	Goal      string         `gorm:"type:text" json:"goal"`
	StartDate *time.Time     `json:"start_date"`
	EndDate   *time.Time     `json:"end_date"`
	Status    string         `gorm:"type:varchar(10);default:planning;index:idx_sprints_status" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Sprint) TableName() string { return "sprints" }

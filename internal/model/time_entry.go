package model

import (
	"time"

	"gorm.io/gorm"
)

type TimeEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_time_entries_user" json:"user_id"`
	TaskID    uint           `gorm:"not null;index:idx_time_entries_task" json:"task_id"`
	ProjectID uint           `gorm:"not null;index:idx_time_entries_project" json:"project_id"`
	Date      time.Time      `gorm:"type:date;not null;index:idx_time_entries_date" json:"date"`
	Minutes   int            `gorm:"not null" json:"minutes"`
	Note      string         `gorm:"type:varchar(512)" json:"note"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Task *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

func (TimeEntry) TableName() string { return "time_entries" }

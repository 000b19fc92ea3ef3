package model

import "time"

// ProjectSetting holds the per-project notification webhook. The secret
// is AES-GCM encrypted at rest by the setting service.
type ProjectSetting struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProjectID     uint      `gorm:"not null;uniqueIndex:uk_project_id" json:"project_id"`
	WebhookURL    string    `gorm:"type:varchar(512)" json:"webhook_url"`
	WebhookSecret string    `gorm:"type:varchar(512)" json:"-"`
	Enabled       bool      `gorm:"default:false" json:"enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ProjectSetting) TableName() string { return "project_settings" }

package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// Project is the tenancy root. Code is the short, stable, user-visible
// prefix every hierarchy identifier in the project starts with; it is
// immutable after creation.
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"type:varchar(10);uniqueIndex:idx_code;not null" json:"code"`
	Name        string         `gorm:"type:varchar(128);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Methodology string         `gorm:"type:varchar(16);default:scrum" json:"methodology"`
	OwnerID     uint           `gorm:"not null;index:idx_projects_owner" json:"owner_id"`
	Status      string         `gorm:"type:varchar(10);default:active;index:idx_projects_status" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Owner   *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

func (Project) TableName() string { return "projects" }

type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:uk_project_user" json:"project_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uk_project_user;index:idx_members_user" json:"user_id"`
	Role      string    `gorm:"type:varchar(10);not null" json:"role"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ProjectMember) TableName() string { return "project_members" }

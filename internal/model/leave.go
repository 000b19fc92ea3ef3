package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	LeaveTypeVacation = "vacation"
	LeaveTypeSick     = "sick"
	LeaveTypePersonal = "personal"

	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

type LeaveRequest struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index:idx_leaves_user" json:"user_id"`
	Type       string         `gorm:"type:varchar(10);not null" json:"type"`
	StartDate  time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate    time.Time      `gorm:"type:date;not null" json:"end_date"`
	Reason     string         `gorm:"type:varchar(512)" json:"reason"`
	Status     string         `gorm:"type:varchar(10);default:pending;index:idx_leaves_status" json:"status"`
	ApproverID *uint          `json:"approver_id"`
	Comment    string         `gorm:"type:varchar(512)" json:"comment"`
	DecidedAt  *time.Time     `json:"decided_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User     *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Approver *User `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
}

func (LeaveRequest) TableName() string { return "leave_requests" }

package service

import (
	"fmt"
	"time"

	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

type LeaveService struct {
	db *gorm.DB
}

func NewLeaveService(db *gorm.DB) *LeaveService {
	return &LeaveService{db: db}
}

func (s *LeaveService) Create(userID uint, leaveType string, startDate, endDate time.Time, reason string) (*model.LeaveRequest, error) {
	switch leaveType {
	case model.LeaveTypeVacation, model.LeaveTypeSick, model.LeaveTypePersonal:
	default:
		return nil, fmt.Errorf("40001:invalid leave type %q", leaveType)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("40001:leave end date is before its start date")
	}

	var overlapping int64
	s.db.Model(&model.LeaveRequest{}).
		Where("user_id = ? AND status != ? AND start_date <= ? AND end_date >= ?",
			userID, model.LeaveStatusRejected, endDate, startDate).
		Count(&overlapping)
	if overlapping > 0 {
		return nil, fmt.Errorf("40005:an overlapping leave request already exists")
	}

	leave := &model.LeaveRequest{
		UserID:    userID,
		Type:      leaveType,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    reason,
		Status:    model.LeaveStatusPending,
	}
	if err := s.db.Create(leave).Error; err != nil {
		return nil, err
	}
	return leave, nil
}

func (s *LeaveService) ListByUser(userID uint, status string, page, pageSize int) ([]model.LeaveRequest, int64, error) {
	query := s.db.Model(&model.LeaveRequest{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var leaves []model.LeaveRequest
	if err := query.Preload("Approver").Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&leaves).Error; err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

func (s *LeaveService) ListPending(page, pageSize int) ([]model.LeaveRequest, int64, error) {
	query := s.db.Model(&model.LeaveRequest{}).Where("status = ?", model.LeaveStatusPending)

	var total int64
	query.Count(&total)

	var leaves []model.LeaveRequest
	if err := query.Preload("User").Order("created_at asc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&leaves).Error; err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

func (s *LeaveService) GetByID(id uint) (*model.LeaveRequest, error) {
	var leave model.LeaveRequest
	if err := s.db.Preload("User").Preload("Approver").First(&leave, id).Error; err != nil {
		return nil, err
	}
	return &leave, nil
}

// Decide approves or rejects a pending request. Decisions are final.
func (s *LeaveService) Decide(id, approverID uint, approve bool, comment string) (*model.LeaveRequest, error) {
	leave, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if leave.Status != model.LeaveStatusPending {
		return nil, fmt.Errorf("40003:leave request is already %s", leave.Status)
	}
	if leave.UserID == approverID {
		return nil, fmt.Errorf("40003:cannot decide your own leave request")
	}

	status := model.LeaveStatusRejected
	if approve {
		status = model.LeaveStatusApproved
	}
	now := time.Now()
	if err := s.db.Model(&model.LeaveRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      status,
		"approver_id": approverID,
		"comment":     comment,
		"decided_at":  &now,
	}).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *LeaveService) Cancel(id, userID uint) error {
	var leave model.LeaveRequest
	if err := s.db.First(&leave, id).Error; err != nil {
		return fmt.Errorf("40401:leave request not found")
	}
	if leave.UserID != userID {
		return fmt.Errorf("40303:only the requester can cancel a leave request")
	}
	if leave.Status != model.LeaveStatusPending {
		return fmt.Errorf("40003:leave request is already %s", leave.Status)
	}
	return s.db.Delete(&model.LeaveRequest{}, id).Error
}

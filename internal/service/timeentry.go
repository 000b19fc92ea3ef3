package service

import (
	"fmt"
	"time"

	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

type TimeEntryService struct {
	db *gorm.DB
}

func NewTimeEntryService(db *gorm.DB) *TimeEntryService {
	return &TimeEntryService{db: db}
}

// Create logs time against a task and keeps the task's spent counter in
// step inside the same transaction.
func (s *TimeEntryService) Create(userID, taskID uint, date time.Time, minutes int, note string) (*model.TimeEntry, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("40001:minutes must be positive")
	}
	var task model.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		return nil, fmt.Errorf("40401:task not found")
	}

	entry := &model.TimeEntry{
		UserID:    userID,
		TaskID:    taskID,
		ProjectID: task.ProjectID,
		Date:      date,
		Minutes:   minutes,
		Note:      note,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Model(&model.Task{}).Where("id = ?", taskID).
			UpdateColumn("spent_minutes", gorm.Expr("spent_minutes + ?", minutes)).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *TimeEntryService) List(userID *uint, taskID, projectID *uint, from, to *time.Time, page, pageSize int) ([]model.TimeEntry, int64, error) {
	query := s.db.Model(&model.TimeEntry{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if taskID != nil {
		query = query.Where("task_id = ?", *taskID)
	}
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date <= ?", *to)
	}

	var total int64
	query.Count(&total)

	var entries []model.TimeEntry
	if err := query.Preload("Task").Order("date desc, created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *TimeEntryService) Delete(id, userID uint, isAdmin bool) error {
	var entry model.TimeEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		return fmt.Errorf("40401:time entry not found")
	}
	if !isAdmin && entry.UserID != userID {
		return fmt.Errorf("40303:only the author can delete a time entry")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.TimeEntry{}, id).Error; err != nil {
			return err
		}
		return tx.Model(&model.Task{}).Where("id = ?", entry.TaskID).
			UpdateColumn("spent_minutes", gorm.Expr("spent_minutes - ?", entry.Minutes)).Error
	})
}

// DailyTotal is one day's logged minutes for a user.
type DailyTotal struct {
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
}

// SummaryByDay aggregates a user's logged minutes per day over a range.
func (s *TimeEntryService) SummaryByDay(userID uint, from, to time.Time) ([]DailyTotal, error) {
	var totals []DailyTotal
	err := s.db.Model(&model.TimeEntry{}).
		Select("date, SUM(minutes) as minutes").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Group("date").Order("date asc").
		Scan(&totals).Error
	return totals, err
}

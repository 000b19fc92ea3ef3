package service

import (
	"fmt"
	"log"
	"time"

	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

type SprintService struct {
	db    *gorm.DB
	frs   *FRService
	epics *EpicService
}

func NewSprintService(db *gorm.DB, frs *FRService, epics *EpicService) *SprintService {
	return &SprintService{db: db, frs: frs, epics: epics}
}

func (s *SprintService) Create(projectID uint, name, goal string, startDate, endDate *time.Time) (*model.Sprint, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, fmt.Errorf("40401:project not found")
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, fmt.Errorf("40001:sprint end date is before its start date")
	}

	sprint := &model.Sprint{
		ProjectID: projectID,
		Name:      name,
		Goal:      goal,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    model.SprintStatusPlanning,
	}
	if err := s.db.Create(sprint).Error; err != nil {
		return nil, err
	}
	return sprint, nil
}

func (s *SprintService) List(projectID uint, status string, page, pageSize int) ([]model.Sprint, int64, error) {
	query := s.db.Model(&model.Sprint{}).Where("project_id = ?", projectID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var sprints []model.Sprint
	if err := query.Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&sprints).Error; err != nil {
		return nil, 0, err
	}
	return sprints, total, nil
}

func (s *SprintService) GetByID(id uint) (*model.Sprint, error) {
	var sprint model.Sprint
	if err := s.db.Preload("Project").First(&sprint, id).Error; err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (s *SprintService) Update(id uint, updates map[string]interface{}) (*model.Sprint, error) {
	delete(updates, "status")
	if err := s.db.Model(&model.Sprint{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Start activates a planning sprint. One active sprint per project.
func (s *SprintService) Start(id uint) (*model.Sprint, error) {
	sprint, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sprint.Status != model.SprintStatusPlanning {
		return nil, fmt.Errorf("40003:sprint is %s and cannot be started", sprint.Status)
	}

	var active int64
	s.db.Model(&model.Sprint{}).
		Where("project_id = ? AND status = ?", sprint.ProjectID, model.SprintStatusActive).
		Count(&active)
	if active > 0 {
		return nil, fmt.Errorf("40003:project already has an active sprint")
	}

	updates := map[string]interface{}{"status": model.SprintStatusActive}
	if sprint.StartDate == nil {
		now := time.Now()
		updates["start_date"] = &now
	}
	if err := s.db.Model(&model.Sprint{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Complete closes an active sprint and pushes its unfinished tasks back
// to the backlog so they show up for the next planning round. Tasks
// moved this way are status mutations like any other, so the linked FRs
// and epics are reconciled afterwards, best-effort.
func (s *SprintService) Complete(id uint) (*model.Sprint, int64, error) {
	sprint, err := s.GetByID(id)
	if err != nil {
		return nil, 0, err
	}
	if sprint.Status != model.SprintStatusActive {
		return nil, 0, fmt.Errorf("40003:sprint is %s and cannot be completed", sprint.Status)
	}

	var frIDs, epicIDs []uint
	s.db.Model(&model.Task{}).
		Where("sprint_id = ? AND status != ? AND functional_requirement_id IS NOT NULL", id, model.TaskStatusDone).
		Distinct().Pluck("functional_requirement_id", &frIDs)
	s.db.Model(&model.Task{}).
		Where("sprint_id = ? AND status != ? AND epic_id IS NOT NULL", id, model.TaskStatusDone).
		Distinct().Pluck("epic_id", &epicIDs)

	res := s.db.Model(&model.Task{}).
		Where("sprint_id = ? AND status != ?", id, model.TaskStatusDone).
		Update("status", model.TaskStatusBacklog)
	if res.Error != nil {
		return nil, 0, res.Error
	}

	if err := s.db.Model(&model.Sprint{}).Where("id = ?", id).Update("status", model.SprintStatusCompleted).Error; err != nil {
		return nil, 0, err
	}

	for _, frID := range frIDs {
		if err := s.frs.SyncStatusFromTasks(frID); err != nil {
			log.Printf("[sync] fr %d status sync failed after sprint %d completion: %v", frID, id, err)
		}
	}
	for _, epicID := range epicIDs {
		if err := s.epics.RefreshProgress(epicID); err != nil {
			log.Printf("[sync] epic %d progress refresh failed after sprint %d completion: %v", epicID, id, err)
		}
	}

	done, err := s.GetByID(id)
	return done, res.RowsAffected, err
}

func (s *SprintService) Delete(id uint) error {
	var taskCount int64
	s.db.Model(&model.Task{}).Where("sprint_id = ?", id).Count(&taskCount)
	if taskCount > 0 {
		return fmt.Errorf("40003:sprint has %d linked task(s) and cannot be deleted", taskCount)
	}
	var frCount int64
	s.db.Model(&model.FunctionalRequirement{}).Where("sprint_id = ?", id).Count(&frCount)
	if frCount > 0 {
		return fmt.Errorf("40003:sprint has %d linked functional requirement(s) and cannot be deleted", frCount)
	}
	return s.db.Delete(&model.Sprint{}, id).Error
}

package service

import (
	"fmt"
	"log"

	"github.com/sprintline/backend/internal/hierarchy"
	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

type EpicService struct {
	db *gorm.DB
}

func NewEpicService(db *gorm.DB) *EpicService {
	return &EpicService{db: db}
}

func (s *EpicService) Create(projectID uint, requirementID *uint, name, description string, creatorID uint) (*model.Epic, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, fmt.Errorf("40401:project not found")
	}

	// Resolve the ancestry; a dangling requirement link degrades to the
	// standalone shape instead of failing the creation.
	ancestry := hierarchy.Standalone(project.Code)
	if requirementID != nil {
		var req model.ClientRequirement
		if err := s.db.First(&req, *requirementID).Error; err != nil {
			log.Printf("[hierarchy] epic ancestor requirement %d not found, falling back: %v", *requirementID, err)
			requirementID = nil
		} else {
			ancestry = hierarchy.FullChain(project.Code, req.Title, name)
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		seq, err := allocSequence(s.db, projectID, scopeEpic)
		if err != nil {
			return nil, err
		}
		epic := &model.Epic{
			ProjectID:     projectID,
			RequirementID: requirementID,
			HierarchyID:   hierarchy.EpicID(ancestry, name, seq),
			Name:          name,
			Description:   description,
			Status:        model.EpicStatusTodo,
			CreatorID:     creatorID,
		}
		err = s.db.Create(epic).Error
		if err == nil {
			return epic, nil
		}
		if !isDuplicateHierarchyID(err) {
			return nil, err
		}
		log.Printf("[hierarchy] epic id collision in project %d, retrying", projectID)
	}
	return nil, fmt.Errorf("40902:hierarchy id collision, please retry")
}

func (s *EpicService) List(projectID uint, status string, page, pageSize int) ([]model.Epic, int64, error) {
	query := s.db.Model(&model.Epic{}).Where("project_id = ?", projectID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var epics []model.Epic
	if err := query.Preload("Requirement").Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&epics).Error; err != nil {
		return nil, 0, err
	}
	return epics, total, nil
}

func (s *EpicService) GetByID(id uint) (*model.Epic, error) {
	var epic model.Epic
	if err := s.db.Preload("Requirement").Preload("Project").First(&epic, id).Error; err != nil {
		return nil, err
	}
	return &epic, nil
}

func (s *EpicService) Update(id uint, updates map[string]interface{}) (*model.Epic, error) {
	delete(updates, "hierarchy_id")
	if err := s.db.Model(&model.Epic{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *EpicService) Delete(id uint) error {
	var frCount int64
	s.db.Model(&model.FunctionalRequirement{}).Where("epic_id = ?", id).Count(&frCount)
	if frCount > 0 {
		return fmt.Errorf("40003:epic has %d linked functional requirement(s) and cannot be deleted", frCount)
	}
	var taskCount int64
	s.db.Model(&model.Task{}).Where("epic_id = ?", id).Count(&taskCount)
	if taskCount > 0 {
		return fmt.Errorf("40003:epic has %d linked task(s) and cannot be deleted", taskCount)
	}
	return s.db.Delete(&model.Epic{}, id).Error
}

// Progress derives the live completion percentage from linked tasks,
// falling back to the stored value when no tasks exist yet.
func (s *EpicService) Progress(epic *model.Epic) int {
	var total, done int64
	s.db.Model(&model.Task{}).Where("epic_id = ?", epic.ID).Count(&total)
	s.db.Model(&model.Task{}).Where("epic_id = ? AND status = ?", epic.ID, model.TaskStatusDone).Count(&done)
	return EpicProgress(int(done), int(total), epic.Progress)
}

// RefreshProgress recomputes and persists progress and the derived epic
// status after a linked task changed. Best-effort: the caller logs the
// error and never rolls back the task mutation.
func (s *EpicService) RefreshProgress(epicID uint) error {
	var epic model.Epic
	if err := s.db.First(&epic, epicID).Error; err != nil {
		return err
	}

	var total, done int64
	s.db.Model(&model.Task{}).Where("epic_id = ?", epicID).Count(&total)
	if total == 0 {
		return nil
	}
	s.db.Model(&model.Task{}).Where("epic_id = ? AND status = ?", epicID, model.TaskStatusDone).Count(&done)

	progress := EpicProgress(int(done), int(total), epic.Progress)
	status := model.EpicStatusInProgress
	if done == 0 {
		status = model.EpicStatusTodo
	} else if done == total {
		status = model.EpicStatusDone
	}

	if progress == epic.Progress && status == epic.Status {
		return nil
	}
	return s.db.Model(&model.Epic{}).Where("id = ?", epicID).
		Updates(map[string]interface{}{"progress": progress, "status": status}).Error
}

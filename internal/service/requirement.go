package service

import (
	"fmt"
	"log"

	"github.com/sprintline/backend/internal/hierarchy"
	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

type RequirementService struct {
	db *gorm.DB
}

func NewRequirementService(db *gorm.DB) *RequirementService {
	return &RequirementService{db: db}
}

func (s *RequirementService) Create(projectID uint, title, description, priority string, creatorID uint) (*model.ClientRequirement, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, fmt.Errorf("40401:project not found")
	}
	if priority == "" {
		priority = "p1"
	}

	for attempt := 0; attempt < 2; attempt++ {
		seq, err := allocSequence(s.db, projectID, scopeRequirement)
		if err != nil {
			return nil, err
		}
		req := &model.ClientRequirement{
			ProjectID:   projectID,
			HierarchyID: hierarchy.RequirementID(project.Code, title, seq),
			Title:       title,
			Description: description,
			Priority:    priority,
			CreatorID:   creatorID,
		}
		err = s.db.Create(req).Error
		if err == nil {
			return req, nil
		}
		if !isDuplicateHierarchyID(err) {
			return nil, err
		}
		log.Printf("[hierarchy] requirement id collision in project %d, retrying", projectID)
	}
	return nil, fmt.Errorf("40902:hierarchy id collision, please retry")
}

func (s *RequirementService) List(projectID uint, keyword string, page, pageSize int) ([]model.ClientRequirement, int64, error) {
	query := s.db.Model(&model.ClientRequirement{}).Where("project_id = ?", projectID)
	if keyword != "" {
		query = query.Where("title LIKE ?", "%"+keyword+"%")
	}

	var total int64
	query.Count(&total)

	var reqs []model.ClientRequirement
	if err := query.Preload("Creator").Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&reqs).Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (s *RequirementService) GetByID(id uint) (*model.ClientRequirement, error) {
	var req model.ClientRequirement
	if err := s.db.Preload("Creator").Preload("Project").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// Update accepts title/description/priority only; the hierarchy ID is
// never recomputed on rename.
func (s *RequirementService) Update(id uint, updates map[string]interface{}) (*model.ClientRequirement, error) {
	delete(updates, "hierarchy_id")
	if err := s.db.Model(&model.ClientRequirement{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete refuses while epics or functional requirements still reference
// the requirement. This is the application-level referential guard; the
// store does not enforce it.
func (s *RequirementService) Delete(id uint) error {
	var epicCount int64
	s.db.Model(&model.Epic{}).Where("requirement_id = ?", id).Count(&epicCount)
	if epicCount > 0 {
		return fmt.Errorf("40003:requirement has %d linked epic(s) and cannot be deleted", epicCount)
	}

	var frCount int64
	s.db.Model(&model.FunctionalRequirement{}).Where("requirement_id = ?", id).Count(&frCount)
	if frCount > 0 {
		return fmt.Errorf("40003:requirement has %d linked functional requirement(s) and cannot be deleted", frCount)
	}

	return s.db.Delete(&model.ClientRequirement{}, id).Error
}

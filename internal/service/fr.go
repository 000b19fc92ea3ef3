package service

import (
	"fmt"
	"log"

	"github.com/sprintline/backend/internal/hierarchy"
	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

type FRService struct {
	db *gorm.DB
}

func NewFRService(db *gorm.DB) *FRService {
	return &FRService{db: db}
}

func (s *FRService) Create(projectID uint, requirementID, epicID *uint, title, description, priority string, assigneeIDs []uint, creatorID uint) (*model.FunctionalRequirement, error) {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, fmt.Errorf("40401:project not found")
	}
	if priority == "" {
		priority = "p1"
	}

	// Resolve ancestry for the identifier. Every failed lookup degrades
	// one shape down; creation itself never fails on hierarchy grounds.
	ancestry := hierarchy.Standalone(project.Code)
	if epicID != nil {
		var epic model.Epic
		if err := s.db.First(&epic, *epicID).Error; err != nil {
			log.Printf("[hierarchy] fr ancestor epic %d not found, falling back: %v", *epicID, err)
			epicID = nil
		} else {
			ancestry = hierarchy.EpicOnly(project.Code, epic.Name)
			if requirementID == nil {
				requirementID = epic.RequirementID
			}
			if epic.RequirementID != nil {
				var req model.ClientRequirement
				if err := s.db.First(&req, *epic.RequirementID).Error; err != nil {
					log.Printf("[hierarchy] fr ancestor requirement %d not found, keeping epic-only shape: %v", *epic.RequirementID, err)
				} else {
					ancestry = hierarchy.FullChain(project.Code, req.Title, epic.Name)
				}
			}
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		seq, err := allocSequence(s.db, projectID, scopeFR)
		if err != nil {
			return nil, err
		}
		fr := &model.FunctionalRequirement{
			ProjectID:     projectID,
			RequirementID: requirementID,
			EpicID:        epicID,
			HierarchyID:   hierarchy.FunctionalRequirementID(ancestry, title, seq),
			Title:         title,
			Description:   description,
			Status:        model.FRStatusDraft,
			Priority:      priority,
			AssigneeIDs:   assigneeIDs,
			CreatorID:     creatorID,
		}
		err = s.db.Create(fr).Error
		if err == nil {
			return fr, nil
		}
		if !isDuplicateHierarchyID(err) {
			return nil, err
		}
		log.Printf("[hierarchy] fr id collision in project %d, retrying", projectID)
	}
	return nil, fmt.Errorf("40902:hierarchy id collision, please retry")
}

func (s *FRService) List(projectID uint, epicID, sprintID *uint, status, keyword string, page, pageSize int) ([]model.FunctionalRequirement, int64, error) {
	query := s.db.Model(&model.FunctionalRequirement{}).Where("project_id = ?", projectID)
	if epicID != nil {
		query = query.Where("epic_id = ?", *epicID)
	}
	if sprintID != nil {
		query = query.Where("sprint_id = ?", *sprintID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		query = query.Where("title LIKE ?", "%"+keyword+"%")
	}

	var total int64
	query.Count(&total)

	var frs []model.FunctionalRequirement
	if err := query.Preload("Epic").Preload("Sprint").Preload("Creator").
		Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&frs).Error; err != nil {
		return nil, 0, err
	}
	return frs, total, nil
}

func (s *FRService) GetByID(id uint) (*model.FunctionalRequirement, error) {
	var fr model.FunctionalRequirement
	if err := s.db.Preload("Epic").Preload("Sprint").Preload("Requirement").
		Preload("Project").Preload("Creator").First(&fr, id).Error; err != nil {
		return nil, err
	}
	return &fr, nil
}

// Update covers title/description/priority/assignees. Status and sprint
// moves go through UpdateStatus and AssignSprint; the hierarchy ID is
// immutable.
func (s *FRService) Update(id uint, updates map[string]interface{}) (*model.FunctionalRequirement, error) {
	delete(updates, "hierarchy_id")
	delete(updates, "status")
	delete(updates, "sprint_id")
	if err := s.db.Model(&model.FunctionalRequirement{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// UpdateStatus is the explicit user path. It is the only way into
// review and deployed, and deployed is terminal.
func (s *FRService) UpdateStatus(id uint, status string) (*model.FunctionalRequirement, error) {
	if !model.ValidFRStatus(status) {
		return nil, fmt.Errorf("40001:invalid status %q", status)
	}
	fr, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if fr.Status == model.FRStatusDeployed && status != model.FRStatusDeployed {
		return nil, fmt.Errorf("40003:functional requirement is deployed and cannot move back")
	}
	if err := s.db.Model(&model.FunctionalRequirement{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, err
	}
	fr.Status = status
	return fr, nil
}

// SyncStatusFromTasks recomputes the FR status from its linked tasks
// and persists it if it changed. Runs best-effort after task mutations:
// callers log the error and never roll back the task write. User-held
// states (review, deployed) are left alone.
func (s *FRService) SyncStatusFromTasks(frID uint) error {
	var fr model.FunctionalRequirement
	if err := s.db.First(&fr, frID).Error; err != nil {
		return err
	}
	if fr.Status == model.FRStatusReview || fr.Status == model.FRStatusDeployed {
		return nil
	}

	var statuses []string
	if err := s.db.Model(&model.Task{}).
		Where("functional_requirement_id = ?", frID).
		Pluck("status", &statuses).Error; err != nil {
		return err
	}

	derived := DeriveFRStatus(statuses)
	if derived == fr.Status {
		return nil
	}
	return s.db.Model(&model.FunctionalRequirement{}).Where("id = ?", frID).Update("status", derived).Error
}

// AssignSprint updates the sprint link and, on a first assignment or a
// move to a different sprint, seeds a task from the FR. The returned
// task is nil when the guard rejected the call or a seeded task already
// existed.
func (s *FRService) AssignSprint(id uint, newSprintID *uint) (*model.FunctionalRequirement, *model.Task, error) {
	fr, err := s.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	previous := fr.SprintID

	if err := s.db.Model(&model.FunctionalRequirement{}).Where("id = ?", id).Update("sprint_id", newSprintID).Error; err != nil {
		return nil, nil, err
	}
	fr.SprintID = newSprintID

	if newSprintID == nil {
		return fr, nil, nil
	}
	task, err := s.AutoCreateTaskOnSprintAssignment(id, *newSprintID, previous)
	if err != nil {
		// Seeding is secondary; the sprint link is already in place.
		log.Printf("[sync] auto-create task for fr %d failed: %v", id, err)
		return fr, nil, nil
	}
	return fr, task, nil
}

// AutoCreateTaskOnSprintAssignment creates the seeded task for an FR
// newly assigned to a sprint. The caller-supplied previous sprint
// distinguishes first assignment from a re-save; since a stale value
// would create duplicates, the FR+sprint pair is also re-checked
// against existing seeded tasks before inserting.
func (s *FRService) AutoCreateTaskOnSprintAssignment(frID, newSprintID uint, previousSprintID *uint) (*model.Task, error) {
	if previousSprintID != nil && *previousSprintID == newSprintID {
		return nil, nil
	}

	var existing int64
	s.db.Model(&model.Task{}).
		Where("functional_requirement_id = ? AND sprint_id = ? AND auto_created = ?", frID, newSprintID, true).
		Count(&existing)
	if existing > 0 {
		return nil, nil
	}

	var fr model.FunctionalRequirement
	if err := s.db.First(&fr, frID).Error; err != nil {
		return nil, err
	}

	sprintName := ""
	var sprint model.Sprint
	if err := s.db.First(&sprint, newSprintID).Error; err != nil {
		log.Printf("[hierarchy] sprint %d not found while seeding task, using fr-only shape: %v", newSprintID, err)
	} else {
		sprintName = sprint.Name
	}

	var assignee *uint
	if len(fr.AssigneeIDs) > 0 {
		assignee = &fr.AssigneeIDs[0]
	}

	sprintID := newSprintID
	for attempt := 0; attempt < 2; attempt++ {
		seq, err := allocSequence(s.db, fr.ProjectID, scopeTask)
		if err != nil {
			return nil, err
		}
		task := &model.Task{
			ProjectID:               fr.ProjectID,
			SprintID:                &sprintID,
			EpicID:                  fr.EpicID,
			FunctionalRequirementID: &fr.ID,
			HierarchyID:             hierarchy.TaskIDUnderFR(fr.HierarchyID, sprintName, seq),
			Title:                   fr.Title,
			Description:             fr.Description,
			Status:                  model.TaskStatusTodo,
			Priority:                fr.Priority,
			AssigneeID:              assignee,
			AutoCreated:             true,
			CreatorID:               fr.CreatorID,
		}
		err = s.db.Create(task).Error
		if err == nil {
			return task, nil
		}
		if !isDuplicateHierarchyID(err) {
			return nil, err
		}
		log.Printf("[hierarchy] seeded task id collision in project %d, retrying", fr.ProjectID)
	}
	return nil, fmt.Errorf("40902:hierarchy id collision, please retry")
}

func (s *FRService) Delete(id uint) error {
	var taskCount int64
	s.db.Model(&model.Task{}).Where("functional_requirement_id = ?", id).Count(&taskCount)
	if taskCount > 0 {
		return fmt.Errorf("40003:functional requirement has %d linked task(s) and cannot be deleted", taskCount)
	}
	return s.db.Delete(&model.FunctionalRequirement{}, id).Error
}

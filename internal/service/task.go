package service

import (
	"fmt"
	"log"

	"github.com/sprintline/backend/internal/hierarchy"
	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

type TaskService struct {
	db    *gorm.DB
	frs   *FRService
	epics *EpicService
}

func NewTaskService(db *gorm.DB, frs *FRService, epics *EpicService) *TaskService {
	return &TaskService{db: db, frs: frs, epics: epics}
}

// TaskInput carries the creation payload. Optional links drive the
// identifier shape; a parent makes the task a subtask.
type TaskInput struct {
	ProjectID       uint
	SprintID        *uint
	EpicID          *uint
	FRID            *uint
	ParentID        *uint
	Title           string
	Description     string
	Priority        string
	AssigneeID      *uint
	EstimateMinutes int
	CreatorID       uint
}

func (s *TaskService) Create(in TaskInput) (*model.Task, error) {
	var project model.Project
	if err := s.db.First(&project, in.ProjectID).Error; err != nil {
		return nil, fmt.Errorf("40401:project not found")
	}
	if in.Priority == "" {
		in.Priority = "p1"
	}

	if in.ParentID != nil {
		return s.createSubtask(project, in)
	}

	// Pick the richest shape the resolvable links allow; every failed
	// lookup degrades toward <CODE>-T<NN>. Hierarchy cosmetics never
	// block creation.
	sprintName := ""
	if in.SprintID != nil {
		var sprint model.Sprint
		if err := s.db.First(&sprint, *in.SprintID).Error; err != nil {
			log.Printf("[hierarchy] task sprint %d not found, falling back: %v", *in.SprintID, err)
			in.SprintID = nil
		} else {
			sprintName = sprint.Name
		}
	}

	var frHierarchyID string
	if in.FRID != nil {
		var fr model.FunctionalRequirement
		if err := s.db.First(&fr, *in.FRID).Error; err != nil {
			log.Printf("[hierarchy] task fr %d not found, falling back: %v", *in.FRID, err)
			in.FRID = nil
		} else {
			frHierarchyID = fr.HierarchyID
			if in.EpicID == nil {
				in.EpicID = fr.EpicID
			}
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		seq, err := allocSequence(s.db, in.ProjectID, scopeTask)
		if err != nil {
			return nil, err
		}
		var hierarchyID string
		switch {
		case frHierarchyID != "":
			hierarchyID = hierarchy.TaskIDUnderFR(frHierarchyID, sprintName, seq)
		case in.SprintID != nil:
			hierarchyID = hierarchy.TaskIDInSprint(project.Code, project.Name, sprintName, seq)
		default:
			hierarchyID = hierarchy.TaskIDBare(project.Code, seq)
		}

		task := &model.Task{
			ProjectID:               in.ProjectID,
			SprintID:                in.SprintID,
			EpicID:                  in.EpicID,
			FunctionalRequirementID: in.FRID,
			HierarchyID:             hierarchyID,
			Title:                   in.Title,
			Description:             in.Description,
			Status:                  model.TaskStatusBacklog,
			Priority:                in.Priority,
			AssigneeID:              in.AssigneeID,
			EstimateMinutes:         in.EstimateMinutes,
			CreatorID:               in.CreatorID,
		}
		err = s.db.Create(task).Error
		if err == nil {
			s.afterTaskChange(task)
			return task, nil
		}
		if !isDuplicateHierarchyID(err) {
			return nil, err
		}
		log.Printf("[hierarchy] task id collision in project %d, retrying", in.ProjectID)
	}
	return nil, fmt.Errorf("40902:hierarchy id collision, please retry")
}

func (s *TaskService) createSubtask(project model.Project, in TaskInput) (*model.Task, error) {
	var parent model.Task
	if err := s.db.First(&parent, *in.ParentID).Error; err != nil {
		return nil, fmt.Errorf("40401:parent task not found")
	}
	if parent.ParentID != nil {
		return nil, fmt.Errorf("40003:subtasks cannot be nested")
	}

	for attempt := 0; attempt < 2; attempt++ {
		// Ordinal counter per parent; deleting a sibling leaves a gap.
		n, err := allocSequence(s.db, in.ProjectID, subtaskScope(parent.ID))
		if err != nil {
			return nil, err
		}
		task := &model.Task{
			ProjectID:               in.ProjectID,
			SprintID:                parent.SprintID,
			EpicID:                  parent.EpicID,
			FunctionalRequirementID: parent.FunctionalRequirementID,
			ParentID:                in.ParentID,
			HierarchyID:             hierarchy.SubtaskID(parent.HierarchyID, n),
			Title:                   in.Title,
			Description:             in.Description,
			Status:                  model.TaskStatusTodo,
			Priority:                in.Priority,
			AssigneeID:              in.AssigneeID,
			EstimateMinutes:         in.EstimateMinutes,
			CreatorID:               in.CreatorID,
		}
		err = s.db.Create(task).Error
		if err == nil {
			s.afterTaskChange(task)
			return task, nil
		}
		if !isDuplicateHierarchyID(err) {
			return nil, err
		}
		log.Printf("[hierarchy] subtask id collision under task %d, retrying", parent.ID)
	}
	return nil, fmt.Errorf("40902:hierarchy id collision, please retry")
}

func (s *TaskService) List(projectID uint, sprintID, epicID, frID, assigneeID, parentID *uint, status, keyword string, page, pageSize int) ([]model.Task, int64, error) {
	query := s.db.Model(&model.Task{}).Where("project_id = ?", projectID)
	if sprintID != nil {
		query = query.Where("sprint_id = ?", *sprintID)
	}
	if epicID != nil {
		query = query.Where("epic_id = ?", *epicID)
	}
	if frID != nil {
		query = query.Where("functional_requirement_id = ?", *frID)
	}
	if assigneeID != nil {
		query = query.Where("assignee_id = ?", *assigneeID)
	}
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		query = query.Where("title LIKE ?", "%"+keyword+"%")
	}

	var total int64
	query.Count(&total)

	var tasks []model.Task
	if err := query.Preload("Assignee").Preload("Sprint").
		Order("status asc, position asc, created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Board returns the sprint (or backlog) tasks grouped by status in
// board column order.
func (s *TaskService) Board(projectID uint, sprintID *uint) (map[string][]model.Task, error) {
	query := s.db.Model(&model.Task{}).Where("project_id = ?", projectID)
	if sprintID != nil {
		query = query.Where("sprint_id = ?", *sprintID)
	} else {
		query = query.Where("sprint_id IS NULL")
	}

	var tasks []model.Task
	if err := query.Preload("Assignee").Order("position asc, created_at asc").Find(&tasks).Error; err != nil {
		return nil, err
	}

	columns := make(map[string][]model.Task, len(model.TaskStatuses))
	for _, st := range model.TaskStatuses {
		columns[st] = []model.Task{}
	}
	for _, t := range tasks {
		columns[t.Status] = append(columns[t.Status], t)
	}
	return columns, nil
}

func (s *TaskService) GetByID(id uint) (*model.Task, error) {
	var task model.Task
	if err := s.db.Preload("Assignee").Preload("Sprint").Preload("Epic").
		Preload("FunctionalRequirement").Preload("Parent").First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Update(id uint, updates map[string]interface{}) (*model.Task, error) {
	delete(updates, "hierarchy_id")
	delete(updates, "status")
	if err := s.db.Model(&model.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// UpdateStatus persists the new status, then reconciles derived state.
// The task write is the primary operation; FR sync and epic rollup are
// best-effort and never undo it.
func (s *TaskService) UpdateStatus(id uint, status string) (*model.Task, error) {
	if !model.ValidTaskStatus(status) {
		return nil, fmt.Errorf("40001:invalid status %q", status)
	}
	task, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task.Status == status {
		return task, nil
	}
	if err := s.db.Model(&model.Task{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, err
	}
	task.Status = status
	s.afterTaskChange(task)
	return task, nil
}

// Move relocates a task to a board column position: shift the column
// tail down, drop the task in. Status change side effects apply as in
// UpdateStatus.
func (s *TaskService) Move(id uint, status string, position int) (*model.Task, error) {
	if !model.ValidTaskStatus(status) {
		return nil, fmt.Errorf("40001:invalid status %q", status)
	}
	task, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	statusChanged := task.Status != status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		shift := tx.Model(&model.Task{}).
			Where("project_id = ? AND status = ? AND position >= ? AND id != ?", task.ProjectID, status, position, id)
		if task.SprintID != nil {
			shift = shift.Where("sprint_id = ?", *task.SprintID)
		} else {
			shift = shift.Where("sprint_id IS NULL")
		}
		if err := shift.UpdateColumn("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&model.Task{}).Where("id = ?", id).
			Updates(map[string]interface{}{"status": status, "position": position}).Error
	})
	if err != nil {
		return nil, err
	}

	task.Status = status
	task.Position = position
	if statusChanged {
		s.afterTaskChange(task)
	}
	return task, nil
}

func (s *TaskService) Delete(id uint) error {
	var subtasks int64
	s.db.Model(&model.Task{}).Where("parent_id = ?", id).Count(&subtasks)
	if subtasks > 0 {
		return fmt.Errorf("40003:task has %d subtask(s) and cannot be deleted", subtasks)
	}

	task, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&model.Task{}, id).Error; err != nil {
		return err
	}
	s.afterTaskChange(task)
	return nil
}

// afterTaskChange reconciles state derived from this task's links.
// Failures are logged and swallowed: the task mutation already
// succeeded and stays.
func (s *TaskService) afterTaskChange(task *model.Task) {
	if task.FunctionalRequirementID != nil {
		if err := s.frs.SyncStatusFromTasks(*task.FunctionalRequirementID); err != nil {
			log.Printf("[sync] fr %d status sync failed: %v", *task.FunctionalRequirementID, err)
		}
	}
	if task.EpicID != nil {
		if err := s.epics.RefreshProgress(*task.EpicID); err != nil {
			log.Printf("[sync] epic %d progress refresh failed: %v", *task.EpicID, err)
		}
	}
}

package service

import (
	"fmt"
	"strings"

	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

func (s *ProjectService) Create(code, name, description, methodology string, ownerID uint, memberIDs []uint) (*model.Project, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("40001:project code is required")
	}

	var count int64
	s.db.Model(&model.Project{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("40005:project name already exists")
	}
	s.db.Model(&model.Project{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("40005:project code already exists")
	}

	if methodology == "" {
		methodology = "scrum"
	}
	project := &model.Project{
		Code:        code,
		Name:        name,
		Description: description,
		Methodology: methodology,
		OwnerID:     ownerID,
		Status:      model.ProjectStatusActive,
	}
	if err := s.db.Create(project).Error; err != nil {
		return nil, err
	}

	// Owner joins with their actual role
	var owner model.User
	s.db.First(&owner, ownerID)
	ownerRole := owner.Role
	if ownerRole == "" {
		ownerRole = model.RoleRD
	}
	s.db.Create(&model.ProjectMember{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      ownerRole,
	})

	for _, uid := range memberIDs {
		if uid == ownerID {
			continue
		}
		s.db.Create(&model.ProjectMember{
			ProjectID: project.ID,
			UserID:    uid,
			Role:      model.RoleRD,
		})
	}

	s.db.Preload("Owner").First(project, project.ID)
	return project, nil
}

func (s *ProjectService) List(userID uint, isAdmin bool, keyword, status string, ownerID *uint, page, pageSize int, sortBy, order string) ([]model.Project, int64, error) {
	query := s.db.Model(&model.Project{})

	if !isAdmin {
		query = query.Where("id IN (SELECT project_id FROM project_members WHERE user_id = ?)", userID)
	}
	if keyword != "" {
		query = query.Where("name LIKE ? OR code LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var total int64
	query.Count(&total)

	if sortBy == "" {
		sortBy = "updated_at"
	}
	if order == "" {
		order = "desc"
	}
	query = query.Order(sortBy + " " + order)

	var projects []model.Project
	if err := query.Preload("Owner").Offset((page-1)*pageSize).Limit(pageSize).Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (s *ProjectService) GetByID(id uint) (*model.Project, error) {
	var project model.Project
	if err := s.db.Preload("Owner").Preload("Members.User").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update never touches the project code: hierarchy identifiers embed it
// and are immutable once assigned.
func (s *ProjectService) Update(id uint, updates map[string]interface{}) (*model.Project, error) {
	delete(updates, "code")
	if name, ok := updates["name"]; ok {
		var count int64
		s.db.Model(&model.Project{}).Where("name = ? AND id != ?", name, id).Count(&count)
		if count > 0 {
			return nil, fmt.Errorf("40005:project name already exists")
		}
	}
	if err := s.db.Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *ProjectService) Archive(id uint) error {
	var activeSprints int64
	s.db.Model(&model.Sprint{}).
		Where("project_id = ? AND status = ?", id, model.SprintStatusActive).
		Count(&activeSprints)
	if activeSprints > 0 {
		return fmt.Errorf("40003:project has an active sprint and cannot be archived")
	}
	return s.db.Model(&model.Project{}).Where("id = ?", id).Update("status", model.ProjectStatusArchived).Error
}

func (s *ProjectService) IsMember(projectID, userID uint) bool {
	var count int64
	s.db.Model(&model.ProjectMember{}).Where("project_id = ? AND user_id = ?", projectID, userID).Count(&count)
	return count > 0
}

func (s *ProjectService) AddMembers(projectID uint, userIDs []uint, role string) ([]model.UserBrief, []uint, error) {
	var added []model.UserBrief
	var skipped []uint

	for _, uid := range userIDs {
		var user model.User
		if err := s.db.First(&user, uid).Error; err != nil {
			return nil, nil, fmt.Errorf("40401:user not found: id=%d", uid)
		}

		var count int64
		s.db.Model(&model.ProjectMember{}).Where("project_id = ? AND user_id = ?", projectID, uid).Count(&count)
		if count > 0 {
			skipped = append(skipped, uid)
			continue
		}

		s.db.Create(&model.ProjectMember{
			ProjectID: projectID,
			UserID:    uid,
			Role:      role,
		})
		added = append(added, model.UserBrief{ID: user.ID, Name: user.Name, Role: role})
	}
	return added, skipped, nil
}

func (s *ProjectService) RemoveMember(projectID, userID uint) error {
	var project model.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return err
	}
	if project.OwnerID == userID {
		return fmt.Errorf("40003:project owner cannot be removed")
	}

	result := s.db.Where("project_id = ? AND user_id = ?", projectID, userID).Delete(&model.ProjectMember{})
	if result.RowsAffected == 0 {
		return fmt.Errorf("40401:user is not a project member")
	}
	return nil
}

// GetProjectStats breaks tasks and functional requirements down by
// status for the project overview page.
func (s *ProjectService) GetProjectStats(projectID uint) map[string]interface{} {
	taskStats := make(map[string]int64)
	for _, st := range model.TaskStatuses {
		var count int64
		s.db.Model(&model.Task{}).Where("project_id = ? AND status = ?", projectID, st).Count(&count)
		taskStats[st] = count
	}

	frStats := make(map[string]int64)
	for _, st := range model.FRStatuses {
		var count int64
		s.db.Model(&model.FunctionalRequirement{}).Where("project_id = ? AND status = ?", projectID, st).Count(&count)
		frStats[st] = count
	}

	var totalTasks, totalFRs, totalEpics int64
	s.db.Model(&model.Task{}).Where("project_id = ?", projectID).Count(&totalTasks)
	s.db.Model(&model.FunctionalRequirement{}).Where("project_id = ?", projectID).Count(&totalFRs)
	s.db.Model(&model.Epic{}).Where("project_id = ?", projectID).Count(&totalEpics)

	return map[string]interface{}{
		"tasks":        taskStats,
		"frs":          frStats,
		"total_tasks":  totalTasks,
		"total_frs":    totalFRs,
		"total_epics":  totalEpics,
		"member_count": s.GetMemberCount(projectID),
	}
}

func (s *ProjectService) GetMemberCount(projectID uint) int64 {
	var count int64
	s.db.Model(&model.ProjectMember{}).Where("project_id = ?", projectID).Count(&count)
	return count
}

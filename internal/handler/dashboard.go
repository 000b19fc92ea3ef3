package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/middleware"
	"github.com/sprintline/backend/internal/model"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// GET /dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var myProjects int64
	h.db.Model(&model.ProjectMember{}).Where("user_id = ?", userID).Count(&myProjects)

	var myOpenTasks int64
	h.db.Model(&model.Task{}).
		Where("assignee_id = ? AND status != ?", userID, model.TaskStatusDone).
		Count(&myOpenTasks)

	var activeSprints int64
	h.db.Model(&model.Sprint{}).
		Where("status = ? AND project_id IN (SELECT project_id FROM project_members WHERE user_id = ?)",
			model.SprintStatusActive, userID).
		Count(&activeSprints)

	var myPendingLeaves int64
	h.db.Model(&model.LeaveRequest{}).
		Where("user_id = ? AND status = ?", userID, model.LeaveStatusPending).
		Count(&myPendingLeaves)

	// Recent activity (last 10) in the user's projects
	var recentLogs []model.OperationLog
	h.db.Preload("User").
		Where("user_id IN (SELECT user_id FROM project_members WHERE project_id IN (SELECT project_id FROM project_members WHERE user_id = ?))", userID).
		Order("created_at desc").Limit(10).Find(&recentLogs)

	recentActivity := make([]gin.H, 0)
	for _, entry := range recentLogs {
		item := gin.H{
			"action":        entry.Action,
			"resource_type": entry.ResourceType,
			"resource_id":   entry.ResourceID,
			"time":          entry.CreatedAt,
		}
		if entry.User != nil {
			item["user"] = gin.H{"id": entry.User.ID, "name": entry.User.Name}
		}
		recentActivity = append(recentActivity, item)
	}

	Success(c, gin.H{
		"my_projects":       myProjects,
		"my_open_tasks":     myOpenTasks,
		"active_sprints":    activeSprints,
		"my_pending_leaves": myPendingLeaves,
		"recent_activity":   recentActivity,
	})
}

// GET /dashboard/my-work
func (h *DashboardHandler) GetMyWork(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	// Open tasks assigned to me, most urgent first
	var myTasks []model.Task
	h.db.Preload("Project").Preload("Sprint").
		Where("assignee_id = ? AND status NOT IN ?", userID, []string{model.TaskStatusDone, model.TaskStatusBacklog}).
		Order("priority asc, created_at asc").Limit(20).Find(&myTasks)

	taskList := make([]gin.H, 0)
	for _, t := range myTasks {
		item := gin.H{
			"id":           t.ID,
			"hierarchy_id": t.HierarchyID,
			"title":        t.Title,
			"status":       t.Status,
			"priority":     t.Priority,
		}
		if t.Project != nil {
			item["project"] = gin.H{"id": t.Project.ID, "code": t.Project.Code, "name": t.Project.Name}
		}
		if t.Sprint != nil {
			item["sprint"] = gin.H{"id": t.Sprint.ID, "name": t.Sprint.Name}
		}
		taskList = append(taskList, item)
	}

	// FRs in flight in my projects that name me as an assignee.
	// assignee_ids is a JSON column, so filter in memory.
	var frs []model.FunctionalRequirement
	h.db.Preload("Project").
		Where("status NOT IN ? AND project_id IN (SELECT project_id FROM project_members WHERE user_id = ?)",
			[]string{model.FRStatusDeployed}, userID).
		Order("created_at desc").Limit(100).Find(&frs)

	frList := make([]gin.H, 0)
	for _, fr := range frs {
		mine := false
		for _, id := range fr.AssigneeIDs {
			if id == userID {
				mine = true
				break
			}
		}
		if !mine {
			continue
		}
		item := gin.H{
			"id":           fr.ID,
			"hierarchy_id": fr.HierarchyID,
			"title":        fr.Title,
			"status":       fr.Status,
			"priority":     fr.Priority,
		}
		if fr.Project != nil {
			item["project"] = gin.H{"id": fr.Project.ID, "code": fr.Project.Code, "name": fr.Project.Name}
		}
		frList = append(frList, item)
	}

	// My pending leave requests
	var leaves []model.LeaveRequest
	h.db.Where("user_id = ? AND status = ?", userID, model.LeaveStatusPending).
		Order("start_date asc").Find(&leaves)

	leaveList := make([]gin.H, 0)
	for _, l := range leaves {
		leaveList = append(leaveList, gin.H{
			"id":         l.ID,
			"type":       l.Type,
			"start_date": l.StartDate,
			"end_date":   l.EndDate,
			"status":     l.Status,
		})
	}

	Success(c, gin.H{
		"tasks":  taskList,
		"frs":    frList,
		"leaves": leaveList,
	})
}

// GET /sprints/:id/burndown
//
// Per-day logged minutes and completed task counts over the sprint
// window, for the burndown chart.
func (h *DashboardHandler) SprintBurndown(c *gin.Context) {
	id := parseID(c.Param("id"))

	var sprint model.Sprint
	if err := h.db.First(&sprint, id).Error; err != nil {
		NotFound(c, 40401, "sprint not found")
		return
	}

	var totalTasks, doneTasks int64
	h.db.Model(&model.Task{}).Where("sprint_id = ?", id).Count(&totalTasks)
	h.db.Model(&model.Task{}).Where("sprint_id = ? AND status = ?", id, model.TaskStatusDone).Count(&doneTasks)

	type dayRow struct {
		Date    time.Time `json:"date"`
		Minutes int       `json:"minutes"`
	}
	var days []dayRow
	h.db.Model(&model.TimeEntry{}).
		Select("date, SUM(minutes) as minutes").
		Where("task_id IN (SELECT id FROM tasks WHERE sprint_id = ?)", id).
		Group("date").Order("date asc").
		Scan(&days)

	Success(c, gin.H{
		"sprint_id":   sprint.ID,
		"name":        sprint.Name,
		"status":      sprint.Status,
		"start_date":  sprint.StartDate,
		"end_date":    sprint.EndDate,
		"total_tasks": totalTasks,
		"done_tasks":  doneTasks,
		"days":        days,
	})
}

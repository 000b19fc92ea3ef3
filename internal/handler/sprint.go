package handler

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/notify"
	"github.com/sprintline/backend/internal/service"
)

type SprintHandler struct {
	sprintService *service.SprintService
	notifier      notify.Notifier
}

func NewSprintHandler(sprintService *service.SprintService, notifier notify.Notifier) *SprintHandler {
	return &SprintHandler{sprintService: sprintService, notifier: notifier}
}

// POST /projects/:id/sprints
func (h *SprintHandler) Create(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	var req struct {
		Name      string     `json:"name" binding:"required,max=128"`
		Goal      string     `json:"goal" binding:"max=1000"`
		StartDate *time.Time `json:"start_date"`
		EndDate   *time.Time `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	sprint, err := h.sprintService.Create(projectID, req.Name, req.Goal, req.StartDate, req.EndDate)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":         sprint.ID,
		"name":       sprint.Name,
		"goal":       sprint.Goal,
		"status":     sprint.Status,
		"start_date": sprint.StartDate,
		"end_date":   sprint.EndDate,
		"created_at": sprint.CreatedAt,
	})
}

// GET /projects/:id/sprints
func (h *SprintHandler) List(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	page, pageSize := parsePage(c)
	status := c.Query("status")

	sprints, total, err := h.sprintService.List(projectID, status, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(sprints))
	for _, s := range sprints {
		list = append(list, gin.H{
			"id":         s.ID,
			"name":       s.Name,
			"goal":       s.Goal,
			"status":     s.Status,
			"start_date": s.StartDate,
			"end_date":   s.EndDate,
			"created_at": s.CreatedAt,
		})
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /sprints/:id
func (h *SprintHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))
	sprint, err := h.sprintService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "sprint not found")
		return
	}

	Success(c, gin.H{
		"id":         sprint.ID,
		"project_id": sprint.ProjectID,
		"name":       sprint.Name,
		"goal":       sprint.Goal,
		"status":     sprint.Status,
		"start_date": sprint.StartDate,
		"end_date":   sprint.EndDate,
		"created_at": sprint.CreatedAt,
		"updated_at": sprint.UpdatedAt,
	})
}

// PUT /sprints/:id
func (h *SprintHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Name      *string    `json:"name"`
		Goal      *string    `json:"goal"`
		StartDate *time.Time `json:"start_date"`
		EndDate   *time.Time `json:"end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Goal != nil {
		updates["goal"] = *req.Goal
	}
	if req.StartDate != nil {
		updates["start_date"] = req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = req.EndDate
	}

	sprint, err := h.sprintService.Update(id, updates)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":         sprint.ID,
		"name":       sprint.Name,
		"goal":       sprint.Goal,
		"status":     sprint.Status,
		"start_date": sprint.StartDate,
		"end_date":   sprint.EndDate,
		"updated_at": sprint.UpdatedAt,
	})
}

// PUT /sprints/:id/start
func (h *SprintHandler) Start(c *gin.Context) {
	id := parseID(c.Param("id"))
	sprint, err := h.sprintService.Start(id)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	event := notify.SprintStartedEvent{
		ProjectID: sprint.ProjectID,
		SprintID:  sprint.ID,
		Name:      sprint.Name,
		Goal:      sprint.Goal,
	}
	if sprint.Project != nil {
		event.ProjectName = sprint.Project.Name
	}
	go func() {
		if err := h.notifier.NotifySprintStarted(context.Background(), event); err != nil {
			log.Printf("[notify] sprint started notification failed: %v", err)
		}
	}()

	Success(c, gin.H{
		"id":         sprint.ID,
		"name":       sprint.Name,
		"status":     sprint.Status,
		"start_date": sprint.StartDate,
	})
}

// PUT /sprints/:id/complete
func (h *SprintHandler) Complete(c *gin.Context) {
	id := parseID(c.Param("id"))
	sprint, moved, err := h.sprintService.Complete(id)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	event := notify.SprintCompletedEvent{
		ProjectID:      sprint.ProjectID,
		SprintID:       sprint.ID,
		Name:           sprint.Name,
		MovedToBacklog: moved,
	}
	if sprint.Project != nil {
		event.ProjectName = sprint.Project.Name
	}
	go func() {
		if err := h.notifier.NotifySprintCompleted(context.Background(), event); err != nil {
			log.Printf("[notify] sprint completed notification failed: %v", err)
		}
	}()

	Success(c, gin.H{
		"id":               sprint.ID,
		"name":             sprint.Name,
		"status":           sprint.Status,
		"moved_to_backlog": moved,
	})
}

// DELETE /sprints/:id
func (h *SprintHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	if err := h.sprintService.Delete(id); err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}
	Success(c, gin.H{"message": "sprint deleted"})
}

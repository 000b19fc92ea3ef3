package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/middleware"
	"github.com/sprintline/backend/internal/model"
	"github.com/sprintline/backend/internal/notify"
	"github.com/sprintline/backend/internal/service"
	"github.com/sprintline/backend/internal/sse"
)

type TaskHandler struct {
	taskService    *service.TaskService
	projectService *service.ProjectService
	hub            *sse.Hub
	notifier       notify.Notifier
}

func NewTaskHandler(taskService *service.TaskService, projectService *service.ProjectService, hub *sse.Hub, notifier notify.Notifier) *TaskHandler {
	return &TaskHandler{taskService: taskService, projectService: projectService, hub: hub, notifier: notifier}
}

// POST /projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	var req struct {
		Title           string `json:"title" binding:"required,max=256"`
		Description     string `json:"description" binding:"max=10000"`
		Priority        string `json:"priority" binding:"omitempty,oneof=p0 p1 p2"`
		SprintID        *uint  `json:"sprint_id"`
		EpicID          *uint  `json:"epic_id"`
		FRID            *uint  `json:"fr_id"`
		ParentID        *uint  `json:"parent_id"`
		AssigneeID      *uint  `json:"assignee_id"`
		EstimateMinutes int    `json:"estimate_minutes" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	task, err := h.taskService.Create(service.TaskInput{
		ProjectID:       projectID,
		SprintID:        req.SprintID,
		EpicID:          req.EpicID,
		FRID:            req.FRID,
		ParentID:        req.ParentID,
		Title:           req.Title,
		Description:     req.Description,
		Priority:        req.Priority,
		AssigneeID:      req.AssigneeID,
		EstimateMinutes: req.EstimateMinutes,
		CreatorID:       middleware.GetCurrentUserID(c),
	})
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	h.broadcast(projectID, "task_created", task)
	if task.AssigneeID != nil {
		h.notifyAssigned(c, task)
	}
	Success(c, taskBrief(task))
}

// GET /projects/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	page, pageSize := parsePage(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	optID := func(name string) *uint {
		if s := c.Query(name); s != "" {
			v := parseID(s)
			return &v
		}
		return nil
	}

	tasks, total, err := h.taskService.List(projectID,
		optID("sprint_id"), optID("epic_id"), optID("fr_id"),
		optID("assignee_id"), optID("parent_id"),
		status, keyword, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(tasks))
	for i := range tasks {
		list = append(list, taskBrief(&tasks[i]))
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /projects/:id/board
func (h *TaskHandler) Board(c *gin.Context) {
	projectID := parseID(c.Param("id"))

	var sprintID *uint
	if s := c.Query("sprint_id"); s != "" {
		v := parseID(s)
		sprintID = &v
	}

	columns, err := h.taskService.Board(projectID, sprintID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	data := gin.H{}
	for status, tasks := range columns {
		col := make([]gin.H, 0, len(tasks))
		for i := range tasks {
			col = append(col, taskBrief(&tasks[i]))
		}
		data[status] = col
	}
	Success(c, data)
}

// GET /projects/:id/board/stream
//
// Server-sent events for live board updates. Clients reconnect with
// Last-Event-ID to replay what they missed.
func (h *TaskHandler) BoardStream(c *gin.Context) {
	projectID := parseID(c.Param("id"))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		InternalError(c, "streaming not supported")
		return
	}

	lastEventID := sse.ParseLastEventID(c.GetHeader("Last-Event-ID"))

	// Replay history
	history, _ := h.hub.ReplayFrom(projectID, lastEventID)
	eventID := lastEventID
	for _, ev := range history {
		data, _ := json.Marshal(ev.Data)
		fmt.Fprintf(c.Writer, "id: %d\nevent: %s\ndata: %s\n\n", eventID, ev.Type, string(data))
		eventID++
		flusher.Flush()
	}

	// Subscribe for live events
	ch, unsub := h.hub.Subscribe(projectID)
	defer unsub()

	ctx := c.Request.Context()
	heartbeat := make(chan struct{})

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case heartbeat <- struct{}{}:
				default:
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case ev := <-ch:
			data, _ := json.Marshal(ev.Data)
			fmt.Fprintf(c.Writer, "id: %d\nevent: %s\ndata: %s\n\n", eventID, ev.Type, string(data))
			eventID++
			flusher.Flush()
		case <-heartbeat:
			fmt.Fprintf(c.Writer, ": heartbeat\n\n")
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

// GET /tasks/:id
func (h *TaskHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))
	task, err := h.taskService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "task not found")
		return
	}

	data := taskBrief(task)
	data["description"] = task.Description
	if task.Sprint != nil {
		data["sprint"] = gin.H{"id": task.Sprint.ID, "name": task.Sprint.Name, "status": task.Sprint.Status}
	}
	if task.Epic != nil {
		data["epic"] = gin.H{"id": task.Epic.ID, "hierarchy_id": task.Epic.HierarchyID, "name": task.Epic.Name}
	}
	if task.FunctionalRequirement != nil {
		data["functional_requirement"] = gin.H{
			"id":           task.FunctionalRequirement.ID,
			"hierarchy_id": task.FunctionalRequirement.HierarchyID,
			"title":        task.FunctionalRequirement.Title,
			"status":       task.FunctionalRequirement.Status,
		}
	}
	if task.Parent != nil {
		data["parent"] = gin.H{"id": task.Parent.ID, "hierarchy_id": task.Parent.HierarchyID, "title": task.Parent.Title}
	}
	Success(c, data)
}

// GET /tasks/:id/subtasks
func (h *TaskHandler) ListSubtasks(c *gin.Context) {
	id := parseID(c.Param("id"))
	task, err := h.taskService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "task not found")
		return
	}

	subtasks, total, err := h.taskService.List(task.ProjectID, nil, nil, nil, nil, &task.ID, "", "", 1, 100)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(subtasks))
	for i := range subtasks {
		list = append(list, taskBrief(&subtasks[i]))
	}
	SuccessPaged(c, list, total, 1, 100)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		Priority        *string `json:"priority"`
		AssigneeID      *uint   `json:"assignee_id"`
		EstimateMinutes *int    `json:"estimate_minutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	before, err := h.taskService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "task not found")
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.AssigneeID != nil {
		updates["assignee_id"] = *req.AssigneeID
	}
	if req.EstimateMinutes != nil {
		updates["estimate_minutes"] = *req.EstimateMinutes
	}

	task, err := h.taskService.Update(id, updates)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	h.broadcast(task.ProjectID, "task_updated", task)
	if req.AssigneeID != nil && (before.AssigneeID == nil || *before.AssigneeID != *req.AssigneeID) {
		h.notifyAssigned(c, task)
	}
	Success(c, taskBrief(task))
}

// PUT /tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	before, err := h.taskService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "task not found")
		return
	}
	fromStatus := before.Status

	task, err := h.taskService.UpdateStatus(id, req.Status)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	h.broadcast(task.ProjectID, "task_status_changed", task)
	if fromStatus != task.Status {
		event := notify.TaskStatusChangedEvent{
			ProjectID:   task.ProjectID,
			TaskID:      task.ID,
			HierarchyID: task.HierarchyID,
			Title:       task.Title,
			ProjectName: h.projectName(task.ProjectID),
			FromStatus:  fromStatus,
			ToStatus:    task.Status,
		}
		if u := middleware.GetCurrentUser(c); u != nil {
			event.ActorName = u.Name
		}
		go func() {
			if err := h.notifier.NotifyTaskStatusChanged(context.Background(), event); err != nil {
				log.Printf("[notify] task status change notification failed: %v", err)
			}
		}()
	}
	Success(c, taskBrief(task))
}

// PUT /tasks/:id/move
func (h *TaskHandler) Move(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Status   string `json:"status" binding:"required"`
		Position int    `json:"position" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	task, err := h.taskService.Move(id, req.Status, req.Position)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	h.broadcast(task.ProjectID, "task_moved", task)
	Success(c, taskBrief(task))
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	task, err := h.taskService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "task not found")
		return
	}

	if err := h.taskService.Delete(id); err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	h.broadcast(task.ProjectID, "task_deleted", task)
	Success(c, gin.H{"message": "task deleted"})
}

func (h *TaskHandler) broadcast(projectID uint, eventType string, task *model.Task) {
	h.hub.Broadcast(projectID, sse.Event{Type: eventType, Data: taskBrief(task)})
	h.hub.SetExpire(projectID, 24*time.Hour)
}

func (h *TaskHandler) notifyAssigned(c *gin.Context, task *model.Task) {
	event := notify.TaskAssignedEvent{
		ProjectID:   task.ProjectID,
		TaskID:      task.ID,
		HierarchyID: task.HierarchyID,
		Title:       task.Title,
		ProjectName: h.projectName(task.ProjectID),
		Priority:    task.Priority,
	}
	if u := middleware.GetCurrentUser(c); u != nil {
		event.AssignerName = u.Name
	}
	if task.Assignee != nil {
		event.AssigneeName = task.Assignee.Name
	}
	go func() {
		if err := h.notifier.NotifyTaskAssigned(context.Background(), event); err != nil {
			log.Printf("[notify] task assigned notification failed: %v", err)
		}
	}()
}

func (h *TaskHandler) projectName(projectID uint) string {
	project, err := h.projectService.GetByID(projectID)
	if err != nil {
		return ""
	}
	return project.Name
}

func taskBrief(task *model.Task) gin.H {
	data := gin.H{
		"id":                        task.ID,
		"project_id":                task.ProjectID,
		"hierarchy_id":              task.HierarchyID,
		"title":                     task.Title,
		"status":                    task.Status,
		"priority":                  task.Priority,
		"position":                  task.Position,
		"sprint_id":                 task.SprintID,
		"epic_id":                   task.EpicID,
		"functional_requirement_id": task.FunctionalRequirementID,
		"parent_id":                 task.ParentID,
		"estimate_minutes":          task.EstimateMinutes,
		"spent_minutes":             task.SpentMinutes,
		"auto_created":              task.AutoCreated,
		"created_at":                task.CreatedAt,
		"updated_at":                task.UpdatedAt,
	}
	if task.Assignee != nil {
		data["assignee"] = task.Assignee.Brief()
	} else {
		data["assignee_id"] = task.AssigneeID
	}
	return data
}

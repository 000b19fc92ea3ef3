package handler

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/middleware"
	"github.com/sprintline/backend/internal/model"
	"github.com/sprintline/backend/internal/notify"
	"github.com/sprintline/backend/internal/service"
)

type FRHandler struct {
	frService *service.FRService
	notifier  notify.Notifier
}

func NewFRHandler(frService *service.FRService, notifier notify.Notifier) *FRHandler {
	return &FRHandler{frService: frService, notifier: notifier}
}

// POST /projects/:id/frs
func (h *FRHandler) Create(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	var req struct {
		Title         string `json:"title" binding:"required,max=256"`
		Description   string `json:"description" binding:"max=10000"`
		Priority      string `json:"priority" binding:"omitempty,oneof=p0 p1 p2"`
		RequirementID *uint  `json:"requirement_id"`
		EpicID        *uint  `json:"epic_id"`
		AssigneeIDs   []uint `json:"assignee_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	fr, err := h.frService.Create(projectID, req.RequirementID, req.EpicID, req.Title, req.Description, req.Priority, req.AssigneeIDs, middleware.GetCurrentUserID(c))
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, frBrief(fr))
}

// GET /projects/:id/frs
func (h *FRHandler) List(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	page, pageSize := parsePage(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	var epicID, sprintID *uint
	if s := c.Query("epic_id"); s != "" {
		v := parseID(s)
		epicID = &v
	}
	if s := c.Query("sprint_id"); s != "" {
		v := parseID(s)
		sprintID = &v
	}

	frs, total, err := h.frService.List(projectID, epicID, sprintID, status, keyword, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(frs))
	for i := range frs {
		list = append(list, frBrief(&frs[i]))
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /frs/:id
func (h *FRHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))
	fr, err := h.frService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "functional requirement not found")
		return
	}

	data := frBrief(fr)
	data["description"] = fr.Description
	if fr.Epic != nil {
		data["epic"] = gin.H{"id": fr.Epic.ID, "hierarchy_id": fr.Epic.HierarchyID, "name": fr.Epic.Name}
	}
	if fr.Requirement != nil {
		data["requirement"] = gin.H{"id": fr.Requirement.ID, "hierarchy_id": fr.Requirement.HierarchyID, "title": fr.Requirement.Title}
	}
	if fr.Sprint != nil {
		data["sprint"] = gin.H{"id": fr.Sprint.ID, "name": fr.Sprint.Name, "status": fr.Sprint.Status}
	}
	if fr.Creator != nil {
		data["creator"] = fr.Creator.Brief()
	}
	Success(c, data)
}

// PUT /frs/:id
func (h *FRHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		AssigneeIDs *[]uint `json:"assignee_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
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
	if req.AssigneeIDs != nil {
		updates["assignee_ids"] = model.UintList(*req.AssigneeIDs)
	}

	fr, err := h.frService.Update(id, updates)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}
	Success(c, frBrief(fr))
}

// PUT /frs/:id/status
func (h *FRHandler) UpdateStatus(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	before, err := h.frService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "functional requirement not found")
		return
	}
	fromStatus := before.Status

	fr, err := h.frService.UpdateStatus(id, req.Status)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	if fromStatus != fr.Status {
		event := notify.FRStatusChangedEvent{
			ProjectID:   fr.ProjectID,
			FRID:        fr.ID,
			HierarchyID: fr.HierarchyID,
			Title:       fr.Title,
			FromStatus:  fromStatus,
			ToStatus:    fr.Status,
		}
		if fr.Project != nil {
			event.ProjectName = fr.Project.Name
		}
		go func() {
			if err := h.notifier.NotifyFRStatusChanged(context.Background(), event); err != nil {
				log.Printf("[notify] fr status change notification failed: %v", err)
			}
		}()
	}

	Success(c, frBrief(fr))
}

// PUT /frs/:id/sprint
func (h *FRHandler) AssignSprint(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		SprintID *uint `json:"sprint_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	fr, task, err := h.frService.AssignSprint(id, req.SprintID)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	data := frBrief(fr)
	if task != nil {
		data["created_task"] = gin.H{
			"id":           task.ID,
			"hierarchy_id": task.HierarchyID,
			"title":        task.Title,
			"status":       task.Status,
			"auto_created": task.AutoCreated,
		}
	}
	Success(c, data)
}

// DELETE /frs/:id
func (h *FRHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	if err := h.frService.Delete(id); err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}
	Success(c, gin.H{"message": "functional requirement deleted"})
}

func frBrief(fr *model.FunctionalRequirement) gin.H {
	return gin.H{
		"id":             fr.ID,
		"project_id":     fr.ProjectID,
		"hierarchy_id":   fr.HierarchyID,
		"title":          fr.Title,
		"status":         fr.Status,
		"priority":       fr.Priority,
		"requirement_id": fr.RequirementID,
		"epic_id":        fr.EpicID,
		"sprint_id":      fr.SprintID,
		"assignee_ids":   fr.AssigneeIDs,
		"created_at":     fr.CreatedAt,
		"updated_at":     fr.UpdatedAt,
	}
}

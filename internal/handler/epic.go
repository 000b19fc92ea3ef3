package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/middleware"
	"github.com/sprintline/backend/internal/service"
)

type EpicHandler struct {
	epicService *service.EpicService
}

func NewEpicHandler(epicService *service.EpicService) *EpicHandler {
	return &EpicHandler{epicService: epicService}
}

// POST /projects/:id/epics
func (h *EpicHandler) Create(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	var req struct {
		Name          string `json:"name" binding:"required,max=256"`
		Description   string `json:"description" binding:"max=10000"`
		RequirementID *uint  `json:"requirement_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	epic, err := h.epicService.Create(projectID, req.RequirementID, req.Name, req.Description, middleware.GetCurrentUserID(c))
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":             epic.ID,
		"hierarchy_id":   epic.HierarchyID,
		"name":           epic.Name,
		"description":    epic.Description,
		"requirement_id": epic.RequirementID,
		"status":         epic.Status,
		"progress":       epic.Progress,
		"created_at":     epic.CreatedAt,
	})
}

// GET /projects/:id/epics
func (h *EpicHandler) List(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	page, pageSize := parsePage(c)
	status := c.Query("status")

	epics, total, err := h.epicService.List(projectID, status, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(epics))
	for _, e := range epics {
		item := gin.H{
			"id":             e.ID,
			"hierarchy_id":   e.HierarchyID,
			"name":           e.Name,
			"description":    e.Description,
			"requirement_id": e.RequirementID,
			"status":         e.Status,
			"progress":       h.epicService.Progress(&e),
			"created_at":     e.CreatedAt,
			"updated_at":     e.UpdatedAt,
		}
		if e.Requirement != nil {
			item["requirement"] = gin.H{
				"id":           e.Requirement.ID,
				"hierarchy_id": e.Requirement.HierarchyID,
				"title":        e.Requirement.Title,
			}
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /epics/:id
func (h *EpicHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))
	epic, err := h.epicService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "epic not found")
		return
	}

	data := gin.H{
		"id":             epic.ID,
		"project_id":     epic.ProjectID,
		"hierarchy_id":   epic.HierarchyID,
		"name":           epic.Name,
		"description":    epic.Description,
		"requirement_id": epic.RequirementID,
		"status":         epic.Status,
		"progress":       h.epicService.Progress(epic),
		"created_at":     epic.CreatedAt,
		"updated_at":     epic.UpdatedAt,
	}
	if epic.Requirement != nil {
		data["requirement"] = gin.H{
			"id":           epic.Requirement.ID,
			"hierarchy_id": epic.Requirement.HierarchyID,
			"title":        epic.Requirement.Title,
		}
	}
	Success(c, data)
}

// PUT /epics/:id
func (h *EpicHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Status      *string `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	epic, err := h.epicService.Update(id, updates)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":           epic.ID,
		"hierarchy_id": epic.HierarchyID,
		"name":         epic.Name,
		"description":  epic.Description,
		"status":       epic.Status,
		"progress":     h.epicService.Progress(epic),
		"updated_at":   epic.UpdatedAt,
	})
}

// DELETE /epics/:id
func (h *EpicHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	if err := h.epicService.Delete(id); err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}
	Success(c, gin.H{"message": "epic deleted"})
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/middleware"
	"github.com/sprintline/backend/internal/service"
)

type RequirementHandler struct {
	requirementService *service.RequirementService
}

func NewRequirementHandler(requirementService *service.RequirementService) *RequirementHandler {
	return &RequirementHandler{requirementService: requirementService}
}

// POST /projects/:id/requirements
func (h *RequirementHandler) Create(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	var req struct {
		Title       string `json:"title" binding:"required,max=256"`
		Description string `json:"description" binding:"max=10000"`
		Priority    string `json:"priority" binding:"omitempty,oneof=p0 p1 p2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	requirement, err := h.requirementService.Create(projectID, req.Title, req.Description, req.Priority, middleware.GetCurrentUserID(c))
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":           requirement.ID,
		"hierarchy_id": requirement.HierarchyID,
		"title":        requirement.Title,
		"description":  requirement.Description,
		"priority":     requirement.Priority,
		"created_at":   requirement.CreatedAt,
	})
}

// GET /projects/:id/requirements
func (h *RequirementHandler) List(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	page, pageSize := parsePage(c)
	keyword := c.Query("keyword")

	requirements, total, err := h.requirementService.List(projectID, keyword, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(requirements))
	for _, r := range requirements {
		item := gin.H{
			"id":           r.ID,
			"hierarchy_id": r.HierarchyID,
			"title":        r.Title,
			"description":  r.Description,
			"priority":     r.Priority,
			"created_at":   r.CreatedAt,
			"updated_at":   r.UpdatedAt,
		}
		if r.Creator != nil {
			item["creator"] = r.Creator.Brief()
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /requirements/:id
func (h *RequirementHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))
	requirement, err := h.requirementService.GetByID(id)
	if err != nil {
		NotFound(c, 40401, "requirement not found")
		return
	}

	data := gin.H{
		"id":           requirement.ID,
		"project_id":   requirement.ProjectID,
		"hierarchy_id": requirement.HierarchyID,
		"title":        requirement.Title,
		"description":  requirement.Description,
		"priority":     requirement.Priority,
		"created_at":   requirement.CreatedAt,
		"updated_at":   requirement.UpdatedAt,
	}
	if requirement.Creator != nil {
		data["creator"] = requirement.Creator.Brief()
	}
	Success(c, data)
}

// PUT /requirements/:id
func (h *RequirementHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
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

	requirement, err := h.requirementService.Update(id, updates)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":           requirement.ID,
		"hierarchy_id": requirement.HierarchyID,
		"title":        requirement.Title,
		"description":  requirement.Description,
		"priority":     requirement.Priority,
		"updated_at":   requirement.UpdatedAt,
	})
}

// DELETE /requirements/:id
func (h *RequirementHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	if err := h.requirementService.Delete(id); err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}
	Success(c, gin.H{"message": "requirement deleted"})
}

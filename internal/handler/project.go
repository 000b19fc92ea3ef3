package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/middleware"
	"github.com/sprintline/backend/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	authService    *service.AuthService
}

func NewProjectHandler(projectService *service.ProjectService, authService *service.AuthService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, authService: authService}
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		Code        string `json:"code" binding:"required,max=10"`
		Name        string `json:"name" binding:"required,max=128"`
		Description string `json:"description" binding:"max=5000"`
		Methodology string `json:"methodology" binding:"omitempty,oneof=scrum kanban"`
		MemberIDs   []uint `json:"member_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	userID := middleware.GetCurrentUserID(c)
	project, err := h.projectService.Create(req.Code, req.Name, req.Description, req.Methodology, userID, req.MemberIDs)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}
	LogOperation(h.authService, c, "create", "project", project.ID, map[string]interface{}{"code": project.Code, "name": project.Name})

	data := gin.H{
		"id":          project.ID,
		"code":        project.Code,
		"name":        project.Name,
		"description": project.Description,
		"methodology": project.Methodology,
		"status":      project.Status,
		"created_at":  project.CreatedAt,
	}
	if project.Owner != nil {
		data["owner"] = project.Owner.Brief()
	}
	Success(c, data)
}

// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)
	userID := middleware.GetCurrentUserID(c)
	isAdmin := middleware.GetCurrentUserIsAdmin(c)
	keyword := c.Query("keyword")
	status := c.Query("status")
	sortBy := c.DefaultQuery("sort_by", "updated_at")
	order := c.DefaultQuery("order", "desc")

	var ownerID *uint
	if s := c.Query("owner_id"); s != "" {
		v := parseID(s)
		ownerID = &v
	}

	projects, total, err := h.projectService.List(userID, isAdmin, keyword, status, ownerID, page, pageSize, sortBy, order)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(projects))
	for _, p := range projects {
		item := gin.H{
			"id":           p.ID,
			"code":         p.Code,
			"name":         p.Name,
			"description":  p.Description,
			"methodology":  p.Methodology,
			"status":       p.Status,
			"member_count": h.projectService.GetMemberCount(p.ID),
			"created_at":   p.CreatedAt,
			"updated_at":   p.UpdatedAt,
		}
		if p.Owner != nil {
			item["owner"] = p.Owner.Brief()
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /projects/:id
func (h *ProjectHandler) GetDetail(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	project, err := h.projectService.GetByID(id)
	if err != nil {
		NotFound(c, 40402, "project not found")
		return
	}

	if !middleware.GetCurrentUserIsAdmin(c) && !h.projectService.IsMember(id, userID) {
		Forbidden(c, 40302, "not a project member")
		return
	}

	members := make([]gin.H, 0)
	for _, m := range project.Members {
		item := gin.H{
			"id":        m.UserID,
			"role":      m.Role,
			"joined_at": m.JoinedAt,
		}
		if m.User != nil {
			item["name"] = m.User.Name
			item["avatar"] = m.User.Avatar
		}
		members = append(members, item)
	}

	stats := h.projectService.GetProjectStats(id)

	data := gin.H{
		"id":          project.ID,
		"code":        project.Code,
		"name":        project.Name,
		"description": project.Description,
		"methodology": project.Methodology,
		"members":     members,
		"stats":       stats,
		"status":      project.Status,
		"created_at":  project.CreatedAt,
		"updated_at":  project.UpdatedAt,
	}
	if project.Owner != nil {
		data["owner"] = project.Owner.Brief()
	}
	Success(c, data)
}

// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	project, err := h.projectService.GetByID(id)
	if err != nil {
		NotFound(c, 40402, "project not found")
		return
	}
	if !middleware.GetCurrentUserIsAdmin(c) && project.OwnerID != userID {
		Forbidden(c, 40303, "only the project owner can edit")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Methodology *string `json:"methodology"`
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
	if req.Methodology != nil {
		updates["methodology"] = *req.Methodology
	}

	updated, err := h.projectService.Update(id, updates)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":          updated.ID,
		"code":        updated.Code,
		"name":        updated.Name,
		"description": updated.Description,
		"methodology": updated.Methodology,
		"updated_at":  updated.UpdatedAt,
	})
}

// PUT /projects/:id/archive
func (h *ProjectHandler) Archive(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	project, err := h.projectService.GetByID(id)
	if err != nil {
		NotFound(c, 40402, "project not found")
		return
	}
	if !middleware.GetCurrentUserIsAdmin(c) && project.OwnerID != userID {
		Forbidden(c, 40303, "only the project owner can archive")
		return
	}

	if err := h.projectService.Archive(id); err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}
	LogOperation(h.authService, c, "archive", "project", id, nil)

	Success(c, gin.H{"id": id, "status": "archived"})
}

// POST /projects/:id/members
func (h *ProjectHandler) AddMembers(c *gin.Context) {
	id := parseID(c.Param("id"))
	userID := middleware.GetCurrentUserID(c)

	project, err := h.projectService.GetByID(id)
	if err != nil {
		NotFound(c, 40402, "project not found")
		return
	}
	if !middleware.GetCurrentUserIsAdmin(c) && project.OwnerID != userID {
		Forbidden(c, 40303, "only the project owner can add members")
		return
	}

	var req struct {
		UserIDs []uint `json:"user_ids" binding:"required"`
		Role    string `json:"role" binding:"required,oneof=pm rd qa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	added, skipped, err := h.projectService.AddMembers(id, req.UserIDs, req.Role)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{"added": added, "skipped": skipped})
}

// DELETE /projects/:id/members/:user_id
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	memberUserID := parseID(c.Param("user_id"))
	userID := middleware.GetCurrentUserID(c)

	project, err := h.projectService.GetByID(projectID)
	if err != nil {
		NotFound(c, 40402, "project not found")
		return
	}
	if !middleware.GetCurrentUserIsAdmin(c) && project.OwnerID != userID {
		Forbidden(c, 40303, "only the project owner can remove members")
		return
	}

	if err := h.projectService.RemoveMember(projectID, memberUserID); err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{"message": "member removed"})
}

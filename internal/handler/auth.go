package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/middleware"
	"github.com/sprintline/backend/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=64"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8,max=72"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	user, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"created_at": user.CreatedAt,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	user, token, expireAt, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		code, msg := parseErrorCode(err)
		Unauthorized(c, code, msg)
		return
	}

	Success(c, gin.H{
		"token":     token,
		"expire_at": expireAt,
		"user":      user.Brief(),
	})
}

// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		Unauthorized(c, 40103, "not authenticated")
		return
	}
	Success(c, gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"avatar":        user.Avatar,
		"email":         user.Email,
		"role":          user.Role,
		"is_admin":      user.IsAdmin,
		"status":        user.Status,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	})
}

// PUT /auth/role
func (h *AuthHandler) UpdateRole(c *gin.Context) {
	var req struct {
		UserID *uint  `json:"user_id"`
		Role   string `json:"role" binding:"required,oneof=pm rd qa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	currentUser := middleware.GetCurrentUser(c)
	targetID := currentUser.ID
	if req.UserID != nil {
		// Admin modifying another user
		if !currentUser.IsAdmin {
			Forbidden(c, 40301, "only admins may change another user's role")
			return
		}
		targetID = *req.UserID
	}

	user, err := h.authService.UpdateRole(targetID, req.Role)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"role":       user.Role,
		"updated_at": user.UpdatedAt,
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	token, expireAt, err := h.authService.RefreshToken(userID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"token":     token,
		"expire_at": expireAt,
	})
}

package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/service"
)

type SettingHandler struct {
	settingService *service.SettingService
}

func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// GET /projects/:id/settings
func (h *SettingHandler) GetSettings(c *gin.Context) {
	projectID := parseID(c.Param("id"))
	setting, err := h.settingService.GetByProjectID(projectID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	if setting == nil {
		Success(c, gin.H{
			"webhook_url":    "",
			"webhook_secret": "",
			"enabled":        false,
		})
		return
	}

	_, secret, _ := h.settingService.WebhookForProject(projectID)
	Success(c, gin.H{
		"webhook_url":    setting.WebhookURL,
		"webhook_secret": maskSecret(secret, "****"),
		"enabled":        setting.Enabled,
	})
}

// PUT /projects/:id/settings
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	projectID := parseID(c.Param("id"))

	var req struct {
		WebhookURL    string `json:"webhook_url" binding:"omitempty,url,max=512"`
		WebhookSecret string `json:"webhook_secret" binding:"max=256"`
		Enabled       bool   `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	// A masked secret means the client did not change it
	if strings.Contains(req.WebhookSecret, "****") {
		req.WebhookSecret = ""
	}

	setting, err := h.settingService.Upsert(projectID, req.WebhookURL, req.WebhookSecret, req.Enabled)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	_, secret, _ := h.settingService.WebhookForProject(projectID)
	Success(c, gin.H{
		"webhook_url":    setting.WebhookURL,
		"webhook_secret": maskSecret(secret, "****"),
		"enabled":        setting.Enabled,
	})
}

func maskSecret(value, prefix string) string {
	if len(value) <= 4 {
		return value
	}
	return prefix + value[len(value)-4:]
}

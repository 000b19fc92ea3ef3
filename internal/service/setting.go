package service

import (
	"github.com/sprintline/backend/internal/model"
	"github.com/sprintline/backend/pkg/encrypt"
	"gorm.io/gorm"
)

type SettingService struct {
	db     *gorm.DB
	aesKey string
}

func NewSettingService(db *gorm.DB, aesKey string) *SettingService {
	return &SettingService{db: db, aesKey: aesKey}
}

func (s *SettingService) GetByProjectID(projectID uint) (*model.ProjectSetting, error) {
	var setting model.ProjectSetting
	err := s.db.Where("project_id = ?", projectID).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert stores the webhook config; the secret is encrypted at rest.
func (s *SettingService) Upsert(projectID uint, webhookURL, webhookSecret string, enabled bool) (*model.ProjectSetting, error) {
	encrypted := ""
	if webhookSecret != "" {
		var err error
		encrypted, err = encrypt.AESEncrypt(s.aesKey, webhookSecret)
		if err != nil {
			return nil, err
		}
	}

	var setting model.ProjectSetting
	err := s.db.Where("project_id = ?", projectID).First(&setting).Error

	if err == gorm.ErrRecordNotFound {
		setting = model.ProjectSetting{
			ProjectID:     projectID,
			WebhookURL:    webhookURL,
			WebhookSecret: encrypted,
			Enabled:       enabled,
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}
	if err != nil {
		return nil, err
	}

	setting.WebhookURL = webhookURL
	if webhookSecret != "" {
		setting.WebhookSecret = encrypted
	}
	setting.Enabled = enabled
	if err := s.db.Save(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// WebhookForProject resolves the decrypted webhook target for a
// project. Implements the notify.SettingsSource the webhook notifier
// dispatches through; ok is false when the webhook is absent/disabled.
func (s *SettingService) WebhookForProject(projectID uint) (url, secret string, ok bool) {
	setting, err := s.GetByProjectID(projectID)
	if err != nil || setting == nil || !setting.Enabled || setting.WebhookURL == "" {
		return "", "", false
	}
	if setting.WebhookSecret != "" {
		secret, err = encrypt.AESDecrypt(s.aesKey, setting.WebhookSecret)
		if err != nil {
			return "", "", false
		}
	}
	return setting.WebhookURL, secret, true
}

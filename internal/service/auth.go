package service

import (
	"fmt"
	"time"

	"github.com/sprintline/backend/internal/model"
	jwtpkg "github.com/sprintline/backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	jwtExpire int
}

func NewAuthService(db *gorm.DB, jwtSecret string, jwtExpire int) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret, jwtExpire: jwtExpire}
}

func (s *AuthService) Register(name, email, password string) (*model.User, error) {
	var count int64
	s.db.Model(&model.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("40005:email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleRD,
		Status:       1,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(email, password string) (*model.User, string, time.Time, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", time.Time{}, fmt.Errorf("40101:invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", time.Time{}, fmt.Errorf("40101:invalid email or password")
	}
	if user.Status == 0 {
		return nil, "", time.Time{}, fmt.Errorf("40104:account is disabled")
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login_at", &now)

	token, expireAt, err := jwtpkg.GenerateToken(s.jwtSecret, user.ID, user.Role, user.IsAdmin, s.jwtExpire)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}
	return &user, token, expireAt, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) UpdateRole(userID uint, role string) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) RefreshToken(userID uint) (string, time.Time, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return "", time.Time{}, err
	}
	return jwtpkg.GenerateToken(s.jwtSecret, user.ID, user.Role, user.IsAdmin, s.jwtExpire)
}

func (s *AuthService) ToggleAdmin(userID uint, isAdmin bool) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) UpdateStatus(userID uint, status int) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) ListUsers(keyword, role string, isAdmin *bool, status *int, page, pageSize int, sortBy, order string) ([]model.User, int64, error) {
	query := s.db.Model(&model.User{})
	if keyword != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if isAdmin != nil {
		query = query.Where("is_admin = ?", *isAdmin)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	query.Count(&total)

	if sortBy == "" {
		sortBy = "created_at"
	}
	if order == "" {
		order = "desc"
	}
	query = query.Order(sortBy + " " + order)

	var users []model.User
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CreateOperationLog records an audit entry. Write failures are logged
// by the caller if it cares; auditing never blocks the operation.
func (s *AuthService) CreateOperationLog(entry *model.OperationLog) error {
	return s.db.Create(entry).Error
}

func (s *AuthService) GetOperationLogs(userID *uint, action, resourceType string, startTime, endTime *time.Time, page, pageSize int) ([]model.OperationLog, int64, error) {
	query := s.db.Model(&model.OperationLog{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}
	if startTime != nil {
		query = query.Where("created_at >= ?", *startTime)
	}
	if endTime != nil {
		query = query.Where("created_at <= ?", *endTime)
	}

	var total int64
	query.Count(&total)

	var logs []model.OperationLog
	if err := query.Preload("User").Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (s *AuthService) SearchUsers(keyword string, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var users []model.User
	query := s.db.Model(&model.User{}).Where("status = ?", 1)
	if keyword != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if err := query.Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

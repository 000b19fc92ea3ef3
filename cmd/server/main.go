package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sprintline/backend/internal/config"
	"github.com/sprintline/backend/internal/handler"
	"github.com/sprintline/backend/internal/model"
	"github.com/sprintline/backend/internal/notify"
	"github.com/sprintline/backend/internal/router"
	"github.com/sprintline/backend/internal/service"
	"github.com/sprintline/backend/internal/sse"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Sequence{},
		&model.ClientRequirement{},
		&model.Epic{},
		&model.FunctionalRequirement{},
		&model.Sprint{},
		&model.Task{},
		&model.TimeEntry{},
		&model.LeaveRequest{},
		&model.OperationLog{},
		&model.ProjectSetting{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Core components
	sseHub := sse.NewHub(rdb)

	// Services
	authService := service.NewAuthService(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	projectService := service.NewProjectService(db)
	requirementService := service.NewRequirementService(db)
	epicService := service.NewEpicService(db)
	frService := service.NewFRService(db)
	sprintService := service.NewSprintService(db, frService, epicService)
	taskService := service.NewTaskService(db, frService, epicService)
	timeEntryService := service.NewTimeEntryService(db)
	leaveService := service.NewLeaveService(db)
	settingService := service.NewSettingService(db, cfg.Encrypt.AESKey)

	// Notifier
	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewWebhookNotifier(settingService)
	} else {
		notifier = notify.NoopNotifier{}
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService, authService)
	requirementHandler := handler.NewRequirementHandler(requirementService)
	epicHandler := handler.NewEpicHandler(epicService)
	frHandler := handler.NewFRHandler(frService, notifier)
	sprintHandler := handler.NewSprintHandler(sprintService, notifier)
	taskHandler := handler.NewTaskHandler(taskService, projectService, sseHub, notifier)
	timeEntryHandler := handler.NewTimeEntryHandler(timeEntryService)
	leaveHandler := handler.NewLeaveHandler(leaveService, notifier)
	dashboardHandler := handler.NewDashboardHandler(db)
	settingHandler := handler.NewSettingHandler(settingService)

	// Gin engine
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Setup routes
	router.Setup(r, router.Deps{
		DB:                 db,
		JWTSecret:          cfg.JWT.Secret,
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		ProjectHandler:     projectHandler,
		RequirementHandler: requirementHandler,
		EpicHandler:        epicHandler,
		FRHandler:          frHandler,
		SprintHandler:      sprintHandler,
		TaskHandler:        taskHandler,
		TimeEntryHandler:   timeEntryHandler,
		LeaveHandler:       leaveHandler,
		DashboardHandler:   dashboardHandler,
		SettingHandler:     settingHandler,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server run: %v", err)
	}
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/handler"
	"github.com/sprintline/backend/internal/middleware"
	"gorm.io/gorm"
)

type Deps struct {
	DB                 *gorm.DB
	JWTSecret          string
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	ProjectHandler     *handler.ProjectHandler
	RequirementHandler *handler.RequirementHandler
	EpicHandler        *handler.EpicHandler
	FRHandler          *handler.FRHandler
	SprintHandler      *handler.SprintHandler
	TaskHandler        *handler.TaskHandler
	TimeEntryHandler   *handler.TimeEntryHandler
	LeaveHandler       *handler.LeaveHandler
	DashboardHandler   *handler.DashboardHandler
	SettingHandler     *handler.SettingHandler
}

func Setup(r *gin.Engine, deps Deps) {
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api/v1")

	// Public routes (no auth)
	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.AuthHandler.Register)
		auth.POST("/login", deps.AuthHandler.Login)
	}

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.DB))
	{
		// Auth
		authed.GET("/auth/me", deps.AuthHandler.GetMe)
		authed.PUT("/auth/role", deps.AuthHandler.UpdateRole)
		authed.POST("/auth/refresh", deps.AuthHandler.RefreshToken)

		// User search (all authenticated users)
		authed.GET("/users/search", deps.UserHandler.SearchUsers)

		// Admin routes
		admin := authed.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", deps.UserHandler.ListUsers)
			admin.PUT("/users/:id/role", deps.UserHandler.UpdateUserRole)
			admin.PUT("/users/:id/admin", deps.UserHandler.ToggleUserAdmin)
			admin.PUT("/users/:id/status", deps.UserHandler.UpdateUserStatus)
			admin.GET("/operation-logs", deps.UserHandler.GetOperationLogs)
		}

		// Projects
		projects := authed.Group("/projects")
		{
			projects.POST("", middleware.RequireRole("pm"), deps.ProjectHandler.Create)
			projects.GET("", deps.ProjectHandler.List)
			projects.GET("/:id", deps.ProjectHandler.GetDetail)
			projects.PUT("/:id", deps.ProjectHandler.Update)
			projects.PUT("/:id/archive", deps.ProjectHandler.Archive)
			projects.POST("/:id/members", deps.ProjectHandler.AddMembers)
			projects.DELETE("/:id/members/:user_id", deps.ProjectHandler.RemoveMember)

			// Client requirements under projects
			projects.POST("/:id/requirements", middleware.RequireRole("pm"), deps.RequirementHandler.Create)
			projects.GET("/:id/requirements", deps.RequirementHandler.List)

			// Epics under projects
			projects.POST("/:id/epics", middleware.RequireRole("pm"), deps.EpicHandler.Create)
			projects.GET("/:id/epics", deps.EpicHandler.List)

			// Functional requirements under projects
			projects.POST("/:id/frs", middleware.RequireRole("pm"), deps.FRHandler.Create)
			projects.GET("/:id/frs", deps.FRHandler.List)

			// Sprints under projects
			projects.POST("/:id/sprints", middleware.RequireRole("pm"), deps.SprintHandler.Create)
			projects.GET("/:id/sprints", deps.SprintHandler.List)

			// Tasks and the board
			projects.POST("/:id/tasks", deps.TaskHandler.Create)
			projects.GET("/:id/tasks", deps.TaskHandler.List)
			projects.GET("/:id/board", deps.TaskHandler.Board)
			projects.GET("/:id/board/stream", deps.TaskHandler.BoardStream)

			// Per-project settings
			projects.GET("/:id/settings", deps.SettingHandler.GetSettings)
			projects.PUT("/:id/settings", middleware.RequireRole("pm"), deps.SettingHandler.UpdateSettings)
		}

		// Client requirements (standalone)
		requirements := authed.Group("/requirements")
		{
			requirements.GET("/:id", deps.RequirementHandler.GetDetail)
			requirements.PUT("/:id", middleware.RequireRole("pm"), deps.RequirementHandler.Update)
			requirements.DELETE("/:id", middleware.RequireRole("pm"), deps.RequirementHandler.Delete)
		}

		// Epics (standalone)
		epics := authed.Group("/epics")
		{
			epics.GET("/:id", deps.EpicHandler.GetDetail)
			epics.PUT("/:id", middleware.RequireRole("pm"), deps.EpicHandler.Update)
			epics.DELETE("/:id", middleware.RequireRole("pm"), deps.EpicHandler.Delete)
		}

		// Functional requirements (standalone)
		frs := authed.Group("/frs")
		{
			frs.GET("/:id", deps.FRHandler.GetDetail)
			frs.PUT("/:id", deps.FRHandler.Update)
			frs.PUT("/:id/status", deps.FRHandler.UpdateStatus)
			frs.PUT("/:id/sprint", deps.FRHandler.AssignSprint)
			frs.DELETE("/:id", middleware.RequireRole("pm"), deps.FRHandler.Delete)
		}

		// Sprints (standalone)
		sprints := authed.Group("/sprints")
		{
			sprints.GET("/:id", deps.SprintHandler.GetDetail)
			sprints.PUT("/:id", middleware.RequireRole("pm"), deps.SprintHandler.Update)
			sprints.PUT("/:id/start", middleware.RequireRole("pm"), deps.SprintHandler.Start)
			sprints.PUT("/:id/complete", middleware.RequireRole("pm"), deps.SprintHandler.Complete)
			sprints.DELETE("/:id", middleware.RequireRole("pm"), deps.SprintHandler.Delete)
			sprints.GET("/:id/burndown", deps.DashboardHandler.SprintBurndown)
		}

		// Tasks (standalone)
		tasks := authed.Group("/tasks")
		{
			tasks.GET("/:id", deps.TaskHandler.GetDetail)
			tasks.GET("/:id/subtasks", deps.TaskHandler.ListSubtasks)
			tasks.PUT("/:id", deps.TaskHandler.Update)
			tasks.PUT("/:id/status", deps.TaskHandler.UpdateStatus)
			tasks.PUT("/:id/move", deps.TaskHandler.Move)
			tasks.DELETE("/:id", deps.TaskHandler.Delete)
		}

		// Time entries
		timeEntries := authed.Group("/time-entries")
		{
			timeEntries.POST("", deps.TimeEntryHandler.Create)
			timeEntries.GET("", deps.TimeEntryHandler.List)
			timeEntries.GET("/summary", deps.TimeEntryHandler.Summary)
			timeEntries.DELETE("/:id", deps.TimeEntryHandler.Delete)
		}

		// Leave requests
		leaves := authed.Group("/leaves")
		{
			leaves.POST("", deps.LeaveHandler.Create)
			leaves.GET("", deps.LeaveHandler.List)
			leaves.GET("/pending", middleware.RequireRole("pm"), deps.LeaveHandler.ListPending)
			leaves.PUT("/:id/decide", middleware.RequireRole("pm"), deps.LeaveHandler.Decide)
			leaves.DELETE("/:id", deps.LeaveHandler.Cancel)
		}

		// Dashboard
		dashboard := authed.Group("/dashboard")
		{
			dashboard.GET("/stats", deps.DashboardHandler.GetStats)
			dashboard.GET("/my-work", deps.DashboardHandler.GetMyWork)
		}
	}
}

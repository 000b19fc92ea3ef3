package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/middleware"
	"github.com/sprintline/backend/internal/service"
)

type TimeEntryHandler struct {
	timeEntryService *service.TimeEntryService
}

func NewTimeEntryHandler(timeEntryService *service.TimeEntryService) *TimeEntryHandler {
	return &TimeEntryHandler{timeEntryService: timeEntryService}
}

// POST /time-entries
func (h *TimeEntryHandler) Create(c *gin.Context) {
	var req struct {
		TaskID  uint   `json:"task_id" binding:"required"`
		Date    string `json:"date" binding:"required"`
		Minutes int    `json:"minutes" binding:"required,min=1"`
		Note    string `json:"note" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		BadRequest(c, 40001, "date must be YYYY-MM-DD")
		return
	}

	entry, err := h.timeEntryService.Create(middleware.GetCurrentUserID(c), req.TaskID, date, req.Minutes, req.Note)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":         entry.ID,
		"task_id":    entry.TaskID,
		"project_id": entry.ProjectID,
		"date":       entry.Date.Format("2006-01-02"),
		"minutes":    entry.Minutes,
		"note":       entry.Note,
		"created_at": entry.CreatedAt,
	})
}

// GET /time-entries
func (h *TimeEntryHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)

	// Non-admins only see their own entries
	userID := middleware.GetCurrentUserID(c)
	filterUser := &userID
	if middleware.GetCurrentUserIsAdmin(c) {
		if s := c.Query("user_id"); s != "" {
			v := parseID(s)
			filterUser = &v
		} else {
			filterUser = nil
		}
	}

	var taskID, projectID *uint
	if s := c.Query("task_id"); s != "" {
		v := parseID(s)
		taskID = &v
	}
	if s := c.Query("project_id"); s != "" {
		v := parseID(s)
		projectID = &v
	}

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err == nil {
			from = &t
		}
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err == nil {
			to = &t
		}
	}

	entries, total, err := h.timeEntryService.List(filterUser, taskID, projectID, from, to, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		item := gin.H{
			"id":         e.ID,
			"user_id":    e.UserID,
			"task_id":    e.TaskID,
			"project_id": e.ProjectID,
			"date":       e.Date.Format("2006-01-02"),
			"minutes":    e.Minutes,
			"note":       e.Note,
			"created_at": e.CreatedAt,
		}
		if e.Task != nil {
			item["task"] = gin.H{"id": e.Task.ID, "hierarchy_id": e.Task.HierarchyID, "title": e.Task.Title}
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /time-entries/summary
func (h *TimeEntryHandler) Summary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	to := time.Now()
	from := to.AddDate(0, 0, -14)
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			from = t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			to = t
		}
	}

	totals, err := h.timeEntryService.SummaryByDay(userID, from, to)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"days": totals})
}

// DELETE /time-entries/:id
func (h *TimeEntryHandler) Delete(c *gin.Context) {
	id := parseID(c.Param("id"))
	err := h.timeEntryService.Delete(id, middleware.GetCurrentUserID(c), middleware.GetCurrentUserIsAdmin(c))
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}
	Success(c, gin.H{"message": "time entry deleted"})
}

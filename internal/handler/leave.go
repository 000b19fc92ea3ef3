package handler

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sprintline/backend/internal/middleware"
	"github.com/sprintline/backend/internal/notify"
	"github.com/sprintline/backend/internal/service"
)

type LeaveHandler struct {
	leaveService *service.LeaveService
	notifier     notify.Notifier
}

func NewLeaveHandler(leaveService *service.LeaveService, notifier notify.Notifier) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService, notifier: notifier}
}

// POST /leaves
func (h *LeaveHandler) Create(c *gin.Context) {
	var req struct {
		Type      string `json:"type" binding:"required"`
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
		Reason    string `json:"reason" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		BadRequest(c, 40001, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		BadRequest(c, 40001, "end_date must be YYYY-MM-DD")
		return
	}

	leave, err := h.leaveService.Create(middleware.GetCurrentUserID(c), req.Type, start, end, req.Reason)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	Success(c, gin.H{
		"id":         leave.ID,
		"type":       leave.Type,
		"start_date": leave.StartDate.Format("2006-01-02"),
		"end_date":   leave.EndDate.Format("2006-01-02"),
		"reason":     leave.Reason,
		"status":     leave.Status,
		"created_at": leave.CreatedAt,
	})
}

// GET /leaves
func (h *LeaveHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)
	status := c.Query("status")

	leaves, total, err := h.leaveService.ListByUser(middleware.GetCurrentUserID(c), status, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(leaves))
	for _, l := range leaves {
		item := gin.H{
			"id":         l.ID,
			"type":       l.Type,
			"start_date": l.StartDate.Format("2006-01-02"),
			"end_date":   l.EndDate.Format("2006-01-02"),
			"reason":     l.Reason,
			"status":     l.Status,
			"comment":    l.Comment,
			"decided_at": l.DecidedAt,
			"created_at": l.CreatedAt,
		}
		if l.Approver != nil {
			item["approver"] = gin.H{"id": l.Approver.ID, "name": l.Approver.Name}
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /leaves/pending
func (h *LeaveHandler) ListPending(c *gin.Context) {
	page, pageSize := parsePage(c)

	leaves, total, err := h.leaveService.ListPending(page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(leaves))
	for _, l := range leaves {
		item := gin.H{
			"id":         l.ID,
			"type":       l.Type,
			"start_date": l.StartDate.Format("2006-01-02"),
			"end_date":   l.EndDate.Format("2006-01-02"),
			"reason":     l.Reason,
			"created_at": l.CreatedAt,
		}
		if l.User != nil {
			item["user"] = gin.H{"id": l.User.ID, "name": l.User.Name}
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// PUT /leaves/:id/decide
func (h *LeaveHandler) Decide(c *gin.Context) {
	id := parseID(c.Param("id"))
	var req struct {
		Approve bool   `json:"approve"`
		Comment string `json:"comment" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "validation failed: "+err.Error())
		return
	}

	leave, err := h.leaveService.Decide(id, middleware.GetCurrentUserID(c), req.Approve, req.Comment)
	if err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}

	event := notify.LeaveDecidedEvent{
		LeaveID: leave.ID,
		Type:    leave.Type,
		Status:  leave.Status,
		Comment: leave.Comment,
	}
	if leave.User != nil {
		event.RequesterName = leave.User.Name
	}
	if leave.Approver != nil {
		event.ApproverName = leave.Approver.Name
	}
	go func() {
		if err := h.notifier.NotifyLeaveDecided(context.Background(), event); err != nil {
			log.Printf("[notify] leave decided notification failed: %v", err)
		}
	}()

	Success(c, gin.H{
		"id":         leave.ID,
		"status":     leave.Status,
		"comment":    leave.Comment,
		"decided_at": leave.DecidedAt,
	})
}

// DELETE /leaves/:id
func (h *LeaveHandler) Cancel(c *gin.Context) {
	id := parseID(c.Param("id"))
	if err := h.leaveService.Cancel(id, middleware.GetCurrentUserID(c)); err != nil {
		code, msg := parseErrorCode(err)
		BadRequest(c, code, msg)
		return
	}
	Success(c, gin.H{"message": "leave request cancelled"})
}

package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Notifier defines the interface for sending notifications.
type Notifier interface {
	NotifyTaskAssigned(ctx context.Context, e TaskAssignedEvent) error
	NotifyTaskStatusChanged(ctx context.Context, e TaskStatusChangedEvent) error
	NotifyFRStatusChanged(ctx context.Context, e FRStatusChangedEvent) error
	NotifySprintStarted(ctx context.Context, e SprintStartedEvent) error
	NotifySprintCompleted(ctx context.Context, e SprintCompletedEvent) error
	NotifyLeaveDecided(ctx context.Context, e LeaveDecidedEvent) error
}

// NoopNotifier is a no-op implementation used when notifications are disabled.
type NoopNotifier struct{}

func (NoopNotifier) NotifyTaskAssigned(context.Context, TaskAssignedEvent) error           { return nil }
func (NoopNotifier) NotifyTaskStatusChanged(context.Context, TaskStatusChangedEvent) error { return nil }
func (NoopNotifier) NotifyFRStatusChanged(context.Context, FRStatusChangedEvent) error     { return nil }
func (NoopNotifier) NotifySprintStarted(context.Context, SprintStartedEvent) error         { return nil }
func (NoopNotifier) NotifySprintCompleted(context.Context, SprintCompletedEvent) error     { return nil }
func (NoopNotifier) NotifyLeaveDecided(context.Context, LeaveDecidedEvent) error           { return nil }

// SettingsSource resolves the webhook target configured for a project.
// ok is false when the project has no enabled webhook.
type SettingsSource interface {
	WebhookForProject(projectID uint) (url, secret string, ok bool)
}

// WebhookNotifier posts card-style JSON payloads to the per-project
// webhook endpoint. Requests are signed with HMAC-SHA256 when a secret
// is configured.
type WebhookNotifier struct {
	settings SettingsSource
	client   *http.Client
}

func NewWebhookNotifier(settings SettingsSource) *WebhookNotifier {
	return &WebhookNotifier{
		settings: settings,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) NotifyTaskAssigned(ctx context.Context, e TaskAssignedEvent) error {
	card := buildCard("blue", "Task assigned", []cardField{
		{Key: "Project", Value: e.ProjectName},
		{Key: "Task", Value: fmt.Sprintf("%s %s", e.HierarchyID, e.Title)},
		{Key: "Priority", Value: e.Priority},
		{Key: "Assignee", Value: e.AssigneeName},
		{Key: "Assigned by", Value: e.AssignerName},
	})
	return n.send(ctx, e.ProjectID, "task.assigned", card)
}

func (n *WebhookNotifier) NotifyTaskStatusChanged(ctx context.Context, e TaskStatusChangedEvent) error {
	card := buildCard("blue", "Task status changed", []cardField{
		{Key: "Project", Value: e.ProjectName},
		{Key: "Task", Value: fmt.Sprintf("%s %s", e.HierarchyID, e.Title)},
		{Key: "Change", Value: fmt.Sprintf("%s to %s", e.FromStatus, e.ToStatus)},
		{Key: "By", Value: e.ActorName},
	})
	return n.send(ctx, e.ProjectID, "task.status_changed", card)
}

func (n *WebhookNotifier) NotifyFRStatusChanged(ctx context.Context, e FRStatusChangedEvent) error {
	color := "blue"
	switch e.ToStatus {
	case "tested", "deployed":
		color = "green"
	}
	card := buildCard(color, "Functional requirement status changed", []cardField{
		{Key: "Project", Value: e.ProjectName},
		{Key: "FR", Value: fmt.Sprintf("%s %s", e.HierarchyID, e.Title)},
		{Key: "Change", Value: fmt.Sprintf("%s to %s", e.FromStatus, e.ToStatus)},
	})
	return n.send(ctx, e.ProjectID, "fr.status_changed", card)
}

func (n *WebhookNotifier) NotifySprintStarted(ctx context.Context, e SprintStartedEvent) error {
	fields := []cardField{
		{Key: "Project", Value: e.ProjectName},
		{Key: "Sprint", Value: e.Name},
	}
	if e.Goal != "" {
		fields = append(fields, cardField{Key: "Goal", Value: truncate(e.Goal, 200)})
	}
	card := buildCard("green", "Sprint started", fields)
	return n.send(ctx, e.ProjectID, "sprint.started", card)
}

func (n *WebhookNotifier) NotifySprintCompleted(ctx context.Context, e SprintCompletedEvent) error {
	card := buildCard("green", "Sprint completed", []cardField{
		{Key: "Project", Value: e.ProjectName},
		{Key: "Sprint", Value: e.Name},
		{Key: "Returned to backlog", Value: fmt.Sprintf("%d task(s)", e.MovedToBacklog)},
	})
	return n.send(ctx, e.ProjectID, "sprint.completed", card)
}

// Webhooks are project scoped; leave requests have no project, so the
// webhook channel skips them.
func (n *WebhookNotifier) NotifyLeaveDecided(context.Context, LeaveDecidedEvent) error {
	return nil
}

type webhookPayload struct {
	Event     string                 `json:"event"`
	Timestamp int64                  `json:"timestamp"`
	Card      map[string]interface{} `json:"card"`
}

func (n *WebhookNotifier) send(ctx context.Context, projectID uint, event string, card map[string]interface{}) error {
	url, secret, ok := n.settings.WebhookForProject(projectID)
	if !ok {
		return nil
	}

	body, err := json.Marshal(webhookPayload{
		Event:     event,
		Timestamp: time.Now().Unix(),
		Card:      card,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		req.Header.Set("X-Webhook-Signature", hex.EncodeToString(mac.Sum(nil)))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("[notify] webhook %s for project %d failed: %v", event, projectID, err)
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("[notify] webhook %s for project %d returned %d", event, projectID, resp.StatusCode)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// --- card building helpers ---

type cardField struct {
	Key   string
	Value string
}

func buildCard(color, title string, fields []cardField) map[string]interface{} {
	elements := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		elements = append(elements, map[string]interface{}{
			"tag": "div",
			"text": map[string]interface{}{
				"tag":     "md",
				"content": fmt.Sprintf("**%s:** %s", f.Key, f.Value),
			},
		})
	}

	return map[string]interface{}{
		"header": map[string]interface{}{
			"title":    map[string]interface{}{"tag": "plain_text", "content": title},
			"template": color,
		},
		"elements": elements,
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// ensure implementations satisfy Notifier at compile time
var (
	_ Notifier = NoopNotifier{}
	_ Notifier = (*WebhookNotifier)(nil)
)

package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSettings struct {
	url    string
	secret string
	ok     bool
}

func (s stubSettings) WebhookForProject(uint) (string, string, bool) {
	return s.url, s.secret, s.ok
}

func TestWebhookNotifierSignsAndPosts(t *testing.T) {
	var gotSignature string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(stubSettings{url: srv.URL, secret: "s3cret", ok: true})
	err := n.NotifyTaskStatusChanged(context.Background(), TaskStatusChangedEvent{
		ProjectID:   7,
		ProjectName: "Payments",
		HierarchyID: "PAY-T01",
		Title:       "Fix rounding",
		FromStatus:  "in_progress",
		ToStatus:    "done",
		ActorName:   "Alice",
	})
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(gotBody)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSignature)

	var payload webhookPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "task.status_changed", payload.Event)
	assert.NotZero(t, payload.Timestamp)
	assert.NotEmpty(t, payload.Card["elements"])
}

func TestWebhookNotifierSkipsUnconfiguredProject(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	n := NewWebhookNotifier(stubSettings{url: srv.URL, ok: false})
	err := n.NotifySprintStarted(context.Background(), SprintStartedEvent{ProjectID: 1, Name: "Sprint 1"})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestWebhookNotifierReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(stubSettings{url: srv.URL, ok: true})
	err := n.NotifySprintCompleted(context.Background(), SprintCompletedEvent{ProjectID: 1, Name: "Sprint 1"})
	assert.Error(t, err)
}

func TestWebhookNotifierSkipsLeaveDecisions(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	n := NewWebhookNotifier(stubSettings{url: srv.URL, ok: true})
	err := n.NotifyLeaveDecided(context.Background(), LeaveDecidedEvent{LeaveID: 3, Status: "approved"})
	require.NoError(t, err)
	assert.False(t, called)
}

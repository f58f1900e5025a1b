package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatzilla-notification-server/internal/models"
	"chatzilla-notification-server/internal/services"
)

type fakeDispatcher struct {
	sent   []models.Notification
	result any
	err    error
}

func (d *fakeDispatcher) Send(_ context.Context, n models.Notification) (any, error) {
	d.sent = append(d.sent, n)
	return d.result, d.err
}

func newTestApp(dispatcher *fakeDispatcher) *fiber.App {
	app := NewApp(AppConfig{}, zerolog.Nop())
	NewNotificationHandler(services.NewNotificationService(dispatcher), zerolog.Nop()).Register(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any, http.Header) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded, resp.Header
}

func TestHealth(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("provider down")}
	app := newTestApp(dispatcher)

	for _, path := range []string{"/", "/checkhealth"} {
		status, body, _ := doRequest(t, app, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, map[string]any{"status": "ok", "service": "chatzilla-notification-server"}, body)
	}
	assert.Empty(t, dispatcher.sent)
}

func TestSendIndividual_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty body", "", "subscriptionId is required."},
		{"empty object", `{}`, "subscriptionId is required."},
		{"empty subscription id", `{"subscriptionId":"","content":"hi"}`, "subscriptionId is required."},
		{"null subscription id", `{"subscriptionId":null}`, "subscriptionId is required."},
		{"wrong type", `{"subscriptionId":42}`, "Invalid request body"},
		{"malformed json", `{"subscriptionId":`, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &fakeDispatcher{}
			status, body, _ := doRequest(t, newTestApp(dispatcher), http.MethodPost, "/api/notifications/individual", tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.message, body["error"])
			assert.Empty(t, dispatcher.sent, "provider must not be called")
		})
	}
}

func TestSendIndividual_Defaults(t *testing.T) {
	dispatcher := &fakeDispatcher{result: map[string]any{"id": "notif-1"}}

	status, body, headers := doRequest(t, newTestApp(dispatcher), http.MethodPost, "/api/notifications/individual", `{"subscriptionId":"abc"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"id": "notif-1"}, body["data"])
	assert.NotEmpty(t, headers.Get("X-Request-ID"))

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, models.Notification{
		SubscriptionIDs: []string{"abc"},
		Title:           "New Message",
		Body:            "You have a new message.",
	}, dispatcher.sent[0])
}

func TestSendIndividual_ProviderFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{err: &models.ProviderError{
		Provider:   "onesignal",
		StatusCode: 400,
		Details:    map[string]any{"errors": []any{"invalid_aliases"}},
	}}

	status, body, _ := doRequest(t, newTestApp(dispatcher), http.MethodPost, "/api/notifications/individual",
		`{"senderName":"Ann","content":"hi","subscriptionId":"abc"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to send notification.", body["error"])
	assert.Equal(t, map[string]any{"errors": []any{"invalid_aliases"}}, body["details"])
	assert.Len(t, dispatcher.sent, 1, "no retry")
}

func TestSendIndividual_TransportFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{err: &models.ProviderError{Provider: "onesignal", Details: "connection refused"}}

	status, body, _ := doRequest(t, newTestApp(dispatcher), http.MethodPost, "/api/notifications/individual", `{"subscriptionId":"abc"}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "connection refused", body["details"])
	assert.Len(t, dispatcher.sent, 1)
}

func TestSendGroup_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing ids", `{"groupName":"Devs"}`, "subscriptionIds array is required."},
		{"empty ids", `{"subscriptionIds":[]}`, "subscriptionIds array is required."},
		{"null ids", `{"subscriptionIds":null}`, "subscriptionIds array is required."},
		{"empty body", "", "subscriptionIds array is required."},
		{"ids not a list", `{"subscriptionIds":"abc"}`, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &fakeDispatcher{}
			status, body, _ := doRequest(t, newTestApp(dispatcher), http.MethodPost, "/api/notifications/group", tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.message, body["error"])
			assert.Empty(t, dispatcher.sent)
		})
	}
}

func TestSendGroup_Success(t *testing.T) {
	dispatcher := &fakeDispatcher{result: map[string]any{"id": "notif-2"}}

	status, body, _ := doRequest(t, newTestApp(dispatcher), http.MethodPost, "/api/notifications/group",
		`{"groupName":"Devs","senderName":"Ann","content":"hi","subscriptionIds":["a","b"]}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, models.Notification{
		SubscriptionIDs: []string{"a", "b"},
		Title:           "Devs",
		Body:            "Ann: hi",
	}, dispatcher.sent[0])
}

func TestSendGroup_DefaultBody(t *testing.T) {
	dispatcher := &fakeDispatcher{result: map[string]any{}}

	status, _, _ := doRequest(t, newTestApp(dispatcher), http.MethodPost, "/api/notifications/group", `{"subscriptionIds":["a"]}`)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "Group", dispatcher.sent[0].Title)
	assert.Equal(t, "Someone: New message in group.", dispatcher.sent[0].Body)
}

func TestSendGroup_ProviderFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("unexpected")}

	status, body, _ := doRequest(t, newTestApp(dispatcher), http.MethodPost, "/api/notifications/group", `{"subscriptionIds":["a"]}`)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to send notification.", body["error"])
	assert.Equal(t, "unexpected", body["details"])
	assert.Len(t, dispatcher.sent, 1)
}

func TestUnknownRoute(t *testing.T) {
	status, body, _ := doRequest(t, newTestApp(&fakeDispatcher{}), http.MethodGet, "/api/unknown", "")

	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["error"])
}

func TestCORS(t *testing.T) {
	app := newTestApp(&fakeDispatcher{})

	req := httptest.NewRequest(http.MethodOptions, "/api/notifications/individual", nil)
	req.Header.Set("Origin", "https://chat.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

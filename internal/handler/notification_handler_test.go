package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/middleware"
	"warehouse-manager/internal/mocks"
	"warehouse-manager/internal/service/notification"
)

type notificationFixture struct {
	app      *fiber.App
	repo     *mocks.NotificationRepository
	registry *notification.Registry
	handler  *NotificationHandler
	userID   uuid.UUID
}

func asUser(user *domain.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals(middleware.UserContextKey, user)
			c.Locals(middleware.UserIDContextKey, user.ID)
		}
		return c.Next()
	}
}

func newNotificationFixture(t *testing.T, authenticated bool) *notificationFixture {
	t.Helper()

	repo := new(mocks.NotificationRepository)
	repo.On("ListByUser", mock.Anything, mock.Anything).Return([]domain.Notification{}, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	repo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("Delete", mock.Anything, mock.Anything).Return(nil)
	repo.On("DeleteAll", mock.Anything, mock.Anything).Return(nil)

	defaults := domain.DefaultNotificationSettings()
	defaults.ThrottleDurationMs = 0
	registry := notification.NewRegistry(repo, nil,
		notification.WithDefaultSettings(defaults),
		notification.WithRegistryLogger(zerolog.Nop()),
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = registry.Close(ctx)
	})

	f := &notificationFixture{repo: repo, registry: registry, userID: uuid.New()}

	var user *domain.User
	if authenticated {
		user = &domain.User{ID: f.userID, Role: string(domain.RoleStaff), IsActive: true}
	}

	h := NewNotificationHandler(registry)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	notifications := app.Group("/notifications", asUser(user))
	notifications.Get("/", h.List)
	notifications.Get("/unread-count", h.GetUnreadCount)
	notifications.Get("/stream", h.Stream)
	notifications.Get("/settings", h.GetSettings)
	notifications.Patch("/settings", h.UpdateSettings)
	notifications.Post("/", h.Create)
	notifications.Post("/mark-all-read", h.MarkAllAsRead)
	notifications.Patch("/:id/read", h.MarkAsRead)
	notifications.Delete("/stock", h.DeleteStockAdjustments)
	notifications.Delete("/:id", h.Delete)
	notifications.Delete("/", h.DeleteAll)
	f.app = app
	f.handler = h

	return f
}

func (f *notificationFixture) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func (f *notificationFixture) list(t *testing.T) ([]domain.Notification, int) {
	t.Helper()

	status, data := f.do(t, "GET", "/notifications", "")
	require.Equal(t, fiber.StatusOK, status)

	var body struct {
		Data        []domain.Notification `json:"data"`
		UnreadCount int                   `json:"unread_count"`
	}
	require.NoError(t, json.Unmarshal(data, &body))
	return body.Data, body.UnreadCount
}

func TestNotificationHandler_Unauthenticated(t *testing.T) {
	f := newNotificationFixture(t, false)

	status, _ := f.do(t, "GET", "/notifications", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestNotificationHandler_CreateAndList(t *testing.T) {
	f := newNotificationFixture(t, true)

	status, data := f.do(t, "POST", "/notifications", `{"type":"success","title":"Label printed","message":"Shipping label for ORD-1002 sent to printer","category":"orders"}`)
	require.Equal(t, fiber.StatusCreated, status)

	var created domain.Notification
	require.NoError(t, json.Unmarshal(data, &created))
	require.NotNil(t, created.UserID)
	assert.Equal(t, f.userID, *created.UserID)

	status, _ = f.do(t, "POST", "/notifications", `{"type":"info","title":"Draft saved","message":"Cycle count draft kept locally","persist":false}`)
	require.Equal(t, fiber.StatusCreated, status)

	items, unread := f.list(t)
	require.Len(t, items, 2)
	assert.Equal(t, 2, unread)
	assert.Equal(t, "Draft saved", items[0].Title)
	assert.Nil(t, items[0].UserID)

	status, data = f.do(t, "GET", "/notifications?category=orders", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(data), "Label printed")
	assert.NotContains(t, string(data), "Draft saved")
}

func TestNotificationHandler_CreateRejections(t *testing.T) {
	f := newNotificationFixture(t, true)

	status, data := f.do(t, "POST", "/notifications", `{"type":"info","title":"Stock updated","message":"Adjusted stock for WID-001"}`)
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.JSONEq(t, `{"suppressed":true}`, string(data))

	status, _ = f.do(t, "POST", "/notifications", `{"type":"fatal","title":"x","message":"y"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = f.do(t, "POST", "/notifications", `{"type":"info","title":"","message":"y"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	items, _ := f.list(t)
	assert.Empty(t, items)
}

func TestNotificationHandler_ReadAndDelete(t *testing.T) {
	f := newNotificationFixture(t, true)

	_, data := f.do(t, "POST", "/notifications", `{"type":"warning","title":"Dock 3 busy","message":"Receiving delayed by 20 minutes"}`)
	var first domain.Notification
	require.NoError(t, json.Unmarshal(data, &first))
	f.do(t, "POST", "/notifications", `{"type":"error","title":"Scanner offline","message":"Handheld 7 lost connection"}`)

	status, _ := f.do(t, "PATCH", "/notifications/"+first.ID.String()+"/read", "")
	assert.Equal(t, fiber.StatusNoContent, status)

	status, data = f.do(t, "GET", "/notifications/unread-count", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"count":1}`, string(data))

	status, _ = f.do(t, "PATCH", "/notifications/not-a-uuid/read", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = f.do(t, "DELETE", "/notifications/"+first.ID.String(), "")
	assert.Equal(t, fiber.StatusNoContent, status)
	items, unread := f.list(t)
	require.Len(t, items, 1)
	assert.Equal(t, 1, unread)

	status, data = f.do(t, "DELETE", "/notifications/stock", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"removed":0}`, string(data))

	status, _ = f.do(t, "POST", "/notifications/mark-all-read", "")
	assert.Equal(t, fiber.StatusNoContent, status)
	_, unread = f.list(t)
	assert.Equal(t, 0, unread)

	status, _ = f.do(t, "DELETE", "/notifications", "")
	assert.Equal(t, fiber.StatusNoContent, status)
	items, _ = f.list(t)
	assert.Empty(t, items)
}

func TestNotificationHandler_Settings(t *testing.T) {
	f := newNotificationFixture(t, true)

	status, _ := f.do(t, "PATCH", "/notifications/settings", `{"throttle_duration_ms":-5}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, data := f.do(t, "PATCH", "/notifications/settings", `{"show_info_notifications":false,"throttle_duration_ms":1200}`)
	require.Equal(t, fiber.StatusOK, status)

	var updated domain.NotificationSettings
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.False(t, updated.ShowInfoNotifications)
	assert.True(t, updated.ShowSuccessNotifications)
	assert.Equal(t, int64(1200), updated.ThrottleDurationMs)

	status, data = f.do(t, "GET", "/notifications/settings", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(data), `"throttle_duration_ms":1200`)

	items, _ := f.list(t)
	require.Len(t, items, 1)
	assert.Equal(t, domain.CategorySettings, items[0].Category)
}

func TestNotificationHandler_StreamEndsOnShutdown(t *testing.T) {
	f := newNotificationFixture(t, true)

	type result struct {
		body string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := f.app.Test(httptest.NewRequest("GET", "/notifications/stream", nil), -1)
		if err != nil {
			done <- result{err: err}
			return
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		done <- result{body: string(data), err: err}
	}()

	time.Sleep(50 * time.Millisecond)
	f.handler.CloseStreams()
	f.handler.CloseStreams()

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Contains(t, res.body, "event: load")
	case <-time.After(2 * time.Second):
		t.Fatal("stream still open after CloseStreams")
	}
}

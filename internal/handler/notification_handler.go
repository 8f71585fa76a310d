package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"warehouse-manager/internal/domain"
	"warehouse-manager/internal/middleware"
	"warehouse-manager/internal/pkg/i18n"
	"warehouse-manager/internal/service/notification"
)

const streamKeepAlive = 15 * time.Second

type NotificationHandler struct {
	registry *notification.Registry

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

func NewNotificationHandler(registry *notification.Registry) *NotificationHandler {
	return &NotificationHandler{registry: registry, shutdown: make(chan struct{})}
}

// CloseStreams ends every open event stream so the server can drain.
func (h *NotificationHandler) CloseStreams() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
	})
}

func (h *NotificationHandler) center(c *fiber.Ctx) (*notification.Center, error) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return nil, err
	}
	return h.registry.For(c.UserContext(), userID), nil
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	center, err := h.center(c)
	if err != nil {
		return err
	}

	category := c.Query("category")
	unreadOnly := c.QueryBool("unread_only", false)

	items := center.Notifications()
	if category != "" || unreadOnly {
		filtered := items[:0]
		for _, n := range items {
			if category != "" && n.Category != category {
				continue
			}
			if unreadOnly && n.IsRead {
				continue
			}
			filtered = append(filtered, n)
		}
		items = filtered
	}

	return c.JSON(fiber.Map{
		"data":         items,
		"unread_count": center.UnreadCount(),
	})
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	center, err := h.center(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": center.UnreadCount()})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "notification")
	if err != nil {
		return err
	}
	center, err := h.center(c)
	if err != nil {
		return err
	}

	center.MarkRead(id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	center, err := h.center(c)
	if err != nil {
		return err
	}

	center.MarkAllRead()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "notification")
	if err != nil {
		return err
	}
	center, err := h.center(c)
	if err != nil {
		return err
	}

	center.Remove(id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) DeleteAll(c *fiber.Ctx) error {
	center, err := h.center(c)
	if err != nil {
		return err
	}

	center.ClearAll()
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteStockAdjustments purges stock adjustment entries left over from
// before they were blocked.
func (h *NotificationHandler) DeleteStockAdjustments(c *fiber.Ctx) error {
	center, err := h.center(c)
	if err != nil {
		return err
	}

	removed := center.ClearByCategory(notification.StockAdjustment)
	return c.JSON(fiber.Map{"removed": removed})
}

// Create emits on behalf of a UI action. Persisted notifications are owned by
// the caller; persist=false keeps the entry in memory only.
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateNotificationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	opts := domain.EmitOptions{
		Category:     input.Category,
		Priority:     input.Priority,
		ActionURL:    input.ActionURL,
		Suppressible: input.Suppressible,
	}

	var emitted *domain.Notification
	if input.Persist != nil && !*input.Persist {
		emitted, err = h.registry.For(c.UserContext(), userID).Emit(input.Type, input.Title, input.Message, opts)
	} else {
		emitted, err = h.registry.Notify(c.UserContext(), userID, input.Type, input.Title, input.Message, opts)
	}
	if err != nil {
		return mapError(err)
	}

	if emitted == nil {
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"suppressed": true})
	}
	return c.Status(fiber.StatusCreated).JSON(emitted)
}

func (h *NotificationHandler) GetSettings(c *fiber.Ctx) error {
	center, err := h.center(c)
	if err != nil {
		return err
	}
	return c.JSON(center.Settings())
}

func (h *NotificationHandler) UpdateSettings(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.UpdateNotificationSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.ThrottleDurationMs != nil && *input.ThrottleDurationMs < 0 {
		return middleware.BadRequest("Throttle duration must not be negative")
	}

	updated := h.registry.UpdateSettings(c.UserContext(), userID, input)

	notification.Dispatch(c.UserContext(), h.registry, userID, domain.NotifSuccess,
		i18n.T("settings_saved_title"), i18n.T("settings_saved_message"),
		domain.EmitOptions{Category: domain.CategorySettings, Priority: domain.PriorityLow})

	return c.JSON(updated)
}

// Stream sends the current state and then every change as server-sent events.
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	center, err := h.center(c)
	if err != nil {
		return err
	}

	updates := make(chan notification.Snapshot, 1)
	unsubscribe := center.Subscribe(func(s notification.Snapshot) {
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- s:
		default:
		}
	})

	initial := notification.Snapshot{
		Op:            notification.OpLoad,
		Notifications: center.Notifications(),
		UnreadCount:   center.UnreadCount(),
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		ticker := time.NewTicker(streamKeepAlive)
		defer ticker.Stop()

		if err := writeEvent(w, initial); err != nil {
			return
		}
		for {
			select {
			case <-h.shutdown:
				return
			case s := <-updates:
				if err := writeEvent(w, s); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})

	return nil
}

func writeEvent(w *bufio.Writer, s notification.Snapshot) error {
	if s.Notifications == nil {
		s.Notifications = []domain.Notification{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode notification snapshot")
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", s.Op, data); err != nil {
		return err
	}
	return w.Flush()
}

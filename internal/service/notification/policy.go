package notification

import (
	"strings"
	"time"

	"warehouse-manager/internal/domain"
)

const (
	// DuplicateWindow is how long an identical title and message stays suppressed.
	DuplicateWindow = 5 * time.Second

	// StockThrottleFloor is the minimum throttle applied to the stock category.
	StockThrottleFloor = 15 * time.Second
)

var stockAdjustmentPhrases = []string{
	"stock adjust",
	"adjusted stock",
	"adjust stock",
	"stock level adjusted",
	"stock updated",
	"quantity adjusted",
}

// IsStockAdjustment reports whether a notification describes a stock adjustment.
// Such notifications are never shown, whatever the settings say.
func IsStockAdjustment(category, title, message string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == domain.CategoryStock {
		return true
	}
	if category != domain.CategoryInventory && !strings.Contains(category, "stock") {
		return false
	}

	text := strings.ToLower(title + " " + message)
	for _, phrase := range stockAdjustmentPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// StockAdjustment matches live entries that should have been hard-blocked,
// for use with Center.ClearByCategory.
func StockAdjustment(n domain.Notification) bool {
	return IsStockAdjustment(n.Category, n.Title, n.Message)
}

// CategoryIs returns a predicate matching a single category.
func CategoryIs(category string) func(domain.Notification) bool {
	return func(n domain.Notification) bool {
		return n.Category == category
	}
}

func throttleKey(typ domain.NotificationType, category string) string {
	return string(typ) + "|" + category
}

func throttleWindow(settings domain.NotificationSettings, category string) time.Duration {
	window := settings.Throttle()
	if category == domain.CategoryStock && window < StockThrottleFloor {
		window = StockThrottleFloor
	}
	return window
}

type rejection string

const (
	rejectStock     rejection = "stock_adjustment"
	rejectHidden    rejection = "type_hidden"
	rejectMuted     rejection = "category_muted"
	rejectThrottled rejection = "throttled"
	rejectDuplicate rejection = "duplicate"
	rejectLive      rejection = "already_live"
)

// isDuplicate reports whether a live entry with the same title and message was
// created less than DuplicateWindow away from at.
func isDuplicate(live []domain.Notification, title, message string, at time.Time) bool {
	for i := range live {
		n := &live[i]
		if n.Title != title || n.Message != message {
			continue
		}
		diff := at.Sub(n.CreatedAt)
		if diff < 0 {
			diff = -diff
		}
		if diff < DuplicateWindow {
			return true
		}
	}
	return false
}

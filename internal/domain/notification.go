package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID           uuid.UUID            `json:"id" db:"id"`
	UserID       *uuid.UUID           `json:"user_id,omitempty" db:"user_id"`
	Type         NotificationType     `json:"type" db:"type"`
	Priority     NotificationPriority `json:"priority" db:"priority"`
	Category     string               `json:"category" db:"category"`
	Title        string               `json:"title" db:"title"`
	Message      string               `json:"message" db:"message"`
	ActionURL    *string              `json:"action_url,omitempty" db:"action_url"`
	Suppressible bool                 `json:"suppressible" db:"suppressible"`
	IsRead       bool                 `json:"is_read" db:"is_read"`
	ReadAt       *time.Time           `json:"read_at,omitempty" db:"read_at"`
	CreatedAt    time.Time            `json:"created_at" db:"created_at"`
}

// Persisted reports whether the notification is mirrored to the remote store.
func (n *Notification) Persisted() bool {
	return n.UserID != nil
}

type NotificationType string

const (
	NotifSuccess NotificationType = "success"
	NotifError   NotificationType = "error"
	NotifWarning NotificationType = "warning"
	NotifInfo    NotificationType = "info"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotifSuccess, NotifError, NotifWarning, NotifInfo:
		return true
	default:
		return false
	}
}

type NotificationPriority string

const (
	PriorityLow      NotificationPriority = "low"
	PriorityMedium   NotificationPriority = "medium"
	PriorityHigh     NotificationPriority = "high"
	PriorityCritical NotificationPriority = "critical"
)

func (p NotificationPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

const (
	CategoryGeneral   = "general"
	CategoryOrders    = "orders"
	CategoryInventory = "inventory"
	CategoryStock     = "stock"
	CategoryWarehouse = "warehouse"
	CategorySettings  = "settings"
	CategoryReports   = "reports"
)

// EmitOptions carries the optional attributes of a new notification.
// Zero values fall back to category "general", priority "medium" and
// suppressible unless the type is error.
type EmitOptions struct {
	Category     string
	Priority     NotificationPriority
	UserID       *uuid.UUID
	ActionURL    *string
	Suppressible *bool
}

// NotificationUpdate lists the remotely mirrored fields that may change after creation.
type NotificationUpdate struct {
	IsRead *bool
	ReadAt *time.Time
}

type CreateNotificationInput struct {
	Type         NotificationType     `json:"type" validate:"required,oneof=success error warning info"`
	Title        string               `json:"title" validate:"required"`
	Message      string               `json:"message" validate:"required"`
	Category     string               `json:"category,omitempty"`
	Priority     NotificationPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	ActionURL    *string              `json:"action_url,omitempty"`
	Suppressible *bool                `json:"suppressible,omitempty"`
	Persist      *bool                `json:"persist,omitempty"`
}

type NotificationSettings struct {
	ShowSuccessNotifications         bool     `json:"show_success_notifications"`
	ShowInfoNotifications            bool     `json:"show_info_notifications"`
	ShowWarningNotifications         bool     `json:"show_warning_notifications"`
	ShowErrorNotifications           bool     `json:"show_error_notifications"`
	ShowStockAdjustmentNotifications bool     `json:"show_stock_adjustment_notifications"`
	ThrottleDurationMs               int64    `json:"throttle_duration_ms"`
	MutedCategories                  []string `json:"muted_categories,omitempty"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		ShowSuccessNotifications:         true,
		ShowInfoNotifications:            true,
		ShowWarningNotifications:         true,
		ShowErrorNotifications:           true,
		ShowStockAdjustmentNotifications: true,
		ThrottleDurationMs:               3000,
	}
}

func (s NotificationSettings) Throttle() time.Duration {
	return time.Duration(s.ThrottleDurationMs) * time.Millisecond
}

// Shows reports whether notifications of type t are visible under these settings.
func (s NotificationSettings) Shows(t NotificationType) bool {
	switch t {
	case NotifSuccess:
		return s.ShowSuccessNotifications
	case NotifInfo:
		return s.ShowInfoNotifications
	case NotifWarning:
		return s.ShowWarningNotifications
	case NotifError:
		return s.ShowErrorNotifications
	default:
		return false
	}
}

func (s NotificationSettings) Mutes(category string) bool {
	for _, c := range s.MutedCategories {
		if c == category {
			return true
		}
	}
	return false
}

func (s NotificationSettings) Clone() NotificationSettings {
	if s.MutedCategories != nil {
		s.MutedCategories = append([]string(nil), s.MutedCategories...)
	}
	return s
}

type UpdateNotificationSettingsInput struct {
	ShowSuccessNotifications         *bool     `json:"show_success_notifications,omitempty"`
	ShowInfoNotifications            *bool     `json:"show_info_notifications,omitempty"`
	ShowWarningNotifications         *bool     `json:"show_warning_notifications,omitempty"`
	ShowErrorNotifications           *bool     `json:"show_error_notifications,omitempty"`
	ShowStockAdjustmentNotifications *bool     `json:"show_stock_adjustment_notifications,omitempty"`
	ThrottleDurationMs               *int64    `json:"throttle_duration_ms,omitempty" validate:"omitempty,min=0"`
	MutedCategories                  *[]string `json:"muted_categories,omitempty"`
}

// Apply merges the set fields of in into s and returns the result.
func (in UpdateNotificationSettingsInput) Apply(s NotificationSettings) NotificationSettings {
	s = s.Clone()
	if in.ShowSuccessNotifications != nil {
		s.ShowSuccessNotifications = *in.ShowSuccessNotifications
	}
	if in.ShowInfoNotifications != nil {
		s.ShowInfoNotifications = *in.ShowInfoNotifications
	}
	if in.ShowWarningNotifications != nil {
		s.ShowWarningNotifications = *in.ShowWarningNotifications
	}
	if in.ShowErrorNotifications != nil {
		s.ShowErrorNotifications = *in.ShowErrorNotifications
	}
	if in.ShowStockAdjustmentNotifications != nil {
		s.ShowStockAdjustmentNotifications = *in.ShowStockAdjustmentNotifications
	}
	if in.ThrottleDurationMs != nil && *in.ThrottleDurationMs >= 0 {
		s.ThrottleDurationMs = *in.ThrottleDurationMs
	}
	if in.MutedCategories != nil {
		s.MutedCategories = append([]string(nil), (*in.MutedCategories)...)
	}
	return s
}

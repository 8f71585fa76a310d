package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"warehouse-manager/internal/domain"
)

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Save(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *NotificationRepository) Update(ctx context.Context, id uuid.UUID, update domain.NotificationUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepository) DeleteAll(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

type SettingsRepository struct {
	mock.Mock
}

func (m *SettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationSettings), args.Error(1)
}

func (m *SettingsRepository) Save(ctx context.Context, userID uuid.UUID, settings domain.NotificationSettings) error {
	args := m.Called(ctx, userID, settings)
	return args.Error(0)
}

type AlertSender struct {
	mock.Mock
}

func (m *AlertSender) SendCriticalAlert(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// Notifier stands in for the notification registry in domain service tests.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Notify(ctx context.Context, userID uuid.UUID, typ domain.NotificationType, title, message string, opts domain.EmitOptions) (*domain.Notification, error) {
	args := m.Called(ctx, userID, typ, title, message, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"warehouse-manager/internal/domain"
)

const settingsKeyPrefix = "notification:settings:"

// SettingsRepository keeps each user's notification preferences in redis.
type SettingsRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationSettings, error)
	Save(ctx context.Context, userID uuid.UUID, settings domain.NotificationSettings) error
}

type settingsRepository struct {
	rdb redis.UniversalClient
}

func NewSettingsRepository(rdb redis.UniversalClient) SettingsRepository {
	return &settingsRepository{rdb: rdb}
}

func settingsKey(userID uuid.UUID) string {
	return settingsKeyPrefix + userID.String()
}

// Get returns nil, nil when the user has never saved settings.
func (r *settingsRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationSettings, error) {
	raw, err := r.rdb.Get(ctx, settingsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notification settings: %w", err)
	}

	var settings domain.NotificationSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("decode notification settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, userID uuid.UUID, settings domain.NotificationSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode notification settings: %w", err)
	}
	if err := r.rdb.Set(ctx, settingsKey(userID), raw, 0).Err(); err != nil {
		return fmt.Errorf("save notification settings: %w", err)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"warehouse-manager/internal/domain"
)

// notificationHistoryLimit caps how many records a user's center is hydrated with.
const notificationHistoryLimit = 200

// NotificationRepository is the remote mirror of a user's notification center.
// Only notifications carrying a user id are ever written.
type NotificationRepository interface {
	Save(ctx context.Context, notif *domain.Notification) error
	Update(ctx context.Context, id uuid.UUID, update domain.NotificationUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context, ids []uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Save(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, priority, category, title, message, action_url, suppressible, is_read, read_at, created_at)
		VALUES (:id, :user_id, :type, :priority, :category, :title, :message, :action_url, :suppressible, :is_read, :read_at, :created_at)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.NamedExecContext(ctx, query, notif)
	return err
}

func (r *notificationRepository) Update(ctx context.Context, id uuid.UUID, update domain.NotificationUpdate) error {
	query := `
		UPDATE notifications
		SET is_read = COALESCE($2, is_read), read_at = COALESCE($3, read_at)
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, update.IsRead, update.ReadAt)
	return err
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM notifications WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *notificationRepository) DeleteAll(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `DELETE FROM notifications WHERE id = ANY($1::uuid[])`
	_, err := r.db.ExecContext(ctx, query, pq.Array(raw))
	return err
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var notifications []domain.Notification
	query := `
		SELECT id, user_id, type, priority, category, title, message, action_url, suppressible, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &notifications, query, userID, notificationHistoryLimit); err != nil {
		return nil, err
	}
	return notifications, nil
}

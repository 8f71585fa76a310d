package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"warehouse-manager/internal/domain"
)

const notificationCollection = "notifications"

// notificationDocument is the BSON shape of a notification. IDs are stored as
// canonical uuid strings so documents stay readable from the mongo shell.
type notificationDocument struct {
	ID           string     `bson:"_id"`
	UserID       string     `bson:"user_id"`
	Type         string     `bson:"type"`
	Priority     string     `bson:"priority"`
	Category     string     `bson:"category"`
	Title        string     `bson:"title"`
	Message      string     `bson:"message"`
	ActionURL    *string    `bson:"action_url,omitempty"`
	Suppressible bool       `bson:"suppressible"`
	IsRead       bool       `bson:"is_read"`
	ReadAt       *time.Time `bson:"read_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
}

func toNotificationDocument(n *domain.Notification) notificationDocument {
	doc := notificationDocument{
		ID:           n.ID.String(),
		Type:         string(n.Type),
		Priority:     string(n.Priority),
		Category:     n.Category,
		Title:        n.Title,
		Message:      n.Message,
		ActionURL:    n.ActionURL,
		Suppressible: n.Suppressible,
		IsRead:       n.IsRead,
		ReadAt:       n.ReadAt,
		CreatedAt:    n.CreatedAt.UTC(),
	}
	if n.UserID != nil {
		doc.UserID = n.UserID.String()
	}
	return doc
}

func (d notificationDocument) toDomain() (domain.Notification, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("parse notification id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("parse user id %q: %w", d.UserID, err)
	}

	return domain.Notification{
		ID:           id,
		UserID:       &userID,
		Type:         domain.NotificationType(d.Type),
		Priority:     domain.NotificationPriority(d.Priority),
		Category:     d.Category,
		Title:        d.Title,
		Message:      d.Message,
		ActionURL:    d.ActionURL,
		Suppressible: d.Suppressible,
		IsRead:       d.IsRead,
		ReadAt:       d.ReadAt,
		CreatedAt:    d.CreatedAt,
	}, nil
}

type mongoNotificationRepository struct {
	coll *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) NotificationRepository {
	return &mongoNotificationRepository{coll: db.Collection(notificationCollection)}
}

// EnsureNotificationIndexes creates the (user_id, created_at desc) index used by ListByUser.
func EnsureNotificationIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(notificationCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created_at"),
	})
	if err != nil {
		return fmt.Errorf("create notification index: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepository) Save(ctx context.Context, notif *domain.Notification) error {
	if _, err := r.coll.InsertOne(ctx, toNotificationDocument(notif)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepository) Update(ctx context.Context, id uuid.UUID, update domain.NotificationUpdate) error {
	set := bson.D{}
	if update.IsRead != nil {
		set = append(set, bson.E{Key: "is_read", Value: *update.IsRead})
	}
	if update.ReadAt != nil {
		set = append(set, bson.E{Key: "read_at", Value: update.ReadAt.UTC()})
	}
	if len(set) == 0 {
		return nil
	}

	_, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}}); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepository) DeleteAll(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: raw}}}}
	if _, err := r.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(notificationHistoryLimit)

	cursor, err := r.coll.Find(ctx, bson.D{{Key: "user_id", Value: userID.String()}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}

	var docs []notificationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	notifications := make([]domain.Notification, 0, len(docs))
	for _, doc := range docs {
		n, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

package repository

import (
	"context"
	"time"

	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// auditLogRetention is how long published events are kept.
const auditLogRetention = 30 * 24 * time.Hour

type eventAuditLogRepository struct {
	db *mongo.Database
}

func NewEventAuditLogRepository(db *mongo.Database) domain.EventAuditRepository {
	return &eventAuditLogRepository{
		db: db,
	}
}

func (r *eventAuditLogRepository) Log(ctx context.Context, log *domain.EventAuditLog) error {
	collection := r.db.Collection(db.EventAuditLogsCollection)

	_, err := collection.InsertOne(ctx, log)
	return err
}

func (r *eventAuditLogRepository) GetByRoomID(ctx context.Context, roomID string, limit int) ([]domain.EventAuditLog, error) {
	collection := r.db.Collection(db.EventAuditLogsCollection)

	filter := bson.M{"room_id": roomID}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	return r.find(ctx, collection, filter, opts)
}

func (r *eventAuditLogRepository) GetByEventType(ctx context.Context, eventType string, from, to time.Time) ([]domain.EventAuditLog, error) {
	collection := r.db.Collection(db.EventAuditLogsCollection)

	filter := bson.M{
		"event_type": eventType,
		"timestamp": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	return r.find(ctx, collection, filter, opts)
}

func (r *eventAuditLogRepository) find(ctx context.Context, collection *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]domain.EventAuditLog, error) {
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.EventAuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *eventAuditLogRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.EventAuditLogsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(auditLogRetention.Seconds())),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

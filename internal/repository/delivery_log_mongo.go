package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DeliveryLogRepository interface {
	Record(ctx context.Context, attempt domain.DeliveryAttempt) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.DeliveryAttempt, error)
}

type MongoDeliveryLogRepository struct {
	collection *mongo.Collection
}

// NewMongoClient connects and pings within a bounded time.
func NewMongoClient(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func NewDeliveryLogRepository(ctx context.Context, db *mongo.Database, collection string) *MongoDeliveryLogRepository {
	coll := db.Collection(collection)

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.M{"status": 1}},
	})

	return &MongoDeliveryLogRepository{collection: coll}
}

func (r *MongoDeliveryLogRepository) Record(ctx context.Context, attempt domain.DeliveryAttempt) error {
	if attempt.At.IsZero() {
		attempt.At = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, attempt)
	return err
}

func (r *MongoDeliveryLogRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.DeliveryAttempt, error) {
	cur, err := r.collection.Find(ctx,
		bson.M{"booking_id": bookingID},
		options.Find().SetSort(bson.D{{Key: "at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var attempts []domain.DeliveryAttempt
	if err := cur.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

var _ DeliveryLogRepository = (*MongoDeliveryLogRepository)(nil)

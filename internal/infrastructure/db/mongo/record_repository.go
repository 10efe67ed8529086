package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storehouse/access-api/internal/core/domain"
)

// MongoRecordRepository persists the generic keyed records. Each domain
// collection maps to its own mongo collection of the same name, so the field
// shapes of food and clothes never mix.
type MongoRecordRepository struct {
	db *mongo.Database
}

func NewRecordRepository(db *mongo.Database) *MongoRecordRepository {
	return &MongoRecordRepository{db: db}
}

type mongoRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Fields    bson.M             `bson:"fields"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (r *MongoRecordRepository) coll(collection domain.Collection) *mongo.Collection {
	return r.db.Collection(string(collection))
}

func (r *MongoRecordRepository) Create(ctx context.Context, collection domain.Collection, fields map[string]any) (*domain.Record, error) {
	now := time.Now().UTC()
	doc := mongoRecord{
		Fields:    bson.M(fields),
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}

	res, err := r.coll(collection).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	oid, _ := res.InsertedID.(primitive.ObjectID)
	return &domain.Record{
		ID:         oid.Hex(),
		Collection: collection,
		Fields:     fields,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (r *MongoRecordRepository) List(ctx context.Context, collection domain.Collection) ([]*domain.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.coll(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer cur.Close(ctx)

	records := make([]*domain.Record, 0)
	for cur.Next(ctx) {
		var mr mongoRecord
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, toRecord(collection, mr))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (r *MongoRecordRepository) Get(ctx context.Context, collection domain.Collection, id string) (*domain.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRecordNotFound
	}

	var mr mongoRecord
	if err := r.coll(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return toRecord(collection, mr), nil
}

func (r *MongoRecordRepository) Update(ctx context.Context, collection domain.Collection, id string, fields map[string]any) (*domain.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRecordNotFound
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"fields": bson.M(fields), "updated_at": now.Unix()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mr mongoRecord
	if err := r.coll(collection).FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("update record: %w", err)
	}
	return toRecord(collection, mr), nil
}

func (r *MongoRecordRepository) Delete(ctx context.Context, collection domain.Collection, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrRecordNotFound
	}

	res, err := r.coll(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return 0, domain.ErrRecordNotFound
	}
	return res.DeletedCount, nil
}

func toRecord(collection domain.Collection, mr mongoRecord) *domain.Record {
	return &domain.Record{
		ID:         mr.ID.Hex(),
		Collection: collection,
		Fields:     map[string]any(mr.Fields),
		CreatedAt:  unixToTime(mr.CreatedAt),
		UpdatedAt:  unixToTime(mr.UpdatedAt),
	}
}

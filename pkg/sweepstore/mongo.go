package sweepstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRun is the MongoDB document shape for a Run plus its claim
// cursor, the durable counterpart to RedisStore's two-key layout.
type mongoRun struct {
	ID                  string    `bson:"_id"`
	Digest              string    `bson:"digest"`
	SplittingCandidates uint64    `bson:"splitting_candidates"`
	PackingCandidates   uint64    `bson:"packing_candidates"`
	Status              Status    `bson:"status"`
	Claimed             uint64    `bson:"claimed"`
	CreatedAt           time.Time `bson:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at"`
}

func (r mongoRun) toRun() *Run {
	return &Run{
		ID:                  r.ID,
		Digest:              r.Digest,
		SplittingCandidates: r.SplittingCandidates,
		PackingCandidates:   r.PackingCandidates,
		Status:              r.Status,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// MongoStore is a durable Store for multi-worker sweeps that must
// survive a coordinating Redis instance restarting — each claim is a
// MongoDB FindOneAndUpdate $inc, which is atomic per document the same
// way Redis's INCR is per key.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to uri and returns a Store backed by
// database.collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) CreateRun(ctx context.Context, digest string, splittingCandidates, packingCandidates uint64) (*Run, error) {
	now := time.Now()
	doc := mongoRun{
		ID:                  uuid.NewString(),
		Digest:              digest,
		SplittingCandidates: splittingCandidates,
		PackingCandidates:   packingCandidates,
		Status:              StatusRunning,
		Claimed:             0,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toRun(), nil
}

func (s *MongoStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	var doc mongoRun
	err := s.collection.FindOne(ctx, bson.M{"_id": runID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toRun(), nil
}

func (s *MongoStore) ClaimNext(ctx context.Context, runID string) (splittingID, packingID uint64, done bool, err error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc mongoRun
	result := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": runID},
		bson.M{"$inc": bson.M{"claimed": 1}, "$set": bson.M{"updated_at": time.Now()}},
		opts)
	if result.Err() == mongo.ErrNoDocuments {
		return 0, 0, false, ErrNotFound
	}
	if err := result.Decode(&doc); err != nil {
		return 0, 0, false, err
	}
	run := doc.toRun()
	index := doc.Claimed - 1
	if index >= run.Total() {
		return 0, 0, true, nil
	}
	splittingID, packingID = run.DecodeIndex(index)
	return splittingID, packingID, false, nil
}

func (s *MongoStore) Claimed(ctx context.Context, runID string) (uint64, error) {
	run, err := s.fetch(ctx, runID)
	if err != nil {
		return 0, err
	}
	return run.Claimed, nil
}

func (s *MongoStore) fetch(ctx context.Context, runID string) (*mongoRun, error) {
	var doc mongoRun
	err := s.collection.FindOne(ctx, bson.M{"_id": runID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &doc, err
}

func (s *MongoStore) SetStatus(ctx context.Context, runID string, status Status) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": runID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	return err
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)

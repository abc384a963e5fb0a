package knowledge

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSource loads a snapshot from a MongoDB collection. Documents are
// sorted by their position field to preserve co-indexing.
type MongoSource struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type mongoChunk struct {
	Position  int       `bson:"position"`
	Content   string    `bson:"content"`
	SourceID  string    `bson:"source_id"`
	Kind      string    `bson:"kind"`
	Embedding []float32 `bson:"embedding"`
}

func NewMongoSource(ctx context.Context, uri, database, collection string) (*MongoSource, error) {
	if uri == "" {
		return nil, errors.New("knowledge: mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("knowledge: mongo database name is required")
	}
	if collection == "" {
		collection = "knowledge_chunks"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoSource{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (m *MongoSource) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoSource) Fetch(ctx context.Context) ([]Record, [][]float32, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := m.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("knowledge: mongo find: %w", err)
	}
	defer cursor.Close(ctx)

	var (
		records []Record
		vectors [][]float32
	)
	for cursor.Next(ctx) {
		var chunk mongoChunk
		if err := cursor.Decode(&chunk); err != nil {
			return nil, nil, fmt.Errorf("knowledge: decode document: %w", err)
		}
		records = append(records, Record{Content: chunk.Content, SourceID: chunk.SourceID, Kind: chunk.Kind})
		vectors = append(vectors, chunk.Embedding)
	}
	if err := cursor.Err(); err != nil {
		return nil, nil, fmt.Errorf("knowledge: iterate cursor: %w", err)
	}
	return records, vectors, nil
}

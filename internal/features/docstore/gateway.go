package docstore

import (
	"context"
	"time"

	"github.com/sarobidyBryan/signalement/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CorrelationField carries the relational primary key inside every synced
// document. It is what lets an upsert find a document again after the local
// cross-reference was lost.
const CorrelationField = "postgres_id"

// Document is one document together with its store-assigned id.
type Document struct {
	ID   string
	Data bson.M
}

// Gateway is the uniform read/write facade over the document store.
// I/O faults propagate to the caller; the sync loops isolate them per record.
type Gateway interface {
	// Save writes data at docID with merge semantics (absent fields are
	// preserved). An empty docID inserts under a fresh generated id.
	Save(ctx context.Context, collection, docID string, data bson.M) (string, error)
	// Upsert is Save plus correlation: when docID is empty it first looks
	// for a document whose postgres_id matches, so a lost write-back never
	// produces a duplicate. It stamps postgres_id and synced_at.
	Upsert(ctx context.Context, collection, docID string, postgresID int, data bson.M) (string, error)
	Get(ctx context.Context, collection, docID string) (bson.M, error)
	GetAll(ctx context.Context, collection string) ([]Document, error)
	FindByField(ctx context.Context, collection, field string, value interface{}) ([]Document, error)
	FindDocIDByPostgresID(ctx context.Context, collection string, postgresID int) (string, error)
	// ModifiedSince returns documents whose updated_at is after since,
	// falling back to synced_at when the first query matches nothing.
	ModifiedSince(ctx context.Context, collection string, since time.Time) ([]Document, error)
	Delete(ctx context.Context, collection, docID string) error
}

type MongoGateway struct {
	db *mongo.Database
}

func NewGateway(db *database.MongodbDB) Gateway {
	return &MongoGateway{db: db.DB}
}

func (g *MongoGateway) Save(ctx context.Context, collection, docID string, data bson.M) (string, error) {
	if docID == "" {
		docID = primitive.NewObjectID().Hex()
	}

	_, err := g.db.Collection(collection).UpdateOne(
		ctx,
		bson.M{"_id": docID},
		bson.M{"$set": data},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", err
	}

	return docID, nil
}

func (g *MongoGateway) Upsert(ctx context.Context, collection, docID string, postgresID int, data bson.M) (string, error) {
	if docID == "" {
		existing, err := g.FindDocIDByPostgresID(ctx, collection, postgresID)
		if err != nil {
			return "", err
		}
		docID = existing
	}

	data[CorrelationField] = postgresID
	data["synced_at"] = time.Now()

	return g.Save(ctx, collection, docID, data)
}

func (g *MongoGateway) Get(ctx context.Context, collection, docID string) (bson.M, error) {
	var data bson.M
	err := g.db.Collection(collection).FindOne(ctx, bson.M{"_id": docID}).Decode(&data)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (g *MongoGateway) GetAll(ctx context.Context, collection string) ([]Document, error) {
	cursor, err := g.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return decodeDocuments(ctx, cursor)
}

func (g *MongoGateway) FindByField(ctx context.Context, collection, field string, value interface{}) ([]Document, error) {
	cursor, err := g.db.Collection(collection).Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, err
	}
	return decodeDocuments(ctx, cursor)
}

func (g *MongoGateway) FindDocIDByPostgresID(ctx context.Context, collection string, postgresID int) (string, error) {
	docs, err := g.FindByField(ctx, collection, CorrelationField, postgresID)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", nil
	}
	return docs[0].ID, nil
}

func (g *MongoGateway) ModifiedSince(ctx context.Context, collection string, since time.Time) ([]Document, error) {
	cursor, err := g.db.Collection(collection).Find(ctx, bson.M{"updated_at": bson.M{"$gt": since}})
	if err != nil {
		return nil, err
	}

	docs, err := decodeDocuments(ctx, cursor)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		cursor, err = g.db.Collection(collection).Find(ctx, bson.M{"synced_at": bson.M{"$gt": since}})
		if err != nil {
			return nil, err
		}
		docs, err = decodeDocuments(ctx, cursor)
		if err != nil {
			return nil, err
		}
	}

	return docs, nil
}

func (g *MongoGateway) Delete(ctx context.Context, collection, docID string) error {
	_, err := g.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": docID})
	return err
}

func decodeDocuments(ctx context.Context, cursor *mongo.Cursor) ([]Document, error) {
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var data bson.M
		if err := cursor.Decode(&data); err != nil {
			return nil, err
		}

		id, _ := data["_id"].(string)
		delete(data, "_id")
		docs = append(docs, Document{ID: id, Data: data})
	}

	return docs, cursor.Err()
}

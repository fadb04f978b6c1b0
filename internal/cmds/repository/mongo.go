package repository

import (
	"context"
	"errors"

	"github.com/cmdshop/cmdshop/internal/cmds"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoRepo implements a MongoDB-backed repository for cmds.
// Documents are keyed by the service-generated id in "_id"; createdAt and
// updatedAt are set by the server through $currentDate.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the title index backing the list ordering.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "title", Value: 1}}}
	_, err := m.col.Indexes().CreateOne(ctx, idx)
	return err
}

func (m *MongoRepo) List(ctx context.Context) ([]*cmds.Cmd, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*cmds.Cmd{}
	for cur.Next(ctx) {
		var c cmds.Cmd
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*cmds.Cmd, error) {
	var c cmds.Cmd
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create writes the document keyed by c.ID. The upsert only ever inserts
// because ids are fresh UUIDs; it is used so the timestamps come from the
// server clock.
func (m *MongoRepo) Create(ctx context.Context, c *cmds.Cmd) error {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	update := bson.M{
		"$setOnInsert": bson.M{"title": c.Title, "content": c.Content, "tags": tags},
		"$currentDate": bson.M{"createdAt": true, "updatedAt": true},
	}
	_, err := m.col.UpdateOne(ctx, bson.M{"_id": c.ID}, update, options.Update().SetUpsert(true))
	return err
}

// Update merges p into the existing document and returns the result in a
// single findAndModify, so existence check and write cannot interleave with
// a concurrent delete.
func (m *MongoRepo) Update(ctx context.Context, id string, p cmds.Patch) (*cmds.Cmd, error) {
	update := bson.M{"$currentDate": bson.M{"updatedAt": true}}
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	if len(set) > 0 {
		update["$set"] = set
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c cmds.Cmd
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, readpref.Primary())
}

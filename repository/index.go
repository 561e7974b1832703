package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the indexes the store relies on. The unique (note_id, tag_id)
// index is what rejects duplicate associations.
func SetupIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		notesCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("user_notes_date"),
			},
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "is_archived", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("user_archived_notes"),
			},
		},
		tagsCollection: {
			{
				Keys: bson.D{
					{Key: "user_id", Value: 1},
					{Key: "name", Value: 1},
				},
				Options: options.Index().SetName("user_tags_name"),
			},
		},
		noteTagsCollection: {
			{
				Keys: bson.D{
					{Key: "note_id", Value: 1},
					{Key: "tag_id", Value: 1},
				},
				Options: options.Index().
					SetName("note_tag_unique").
					SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "tag_id", Value: 1},
					{Key: "user_id", Value: 1},
				},
				Options: options.Index().SetName("tag_notes"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("user_id_index"),
			},
		},
		usersCollection: {
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().
					SetName("email_unique").
					SetUnique(true),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}

	log.Println("Successfully created all indexes")
	return nil
}

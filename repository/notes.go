package repository

import (
	"context"
	"regexp"
	"time"

	"tonotes/apperr"
	"tonotes/model"
	"tonotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func noteFilter(userID string, f model.NoteFilter) bson.M {
	filter := bson.M{"user_id": userID}
	if f.Archived != nil {
		filter["is_archived"] = *f.Archived
	}
	if f.Pinned != nil {
		filter["is_pinned"] = *f.Pinned
	}
	if f.Starred != nil {
		filter["is_starred"] = *f.Starred
	}
	if f.Query != "" {
		pattern := regexp.QuoteMeta(f.Query)
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"content": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return filter
}

// ListNotes returns the user's notes matching f, newest first.
func (s *MongoStore) ListNotes(ctx context.Context, userID string, f model.NoteFilter) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", notesCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.notes.Find(ctx, noteFilter(userID, f), opts)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer cursor.Close(ctx)

	notes := []*model.Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, apperr.Store(err)
	}
	return notes, nil
}

func (s *MongoStore) CreateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", notesCollection)
	defer timer.ObserveDuration()

	_, err := s.notes.InsertOne(ctx, note)
	return mongoErr(err, nil)
}

func (s *MongoStore) GetNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find_one", notesCollection)
	defer timer.ObserveDuration()

	var note model.Note
	err := s.notes.FindOne(ctx, bson.M{"_id": noteID, "user_id": userID}).Decode(&note)
	if err != nil {
		return nil, mongoErr(err, apperr.ErrNoteNotFound)
	}
	return &note, nil
}

func (s *MongoStore) UpdateNote(ctx context.Context, userID, noteID string, patch model.NotePatch) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", notesCollection)
	defer timer.ObserveDuration()

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	for field, value := range patchFields(patch) {
		set[field] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var note model.Note
	err := s.notes.FindOneAndUpdate(ctx,
		bson.M{"_id": noteID, "user_id": userID},
		bson.M{"$set": set},
		opts,
	).Decode(&note)
	if err != nil {
		return nil, mongoErr(err, apperr.ErrNoteNotFound)
	}
	return &note, nil
}

func (s *MongoStore) DeleteNote(ctx context.Context, userID, noteID string) error {
	timer := utils.TrackDBOperation("delete", notesCollection)
	defer timer.ObserveDuration()

	if _, err := s.noteTags.DeleteMany(ctx, bson.M{"note_id": noteID, "user_id": userID}); err != nil {
		return apperr.Store(err)
	}
	if _, err := s.notes.DeleteOne(ctx, bson.M{"_id": noteID, "user_id": userID}); err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (s *MongoStore) CountNotes(ctx context.Context, userID string) (int, error) {
	count, err := s.notes.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, apperr.Store(err)
	}
	return int(count), nil
}

// findNotes loads the user's notes with the given ids.
func (s *MongoStore) findNotes(ctx context.Context, userID string, ids []string) ([]*model.Note, error) {
	notes := []*model.Note{}
	if len(ids) == 0 {
		return notes, nil
	}
	cursor, err := s.notes.Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "user_id": userID})
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &notes); err != nil {
		return nil, apperr.Store(err)
	}
	return notes, nil
}

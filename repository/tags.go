package repository

import (
	"context"
	"time"

	"tonotes/apperr"
	"tonotes/model"
	"tonotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) ListTags(ctx context.Context, userID string) ([]*model.Tag, error) {
	return s.findTags(ctx, bson.M{"user_id": userID})
}

func (s *MongoStore) findTags(ctx context.Context, filter bson.M) ([]*model.Tag, error) {
	timer := utils.TrackDBOperation("find", tagsCollection)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.tags.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer cursor.Close(ctx)

	tags := []*model.Tag{}
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, apperr.Store(err)
	}
	return tags, nil
}

func (s *MongoStore) CreateTag(ctx context.Context, tag *model.Tag) error {
	timer := utils.TrackDBOperation("insert", tagsCollection)
	defer timer.ObserveDuration()

	_, err := s.tags.InsertOne(ctx, tag)
	return mongoErr(err, nil)
}

func (s *MongoStore) GetTag(ctx context.Context, userID, tagID string) (*model.Tag, error) {
	var tag model.Tag
	err := s.tags.FindOne(ctx, bson.M{"_id": tagID, "user_id": userID}).Decode(&tag)
	if err != nil {
		return nil, mongoErr(err, apperr.ErrTagNotFound)
	}
	return &tag, nil
}

func (s *MongoStore) DeleteTag(ctx context.Context, userID, tagID string) error {
	timer := utils.TrackDBOperation("delete", tagsCollection)
	defer timer.ObserveDuration()

	if _, err := s.noteTags.DeleteMany(ctx, bson.M{"tag_id": tagID, "user_id": userID}); err != nil {
		return apperr.Store(err)
	}
	if _, err := s.tags.DeleteOne(ctx, bson.M{"_id": tagID, "user_id": userID}); err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (s *MongoStore) CountTags(ctx context.Context, userID string) (int, error) {
	count, err := s.tags.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, apperr.Store(err)
	}
	return int(count), nil
}

// LinkTags inserts one association per tag. The unique (note_id, tag_id) index rejects
// associations that already exist.
func (s *MongoStore) LinkTags(ctx context.Context, userID, noteID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	timer := utils.TrackDBOperation("insert", noteTagsCollection)
	defer timer.ObserveDuration()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]interface{}, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		docs = append(docs, model.NoteTag{
			NoteID:    noteID,
			TagID:     tagID,
			UserID:    userID,
			CreatedAt: now,
		})
	}

	_, err := s.noteTags.InsertMany(ctx, docs)
	return mongoErr(err, nil)
}

func (s *MongoStore) UnlinkTag(ctx context.Context, userID, noteID, tagID string) error {
	timer := utils.TrackDBOperation("delete", noteTagsCollection)
	defer timer.ObserveDuration()

	_, err := s.noteTags.DeleteOne(ctx, bson.M{"note_id": noteID, "tag_id": tagID, "user_id": userID})
	return mongoErr(err, nil)
}

func (s *MongoStore) TagsForNote(ctx context.Context, userID, noteID string) ([]*model.Tag, error) {
	ids, err := s.linkedIDs(ctx, bson.M{"note_id": noteID, "user_id": userID}, "tag_id")
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Tag{}, nil
	}
	return s.findTags(ctx, bson.M{"_id": bson.M{"$in": ids}, "user_id": userID})
}

func (s *MongoStore) NotesForTag(ctx context.Context, userID, tagID string) ([]*model.Note, error) {
	ids, err := s.linkedIDs(ctx, bson.M{"tag_id": tagID, "user_id": userID}, "note_id")
	if err != nil {
		return nil, err
	}
	return s.findNotes(ctx, userID, ids)
}

// linkedIDs returns the given side of every association matching filter.
func (s *MongoStore) linkedIDs(ctx context.Context, filter bson.M, field string) ([]string, error) {
	timer := utils.TrackDBOperation("find", noteTagsCollection)
	defer timer.ObserveDuration()

	cursor, err := s.noteTags.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer cursor.Close(ctx)

	var links []model.NoteTag
	if err := cursor.All(ctx, &links); err != nil {
		return nil, apperr.Store(err)
	}

	ids := make([]string, 0, len(links))
	for _, link := range links {
		if field == "tag_id" {
			ids = append(ids, link.TagID)
		} else {
			ids = append(ids, link.NoteID)
		}
	}
	return ids, nil
}

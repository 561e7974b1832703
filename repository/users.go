package repository

import (
	"context"

	"tonotes/apperr"
	"tonotes/model"
	"tonotes/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (s *MongoStore) CreateUser(ctx context.Context, user *model.User) error {
	timer := utils.TrackDBOperation("insert", usersCollection)
	defer timer.ObserveDuration()

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrUserExists
		}
		return apperr.Store(err)
	}
	return nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"_id": userID})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*model.User, error) {
	timer := utils.TrackDBOperation("find_one", usersCollection)
	defer timer.ObserveDuration()

	var user model.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoErr(err, apperr.ErrUserNotFound)
	}
	return &user, nil
}

// DeleteUserData removes associations first so a partial run never leaves dangling links.
func (s *MongoStore) DeleteUserData(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", usersCollection)
	defer timer.ObserveDuration()

	byOwner := bson.M{"user_id": userID}
	if _, err := s.noteTags.DeleteMany(ctx, byOwner); err != nil {
		return apperr.Store(err)
	}
	if _, err := s.notes.DeleteMany(ctx, byOwner); err != nil {
		return apperr.Store(err)
	}
	if _, err := s.tags.DeleteMany(ctx, byOwner); err != nil {
		return apperr.Store(err)
	}
	if _, err := s.users.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return apperr.Store(err)
	}
	return nil
}

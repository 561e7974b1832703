package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tonotes/apperr"
	"tonotes/config"
	"tonotes/usecase"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	notesCollection    = "notes"
	tagsCollection     = "tags"
	noteTagsCollection = "note_tags"
	usersCollection    = "users"
)

// MongoStore implements usecase.Store on one MongoDB database.
type MongoStore struct {
	client   *mongo.Client
	db       *mongo.Database
	notes    *mongo.Collection
	tags     *mongo.Collection
	noteTags *mongo.Collection
	users    *mongo.Collection

	useTx bool
	inTx  bool
}

var _ usecase.Store = (*MongoStore)(nil)

// ConnectMongo dials the server, verifies it with a ping and ensures indexes exist.
func ConnectMongo(ctx context.Context, cfg config.DatabaseConfig) (*MongoStore, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := NewMongoStore(client, cfg.DatabaseName, cfg.UseTransactions)
	if err := SetupIndexes(ctx, store.db); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	log.Printf("Connected to MongoDB database %s", cfg.DatabaseName)
	return store, nil
}

func NewMongoStore(client *mongo.Client, dbName string, useTx bool) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		client:   client,
		db:       db,
		notes:    db.Collection(notesCollection),
		tags:     db.Collection(tagsCollection),
		noteTags: db.Collection(noteTagsCollection),
		users:    db.Collection(usersCollection),
		useTx:    useTx,
	}
}

// RunInTx runs fn inside a session transaction. Nested calls join the outer unit of work.
func (s *MongoStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx usecase.Store) error) error {
	if s.inTx || !s.useTx {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return apperr.Store(err)
	}
	defer session.EndSession(ctx)

	txStore := *s
	txStore.inTx = true

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, &txStore)
	})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mongoErr maps driver errors onto the store taxonomy; missing documents become notFound.
func mongoErr(err error, notFound *apperr.AppError) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) && notFound != nil {
		return notFound
	}
	return apperr.Store(err)
}

package usecase

import (
	"context"

	"tonotes/model"
)

// Every repository method takes the caller's user id and must only see that user's rows.

type NoteRepository interface {
	ListNotes(ctx context.Context, userID string, filter model.NoteFilter) ([]*model.Note, error)
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, userID, noteID string) (*model.Note, error)
	UpdateNote(ctx context.Context, userID, noteID string, patch model.NotePatch) (*model.Note, error)
	// DeleteNote removes the note and its association rows. Absent notes are not an error.
	DeleteNote(ctx context.Context, userID, noteID string) error
	CountNotes(ctx context.Context, userID string) (int, error)
}

type TagRepository interface {
	ListTags(ctx context.Context, userID string) ([]*model.Tag, error)
	CreateTag(ctx context.Context, tag *model.Tag) error
	GetTag(ctx context.Context, userID, tagID string) (*model.Tag, error)
	// DeleteTag removes the tag and its association rows. Absent tags are not an error.
	DeleteTag(ctx context.Context, userID, tagID string) error
	CountTags(ctx context.Context, userID string) (int, error)

	LinkTags(ctx context.Context, userID, noteID string, tagIDs []string) error
	UnlinkTag(ctx context.Context, userID, noteID, tagID string) error
	TagsForNote(ctx context.Context, userID, noteID string) ([]*model.Tag, error)
	NotesForTag(ctx context.Context, userID, tagID string) ([]*model.Note, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	// DeleteUserData removes the user's associations, notes, tags and the user row.
	DeleteUserData(ctx context.Context, userID string) error
}

// Store is the backing store. RunInTx runs fn as one unit of work: fn must use the
// ctx and tx it is handed, and any error it returns rolls the work back.
type Store interface {
	NoteRepository
	TagRepository
	UserRepository
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error
}

// IdentityProvider owns accounts and sessions.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, client model.ClientInfo) (*model.AuthResult, error)
	SignInWithPassword(ctx context.Context, email, password string, client model.ClientInfo) (*model.AuthResult, error)
	SignOut(ctx context.Context, identity model.Identity) error
	SignOutEverywhere(ctx context.Context, userID string) error
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error)
	// GetUser resolves a bearer token; any failure is reported as unauthorized.
	GetUser(ctx context.Context, accessToken string) (*model.Identity, error)
	Ping(ctx context.Context) error
}

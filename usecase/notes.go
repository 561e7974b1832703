package usecase

import (
	"context"
	"strings"
	"time"

	"tonotes/apperr"
	"tonotes/model"
	"tonotes/utils"
)

type NotesService struct {
	Store Store
	Now   func() time.Time
}

func NewNotesService(store Store) *NotesService {
	return &NotesService{Store: store, Now: time.Now}
}

// CreateNoteInput is a validated create request. TagIDs, when present, are linked in
// the same unit of work as the insert.
type CreateNoteInput struct {
	Title      string
	Content    *string
	IsArchived bool
	IsPinned   bool
	Color      *string
	TagIDs     []string
}

func (svc *NotesService) now() time.Time {
	if svc.Now == nil {
		return time.Now().UTC().Truncate(time.Millisecond)
	}
	return svc.Now().UTC().Truncate(time.Millisecond)
}

func (svc *NotesService) ListNotes(ctx context.Context, identity model.Identity, filter model.NoteFilter) ([]*model.Note, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	notes, err := svc.Store.ListNotes(ctx, identity.UserID, filter)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*model.Note{}
	}
	return notes, nil
}

func (svc *NotesService) CreateNote(ctx context.Context, identity model.Identity, in CreateNoteInput) (*model.Note, error) {
	if utils.IsBlank(in.Title) {
		return nil, apperr.Validation("Title is required")
	}
	tagIDs, err := normalizeIDs(in.TagIDs)
	if err != nil {
		return nil, err
	}

	now := svc.now()
	note := &model.Note{
		ID:         utils.NewID(),
		UserID:     identity.UserID,
		Title:      in.Title,
		Content:    in.Content,
		IsArchived: in.IsArchived,
		IsPinned:   in.IsPinned,
		Color:      in.Color,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if len(tagIDs) == 0 {
		if err := svc.Store.CreateNote(ctx, note); err != nil {
			return nil, err
		}
		return note, nil
	}

	err = svc.Store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.CreateNote(ctx, note); err != nil {
			return err
		}
		if err := requireTags(ctx, tx, identity.UserID, tagIDs); err != nil {
			return err
		}
		return tx.LinkTags(ctx, identity.UserID, note.ID, tagIDs)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (svc *NotesService) GetNote(ctx context.Context, identity model.Identity, noteID string) (*model.Note, error) {
	return svc.Store.GetNote(ctx, identity.UserID, noteID)
}

// UpdateNote changes only the fields present in patch. An empty patch returns the note as is.
func (svc *NotesService) UpdateNote(ctx context.Context, identity model.Identity, noteID string, patch model.NotePatch) (*model.Note, error) {
	if patch.Title.Set && utils.IsBlank(patch.Title.Value) {
		return nil, apperr.Validation("Title cannot be empty")
	}
	if patch.IsEmpty() {
		return svc.Store.GetNote(ctx, identity.UserID, noteID)
	}
	return svc.Store.UpdateNote(ctx, identity.UserID, noteID, patch)
}

func (svc *NotesService) DeleteNote(ctx context.Context, identity model.Identity, noteID string) error {
	return svc.Store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		return tx.DeleteNote(ctx, identity.UserID, noteID)
	})
}

// requireTags fails with not found unless every id is a tag owned by userID.
func requireTags(ctx context.Context, store Store, userID string, tagIDs []string) error {
	for _, id := range tagIDs {
		if _, err := store.GetTag(ctx, userID, id); err != nil {
			return err
		}
	}
	return nil
}

// normalizeIDs trims ids and drops repeats, keeping first-seen order.
func normalizeIDs(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, apperr.Validation("tagIds must not contain empty ids")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func matchesQuery(note *model.Note, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(note.Title), term) {
		return true
	}
	return note.Content != nil && strings.Contains(strings.ToLower(*note.Content), term)
}

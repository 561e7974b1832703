package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"tonotes/apperr"
	"tonotes/model"
	"tonotes/utils"
)

type TagsService struct {
	Store Store
	Now   func() time.Time
}

func NewTagsService(store Store) *TagsService {
	return &TagsService{Store: store, Now: time.Now}
}

func (svc *TagsService) now() time.Time {
	if svc.Now == nil {
		return time.Now().UTC().Truncate(time.Millisecond)
	}
	return svc.Now().UTC().Truncate(time.Millisecond)
}

func (svc *TagsService) ListTags(ctx context.Context, identity model.Identity) ([]*model.Tag, error) {
	tags, err := svc.Store.ListTags(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []*model.Tag{}
	}
	return tags, nil
}

// CreateTag inserts a tag. With a noteID the tag is linked to that note in the same
// unit of work, so a failed link leaves no orphan tag behind.
func (svc *TagsService) CreateTag(ctx context.Context, identity model.Identity, name, noteID string) (*model.Tag, error) {
	if utils.IsBlank(name) {
		return nil, apperr.Validation("Tag name is required")
	}

	tag := &model.Tag{
		ID:        utils.NewID(),
		UserID:    identity.UserID,
		Name:      name,
		CreatedAt: svc.now(),
	}

	noteID = strings.TrimSpace(noteID)
	if noteID == "" {
		if err := svc.Store.CreateTag(ctx, tag); err != nil {
			return nil, err
		}
		return tag, nil
	}

	err := svc.Store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		if _, err := tx.GetNote(ctx, identity.UserID, noteID); err != nil {
			return err
		}
		if err := tx.CreateTag(ctx, tag); err != nil {
			return err
		}
		return tx.LinkTags(ctx, identity.UserID, noteID, []string{tag.ID})
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (svc *TagsService) DeleteTag(ctx context.Context, identity model.Identity, tagID string) error {
	return svc.Store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		return tx.DeleteTag(ctx, identity.UserID, tagID)
	})
}

// LinkTags attaches every tag in tagIDs to the note. The batch is all or nothing.
func (svc *TagsService) LinkTags(ctx context.Context, identity model.Identity, noteID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return apperr.Validation("tagIds must be a non-empty array")
	}
	ids, err := normalizeIDs(tagIDs)
	if err != nil {
		return err
	}

	return svc.Store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		if _, err := tx.GetNote(ctx, identity.UserID, noteID); err != nil {
			return err
		}
		if err := requireTags(ctx, tx, identity.UserID, ids); err != nil {
			return err
		}
		return tx.LinkTags(ctx, identity.UserID, noteID, ids)
	})
}

// UnlinkTag removes one association. Unlinking a pair that was never linked succeeds.
func (svc *TagsService) UnlinkTag(ctx context.Context, identity model.Identity, noteID, tagID string) error {
	return svc.Store.UnlinkTag(ctx, identity.UserID, noteID, tagID)
}

func (svc *TagsService) TagsForNote(ctx context.Context, identity model.Identity, noteID string) ([]*model.Tag, error) {
	tags, err := svc.Store.TagsForNote(ctx, identity.UserID, noteID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []*model.Tag{}
	}
	return tags, nil
}

// NotesForTag lists the notes carrying tagID, filtered by query on title or content and
// ordered pinned first, then newest first.
func (svc *TagsService) NotesForTag(ctx context.Context, identity model.Identity, tagID, query string) ([]*model.Note, error) {
	notes, err := svc.Store.NotesForTag(ctx, identity.UserID, tagID)
	if err != nil {
		return nil, err
	}

	term := strings.TrimSpace(query)
	filtered := make([]*model.Note, 0, len(notes))
	for _, note := range notes {
		if matchesQuery(note, term) {
			filtered = append(filtered, note)
		}
	}

	SortPinnedFirst(filtered)
	return filtered, nil
}

// SortPinnedFirst orders pinned notes before unpinned ones, newest created_at first
// within each group.
func SortPinnedFirst(notes []*model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].IsPinned != notes[j].IsPinned {
			return notes[i].IsPinned
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
}

package testutils

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"tonotes/apperr"
	"tonotes/model"
	"tonotes/usecase"
)

// MemStore is an in-memory usecase.Store for tests. RunInTx snapshots the data and
// restores it when fn fails; it is not meant for concurrent transactions.
type MemStore struct {
	mu   sync.Mutex
	data *memData

	// FailOn makes the named operation ("CreateNote", "LinkTags", ...) return an error.
	FailOn map[string]error
	// PingErr is returned by Ping.
	PingErr error
	// Commits and Rollbacks count finished units of work.
	Commits   int
	Rollbacks int
}

type memData struct {
	users map[string]*model.User
	notes map[string]*model.Note
	tags  map[string]*model.Tag
	links []model.NoteTag
}

var _ usecase.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		data: &memData{
			users: map[string]*model.User{},
			notes: map[string]*model.Note{},
			tags:  map[string]*model.Tag{},
		},
		FailOn: map[string]error{},
	}
}

func (d *memData) clone() *memData {
	c := &memData{
		users: make(map[string]*model.User, len(d.users)),
		notes: make(map[string]*model.Note, len(d.notes)),
		tags:  make(map[string]*model.Tag, len(d.tags)),
		links: append([]model.NoteTag(nil), d.links...),
	}
	for k, v := range d.users {
		u := *v
		c.users[k] = &u
	}
	for k, v := range d.notes {
		c.notes[k] = copyNote(v)
	}
	for k, v := range d.tags {
		t := *v
		c.tags[k] = &t
	}
	return c
}

func copyNote(n *model.Note) *model.Note {
	c := *n
	if n.Content != nil {
		content := *n.Content
		c.Content = &content
	}
	if n.Color != nil {
		color := *n.Color
		c.Color = &color
	}
	return &c
}

func (s *MemStore) fail(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

func (s *MemStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx usecase.Store) error) error {
	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.Rollbacks++
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Ping(ctx context.Context) error {
	return s.PingErr
}

// Notes

func (s *MemStore) ListNotes(ctx context.Context, userID string, filter model.NoteFilter) ([]*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListNotes"); err != nil {
		return nil, err
	}

	term := strings.ToLower(filter.Query)
	var out []*model.Note
	for _, n := range s.data.notes {
		if n.UserID != userID {
			continue
		}
		if filter.Archived != nil && n.IsArchived != *filter.Archived {
			continue
		}
		if filter.Pinned != nil && n.IsPinned != *filter.Pinned {
			continue
		}
		if filter.Starred != nil && n.IsStarred != *filter.Starred {
			continue
		}
		if term != "" {
			inTitle := strings.Contains(strings.ToLower(n.Title), term)
			inContent := n.Content != nil && strings.Contains(strings.ToLower(*n.Content), term)
			if !inTitle && !inContent {
				continue
			}
		}
		out = append(out, copyNote(n))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemStore) CreateNote(ctx context.Context, note *model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateNote"); err != nil {
		return err
	}
	if _, exists := s.data.notes[note.ID]; exists {
		return apperr.Store(fmt.Errorf("duplicate key value violates unique constraint \"notes_pkey\""))
	}
	s.data.notes[note.ID] = copyNote(note)
	return nil
}

func (s *MemStore) GetNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.data.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, apperr.ErrNoteNotFound
	}
	return copyNote(n), nil
}

func (s *MemStore) UpdateNote(ctx context.Context, userID, noteID string, patch model.NotePatch) (*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateNote"); err != nil {
		return nil, err
	}
	n, ok := s.data.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, apperr.ErrNoteNotFound
	}
	patch.Apply(n)
	n.UpdatedAt = time.Now().UTC()
	return copyNote(n), nil
}

func (s *MemStore) DeleteNote(ctx context.Context, userID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeleteNote"); err != nil {
		return err
	}
	n, ok := s.data.notes[noteID]
	if !ok || n.UserID != userID {
		return nil
	}
	delete(s.data.notes, noteID)
	s.data.links = filterLinks(s.data.links, func(l model.NoteTag) bool { return l.NoteID != noteID })
	return nil
}

func (s *MemStore) CountNotes(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.data.notes {
		if n.UserID == userID {
			count++
		}
	}
	return count, nil
}

// Tags

func (s *MemStore) ListTags(ctx context.Context, userID string) ([]*model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Tag
	for _, t := range s.data.tags {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemStore) CreateTag(ctx context.Context, tag *model.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateTag"); err != nil {
		return err
	}
	c := *tag
	s.data.tags[tag.ID] = &c
	return nil
}

func (s *MemStore) GetTag(ctx context.Context, userID, tagID string) (*model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.tags[tagID]
	if !ok || t.UserID != userID {
		return nil, apperr.ErrTagNotFound
	}
	c := *t
	return &c, nil
}

func (s *MemStore) DeleteTag(ctx context.Context, userID, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.tags[tagID]
	if !ok || t.UserID != userID {
		return nil
	}
	delete(s.data.tags, tagID)
	s.data.links = filterLinks(s.data.links, func(l model.NoteTag) bool { return l.TagID != tagID })
	return nil
}

func (s *MemStore) CountTags(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.data.tags {
		if t.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *MemStore) LinkTags(ctx context.Context, userID, noteID string, tagIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tagID := range tagIDs {
		if err := s.fail("LinkTags"); err != nil {
			return err
		}
		for _, l := range s.data.links {
			if l.NoteID == noteID && l.TagID == tagID {
				return apperr.Store(errors.New(`duplicate key value violates unique constraint "note_tags_pkey"`))
			}
		}
		s.data.links = append(s.data.links, model.NoteTag{
			NoteID:    noteID,
			TagID:     tagID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		})
	}
	return nil
}

func (s *MemStore) UnlinkTag(ctx context.Context, userID, noteID, tagID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.links = filterLinks(s.data.links, func(l model.NoteTag) bool {
		return !(l.UserID == userID && l.NoteID == noteID && l.TagID == tagID)
	})
	return nil
}

func (s *MemStore) TagsForNote(ctx context.Context, userID, noteID string) ([]*model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Tag
	for _, l := range s.data.links {
		if l.NoteID != noteID || l.UserID != userID {
			continue
		}
		if t, ok := s.data.tags[l.TagID]; ok && t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemStore) NotesForTag(ctx context.Context, userID, tagID string) ([]*model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Note
	for _, l := range s.data.links {
		if l.TagID != tagID || l.UserID != userID {
			continue
		}
		if n, ok := s.data.notes[l.NoteID]; ok && n.UserID == userID {
			out = append(out, copyNote(n))
		}
	}
	return out, nil
}

// Users

func (s *MemStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.users {
		if u.Email == user.Email {
			return apperr.ErrUserExists
		}
	}
	c := *user
	s.data.users[user.ID] = &c
	return nil
}

func (s *MemStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperr.ErrUserNotFound
}

func (s *MemStore) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[userID]
	if !ok {
		return nil, apperr.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (s *MemStore) DeleteUserData(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeleteUserData"); err != nil {
		return err
	}
	s.data.links = filterLinks(s.data.links, func(l model.NoteTag) bool { return l.UserID != userID })
	for id, n := range s.data.notes {
		if n.UserID == userID {
			delete(s.data.notes, id)
		}
	}
	for id, t := range s.data.tags {
		if t.UserID == userID {
			delete(s.data.tags, id)
		}
	}
	delete(s.data.users, userID)
	return nil
}

// LinkCount reports how many association rows exist for noteID.
func (s *MemStore) LinkCount(noteID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, l := range s.data.links {
		if l.NoteID == noteID {
			count++
		}
	}
	return count
}

// PutNote seeds a note directly, bypassing validation.
func (s *MemStore) PutNote(note *model.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.notes[note.ID] = copyNote(note)
}

func (s *MemStore) PutTag(tag *model.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *tag
	s.data.tags[tag.ID] = &c
}

func filterLinks(links []model.NoteTag, keep func(model.NoteTag) bool) []model.NoteTag {
	out := links[:0:0]
	for _, l := range links {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tonotes/apperr"
	"tonotes/config"
	"tonotes/model"
	"tonotes/usecase"
	"tonotes/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// SQLStore implements usecase.Store on MySQL through gorm.
type SQLStore struct {
	db   *gorm.DB
	inTx bool
}

var _ usecase.Store = (*SQLStore)(nil)

// ConnectMySQL opens the primary, registers the optional read replica and migrates the schema.
func ConnectMySQL(cfg config.DatabaseConfig) (*SQLStore, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	if cfg.MySQLReplicaDSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Sources:  []gorm.Dialector{mysql.Open(cfg.MySQLDSN)},
			Replicas: []gorm.Dialector{mysql.Open(cfg.MySQLReplicaDSN)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			log.Printf("Read replica not registered: %v", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.AutoMigrate(&model.User{}, &model.Note{}, &model.Tag{}, &model.NoteTag{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Println("Connected to MySQL")
	return NewSQLStore(db), nil
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx usecase.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(ctx, &SQLStore{db: txDB, inTx: true})
	})
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqlErr(err error, notFound *apperr.AppError) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}
	return apperr.Store(err)
}

// likePattern turns a search term into a LIKE pattern matching it as a literal substring.
func likePattern(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(strings.ToLower(term)) + "%"
}

// Notes

func (s *SQLStore) ListNotes(ctx context.Context, userID string, f model.NoteFilter) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", notesCollection)
	defer timer.ObserveDuration()

	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.Archived != nil {
		q = q.Where("is_archived = ?", *f.Archived)
	}
	if f.Pinned != nil {
		q = q.Where("is_pinned = ?", *f.Pinned)
	}
	if f.Starred != nil {
		q = q.Where("is_starred = ?", *f.Starred)
	}
	if f.Query != "" {
		pattern := likePattern(f.Query)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(content) LIKE ? ESCAPE '\\')`, pattern, pattern)
	}

	notes := []*model.Note{}
	if err := q.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, apperr.Store(err)
	}
	return notes, nil
}

func (s *SQLStore) CreateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", notesCollection)
	defer timer.ObserveDuration()

	return sqlErr(s.db.WithContext(ctx).Create(note).Error, nil)
}

func (s *SQLStore) GetNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	var note model.Note
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error
	if err != nil {
		return nil, sqlErr(err, apperr.ErrNoteNotFound)
	}
	return &note, nil
}

func (s *SQLStore) UpdateNote(ctx context.Context, userID, noteID string, patch model.NotePatch) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", notesCollection)
	defer timer.ObserveDuration()

	// MySQL reports unchanged rows as unaffected, so existence is checked up front.
	if _, err := s.GetNote(ctx, userID, noteID); err != nil {
		return nil, err
	}

	fields := patchFields(patch)
	fields["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	err := s.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ? AND user_id = ?", noteID, userID).
		Updates(fields).Error
	if err != nil {
		return nil, apperr.Store(err)
	}
	return s.GetNote(ctx, userID, noteID)
}

func (s *SQLStore) DeleteNote(ctx context.Context, userID, noteID string) error {
	timer := utils.TrackDBOperation("delete", notesCollection)
	defer timer.ObserveDuration()

	db := s.db.WithContext(ctx)
	if err := db.Where("note_id = ? AND user_id = ?", noteID, userID).Delete(&model.NoteTag{}).Error; err != nil {
		return apperr.Store(err)
	}
	if err := db.Where("id = ? AND user_id = ?", noteID, userID).Delete(&model.Note{}).Error; err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (s *SQLStore) CountNotes(ctx context.Context, userID string) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Note{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, apperr.Store(err)
	}
	return int(count), nil
}

// Tags

func (s *SQLStore) ListTags(ctx context.Context, userID string) ([]*model.Tag, error) {
	timer := utils.TrackDBOperation("find", tagsCollection)
	defer timer.ObserveDuration()

	tags := []*model.Tag{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, apperr.Store(err)
	}
	return tags, nil
}

func (s *SQLStore) CreateTag(ctx context.Context, tag *model.Tag) error {
	timer := utils.TrackDBOperation("insert", tagsCollection)
	defer timer.ObserveDuration()

	return sqlErr(s.db.WithContext(ctx).Create(tag).Error, nil)
}

func (s *SQLStore) GetTag(ctx context.Context, userID, tagID string) (*model.Tag, error) {
	var tag model.Tag
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", tagID, userID).First(&tag).Error
	if err != nil {
		return nil, sqlErr(err, apperr.ErrTagNotFound)
	}
	return &tag, nil
}

func (s *SQLStore) DeleteTag(ctx context.Context, userID, tagID string) error {
	timer := utils.TrackDBOperation("delete", tagsCollection)
	defer timer.ObserveDuration()

	db := s.db.WithContext(ctx)
	if err := db.Where("tag_id = ? AND user_id = ?", tagID, userID).Delete(&model.NoteTag{}).Error; err != nil {
		return apperr.Store(err)
	}
	if err := db.Where("id = ? AND user_id = ?", tagID, userID).Delete(&model.Tag{}).Error; err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (s *SQLStore) CountTags(ctx context.Context, userID string) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Tag{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, apperr.Store(err)
	}
	return int(count), nil
}

func (s *SQLStore) LinkTags(ctx context.Context, userID, noteID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	timer := utils.TrackDBOperation("insert", noteTagsCollection)
	defer timer.ObserveDuration()

	now := time.Now().UTC().Truncate(time.Millisecond)
	links := make([]model.NoteTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, model.NoteTag{NoteID: noteID, TagID: tagID, UserID: userID, CreatedAt: now})
	}
	return sqlErr(s.db.WithContext(ctx).Create(&links).Error, nil)
}

func (s *SQLStore) UnlinkTag(ctx context.Context, userID, noteID, tagID string) error {
	err := s.db.WithContext(ctx).
		Where("note_id = ? AND tag_id = ? AND user_id = ?", noteID, tagID, userID).
		Delete(&model.NoteTag{}).Error
	return sqlErr(err, nil)
}

func (s *SQLStore) TagsForNote(ctx context.Context, userID, noteID string) ([]*model.Tag, error) {
	tags := []*model.Tag{}
	err := s.db.WithContext(ctx).
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Where("note_tags.note_id = ? AND note_tags.user_id = ? AND tags.user_id = ?", noteID, userID, userID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, apperr.Store(err)
	}
	return tags, nil
}

func (s *SQLStore) NotesForTag(ctx context.Context, userID, tagID string) ([]*model.Note, error) {
	notes := []*model.Note{}
	err := s.db.WithContext(ctx).
		Joins("JOIN note_tags ON note_tags.note_id = notes.id").
		Where("note_tags.tag_id = ? AND note_tags.user_id = ? AND notes.user_id = ?", tagID, userID, userID).
		Find(&notes).Error
	if err != nil {
		return nil, apperr.Store(err)
	}
	return notes, nil
}

// Users

func (s *SQLStore) CreateUser(ctx context.Context, user *model.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrUserExists
	}
	return sqlErr(err, nil)
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, sqlErr(err, apperr.ErrUserNotFound)
	}
	return &user, nil
}

func (s *SQLStore) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, sqlErr(err, apperr.ErrUserNotFound)
	}
	return &user, nil
}

func (s *SQLStore) DeleteUserData(ctx context.Context, userID string) error {
	db := s.db.WithContext(ctx)
	for _, table := range []interface{}{&model.NoteTag{}, &model.Note{}, &model.Tag{}} {
		if err := db.Where("user_id = ?", userID).Delete(table).Error; err != nil {
			return apperr.Store(err)
		}
	}
	if err := db.Where("id = ?", userID).Delete(&model.User{}).Error; err != nil {
		return apperr.Store(err)
	}
	return nil
}

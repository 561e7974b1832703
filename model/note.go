package model

import (
	"time"
)

type Note struct {
	ID         string    `bson:"_id" json:"id" gorm:"primaryKey;type:char(36)"`
	UserID     string    `bson:"user_id" json:"user_id" gorm:"type:char(36);not null;index:idx_notes_user_created,priority:1"`
	Title      string    `bson:"title" json:"title" gorm:"type:varchar(500);not null"`
	Content    *string   `bson:"content" json:"content" gorm:"type:text"`
	IsArchived bool      `bson:"is_archived" json:"is_archived" gorm:"not null;default:false"`
	IsPinned   bool      `bson:"is_pinned" json:"is_pinned" gorm:"not null;default:false"`
	IsStarred  bool      `bson:"is_starred" json:"is_starred" gorm:"not null;default:false"`
	Color      *string   `bson:"color" json:"color" gorm:"type:varchar(64)"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at" gorm:"not null;index:idx_notes_user_created,priority:2"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at" gorm:"not null"`
}

func (Note) TableName() string {
	return "notes"
}

// NoteFilter narrows a note listing. Nil flags are not applied.
type NoteFilter struct {
	Query    string
	Archived *bool
	Pinned   *bool
	Starred  *bool
}

// NotePatch carries a partial update; fields with Set == false are left alone.
type NotePatch struct {
	Title      Optional[string]
	Content    Optional[*string]
	IsArchived Optional[bool]
	IsPinned   Optional[bool]
	IsStarred  Optional[bool]
	Color      Optional[*string]
}

func (p NotePatch) IsEmpty() bool {
	return !p.Title.Set && !p.Content.Set && !p.IsArchived.Set &&
		!p.IsPinned.Set && !p.IsStarred.Set && !p.Color.Set
}

// Apply copies the set fields onto note.
func (p NotePatch) Apply(note *Note) {
	if p.Title.Set {
		note.Title = p.Title.Value
	}
	if p.Content.Set {
		note.Content = p.Content.Value
	}
	if p.IsArchived.Set {
		note.IsArchived = p.IsArchived.Value
	}
	if p.IsPinned.Set {
		note.IsPinned = p.IsPinned.Value
	}
	if p.IsStarred.Set {
		note.IsStarred = p.IsStarred.Value
	}
	if p.Color.Set {
		note.Color = p.Color.Value
	}
}

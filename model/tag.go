package model

import "time"

type Tag struct {
	ID        string    `bson:"_id" json:"id" gorm:"primaryKey;type:char(36)"`
	UserID    string    `bson:"user_id" json:"user_id" gorm:"type:char(36);not null;index"`
	Name      string    `bson:"name" json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `bson:"created_at" json:"created_at" gorm:"not null"`
}

func (Tag) TableName() string {
	return "tags"
}

// NoteTag links one note to one tag.
type NoteTag struct {
	NoteID    string    `bson:"note_id" json:"note_id" gorm:"primaryKey;type:char(36)"`
	TagID     string    `bson:"tag_id" json:"tag_id" gorm:"primaryKey;type:char(36);index"`
	UserID    string    `bson:"user_id" json:"-" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `bson:"created_at" json:"created_at" gorm:"not null"`
}

func (NoteTag) TableName() string {
	return "note_tags"
}

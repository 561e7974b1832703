package model

import "time"

type User struct {
	ID           string    `bson:"_id" json:"id" gorm:"primaryKey;type:char(36)"`
	Email        string    `bson:"email" json:"email" gorm:"type:varchar(320);uniqueIndex;not null"`
	PasswordHash string    `bson:"password_hash" json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at" gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}

// Identity is the caller resolved from a bearer token. Every data access takes one explicitly.
type Identity struct {
	UserID      string
	Email       string
	SessionID   string
	AccessToken string
}

// DataSummary counts what an account deletion would remove.
type DataSummary struct {
	Notes      int `json:"notes"`
	Tags       int `json:"tags"`
	TotalItems int `json:"totalItems"`
}

package model

import (
	"time"
)

// Translation is one user's rendering of a single verse into one language.
// At most one translation per (translator, verse_key) pair.
type Translation struct {
	ID           string    `db:"id" json:"id"`
	TranslatorID string    `db:"translator_id" json:"translatorId"`
	VerseKey     string    `db:"verse_key" json:"verse_key"`
	Language     string    `db:"language" json:"language"`
	Content      string    `db:"content" json:"content"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

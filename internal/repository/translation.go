package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openquran/versehub/internal/model"
)

var (
	ErrTranslationNotFound  = errors.New("translation not found")
	ErrDuplicateTranslation = errors.New("translation already exists for this verse")
)

type TranslationRepository interface {
	Create(translation *model.Translation) error
	ByID(id string) (*model.Translation, error)
	ByVerse(verseKey string) ([]model.Translation, error)
	ByTranslatorAndVerse(translatorID, verseKey string) ([]model.Translation, error)
	Update(translation *model.Translation) error
	Delete(id string) error
}

type translationRepository struct {
	db *sqlx.DB
}

func NewTranslationRepository(db *sqlx.DB) TranslationRepository {
	return &translationRepository{db: db}
}

func (r *translationRepository) Create(translation *model.Translation) error {
	query := `
		INSERT INTO translations (id, translator_id, verse_key, language, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		translation.ID,
		translation.TranslatorID,
		translation.VerseKey,
		translation.Language,
		translation.Content,
		translation.CreatedAt,
		translation.UpdatedAt,
	)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateTranslation
		}
		return err
	}
	return nil
}

func (r *translationRepository) ByID(id string) (*model.Translation, error) {
	translation := &model.Translation{}
	query := `SELECT * FROM translations WHERE id = $1`

	err := r.db.Get(translation, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrTranslationNotFound
	}
	return translation, err
}

func (r *translationRepository) ByVerse(verseKey string) ([]model.Translation, error) {
	translations := []model.Translation{}
	query := `SELECT * FROM translations WHERE verse_key = $1 ORDER BY created_at`

	err := r.db.Select(&translations, query, verseKey)
	return translations, err
}

func (r *translationRepository) ByTranslatorAndVerse(translatorID, verseKey string) ([]model.Translation, error) {
	translations := []model.Translation{}
	query := `SELECT * FROM translations WHERE translator_id = $1 AND verse_key = $2 ORDER BY created_at`

	err := r.db.Select(&translations, query, translatorID, verseKey)
	return translations, err
}

func (r *translationRepository) Update(translation *model.Translation) error {
	translation.UpdatedAt = time.Now()

	query := `
		UPDATE translations
		SET verse_key = $1, language = $2, content = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.Exec(query,
		translation.VerseKey,
		translation.Language,
		translation.Content,
		translation.UpdatedAt,
		translation.ID,
	)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateTranslation
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTranslationNotFound
	}
	return nil
}

func (r *translationRepository) Delete(id string) error {
	query := `DELETE FROM translations WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTranslationNotFound
	}
	return nil
}

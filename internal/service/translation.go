package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openquran/versehub/internal/model"
	"github.com/openquran/versehub/internal/repository"
)

var (
	ErrForbidden            = errors.New("you can only manage your own translations")
	ErrDuplicateTranslation = errors.New("translation already exists for this verse")
	ErrTranslationNotFound  = errors.New("translation not found")
)

type TranslationService struct {
	translationRepository repository.TranslationRepository
}

func NewTranslationService(translationRepository repository.TranslationRepository) *TranslationService {
	return &TranslationService{translationRepository: translationRepository}
}

// Add creates actorID's translation of a verse. The declared translatorID
// must match the acting identity; ownership is never shared.
func (s *TranslationService) Add(actorID, translatorID, verseKey, language, content string) (*model.Translation, error) {
	if actorID != translatorID {
		return nil, ErrForbidden
	}

	verseKey = strings.TrimSpace(verseKey)
	language = strings.TrimSpace(language)
	content = strings.TrimSpace(content)
	if verseKey == "" || language == "" || content == "" {
		return nil, fmt.Errorf("verse_key, language and content are required: %w", ErrInvalidInput)
	}

	now := time.Now()
	translation := &model.Translation{
		ID:           uuid.New().String(),
		TranslatorID: actorID,
		VerseKey:     verseKey,
		Language:     language,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.translationRepository.Create(translation)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTranslation) {
			return nil, ErrDuplicateTranslation
		}
		return nil, fmt.Errorf("failed to create translation: %w", err)
	}

	slog.Info("translation added", "translation_id", translation.ID, "translator_id", actorID, "verse_key", verseKey)
	return translation, nil
}

// Edit updates an existing translation. Ownership is checked against the
// declared translatorID and against the stored row's owner.
func (s *TranslationService) Edit(actorID, translatorID, translationID, verseKey, language, content string) (*model.Translation, error) {
	if actorID != translatorID {
		return nil, ErrForbidden
	}

	verseKey = strings.TrimSpace(verseKey)
	language = strings.TrimSpace(language)
	content = strings.TrimSpace(content)
	if translationID == "" || verseKey == "" || language == "" || content == "" {
		return nil, fmt.Errorf("translationId, verse_key, language and content are required: %w", ErrInvalidInput)
	}

	translation, err := s.translationRepository.ByID(translationID)
	if err != nil {
		if errors.Is(err, repository.ErrTranslationNotFound) {
			return nil, ErrTranslationNotFound
		}
		return nil, fmt.Errorf("failed to get translation: %w", err)
	}

	if translation.TranslatorID != actorID {
		return nil, ErrForbidden
	}

	translation.VerseKey = verseKey
	translation.Language = language
	translation.Content = content

	err = s.translationRepository.Update(translation)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTranslation) {
			return nil, ErrDuplicateTranslation
		}
		return nil, fmt.Errorf("failed to update translation: %w", err)
	}

	slog.Info("translation edited", "translation_id", translation.ID, "translator_id", actorID)
	return translation, nil
}

// Delete removes actorID's translation.
func (s *TranslationService) Delete(actorID, translatorID, translationID string) error {
	if actorID != translatorID {
		return ErrForbidden
	}
	if translationID == "" {
		return fmt.Errorf("translationId is required: %w", ErrInvalidInput)
	}

	translation, err := s.translationRepository.ByID(translationID)
	if err != nil {
		if errors.Is(err, repository.ErrTranslationNotFound) {
			return ErrTranslationNotFound
		}
		return fmt.Errorf("failed to get translation: %w", err)
	}

	if translation.TranslatorID != actorID {
		return ErrForbidden
	}

	err = s.translationRepository.Delete(translation.ID)
	if err != nil {
		return fmt.Errorf("failed to delete translation: %w", err)
	}

	slog.Info("translation deleted", "translation_id", translationID, "translator_id", actorID)
	return nil
}

// Get lists translations of a verse, optionally filtered down to a single
// translator. Public, no auth required.
func (s *TranslationService) Get(translatorID, verseKey string) ([]model.Translation, error) {
	verseKey = strings.TrimSpace(verseKey)
	if verseKey == "" {
		return nil, fmt.Errorf("verse_key is required: %w", ErrInvalidInput)
	}

	if translatorID != "" {
		return s.translationRepository.ByTranslatorAndVerse(translatorID, verseKey)
	}
	return s.translationRepository.ByVerse(verseKey)
}

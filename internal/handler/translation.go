package handler

import (
	"net/http"

	"github.com/openquran/versehub/internal/ctxkeys"
	"github.com/openquran/versehub/internal/service"
)

type translationHandler struct {
	translationService *service.TranslationService
}

func NewTranslationHandler(translationService *service.TranslationService) *translationHandler {
	return &translationHandler{translationService: translationService}
}

// Get lists a verse's translations. Public; translatorId narrows the result
// to one contributor.
func (h *translationHandler) Get(w http.ResponseWriter, r *http.Request) {
	translatorID := r.URL.Query().Get("translatorId")
	verseKey := r.URL.Query().Get("verse_key")

	translations, err := h.translationService.Get(translatorID, verseKey)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respond(w, http.StatusOK, translations, "Translations fetched successfully")
}

func (h *translationHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TranslatorID string `json:"translatorId"`
		VerseKey     string `json:"verse_key"`
		Language     string `json:"language"`
		Content      string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := ctxkeys.User(r.Context())
	translation, err := h.translationService.Add(user.ID, req.TranslatorID, req.VerseKey, req.Language, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respond(w, http.StatusCreated, translation, "Translation added successfully")
}

func (h *translationHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TranslatorID  string `json:"translatorId"`
		TranslationID string `json:"translationId"`
		VerseKey      string `json:"verse_key"`
		Language      string `json:"language"`
		Content       string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := ctxkeys.User(r.Context())
	translation, err := h.translationService.Edit(user.ID, req.TranslatorID, req.TranslationID, req.VerseKey, req.Language, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respond(w, http.StatusOK, translation, "Translation updated successfully")
}

func (h *translationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TranslatorID  string `json:"translatorId"`
		TranslationID string `json:"translationId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := ctxkeys.User(r.Context())
	err := h.translationService.Delete(user.ID, req.TranslatorID, req.TranslationID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respond(w, http.StatusOK, nil, "Translation deleted successfully")
}

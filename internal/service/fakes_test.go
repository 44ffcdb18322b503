package service

import (
	"errors"
	"sync"

	"github.com/openquran/versehub/internal/model"
	"github.com/openquran/versehub/internal/repository"
)

// fakeUserRepo is an in-memory repository.UserRepository with the same
// uniqueness semantics as the real one.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if u.FullName == user.FullName {
			return repository.ErrDuplicateName
		}
	}

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) ByID(id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) ByEmail(email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) ByFullName(fullName string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.FullName == fullName {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) Update(user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) SetRefreshToken(id string, token *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.RefreshToken = token
	return nil
}

// mutate edits a stored user in place, for tests that need to push a row into
// a specific state (e.g. an already-passed reset expiry).
func (f *fakeUserRepo) mutate(id string, fn func(*model.User)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if ok {
		fn(u)
	}
	return ok
}

// fakeEmailSender records outbound tokens instead of sending mail.
type fakeEmailSender struct {
	mu           sync.Mutex
	verifyTokens []string
	resetTokens  []string
	fail         bool
}

func (f *fakeEmailSender) SendVerificationEmail(email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("smtp down")
	}
	f.verifyTokens = append(f.verifyTokens, token)
	return nil
}

func (f *fakeEmailSender) SendPasswordResetEmail(email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("smtp down")
	}
	f.resetTokens = append(f.resetTokens, token)
	return nil
}

func (f *fakeEmailSender) lastVerifyToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.verifyTokens) == 0 {
		return ""
	}
	return f.verifyTokens[len(f.verifyTokens)-1]
}

func (f *fakeEmailSender) lastResetToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.resetTokens) == 0 {
		return ""
	}
	return f.resetTokens[len(f.resetTokens)-1]
}

// fakeTranslationRepo is an in-memory repository.TranslationRepository.
type fakeTranslationRepo struct {
	mu           sync.Mutex
	translations map[string]*model.Translation
}

func newFakeTranslationRepo() *fakeTranslationRepo {
	return &fakeTranslationRepo{translations: make(map[string]*model.Translation)}
}

func (f *fakeTranslationRepo) Create(translation *model.Translation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.translations {
		if t.TranslatorID == translation.TranslatorID && t.VerseKey == translation.VerseKey {
			return repository.ErrDuplicateTranslation
		}
	}
	clone := *translation
	f.translations[translation.ID] = &clone
	return nil
}

func (f *fakeTranslationRepo) ByID(id string) (*model.Translation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.translations[id]
	if !ok {
		return nil, repository.ErrTranslationNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTranslationRepo) ByVerse(verseKey string) ([]model.Translation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []model.Translation{}
	for _, t := range f.translations {
		if t.VerseKey == verseKey {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTranslationRepo) ByTranslatorAndVerse(translatorID, verseKey string) ([]model.Translation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []model.Translation{}
	for _, t := range f.translations {
		if t.TranslatorID == translatorID && t.VerseKey == verseKey {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTranslationRepo) Update(translation *model.Translation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.translations[translation.ID]; !ok {
		return repository.ErrTranslationNotFound
	}
	for _, t := range f.translations {
		if t.ID != translation.ID && t.TranslatorID == translation.TranslatorID && t.VerseKey == translation.VerseKey {
			return repository.ErrDuplicateTranslation
		}
	}
	clone := *translation
	f.translations[translation.ID] = &clone
	return nil
}

func (f *fakeTranslationRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.translations[id]; !ok {
		return repository.ErrTranslationNotFound
	}
	delete(f.translations, id)
	return nil
}

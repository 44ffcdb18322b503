package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/openquran/versehub/internal/ctxkeys"
	"github.com/openquran/versehub/internal/model"
	"github.com/openquran/versehub/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

// userResponse is the client-facing user projection. Password and token
// columns never appear here.
type userResponse struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type sessionResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, pair, err := h.authService.Register(req.FullName, req.Email, req.Password)
	if err != nil {
		// The account is committed before the mail goes out; a delivery
		// failure is reported without rolling the registration back.
		respondServiceError(w, err)
		return
	}

	h.authService.SetAuthCookies(w, pair)
	respond(w, http.StatusCreated, sessionResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User registered successfully")
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.authService.SetAuthCookies(w, pair)
	respond(w, http.StatusOK, sessionResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.authService.Logout(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.authService.ClearAuthCookies(w)
	respond(w, http.StatusOK, nil, "User logged out successfully")
}

func (h *authHandler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	incoming := ""
	cookie, err := r.Cookie("refreshToken")
	if err == nil {
		incoming = cookie.Value
	}
	if incoming == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		// Body is optional when the cookie is present, so decode errors
		// only matter if we end up with no token at all.
		_ = decodeJSON(r, &req)
		incoming = req.RefreshToken
	}

	pair, err := h.authService.Refresh(incoming)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.authService.SetAuthCookies(w, pair)
	respond(w, http.StatusOK, pair, "Access token refreshed")
}

func (h *authHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		respondError(w, http.StatusBadRequest, "Verification token is required")
		return
	}

	err := h.authService.VerifyEmail(tokenString)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respond(w, http.StatusOK, nil, "Email verified successfully")
}

func (h *authHandler) SendResetPasswordLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	err := h.authService.RequestPasswordReset(req.Email)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respond(w, http.StatusOK, nil, "Password reset link sent to your email")
}

func (h *authHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResetToken  string `json:"resetToken"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.authService.CompletePasswordReset(req.ResetToken, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(w, err)
		return
	}

	respond(w, http.StatusOK, nil, "Password reset successfully")
}

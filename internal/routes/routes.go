package routes

import (
	"net/http"

	"github.com/openquran/versehub/internal/app"
	"github.com/openquran/versehub/internal/handler"
	"github.com/openquran/versehub/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	auth := handler.NewAuthHandler(app.AuthService)
	translation := handler.NewTranslationHandler(app.TranslationService)

	requireAuth := middleware.Authenticate(app.AuthService, app.UserRepository)
	rateLimiter := middleware.RateLimitAuth()

	mux := http.NewServeMux()

	// Users
	mux.HandleFunc("POST /users/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /users/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /users/logout", requireAuth(auth.Logout))
	mux.HandleFunc("POST /users/refresh-access-token", auth.RefreshAccessToken)
	mux.HandleFunc("GET /users/verify-email", auth.VerifyEmail)
	mux.HandleFunc("POST /users/reset-password-link", rateLimiter(auth.SendResetPasswordLink))
	mux.HandleFunc("POST /users/reset-password", rateLimiter(auth.ResetPassword))

	// Translations
	mux.HandleFunc("GET /translations/get-translation", translation.Get)
	mux.HandleFunc("POST /translations/add-translation", requireAuth(translation.Add))
	mux.HandleFunc("POST /translations/edit-translation", requireAuth(translation.Edit))
	mux.HandleFunc("POST /translations/delete-translation", requireAuth(translation.Delete))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.CORS(app.Cfg.CORSOrigin),
		middleware.RequestLogging,
	)
}

package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/openquran/versehub/internal/config"
	"github.com/openquran/versehub/internal/db"
	"github.com/openquran/versehub/internal/repository"
	"github.com/openquran/versehub/internal/service"
	"github.com/openquran/versehub/internal/token"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	UserRepository     repository.UserRepository
	AuthService        *service.AuthService
	TranslationService *service.TranslationService
	EmailService       *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	translationRepository := repository.NewTranslationRepository(database)

	// Services
	tokenService := token.NewService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.EmailVerifyTokenSecret,
		cfg.PasswordResetTokenSecret,
	)
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.FrontendURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		tokenService,
		emailService,
		cfg.IsProduction(),
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
		cfg.EmailVerifyTokenExpiry,
		cfg.PasswordResetTokenExpiry,
	)
	translationService := service.NewTranslationService(translationRepository)

	return &App{
		Cfg:                cfg,
		DB:                 database,
		UserRepository:     userRepository,
		AuthService:        authService,
		TranslationService: translationService,
		EmailService:       emailService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

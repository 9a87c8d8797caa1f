package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Сколько ждать завершения активных запросов при остановке
const shutdownTimeout = 10 * time.Second

type app struct {
	logger         *zap.Logger
	cfg            *config.Config
	templates      map[string]*template.Template
	Database       *database.Database
	UserService    *database.UserService
	SessionService *database.SessionService
	PostService    *database.PostService
	GroupService   *database.GroupService
	loginLimiter   *rateLimiter

	// onRender, если задан, получает имя и данные каждой выводимой страницы
	onRender func(page string, data *HTMLData)
}

func newApp(cfg *config.Config, db *database.Database, logger *zap.Logger) (*app, error) {
	templates, err := newTemplateCache(cfg.HTMLDir)
	if err != nil {
		return nil, err
	}

	return &app{
		logger:         logger,
		cfg:            cfg,
		templates:      templates,
		Database:       db,
		UserService:    database.NewUserService(db, cfg.PasswordCost),
		SessionService: database.NewSessionService(db, cfg.Session.Duration),
		PostService:    database.NewPostService(db),
		GroupService:   database.NewGroupService(db),
		loginLimiter:   newRateLimiter(cfg.Login.RatePerMinute, cfg.Login.Burst),
	}, nil
}

// RunApp поднимает базу и HTTP-сервер и работает до отмены ctx
func RunApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := database.NewDatabase(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	logger.Info("Database connected",
		zap.String("driver", cfg.Database.Driver),
		zap.String("dsn", cfg.Database.DSN))

	app, err := newApp(cfg, db, logger)
	if err != nil {
		return fmt.Errorf("ошибка загрузки шаблонов: %w", err)
	}

	srv := &http.Server{
		Addr:     cfg.Addr,
		ErrorLog: zap.NewStdLog(logger),
		Handler:  app.routes(),

		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		app.runCleanup(gctx, cfg.Session.CleanupInterval)
		return nil
	})

	return g.Wait()
}

// runCleanup периодически удаляет истекшие сессии и забытые лимиты входа
func (app *app) runCleanup(ctx context.Context, interval time.Duration) {
	app.cleanup(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.cleanup(ctx)
		}
	}
}

func (app *app) cleanup(ctx context.Context) {
	removed, err := app.SessionService.CleanupExpiredSessions(ctx)
	if err != nil {
		if ctx.Err() == nil {
			app.logger.Warn("Failed to cleanup expired sessions", zap.Error(err))
		}
	} else if removed > 0 {
		app.logger.Info("Expired sessions removed", zap.Int64("count", removed))
	}

	app.loginLimiter.cleanup(visitorIdleTimeout)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todoTracker/internal/config"
	"todoTracker/internal/database"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"
	"todoTracker/internal/repository/uow"
	"todoTracker/internal/seed"
	"todoTracker/internal/service"
	"todoTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	db        *database.DB
	service   *service.TaskService
	worker    *worker.ExpiryReporter
	shutdowns []func() // функции для graceful shutdown, вызываются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if a.config.Repository.Type == config.RepositoryPostgres && a.config.Database.AutoMigrate {
		if err := database.MigrateUp(a.config.Database.URL); err != nil {
			return nil, fmt.Errorf("миграции: %w", err)
		}
	}

	db, err := database.Open(ctx, a.config)
	if err != nil {
		return nil, fmt.Errorf("подключение к хранилищу: %w", err)
	}
	a.db = db
	a.shutdowns = append(a.shutdowns, db.Close)

	factory := uow.NewFactory(db.Gorm)

	if a.config.Database.Seed {
		added, err := seed.Apply(ctx, factory.New())
		if err != nil {
			return nil, fmt.Errorf("сиды: %w", err)
		}
		logger.Info("Сиды применены", zap.Int("added", added))
	}

	a.service = service.NewTaskService(service.FromFactory(factory))

	if a.config.Worker.Enabled {
		interval := a.config.Worker.Interval
		a.worker = worker.NewExpiryReporter(a.service, &interval)
	}

	a.router = a.buildRouter(handlers.NewTaskHandler(a.service, db))
	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(a.router, "todo-tracker"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) buildRouter(h *handlers.TaskHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	if a.config.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(a.config.Server.RequestTimeout))
	}
	r.Use(middleware.RateLimit(a.config.Server.RateLimit))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders:   []string{middleware.RequestIdHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Route("/api/tasks", h.Routes)

	return r
}

func (a *App) Router() http.Handler {
	return a.router
}

// Run блокируется до отмены ctx или ошибки сервера
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			a.worker.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"taskKeeper/internal/auth"
	"taskKeeper/internal/config"
	"taskKeeper/internal/handlers"
	"taskKeeper/internal/logger"
	"taskKeeper/internal/middleware"
	repoPostgres "taskKeeper/internal/repository/postgres"
	taskInmemory "taskKeeper/internal/repository/task/inmemory"
	taskPostgres "taskKeeper/internal/repository/task/postgres"
	userInmemory "taskKeeper/internal/repository/user/inmemory"
	userPostgres "taskKeeper/internal/repository/user/postgres"
	"taskKeeper/internal/service"
	"taskKeeper/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	worker    *worker.OverdueWorker
	shutdowns []func() // функции для graceful shutdown
	stopOnce  sync.Once
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {

	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	var userRepo service.UserRepository
	var taskRepo service.TaskRepository

	switch a.config.Repository.Type {
	case "postgres":
		pool, err := repoPostgres.NewPool(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к БД: %w", err)
		}

		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие соединений PostgreSQL...")
			pool.Close()
		})

		if err := repoPostgres.Migrate(ctx, pool, "internal/migrations"); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}

		userRepo = userPostgres.New(pool)
		taskRepo = taskPostgres.New(pool)
	default:
		// inmemory - для локальной разработки и тестов
		userRepo = userInmemory.NewUserStorage()
		taskRepo = taskInmemory.NewTaskStorage()
	}

	tokens, err := auth.NewManager(
		a.config.Auth.AccessSecret,
		a.config.Auth.RefreshSecret,
		a.config.Auth.AccessTTL.Std(),
		a.config.Auth.RefreshTTL.Std(),
	)
	if err != nil {
		return fmt.Errorf("настройка менеджера токенов: %w", err)
	}

	authService := service.NewAuthService(userRepo, tokens)
	taskService := service.NewTaskService(taskRepo, a.config.Tasks)

	authHandler := handlers.NewAuthHandler(&authService)
	taskHandler := handlers.NewTaskHandler(&taskService)

	router := a.buildRouter(&authService, &authHandler, &taskHandler)

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: router,
	}

	if a.config.Worker.Enabled {
		a.worker = worker.NewOverdueWorker(&taskService, a.config.Worker.Interval.Std(), a.config.Worker.BatchSize)
	}

	return nil
}

func (a *App) buildRouter(verifier middleware.TokenVerifier, authHandler *handlers.AuthHandler, taskHandler *handlers.TaskHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(100))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register) // POST /auth/register
		r.Post("/login", authHandler.Login)       // POST /auth/login
		r.Post("/refresh", authHandler.Refresh)   // POST /auth/refresh

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier))
			r.Post("/logout", authHandler.Logout) // POST /auth/logout
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(middleware.Auth(verifier))

		r.Get("/", taskHandler.ListTasks)   // GET /tasks
		r.Post("/", taskHandler.CreateTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", taskHandler.UpdateTask)           // PUT /tasks/{id}
			r.Patch("/status", taskHandler.CompleteTask) // PATCH /tasks/{id}/status
			r.Delete("/", taskHandler.DeleteTask)        // DELETE /tasks/{id}
		})
	})

	r.Get("/health", taskHandler.HealthCheck)

	return r
}

func (a *App) Run(ctx context.Context) error {
	workerCtx, cancelWorker := context.WithCancel(ctx)
	a.shutdowns = append(a.shutdowns, cancelWorker)

	if a.worker != nil {
		go a.worker.Start(workerCtx)
	}

	logger.Info("Сервер запущен на " + a.server.Addr)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("запуск сервера: %w", err)
	}
	return nil
}

func (a *App) Shutdown() {
	a.stopOnce.Do(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if a.server != nil {
			if err := a.server.Shutdown(shutdownCtx); err != nil {
				logger.Error("Ошибка остановки сервера", err)
			}
		}

		// в обратном порядке: сначала то, что создавалось последним
		for i := len(a.shutdowns) - 1; i >= 0; i-- {
			a.shutdowns[i]()
		}
	})
}

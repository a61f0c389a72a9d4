package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"todoService/internal/config"
	"todoService/internal/handlers"
	"todoService/internal/logger"
	"todoService/internal/middleware"
	"todoService/internal/migrations"
	"todoService/internal/repository/inmemory"
	"todoService/internal/repository/inter"
	"todoService/internal/repository/postgres"
	"todoService/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// App держит весь жизненный цикл: Init -> Run -> Shutdown,
// без глобального состояния кроме логгера
type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	shutdowns []func()
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

	todoRepo, videoRepo, err := a.initRepositories(ctx)
	if err != nil {
		return err
	}

	todoService := service.NewTodoService(todoRepo)
	videoService := service.NewVideoService(videoRepo)

	todoHandler := handlers.NewTodoHandler(&todoService)
	videoHandler := handlers.NewVideoHandler(&videoService)

	a.router = a.buildRouter(&todoHandler, &videoHandler)

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

func (a *App) initRepositories(ctx context.Context) (inter.TodoRepository, inter.VideoRepository, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("подключение к хранилищу: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)

		// схема накатывается до начала приёма трафика
		if err := migrations.Run(a.config.Database.URL); err != nil {
			return nil, nil, fmt.Errorf("миграции: %w", err)
		}

		return postgres.NewTodoRepo(storage), postgres.NewVideoRepo(storage), nil

	case "inmemory":
		return inmemory.NewTodoStorage(), inmemory.NewVideoStorage(), nil

	default:
		return nil, nil, fmt.Errorf("неизвестный тип репозитория: %q", a.config.Repository.Type)
	}
}

func (a *App) buildRouter(todoHandler *handlers.TodoHandler, videoHandler *handlers.VideoHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/", todoHandler.ListTodos)
		r.Post("/", todoHandler.PostTodo)
		r.Get("/overdue", todoHandler.GetOverdueTodos)
		r.Get("/priority/{level}", todoHandler.GetTodosByPriority)
		r.Delete("/bulk/completed", todoHandler.DeleteCompletedTodos)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", todoHandler.GetTodoByID)
			r.Put("/", todoHandler.UpdateTodoByID)
			r.Patch("/toggle", todoHandler.ToggleTodo)
			r.Delete("/", todoHandler.DeleteTodoByID)
		})
	})

	r.Route("/api/videos", func(r chi.Router) {
		r.Post("/", videoHandler.UploadVideo)
		r.Get("/", videoHandler.ListVideos)
		r.Get("/{id}", videoHandler.GetVideoByID)
	})

	r.Get("/health", todoHandler.HealthCheck)

	return r
}

func (a *App) Run() error {
	logger.Info("Сервер запущен: " + a.server.Addr)

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("запуск сервера: %w", err)
	}
	return nil
}

func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			logger.Error("Ошибка остановки сервера", err)
		}
	}

	// в обратном порядке: сначала то, что создали последним
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

func (a *App) WaitForShutdown(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Получен сигнал завершения, останавливаемся...")
	a.Shutdown()
}

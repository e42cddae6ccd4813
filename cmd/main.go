package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	attachCalendarEventHandler "github.com/oryxestates/viewing-service/internal/api/handlers/attach_calendar_event"
	bookViewingHandler "github.com/oryxestates/viewing-service/internal/api/handlers/book_viewing"
	cancelViewingHandler "github.com/oryxestates/viewing-service/internal/api/handlers/cancel_viewing"
	completeViewingHandler "github.com/oryxestates/viewing-service/internal/api/handlers/complete_viewing"
	confirmViewingHandler "github.com/oryxestates/viewing-service/internal/api/handlers/confirm_viewing"
	createBlackoutHandler "github.com/oryxestates/viewing-service/internal/api/handlers/create_blackout"
	deleteBlackoutHandler "github.com/oryxestates/viewing-service/internal/api/handlers/delete_blackout"
	detachCalendarEventHandler "github.com/oryxestates/viewing-service/internal/api/handlers/detach_calendar_event"
	getAgentScheduleHandler "github.com/oryxestates/viewing-service/internal/api/handlers/get_agent_schedule"
	getAgentViewingsHandler "github.com/oryxestates/viewing-service/internal/api/handlers/get_agent_viewings"
	getAvailabilityHandler "github.com/oryxestates/viewing-service/internal/api/handlers/get_availability"
	getBlackoutsHandler "github.com/oryxestates/viewing-service/internal/api/handlers/get_blackouts"
	getCalendarStatusHandler "github.com/oryxestates/viewing-service/internal/api/handlers/get_calendar_status"
	getViewingHandler "github.com/oryxestates/viewing-service/internal/api/handlers/get_viewing"
	updateAgentScheduleHandler "github.com/oryxestates/viewing-service/internal/api/handlers/update_agent_schedule"
	"github.com/oryxestates/viewing-service/internal/api/middleware"
	"github.com/oryxestates/viewing-service/internal/config"
	calendarconnRepo "github.com/oryxestates/viewing-service/internal/infra/storage/calendarconn"
	scheduleRepo "github.com/oryxestates/viewing-service/internal/infra/storage/schedule"
	viewingRepo "github.com/oryxestates/viewing-service/internal/infra/storage/viewing"
	"github.com/oryxestates/viewing-service/internal/integrations/googlecalendar"
	scheduleService "github.com/oryxestates/viewing-service/internal/service/schedule"
	viewingsService "github.com/oryxestates/viewing-service/internal/service/viewings"
	bookViewingUC "github.com/oryxestates/viewing-service/internal/usecase/book_viewing"
	getAvailabilityUC "github.com/oryxestates/viewing-service/internal/usecase/get_availability"
	"github.com/oryxestates/viewing-service/pkg/dbmetrics"
	"github.com/oryxestates/viewing-service/pkg/logger"
	"github.com/oryxestates/viewing-service/pkg/metrics"
	"github.com/oryxestates/viewing-service/pkg/simpletxmanager"
	"github.com/oryxestates/viewing-service/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting viewing-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент Google Calendar
	calendarClient := googlecalendar.NewClient(
		cfg.GoogleCalendar.ClientID,
		cfg.GoogleCalendar.ClientSecret,
		time.Duration(cfg.GoogleCalendar.Timeout)*time.Second,
		log,
	)
	log.Info("Google Calendar client initialized (enabled=%t, timeout=%ds)",
		cfg.GoogleCalendar.Enabled, cfg.GoogleCalendar.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		viewingRepository      *viewingRepo.Repository
		scheduleRepository     *scheduleRepo.Repository
		calendarConnRepository *calendarconnRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		viewingRepository = viewingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		calendarConnRepository = calendarconnRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		viewingRepository = viewingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		calendarConnRepository = calendarconnRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	viewingSvc := viewingsService.NewService(
		viewingRepository,
		calendarConnRepository,
		calendarClient,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		calendarConnRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	bookViewingUseCase := bookViewingUC.NewUseCase(
		viewingRepository,
		scheduleRepository,
		calendarConnRepository,
		calendarClient,
		txMgr,
		bookViewingUC.Defaults{
			SlotDurationMinutes: cfg.Scheduling.SlotDurationMinutes,
			BufferMinutes:       cfg.Scheduling.BufferMinutes,
			MinLeadTimeMinutes:  cfg.Scheduling.MinLeadTimeMinutes,
		},
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		viewingRepository,
		scheduleRepository,
		calendarConnRepository,
		calendarClient,
		getAvailabilityUC.Defaults{
			SlotDurationMinutes: cfg.Scheduling.SlotDurationMinutes,
			BufferMinutes:       cfg.Scheduling.BufferMinutes,
			MinLeadTimeMinutes:  cfg.Scheduling.MinLeadTimeMinutes,
		},
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	bookViewing := bookViewingHandler.NewHandler(bookViewingUseCase, log)
	getViewing := getViewingHandler.NewHandler(viewingSvc, log)
	confirmViewing := confirmViewingHandler.NewHandler(viewingSvc, log)
	cancelViewing := cancelViewingHandler.NewHandler(viewingSvc, log)
	completeViewing := completeViewingHandler.NewHandler(viewingSvc, log)
	attachCalendarEvent := attachCalendarEventHandler.NewHandler(viewingSvc, log)
	detachCalendarEvent := detachCalendarEventHandler.NewHandler(viewingSvc, log)
	getAgentViewings := getAgentViewingsHandler.NewHandler(viewingSvc, log)
	getAgentSchedule := getAgentScheduleHandler.NewHandler(scheduleSvc, log)
	updateAgentSchedule := updateAgentScheduleHandler.NewHandler(scheduleSvc, log)
	getBlackouts := getBlackoutsHandler.NewHandler(scheduleSvc, log)
	createBlackout := createBlackoutHandler.NewHandler(scheduleSvc, log)
	deleteBlackout := deleteBlackoutHandler.NewHandler(scheduleSvc, log)
	getCalendarStatus := getCalendarStatusHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты агента
	api.HandleFunc("/agents/{agentId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Просмотры ---
	// Бронирование просмотра
	protected.HandleFunc("/viewings", bookViewing.Handle).Methods(http.MethodPost)

	// Получение просмотра по ID
	protected.HandleFunc("/viewings/{viewingId}", getViewing.Handle).Methods(http.MethodGet)

	// Переходы жизненного цикла
	protected.HandleFunc("/viewings/{viewingId}/confirm", confirmViewing.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/viewings/{viewingId}/cancel", cancelViewing.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/viewings/{viewingId}/complete", completeViewing.Handle).Methods(http.MethodPost)

	// Привязка/отвязка события календаря
	protected.HandleFunc("/viewings/{viewingId}/calendar-event", attachCalendarEvent.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/viewings/{viewingId}/calendar-event", detachCalendarEvent.Handle).Methods(http.MethodDelete)

	// --- Агенты ---
	// Просмотры агента
	protected.HandleFunc("/agents/{agentId}/viewings", getAgentViewings.Handle).Methods(http.MethodGet)

	// Расписание агента
	protected.HandleFunc("/agents/{agentId}/schedule", getAgentSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/agents/{agentId}/schedule", updateAgentSchedule.Handle).Methods(http.MethodPut)

	// Блэкаут-периоды агента
	protected.HandleFunc("/agents/{agentId}/blackouts", getBlackouts.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/agents/{agentId}/blackouts", createBlackout.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/agents/{agentId}/blackouts/{blackoutId}", deleteBlackout.Handle).Methods(http.MethodDelete)

	// Статус подключения календаря
	protected.HandleFunc("/agents/{agentId}/calendar/status", getCalendarStatus.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

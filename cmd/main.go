package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	bulkVisitsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/bulk_visits"
	checkAvailabilityHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/check_availability"
	exportScheduleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/export_schedule"
	getScheduleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_schedule"
	getStatisticsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_statistics"
	getTemplateHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_template"
	releaseSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/release_slot"
	reserveSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/reserve_slot"
	resetScheduleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/reset_schedule"
	upsertTemplateHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/upsert_template"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/config"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/infra/lock"
	employeeRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/employee"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	templateRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/template"
	visitRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/visit"
	scheduleService "github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
	templatesService "github.com/m04kA/SMC-ScheduleService/internal/service/templates"
	bulkVisitsUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/bulk_visits"
	exportScheduleUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/export_schedule"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-ScheduleService...")
	log.Info("Configuration loaded from %s", configPath)

	domain.DefaultWorkingDays = cfg.Scheduling.WorkingDays()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sqlx.Open("postgres", cfg.Database.DSN())
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

	// Без включенных метрик обертка только прокидывает запросы
	wrappedDB := dbmetrics.Wrap(db, metricsCollector, cfg.Database.DBName)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировка: Redis, если настроен, иначе внутри процесса
	var (
		locker      lock.Locker
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		locker = lock.NewRedisLocker(redisClient, cfg.Redis.LockTTL(), cfg.Redis.LockRetry(), log)
		log.Info("Redis lock enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.LockTTL())
	} else {
		locker = lock.NewLocalLocker()
		log.Warn("Redis is disabled, using in-process lock: run a single instance only")
	}
	locker = lock.WithWaitTimeout(locker, cfg.Redis.LockWait())

	// Инициализируем репозитории
	employeeRepository := employeeRepo.NewRepository(wrappedDB)
	templateRepository := templateRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	visitRepository := visitRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		employeeRepository,
		templateRepository,
		scheduleRepository,
		locker,
		metricsCollector,
		cfg.Scheduling.SlotGranularityMinutes,
		log,
	)
	templatesSvc := templatesService.NewService(
		employeeRepository,
		templateRepository,
		log,
	)

	// Инициализируем use cases
	bulkVisitsUseCase := bulkVisitsUC.NewUseCase(
		visitRepository,
		txMgr,
		locker,
		metricsCollector,
		log,
	)
	exportScheduleUseCase := exportScheduleUC.NewUseCase(
		scheduleSvc,
		visitRepository,
		log,
	)

	// Инициализируем handlers
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	getStatistics := getStatisticsHandler.NewHandler(scheduleSvc, log)
	resetSchedule := resetScheduleHandler.NewHandler(scheduleSvc, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(scheduleSvc, log)
	reserveSlot := reserveSlotHandler.NewHandler(scheduleSvc, log)
	releaseSlot := releaseSlotHandler.NewHandler(scheduleSvc, log)
	getTemplate := getTemplateHandler.NewHandler(templatesSvc, log)
	upsertTemplate := upsertTemplateHandler.NewHandler(templatesSvc, log)
	exportSchedule := exportScheduleHandler.NewHandler(exportScheduleUseCase, log)
	bulkVisits := bulkVisitsHandler.NewHandler(bulkVisitsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Проверки для оркестратора
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			log.Warn("GET /readyz - Database is not ready: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "база данных недоступна")
			return
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Warn("GET /readyz - Redis is not ready: %v", err)
				handlers.RespondError(w, http.StatusServiceUnavailable, "redis недоступен")
				return
			}
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			TTL:               time.Duration(cfg.RateLimit.TTLSeconds) * time.Second,
		})
		defer rateLimiter.Close()
		api.Use(rateLimiter.Middleware)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// ============================================================
	// PUBLIC ROUTES (чтение)
	// ============================================================

	// Расписание на день
	api.HandleFunc("/employees/{employeeId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Выгрузка расписания в xlsx
	api.HandleFunc("/employees/{employeeId}/schedule/export", exportSchedule.Handle).Methods(http.MethodGet)

	// Статистика дня
	api.HandleFunc("/employees/{employeeId}/statistics", getStatistics.Handle).Methods(http.MethodGet)

	// Проверка свободного интервала
	api.HandleFunc("/employees/{employeeId}/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// Шаблон недели
	api.HandleFunc("/employees/{employeeId}/templates/{weekStart}", getTemplate.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Слоты ---
	protected.HandleFunc("/employees/{employeeId}/slots/reserve", reserveSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/employees/{employeeId}/slots/release", releaseSlot.Handle).Methods(http.MethodPost)

	// Сброс ручных изменений дня
	protected.HandleFunc("/employees/{employeeId}/schedule", resetSchedule.Handle).Methods(http.MethodDelete)

	// --- Шаблоны ---
	protected.HandleFunc("/employees/{employeeId}/templates/{weekStart}", upsertTemplate.Handle).Methods(http.MethodPut)

	// --- Визиты ---
	protected.HandleFunc("/visits/bulk", bulkVisits.Handle).Methods(http.MethodPost)

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

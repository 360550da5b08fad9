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

	billingTickHandler "github.com/m1shk4/PTS-BookingService/internal/api/handlers/billing_tick"
	cancelSessionHandler "github.com/m1shk4/PTS-BookingService/internal/api/handlers/cancel_session"
	createBookingHandler "github.com/m1shk4/PTS-BookingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m1shk4/PTS-BookingService/internal/api/handlers/get_availability"
	getClientSessionsHandler "github.com/m1shk4/PTS-BookingService/internal/api/handlers/get_client_sessions"
	getEntitlementsHandler "github.com/m1shk4/PTS-BookingService/internal/api/handlers/get_entitlements"
	getSessionHandler "github.com/m1shk4/PTS-BookingService/internal/api/handlers/get_session"
	getTrainerSessionsHandler "github.com/m1shk4/PTS-BookingService/internal/api/handlers/get_trainer_sessions"
	updateSessionStatusHandler "github.com/m1shk4/PTS-BookingService/internal/api/handlers/update_session_status"
	"github.com/m1shk4/PTS-BookingService/internal/api/middleware"
	"github.com/m1shk4/PTS-BookingService/internal/config"
	availabilityRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/availability"
	billingPeriodsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/billingperiods"
	creditsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/credits"
	packsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/packs"
	sessionsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/sessions"
	subscriptionsRepo "github.com/m1shk4/PTS-BookingService/internal/infra/storage/subscriptions"
	sessionsService "github.com/m1shk4/PTS-BookingService/internal/service/sessions"
	cancelSessionUC "github.com/m1shk4/PTS-BookingService/internal/usecase/cancel_session"
	createBookingUC "github.com/m1shk4/PTS-BookingService/internal/usecase/create_booking"
	generateBillingPeriodsUC "github.com/m1shk4/PTS-BookingService/internal/usecase/generate_billing_periods"
	listEntitlementsUC "github.com/m1shk4/PTS-BookingService/internal/usecase/list_entitlements"
	resolveAvailabilityUC "github.com/m1shk4/PTS-BookingService/internal/usecase/resolve_availability"
	"github.com/m1shk4/PTS-BookingService/pkg/dbmetrics"
	"github.com/m1shk4/PTS-BookingService/pkg/logger"
	"github.com/m1shk4/PTS-BookingService/pkg/metrics"
	"github.com/m1shk4/PTS-BookingService/pkg/simpletxmanager"
	"github.com/m1shk4/PTS-BookingService/pkg/txmanager"
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

	log.Info("Starting PTS-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Локация тренера: в ней интерпретируются шаблоны и исключения доступности
	location, err := time.LoadLocation(cfg.Service.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Service.Timezone, err)
	}
	log.Info("Service timezone: %s", cfg.Service.Timezone)

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

	// Инициализируем репозитории (с метриками или без)
	var (
		sessionRepository      *sessionsRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		packRepository         *packsRepo.Repository
		subscriptionRepository *subscriptionsRepo.Repository
		creditRepository       *creditsRepo.Repository
		billingPeriodRepo      *billingPeriodsRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		sessionRepository = sessionsRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		packRepository = packsRepo.NewRepository(wrappedDB)
		subscriptionRepository = subscriptionsRepo.NewRepository(wrappedDB)
		creditRepository = creditsRepo.NewRepository(wrappedDB)
		billingPeriodRepo = billingPeriodsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		sessionRepository = sessionsRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		packRepository = packsRepo.NewRepository(db)
		subscriptionRepository = subscriptionsRepo.NewRepository(db)
		creditRepository = creditsRepo.NewRepository(db)
		billingPeriodRepo = billingPeriodsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	sessionSvc := sessionsService.NewService(
		sessionRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	resolveAvailabilityUseCase := resolveAvailabilityUC.NewUseCase(
		availabilityRepository,
		sessionRepository,
		location,
		log,
	)

	listEntitlementsUseCase := listEntitlementsUC.NewUseCase(
		packRepository,
		subscriptionRepository,
		sessionRepository,
		creditRepository,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		sessionRepository,
		packRepository,
		subscriptionRepository,
		txMgr,
		log,
	)

	cancelSessionUseCase := cancelSessionUC.NewUseCase(
		sessionRepository,
		subscriptionRepository,
		creditRepository,
		txMgr,
		log,
	)

	generateBillingPeriodsUseCase := generateBillingPeriodsUC.NewUseCase(
		subscriptionRepository,
		billingPeriodRepo,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(resolveAvailabilityUseCase, log)
	getEntitlements := getEntitlementsHandler.NewHandler(listEntitlementsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelSession := cancelSessionHandler.NewHandler(cancelSessionUseCase, log)
	getSession := getSessionHandler.NewHandler(sessionSvc, log)
	getClientSessions := getClientSessionsHandler.NewHandler(sessionSvc, log)
	getTrainerSessions := getTrainerSessionsHandler.NewHandler(sessionSvc, log)
	updateSessionStatus := updateSessionStatusHandler.NewHandler(sessionSvc, log)
	billingTick := billingTickHandler.NewHandler(generateBillingPeriodsUseCase, log)

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

	// Свободные интервалы тренера
	api.HandleFunc("/trainers/{trainerId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют bearer токен identity-сервиса)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret))

	// --- Сессии ---
	// Бронирование сессии
	protected.HandleFunc("/sessions", createBooking.Handle).Methods(http.MethodPost)

	// Получение сессии по ID
	protected.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)

	// Отмена сессии
	protected.HandleFunc("/sessions/{sessionId}/cancel", cancelSession.Handle).Methods(http.MethodPost)

	// Корректировка статуса сессии тренером
	protected.HandleFunc("/sessions/{sessionId}/status", updateSessionStatus.Handle).Methods(http.MethodPatch)

	// --- Клиенты ---
	// Способы оплаты бронирования
	protected.HandleFunc("/clients/{clientId}/entitlements", getEntitlements.Handle).Methods(http.MethodGet)

	// История сессий клиента
	protected.HandleFunc("/clients/{clientId}/sessions", getClientSessions.Handle).Methods(http.MethodGet)

	// --- Тренеры ---
	// Расписание тренера
	protected.HandleFunc("/trainers/{trainerId}/sessions", getTrainerSessions.Handle).Methods(http.MethodGet)

	// ============================================================
	// INTERNAL ROUTES (вызываются планировщиком)
	// ============================================================

	internal := r.PathPrefix("/internal/v1").Subrouter()
	internal.Use(middleware.InternalAuth(cfg.Auth.InternalToken))

	// Тик генератора биллинговых периодов
	internal.HandleFunc("/billing/tick", billingTick.Handle).Methods(http.MethodPost)

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

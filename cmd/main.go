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
	"github.com/robfig/cron/v3"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/complete_appointment"
	confirmByClientHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_by_client"
	confirmByOperatorHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_by_operator"
	confirmWithOverrideHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/confirm_with_override"
	createDraftHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_draft"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getCalendarRulesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_calendar_rules"
	getOperatorAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_operator_appointments"
	proposeAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/propose_appointment"
	rejectAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reject_appointment"
	updateCalendarRulesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_calendar_rules"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/calendar"
	directoryClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/directoryservice"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	calendarService "github.com/m04kA/SMC-AppointmentService/internal/service/calendar"
	"github.com/m04kA/SMC-AppointmentService/internal/service/validation"
	confirmWithOverrideUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_with_override"
	proposeAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/propose_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
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

	log.Info("Starting SMC-AppointmentService...")
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

	// Инициализируем клиент мастер-данных
	directory := directoryClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		log,
	)
	log.Info("DirectoryService client initialized (url=%s, timeout=%ds)",
		cfg.DirectoryService.URL, cfg.DirectoryService.Timeout)

	// Публикация доменных событий переходов
	type EventPublisher interface {
		PublishTransition(appointmentID string, from, to domain.AppointmentStatus)
	}
	var eventPublisher EventPublisher = events.NopPublisher{}

	if cfg.Events.Enabled {
		kafkaPublisher := events.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic, log)
		defer kafkaPublisher.Close()
		eventPublisher = kafkaPublisher
		log.Info("Kafka transition events enabled (brokers=%s, topic=%s)", cfg.Events.Brokers, cfg.Events.Topic)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		apptRepository *appointmentRepo.Repository
		calRepository  *calendarRepo.Repository
	)

	// Интерфейс transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		apptRepository = appointmentRepo.NewRepository(wrappedDB)
		calRepository = calendarRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		apptRepository = appointmentRepo.NewRepository(db)
		calRepository = calendarRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	availabilityChecker := availability.NewChecker(apptRepository, calRepository)
	validationEngine := validation.NewEngine(
		availabilityChecker,
		directory,
		apptRepository,
		cfg.Booking.HorizonDays,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(apptRepository, txMgr, eventPublisher, log)
	calendarSvc := calendarService.NewService(calRepository, txMgr, log)

	// Инициализируем use cases
	proposeUseCase := proposeAppointmentUC.NewUseCase(apptRepository, validationEngine, txMgr, eventPublisher, log)
	overrideUseCase := confirmWithOverrideUC.NewUseCase(apptRepository, txMgr, eventPublisher, log)

	// Инициализируем handlers
	createDraft := createDraftHandler.NewHandler(appointmentsSvc, log)
	proposeAppointment := proposeAppointmentHandler.NewHandler(proposeUseCase, log)
	confirmByClient := confirmByClientHandler.NewHandler(appointmentsSvc, log)
	confirmByOperator := confirmByOperatorHandler.NewHandler(appointmentsSvc, log)
	confirmWithOverride := confirmWithOverrideHandler.NewHandler(overrideUseCase, log)
	rejectAppointment := rejectAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getOperatorAppointments := getOperatorAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getCalendarRules := getCalendarRulesHandler.NewHandler(calendarSvc, log)
	updateCalendarRules := updateCalendarRulesHandler.NewHandler(calendarSvc, log)

	// Фоновое завершение прошедших записей
	var sweeper *cron.Cron
	if cfg.Sweeper.Enabled {
		sweeper = cron.New()
		_, err := sweeper.AddFunc(cfg.Sweeper.Cron, func() {
			completed, err := appointmentsSvc.CompleteDue(context.Background())
			if err != nil {
				log.Error("Sweeper: failed to complete due appointments: %v", err)
				return
			}
			if completed > 0 {
				log.Info("Sweeper: completed %d appointments", completed)
			}
		})
		if err != nil {
			log.Fatal("Failed to schedule sweeper: %v", err)
		}
		sweeper.Start()
		log.Info("Completion sweeper scheduled (%s)", cfg.Sweeper.Cron)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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

	// Правила календаря оператора
	api.HandleFunc("/operators/{operatorId}/calendar",
		getCalendarRules.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание черновика
	protected.HandleFunc("/appointments", createDraft.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Переходы жизненного цикла
	protected.HandleFunc("/appointments/{appointmentId}/propose", proposeAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/confirm-by-client", confirmByClient.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/confirm", confirmByOperator.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/confirm-with-override", confirmWithOverride.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/reject", rejectAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPost)

	// --- Расписание оператора ---
	// Список записей оператора
	protected.HandleFunc("/operators/{operatorId}/appointments", getOperatorAppointments.Handle).Methods(http.MethodGet)

	// --- Администрирование календаря ---
	protected.HandleFunc("/operators/{operatorId}/calendar/windows",
		updateCalendarRules.HandleReplaceWindows).Methods(http.MethodPut)
	protected.HandleFunc("/calendar/holidays",
		updateCalendarRules.HandleAddHoliday).Methods(http.MethodPost)
	protected.HandleFunc("/calendar/holidays/{holidayId}",
		updateCalendarRules.HandleDeleteHoliday).Methods(http.MethodDelete)

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

	// Останавливаем фоновое завершение
	if sweeper != nil {
		sweeperCtx := sweeper.Stop()
		<-sweeperCtx.Done()
		log.Info("Completion sweeper stopped")
	}

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

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	adminNotificationsHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/admin_notifications"
	adminUnavailabilityHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/admin_unavailability"
	cancelBookingHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/create_booking"
	getAdminBookingHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/get_admin_booking"
	getAdminBookingsHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/get_admin_bookings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/get_booking"
	getStaffAvailabilityHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/get_staff_availability"
	getStaffConfigHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/get_staff_config"
	getUserBookingsHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/health"
	updateBookingHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/update_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/update_booking_status"
	updateStaffConfigHandler "github.com/m04kA/SMC-CarWashService/internal/api/handlers/update_staff_config"
	"github.com/m04kA/SMC-CarWashService/internal/api/middleware"
	"github.com/m04kA/SMC-CarWashService/internal/config"
	"github.com/m04kA/SMC-CarWashService/internal/infra/queue"
	"github.com/m04kA/SMC-CarWashService/internal/infra/slotlock"
	bookingRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/booking"
	notificationRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/notification"
	serviceRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/service"
	staffConfigRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/staffconfig"
	unavailabilityRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/unavailability"
	userRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/user"
	vehicleRepo "github.com/m04kA/SMC-CarWashService/internal/infra/storage/vehicle"
	"github.com/m04kA/SMC-CarWashService/internal/integrations/push"
	"github.com/m04kA/SMC-CarWashService/internal/integrations/sms"
	"github.com/m04kA/SMC-CarWashService/internal/realtime"
	bookingsService "github.com/m04kA/SMC-CarWashService/internal/service/bookings"
	notificationsService "github.com/m04kA/SMC-CarWashService/internal/service/notifications"
	"github.com/m04kA/SMC-CarWashService/internal/service/slots"
	staffService "github.com/m04kA/SMC-CarWashService/internal/service/staff"
	unavailabilityService "github.com/m04kA/SMC-CarWashService/internal/service/unavailability"
	createBookingUC "github.com/m04kA/SMC-CarWashService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-CarWashService/internal/usecase/get_available_slots"
	updateBookingUC "github.com/m04kA/SMC-CarWashService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-CarWashService/internal/worker/notifier"
	"github.com/m04kA/SMC-CarWashService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarWashService/pkg/logger"
	"github.com/m04kA/SMC-CarWashService/pkg/metrics"
	"github.com/m04kA/SMC-CarWashService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-CarWashService/pkg/txmanager"
)

const rateLimitCleanupInterval = time.Minute

// notificationQueue общий интерфейс Redis и in-memory очередей
type notificationQueue interface {
	notifier.Queue
	notifier.Requeuer
	Len(ctx context.Context) (int, error)
}

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

	log.Info("Starting SMC-CarWashService...")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone %q: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем метрики (если включены). nil *Metrics безопасен для вызовов.
	var metricsCollector *metrics.Metrics
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Executor и transaction manager (с метриками или без)
	var (
		executor dbmetrics.DBExecutor
		txMgr    slots.TransactionManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		executor = db
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Redis: очередь уведомлений и блокировки слотов. Без Redis всё работает в памяти процесса.
	var (
		jobQueue notificationQueue
		locker   slots.SlotLocker
	)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		jobQueue = queue.NewRedisQueue(redisClient, cfg.Notifications.QueueKey, cfg.Notifications.RetryKey)
		locker = slotlock.NewRedisLocker(redisClient, cfg.Booking.LockTTL(), cfg.Booking.LockWait(), log)
		log.Info("Redis connected (addr=%s): notification queue and slot locks are shared", cfg.Redis.Addr)
	} else {
		jobQueue = queue.NewMemoryQueue(cfg.Notifications.BufferSize)
		locker = slotlock.NewLocalLocker(cfg.Booking.LockWait())
		log.Warn("Redis disabled: notification queue and slot locks are process-local")
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(executor)
	serviceRepository := serviceRepo.NewRepository(executor)
	vehicleRepository := vehicleRepo.NewRepository(executor)
	userRepository := userRepo.NewRepository(executor)
	staffConfigRepository := staffConfigRepo.NewRepository(executor)
	unavailabilityRepository := unavailabilityRepo.NewRepository(executor)
	notificationRepository := notificationRepo.NewRepository(executor)

	// Интеграции
	smsClient := sms.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber, log)
	pushClient := push.NewClient(cfg.Push.URL, time.Duration(cfg.Push.Timeout)*time.Second, log)
	log.Info("Integrations initialized (sms=%t, push=%t)", smsClient.Enabled(), cfg.Push.URL != "")

	// Живая лента администратора
	hub := realtime.NewHub(cfg.CORS.AllowedOrigins, log)

	// Сервисы
	staffSvc := staffService.NewService(
		staffConfigRepository,
		bookingRepository,
		unavailabilityRepository,
		slots.OperatingHours{},
		location,
		log,
	)
	unavailabilitySvc := unavailabilityService.NewService(unavailabilityRepository, log)
	notificationsSvc := notificationsService.NewService(notificationRepository, hub, log)

	publisher := notifier.NewPublisher(jobQueue, metricsCollector, log)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		publisher,
		bookingsService.Options{
			EnforceTransitions: cfg.Booking.EnforceStatusTransitions,
			Location:           location,
		},
		log,
	)

	// Движок слотов и допуск
	engine := slots.NewEngine(staffSvc, bookingRepository, unavailabilityRepository, location, log)
	gate, err := slots.NewGate(engine, slots.AdmissionMode(cfg.Booking.AdmissionMode), locker, txMgr, log)
	if err != nil {
		log.Fatal("Failed to initialize admission gate: %v", err)
	}
	log.Info("Booking admission mode: %s", gate.Mode())

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		vehicleRepository,
		serviceRepository,
		staffSvc,
		engine,
		gate,
		publisher,
		metricsCollector,
		createBookingUC.Options{
			ServiceFee: cfg.Booking.ServiceFee,
			TaxRate:    cfg.Booking.TaxRate,
		},
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		staffSvc,
		engine,
		gate,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		serviceRepository,
		staffSvc,
		engine,
		log,
	)

	// Фоновые задачи: воркеры уведомлений, повтор по cron, websocket hub
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	dispatcher := notifier.NewDispatcher(
		jobQueue,
		userRepository,
		smsClient,
		pushClient,
		notificationsSvc,
		metricsCollector,
		notifier.Config{
			Workers:            cfg.Notifications.Workers,
			MaxAttempts:        cfg.Notifications.MaxAttempts,
			BrandName:          cfg.Notifications.BrandName,
			DefaultCountryCode: cfg.Notifications.DefaultCountryCode,
		},
		log,
	)
	dispatcher.Start(workersCtx)

	retryScheduler, err := notifier.NewRetryScheduler(cfg.Notifications.RetrySchedule, jobQueue, log)
	if err != nil {
		log.Fatal("Failed to initialize retry scheduler: %v", err)
	}
	retryScheduler.Start()

	go hub.Run(workersCtx)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getAdminBookings := getAdminBookingsHandler.NewHandler(bookingSvc, log)
	getAdminBooking := getAdminBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getStaffConfig := getStaffConfigHandler.NewHandler(staffSvc, log)
	updateStaffConfig := updateStaffConfigHandler.NewHandler(staffSvc, log)
	getStaffAvailability := getStaffAvailabilityHandler.NewHandler(staffSvc, log)
	unavailability := adminUnavailabilityHandler.NewHandler(unavailabilitySvc, log)
	adminNotifications := adminNotificationsHandler.NewHandler(notificationsSvc, log)
	health := healthHandler.NewHandler(db, jobQueue, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		go limiter.Cleanup(workersCtx, rateLimitCleanupInterval)
		api.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	auth, err := middleware.NewAuth(cfg.Auth.AccessSecret, log)
	if err != nil {
		log.Fatal("Failed to initialize auth: %v", err)
	}

	// ============================================================
	// CUSTOMER ROUTES (Bearer JWT)
	// ============================================================

	customer := api.PathPrefix("/bookings").Subrouter()
	customer.Use(auth.Middleware)

	customer.HandleFunc("/slots/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	customer.HandleFunc("", createBooking.Handle).Methods(http.MethodPost)
	customer.HandleFunc("", getUserBookings.Handle).Methods(http.MethodGet)
	customer.HandleFunc("/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	customer.HandleFunc("/{bookingId:[0-9]+}", updateBooking.Handle).Methods(http.MethodPatch)
	customer.HandleFunc("/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (Bearer JWT + роль администратора)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware, middleware.RequireRole(cfg.Auth.AdminRole))

	// --- Бронирования ---
	admin.HandleFunc("/bookings", getAdminBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}", getAdminBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Персонал ---
	admin.HandleFunc("/staff/config", getStaffConfig.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/staff/config", updateStaffConfig.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/staff/availability/{date}", getStaffAvailability.Handle).Methods(http.MethodGet)

	// --- Недоступность персонала ---
	admin.HandleFunc("/unavailability", unavailability.Create).Methods(http.MethodPost)
	admin.HandleFunc("/unavailability", unavailability.List).Methods(http.MethodGet)
	admin.HandleFunc("/unavailability/dates", unavailability.Dates).Methods(http.MethodGet)
	admin.HandleFunc("/unavailability/date/{date}", unavailability.GetByDate).Methods(http.MethodGet)
	admin.HandleFunc("/unavailability/{id:[0-9]+}", unavailability.GetByID).Methods(http.MethodGet)
	admin.HandleFunc("/unavailability/{id:[0-9]+}", unavailability.Update).Methods(http.MethodPatch)
	admin.HandleFunc("/unavailability/{id:[0-9]+}", unavailability.Delete).Methods(http.MethodDelete)

	// --- Уведомления ---
	admin.HandleFunc("/notifications", adminNotifications.List).Methods(http.MethodGet)
	admin.HandleFunc("/notifications/read-all", adminNotifications.MarkAllAsRead).Methods(http.MethodPatch)
	admin.HandleFunc("/notifications/{id:[0-9]+}/read", adminNotifications.MarkAsRead).Methods(http.MethodPatch)
	admin.HandleFunc("/notifications/ws", hub.ServeWS).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// 1. HTTP: новые запросы не принимаются, текущие дорабатывают
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// 2. Воркеры уведомлений и websocket hub
	stopWorkers()
	dispatcher.Wait()
	log.Info("Notification workers stopped")

	// 3. Cron
	retryScheduler.Stop(shutdownCtx)

	// 4. Сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

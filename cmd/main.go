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

	addBlockedDateHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/add_blocked_date"
	cancelBookingHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/cancel_booking"
	createPaymentOrderHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/create_payment_order"
	dismissPaymentHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/dismiss_payment"
	getBlockedDatesHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_blocked_dates"
	getBookingHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_calendar"
	getScheduleHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_schedule"
	getStudentBookingsHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_student_bookings"
	getTutorBookingsHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/get_tutor_bookings"
	removeBlockedDateHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/remove_blocked_date"
	reserveBookingHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/reserve_booking"
	updateScheduleHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/update_schedule"
	verifyPaymentHandler "github.com/m04kA/SMC-TutoringService/internal/api/handlers/verify_payment"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/config"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	paymentRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/payment"
	scheduleRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/schedule"
	notifyServiceClient "github.com/m04kA/SMC-TutoringService/internal/integrations/notifyservice"
	razorpayClient "github.com/m04kA/SMC-TutoringService/internal/integrations/razorpay"
	tutorServiceClient "github.com/m04kA/SMC-TutoringService/internal/integrations/tutorservice"
	bookingsService "github.com/m04kA/SMC-TutoringService/internal/service/bookings"
	paymentsService "github.com/m04kA/SMC-TutoringService/internal/service/payments"
	scheduleService "github.com/m04kA/SMC-TutoringService/internal/service/schedule"
	"github.com/m04kA/SMC-TutoringService/internal/sweeper"
	getCalendarUC "github.com/m04kA/SMC-TutoringService/internal/usecase/get_calendar"
	reserveBookingUC "github.com/m04kA/SMC-TutoringService/internal/usecase/reserve_booking"
	"github.com/m04kA/SMC-TutoringService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutoringService/pkg/logger"
	"github.com/m04kA/SMC-TutoringService/pkg/metrics"
	"github.com/m04kA/SMC-TutoringService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-TutoringService/pkg/txmanager"
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

	log.Info("Starting SMC-TutoringService...")
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

	// Инициализируем интеграционных клиентов
	tutorClient := tutorServiceClient.NewClient(
		cfg.TutorService.URL,
		time.Duration(cfg.TutorService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	gatewayClient := razorpayClient.NewClient(
		cfg.Razorpay.URL,
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		time.Duration(cfg.Razorpay.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (TutorService=%s, NotifyService=%s, Razorpay=%s)",
		cfg.TutorService.URL, cfg.NotifyService.URL, cfg.Razorpay.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		paymentRepository  *paymentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		paymentRepository,
		notifyClient,
		log,
	)
	paymentSvc := paymentsService.NewService(
		bookingRepository,
		bookingSvc,
		paymentRepository,
		gatewayClient,
		cfg.Booking.MeetingLinkBaseURL,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		cfg.Booking.DefaultSlotDurationMin,
		log,
	)

	// Инициализируем use cases
	getCalendarUseCase := getCalendarUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		cfg.Booking.DefaultSlotDurationMin,
		log,
	)
	reserveBookingUseCase := reserveBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		tutorClient,
		txMgr,
		cfg.Booking.PlatformFeeRate,
		cfg.Booking.DefaultSlotDurationMin,
		log,
	)

	// Запускаем фоновую зачистку просроченных резервов
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	expirySweeper := sweeper.New(
		bookingRepository,
		bookingSvc,
		time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute,
		time.Duration(cfg.Booking.SweepIntervalMinutes)*time.Minute,
		log,
	)
	go func() {
		if err := expirySweeper.Run(sweepCtx); err != nil && err != context.Canceled {
			log.Error("Sweeper stopped with error: %v", err)
		}
	}()

	// Инициализируем handlers
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, log)
	reserveBooking := reserveBookingHandler.NewHandler(reserveBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getStudentBookings := getStudentBookingsHandler.NewHandler(bookingSvc, log)
	getTutorBookings := getTutorBookingsHandler.NewHandler(bookingSvc, log)
	createPaymentOrder := createPaymentOrderHandler.NewHandler(paymentSvc, log)
	verifyPayment := verifyPaymentHandler.NewHandler(paymentSvc, log)
	dismissPayment := dismissPaymentHandler.NewHandler(paymentSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	getBlockedDates := getBlockedDatesHandler.NewHandler(scheduleSvc, log)
	addBlockedDate := addBlockedDateHandler.NewHandler(scheduleSvc, log)
	removeBlockedDate := removeBlockedDateHandler.NewHandler(scheduleSvc, log)

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

	// Календарь доступных слотов тьютора
	api.HandleFunc("/tutors/{tutorId}/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// Недельное расписание тьютора
	api.HandleFunc("/tutors/{tutorId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Блокировки дат тьютора
	api.HandleFunc("/tutors/{tutorId}/blocked-dates", getBlockedDates.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Резервирование слота
	protected.HandleFunc("/bookings", reserveBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований студента
	protected.HandleFunc("/students/{studentId}/bookings", getStudentBookings.Handle).Methods(http.MethodGet)

	// Бронирования тьютора
	protected.HandleFunc("/tutors/{tutorId}/bookings", getTutorBookings.Handle).Methods(http.MethodGet)

	// --- Оплата ---
	// Создание платежного ордера
	protected.HandleFunc("/bookings/{bookingId}/payment/order", createPaymentOrder.Handle).Methods(http.MethodPost)

	// Подтверждение оплаты
	protected.HandleFunc("/bookings/{bookingId}/payment/verify", verifyPayment.Handle).Methods(http.MethodPost)

	// Отказ от оплаты
	protected.HandleFunc("/bookings/{bookingId}/payment/dismiss", dismissPayment.Handle).Methods(http.MethodPost)

	// --- Управление расписанием (для тьюторов) ---
	// Замена недельного расписания
	protected.HandleFunc("/tutors/{tutorId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)

	// Блокировка даты
	protected.HandleFunc("/tutors/{tutorId}/blocked-dates", addBlockedDate.Handle).Methods(http.MethodPost)

	// Снятие блокировки даты
	protected.HandleFunc("/tutors/{tutorId}/blocked-dates/{date}", removeBlockedDate.Handle).Methods(http.MethodDelete)

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

	// Останавливаем фоновую зачистку
	stopSweeper()

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

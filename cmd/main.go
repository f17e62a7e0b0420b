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

	cancelBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_booking"
	createSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/create_slots"
	gatewayWebhookHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/gateway_webhook"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_booking"
	getBookingPaymentsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_booking_payments"
	getBuyerSummaryHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_buyer_summary"
	getPaymentHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_payment"
	getProviderBookingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_provider_bookings"
	getProviderStatsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_provider_stats"
	getUserBookingsHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/get_user_bookings"
	initiatePaymentHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/initiate_payment"
	refundPaymentHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/refund_payment"
	rescheduleBookingHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-ReservationService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	gatewayEventRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/gatewayevent"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
	slotRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/slot"
	catalogServiceClient "github.com/m04kA/SMC-ReservationService/internal/integrations/catalogservice"
	payGatewayClient "github.com/m04kA/SMC-ReservationService/internal/integrations/paygateway"
	bookingsService "github.com/m04kA/SMC-ReservationService/internal/service/bookings"
	paymentsService "github.com/m04kA/SMC-ReservationService/internal/service/payments"
	reconcilerService "github.com/m04kA/SMC-ReservationService/internal/service/reconciler"
	reportsService "github.com/m04kA/SMC-ReservationService/internal/service/reports"
	slotsService "github.com/m04kA/SMC-ReservationService/internal/service/slots"
	createBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
	initiatePaymentUC "github.com/m04kA/SMC-ReservationService/internal/usecase/initiate_payment"
	processGatewayEventUC "github.com/m04kA/SMC-ReservationService/internal/usecase/process_gateway_event"
	refundPaymentUC "github.com/m04kA/SMC-ReservationService/internal/usecase/refund_payment"
	rescheduleBookingUC "github.com/m04kA/SMC-ReservationService/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
	"github.com/m04kA/SMC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
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

	log.Info("Starting SMC-ReservationService...")
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
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	gatewayClient := payGatewayClient.NewClient(
		cfg.PaymentGateway.URL,
		cfg.PaymentGateway.APIKey,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, PaymentGateway=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository    *slotRepo.Repository
		bookingRepository *bookingRepo.Repository
		paymentRepository *paymentRepo.Repository
		eventRepository   *gatewayEventRepo.Repository
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

		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		eventRepository = gatewayEventRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		eventRepository = gatewayEventRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reconciler := reconcilerService.NewService(
		bookingRepository,
		paymentRepository,
		slotRepository,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		slotRepository,
		txMgr,
		log,
	)
	slotSvc := slotsService.NewService(
		slotRepository,
		catalogClient,
		txMgr,
		log,
	)
	paymentSvc := paymentsService.NewService(
		paymentRepository,
		bookingRepository,
		log,
	)
	reportSvc := reportsService.NewService(
		bookingRepository,
		paymentRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		catalogClient,
		txMgr,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		log,
	)
	initiatePaymentUseCase := initiatePaymentUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		reconciler,
		gatewayClient,
		catalogClient,
		txMgr,
		log,
	)
	processGatewayEventUseCase := processGatewayEventUC.NewUseCase(
		paymentRepository,
		eventRepository,
		reconciler,
		txMgr,
		cfg.PaymentGateway.WebhookSecret,
		log,
	)
	refundPaymentUseCase := refundPaymentUC.NewUseCase(
		paymentRepository,
		reconciler,
		gatewayClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	createSlots := createSlotsHandler.NewHandler(slotSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(slotSvc, log)
	initiatePayment := initiatePaymentHandler.NewHandler(initiatePaymentUseCase, log)
	refundPayment := refundPaymentHandler.NewHandler(refundPaymentUseCase, log)
	getPayment := getPaymentHandler.NewHandler(paymentSvc, log)
	getBookingPayments := getBookingPaymentsHandler.NewHandler(paymentSvc, log)
	gatewayWebhook := gatewayWebhookHandler.NewHandler(processGatewayEventUseCase, log)
	getProviderStats := getProviderStatsHandler.NewHandler(reportSvc, log)
	getBuyerSummary := getBuyerSummaryHandler.NewHandler(reportSvc, log)

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

	// Слоты оферты на дату (витрина расписания)
	api.HandleFunc("/offerings/{offeringId}/slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Webhook платёжного шлюза (аутентификация через HMAC-подпись)
	api.HandleFunc("/webhooks/gateway",
		gatewayWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос бронирования на другое время
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// Решение провайдера по бронированию (rejected / completed)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований покупателя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Бронирования провайдера с фильтрацией
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// --- Слоты ---
	// Публикация слотов оферты
	protected.HandleFunc("/offerings/{offeringId}/slots", createSlots.Handle).Methods(http.MethodPost)

	// --- Платежи ---
	// Оплата бронирования
	protected.HandleFunc("/bookings/{bookingId}/payments", initiatePayment.Handle).Methods(http.MethodPost)

	// Платежи бронирования
	protected.HandleFunc("/bookings/{bookingId}/payments", getBookingPayments.Handle).Methods(http.MethodGet)

	// Получение платежа по ID
	protected.HandleFunc("/payments/{paymentId}", getPayment.Handle).Methods(http.MethodGet)

	// Возврат платежа
	protected.HandleFunc("/payments/{paymentId}/refund", refundPayment.Handle).Methods(http.MethodPost)

	// --- Отчёты ---
	// Сводка провайдера по бронированиям и платежам
	protected.HandleFunc("/providers/{providerId}/stats", getProviderStats.Handle).Methods(http.MethodGet)

	// Сводка покупателя
	protected.HandleFunc("/users/{userId}/summary", getBuyerSummary.Handle).Methods(http.MethodGet)

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

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

	checkAvailabilityHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/check_availability"
	confirmPaymentHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/confirm_payment"
	createReservationHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/create_reservation"
	getProductHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_product"
	getReservationHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_reservation"
	listProductsHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/list_products"
	listReservationsHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/list_reservations"
	priceQuoteHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/price_quote"
	setUnitUnavailabilityHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/set_unit_unavailability"
	updateProductSettingsHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/update_product_settings"
	updateReservationStatusHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/update_reservation_status"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/config"
	"github.com/m04kA/SMC-RentalService/internal/infra/storage"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	reservationRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/reservation"
	stockUnitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/stockunit"
	"github.com/m04kA/SMC-RentalService/internal/integrations/payment"
	productsService "github.com/m04kA/SMC-RentalService/internal/service/products"
	reservationsService "github.com/m04kA/SMC-RentalService/internal/service/reservations"
	calculatePriceUC "github.com/m04kA/SMC-RentalService/internal/usecase/calculate_price"
	checkAvailabilityUC "github.com/m04kA/SMC-RentalService/internal/usecase/check_availability"
	createReservationUC "github.com/m04kA/SMC-RentalService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
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

	log.Info("Starting SMC-RentalService...")

	// Метрики (nil, если выключены: все методы nil-safe)
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

	// Миграции схемы
	if cfg.Database.MigrationsPath != "" {
		if err := storage.RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied from %s", cfg.Database.MigrationsPath)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txManager := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	productRepository := productRepo.NewRepository(wrappedDB)
	stockUnitRepository := stockUnitRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)

	// Платежный провайдер
	paymentClient := payment.NewClient(payment.Config{
		BaseURL:    cfg.Payment.URL,
		APIKey:     cfg.Payment.APIKey,
		Currency:   cfg.Payment.Currency,
		SuccessURL: cfg.Payment.SuccessURL,
		CancelURL:  cfg.Payment.CancelURL,
		Timeout:    cfg.PaymentTimeout(),
		Breaker: payment.BreakerConfig{
			MaxRequests:         cfg.Breaker.MaxRequests,
			Interval:            cfg.BreakerInterval(),
			Timeout:             cfg.BreakerTimeout(),
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		},
	}, metricsCollector, log)
	log.Info("Payment client initialized (url=%s, timeout=%ds)", cfg.Payment.URL, cfg.Payment.Timeout)

	// Сервисы
	reservationSvc := reservationsService.NewService(reservationRepository, productRepository, txManager, log)
	productSvc := productsService.NewService(productRepository, stockUnitRepository, reservationRepository, txManager, log)

	// Use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		productRepository,
		stockUnitRepository,
		reservationRepository,
		metricsCollector,
		log,
	)
	calculatePriceUseCase := calculatePriceUC.NewUseCase(productRepository, metricsCollector, log)
	createReservationUseCase := createReservationUC.NewUseCase(
		productRepository,
		stockUnitRepository,
		reservationRepository,
		paymentClient,
		txManager,
		metricsCollector,
		log,
	)

	// Handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	priceQuote := priceQuoteHandler.NewHandler(calculatePriceUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	confirmPayment := confirmPaymentHandler.NewHandler(reservationSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationSvc, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationSvc, log)
	listProducts := listProductsHandler.NewHandler(productSvc, log)
	getProduct := getProductHandler.NewHandler(productSvc, log)
	updateProductSettings := updateProductSettingsHandler.NewHandler(productSvc, log)
	setUnitUnavailability := setUnitUnavailabilityHandler.NewHandler(productSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (сайт и платежный провайдер)
	// ============================================================

	api.HandleFunc("/check-availability", checkAvailability.Handle).Methods(http.MethodPost)
	api.HandleFunc("/price-quote", priceQuote.Handle).Methods(http.MethodPost)
	api.HandleFunc("/checkout", createReservation.HandleCheckout).Methods(http.MethodPost)
	api.HandleFunc("/payments/confirm", confirmPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// OFFICE ROUTES (X-User-ID из списка администраторов)
	// ============================================================

	office := api.PathPrefix("/office").Subrouter()
	office.Use(middleware.Auth)
	office.Use(middleware.AdminOnly(cfg.Auth.AdminUserIDs))

	// --- Бронирования ---
	office.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	office.HandleFunc("/reservations", createReservation.HandleOffice).Methods(http.MethodPost)
	office.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	office.HandleFunc("/reservations/{reservationId}/status", updateReservationStatus.Handle).Methods(http.MethodPatch)

	// --- Продукты и единицы инвентаря ---
	office.HandleFunc("/products", listProducts.Handle).Methods(http.MethodGet)
	office.HandleFunc("/products/{productId}", getProduct.Handle).Methods(http.MethodGet)
	office.HandleFunc("/products/{productId}/settings", updateProductSettings.Handle).Methods(http.MethodPut)
	office.HandleFunc("/stock-units/{unitId}/unavailability", setUnitUnavailability.Handle).Methods(http.MethodPut)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

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

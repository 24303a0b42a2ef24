package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/el-asil/restaurant-api/internal/analytics"
	"github.com/el-asil/restaurant-api/internal/auth"
	"github.com/el-asil/restaurant-api/internal/menu"
	"github.com/el-asil/restaurant-api/internal/messages"
	"github.com/el-asil/restaurant-api/internal/messaging"
	"github.com/el-asil/restaurant-api/internal/orders"
	"github.com/el-asil/restaurant-api/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider()
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB(postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	var orderProducer, replyProducer *messaging.Producer
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		orderProducer = messaging.NewOrderCreatedProducer(brokers)
		defer func() { _ = orderProducer.Close() }()
		replyProducer = messaging.NewReplyCreatedProducer(brokers)
		defer func() { _ = replyProducer.Close() }()
	}

	sessions := auth.New(jwtSecret, os.Getenv("AUTH_COOKIE_NAME"), logger)

	menuHandler := menu.NewHandler(menu.NewMenuRepository(db), logger)
	orderHandler := orders.NewHandler(orders.NewOrderRepository(db), orderProducer, logger)
	messageHandler := messages.NewHandler(messages.NewMessageRepository(db), replyProducer, logger)
	analyticsHandler := analytics.NewHandler(analytics.NewAnalyticsRepository(db), logger)

	mux := http.NewServeMux()

	public := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.WithHTTPRoute(h))
	}
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, sessions.Middleware(telemetry.WithHTTPRoute(h)))
	}

	public("GET /api/v1/menu", menuHandler.HandleList)
	public("GET /api/v1/menu/{id}", menuHandler.HandleGet)
	admin("POST /api/v1/menu", menuHandler.HandleCreate)
	admin("PUT /api/v1/menu/{id}", menuHandler.HandleUpdate)
	admin("DELETE /api/v1/menu/{id}", menuHandler.HandleDelete)
	admin("PUT /api/v1/menu/{id}/toggle", menuHandler.HandleToggle)

	public("POST /api/v1/order", orderHandler.HandleCreate)
	public("GET /api/v1/order/{id}", orderHandler.HandleGet)
	admin("GET /api/v1/order", orderHandler.HandleList)
	admin("PUT /api/v1/order/{id}", orderHandler.HandleUpdateStatus)
	admin("DELETE /api/v1/order/{id}", orderHandler.HandleDelete)

	public("POST /api/v1/message", messageHandler.HandleCreate)
	admin("GET /api/v1/message", messageHandler.HandleList)
	admin("GET /api/v1/message/{id}", messageHandler.HandleGet)
	admin("PUT /api/v1/message/{id}", messageHandler.HandleUpdate)
	admin("DELETE /api/v1/message/{id}", messageHandler.HandleDelete)
	admin("PUT /api/v1/message/{id}/archive", messageHandler.HandleArchive)
	admin("POST /api/v1/message/{id}/reply", messageHandler.HandleReply)

	admin("GET /api/v1/analytics/summary", analyticsHandler.HandleSummary)
	admin("GET /api/v1/analytics/dashboard", analyticsHandler.HandleDashboard)
	admin("GET /api/v1/analytics/top-items", analyticsHandler.HandleTopItems)
	admin("GET /api/v1/analytics/revenue-trend", analyticsHandler.HandleRevenueTrend)

	public("GET /api/v1/auth/me", sessions.HandleMe)
	public("POST /api/v1/auth/logout", sessions.HandleLogout)

	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "restaurant-api",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting restaurant api", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

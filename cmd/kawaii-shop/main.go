package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kawaii-shop/backend/internal/api/handlers"
	"github.com/kawaii-shop/backend/internal/api/middleware"
	"github.com/kawaii-shop/backend/internal/cache"
	"github.com/kawaii-shop/backend/internal/config"
	"github.com/kawaii-shop/backend/internal/health"
	"github.com/kawaii-shop/backend/internal/metrics"
	repository "github.com/kawaii-shop/backend/internal/repositories"
	service "github.com/kawaii-shop/backend/internal/services"
	"github.com/kawaii-shop/backend/internal/telemetry"
	"github.com/kawaii-shop/backend/pkg/googleauth"
	"github.com/kawaii-shop/backend/pkg/razorpay"
	"github.com/kawaii-shop/backend/pkg/sendgrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	if cfg.Telemetry.Enabled {
		shutdownTracing, err := telemetry.Setup(context.Background(), &cfg.Telemetry)
		if err != nil {
			slog.Error("Error setting up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}

		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := shutdownTracing(flushCtx); err != nil {
				slog.Error("Error flushing traces", slog.String("error", err.Error()))
			}
		}()
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	sessionRepo := repository.NewSessionRepo(redisClient, cfg)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)
	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	// Third-party clients. Missing credentials disable the client rather
	// than failing startup, so local development works without secrets.
	var gatewayClient razorpay.Client
	if cfg.Razorpay.KeyID != "" {
		gatewayClient = razorpay.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	} else {
		slog.Warn("Payment gateway credentials missing, checkout will skip payment collection")
	}

	var emailClient sendgrid.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailClient = sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		slog.Warn("SendGrid credentials missing, confirmation emails disabled")
	}

	googleClient := googleauth.NewGoogleClient(cfg.Google.ClientID, cfg.Google.ClientSecret)

	// Services and handlers
	authService := service.NewAuthService(repos.User, sessionRepo, googleClient, &cfg.Session)
	authHandler := handlers.NewAuthHandler(authService, rateLimitRepo)
	userHandler := handlers.NewUserHandler(authService)
	productService := service.NewProductService(repos.Product, redisCache, cfg.Cache.ProductTTL)
	productHandler := handlers.NewProductHandler(productService)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	couponService := service.NewCouponService(repos.Coupon)
	couponHandler := handlers.NewCouponHandler(couponService)
	orderService := service.NewOrderService(repos.Order, repos.Product, repos.Coupon, repos.User,
		gatewayClient, emailClient, redisCache, &cfg.Razorpay)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(orderService)
	analyticsService := service.NewAnalyticsService(repos.Analytics, redisCache)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	authMiddleware := middleware.NewAuthMiddleware(sessionRepo, repos.User)

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	// public surface
	routerMux.HandleFunc("POST /api/v1/auth/google", authHandler.GoogleLogin())
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())

	// authenticated surface
	routerMux.HandleFunc("POST /api/v1/auth/logout", authMiddleware.Authenticate(authHandler.Logout()))
	routerMux.HandleFunc("GET /api/v1/users/me", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("PUT /api/v1/users/me", authMiddleware.Authenticate(userHandler.UpdateProfile()))
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{productId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("POST /api/v1/coupons/validate", authMiddleware.Authenticate(couponHandler.ValidateCoupon()))
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("POST /api/v1/payments/verify", authMiddleware.Authenticate(paymentHandler.VerifyPayment()))

	// admin surface
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(authMiddleware.RequireAdmin(productHandler.CreateProduct())))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(productHandler.UpdateProduct())))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(productHandler.DeleteProduct())))
	routerMux.HandleFunc("POST /api/v1/coupons", authMiddleware.Authenticate(authMiddleware.RequireAdmin(couponHandler.CreateCoupon())))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.Authenticate(authMiddleware.RequireAdmin(orderHandler.UpdateOrderStatus())))
	routerMux.HandleFunc("GET /api/v1/analytics/dashboard", authMiddleware.Authenticate(authMiddleware.RequireAdmin(analyticsHandler.Dashboard())))

	// operational endpoints
	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:            repos.DB,
		RedisClient:   redisClient,
		GatewayClient: gatewayClient,
	})
	if err != nil {
		slog.Error("Error setting up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.CORS(cfg.CORS.AllowedOriginList())(handler)
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)

	if cfg.Telemetry.Enabled {
		handler = otelhttp.NewHandler(handler, "http.server")
	}

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

}

package main

import (
	"context"

	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/olimov/ecomshop/internal/app"
	"github.com/olimov/ecomshop/internal/app/handlers"
	"github.com/olimov/ecomshop/internal/config"
	"github.com/olimov/ecomshop/internal/lib/logger"
	"github.com/olimov/ecomshop/internal/lib/logger/handlers/urllog"
	"github.com/olimov/ecomshop/internal/security/jwtmiddleware"
	"github.com/olimov/ecomshop/internal/service"
	"github.com/olimov/ecomshop/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	cfg := config.MustLoad()

	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.DB.Close()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	// repositories, one per table group
	userRepo := storage.NewUserRepository(application.DB)
	countryRepo := storage.NewCountryRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	deliveryRepo := storage.NewDeliveryRepository(application.DB)
	contactRepo := storage.NewContactRepository(application.DB)

	accessTTL := time.Duration(cfg.JWT.AccessTTL) * time.Minute
	refreshTTL := time.Duration(cfg.JWT.RefreshTTL) * time.Minute

	authService := service.NewAuthService(application.Logger, application.DB, userRepo, accessTTL, refreshTTL)
	userService := service.NewUserService(application.Logger, userRepo)
	countryService := service.NewCountryService(application.Logger, application.DB, countryRepo)
	productService := service.NewProductService(application.Logger, userRepo, productRepo)
	orderService := service.NewOrderService(application.Logger, userRepo, orderRepo)
	deliveryService := service.NewDeliveryService(application.Logger, application.DB, userRepo, deliveryRepo, orderRepo)
	contactService := service.NewContactService(application.Logger, contactRepo)

	router.Get("/", handlers.HealthHandler(application.Logger))

	// open endpoints
	router.Post("/identify/login", handlers.LoginHandler(application.Logger, authService))
	router.Post("/identify/register", handlers.RegisterHandler(application.Logger, authService))
	router.Get("/identify/users", handlers.ListUsersHandler(application.Logger, userService))
	router.Post("/identify/token/refresh", handlers.RefreshTokenHandler(application.Logger, authService))
	router.Post("/country/register", handlers.RegisterCountryHandler(application.Logger, countryService))
	router.Post("/country/{id}/cities", handlers.RegisterCityHandler(application.Logger, countryService))
	router.Post("/country/addresses", handlers.RegisterAddressHandler(application.Logger, countryService))
	router.Post("/contact/", handlers.SubmitContactHandler(application.Logger, contactService))

	// token-protected endpoints
	router.Group(func(r chi.Router) {
		jwtMW := jwtmiddleware.NewJWTMiddleware()
		r.Use(jwtMW)

		r.Get("/identify/token/verify", handlers.VerifyTokenHandler(application.Logger))
		r.Put("/identify/users/{id}", handlers.UpdateUserHandler(application.Logger, userService))
		r.Patch("/identify/users/{id}", handlers.PartialUpdateUserHandler(application.Logger, userService))

		r.Post("/products/create", handlers.CreateProductHandler(application.Logger, productService))
		r.Put("/products/update/{id}", handlers.UpdateProductHandler(application.Logger, productService))
		r.Delete("/products/delete/{id}", handlers.DeleteProductHandler(application.Logger, productService))
		r.Get("/products/", handlers.ListProductsHandler(application.Logger, productService))
		r.Get("/products/search/{slug}", handlers.GetProductBySlugHandler(application.Logger, productService))
		r.Put("/products/change-status/{user_id}", handlers.ChangeUserStatusHandler(application.Logger, userService))

		r.Post("/orders/", handlers.CreateOrderHandler(application.Logger, orderService))
		r.Get("/orders/", handlers.ListOrdersHandler(application.Logger, orderService))
		r.Get("/orders/{id}", handlers.GetOrderHandler(application.Logger, orderService))

		r.Post("/deliveries/", handlers.CreateDeliveryHandler(application.Logger, deliveryService))
		r.Get("/deliveries/", handlers.ListDeliveriesHandler(application.Logger, deliveryService))
		r.Get("/deliveries/{id}", handlers.GetDeliveryHandler(application.Logger, deliveryService))
		r.Patch("/deliveries/{id}/status", handlers.CompleteDeliveryHandler(application.Logger, deliveryService))
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}

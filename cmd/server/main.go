package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/transix/booking-backend/internal/config"
	"github.com/transix/booking-backend/internal/database"
	"github.com/transix/booking-backend/internal/handlers"
	"github.com/transix/booking-backend/internal/middleware"
	"github.com/transix/booking-backend/internal/services"
	"github.com/transix/booking-backend/pkg/jwt"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	tripRepo := database.NewTripRepository(db)
	bookingRepo := database.NewBookingRepository(db.DB)
	paymentRepo := database.NewPaymentRepository(db.DB)
	promoRepo := database.NewPromotionRepository(db.DB)
	agencyRepo := database.NewAgencyRepository(db.DB)
	userRepo := database.NewUserRepository(db.DB)
	sessionRepo := database.NewSessionRepository(db.DB)
	resetRepo := database.NewResetTokenRepository(db.DB)

	// Services
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	bookingSvc := services.NewBookingService(bookingRepo, tripRepo, agencyRepo, paymentRepo, cfg.Booking, logger)
	sweeperSvc := services.NewSweeperService(bookingRepo, cfg.Booking.SweepCutoff, logger)
	payunitSvc := services.NewPayUnitService(&cfg.Payment, logger)

	cronSvc := services.NewCronService(sweeperSvc, logger)
	if err := cronSvc.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start cron service")
	}

	// Handlers
	tripHandler := handlers.NewTripHandler(tripRepo, logger)
	bookingHandler := handlers.NewBookingHandler(bookingSvc, sweeperSvc, bookingRepo, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentRepo, bookingRepo, cfg.Booking.Currency, logger)
	promoHandler := handlers.NewPromoHandler(promoRepo, logger)
	payunitHandler := handlers.NewPayUnitHandler(payunitSvc, logger)
	authHandler := handlers.NewAuthHandler(userRepo, sessionRepo, resetRepo, jwtService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	requireAuth := middleware.RequireAuth(jwtService, logger)
	optionalAuth := middleware.OptionalAuth(jwtService)

	api := router.Group("/api/v1")
	{
		api.GET("/trips/trip-search", tripHandler.Search)

		bookings := api.Group("/bookings")
		{
			bookings.GET("/trip-seats/:tripId", bookingHandler.TripSeats)
			bookings.POST("/create-booking/:tripId", requireAuth, bookingHandler.Create)
			bookings.POST("/anon-booking/:tripId", bookingHandler.CreateAnonymous)
			bookings.GET("/user-bookings", requireAuth, bookingHandler.ListMine)
			bookings.GET("/booking/:bookingId", optionalAuth, bookingHandler.Get)
			bookings.POST("/cancel/:bookingId", optionalAuth, bookingHandler.Cancel)
			bookings.POST("/:bookingId/complete-reservation-payment", optionalAuth, bookingHandler.CompletePayment)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/record", paymentHandler.Record)
			payments.POST("/verify", paymentHandler.Verify)
			payments.GET("/by-booking/:bookingId", paymentHandler.ListByBooking)
		}

		api.POST("/promos/validate", promoHandler.Validate)
		api.POST("/payunit/initialize", payunitHandler.Initialize)

		users := api.Group("/users")
		{
			users.POST("/signup", authHandler.Signup)
			users.POST("/login", authHandler.Login)
			users.POST("/refresh-token", authHandler.Refresh)
			users.POST("/user-forgot", authHandler.ForgotPassword)
			users.POST("/user-reset", authHandler.ResetPassword)
			users.POST("/verify-reset-token", authHandler.VerifyResetToken)
			users.POST("/user-delete-account", requireAuth, authHandler.DeleteAccount)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	cronSvc.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Forced shutdown")
	}
	logger.Info("Server stopped")
}

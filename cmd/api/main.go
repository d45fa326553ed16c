package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/dinehub/dinehub-api/internal/config"
	"github.com/dinehub/dinehub-api/internal/domain/auth"
	"github.com/dinehub/dinehub-api/internal/domain/coupon"
	"github.com/dinehub/dinehub-api/internal/domain/loyalty"
	"github.com/dinehub/dinehub-api/internal/domain/order"
	"github.com/dinehub/dinehub-api/internal/middleware"
	"github.com/dinehub/dinehub-api/internal/pkg/database"
	"github.com/dinehub/dinehub-api/internal/pkg/email"
	"github.com/dinehub/dinehub-api/internal/pkg/jwt"
	"github.com/dinehub/dinehub-api/internal/pkg/logger"
	pkgresponse "github.com/dinehub/dinehub-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting DineHub API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, coupon cache disabled")
		redis = nil
	}
	if redis != nil {
		defer database.CloseRedis(redis)
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	emailService := email.NewService(email.LogSender{}, cfg.EmailFromName)
	defer emailService.Close()

	// ---------- Repositories ----------
	authRepo := auth.NewRepository(db)
	couponRepo := coupon.NewRepository(db)
	loyaltyRepo := loyalty.NewRepository(db)
	orderRepo := order.NewRepository(db)

	// ---------- Services ----------
	authService := auth.NewService(authRepo, jwtService)

	couponCache := coupon.NewCache(redis, cfg.CouponCacheTTL)
	recipients := &loyaltyRecipientAdapter{repo: loyaltyRepo}
	couponService := coupon.NewService(couponRepo, couponCache, emailService, recipients)

	loyaltyService := loyalty.NewService(loyaltyRepo, emailService)
	orderService := order.NewService(orderRepo, couponService, loyaltyService)

	if cfg.IsDevelopment() {
		if err := authService.SeedAdmin(context.Background(), cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			log.Error().Err(err).Msg("Failed to seed admin account")
		}
	}

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	couponHandler := coupon.NewHandler(couponService)
	loyaltyHandler := loyalty.NewHandler(loyaltyService)
	orderHandler := order.NewHandler(orderService)

	authMiddleware := middleware.Auth(jwtService)
	managerOnly := middleware.RequireManager()
	adminOnly := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware, adminOnly))
		r.Mount("/coupons", couponHandler.Routes(authMiddleware, managerOnly))
		r.Mount("/loyalty", loyaltyHandler.Routes(authMiddleware, managerOnly))
		r.Mount("/orders", orderHandler.Routes(authMiddleware))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped")
}

// loyaltyRecipientAdapter resolves coupon announcement recipients from the
// loyalty customer records.
type loyaltyRecipientAdapter struct {
	repo *loyalty.Repository
}

func (a *loyaltyRecipientAdapter) Recipients(ctx context.Context, customerIDs []string) ([]coupon.Recipient, error) {
	customers, err := a.repo.ListCustomerEmails(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	recipients := make([]coupon.Recipient, 0, len(customers))
	for i := range customers {
		recipients = append(recipients, coupon.Recipient{
			Email: customers[i].CustomerEmail,
			Name:  customers[i].CustomerEmail,
		})
	}
	return recipients, nil
}

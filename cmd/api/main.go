package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"codecore/internal/config"
	"codecore/internal/db"
	apihttp "codecore/internal/http"
	"codecore/internal/repository"
	"codecore/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	var (
		sessionStore service.TokenStore
		refreshStore service.TokenStore
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			sessionStore = service.NewRedisTokenStore(redisClient, "auth:session:")
			refreshStore = service.NewRedisTokenStore(redisClient, "auth:refresh:")
		}
		cancel()
	}

	accountRepo := repository.NewPgAccountRepository(pool)
	courseRepo := repository.NewPgCourseRepository(pool)
	completedRepo := repository.NewPgCompletedCourseRepository(pool)

	accountSvc := service.NewAccountService(logger, accountRepo, cfg.DefaultAvatarURL)
	courseSvc := service.NewCourseService(courseRepo, completedRepo)
	sessionSvc := service.NewSessionService(sessionStore, time.Duration(cfg.SessionTTLHours)*time.Hour)
	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		refreshStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	cookie := apihttp.CookieSettings{
		Name:   cfg.SessionCookieName,
		MaxAge: int(sessionSvc.TTL().Seconds()),
		Secure: cfg.SessionCookieSecure,
	}
	authMW := apihttp.NewAuthMiddleware(cfg.SessionCookieName, sessionSvc, jwtSvc, accountSvc)
	accountHandler := apihttp.NewAccountHandler(logger, accountSvc, sessionSvc, cookie)
	tokenHandler := apihttp.NewTokenHandler(logger, accountSvc, jwtSvc)
	courseHandler := apihttp.NewCourseHandler(logger, courseSvc)
	router := apihttp.NewRouter(logger, authMW, accountHandler, tokenHandler, courseHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

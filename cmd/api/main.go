package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"contactdesk/internal/config"
	"contactdesk/internal/db"
	"contactdesk/internal/domain"
	"contactdesk/internal/email"
	apihttp "contactdesk/internal/http"
	"contactdesk/internal/jobs"
	"contactdesk/internal/repository"
	"contactdesk/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

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

	// El servicio no arranca si el esquema no queda establecido.
	if err := db.Migrate(pool); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	codeRepo := repository.NewPgLoginCodeRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	contactRepo := repository.NewPgContactRepository(pool)

	if err := backfillOwner(ctx, cfg, userRepo, contactRepo); err != nil {
		logger.Fatal("owner backfill", zap.Error(err))
	}

	var sender email.Sender
	if cfg.SMTPHost != "" {
		smtpSender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed, codes go to the log", zap.Error(err))
		} else {
			sender = smtpSender
		}
	}

	var limiter service.RateLimiter
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
			limiter = service.NewRedisRateLimiter(redisClient, 10*time.Minute, 3)
		}
		cancel()
	}

	authSvc := service.NewAuthService(logger, userRepo, codeRepo, sessionRepo, sender, limiter)
	contactSvc := service.NewContactService(logger, contactRepo, cfg.ContactPageLimit)

	authHandler := apihttp.NewAuthHandler(logger, authSvc)
	contactHandler := apihttp.NewContactHandler(logger, contactSvc)
	router := apihttp.NewRouter(logger, cfg.CORSOrigin, authSvc, authHandler, contactHandler)

	scheduler := jobs.StartCodeCleanup(logger, codeRepo)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// backfillOwner asigna las filas de contactos heredadas sin dueño al usuario
// de OWNER_EMAIL, creándolo si hace falta. Sin OWNER_EMAIL no hay backfill.
func backfillOwner(ctx context.Context, cfg *config.Config, users repository.UserRepository, contacts repository.ContactRepository) error {
	ownerEmail := strings.ToLower(strings.TrimSpace(cfg.OwnerEmail))
	if ownerEmail == "" {
		return nil
	}

	owner, err := users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		owner = domain.User{
			ID:        uuid.NewString(),
			Email:     ownerEmail,
			CreatedAt: time.Now().UTC(),
		}
		if err := users.Create(ctx, owner); err != nil {
			return err
		}
	}

	_, err = contacts.AssignOwnerless(ctx, owner.ID)
	return err
}

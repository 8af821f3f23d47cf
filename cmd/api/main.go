// @title           YaMDb Review API
// @version         1.0
// @description     Reviews and ratings for books, films and music.
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/yamdb/review-api/docs"
	"github.com/yamdb/review-api/internal/api"
	"github.com/yamdb/review-api/internal/api/handler"
	"github.com/yamdb/review-api/internal/core/ports"
	"github.com/yamdb/review-api/internal/core/service"
	"github.com/yamdb/review-api/internal/infrastructure/config"
	"github.com/yamdb/review-api/internal/infrastructure/db/mongo"
	"github.com/yamdb/review-api/internal/infrastructure/db/redis"
	"github.com/yamdb/review-api/internal/infrastructure/mail"
	"github.com/yamdb/review-api/internal/infrastructure/queue"
	"github.com/yamdb/review-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	bootLog := logger.Init(logger.Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Pretty:  os.Getenv("ENV") != "production",
		Service: "review-api",
	})
	cfg := config.Load(bootLog)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index setup failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, mailSender(cfg, log), log)
	// Workers outlive the signal context so Close can drain pending mail.
	dispatcher.Start(context.Background())

	users := mongo.NewUserRepository(db)
	categories := mongo.NewCategoryRepository(db)
	genres := mongo.NewGenreRepository(db)
	titles := mongo.NewTitleRepository(db)
	reviews := mongo.NewReviewRepository(db)
	comments := mongo.NewCommentRepository(db)

	router := api.NewRouter(api.Dependencies{
		Log:           log,
		JWTSecret:     cfg.JWTSecret,
		AuthRateLimit: cfg.SignupRateLimit,
		Users:         users,

		AuthService: service.NewAuthService(
			users, dispatcher, redis.NewMailThrottle(rdb, cfg.Mail.ResendInterval),
			cfg.JWTSecret, cfg.TokenTTL, log,
		),
		UserService:     service.NewUserService(users, log),
		CategoryService: service.NewCategoryService(categories, log),
		GenreService:    service.NewGenreService(genres, log),
		TitleService:    service.NewTitleService(titles, categories, genres, log),
		ReviewService:   service.NewReviewService(reviews, titles, log),
		CommentService:  service.NewCommentService(comments, reviews, log),

		HealthChecks: []handler.HealthCheck{handler.MongoCheck(db), handler.RedisCheck(rdb)},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mail dispatcher did not drain")
	}
	log.Info().Msg("shutdown complete")
}

// mailSender picks SMTP delivery when a host is configured and falls back to
// logging messages otherwise.
func mailSender(cfg *config.Config, log zerolog.Logger) ports.MailSender {
	if cfg.Mail.SMTPHost == "" {
		log.Warn().Msg("SMTP_HOST not set, confirmation mails are logged only")
		return mail.NewLogSender(log)
	}
	return mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		Username: cfg.Mail.SMTPUsername,
		Password: cfg.Mail.SMTPPassword,
		From:     cfg.Mail.From,
	})
}

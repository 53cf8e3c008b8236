package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/config"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/database"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/handler"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/notify"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/queue"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/repository"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/router"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	rdb, err := config.NewRedisClient()
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	users := repository.NewUserRepo(db)
	secrets := repository.NewRedisSecretStore(rdb)
	sessions := repository.NewSessionCache(secrets)
	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})

	var events service.EventPublisher
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL)
		go queue.StartAuditConsumer(cfg.AMQPURL)
	}

	auth := service.NewAuthService(service.Config{
		JWTSecret:     cfg.JWTSecret,
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
		ActivationTTL: config.ActivationTTL,
		PendingTTL:    config.PendingTTL,
		OTPTTL:        config.OTPTTL,
		BcryptCost:    cfg.BcryptCost,
	}, users, secrets, sessions, mailer, events)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, auth), auth, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/rx0a/rayspace/internal/authservice"
	"github.com/rx0a/rayspace/internal/commentservice"
	"github.com/rx0a/rayspace/internal/common"
	"github.com/rx0a/rayspace/internal/githubservice"
	"github.com/rx0a/rayspace/internal/mailservice"
	"github.com/rx0a/rayspace/internal/pageservice"
	"github.com/rx0a/rayspace/internal/postservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	postService    *postservice.PostService
	commentService *commentservice.CommentService
	authService    *authservice.AuthService
	githubService  *githubservice.GitHub
	pageService    *pageservice.PageService
	mailService    *mailservice.MailService
	broker         *common.MessageBroker
	limiter        *common.RateLimiter
}

func main() {
	envFile := flag.String("env", ".env", "path to the dotenv configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(*envFile)
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.MigrateOnStart {
		if err := migrateUp(cfg); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	db, err := common.NewDB(cfg.dsn(), 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	broker, err := common.NewMessageBroker(common.BrokerURI(cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort))
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupGuestbookExchange(broker)
	if err != nil {
		logger.Error("failed to setup the guestbook exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app, err := newApplication(cfg, logger, db, broker)
	if err != nil {
		logger.Error("failed to initialise the application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := app.mailService.NotifyGuestbookSignatures(); err != nil {
		logger.Error("guestbook notifications disabled", slog.String("error", err.Error()))
	}
	defer app.mailService.Close()

	err = app.serve(":" + cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func migrateUp(cfg *Config) error {
	m, err := common.Migrate(cfg.MigrationsPath, cfg.dsn())
	if err != nil {
		return err
	}
	srcErr, dbErr := m.Close()
	return errors.Join(srcErr, dbErr)
}

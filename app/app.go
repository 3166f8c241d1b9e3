package main

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/rx0a/rayspace/internal/authservice"
	"github.com/rx0a/rayspace/internal/commentservice"
	"github.com/rx0a/rayspace/internal/common"
	"github.com/rx0a/rayspace/internal/githubservice"
	"github.com/rx0a/rayspace/internal/mailservice"
	"github.com/rx0a/rayspace/internal/pageservice"
	"github.com/rx0a/rayspace/internal/postservice"
)

// newApplication wires the services together. broker may be nil, in which case
// guestbook events are not published.
func newApplication(cfg *Config, logger *slog.Logger, db *sql.DB, broker *common.MessageBroker) (*application, error) {
	secret, err := cfg.secretKey()
	if err != nil {
		return nil, err
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	gh := githubservice.NewGitHub(cfg.GithubAPIURL, cfg.GithubRepoOwner, cfg.GithubRepoName, cache)

	authService, err := authservice.NewAuthService(authservice.Config{
		ClientID:      cfg.GithubClientID,
		ClientSecret:  cfg.GithubClientSecret,
		RedirectURL:   cfg.GithubRedirectURL,
		AdminUserID:   cfg.AdminUserID,
		EditorUserIDs: cfg.editorIDs(),
		SecretKey:     secret,
		Secure:        cfg.isProduction(),
	}, gh)
	if err != nil {
		return nil, err
	}

	var producer common.MessageProducer
	var consumer common.MessageConsumer
	if broker != nil {
		producer, consumer = broker, broker
	}

	postService := postservice.NewPostService(db, cache)
	commentService := commentservice.NewCommentService(db, producer, logger)

	pageService, err := pageservice.NewPageService(pageservice.Config{
		PagesDir: cfg.PagesDir,
		SiteName: cfg.SiteName,
		SiteURL:  cfg.SiteURL,
	}, postService, commentService, gh)
	if err != nil {
		return nil, err
	}

	app := &application{
		config:         cfg,
		logger:         logger,
		postService:    postService,
		commentService: commentService,
		authService:    authService,
		githubService:  gh,
		pageService:    pageService,
		mailService: mailservice.NewMailService(consumer, mailservice.Config{
			Host:       cfg.MailHost,
			Port:       cfg.MailPort,
			Username:   cfg.MailUser,
			Password:   cfg.MailPassword,
			Sender:     cfg.MailSender,
			OwnerEmail: cfg.OwnerEmail,
			SiteURL:    cfg.SiteURL,
		}, logger),
		broker: broker,
	}

	if cfg.LimiterEnabled {
		app.limiter = common.NewRateLimiter(cfg.LimiterRPS, cfg.LimiterBurst, 3*time.Minute)
	}

	return app, nil
}

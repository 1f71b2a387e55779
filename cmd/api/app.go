package main

import (
	"database/sql"
	"time"

	"pet-care-hub/internal/adapters/auth/jwt"
	"pet-care-hub/internal/adapters/mail/logmail"
	"pet-care-hub/internal/adapters/mail/smtp"
	"pet-care-hub/internal/adapters/mail/webhook"
	"pet-care-hub/internal/adapters/storage"
	"pet-care-hub/internal/adapters/storage/postgres"
	"pet-care-hub/internal/domain/notifications"
	"pet-care-hub/internal/platform/config"
	"pet-care-hub/internal/platform/logger"
	"pet-care-hub/internal/ports/mail"
	"pet-care-hub/internal/router"
)

// Secretos fijos solo para DEV_AUTH sin secretos configurados.
const (
	devAccessSecret  = "dev-access-secret"
	devRefreshSecret = "dev-refresh-secret"
)

// app es todo lo que comparten los subcomandos.
type app struct {
	cfg      config.Config
	log      logger.Logger
	db       *sql.DB
	stores   storage.Stores
	issuer   *jwt.Issuer
	services *router.Services
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	a := &app{cfg: cfg, log: log}

	if cfg.DatabaseDSN != "" {
		db, err := postgres.Open(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.stores = storage.NewPostgres(db)
		log.Info("using postgres storage", nil)
	} else {
		a.stores = storage.NewMemory()
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	access, refresh := cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret
	if cfg.DevAuth && (access == "" || refresh == "") {
		log.Warn("DEV_AUTH without token secrets, using development secrets", nil)
		access, refresh = devAccessSecret, devRefreshSecret
	}
	a.issuer, err = jwt.NewIssuer(jwt.Options{
		AccessSecret:  access,
		RefreshSecret: refresh,
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
		Issuer:        cfg.AppName,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.services = router.NewServices(a.stores, a.issuer, cfg.Location())
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// scanner arma el scanner con el finder del backend (joins en Postgres).
func (a *app) scanner() (*notifications.Scanner, error) {
	sender, err := a.mailSender()
	if err != nil {
		return nil, err
	}

	var (
		finder notifications.Finder
		marker notifications.Marker
	)
	if a.stores.DueTasks != nil {
		finder, marker = a.stores.DueTasks, a.stores.DueTasks
	} else {
		sf := notifications.NewServiceFinder(a.services.Pets, a.services.Users, a.services.Edges)
		finder, marker = sf, sf
	}

	return notifications.NewScanner(finder, marker,
		notifications.NewNotifier(sender, a.cfg.SMTP.From),
		a.log,
		notifications.ScannerOptions{
			Interval:   a.cfg.Notify.Interval,
			MaxCatchUp: a.cfg.Notify.MaxCatchUp,
		},
	), nil
}

// mailSender: SMTP si está configurado, si no webhook, si no solo log.
func (a *app) mailSender() (mail.Sender, error) {
	switch {
	case a.cfg.SMTP.Configured():
		return smtp.New(smtp.Config{
			Host:     a.cfg.SMTP.Host,
			Port:     a.cfg.SMTP.Port,
			Username: a.cfg.SMTP.Username,
			Password: a.cfg.SMTP.Password,
			From:     a.cfg.SMTP.From,
		})
	case a.cfg.Notify.WebhookURL != "":
		return webhook.New(a.cfg.Notify.WebhookURL, a.cfg.Notify.WebhookToken, 10*time.Second)
	default:
		a.log.Warn("no mail transport configured, notifications will only be logged", nil)
		return logmail.New(a.log), nil
	}
}

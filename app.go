package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"example.com/storefront/internal/config"
	domcart "example.com/storefront/internal/domain/cart"
	"example.com/storefront/internal/infra/mail"
	"example.com/storefront/internal/infra/persistence/file"
	"example.com/storefront/internal/infra/persistence/mysql"
	"example.com/storefront/internal/infra/persistence/postgres"
	"example.com/storefront/internal/infra/persistence/sqlite"
	"example.com/storefront/internal/logging"
)

// app holds the process-wide resources shared by the commands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	pg     *pgxpool.Pool
	sqlite *sql.DB
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	a.db, err = mysql.Open(ctx, cfg.MySQL.DSN)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Postgres.DSN != "" {
		a.pg, err = postgres.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// cartStorage returns the backend selected by cart.storage.
func (a *app) cartStorage(ctx context.Context) (domcart.Storage, error) {
	switch a.cfg.Cart.Storage {
	case config.StorageFile:
		return file.NewCartStorage(a.cfg.Cart.Dir)
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, a.cfg.Cart.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.sqlite = db
		return sqlite.NewCartStorage(db), nil
	case config.StoragePostgres:
		if err := postgres.EnsureSchema(ctx, a.pg); err != nil {
			return nil, err
		}
		return postgres.NewCartStorage(a.pg), nil
	case config.StorageMySQL:
		return mysql.NewCartStorage(a.db), nil
	default:
		return nil, fmt.Errorf("unknown cart storage %q", a.cfg.Cart.Storage)
	}
}

type mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

func (a *app) mailer() (mailer, error) {
	m := a.cfg.Mail
	switch {
	case m.SendGridAPIKey != "":
		return mail.NewSendGridMailer(m.SendGridAPIKey, m.From, m.FromName, a.logger)
	case m.SMTPAddr != "":
		return mail.NewSMTPMailer(m.SMTPAddr, m.From, m.SMTPUsername, m.SMTPPassword), nil
	default:
		return mail.NewLogMailer(a.logger), nil
	}
}

func (a *app) Close() {
	if a.sqlite != nil {
		_ = a.sqlite.Close()
	}
	if a.pg != nil {
		a.pg.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.logger.Sync()
}

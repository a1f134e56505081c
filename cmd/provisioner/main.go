// Package main contains the entrypoint for the database account provisioner.
// It runs once at container startup and exits 0 when the account exists.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgard/botdb-provisioner/internal/config"
	"github.com/edgard/botdb-provisioner/internal/logger"
	"github.com/edgard/botdb-provisioner/internal/mongodb"
	"github.com/edgard/botdb-provisioner/internal/notify"
	"github.com/edgard/botdb-provisioner/internal/provisioner"
)

// notifyTimeout bounds delivery of the result notification.
const notifyTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run loads configuration, connects to MongoDB and ensures the account exists.
// It returns 0 on success and 1 on any failure.
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "step", "config", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Debug("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	spec := provisioner.AccountSpec{
		Database: cfg.Account.Database,
		Username: cfg.Account.Username,
		Password: cfg.Account.Password,
	}
	notifier := newNotifier(cfg.Telegram, log)

	ctx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		log.Error("Failed to connect to MongoDB", "step", provisioner.FailedStep(err), "error", err)
		report(ctx, notifier, spec, 0, err)
		return 1
	}
	defer client.Close(context.WithoutCancel(ctx))

	outcome, err := provisioner.New(client, log).EnsureAccount(ctx, spec)
	report(ctx, notifier, spec, outcome, err)
	if err != nil {
		log.Error("Failed to ensure account",
			"step", provisioner.FailedStep(err),
			"db", spec.Database,
			"user", spec.Username,
			"error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			log.Error("Provisioning timed out", "timeout", cfg.Mongo.Timeout)
		}
		return 1
	}

	log.Debug("Provisioning finished", "outcome", outcome.String())
	return 0
}

// newNotifier returns a Telegram notifier when configured, otherwise a no-op.
func newNotifier(cfg config.TelegramConfig, log *slog.Logger) notify.Notifier {
	if !cfg.Enabled() {
		return notify.Nop{}
	}
	n, err := notify.NewTelegram(cfg.Token, cfg.AdminID, log)
	if err != nil {
		log.Warn("Telegram notifications disabled", "error", err)
		return notify.Nop{}
	}
	return n
}

// report notifies even when ctx has already expired.
func report(ctx context.Context, n notify.Notifier, spec provisioner.AccountSpec, outcome provisioner.Outcome, err error) {
	nCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	n.Notify(nCtx, spec, outcome, err)
}

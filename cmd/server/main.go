package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/edouardv/campus-manager/internal/app"
	"github.com/edouardv/campus-manager/internal/config"
	"github.com/edouardv/campus-manager/internal/ctxutil"
	"github.com/edouardv/campus-manager/internal/db"
	"github.com/edouardv/campus-manager/internal/jobs"
	"github.com/edouardv/campus-manager/internal/livequery"
	"github.com/edouardv/campus-manager/internal/logging"
	"github.com/edouardv/campus-manager/internal/metrics"
	"github.com/edouardv/campus-manager/internal/notify"
	"github.com/edouardv/campus-manager/internal/observability"
	"github.com/edouardv/campus-manager/internal/service"
	"github.com/edouardv/campus-manager/internal/session"
)

var release = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, relying on process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer lg.Closer()
	slog := lg.Sugar

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		slog.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Fatalw("db open", "err", err)
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(ctx, database); err != nil {
		slog.Fatalw("migrate", "err", err)
	}

	store := db.NewStore(database, livequery.NewBroker())

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		slog.Fatalw("hash admin password", "err", err)
	}
	seedCtx, cancel := ctxutil.WithDBTimeout(ctx)
	adminID, err := store.EnsureAdmin(seedCtx, cfg.AdminEmail, string(hash))
	cancel()
	if err != nil {
		slog.Fatalw("seed admin", "err", err)
	}
	slog.Infow("admin ready", "user_id", adminID)

	sessions := session.NewManager(cfg.SessionTTL)
	svc := service.New(store, sessions, slog)

	if cfg.BotToken != "" && cfg.NotifyChatID != 0 {
		tn, err := notify.NewTelegram(cfg.BotToken, cfg.NotifyChatID, slog)
		if err != nil {
			slog.Warnw("telegram notifier disabled", "err", err)
		} else {
			svc.SetNotifier(tn)
		}
	}

	app.StartHTTP(ctx, cfg.HTTPAddr, database)

	runner := jobs.New(ctx)
	runner.Every(time.Minute, "session_sweep", func(context.Context) error {
		sessions.Sweep()
		metrics.SessionsActive.Set(float64(sessions.Active()))
		return nil
	})
	runner.Every(30*time.Second, "db_ping", func(jctx context.Context) error {
		pingCtx, cancel := ctxutil.WithDBTimeout(jctx)
		defer cancel()
		t0 := time.Now()
		if err := database.PingContext(pingCtx); err != nil {
			return err
		}
		metrics.ObserveDBPing(time.Since(t0))
		return nil
	})

	slog.Infow("campus-manager up", "addr", cfg.HTTPAddr, "env", cfg.Env)
	<-ctx.Done()
	slog.Infow("shutting down")
}

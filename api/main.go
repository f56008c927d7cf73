package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/algamoney-api/internal/auth"
	"github.com/rogerio-castellano/algamoney-api/internal/config"
	"github.com/rogerio-castellano/algamoney-api/internal/db"
	"github.com/rogerio-castellano/algamoney-api/internal/http/ban"
	"github.com/rogerio-castellano/algamoney-api/internal/http/handlers"
	mw "github.com/rogerio-castellano/algamoney-api/internal/http/middleware"
	rl "github.com/rogerio-castellano/algamoney-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/algamoney-api/internal/http/router"
	"github.com/rogerio-castellano/algamoney-api/internal/ledger"
	"github.com/rogerio-castellano/algamoney-api/internal/logging"
	"github.com/rogerio-castellano/algamoney-api/internal/redissvc"
	"github.com/rogerio-castellano/algamoney-api/internal/repo"
	"github.com/sirupsen/logrus"
)

// @title Algamoney API
// @version 1.0
// @description Ledger entry search and OAuth token endpoints.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	cnf, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("could not load config: %v", err)
	}
	logging.Setup(cnf.Log.Level, cnf.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisService, err := redissvc.Connect(ctx, cnf.Redis.Addr, cnf.Redis.Password, cnf.Redis.DB)
	if err != nil {
		logrus.Fatalf("could not connect to redis: %v", err)
	}
	defer redisService.Close()

	database, err := db.Connect(ctx, cnf.Database.URL)
	if err != nil {
		logrus.Fatalf("could not connect to database: %v", err)
	}
	defer database.Close()

	gdb, err := db.OpenGorm(database)
	if err != nil {
		logrus.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatal(err)
	}

	issuer := auth.NewTokenIssuer([]byte(cnf.Auth.JWTSecret), cnf.Auth.AccessTTL)
	refreshStore := auth.NewRefreshTokenStore(redisService.Rdb(), cnf.Auth.RefreshTTL)
	authService := auth.NewAuthService(repo.NewPostgresUserRepository(database), issuer, refreshStore)

	if cnf.Auth.AdminPassword != "" {
		if err := authService.EnsureUser(ctx, cnf.Auth.AdminUsername, cnf.Auth.AdminPassword, "admin"); err != nil {
			logrus.Fatalf("could not bootstrap admin user: %v", err)
		}
	}

	ledgerService := ledger.NewService(
		repo.NewGormLedgerRepository(gdb),
		repo.NewTextLedgerRepository(gdb),
	)

	handlers.SetLedgerService(ledgerService)
	handlers.SetAuthService(authService)
	handlers.SetCookieSecure(cnf.Auth.CookieSecure)
	mw.SetTokenIssuer(issuer)
	ban.SetRedisService(redisService)

	rl.Configure(cnf.RateLimit.RPS, cnf.RateLimit.Burst)
	go rl.StartVisitorCleanupLoop(ctx)
	go ban.StartDailyBanSummary(ctx, 24*time.Hour)

	srv := &http.Server{
		Addr:              cnf.HTTP.Addr,
		Handler:           router.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("graceful shutdown failed")
		}
	}()

	logrus.WithField("addr", cnf.HTTP.Addr).Info("server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatal(err)
	}
	logrus.Info("server stopped")
}

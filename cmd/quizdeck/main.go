package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/quizdeck/internal/clock"
	"github.com/aliskhannn/quizdeck/internal/config"
	"github.com/aliskhannn/quizdeck/internal/delivery/telegram"
	"github.com/aliskhannn/quizdeck/internal/delivery/web"
	"github.com/aliskhannn/quizdeck/internal/infra/postgres"
	"github.com/aliskhannn/quizdeck/internal/logger"
	"github.com/aliskhannn/quizdeck/internal/repository"
	"github.com/aliskhannn/quizdeck/internal/service"
	"github.com/aliskhannn/quizdeck/internal/storage"
)

func main() {
	configPath := pflag.String("config", "", "path to the config file (default ./config/config.yaml)")
	pflag.Parse()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("quizdeck stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	clk := clock.Real()

	// Initialize repositories and services.
	sourceRepo := repository.NewDirSourceRepository(cfg.DataDir, &http.Client{Timeout: cfg.FetchTimeout})
	recordRepo := repository.NewRecordRepository()

	catalogService := service.NewCatalogService(
		cfg.Catalog.Entries,
		sourceRepo,
		recordRepo,
		cfg.Catalog.RefreshSchedule,
		lg,
	)
	deckService := service.NewDeckService(sourceRepo, recordRepo, lg)
	sessionService := service.NewSessionService(
		storage.NewSessionStorage(clk, cfg.DefaultTopic),
		catalogService,
		deckService,
		clk,
		service.SessionConfig{
			RevealDelay:   cfg.RevealDelay,
			IdleTTL:       cfg.Sessions.IdleTTL,
			EvictSchedule: cfg.Sessions.EvictSchedule,
		},
		lg,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return catalogService.Start(ctx) })
	g.Go(func() error { return sessionService.Start(ctx) })

	if cfg.TelegramAPIToken != "" {
		handler, err := newTelegramHandler(ctx, cfg, lg, catalogService, sessionService)
		if err != nil {
			return err
		}
		g.Go(func() error { return handler.Run(ctx) })
	}

	if cfg.HTTP.Address != "" {
		handler := web.NewHandler(lg, catalogService, sessionService)
		server := web.NewServer(cfg.HTTP.Address, handler.Routes(), lg)
		g.Go(func() error { return server.Serve(ctx) })
	}

	return g.Wait()
}

func newTelegramHandler(
	ctx context.Context,
	cfg *config.Config,
	lg *zap.Logger,
	catalogService *service.CatalogService,
	sessionService *service.SessionService,
) (*telegram.Handler, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on telegram", zap.String("username", bot.Self.UserName))

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "catalog", Description: "Choose a question bank"},
		{Command: "jump", Description: "Go to a question"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	// The user registry is optional: without DATABASE_URL chats are served
	// without being recorded.
	var userService telegram.UserService
	if cfg.DB.Enabled() {
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, err
		}
		context.AfterFunc(ctx, pool.Close)

		userService = service.NewUserService(repository.NewUserRepository(pool))
	}

	return telegram.NewHandler(bot, lg, catalogService, sessionService, userService), nil
}

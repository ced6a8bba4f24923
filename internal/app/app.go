// Package app assembles the bot: configuration, logging, database, services
// and the Telegram runtime options.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/buffpay/internal/admin"
	"github.com/m3rciful/buffpay/internal/buildinfo"
	"github.com/m3rciful/buffpay/internal/config"
	"github.com/m3rciful/buffpay/internal/database"
	"github.com/m3rciful/buffpay/internal/gate"
	"github.com/m3rciful/buffpay/internal/handler"
	"github.com/m3rciful/buffpay/internal/intake"
	"github.com/m3rciful/buffpay/internal/logger"
	"github.com/m3rciful/buffpay/internal/notify"
	"github.com/m3rciful/buffpay/internal/session"
	"github.com/m3rciful/buffpay/internal/storage"
	tg "github.com/m3rciful/buffpay/internal/telegram"
	"github.com/m3rciful/buffpay/internal/telegram/router"
)

// App holds the assembled bot components.
type App struct {
	cfg      *config.Config
	client   *botClient
	handlers *handler.Handlers
	registry *tg.Registry
	closeDB  func() error
}

// botClient exposes the running telebot instance to components built before
// the bot exists. The pointer is set in OnStart and cleared in OnStop.
type botClient struct {
	bot atomic.Pointer[tele.Bot]
}

func (b *botClient) current() (*tele.Bot, error) {
	bot := b.bot.Load()
	if bot == nil {
		return nil, errors.New("bot not running")
	}
	return bot, nil
}

// Send delivers an HTML message directly to a user. One attempt, no retries.
func (b *botClient) Send(userID int64, text string) error {
	bot, err := b.current()
	if err != nil {
		return err
	}
	_, err = bot.Send(&tele.User{ID: userID}, text, tele.ModeHTML)
	return err
}

// ChatMemberOf proxies the membership lookup for the subscription oracle.
func (b *botClient) ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error) {
	bot, err := b.current()
	if err != nil {
		return nil, err
	}
	return bot.ChatMemberOf(chat, user)
}

// ChatByUsername proxies public channel resolution for the oracle.
func (b *botClient) ChatByUsername(name string) (*tele.Chat, error) {
	bot, err := b.current()
	if err != nil {
		return nil, err
	}
	return bot.ChatByUsername(name)
}

// Bootstrap initializes the logger and database and wires every service.
func Bootstrap(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: database initialization failed: %w", err)
	}
	if err := database.RunMigrations(cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: migrations failed: %w", err)
	}

	client := &botClient{}

	repo := storage.NewRequestRepo(db)
	sessions := session.NewMemoryStore()
	oracle := gate.NewChannelOracle(client, cfg.Channel)
	accessGate := gate.New(oracle)
	notifier := notify.New(client, cfg.Manager, cfg.Admins)
	intakeSvc := intake.New(sessions, repo, notifier, cfg.Manager.Username)

	registry := admin.NewRegistry(cfg.Admins)
	panel := admin.NewPanel(registry, repo)

	handlers := handler.New(cfg, accessGate, intakeSvc, panel)

	commandReg := tg.NewRegistry()
	handlers.Register(commandReg)

	return &App{
		cfg:      cfg,
		client:   client,
		handlers: handlers,
		registry: commandReg,
		closeDB:  db.Close,
	}, nil
}

// TelegramRunOptions builds the runtime options for the Telegram transport.
func (a *App) TelegramRunOptions() tg.RunOptions {
	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminChecker:  a.handlers,
		OnAdminReject: a.handlers.AdminReject,
	})
	routes = append(routes, router.TextRoute(a.handlers, a.registry))
	routes = append(routes, router.CallbackRoute(a.registry))

	startedAt := time.Now()

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, bot *tele.Bot) error {
			a.client.bot.Store(bot)
			logger.Info(ctx, "app", "ready",
				slog.String("version", buildinfo.Version),
				slog.String("commit", buildinfo.Commit),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, _ *tele.Bot) error {
			logger.Info(ctx, "app", "shutdown")
			a.client.bot.Store(nil)
			return a.closeDB()
		},
	}
}

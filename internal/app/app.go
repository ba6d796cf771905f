package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tg-seed-bot/external_resource/cloudflare"
	"tg-seed-bot/internal/dispatcher"
	"tg-seed-bot/internal/domain"
	"tg-seed-bot/internal/handler"
	"tg-seed-bot/internal/handler/telegram"
	"tg-seed-bot/internal/loader"
	"tg-seed-bot/internal/repository"
	"tg-seed-bot/internal/usecase"
	"tg-seed-bot/pkg/config"
	"tg-seed-bot/pkg/logger"
)

var log = logger.Component("app")

// App wires configuration, logging, the Telegram transport and the handler units
type App struct {
	cfg        *config.Config
	units      []loader.Unit
	dispatcher *dispatcher.Dispatcher

	initLogger    func(dir, name, level string) error
	newTransport  func(cfg *config.Config, d *dispatcher.Dispatcher) (handler.Transport, error)
	newWebhookDNS func(cfg *config.Config) (usecase.WebhookDNSUsecase, error)
	signals       <-chan os.Signal
	exit          func(code int)
}

// New creates an App that will load units
func New(cfg *config.Config, units []loader.Unit) *App {
	return &App{
		cfg:           cfg,
		units:         units,
		dispatcher:    dispatcher.New(),
		initLogger:    logger.Init,
		newTransport:  newTelegramTransport,
		newWebhookDNS: newWebhookDNS,
		exit: func(code int) {
			_ = logger.Close()
			os.Exit(code)
		},
	}
}

// Run starts the bot and blocks until the transport loop ends. In either mode
// an interrupt runs the shutdown path, which exits the process with ExitOK.
func (a *App) Run(ctx context.Context) error {
	if err := a.initLogger(a.cfg.LogDir, a.cfg.Name, a.cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log.WithField("name", a.cfg.Name).Info("starting")

	transport, err := a.newTransport(a.cfg, a.dispatcher)
	if err != nil {
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}

	if _, err := loader.Load(a.dispatcher, a.units); err != nil {
		return fmt.Errorf("failed to load handlers: %w", err)
	}
	a.dispatcher.Seal()
	log.Debugf("dispatcher sealed with %d command(s)", a.dispatcher.Len())

	if a.cfg.UseCloudflare() {
		if _, err := a.PublishWebhookHost(ctx); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := a.signals
	if signals == nil {
		sigChan := make(chan os.Signal, 2)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		signals = sigChan
	}

	shutdown := NewShutdown(a.cfg.ShutdownTimeout, a.exit)

	if !a.cfg.Webhook {
		shutdown.Add("stop polling", func(context.Context) error { return transport.Stop() })
		go shutdown.Watch(ctx, signals)

		log.Info("mode: polling")
		return transport.Poll(ctx)
	}

	serveCtx, stopServing := context.WithCancel(ctx)
	defer stopServing()
	shutdown.Add("delete webhook", transport.DeleteWebhook)
	shutdown.Add("stop webhook server", func(context.Context) error {
		stopServing()
		return nil
	})
	go shutdown.Watch(ctx, signals)

	log.WithField("addr", a.cfg.ListenAddr()).Info("mode: webhook")
	if err := transport.SetWebhook(); err != nil {
		return err
	}
	if err := transport.ServeWebhook(serveCtx); err != nil {
		// nobody will answer Telegram's pushes any more
		cleanupCtx, cancelCleanup := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancelCleanup()
		if deleteErr := transport.DeleteWebhook(cleanupCtx); deleteErr != nil {
			log.WithError(deleteErr).Warn("failed to delete webhook after server error")
		}
		return err
	}
	return nil
}

// PublishWebhookHost makes the webhook URL's host resolve to the configured
// DNS target in Cloudflare
func (a *App) PublishWebhookHost(ctx context.Context) (*domain.DNSRecord, error) {
	dns, err := a.newWebhookDNS(a.cfg)
	if err != nil {
		return nil, err
	}
	record, err := dns.Ensure(ctx, a.cfg.WebhookOptions.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to publish webhook host: %w", err)
	}
	return record, nil
}

// Commands returns the command names registered so far
func (a *App) Commands() []string {
	return a.dispatcher.Commands()
}

func newTelegramTransport(cfg *config.Config, d *dispatcher.Dispatcher) (handler.Transport, error) {
	bot, err := telegram.NewBot(cfg.Token, cfg.Debug, d, transportOptions(cfg))
	if err != nil {
		return nil, err
	}
	return bot, nil
}

func transportOptions(cfg *config.Config) telegram.Options {
	return telegram.Options{
		PollTimeout: cfg.PollTimeout,
		ListenAddr:  cfg.ListenAddr(),
		URLPath:     cfg.WebhookOptions.URLPath,
		WebhookURL:  cfg.WebhookOptions.WebhookURL,
		Certificate: cfg.WebhookOptions.Certificate,
		Key:         cfg.WebhookOptions.Key,
		TLS:         cfg.UseTLS(),
	}
}

func newWebhookDNS(cfg *config.Config) (usecase.WebhookDNSUsecase, error) {
	client, err := cloudflare.NewClient(cfg.Cloudflare.APIToken)
	if err != nil {
		return nil, err
	}

	return usecase.NewWebhookDNSUsecase(
		repository.NewZoneRepository(client),
		repository.NewDNSRepository(client),
		usecase.WebhookDNSConfig{
			Zone:    cfg.Cloudflare.Zone,
			Target:  cfg.Cloudflare.Target,
			Proxied: cfg.Cloudflare.Proxied,
		},
	), nil
}

// ensure Bot implements handler.Transport
var _ handler.Transport = (*telegram.Bot)(nil)

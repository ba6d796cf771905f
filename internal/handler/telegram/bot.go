package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"tg-seed-bot/internal/dispatcher"
	"tg-seed-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/kjk/betterguid"
)

const (
	webhookQueueSize      = 100
	serverShutdownTimeout = 5 * time.Second
)

var log = logger.Component("telegram")

// API is the subset of *tgbotapi.BotAPI the bot uses
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetWebhookInfo() (tgbotapi.WebhookInfo, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// Dispatcher routes one update to its command handler
type Dispatcher interface {
	Dispatch(ctx context.Context, sender dispatcher.Sender, update tgbotapi.Update) error
}

// Options configures polling and webhook mode
type Options struct {
	PollTimeout int // seconds

	ListenAddr  string // host:port
	URLPath     string
	WebhookURL  string
	Certificate string // uploaded to Telegram when set
	Key         string
	TLS         bool // serve TLS with Certificate and Key
}

// Bot implements handler.Transport for Telegram
type Bot struct {
	api        API
	dispatcher Dispatcher
	opts       Options

	stopOnce sync.Once
	inflight sync.WaitGroup
}

// NewBot connects to Telegram with token. A rejected token is an error.
func NewBot(token string, debug bool, d Dispatcher, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	log.Infof("Authorized on account %s", api.Self.UserName)
	return NewBotWithAPI(api, d, opts), nil
}

// NewBotWithAPI wraps an existing client
func NewBotWithAPI(api API, d Dispatcher, opts Options) *Bot {
	return &Bot{
		api:        api,
		dispatcher: d,
		opts:       opts,
	}
}

// Poll long-polls Telegram and dispatches updates until ctx is done or the
// update channel closes. A leftover webhook is deleted first, since Telegram
// rejects getUpdates while one is set.
func (b *Bot) Poll(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to clear webhook before polling: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.opts.PollTimeout

	updates := b.api.GetUpdatesChan(u)
	log.WithField("timeout", u.Timeout).Info("polling started")

	b.consume(ctx, updates)
	b.Stop()
	b.inflight.Wait()
	return nil
}

// SetWebhook registers the public webhook URL, uploading the certificate when one is configured
func (b *Bot) SetWebhook() error {
	var (
		wh  tgbotapi.WebhookConfig
		err error
	)
	if b.opts.Certificate != "" {
		wh, err = tgbotapi.NewWebhookWithCert(b.opts.WebhookURL, tgbotapi.FilePath(b.opts.Certificate))
	} else {
		wh, err = tgbotapi.NewWebhook(b.opts.WebhookURL)
	}
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}

	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	info, err := b.api.GetWebhookInfo()
	if err != nil {
		return fmt.Errorf("failed to get webhook info: %w", err)
	}
	if info.LastErrorDate != 0 {
		log.WithField("last_error", info.LastErrorMessage).Warn("telegram reported a webhook callback failure")
	}

	log.WithField("url", b.opts.WebhookURL).Info("webhook registered")
	return nil
}

// ServeWebhook listens on ListenAddr and dispatches pushed updates until ctx is done
func (b *Bot) ServeWebhook(ctx context.Context) error {
	ln, err := net.Listen("tcp", b.opts.ListenAddr)
	if err != nil {
		return fmt.Errorf("webhook server: %w", err)
	}
	return b.serve(ctx, ln)
}

// serve runs the webhook server on ln and closes it on return
func (b *Bot) serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()
	updates := make(chan tgbotapi.Update, webhookQueueSize)

	mux := http.NewServeMux()
	mux.Handle("/"+b.opts.URLPath, newWebhookHandler(b.api.HandleUpdate, updates))

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", ln.Addr().String()).WithField("tls", b.opts.TLS).Info("webhook server started")
		var err error
		if b.opts.TLS {
			err = server.ServeTLS(ln, b.opts.Certificate, b.opts.Key)
		} else {
			err = server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		b.consume(consumeCtx, updates)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if err != nil {
			err = fmt.Errorf("webhook server: %w", err)
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer stop()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		log.WithError(shutdownErr).Warn("webhook server shutdown")
	}
	cancel()
	<-consumed
	b.inflight.Wait()
	return err
}

// DeleteWebhook asks Telegram to drop the webhook. It returns ctx.Err() when
// ctx ends before Telegram answers.
func (b *Bot) DeleteWebhook(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		_, err := b.api.Request(tgbotapi.DeleteWebhookConfig{})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to delete webhook: %w", err)
		}
		log.Info("webhook deleted")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops long polling. Safe to call more than once.
func (b *Bot) Stop() error {
	b.stopOnce.Do(b.api.StopReceivingUpdates)
	return nil
}

// consume dispatches updates until ctx is done or updates closes
func (b *Bot) consume(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handle(ctx, update)
		}
	}
}

// handle runs the dispatcher for one update on its own goroutine
func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	entry := log.WithField("update_id", update.UpdateID).WithField("trace", betterguid.New())

	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				entry.Errorf("panic while handling update: %v", r)
			}
		}()
		entry.Debug("dispatching update")
		if err := b.dispatcher.Dispatch(ctx, b.api, update); err != nil {
			entry.WithError(err).Warn("update not handled")
		}
	}()
}

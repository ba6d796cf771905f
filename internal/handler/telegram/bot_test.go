package telegram

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"tg-seed-bot/internal/dispatcher"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeAPI struct {
	mu       sync.Mutex
	updates  chan tgbotapi.Update
	stops    int
	requests []tgbotapi.Chattable

	requestErr   error
	requestBlock chan struct{}
	info         tgbotapi.WebhookInfo

	requestsBeforePoll int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 10)}
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requestsBeforePoll = len(f.requests)
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeAPI) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if f.requestBlock != nil {
		<-f.requestBlock
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetWebhookInfo() (tgbotapi.WebhookInfo, error) {
	return f.info, nil
}

func (f *fakeAPI) HandleUpdate(r *http.Request) (*tgbotapi.Update, error) {
	return parseJSON(r)
}

type recordingDispatcher struct {
	mu  sync.Mutex
	ids []int
}

func (d *recordingDispatcher) Dispatch(_ context.Context, _ dispatcher.Sender, update tgbotapi.Update) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, update.UpdateID)
	if update.UpdateID < 0 {
		panic("negative update")
	}
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.ids)
}

func TestPollDispatchesUntilClosed(t *testing.T) {
	api := newFakeAPI()
	disp := &recordingDispatcher{}
	bot := NewBotWithAPI(api, disp, Options{PollTimeout: 60})

	api.updates <- tgbotapi.Update{UpdateID: 1}
	api.updates <- tgbotapi.Update{UpdateID: -1}
	api.updates <- tgbotapi.Update{UpdateID: 2}
	close(api.updates)

	if err := bot.Poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if disp.count() != 3 {
		t.Fatalf("expected 3 dispatched updates, got %d", disp.count())
	}
	if api.stops != 1 {
		t.Fatalf("expected one stop, got %d", api.stops)
	}
}

func TestPollClearsWebhookFirst(t *testing.T) {
	api := newFakeAPI()
	close(api.updates)
	bot := NewBotWithAPI(api, &recordingDispatcher{}, Options{})

	if err := bot.Poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if api.requestsBeforePoll != 1 {
		t.Fatalf("expected one request before getUpdates, got %d", api.requestsBeforePoll)
	}
	if _, ok := api.requests[0].(tgbotapi.DeleteWebhookConfig); !ok {
		t.Fatalf("expected DeleteWebhookConfig, got %T", api.requests[0])
	}
}

func TestPollFailsWhenWebhookCannotBeCleared(t *testing.T) {
	api := newFakeAPI()
	api.requestErr = errors.New("Unauthorized")
	disp := &recordingDispatcher{}
	bot := NewBotWithAPI(api, disp, Options{})
	api.updates <- tgbotapi.Update{UpdateID: 1}

	if err := bot.Poll(context.Background()); err == nil {
		t.Fatal("expected error when the webhook cannot be cleared")
	}
	if disp.count() != 0 {
		t.Fatal("no update may be dispatched when polling never started")
	}
}

func TestPollStopsOnContext(t *testing.T) {
	api := newFakeAPI()
	bot := NewBotWithAPI(api, &recordingDispatcher{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Poll(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("poll did not return after cancel")
	}

	bot.Stop()
	if api.stops != 1 {
		t.Fatalf("StopReceivingUpdates must run once, ran %d times", api.stops)
	}
}

func TestSetWebhook(t *testing.T) {
	api := newFakeAPI()
	api.info = tgbotapi.WebhookInfo{LastErrorDate: 1, LastErrorMessage: "connection refused"}
	bot := NewBotWithAPI(api, &recordingDispatcher{}, Options{WebhookURL: "https://example.com/secret"})

	if err := bot.SetWebhook(); err != nil {
		t.Fatalf("set webhook: %v", err)
	}
	if len(api.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(api.requests))
	}
	wh, ok := api.requests[0].(tgbotapi.WebhookConfig)
	if !ok {
		t.Fatalf("expected WebhookConfig, got %T", api.requests[0])
	}
	if wh.URL.String() != "https://example.com/secret" {
		t.Fatalf("unexpected webhook url %s", wh.URL)
	}
	if wh.Certificate != nil {
		t.Fatal("no certificate was configured")
	}
}

func TestSetWebhookWithCertificate(t *testing.T) {
	api := newFakeAPI()
	bot := NewBotWithAPI(api, &recordingDispatcher{}, Options{
		WebhookURL:  "https://example.com:8443/secret",
		Certificate: "cert.pem",
	})

	if err := bot.SetWebhook(); err != nil {
		t.Fatalf("set webhook: %v", err)
	}
	wh := api.requests[0].(tgbotapi.WebhookConfig)
	if wh.Certificate != tgbotapi.FilePath("cert.pem") {
		t.Fatalf("unexpected certificate %v", wh.Certificate)
	}
}

func TestSetWebhookFailure(t *testing.T) {
	api := newFakeAPI()
	api.requestErr = errors.New("unauthorized")
	bot := NewBotWithAPI(api, &recordingDispatcher{}, Options{WebhookURL: "https://example.com/x"})

	if err := bot.SetWebhook(); err == nil {
		t.Fatal("expected error when Telegram rejects the webhook")
	}
}

func TestDeleteWebhook(t *testing.T) {
	api := newFakeAPI()
	bot := NewBotWithAPI(api, &recordingDispatcher{}, Options{})

	if err := bot.DeleteWebhook(context.Background()); err != nil {
		t.Fatalf("delete webhook: %v", err)
	}
	if _, ok := api.requests[0].(tgbotapi.DeleteWebhookConfig); !ok {
		t.Fatalf("expected DeleteWebhookConfig, got %T", api.requests[0])
	}
}

func TestDeleteWebhookHonoursDeadline(t *testing.T) {
	api := newFakeAPI()
	api.requestBlock = make(chan struct{})
	defer close(api.requestBlock)
	bot := NewBotWithAPI(api, &recordingDispatcher{}, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := bot.DeleteWebhook(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("delete webhook waited past its deadline")
	}
}

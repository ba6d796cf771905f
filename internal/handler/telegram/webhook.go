package telegram

import (
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// webhookHandler turns Telegram POSTs into queued updates
type webhookHandler struct {
	parse   func(r *http.Request) (*tgbotapi.Update, error)
	updates chan<- tgbotapi.Update
}

func newWebhookHandler(parse func(r *http.Request) (*tgbotapi.Update, error), updates chan<- tgbotapi.Update) *webhookHandler {
	return &webhookHandler{parse: parse, updates: updates}
}

func (h *webhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	update, err := h.parse(r)
	if err != nil {
		log.WithError(err).Warn("rejected webhook payload")
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}

	select {
	case h.updates <- *update:
		w.WriteHeader(http.StatusOK)
	case <-r.Context().Done():
		// Telegram retries on non-2xx, so the update is not lost
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}
}

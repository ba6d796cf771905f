package usecase

import (
	"context"

	"tg-seed-bot/internal/domain"
)

// WebhookDNSUsecase publishes the webhook host in DNS so Telegram can reach it
type WebhookDNSUsecase interface {
	// Ensure makes the host of webhookURL resolve to the configured target
	Ensure(ctx context.Context, webhookURL string) (*domain.DNSRecord, error)
}

// WebhookDNSConfig describes the record to publish
type WebhookDNSConfig struct {
	Zone    string
	Target  string
	Proxied bool
}

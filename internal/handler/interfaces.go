package handler

import "context"

// Transport defines the interface for the messaging platform connection.
// This allows swapping between different bot implementations (Telegram, fakes in tests, etc.)
type Transport interface {
	// Poll long-polls for updates until ctx is done
	Poll(ctx context.Context) error
	// SetWebhook registers the public webhook URL with the platform
	SetWebhook() error
	// ServeWebhook accepts pushed updates until ctx is done
	ServeWebhook(ctx context.Context) error
	// DeleteWebhook removes the registered webhook, giving up when ctx is done
	DeleteWebhook(ctx context.Context) error
	// Stop stops receiving updates
	Stop() error
}

package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tg-seed-bot/internal/domain"
	"tg-seed-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var log = logger.Component("dispatcher")

// Sender is the part of the Telegram client a handler needs to answer an update
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// HandlerFunc handles one command update. Handlers may be invoked concurrently
// and must not assume exclusive access to dispatcher state.
type HandlerFunc func(ctx context.Context, ev *Event) error

// Dispatcher maps command names to handlers and routes inbound updates
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	sealed   bool
}

// New creates an empty dispatcher
func New() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

// Register sets the handler for cmd. Duplicate names and registrations after
// Seal are rejected.
func (d *Dispatcher) Register(cmd string, h HandlerFunc) error {
	if cmd == "" || h == nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCommand, cmd)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sealed {
		return fmt.Errorf("%w: cannot register %q", domain.ErrRegistrySealed, cmd)
	}
	if _, exists := d.handlers[cmd]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateCommand, cmd)
	}
	d.handlers[cmd] = h
	return nil
}

// Lookup returns the handler and whether it exists
func (d *Dispatcher) Lookup(cmd string) (HandlerFunc, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.handlers[cmd]
	return h, ok
}

// Commands returns the registered command names in sorted order
func (d *Dispatcher) Commands() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered commands
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers)
}

// Seal freezes the registration set
func (d *Dispatcher) Seal() {
	d.mu.Lock()
	d.sealed = true
	d.mu.Unlock()
}

// Dispatch routes a command update to its handler. Updates that carry no
// command, or an unknown one, are ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, sender Sender, update tgbotapi.Update) (err error) {
	if update.Message == nil || !update.Message.IsCommand() {
		return nil
	}

	cmd := strings.ToLower(update.Message.Command())
	h, ok := d.Lookup(cmd)
	if !ok {
		log.WithField("command", cmd).Debug("no handler for command")
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("command", cmd).Errorf("handler panic: %v", r)
			err = fmt.Errorf("handler %s panicked: %v", cmd, r)
		}
	}()

	if err := h(ctx, NewEvent(sender, update)); err != nil {
		log.WithField("command", cmd).WithError(err).Error("handler failed")
		return fmt.Errorf("handler %s: %w", cmd, err)
	}
	return nil
}

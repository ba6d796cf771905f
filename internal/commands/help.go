package commands

import (
	"context"
	"strings"

	"tg-seed-bot/internal/dispatcher"
	"tg-seed-bot/internal/loader"
)

// InitHelp registers /help, which lists every registered command
func InitHelp(r loader.Registrar) error {
	return r.Register(r.Command(), func(_ context.Context, ev *dispatcher.Event) error {
		return ev.Reply(helpText(r.Commands()))
	})
}

func helpText(commands []string) string {
	var b strings.Builder
	b.WriteString("Available commands:")
	for _, c := range commands {
		b.WriteString("\n/")
		b.WriteString(c)
	}
	return b.String()
}

package commands

import (
	"context"

	"tg-seed-bot/internal/dispatcher"
	"tg-seed-bot/internal/loader"
)

const startReply = "I'm a bot, please talk to me!"

// InitStart registers /start
func InitStart(r loader.Registrar) error {
	return r.Register(r.Command(), start)
}

func start(_ context.Context, ev *dispatcher.Event) error {
	return ev.Reply(startReply)
}

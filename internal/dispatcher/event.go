package dispatcher

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var errNoChat = errors.New("update has no chat to reply to")

// Event is the inbound update handed to a command handler
type Event struct {
	Update tgbotapi.Update
	sender Sender
}

// NewEvent wraps update with the client used to answer it
func NewEvent(sender Sender, update tgbotapi.Update) *Event {
	return &Event{Update: update, sender: sender}
}

// Text returns the full message text
func (e *Event) Text() string {
	if e.Update.Message == nil {
		return ""
	}
	return e.Update.Message.Text
}

// Command returns the command without the leading slash or bot mention
func (e *Event) Command() string {
	if e.Update.Message == nil {
		return ""
	}
	return e.Update.Message.Command()
}

// Args returns the text after the command
func (e *Event) Args() string {
	if e.Update.Message == nil {
		return ""
	}
	return e.Update.Message.CommandArguments()
}

// ChatID returns the chat the update came from, or 0
func (e *Event) ChatID() int64 {
	switch {
	case e.Update.Message != nil && e.Update.Message.Chat != nil:
		return e.Update.Message.Chat.ID
	case e.Update.CallbackQuery != nil && e.Update.CallbackQuery.Message != nil && e.Update.CallbackQuery.Message.Chat != nil:
		return e.Update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

// Reply sends text to the chat the update came from
func (e *Event) Reply(text string) error {
	chatID := e.ChatID()
	if chatID == 0 {
		return errNoChat
	}
	_, err := e.sender.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

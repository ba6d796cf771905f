// Package dispatchertest provides fakes for exercising command handlers
// without a Telegram connection.
package dispatchertest

import (
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RecordingSender records every message sent through it
type RecordingSender struct {
	mu   sync.Mutex
	Sent []tgbotapi.MessageConfig
	Err  error
}

// Send implements dispatcher.Sender
func (s *RecordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return tgbotapi.Message{}, s.Err
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.Sent = append(s.Sent, msg)
	}
	return tgbotapi.Message{}, nil
}

// Texts returns the text of every recorded message
func (s *RecordingSender) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	texts := make([]string, len(s.Sent))
	for i, m := range s.Sent {
		texts[i] = m.Text
	}
	return texts
}

// CommandUpdate builds a minimal update carrying text in chatID. When text
// starts with a slash the first word is marked as a bot command.
func CommandUpdate(chatID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID, Type: "private"},
		From:      &tgbotapi.User{ID: chatID, FirstName: "tester"},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		length := len(text)
		if i := strings.IndexByte(text, ' '); i >= 0 {
			length = i
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}}
	}
	return tgbotapi.Update{UpdateID: 1, Message: msg}
}

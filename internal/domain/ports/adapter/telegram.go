package adapter

import "context"

// InlineButton is a transport-agnostic inline keyboard button. Exactly one of
// Data, URL or WebAppURL should be set.
type InlineButton struct {
	Text      string
	Data      string
	URL       string
	WebAppURL string
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	// SendDocument uploads raw bytes as a chat document attachment.
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
}

package usecase

import (
	"context"
	"io"
	"sync"

	"telegram-docs-bank/internal/catalog"
	"telegram-docs-bank/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestCatalog() *catalog.Catalog {
	cat, err := catalog.New(catalog.Default(), "https://files.example.com/docs")
	if err != nil {
		panic(err)
	}
	return cat
}

// mockFetcher records fetch calls and serves canned bytes or a canned error.
type mockFetcher struct {
	mu    sync.Mutex
	Calls []string

	FetchFunc func(ctx context.Context, url string) ([]byte, error)
}

var _ adapter.DocumentFetcher = (*mockFetcher)(nil)

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, url)
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, url)
	}
	return []byte("%PDF-1.4 test"), nil
}

func (m *mockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// mockMailer records sent messages.
type mockMailer struct {
	mu   sync.Mutex
	Sent []adapter.EmailMessage

	SendFunc func(ctx context.Context, msg adapter.EmailMessage) error
}

var _ adapter.Mailer = (*mockMailer)(nil)

func (m *mockMailer) Send(ctx context.Context, msg adapter.EmailMessage) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *mockMailer) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

type sentDocument struct {
	ChatID   int64
	Filename string
	Data     []byte
	Caption  string
}

type sentMessage struct {
	ChatID int64
	Text   string
}

// mockBot records outbound chat traffic.
type mockBot struct {
	mu        sync.Mutex
	Messages  []sentMessage
	Documents []sentDocument

	SendDocumentFunc func(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
	SendMessageFunc  func(ctx context.Context, chatID int64, text string) error
}

var _ adapter.TelegramBotAdapter = (*mockBot)(nil)

func (m *mockBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(ctx, chatID, text); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *mockBot) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	return m.SendMessage(ctx, chatID, text)
}

func (m *mockBot) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	if m.SendDocumentFunc != nil {
		if err := m.SendDocumentFunc(ctx, chatID, filename, data, caption); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Documents = append(m.Documents, sentDocument{ChatID: chatID, Filename: filename, Data: data, Caption: caption})
	return nil
}

package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"testing"

	"telegram-docs-bank/internal/config"
	"telegram-docs-bank/internal/domain"
	"telegram-docs-bank/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func TestIsAuthError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"535 bad credentials", fmt.Errorf("dial and send: %w", &textproto.Error{Code: 535, Msg: "5.7.8 authentication failed"}), true},
		{"530 auth required", fmt.Errorf("dial and send: %w", &textproto.Error{Code: 530, Msg: "5.7.0 authentication required"}), true},
		{"534 mechanism too weak", fmt.Errorf("dial and send: %w", &textproto.Error{Code: 534, Msg: "5.7.9 mechanism too weak"}), true},
		{"550 mailbox unavailable", fmt.Errorf("dial and send: %w", &textproto.Error{Code: 550, Msg: "5.1.1 no such user"}), false},
		{"451 temporary failure", fmt.Errorf("dial and send: %w", &textproto.Error{Code: 451, Msg: "4.3.0 try again"}), false},
		{"plain error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isAuthError(tc.err); got != tc.want {
				t.Errorf("isAuthError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestSendWithoutCredentials(t *testing.T) {
	// --- Arrange: no host/username/password configured ---
	m := NewSMTPMailer(config.SMTPConfig{Port: 587, Security: "starttls"}, newTestLogger())

	// --- Act ---
	err := m.Send(context.Background(), adapter.EmailMessage{
		To:       "user@example.com",
		Subject:  "Documents",
		TextBody: "body",
	})

	// --- Assert ---
	if !errors.Is(err, domain.ErrMailNotConfigured) {
		t.Fatalf("expected ErrMailNotConfigured, got %v", err)
	}
}

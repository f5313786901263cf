package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"time"

	mail "github.com/wneessen/go-mail"

	"telegram-docs-bank/internal/config"
	"telegram-docs-bank/internal/domain"
	"telegram-docs-bank/internal/domain/ports/adapter"
	"telegram-docs-bank/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends composed messages over an authenticated SMTP session.
// Each send dials and logs in once; no connection pooling or reuse.
type SMTPMailer struct {
	cfg config.SMTPConfig
	log *zerolog.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: logger}
}

func (m *SMTPMailer) Send(ctx context.Context, msg adapter.EmailMessage) error {
	if !m.cfg.Configured() {
		return domain.ErrMailNotConfigured
	}

	mm := mail.NewMsg()
	var err error
	if m.cfg.FromName != "" {
		err = mm.FromFormat(m.cfg.FromName, m.cfg.Username)
	} else {
		err = mm.From(m.cfg.Username)
	}
	if err != nil {
		return fmt.Errorf("%w: set from: %v", domain.ErrMailSend, err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("%w: set to: %v", domain.ErrMailSend, err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		mm.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}
	if msg.Attachment != nil {
		if err := mm.AttachReader(msg.Attachment.Filename, bytes.NewReader(msg.Attachment.Data)); err != nil {
			return fmt.Errorf("%w: attach %s: %v", domain.ErrMailSend, msg.Attachment.Filename, err)
		}
	}
	mm.SetMessageID()

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	}
	switch m.cfg.Security {
	case "tls":
		opts = append(opts, mail.WithSSLPort(false), mail.WithTLSPolicy(mail.TLSMandatory))
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default: // starttls
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: create smtp client: %v", domain.ErrMailSend, err)
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		if isAuthError(err) {
			return fmt.Errorf("%w: %v", domain.ErrMailAuth, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrMailSend, err)
	}
	metrics.ObserveMailSend(start)

	m.log.Debug().Str("message_id", mm.GetMessageID()).Dur("took", time.Since(start)).Msg("email sent")
	return nil
}

// isAuthError recognizes SMTP authentication rejections (5xx auth reply
// codes) in the transport error chain.
func isAuthError(err error) bool {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535:
			return true
		}
	}
	return false
}

package adapter

import "context"

type EmailAttachment struct {
	Filename string
	Data     []byte
}

// EmailMessage is a composed multipart message: plain-text body, HTML
// alternative and an optional binary attachment.
type EmailMessage struct {
	To         string
	Subject    string
	TextBody   string
	HTMLBody   string
	Attachment *EmailAttachment
}

// Mailer is the port for the outbound mail transport. Implementations dial
// and authenticate per send; errors are classified with the domain sentinels
// (ErrMailNotConfigured, ErrMailAuth, ErrMailSend).
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

package usecase

import (
	"fmt"

	"telegram-docs-bank/internal/domain/model"
)

// UserMessage renders the human-readable reply for a delivery outcome. Every
// failure names the likely cause and, where it helps, a remedy; transport
// internals never leak into chat.
func UserMessage(o model.DeliveryOutcome) string {
	if o.OK {
		if o.Email != "" {
			msg := fmt.Sprintf("✅ Documents sent!\n\n📧 %s\n📄 %s\n\nCheck your inbox within a few minutes.", o.Email, o.Asset.Label())
			if !o.Attached {
				msg += "\n\n⚠️ The checklist file could not be attached this time; reply here or contact support to receive it directly."
			}
			return msg
		}
		return fmt.Sprintf("✅ %s\n📂 %s\n\nNeed documents for another asset? Just ask.", o.Asset.Label(), o.Asset.Filename)
	}

	switch o.Kind {
	case model.FailureValidation:
		return "❌ That doesn't look like a valid email address. Check the format (name@example.com) and try again."
	case model.FailureUnknownAsset:
		return "❓ Unknown asset category. Send /help to see the available ones."
	case model.FailureFetch:
		return fmt.Sprintf("❌ Could not download the document package for %s. Try again later, or use /email to receive it by mail.", o.Asset.Label())
	case model.FailureMailAuth:
		return "❌ Email sending is currently unavailable: the mail account credentials need to be verified. Please contact support directly."
	case model.FailureTransport:
		return fmt.Sprintf("❌ Failed to send the email to %s. Try again in a few minutes or contact support.", o.Email)
	default:
		return "❌ Something went wrong while processing your request. Please try again."
	}
}

// AdminAudit is the one-line audit notification for the administrator channel.
func AdminAudit(req model.DeliveryRequest, o model.DeliveryOutcome) string {
	channel := "chat"
	dest := "in-chat attachment"
	if o.Email != "" {
		channel = "email"
		dest = o.Email
	}
	return fmt.Sprintf("📨 Documents delivered (%s)\n👤 %s\n📄 %s\n📬 %s", channel, req.RequesterName, o.Asset.Title, dest)
}

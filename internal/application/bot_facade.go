package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"telegram-docs-bank/internal/catalog"
	"telegram-docs-bank/internal/domain/model"
	"telegram-docs-bank/internal/domain/ports/adapter"
	"telegram-docs-bank/internal/domain/ports/repository"
	"telegram-docs-bank/internal/usecase"

	"github.com/rs/zerolog"
)

// Reply is what a handler wants said back to the user. The Telegram adapter
// just forwards it: text only, or text with inline buttons.
type Reply struct {
	Text string
	Rows [][]adapter.InlineButton
}

func textReply(format string, args ...any) Reply {
	return Reply{Text: fmt.Sprintf(format, args...)}
}

// BotFacade is the interaction handler: it routes inbound chat events,
// keeps the per-user email flow state and invokes the delivery dispatcher.
type BotFacade struct {
	delivery     usecase.DeliveryUseCase
	catalog      *catalog.Catalog
	states       repository.StateRepository
	webAppURL    string
	supportEmail string
	supportPhone string
	supportHours string
	log          *zerolog.Logger
}

func NewBotFacade(
	delivery usecase.DeliveryUseCase,
	cat *catalog.Catalog,
	states repository.StateRepository,
	webAppURL, supportEmail, supportPhone, supportHours string,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		delivery:     delivery,
		catalog:      cat,
		states:       states,
		webAppURL:    webAppURL,
		supportEmail: supportEmail,
		supportPhone: supportPhone,
		supportHours: supportHours,
		log:          logger,
	}
}

// ---- commands ----

func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, name string) Reply {
	// A fresh /start always resets any half-finished flow.
	_ = b.states.ClearState(ctx, tgID)

	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf(
		"🤖 Hi, %s!\n\n📋 I help with documents for the bank's collateral service.\n\n"+
			"• Browse the full document catalog\n• Receive document packages by email\n• Get details on every asset category\n\n"+
			"Open the catalog below, or just type the asset you are interested in.",
		name,
	)
	return Reply{Text: text, Rows: b.menuRows()}
}

func (b *BotFacade) HandleHelp(ctx context.Context) Reply {
	sb := strings.Builder{}
	sb.WriteString("🤖 Collateral documents bot\n\n")
	fmt.Fprintf(&sb, "Available assets (%d categories):\n", b.catalog.Len())
	for _, a := range b.catalog.List() {
		sb.WriteString("• " + a.Label() + "\n")
	}
	sb.WriteString("\nCommands:\n")
	sb.WriteString("/start — open the catalog\n")
	sb.WriteString("/help — this help\n")
	sb.WriteString("/contacts — support contacts\n")
	sb.WriteString("/email <address> [asset] — quick email delivery\n")
	sb.WriteString("/cancel — abandon the current flow\n")
	return Reply{Text: sb.String(), Rows: b.menuRows()}
}

func (b *BotFacade) HandleContacts(ctx context.Context) Reply {
	sb := strings.Builder{}
	sb.WriteString("📞 Support contacts\n\n")
	if b.supportEmail != "" {
		sb.WriteString("📧 Email: " + b.supportEmail + "\n")
	}
	if b.supportPhone != "" {
		sb.WriteString("📱 Phone: " + b.supportPhone + "\n")
	}
	if b.supportHours != "" {
		sb.WriteString("⏰ Hours: " + b.supportHours + "\n")
	}
	sb.WriteString("\n📋 The catalog is available around the clock.")

	rows := b.menuRows()
	if b.supportEmail != "" {
		rows = append(rows, []adapter.InlineButton{{Text: "📧 Write to support", URL: "mailto:" + b.supportEmail}})
	}
	return Reply{Text: sb.String(), Rows: rows}
}

func (b *BotFacade) HandleCancel(ctx context.Context, tgID int64) Reply {
	_ = b.states.ClearState(ctx, tgID)
	return Reply{Text: "Okay, cancelled. Pick an asset whenever you're ready.", Rows: b.menuRows()}
}

// HandleEmailCommand implements "/email <address> [asset query]".
func (b *BotFacade) HandleEmailCommand(ctx context.Context, tgID int64, name, args string) Reply {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return Reply{
			Text: "📧 Usage: /email your@address.com <asset>\n\nExample: /email ivan@example.com warehouse\n\nOr open the catalog for a guided flow:",
			Rows: b.menuRows(),
		}
	}

	email := fields[0]
	if !usecase.IsValidEmail(email) {
		return textReply("❌ That doesn't look like a valid email address. Check the format (name@example.com) and try again.")
	}

	query := strings.Join(fields[1:], " ")
	if query == "" {
		return Reply{
			Text: fmt.Sprintf("📧 Got the address %s. Now tell me the asset, e.g. /email %s warehouse, or pick it in the catalog:", email, email),
			Rows: b.menuRows(),
		}
	}

	matches := b.catalog.Search(query)
	if len(matches) == 0 {
		return Reply{Text: b.unknownAssetText(query), Rows: b.menuRows()}
	}
	// First match wins, same as the original quick command.
	req := model.NewDeliveryRequest(tgID, name, matches[0].Key, email)
	return b.dispatch(ctx, tgID, req)
}

// ---- callback buttons ----

// StartEmailFlow transitions the user to AwaitingEmail for the given asset.
func (b *BotFacade) StartEmailFlow(ctx context.Context, tgID int64, assetKey string) Reply {
	asset, err := b.catalog.Lookup(assetKey)
	if err != nil {
		return textReply("❓ Unknown asset category. Send /help to see the available ones.")
	}
	state := &repository.ConversationState{Step: repository.StepAwaitingEmail, AssetKey: asset.Key}
	if err := b.states.SetState(ctx, tgID, state); err != nil {
		b.log.Error().Err(err).Int64("tg_id", tgID).Msg("set conversation state")
		return textReply("❌ Something went wrong while processing your request. Please try again.")
	}
	return textReply("📧 Where should I send the %s documents?\nType the email address, or /cancel to abort.", asset.Label())
}

// DeliverInChat dispatches an in-chat document delivery for the asset.
func (b *BotFacade) DeliverInChat(ctx context.Context, tgID int64, name, assetKey string) Reply {
	req := model.NewDeliveryRequest(tgID, name, assetKey, "")
	return b.dispatch(ctx, tgID, req)
}

// AssetCard shows one asset with its delivery action buttons.
func (b *BotFacade) AssetCard(ctx context.Context, assetKey string) Reply {
	asset, err := b.catalog.Lookup(assetKey)
	if err != nil {
		return textReply("❓ Unknown asset category. Send /help to see the available ones.")
	}
	text := fmt.Sprintf("%s\n\n📝 %s\n📄 Documents: %d\n⏱ Processing time: %s\n\nHow would you like to receive the package?",
		asset.Label(), asset.Description, asset.Documents, asset.Processing)
	rows := [][]adapter.InlineButton{
		{{Text: "📎 Send here as a file", Data: "asset:chat:" + asset.Key}},
		{{Text: "📧 Send by email", Data: "asset:email:" + asset.Key}},
	}
	rows = append(rows, b.menuRows()...)
	return Reply{Text: text, Rows: rows}
}

// ---- free text ----

func (b *BotFacade) HandleText(ctx context.Context, tgID int64, name, text string) Reply {
	state, err := b.states.GetState(ctx, tgID)
	if err == nil && state != nil {
		if state.AwaitingEmail() {
			return b.handleEmailInput(ctx, tgID, name, state, text)
		}
		// A state that violates the awaiting-email invariant is treated as
		// idle and cleared.
		_ = b.states.ClearState(ctx, tgID)
	}

	matches := b.catalog.Search(text)
	switch len(matches) {
	case 0:
		return Reply{Text: b.unknownAssetText(text), Rows: b.menuRows()}
	case 1:
		return b.AssetCard(ctx, matches[0].Key)
	default:
		sb := strings.Builder{}
		fmt.Fprintf(&sb, "🔍 Found %d matching assets:\n\n", len(matches))
		rows := make([][]adapter.InlineButton, 0, len(matches)+1)
		for _, a := range matches {
			sb.WriteString("• " + a.Label() + "\n")
			rows = append(rows, []adapter.InlineButton{{Text: a.Label(), Data: "asset:card:" + a.Key}})
		}
		rows = append(rows, b.menuRows()...)
		return Reply{Text: sb.String(), Rows: rows}
	}
}

func (b *BotFacade) handleEmailInput(ctx context.Context, tgID int64, name string, state *repository.ConversationState, text string) Reply {
	// The flow ends here regardless of the outcome.
	defer func() { _ = b.states.ClearState(ctx, tgID) }()

	email := strings.TrimSpace(text)
	req := model.NewDeliveryRequest(tgID, name, state.AssetKey, email)
	return b.dispatch(ctx, tgID, req)
}

// ---- mini-app payloads ----

// webAppPayload is the structured message posted by the embedded mini-app.
type webAppPayload struct {
	Action   string `json:"action"`
	AssetKey string `json:"asset_type"`
	Email    string `json:"email"`
}

// HandleWebAppPayload parses a mini-app payload defensively: malformed JSON
// or a missing action is a reportable validation error, never a crash.
func (b *BotFacade) HandleWebAppPayload(ctx context.Context, tgID int64, name, raw string) Reply {
	var p webAppPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		b.log.Warn().Err(err).Int64("tg_id", tgID).Msg("malformed web app payload")
		return textReply("❌ Could not read the catalog request. Please reopen the catalog and try again.")
	}

	switch p.Action {
	case "send_email":
		req := model.NewDeliveryRequest(tgID, name, p.AssetKey, p.Email)
		if p.Email == "" {
			// The dispatcher would treat an empty address as an in-chat
			// request; the mini-app promised an email delivery.
			return textReply("❌ That doesn't look like a valid email address. Check the format (name@example.com) and try again.")
		}
		return b.dispatch(ctx, tgID, req)

	case "download_completed":
		asset, err := b.catalog.Lookup(p.AssetKey)
		if err != nil {
			return textReply("❓ Unknown asset category. Send /help to see the available ones.")
		}
		return Reply{
			Text: fmt.Sprintf("✅ Document downloaded!\n\n📄 %s\n📂 %s\n\nNeed anything else? Our specialists are happy to help.", asset.Label(), asset.Filename),
			Rows: b.menuRows(),
		}

	case "need_help":
		return b.HandleContacts(ctx)

	case "":
		b.log.Warn().Int64("tg_id", tgID).Msg("web app payload without action")
		return textReply("❌ Could not read the catalog request. Please reopen the catalog and try again.")

	default:
		b.log.Warn().Str("action", p.Action).Int64("tg_id", tgID).Msg("unsupported web app action")
		return textReply("❌ Could not read the catalog request. Please reopen the catalog and try again.")
	}
}

// ---- shared bits ----

func (b *BotFacade) dispatch(ctx context.Context, tgID int64, req model.DeliveryRequest) Reply {
	outcome := b.delivery.Deliver(ctx, req)
	reply := Reply{Text: usecase.UserMessage(outcome)}
	if outcome.OK || outcome.Kind == model.FailureUnknownAsset {
		reply.Rows = b.menuRows()
	}
	return reply
}

func (b *BotFacade) unknownAssetText(query string) string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "❓ No asset matches %q.\n\nAvailable assets:\n", strings.TrimSpace(query))
	for _, a := range b.catalog.List() {
		sb.WriteString("• " + a.Label() + "\n")
	}
	sb.WriteString("\nOr open the catalog for a guided choice.")
	return sb.String()
}

// menuRows is the standard footer: the mini-app button when configured,
// plus help and contacts.
func (b *BotFacade) menuRows() [][]adapter.InlineButton {
	var rows [][]adapter.InlineButton
	if b.webAppURL != "" {
		rows = append(rows, []adapter.InlineButton{{Text: "📋 Open document catalog", WebAppURL: b.webAppURL}})
	}
	rows = append(rows, []adapter.InlineButton{
		{Text: "ℹ️ Help", Data: "cmd:help"},
		{Text: "📞 Contacts", Data: "cmd:contacts"},
	})
	return rows
}

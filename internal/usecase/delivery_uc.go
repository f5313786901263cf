package usecase

import (
	"context"
	"errors"

	"telegram-docs-bank/internal/catalog"
	"telegram-docs-bank/internal/domain"
	"telegram-docs-bank/internal/domain/model"
	"telegram-docs-bank/internal/domain/ports/adapter"
	"telegram-docs-bank/internal/infra/logging"
	"telegram-docs-bank/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ DeliveryUseCase = (*deliveryUC)(nil)

type DeliveryUseCase interface {
	// Deliver runs one delivery attempt end to end and reports the outcome.
	// All failures are converted into the outcome; nothing escapes as an error.
	Deliver(ctx context.Context, req model.DeliveryRequest) model.DeliveryOutcome
}

type deliveryUC struct {
	catalog      *catalog.Catalog
	fetcher      adapter.DocumentFetcher
	mailer       adapter.Mailer
	bot          adapter.TelegramBotAdapter
	adminChatID  int64
	supportEmail string
	dev          bool
	log          *zerolog.Logger
}

func NewDeliveryUseCase(
	cat *catalog.Catalog,
	fetcher adapter.DocumentFetcher,
	mailer adapter.Mailer,
	bot adapter.TelegramBotAdapter,
	adminChatID int64,
	supportEmail string,
	dev bool,
	logger *zerolog.Logger,
) *deliveryUC {
	return &deliveryUC{
		catalog:      cat,
		fetcher:      fetcher,
		mailer:       mailer,
		bot:          bot,
		adminChatID:  adminChatID,
		supportEmail: supportEmail,
		dev:          dev,
		log:          logger,
	}
}

func (d *deliveryUC) Deliver(ctx context.Context, req model.DeliveryRequest) model.DeliveryOutcome {
	outcome := d.deliver(ctx, req)

	channel := "chat"
	if req.ByEmail() {
		channel = "email"
	}
	result := "success"
	if !outcome.OK {
		result = string(outcome.Kind)
	}
	metrics.IncDelivery(channel, result)

	if outcome.OK {
		d.audit(ctx, req, outcome)
	}
	return outcome
}

func (d *deliveryUC) deliver(ctx context.Context, req model.DeliveryRequest) model.DeliveryOutcome {
	// Resolve and validate before touching the network.
	asset, err := d.catalog.Lookup(req.AssetKey)
	if err != nil {
		d.log.Info().Str("request_id", req.ID).Str("asset_key", req.AssetKey).Msg("delivery for unknown asset")
		return model.Undelivered(model.FailureUnknownAsset, model.AssetDescriptor{}, req.Email)
	}
	if req.ByEmail() && !IsValidEmail(req.Email) {
		return model.Undelivered(model.FailureValidation, asset, req.Email)
	}

	data, err := d.fetcher.Fetch(ctx, asset.SourceURL)
	if err != nil {
		if !req.ByEmail() {
			// No body-only fallback for an in-chat document delivery.
			d.log.Error().Err(err).Str("request_id", req.ID).Str("asset_key", asset.Key).Msg("document fetch failed, chat delivery aborted")
			return model.Undelivered(model.FailureFetch, asset, "")
		}
		// Email still goes out without the attachment; the body names the
		// asset and the filename, so the user learns what they asked for.
		d.log.Warn().Err(err).Str("request_id", req.ID).Str("asset_key", asset.Key).Msg("document fetch failed, sending email without attachment")
		data = nil
	}

	if req.ByEmail() {
		return d.deliverByEmail(ctx, req, asset, data)
	}
	return d.deliverInChat(ctx, req, asset, data)
}

func (d *deliveryUC) deliverByEmail(ctx context.Context, req model.DeliveryRequest, asset model.AssetDescriptor, data []byte) model.DeliveryOutcome {
	msg, err := ComposeDocumentEmail(asset, req, d.supportEmail)
	if err != nil {
		d.log.Error().Err(err).Str("request_id", req.ID).Msg("compose email")
		return model.Undelivered(model.FailureUnknown, asset, req.Email)
	}
	if len(data) > 0 {
		msg.Attachment = &adapter.EmailAttachment{Filename: asset.Filename, Data: data}
	}

	if err := d.mailer.Send(ctx, msg); err != nil {
		kind := model.FailureUnknown
		switch {
		case errors.Is(err, domain.ErrMailAuth):
			kind = model.FailureMailAuth
		case errors.Is(err, domain.ErrMailNotConfigured), errors.Is(err, domain.ErrMailSend):
			kind = model.FailureTransport
		}
		d.log.Error().Err(err).
			Str("request_id", req.ID).
			Str("asset_key", asset.Key).
			Str("email", logging.RedactEmail(req.Email, d.dev)).
			Msg("email delivery failed")
		return model.Undelivered(kind, asset, req.Email)
	}

	d.log.Info().
		Str("request_id", req.ID).
		Str("asset_key", asset.Key).
		Str("email", logging.RedactEmail(req.Email, d.dev)).
		Bool("attached", len(data) > 0).
		Msg("email delivered")
	return model.Delivered(asset, req.Email, len(data) > 0)
}

func (d *deliveryUC) deliverInChat(ctx context.Context, req model.DeliveryRequest, asset model.AssetDescriptor, data []byte) model.DeliveryOutcome {
	caption := asset.Label() + "\n" + asset.Description
	if err := d.bot.SendDocument(ctx, req.RequesterID, asset.Filename, data, caption); err != nil {
		d.log.Error().Err(err).Str("request_id", req.ID).Str("asset_key", asset.Key).Msg("chat document delivery failed")
		return model.Undelivered(model.FailureTransport, asset, "")
	}
	d.log.Info().Str("request_id", req.ID).Str("asset_key", asset.Key).Msg("chat document delivered")
	return model.Delivered(asset, "", true)
}

// audit notifies the administrator channel about a successful delivery.
// Best-effort: the result is discarded and never affects the outcome.
func (d *deliveryUC) audit(ctx context.Context, req model.DeliveryRequest, o model.DeliveryOutcome) {
	if d.adminChatID == 0 {
		return
	}
	if err := d.bot.SendMessage(ctx, d.adminChatID, AdminAudit(req, o)); err != nil {
		d.log.Warn().Err(err).Str("request_id", req.ID).Msg("admin audit notification failed")
	}
}

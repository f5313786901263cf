package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-docs-bank/internal/application"
	"telegram-docs-bank/internal/config"
	"telegram-docs-bank/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter polls Telegram for updates and delegates every
// inbound event to the BotFacade. Events for different users are processed
// concurrently by the worker pool; Telegram's own ordering is relied on for
// per-user sequencing.
type RealTelegramBotAdapter struct {
	bot    *tgbotapi.BotAPI
	cfg    *config.BotConfig
	facade *application.BotFacade
	log    *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

// SetFacade wires the interaction handler after construction. The facade's
// delivery dispatcher needs this adapter for in-chat documents, so the two
// are built in stages.
func (r *RealTelegramBotAdapter) SetFacade(f *application.BotFacade) { r.facade = f }

// Username reports the authorized bot account name.
func (r *RealTelegramBotAdapter) Username() string { return r.bot.Self.UserName }

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	if r.facade == nil {
		return errors.New("bot facade is nil")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// ---- outbound port ----

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with inline buttons:
// - WebAppURL opens the embedded mini-app
// - URL opens a link
// - Data sends callback data (fallback: the label itself)
func (r *RealTelegramBotAdapter) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.WebAppURL != "":
				kb = tgbotapi.InlineKeyboardButton{Text: label, WebApp: &tgbotapi.WebAppInfo{URL: btn.WebAppURL}}
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kbRow = append(kbRow, kb)
		}
		kbRows = append(kbRows, kbRow)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if len(data) == 0 {
		return errors.New("empty document payload")
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	_, err := r.bot.Send(doc)
	return err
}

// ---- inbound routing ----

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}
	chatID := msg.Chat.ID
	name := displayName(msg.From)

	// Structured payload from the embedded mini-app.
	if msg.WebAppData != nil {
		return r.send(ctx, chatID, r.facade.HandleWebAppPayload(ctx, msg.From.ID, name, msg.WebAppData.Data))
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			return r.send(ctx, chatID, r.facade.HandleStart(ctx, msg.From.ID, name))
		case "help", "info":
			return r.send(ctx, chatID, r.facade.HandleHelp(ctx))
		case "contacts":
			return r.send(ctx, chatID, r.facade.HandleContacts(ctx))
		case "email":
			return r.send(ctx, chatID, r.facade.HandleEmailCommand(ctx, msg.From.ID, name, msg.CommandArguments()))
		case "cancel":
			return r.send(ctx, chatID, r.facade.HandleCancel(ctx, msg.From.ID))
		default:
			return r.SendMessage(ctx, chatID, "Unknown command. Send /help for the list of commands.")
		}
	}

	if strings.TrimSpace(msg.Text) != "" {
		return r.send(ctx, chatID, r.facade.HandleText(ctx, msg.From.ID, name, msg.Text))
	}
	return nil
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop the telegram spinner when we return
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	chatID := query.From.ID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}
	name := displayName(query.From)
	data := strings.TrimSpace(query.Data)

	switch {
	case data == "cmd:help":
		return r.send(ctx, chatID, r.facade.HandleHelp(ctx))
	case data == "cmd:contacts":
		return r.send(ctx, chatID, r.facade.HandleContacts(ctx))
	case data == "cmd:cancel":
		return r.send(ctx, chatID, r.facade.HandleCancel(ctx, query.From.ID))
	case strings.HasPrefix(data, "asset:card:"):
		return r.send(ctx, chatID, r.facade.AssetCard(ctx, strings.TrimPrefix(data, "asset:card:")))
	case strings.HasPrefix(data, "asset:email:"):
		return r.send(ctx, chatID, r.facade.StartEmailFlow(ctx, query.From.ID, strings.TrimPrefix(data, "asset:email:")))
	case strings.HasPrefix(data, "asset:chat:"):
		return r.send(ctx, chatID, r.facade.DeliverInChat(ctx, query.From.ID, name, strings.TrimPrefix(data, "asset:chat:")))
	default:
		return errors.New("unknown callback data")
	}
}

func (r *RealTelegramBotAdapter) send(ctx context.Context, chatID int64, reply application.Reply) error {
	if len(reply.Rows) > 0 {
		return r.SendButtons(ctx, chatID, reply.Text, reply.Rows)
	}
	return r.SendMessage(ctx, chatID, reply.Text)
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.UserName
}

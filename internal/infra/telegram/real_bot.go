package telegram

import (
	"context"
	"errors"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-store-bot/internal/config"
	"telegram-store-bot/internal/domain"
	"telegram-store-bot/internal/domain/model"
	"telegram-store-bot/internal/domain/ports/adapter"
	"telegram-store-bot/internal/infra/logging"
	redisinfra "telegram-store-bot/internal/infra/redis"
)

var _ adapter.Bot = (*RealBot)(nil)

// EventHandler consumes translated inbound events. Implemented by the
// dialog use case.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev model.Event) error
	SessionKey(chatID int64) string
}

// lockTTL bounds how long a stuck handler can hold a session lock.
const lockTTL = 30 * time.Second

// RealBot adapts the Telegram Bot API: it polls for updates, translates
// each one into exactly one domain Event, and renders the dialog's
// outbound calls. Callback queries are acknowledged exactly once, before
// dispatch, so a failed handler never leaves the client's loading
// indicator stuck.
type RealBot struct {
	bot     *tgbotapi.BotAPI
	cfg     *config.BotConfig
	locker  redisinfra.Locker
	log     *zerolog.Logger
	workers int

	cancelPolling context.CancelFunc
}

func NewRealBot(cfg *config.BotConfig, locker redisinfra.Locker, log *zerolog.Logger) (*RealBot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if locker == nil {
		return nil, errors.New("locker is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &RealBot{
		bot:     bot,
		cfg:     cfg,
		locker:  locker,
		log:     log,
		workers: workers,
	}, nil
}

// StartPolling pulls updates until ctx is canceled. Updates fan out to a
// bounded worker pool; the per-session-key lock inside handleUpdate keeps
// events for one chat strictly sequential even so.
func (r *RealBot) StartPolling(ctx context.Context, handler EventHandler) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					if err := r.handleUpdate(ctx, handler, update); err != nil {
						r.log.Error().Err(err).Msg("update handling failed")
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(updateChan)
		for {
			select {
			case update := <-updates:
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	r.bot.StopReceivingUpdates()
	wg.Wait()
	return nil
}

// StopPolling stops the polling loop gracefully.
func (r *RealBot) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// handleUpdate translates one update and dispatches it under the session
// lock. Handler errors are returned for logging only; they never stop the
// loop.
func (r *RealBot) handleUpdate(ctx context.Context, handler EventHandler, update tgbotapi.Update) error {
	ev, ok := r.translate(update)
	if !ok {
		return nil
	}

	ctx = logging.WithTraceID(ctx, ulid.Make().String())
	ctx = logging.WithChatID(ctx, ev.ChatID)
	log := logging.With(ctx, r.log)

	lockKey := "lock:" + handler.SessionKey(ev.ChatID)
	token, err := r.locker.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLocked) {
			// another event for this chat is still in flight; the callback
			// was already answered, so dropping is safe
			log.Warn().Msg("session busy, update skipped")
			return nil
		}
		return err
	}
	defer func() {
		if err := r.locker.Unlock(ctx, lockKey, token); err != nil {
			log.Warn().Err(err).Msg("session unlock failed")
		}
	}()

	return handler.HandleEvent(ctx, ev)
}

// translate maps a transport update onto exactly one Event shape, or none
// for update types the dialog does not consume. Callback acknowledgement
// happens here, once, regardless of what the handler does with the event.
func (r *RealBot) translate(update tgbotapi.Update) (model.Event, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if _, err := r.bot.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			r.log.Warn().Err(err).Str("callback_id", cq.ID).Msg("callback answer failed")
		}
		messageID := 0
		if cq.Message != nil {
			messageID = cq.Message.MessageID
		}
		return model.NewCallbackEvent(cq.From.ID, messageID, cq.Data), true
	}
	if msg := update.Message; msg != nil && msg.Text != "" {
		return model.NewTextEvent(msg.Chat.ID, msg.Text), true
	}
	return model.Event{}, false
}

// ---- outbound port ----

func (r *RealBot) SendMessage(_ context.Context, p adapter.SendMessageParams) error {
	msg := tgbotapi.NewMessage(p.ChatID, p.Text)
	if kb := inlineKeyboard(p.Keyboard); kb != nil {
		msg.ReplyMarkup = *kb
	}
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBot) SendPhoto(_ context.Context, p adapter.SendPhotoParams) error {
	msg := tgbotapi.NewPhoto(p.ChatID, tgbotapi.FileURL(p.PhotoURL))
	msg.Caption = p.Caption
	if kb := inlineKeyboard(p.Keyboard); kb != nil {
		msg.ReplyMarkup = *kb
	}
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBot) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	_, err := r.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func (r *RealBot) EditMessageText(_ context.Context, chatID int64, messageID int, text string, keyboard [][]adapter.Button) error {
	if kb := inlineKeyboard(keyboard); kb != nil {
		_, err := r.bot.Send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *kb))
		return err
	}
	_, err := r.bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

func inlineKeyboard(rows [][]adapter.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		kb = append(kb, btns)
	}
	m := tgbotapi.NewInlineKeyboardMarkup(kb...)
	return &m
}

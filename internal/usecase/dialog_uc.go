package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"telegram-store-bot/internal/domain"
	"telegram-store-bot/internal/domain/model"
	"telegram-store-bot/internal/domain/ports/adapter"
	"telegram-store-bot/internal/domain/ports/repository"
	"telegram-store-bot/internal/infra/logging"
	"telegram-store-bot/internal/infra/metrics"
)

// DialogUseCase is the conversation state machine. For every inbound event
// it resolves the session's current state, runs the handler for it, and
// persists the state the handler returns. The next state is written only
// after the handler succeeded; a failed handler leaves the stored state
// untouched so the user can retry the same step.
type DialogUseCase struct {
	sessions  repository.SessionRepository
	commerce  adapter.CommerceClient
	bot       adapter.Bot
	namespace string
	log       *zerolog.Logger
}

func NewDialogUseCase(
	sessions repository.SessionRepository,
	commerce adapter.CommerceClient,
	bot adapter.Bot,
	namespace string,
	log *zerolog.Logger,
) *DialogUseCase {
	return &DialogUseCase{
		sessions:  sessions,
		commerce:  commerce,
		bot:       bot,
		namespace: namespace,
		log:       log,
	}
}

// SessionKey derives the namespaced session key for a chat. The same
// string is passed to the commerce backend as the cart ID.
func (uc *DialogUseCase) SessionKey(chatID int64) string {
	return fmt.Sprintf("%s_%d", uc.namespace, chatID)
}

// HandleEvent runs the dispatch cycle for one inbound event. The returned
// error is classified by the domain sentinels; the caller is expected to
// log it and keep the event loop running.
func (uc *DialogUseCase) HandleEvent(ctx context.Context, ev model.Event) error {
	key := uc.SessionKey(ev.ChatID)
	log := logging.With(ctx, uc.log)

	var state model.State
	if ev.IsStartCommand() {
		// hard reset escape hatch
		state = model.StateStart
	} else {
		var err error
		state, err = uc.sessions.Get(ctx, key)
		if err != nil {
			metrics.IncDialogError(errClass(err))
			uc.apologize(ctx, ev.ChatID)
			return err
		}
	}
	metrics.IncDialogEvent(string(state))

	next, err := uc.dispatch(ctx, state, ev)
	if err != nil {
		metrics.IncDialogError(errClass(err))
		log.Warn().Err(err).Str("state", string(state)).Msg("handler failed")
		if errors.Is(err, domain.ErrProtocol) {
			uc.reprompt(ctx, ev.ChatID)
		} else {
			uc.apologize(ctx, ev.ChatID)
		}
		return err
	}

	if err := uc.sessions.Set(ctx, key, next); err != nil {
		metrics.IncDialogError(errClass(err))
		return err
	}
	if next != state {
		metrics.IncDialogTransition(string(state), string(next))
	}
	log.Debug().Str("from", string(state)).Str("to", string(next)).Msg("event handled")
	return nil
}

// dispatch is total over the declared states; the default branch is a
// programming-invariant violation, never user input.
func (uc *DialogUseCase) dispatch(ctx context.Context, state model.State, ev model.Event) (model.State, error) {
	switch state {
	case model.StateStart:
		return uc.handleStart(ctx, ev)
	case model.StateBrowsingMenu:
		return uc.handleBrowsingMenu(ctx, ev)
	case model.StateViewingProduct:
		return uc.handleViewingProduct(ctx, ev)
	case model.StateViewingCart:
		return uc.handleViewingCart(ctx, ev)
	default:
		return state, fmt.Errorf("no handler for state %q", state)
	}
}

// handleStart renders the product menu on any entry.
func (uc *DialogUseCase) handleStart(ctx context.Context, ev model.Event) (model.State, error) {
	if err := uc.sendMenu(ctx, ev.ChatID); err != nil {
		return model.StateStart, err
	}
	return model.StateBrowsingMenu, nil
}

func (uc *DialogUseCase) handleBrowsingMenu(ctx context.Context, ev model.Event) (model.State, error) {
	if ev.Kind != model.EventCallback {
		return model.StateBrowsingMenu, fmt.Errorf("%w: expected a button press", domain.ErrProtocol)
	}
	if ev.Payload == model.PayloadCart {
		if err := uc.showCart(ctx, ev); err != nil {
			return model.StateBrowsingMenu, err
		}
		return model.StateViewingCart, nil
	}
	return uc.showProduct(ctx, ev)
}

func (uc *DialogUseCase) handleViewingProduct(ctx context.Context, ev model.Event) (model.State, error) {
	if ev.Kind != model.EventCallback {
		return model.StateViewingProduct, fmt.Errorf("%w: expected a button press", domain.ErrProtocol)
	}
	switch ev.Payload {
	case model.PayloadBack:
		uc.deleteOrigin(ctx, ev)
		if err := uc.sendMenu(ctx, ev.ChatID); err != nil {
			return model.StateViewingProduct, err
		}
		return model.StateBrowsingMenu, nil
	case model.PayloadCart:
		if err := uc.showCart(ctx, ev); err != nil {
			return model.StateViewingProduct, err
		}
		return model.StateViewingCart, nil
	}

	productID, qty, err := parseAddToCart(ev.Payload)
	if err != nil {
		return model.StateViewingProduct, err
	}
	// The cart ID is the session key. Adding stays on the product view so
	// the user can stack several quantities in a row.
	if err := uc.commerce.AddToCart(ctx, uc.SessionKey(ev.ChatID), productID, qty); err != nil {
		return model.StateViewingProduct, err
	}
	return model.StateViewingProduct, nil
}

// handleViewingCart is a holding state: events refresh the cart render and
// never move the session anywhere else.
func (uc *DialogUseCase) handleViewingCart(ctx context.Context, ev model.Event) (model.State, error) {
	text, err := uc.cartRender(ctx, ev.ChatID)
	if err != nil {
		return model.StateViewingCart, err
	}
	if ev.Kind == model.EventCallback {
		if err := uc.bot.EditMessageText(ctx, ev.ChatID, ev.MessageID, text, nil); err != nil {
			// editing an unchanged render is rejected by the transport;
			// the cart content itself was fetched fine
			logging.With(ctx, uc.log).Debug().Err(err).Msg("cart refresh edit skipped")
		}
		return model.StateViewingCart, nil
	}
	if err := uc.bot.SendMessage(ctx, adapter.SendMessageParams{ChatID: ev.ChatID, Text: text}); err != nil {
		return model.StateViewingCart, err
	}
	return model.StateViewingCart, nil
}

// ---- shared rendering steps ----

func (uc *DialogUseCase) sendMenu(ctx context.Context, chatID int64) error {
	products, err := uc.commerce.ListProducts(ctx)
	if err != nil {
		return err
	}
	return uc.bot.SendMessage(ctx, adapter.SendMessageParams{
		ChatID:   chatID,
		Text:     menuPrompt,
		Keyboard: menuKeyboard(products),
	})
}

// showProduct renders the product detail view. A product or image that
// disappeared between menu render and click is not the user's fault: they
// get an "unavailable" notice and a fresh menu.
func (uc *DialogUseCase) showProduct(ctx context.Context, ev model.Event) (model.State, error) {
	p, err := uc.commerce.GetProduct(ctx, ev.Payload)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uc.productGone(ctx, ev)
		}
		return model.StateBrowsingMenu, err
	}

	var imageURL string
	if p.ImageID != "" {
		imageURL, err = uc.commerce.ResolveImageURL(ctx, p.ImageID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return uc.productGone(ctx, ev)
			}
			return model.StateBrowsingMenu, err
		}
	}

	uc.deleteOrigin(ctx, ev)
	if imageURL == "" {
		err = uc.bot.SendMessage(ctx, adapter.SendMessageParams{
			ChatID:   ev.ChatID,
			Text:     productCaption(p),
			Keyboard: productKeyboard(p),
		})
	} else {
		err = uc.bot.SendPhoto(ctx, adapter.SendPhotoParams{
			ChatID:   ev.ChatID,
			PhotoURL: imageURL,
			Caption:  productCaption(p),
			Keyboard: productKeyboard(p),
		})
	}
	if err != nil {
		return model.StateBrowsingMenu, err
	}
	return model.StateViewingProduct, nil
}

func (uc *DialogUseCase) productGone(ctx context.Context, ev model.Event) (model.State, error) {
	_ = uc.bot.SendMessage(ctx, adapter.SendMessageParams{
		ChatID: ev.ChatID,
		Text:   "That item is no longer available.",
	})
	if err := uc.sendMenu(ctx, ev.ChatID); err != nil {
		return model.StateBrowsingMenu, err
	}
	return model.StateBrowsingMenu, nil
}

func (uc *DialogUseCase) showCart(ctx context.Context, ev model.Event) error {
	text, err := uc.cartRender(ctx, ev.ChatID)
	if err != nil {
		return err
	}
	uc.deleteOrigin(ctx, ev)
	return uc.bot.SendMessage(ctx, adapter.SendMessageParams{ChatID: ev.ChatID, Text: text})
}

func (uc *DialogUseCase) cartRender(ctx context.Context, chatID int64) (string, error) {
	key := uc.SessionKey(chatID)
	cart, err := uc.commerce.GetCart(ctx, key)
	if err != nil {
		return "", err
	}
	items, err := uc.commerce.GetCartItems(ctx, key)
	if err != nil {
		return "", err
	}
	return cartText(cart, items), nil
}

// deleteOrigin removes the message the pressed button was attached to.
// Cosmetic; a failure is not worth aborting the transition over.
func (uc *DialogUseCase) deleteOrigin(ctx context.Context, ev model.Event) {
	if ev.Kind != model.EventCallback || ev.MessageID == 0 {
		return
	}
	if err := uc.bot.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
		logging.With(ctx, uc.log).Debug().Err(err).Int("message_id", ev.MessageID).Msg("delete origin failed")
	}
}

func (uc *DialogUseCase) apologize(ctx context.Context, chatID int64) {
	_ = uc.bot.SendMessage(ctx, adapter.SendMessageParams{
		ChatID: chatID,
		Text:   "Something went wrong, please try again.",
	})
}

func (uc *DialogUseCase) reprompt(ctx context.Context, chatID int64) {
	_ = uc.bot.SendMessage(ctx, adapter.SendMessageParams{
		ChatID: chatID,
		Text:   "Sorry, I didn't get that. Please use the buttons.",
	})
}

func errClass(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuth):
		return "auth"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrProtocol):
		return "protocol"
	case errors.Is(err, domain.ErrStore):
		return "store"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	default:
		return "other"
	}
}

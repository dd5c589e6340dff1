package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quizdeck/internal/service"
	"github.com/aliskhannn/quizdeck/internal/viewer"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		h.answer(cb, "", false)
		return
	}

	var (
		chatID    = cb.Message.Chat.ID
		messageID = cb.Message.MessageID
		key       = sessionKey(chatID)
		cd        = decodeCallback(cb.Data)
		page      = -1
		screen    viewer.Screen
		err       error
	)

	dispatch := func(ev viewer.Event) {
		screen, _, err = h.sessionService.Dispatch(key, ev, func(s viewer.Screen) {
			h.editScreen(chatID, messageID, s, -1)
		})
	}

	switch cd.Action {
	case actionDeck:
		index, ok := cd.intParam(0)
		if !ok {
			h.answer(cb, "", false)
			return
		}
		screen, err = h.sessionService.Open(ctx, key, index)
		if err != nil {
			h.answer(cb, service.LoadErrorMessage(err), true)
			return
		}

	case actionOption:
		dispatch(viewer.SelectOption{Letter: cd.param(0)})
	case actionFlip:
		dispatch(viewer.Flip{})
	case actionNext:
		dispatch(viewer.Next{})
	case actionPrev:
		dispatch(viewer.Prev{})
	case actionHome:
		dispatch(viewer.Home{})

	case actionJump:
		switch cd.param(0) {
		case jumpOpen:
			dispatch(viewer.OpenJump{})
		case jumpClose:
			dispatch(viewer.CloseJump{})
		case jumpGo:
			index, ok := cd.intParam(1)
			if !ok {
				h.answer(cb, "", false)
				return
			}
			dispatch(viewer.JumpTo{Index: index})
		case jumpPage:
			p, ok := cd.intParam(1)
			if !ok {
				h.answer(cb, "", false)
				return
			}
			page = p
			screen = h.sessionService.Screen(key)
			if screen.View != viewer.ViewCard {
				err = viewer.ErrNoSession
			}
		default:
			h.answer(cb, "", false)
			return
		}

	default:
		// Includes noop buttons: disabled options and page counters.
		h.answer(cb, "", false)
		return
	}

	switch {
	case errors.Is(err, viewer.ErrNoSession):
		h.answer(cb, msgSessionExpired, true)
		screen = viewer.Screen{View: viewer.ViewCatalog}
	case errors.Is(err, viewer.ErrIndexOutOfRange):
		h.answer(cb, fmt.Sprintf(msgNumberRange, cardTotal(h.sessionService.Screen(key))), true)
		return
	case err != nil:
		h.logger.Error("failed to handle callback",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		h.answer(cb, msgInternalError, true)
		return
	default:
		// Remove the user's "clock".
		h.answer(cb, "", false)
	}

	h.editScreen(chatID, messageID, screen, page)
}

// answer acknowledges a callback, optionally with a blocking alert.
func (h *Handler) answer(cb *tgbotapi.CallbackQuery, text string, alert bool) {
	answer := tgbotapi.NewCallback(cb.ID, text)
	if alert {
		answer = tgbotapi.NewCallbackWithAlert(cb.ID, text)
	}
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

func cardTotal(screen viewer.Screen) int {
	if screen.Card == nil {
		return 0
	}
	return screen.Card.Total
}

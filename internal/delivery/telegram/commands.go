package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aliskhannn/quizdeck/internal/viewer"
)

// catalogHandler closes the open deck, if any, and shows the catalog with
// the current question counts.
func (h *Handler) catalogHandler() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		screen, _, err := h.sessionService.Dispatch(sessionKey(chatID), viewer.Home{}, nil)
		if err != nil {
			return fmt.Errorf("close deck: %w", err)
		}

		h.sendScreen(chatID, screen)
		return nil
	}
}

// jumpHandler opens the question picker for the open deck.
func (h *Handler) jumpHandler() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		screen, _, err := h.sessionService.Dispatch(sessionKey(chatID), viewer.OpenJump{}, nil)
		if errors.Is(err, viewer.ErrNoSession) {
			h.send(newHTMLMessage(chatID, msgNoDeck))
			return nil
		}
		if err != nil {
			return err
		}

		h.sendScreen(chatID, screen)
		return nil
	}
}

// numberHandler jumps to the question number sent as text.
func (h *Handler) numberHandler(text string) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		key := sessionKey(chatID)

		current := h.sessionService.Screen(key)
		if current.Card == nil {
			h.send(newHTMLMessage(chatID, msgNoDeck))
			return nil
		}

		total := current.Card.Total
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || n < 1 || n > total {
			h.send(newHTMLMessage(chatID, fmt.Sprintf(msgNumberRange, total)))
			return nil
		}

		screen, _, err := h.sessionService.Dispatch(key, viewer.JumpTo{Index: n - 1}, nil)
		if err != nil {
			return fmt.Errorf("jump to %d: %w", n, err)
		}

		h.sendScreen(chatID, screen)
		return nil
	}
}

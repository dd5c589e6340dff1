// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
	"github.com/aliskhannn/quizdeck/internal/viewer"
)

const (
	msgWelcome = "👋 <b>Welcome to Quizdeck!</b>\n\n" +
		"Pick a question bank below. Each question is a card: choose an answer, " +
		"the card flips to show the right one. Move with ◀️ ▶️ or tap the counter to jump."
	msgHelp = "<b>Commands</b>\n\n" +
		"/catalog - choose a question bank\n" +
		"/jump - open the question picker\n" +
		"/help - show this message\n\n" +
		"While a card is shown, send a question number to jump to it."
	msgCatalogTitle   = "📚 <b>Choose a question bank</b>"
	msgJumpTitle      = "🔢 <i>Go to question</i>"
	msgNoDeck         = "Choose a question bank first: /catalog"
	msgSessionExpired = "This deck is closed. Choose a question bank again."
	msgInternalError  = "Something went wrong. Please try again later."
	msgUnknownCommand = "Unknown command. See /help."
	msgNumberRange    = "Enter a question number from 1 to %d."
)

// newHTMLMessage creates a message with HTML parse mode.
func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// newHTMLEdit replaces the text and keyboard of an existing message.
func newHTMLEdit(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	edit.ParseMode = tgbotapi.ModeHTML
	return edit
}

// renderCatalog formats the catalog view.
func renderCatalog(tiles []entities.CatalogTile) string {
	var b strings.Builder
	b.WriteString(msgCatalogTitle)

	for _, tile := range tiles {
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s <b>%s</b>", html.EscapeString(tile.Entry.Icon), html.EscapeString(tile.Entry.Title))
		if tile.Entry.Description != "" {
			b.WriteString("\n" + html.EscapeString(tile.Entry.Description))
		}
		b.WriteString("\n<i>" + html.EscapeString(tile.Label) + "</i>")
	}

	return b.String()
}

// renderCard formats the front of a card and, once flipped, its back.
func renderCard(card *viewer.Card) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏷 <b>%s</b>\n\n", html.EscapeString(card.Topic))
	b.WriteString(html.EscapeString(card.Question))
	b.WriteString("\n")

	for _, opt := range card.Options {
		b.WriteString("\n" + optionMark(opt) + html.EscapeString(opt.Label))
	}

	if card.Flipped {
		b.WriteString("\n\n<b>Answer:</b> ")
		switch {
		case card.AnswerText != "":
			fmt.Fprintf(&b, "%s. %s", html.EscapeString(card.AnswerLetter), html.EscapeString(card.AnswerText))
		case card.AnswerLetter != "":
			b.WriteString(html.EscapeString(card.AnswerLetter))
		default:
			b.WriteString("-")
		}
	}

	fmt.Fprintf(&b, "\n\n<i>%s</i>", html.EscapeString(card.Progress))

	return b.String()
}

// renderScreen returns the text and keyboard for a screen. page selects the
// jump picker page when the picker is open; a negative page shows the page
// of the current question.
func renderScreen(screen viewer.Screen, tiles []entities.CatalogTile, page int) (string, tgbotapi.InlineKeyboardMarkup) {
	if screen.View != viewer.ViewCard || screen.Card == nil {
		return renderCatalog(tiles), buildCatalogKeyboard(tiles)
	}

	text := renderCard(screen.Card)
	if screen.Jump != nil {
		return text + "\n\n" + msgJumpTitle, buildJumpKeyboard(*screen.Jump, page)
	}

	return text, buildCardKeyboard(screen.Card)
}

func optionMark(opt viewer.Option) string {
	switch opt.State {
	case viewer.OptionCorrect:
		return "✅ "
	case viewer.OptionWrong:
		return "❌ "
	default:
		return ""
	}
}

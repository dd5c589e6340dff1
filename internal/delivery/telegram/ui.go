package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
	"github.com/aliskhannn/quizdeck/internal/viewer"
)

const (
	jumpColumns  = 8
	jumpPageSize = 40
	// Telegram rejects inline buttons with long text; option rows are cut.
	maxButtonText = 60
)

// buildCatalogKeyboard builds one button per catalog tile.
func buildCatalogKeyboard(tiles []entities.CatalogTile) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tiles))
	for _, tile := range tiles {
		text := tile.Entry.Title + " · " + tile.Label
		if tile.Entry.Icon != "" {
			text = tile.Entry.Icon + " " + text
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text, buildDeckCallback(tile.Index)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildCardKeyboard builds option rows, the flip button, navigation and the
// way back to the catalog.
func buildCardKeyboard(card *viewer.Card) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, opt := range card.Options {
		data := buildOptionCallback(opt.Letter)
		if opt.Disabled {
			data = actionNoop
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncate(optionMark(opt)+opt.Label, maxButtonText), data),
		))
	}

	flip := "🔄 Show answer"
	if card.Flipped {
		flip = "🔄 Show question"
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(flip, actionFlip),
	))

	var nav []tgbotapi.InlineKeyboardButton
	if !card.PrevDisabled {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️", actionPrev))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(card.Progress, buildJumpOpenCallback()))
	if !card.NextDisabled {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("▶️", actionNext))
	}
	rows = append(rows, nav)

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📚 Catalog", actionHome),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// jumpPages returns the number of picker pages for total questions.
func jumpPages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + jumpPageSize - 1) / jumpPageSize
}

// buildJumpKeyboard builds the numbered question picker. Negative or
// out-of-range pages fall back to the page holding the current question.
func buildJumpKeyboard(jump viewer.JumpList, page int) tgbotapi.InlineKeyboardMarkup {
	pages := jumpPages(jump.Total)
	if page < 0 || page >= pages {
		page = jump.Current / jumpPageSize
	}

	cells := jump.Cells()
	from := page * jumpPageSize
	to := min(from+jumpPageSize, len(cells))

	var (
		rows [][]tgbotapi.InlineKeyboardButton
		row  []tgbotapi.InlineKeyboardButton
	)
	for _, cell := range cells[from:to] {
		text := strconv.Itoa(cell.Number)
		if cell.Current {
			text = "• " + text + " •"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(text, buildJumpGoCallback(cell.Index)))
		if len(row) == jumpColumns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if pages > 1 {
		var nav []tgbotapi.InlineKeyboardButton
		if page > 0 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️", buildJumpPageCallback(page-1)))
		}
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(
			strconv.Itoa(page+1)+" / "+strconv.Itoa(pages), actionNoop,
		))
		if page < pages-1 {
			nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("▶️", buildJumpPageCallback(page+1)))
		}
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✖️ Close", buildJumpCloseCallback()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

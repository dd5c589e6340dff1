package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionDeck   = "deck"
	actionOption = "opt"
	actionFlip   = "flip"
	actionNext   = "next"
	actionPrev   = "prev"
	actionHome   = "home"
	actionJump   = "jump"
	actionNoop   = "noop"
)

// Jump sub-actions.
const (
	jumpOpen  = "open"
	jumpPage  = "page"
	jumpGo    = "go"
	jumpClose = "close"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or "" if there is none.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam parses the i-th parameter as a non-negative integer.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func buildDeckCallback(index int) string {
	return callbackData{Action: actionDeck, Params: []string{strconv.Itoa(index)}}.encode()
}

func buildOptionCallback(letter string) string {
	return callbackData{Action: actionOption, Params: []string{letter}}.encode()
}

func buildJumpOpenCallback() string {
	return callbackData{Action: actionJump, Params: []string{jumpOpen}}.encode()
}

func buildJumpPageCallback(page int) string {
	return callbackData{Action: actionJump, Params: []string{jumpPage, strconv.Itoa(page)}}.encode()
}

func buildJumpGoCallback(index int) string {
	return callbackData{Action: actionJump, Params: []string{jumpGo, strconv.Itoa(index)}}.encode()
}

func buildJumpCloseCallback() string {
	return callbackData{Action: actionJump, Params: []string{jumpClose}}.encode()
}

package viewer

import (
	"fmt"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
)

// OptionState is the highlight of an option row after an answer.
type OptionState int

const (
	OptionIdle OptionState = iota
	OptionCorrect
	OptionWrong
)

func (s OptionState) String() string {
	switch s {
	case OptionCorrect:
		return "correct"
	case OptionWrong:
		return "wrong"
	default:
		return "idle"
	}
}

// MarshalText encodes the state by name.
func (s OptionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Option is one rendered option row.
type Option struct {
	Letter   string      `json:"letter"`
	Text     string      `json:"text"`
	Label    string      `json:"label"` // "A. <text>"
	State    OptionState `json:"state"`
	Disabled bool        `json:"disabled"`
}

// Card is the projection of the record under the cursor.
type Card struct {
	Index        int      `json:"index"`
	Total        int      `json:"total"`
	Topic        string   `json:"topic"`
	Question     string   `json:"question"`
	Options      []Option `json:"options"`
	AnswerLetter string   `json:"answer_letter"` // staged for the back face
	AnswerText   string   `json:"answer_text"`
	Progress     string   `json:"progress"`
	PrevDisabled bool     `json:"prev_disabled"`
	NextDisabled bool     `json:"next_disabled"`
	Selected     string   `json:"selected,omitempty"`
	Answered     bool     `json:"answered"`
	Flipped      bool     `json:"flipped"`
	Generation   uint64   `json:"generation"`
}

// JumpList is the open question picker.
type JumpList struct {
	Total   int `json:"total"`
	Current int `json:"current"` // zero-based
}

// JumpCell is one numbered cell of the picker.
type JumpCell struct {
	Index   int  `json:"index"`   // zero-based target
	Number  int  `json:"number"`  // label shown to the user, Index+1
	Current bool `json:"current"` // cell of the displayed question
}

// Cells lists the picker cells 1..Total.
func (j JumpList) Cells() []JumpCell {
	cells := make([]JumpCell, j.Total)
	for i := range cells {
		cells[i] = JumpCell{Index: i, Number: i + 1, Current: i == j.Current}
	}
	return cells
}

// Screen is everything a delivery needs to draw the viewer.
type Screen struct {
	View View      `json:"view"`
	Card *Card     `json:"card,omitempty"`
	Jump *JumpList `json:"jump,omitempty"`
}

// Screen projects the current state.
func (v *Viewer) Screen() Screen {
	if v.view != ViewCard {
		return Screen{View: ViewCatalog}
	}

	s := Screen{View: ViewCard}
	if card, ok := v.card(); ok {
		s.Card = &card
	}
	if v.jumpOpen {
		s.Jump = &JumpList{Total: v.session.Len(), Current: v.session.Cursor}
	}
	return s
}

func (v *Viewer) card() (Card, bool) {
	record, ok := v.session.Current()
	if !ok {
		return Card{}, false
	}

	total := v.session.Len()
	cursor := v.session.Cursor

	topic := record.Topic
	if topic == "" {
		topic = v.defaultTopic
	}

	answer, valid := record.CorrectLetter()
	selected := v.interaction.selected

	card := Card{
		Index:        cursor,
		Total:        total,
		Topic:        topic,
		Question:     record.QuestionText,
		Options:      make([]Option, 0, len(entities.Letters)),
		AnswerLetter: answer,
		Progress:     fmt.Sprintf("%d / %d", cursor+1, total),
		PrevDisabled: cursor == 0,
		NextDisabled: cursor == total-1,
		Selected:     selected,
		Answered:     selected != "",
		Flipped:      v.interaction.flipped,
		Generation:   v.generation,
	}
	if valid {
		card.AnswerText, _ = record.Option(answer)
	}

	for _, letter := range entities.Letters {
		text, _ := record.Option(letter)
		opt := Option{
			Letter: letter,
			Text:   text,
			Label:  fmt.Sprintf("%s. %s", letter, text),
		}

		if selected != "" {
			opt.Disabled = true
			if letter == selected {
				if valid && selected == answer {
					opt.State = OptionCorrect
				} else {
					opt.State = OptionWrong
				}
			}
			// The right answer is always highlighted.
			if valid && letter == answer {
				opt.State = OptionCorrect
			}
		}

		card.Options = append(card.Options, opt)
	}

	return card, true
}

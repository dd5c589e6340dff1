package entities

import "strings"

// Letters lists option letters in display order.
var Letters = []string{"A", "B", "C", "D"}

// Record is one question row of a data file. Field tags carry the column
// names of the data file header.
type Record struct {
	Topic         string `csv:"Topic"`
	QuestionText  string `csv:"Question_Text"`
	OptionA       string `csv:"Option_A"`
	OptionB       string `csv:"Option_B"`
	OptionC       string `csv:"Option_C"`
	OptionD       string `csv:"Option_D"`
	CorrectAnswer string `csv:"Correct_Answer"` // one of A|B|C|D, surrounding whitespace allowed
}

// Option returns the text of Option_<letter>.
func (r Record) Option(letter string) (string, bool) {
	switch letter {
	case "A":
		return r.OptionA, true
	case "B":
		return r.OptionB, true
	case "C":
		return r.OptionC, true
	case "D":
		return r.OptionD, true
	default:
		return "", false
	}
}

// CorrectLetter returns the trimmed correct answer letter. ok is false when
// the value is not one of Letters.
func (r Record) CorrectLetter() (letter string, ok bool) {
	letter = strings.TrimSpace(r.CorrectAnswer)
	if !IsLetter(letter) {
		return letter, false
	}
	return letter, true
}

// IsLetter reports whether s is a valid option letter.
func IsLetter(s string) bool {
	for _, l := range Letters {
		if s == l {
			return true
		}
	}
	return false
}

// SetField assigns value to the field named by a data file column. Unknown
// columns are ignored and reported with false.
func (r *Record) SetField(column, value string) bool {
	switch column {
	case "Topic":
		r.Topic = value
	case "Question_Text":
		r.QuestionText = value
	case "Option_A":
		r.OptionA = value
	case "Option_B":
		r.OptionB = value
	case "Option_C":
		r.OptionC = value
	case "Option_D":
		r.OptionD = value
	case "Correct_Answer":
		r.CorrectAnswer = value
	default:
		return false
	}
	return true
}

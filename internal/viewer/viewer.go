// Package viewer holds the flashcard session state machine. It has no
// knowledge of any delivery surface: callers feed it events and render the
// Screen it projects.
package viewer

import (
	"errors"
	"fmt"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
)

var (
	ErrNoSession       = errors.New("no deck is open")
	ErrEmptyDeck       = errors.New("deck has no records")
	ErrUnknownOption   = errors.New("unknown option letter")
	ErrIndexOutOfRange = errors.New("question index out of range")
)

// DefaultTopic is shown when a record has no topic.
const DefaultTopic = "Nursing"

// View identifies the screen that is showing.
type View int

const (
	ViewCatalog View = iota
	ViewCard
)

func (v View) String() string {
	switch v {
	case ViewCatalog:
		return "catalog"
	case ViewCard:
		return "card"
	default:
		return fmt.Sprintf("view(%d)", int(v))
	}
}

// MarshalText encodes the view by name.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Session is the live record sequence and the cursor into it.
type Session struct {
	Records []entities.Record
	Cursor  int
}

// Len returns the number of records.
func (s Session) Len() int { return len(s.Records) }

// Current returns the record under the cursor.
func (s Session) Current() (entities.Record, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Records) {
		return entities.Record{}, false
	}
	return s.Records[s.Cursor], true
}

// interaction is the per-card state, reset whenever the cursor moves.
type interaction struct {
	selected string
	flipped  bool
}

// Viewer is the state of one user's viewer. It is not safe for concurrent
// use; callers serialize access per session.
type Viewer struct {
	defaultTopic string

	view        View
	session     Session
	interaction interaction
	jumpOpen    bool

	// generation changes on every load, cursor move and return to the
	// catalog. Deferred reveals carry the generation they were scheduled
	// under and are dropped when it no longer matches.
	generation uint64
}

// New returns a Viewer showing the catalog. An empty defaultTopic falls
// back to DefaultTopic.
func New(defaultTopic string) *Viewer {
	if defaultTopic == "" {
		defaultTopic = DefaultTopic
	}
	return &Viewer{defaultTopic: defaultTopic}
}

// View returns the current view.
func (v *Viewer) View() View { return v.view }

// Session returns a copy of the session header. Records are shared.
func (v *Viewer) Session() Session { return v.session }

// Generation returns the current render generation.
func (v *Viewer) Generation() uint64 { return v.generation }

// Effect tells the caller what to do after an event was applied.
type Effect struct {
	Render bool    // the screen changed and should be redrawn
	Reveal *Reveal // a deferred reveal to schedule, if any
}

// Handle applies ev. Errors leave the state unchanged.
func (v *Viewer) Handle(ev Event) (Effect, error) {
	switch e := ev.(type) {
	case Loaded:
		return v.load(e.Records)
	case Home:
		return v.home(), nil
	case Reveal:
		return v.reveal(e.Generation), nil
	}

	if v.view != ViewCard {
		return Effect{}, ErrNoSession
	}

	switch e := ev.(type) {
	case SelectOption:
		return v.selectOption(e.Letter)
	case Flip:
		v.interaction.flipped = !v.interaction.flipped
		return Effect{Render: true}, nil
	case Next:
		return v.next(), nil
	case Prev:
		return v.prev(), nil
	case OpenJump:
		v.jumpOpen = true
		return Effect{Render: true}, nil
	case CloseJump:
		if !v.jumpOpen {
			return Effect{}, nil
		}
		v.jumpOpen = false
		return Effect{Render: true}, nil
	case JumpTo:
		return v.jumpTo(e.Index)
	case Swipe:
		return v.swipe(e.DX, e.DY), nil
	default:
		return Effect{}, fmt.Errorf("unsupported event %T", ev)
	}
}

func (v *Viewer) load(records []entities.Record) (Effect, error) {
	if len(records) == 0 {
		return Effect{}, ErrEmptyDeck
	}

	v.session = Session{Records: records}
	v.view = ViewCard
	v.jumpOpen = false
	v.moved()

	return Effect{Render: true}, nil
}

func (v *Viewer) home() Effect {
	if v.view == ViewCatalog {
		return Effect{}
	}

	v.session = Session{}
	v.view = ViewCatalog
	v.jumpOpen = false
	v.moved()

	return Effect{Render: true}
}

func (v *Viewer) selectOption(letter string) (Effect, error) {
	if !entities.IsLetter(letter) {
		return Effect{}, fmt.Errorf("%w: %q", ErrUnknownOption, letter)
	}

	// First selection wins.
	if v.interaction.selected != "" {
		return Effect{}, nil
	}
	v.interaction.selected = letter

	return Effect{
		Render: true,
		Reveal: &Reveal{Generation: v.generation},
	}, nil
}

func (v *Viewer) reveal(generation uint64) Effect {
	if v.view != ViewCard || generation != v.generation || v.interaction.flipped {
		return Effect{}
	}
	v.interaction.flipped = true
	return Effect{Render: true}
}

func (v *Viewer) next() Effect {
	if v.session.Cursor >= v.session.Len()-1 {
		return Effect{}
	}
	v.session.Cursor++
	v.moved()
	return Effect{Render: true}
}

func (v *Viewer) prev() Effect {
	if v.session.Cursor <= 0 {
		return Effect{}
	}
	v.session.Cursor--
	v.moved()
	return Effect{Render: true}
}

func (v *Viewer) jumpTo(index int) (Effect, error) {
	if index < 0 || index >= v.session.Len() {
		return Effect{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index+1, v.session.Len())
	}

	v.session.Cursor = index
	v.jumpOpen = false
	v.moved()

	return Effect{Render: true}, nil
}

func (v *Viewer) swipe(dx, dy float64) Effect {
	switch SwipeDirection(dx, dy) {
	case SwipeNext:
		return v.next()
	case SwipePrev:
		return v.prev()
	default:
		return Effect{}
	}
}

// moved resets the per-card state after the displayed card changed.
func (v *Viewer) moved() {
	v.interaction = interaction{}
	v.generation++
}

package viewer

import "github.com/aliskhannn/quizdeck/internal/domain/entities"

// Event is an input applied with Viewer.Handle.
type Event interface {
	isEvent()
}

// Loaded replaces the session with freshly decoded records.
type Loaded struct{ Records []entities.Record }

// SelectOption answers the current card.
type SelectOption struct{ Letter string }

// Flip toggles the card between its faces.
type Flip struct{}

// Next moves to the following card.
type Next struct{}

// Prev moves to the preceding card.
type Prev struct{}

// OpenJump opens the question picker.
type OpenJump struct{}

// JumpTo moves to the zero-based Index and closes the picker.
type JumpTo struct{ Index int }

// CloseJump dismisses the picker without moving.
type CloseJump struct{}

// Swipe is a completed touch gesture, DX and DY being the displacement
// between touch start and touch end in device pixels.
type Swipe struct{ DX, DY float64 }

// Home clears the session and returns to the catalog.
type Home struct{}

// Reveal is the deferred flip scheduled by SelectOption.
type Reveal struct{ Generation uint64 }

func (Loaded) isEvent()       {}
func (SelectOption) isEvent() {}
func (Flip) isEvent()         {}
func (Next) isEvent()         {}
func (Prev) isEvent()         {}
func (OpenJump) isEvent()     {}
func (JumpTo) isEvent()       {}
func (CloseJump) isEvent()    {}
func (Swipe) isEvent()        {}
func (Home) isEvent()         {}
func (Reveal) isEvent()       {}

// Package input translates SDL2 events into viewer actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// ActionType identifies a viewer action.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionQuit
	ActionResize
	ActionPlace     // left click: place a puff at the cursor
	ActionUndo      // right click or backspace: remove the last puff
	ActionClear     // C: clear every puff
	ActionNextShape // S: cycle the footprint shape
	ActionSymmetry  // Y: toggle symmetry
	ActionCapture   // F12: save a screenshot
	ActionSizeUp    // ] or wheel up
	ActionSizeDown  // [ or wheel down
	ActionLit       // L: toggle lit relief view
)

// Action is a processed input event. X and Y are window coordinates for
// ActionPlace; Width and Height carry the new size for ActionResize.
type Action struct {
	Type   ActionType
	X, Y   int
	Width  int
	Height int
}

// Input collects the actions of one frame.
type Input struct {
	actions []Action
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		actions: make([]Action, 0, 16),
	}
}

// Update polls SDL events. Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.actions = i.actions[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if a, ok := Translate(event); ok {
			i.actions = append(i.actions, a)
			if a.Type == ActionQuit {
				quit = true
			}
		}
	}
	return quit
}

// Actions returns the actions from the last Update.
func (i *Input) Actions() []Action {
	return i.actions
}

// Translate maps one SDL event to an action.
func Translate(event sdl.Event) (Action, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Action{Type: ActionQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Action{Type: ActionResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return Action{}, false
		}
		switch e.Keysym.Sym {
		case sdl.K_ESCAPE:
			return Action{Type: ActionQuit}, true
		case sdl.K_BACKSPACE:
			return Action{Type: ActionUndo}, true
		case sdl.K_c:
			return Action{Type: ActionClear}, true
		case sdl.K_s:
			return Action{Type: ActionNextShape}, true
		case sdl.K_y:
			return Action{Type: ActionSymmetry}, true
		case sdl.K_l:
			return Action{Type: ActionLit}, true
		case sdl.K_F12:
			return Action{Type: ActionCapture}, true
		case sdl.K_RIGHTBRACKET:
			return Action{Type: ActionSizeUp}, true
		case sdl.K_LEFTBRACKET:
			return Action{Type: ActionSizeDown}, true
		}

	case *sdl.MouseButtonEvent:
		if e.Type != sdl.MOUSEBUTTONDOWN {
			return Action{}, false
		}
		switch e.Button {
		case sdl.BUTTON_LEFT:
			return Action{Type: ActionPlace, X: int(e.X), Y: int(e.Y)}, true
		case sdl.BUTTON_RIGHT:
			return Action{Type: ActionUndo}, true
		}

	case *sdl.MouseWheelEvent:
		if e.Y > 0 {
			return Action{Type: ActionSizeUp}, true
		}
		if e.Y < 0 {
			return Action{Type: ActionSizeDown}, true
		}
	}
	return Action{}, false
}

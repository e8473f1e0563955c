// Package input handles SDL2 input events and maps keys to scene actions.
package input

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/midgard-ocean/internal/engine/input/action"
)

// EventType classifies the raw events the frame loop cares about.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
}

// Keymap binds scancodes to actions. Several keys may share an action.
type Keymap map[sdl.Scancode]action.Action

// ParseKeymap resolves action → SDL key name bindings (e.g. "move_forward": "W").
func ParseKeymap(bindings map[string]string) (Keymap, error) {
	km := make(Keymap, len(bindings))
	for actionName, keyName := range bindings {
		a, err := action.Parse(actionName)
		if err != nil {
			return nil, err
		}
		code := sdl.GetScancodeFromName(keyName)
		if code == sdl.SCANCODE_UNKNOWN {
			return nil, fmt.Errorf("action %s: unknown key %q", actionName, keyName)
		}
		km[code] = a
	}
	return km, nil
}

// Input polls SDL once per frame and exposes the result as an action.Snapshot.
type Input struct {
	keymap   Keymap
	events   []Event
	snapshot action.Snapshot
}

// New creates a new input handler using the given key bindings.
func New(keymap Keymap) *Input {
	return &Input{
		keymap: keymap,
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and samples held keys.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.snapshot.Reset()
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			code := e.Keysym.Scancode
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: code})
				if a, ok := i.keymap[code]; ok && e.Repeat == 0 {
					i.snapshot.SetPressed(a)
				}
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{Type: EventKeyUp, Key: code})
			}
		}
	}

	state := sdl.GetKeyboardState()
	for code, a := range i.keymap {
		if int(code) < len(state) && state[code] != 0 {
			i.snapshot.SetHeld(a, true)
		}
	}

	return quit || i.snapshot.Pressed(action.Quit)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// State returns the action snapshot from the last Update.
func (i *Input) State() *action.Snapshot {
	return &i.snapshot
}

// Package action names the logical inputs the scene reacts to and holds
// their per-frame state. It has no platform dependencies.
package action

import "fmt"

// Action is a logical input the scene reacts to, independent of the key bound to it.
type Action int

const (
	MoveForward Action = iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	SpeedFast
	SpeedSlow
	ResetCamera
	ToggleWireframe
	CycleMeshMode
	Screenshot
	Quit

	numActions
)

var actionNames = [numActions]string{
	MoveForward:     "move_forward",
	MoveBack:        "move_back",
	MoveLeft:        "move_left",
	MoveRight:       "move_right",
	MoveUp:          "move_up",
	MoveDown:        "move_down",
	SpeedFast:       "speed_fast",
	SpeedSlow:       "speed_slow",
	ResetCamera:     "reset_camera",
	ToggleWireframe: "toggle_wireframe",
	CycleMeshMode:   "cycle_mesh_mode",
	Screenshot:      "screenshot",
	Quit:            "quit",
}

// String returns the config name of the action.
func (a Action) String() string {
	if a < 0 || a >= numActions {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// Parse maps a config name back to its action.
func Parse(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("unknown input action %q", name)
}

// All returns every action in declaration order.
func All() []Action {
	out := make([]Action, numActions)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

// Snapshot is the action state sampled once per frame.
// Held is level-triggered; Pressed is true only on the frame the key went down.
type Snapshot struct {
	held    [numActions]bool
	pressed [numActions]bool
}

// Held reports whether the action's key is down this frame.
func (s *Snapshot) Held(a Action) bool {
	return a >= 0 && a < numActions && s.held[a]
}

// Pressed reports whether the action's key went down this frame.
func (s *Snapshot) Pressed(a Action) bool {
	return a >= 0 && a < numActions && s.pressed[a]
}

// SetHeld records the held state of an action.
func (s *Snapshot) SetHeld(a Action, down bool) {
	if a >= 0 && a < numActions {
		s.held[a] = down
	}
}

// SetPressed records a key-down edge for an action.
func (s *Snapshot) SetPressed(a Action) {
	if a >= 0 && a < numActions {
		s.pressed[a] = true
	}
}

// Reset clears both held and pressed state.
func (s *Snapshot) Reset() {
	*s = Snapshot{}
}

package water

import "fmt"

// Mode selects which mesh the water surface is drawn with.
type Mode int

const (
	ModeSimple    Mode = iota // Flat grid around the origin
	ModePolar                 // Ring grid reaching the far field
	ModeProjected             // Camera-projected grid, rebuilt every frame

	numModes
)

var modeNames = [numModes]string{
	ModeSimple:    "simple",
	ModePolar:     "polar",
	ModeProjected: "projected",
}

func (m Mode) String() string {
	if m < 0 || m >= numModes {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Next returns the following mode, wrapping around.
func (m Mode) Next() Mode {
	return (m + 1) % numModes
}

// ParseMode maps a config name to a Mode.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown water mesh mode %q", name)
}

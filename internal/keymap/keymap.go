// Package keymap maps key presses onto editing actions. The dispatcher is
// registered once; rebinding swaps the bindings cell instead of re-attaching
// handlers, so stale closures can never fire.
package keymap

// Action names the editing operations a key can trigger. The values double
// as the keys of the persisted keybind overrides.
type Action string

const (
	PlayPause      Action = "playPause"
	SetIn          Action = "setIn"
	SetOut         Action = "setOut"
	AddSegment     Action = "addSegment"
	DeleteSelected Action = "deleteSelected"
	Export         Action = "export"
	NextClip       Action = "nextClip"
	PrevClip       Action = "prevClip"
	ToggleEditMode Action = "toggleEditMode"
	ScrubForward   Action = "scrubForward"
	ScrubBackward  Action = "scrubBackward"
	StepForward    Action = "stepForward"
	StepBackward   Action = "stepBackward"
	SpeedUp        Action = "speedUp"
	SpeedDown      Action = "speedDown"
)

// actionOrder fixes the iteration order of dispatch so a key bound to two
// actions by a bad override resolves deterministically.
var actionOrder = []Action{
	PlayPause,
	SetIn,
	SetOut,
	AddSegment,
	DeleteSelected,
	Export,
	NextClip,
	PrevClip,
	ToggleEditMode,
	ScrubForward,
	ScrubBackward,
	StepForward,
	StepBackward,
	SpeedUp,
	SpeedDown,
}

// Keymap maps actions to key names. Key names are compared case-insensitively.
type Keymap map[Action]string

// Default is the out-of-the-box layout.
func Default() Keymap {
	return Keymap{
		PlayPause:      " ",
		SetIn:          "i",
		SetOut:         "o",
		AddSegment:     "a",
		DeleteSelected: "delete",
		Export:         "enter",
		NextClip:       "n",
		PrevClip:       "p",
		ToggleEditMode: "e",
		ScrubForward:   "arrowright",
		ScrubBackward:  "arrowleft",
		StepForward:    ".",
		StepBackward:   ",",
		SpeedUp:        "arrowup",
		SpeedDown:      "arrowdown",
	}
}

// Merge overlays persisted overrides onto the defaults. Unknown action names
// in the overrides are ignored.
func Merge(overrides map[string]string) Keymap {
	km := Default()
	for name, key := range overrides {
		action := Action(name)
		if _, ok := km[action]; ok && key != "" {
			km[action] = key
		}
	}
	return km
}

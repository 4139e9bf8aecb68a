package studio

import "github.com/lowaak/smart-trainer/studio-play/internal/playmode"

// UIMode represents the current UI mode/screen
type UIMode int

const (
	UIModeClassSelection UIMode = iota // Class list, details and search
	UIModePlayMode                     // Live countdown of the running class
)

// UIModeInfo contains display information for a UI mode
type UIModeInfo struct {
	Mode        UIMode
	DisplayName string
	KeyBinding  rune // The number key to activate this mode (1-9)
}

// AllUIModes defines all available UI modes in order
var AllUIModes = []UIModeInfo{
	{Mode: UIModeClassSelection, DisplayName: "Class Selection", KeyBinding: '1'},
	{Mode: UIModePlayMode, DisplayName: "Play Mode", KeyBinding: '2'},
}

// GetUIModeByKey returns the mode for a given key binding
func GetUIModeByKey(key rune) (UIMode, bool) {
	for _, info := range AllUIModes {
		if info.KeyBinding == key {
			return info.Mode, true
		}
	}
	return 0, false
}

// GetUIModeInfo returns the info for a given mode
func GetUIModeInfo(mode UIMode) (UIModeInfo, bool) {
	for _, info := range AllUIModes {
		if info.Mode == mode {
			return info, true
		}
	}
	return UIModeInfo{}, false
}

// Play Mode key bindings
const (
	KeyTogglePause  = ' '
	KeySkipForward  = 'n'
	KeySkipBackward = 'p'
	KeyRestart      = 'r'
	KeyExit         = 'x'
	KeySearch       = '/'
)

// adjustmentKeyRunes are bound to playmode.AdjustmentPresets in order
var adjustmentKeyRunes = []rune{'a', 's', 'd'}

// AdjustmentKeys maps the time adjustment keys to seconds added
var AdjustmentKeys = newAdjustmentKeys(adjustmentKeyRunes, playmode.AdjustmentPresets)

func newAdjustmentKeys(keys []rune, presets []int) map[rune]int {
	m := make(map[rune]int, len(presets))
	for i, seconds := range presets {
		if i >= len(keys) {
			break
		}
		m[keys[i]] = seconds
	}
	return m
}

const maxLogLines = 1000

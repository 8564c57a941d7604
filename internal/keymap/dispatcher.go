package keymap

import (
	"strings"
	"sync"
)

// Bindings pairs a keymap with the handlers it drives. A rebind builds a new
// Bindings value and swaps it in whole.
type Bindings struct {
	Keymap   Keymap
	Handlers map[Action]func()
}

// Dispatcher routes key presses to handlers through a swappable bindings
// cell. It is installed once for the lifetime of the process; Set replaces
// what future key presses see without touching the key source.
type Dispatcher struct {
	mu       sync.RWMutex
	bindings *Bindings
}

func NewDispatcher(b *Bindings) *Dispatcher {
	return &Dispatcher{bindings: b}
}

// Set swaps the active bindings. Key presses already in flight finish
// against the bindings they loaded.
func (d *Dispatcher) Set(b *Bindings) {
	d.mu.Lock()
	d.bindings = b
	d.mu.Unlock()
}

// Dispatch routes one key press. typing suppresses all shortcuts so text
// entry (segment labels) never triggers edits. At most one handler runs per
// press; the return value reports whether the key was consumed.
func (d *Dispatcher) Dispatch(key string, typing bool) bool {
	if typing {
		return false
	}

	d.mu.RLock()
	b := d.bindings
	d.mu.RUnlock()
	if b == nil {
		return false
	}

	pressed := strings.ToLower(key)
	for _, action := range actionOrder {
		bound, ok := b.Keymap[action]
		if !ok || strings.ToLower(bound) != pressed {
			continue
		}
		if handler := b.Handlers[action]; handler != nil {
			handler()
			return true
		}
		return false
	}
	return false
}

package chatter

import (
	"fmt"
	"strings"

	"github.com/holoplot/go-evdev"
)

// KeyCode identifies a physical key. It uses the X numbering: the kernel (evdev)
// code plus 8. The same value names the same key for the evdev source, for the
// uinput injector and for X11.
type KeyCode uint16

const (
	MinKeyCode KeyCode = 8
	MaxKeyCode KeyCode = 255

	evdevOffset = 8
)

func (c KeyCode) Valid() bool {
	return c >= MinKeyCode && c <= MaxKeyCode
}

func FromEvdev(code evdev.EvCode) KeyCode {
	return KeyCode(code) + evdevOffset
}

// Evdev returns the kernel code. Only meaningful for valid codes.
func (c KeyCode) Evdev() evdev.EvCode {
	if c < evdevOffset {
		return 0
	}
	return evdev.EvCode(c - evdevOffset)
}

func (c KeyCode) String() string {
	name, ok := evdev.KEYToString[c.Evdev()]
	if !ok || !c.Valid() {
		return fmt.Sprintf("%d", uint16(c))
	}
	return fmt.Sprintf("%d(%s)", uint16(c), strings.TrimPrefix(name, "KEY_"))
}

var UnknownKeyErr = fmt.Errorf("unknown key")

// KeyResolver turns a symbolic key name of a mapping file into a KeyCode.
type KeyResolver func(name string) (KeyCode, error)

// X keysym spellings which have no direct evdev counterpart.
var keysymAliases = map[string]evdev.EvCode{
	"RETURN":      evdev.KEY_ENTER,
	"KP_ENTER":    evdev.KEY_KPENTER,
	"ESCAPE":      evdev.KEY_ESC,
	"BACKSPACE":   evdev.KEY_BACKSPACE,
	"PRIOR":       evdev.KEY_PAGEUP,
	"NEXT":        evdev.KEY_PAGEDOWN,
	"PAGE_UP":     evdev.KEY_PAGEUP,
	"PAGE_DOWN":   evdev.KEY_PAGEDOWN,
	"SHIFT_L":     evdev.KEY_LEFTSHIFT,
	"SHIFT_R":     evdev.KEY_RIGHTSHIFT,
	"CONTROL_L":   evdev.KEY_LEFTCTRL,
	"CONTROL_R":   evdev.KEY_RIGHTCTRL,
	"ALT_L":       evdev.KEY_LEFTALT,
	"ALT_R":       evdev.KEY_RIGHTALT,
	"SUPER_L":     evdev.KEY_LEFTMETA,
	"SUPER_R":     evdev.KEY_RIGHTMETA,
	"CAPS_LOCK":   evdev.KEY_CAPSLOCK,
	"NUM_LOCK":    evdev.KEY_NUMLOCK,
	"PRINT":       evdev.KEY_PRINT,
	"PERIOD":      evdev.KEY_DOT,
	"KP_ADD":      evdev.KEY_KPPLUS,
	"KP_SUBTRACT": evdev.KEY_KPMINUS,
	"KP_MULTIPLY": evdev.KEY_KPASTERISK,
	"KP_DIVIDE":   evdev.KEY_KPSLASH,
	"KP_DECIMAL":  evdev.KEY_KPDOT,
}

// ResolveKeyName accepts evdev names ("a", "f1", "KEY_F1", "kp1") and the common X
// keysym names ("KP_1", "KP_Enter", "Return", "Shift_L").
func ResolveKeyName(name string) (KeyCode, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	upper = strings.TrimPrefix(upper, "KEY_")
	if upper == "" {
		return 0, fmt.Errorf("empty key name: %w", UnknownKeyErr)
	}
	if code, ok := keysymAliases[upper]; ok {
		return FromEvdev(code), nil
	}
	if code, ok := evdev.KEYFromString["KEY_"+upper]; ok {
		return FromEvdev(code), nil
	}
	// KP_1 -> KP1, Page_Up -> PAGEUP
	if code, ok := evdev.KEYFromString["KEY_"+strings.ReplaceAll(upper, "_", "")]; ok {
		return FromEvdev(code), nil
	}
	return 0, fmt.Errorf("failed to get key %q: %w. Use sub-command 'print' to see names of keys", name, UnknownKeyErr)
}

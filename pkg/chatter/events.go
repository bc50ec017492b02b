package chatter

import (
	"fmt"

	"github.com/holoplot/go-evdev"
)

const (
	UP     = 0
	DOWN   = 1
	REPEAT = 2
)

type Event = evdev.InputEvent

// Kind is the closed set of raw events the bridge reacts to.
type Kind int

const (
	Other Kind = iota
	Press
	Release
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return "other"
	}
}

// Classify maps a raw evdev event to a Kind and a KeyCode. Repeats and non
// EV_KEY events are Other.
func Classify(ev *Event) (Kind, KeyCode) {
	if ev.Type != evdev.EV_KEY {
		return Other, 0
	}
	switch ev.Value {
	case DOWN:
		return Press, FromEvdev(ev.Code)
	case UP:
		return Release, FromEvdev(ev.Code)
	default:
		return Other, FromEvdev(ev.Code)
	}
}

type EventReader interface {
	ReadOne() (*Event, error)
}

type EventWriter interface {
	WriteOne(event *Event) error
}

// EventSource is a device the bridge can subscribe to.
type EventSource interface {
	EventReader
	CapableTypes() []evdev.EvType
}

func eventToString(ev *Event) string {
	kind, code := Classify(ev)
	if kind == Other {
		return fmt.Sprintf("[%s %s]", kind, ev.String())
	}
	return fmt.Sprintf("key %-7s %s", kind, code)
}

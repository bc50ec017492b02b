package chatter

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/holoplot/go-evdev"
)

type readFromSlice struct {
	s     []Event
	types []evdev.EvType
}

func (rfs *readFromSlice) ReadOne() (*Event, error) {
	if len(rfs.s) == 0 {
		return nil, io.EOF
	}
	ev := rfs.s[0]
	rfs.s = rfs.s[1:]
	return &ev, nil
}

func (rfs *readFromSlice) CapableTypes() []evdev.EvType {
	return rfs.types
}

func csvToEvents(csv string) ([]Event, error) {
	r := NewCsvReader(strings.NewReader(csv))
	var s []Event
	for {
		ev, err := r.ReadOne()
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		if err != nil {
			return nil, err
		}
		s = append(s, *ev)
	}
}

func NewReadFromSlice(csvString string) (*readFromSlice, error) {
	s, err := csvToEvents(csvString)
	return &readFromSlice{s: s, types: []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY}}, err
}

var _ = EventSource(&readFromSlice{})

type recordedSleeps struct {
	s []time.Duration
}

func (r *recordedSleeps) sleep(d time.Duration) {
	r.s = append(r.s, d)
}

// asciiTranslator knows every printable ASCII character and puts none of them
// on the shifted level.
type asciiTranslator struct{}

func (asciiTranslator) Translate(r rune) (KeyCode, bool, bool) {
	if r < 0x20 || r > 0x7e {
		return 0, false, false
	}
	return MinKeyCode + KeyCode(r-0x20), false, true
}

func newTestSession(src EventSource, focus FocusTarget) (*Session, *RecordingInjector, *recordedSleeps) {
	injector := &RecordingInjector{}
	sleeps := &recordedSleeps{}
	return &Session{
		Source:     src,
		Focus:      StaticFocus(focus),
		Injector:   injector,
		Translator: NewUSLayout(),
		Sleep:      sleeps.sleep,
	}, injector, sleeps
}

func key(code evdev.EvCode) KeyCode {
	return FromEvdev(code)
}

func down(code KeyCode, mods Modifier) SentEvent {
	return SentEvent{Target: 7, Press: true, Code: code, Mods: mods}
}

func up(code KeyCode, mods Modifier) SentEvent {
	return SentEvent{Target: 7, Press: false, Code: code, Mods: mods}
}

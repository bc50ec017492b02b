package chatter

import (
	"errors"
	"io"
	"time"
)

// FocusTarget is a window id. Zero means "the window which has the focus" for
// injectors which cannot address windows.
type FocusTarget uint32

type Modifier uint16

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
)

type DeviceInfo struct {
	ID   int
	Name string
	Path string
}

type FocusResolver interface {
	Focus() (FocusTarget, error)
}

type Injector interface {
	Send(target FocusTarget, press bool, code KeyCode, mods Modifier) error
	Flush() error
}

// Releaser is implemented by injectors which keep key state of their own, like
// a virtual keyboard. A key pressed again by reconciliation stays down there
// until Release gets called for it.
type Releaser interface {
	Release(target FocusTarget, code KeyCode) error
}

// Translator returns the key for a character and whether the character sits on
// the shifted level of that key.
type Translator interface {
	Translate(r rune) (code KeyCode, shifted bool, ok bool)
}

// Session owns the connection to the input system. It is built once and
// handed to every component.
type Session struct {
	Source     EventSource
	Focus      FocusResolver
	Injector   Injector
	Translator Translator
	Sleep      func(time.Duration)

	closers []io.Closer
}

func (s *Session) AddCloser(c io.Closer) {
	s.closers = append(s.closers, c)
}

func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Session) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

// StaticFocus always resolves to the same target.
type StaticFocus FocusTarget

func (f StaticFocus) Focus() (FocusTarget, error) {
	return FocusTarget(f), nil
}

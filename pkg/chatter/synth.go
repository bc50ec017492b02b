package chatter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/holoplot/go-evdev"
)

type Config struct {
	// Activation is typed before the text, so that the receiving text field
	// is primed.
	Activation string
	ConfirmKey KeyCode
	Settle     time.Duration
	// Strict aborts a replay on the first character without a key. Otherwise
	// such characters are skipped.
	Strict bool
	// ShiftByLayout also holds shift for characters on the shifted level of
	// the layout ('@', '#', ...). Without it only A-Z, '!' and '?' are
	// shifted.
	ShiftByLayout bool
}

func DefaultConfig() Config {
	return Config{
		Activation: "t",
		ConfirmKey: FromEvdev(evdev.KEY_KPENTER),
		Settle:     10 * time.Millisecond,
	}
}

var UntranslatableCharErr = fmt.Errorf("no key for character")

// Synthesizer types text into the focus target. Events are sent strictly one
// after the other.
type Synthesizer struct {
	session *Session
	config  Config
	shift   KeyCode
}

func NewSynthesizer(session *Session, config Config) *Synthesizer {
	return &Synthesizer{
		session: session,
		config:  config,
		shift:   FromEvdev(evdev.KEY_LEFTSHIFT),
	}
}

func (s *Synthesizer) needsShift(r rune, shiftedLevel bool) bool {
	if (r >= 'A' && r <= 'Z') || r == '!' || r == '?' {
		return true
	}
	return s.config.ShiftByLayout && shiftedLevel
}

// Replay types the activation string, the text and the confirmation key. Then
// the keys of the tracker which are still held get pressed again.
func (s *Synthesizer) Replay(target FocusTarget, text string, tracker *KeyStateTracker) error {
	slog.Debug("Replay", "target", target, "text", text)
	if err := s.WriteString(target, s.config.Activation); err != nil {
		return err
	}
	if err := s.session.Injector.Flush(); err != nil {
		return err
	}
	s.session.sleep(s.config.Settle)

	if err := s.WriteString(target, text); err != nil {
		return err
	}
	if err := s.session.Injector.Flush(); err != nil {
		return err
	}

	if err := s.pressKey(target, ModNone, s.config.ConfirmKey); err != nil {
		return err
	}
	if err := s.session.Injector.Flush(); err != nil {
		return err
	}

	s.session.sleep(s.config.Settle)
	return tracker.Reconcile(s.session.Injector, target)
}

func (s *Synthesizer) WriteString(target FocusTarget, text string) error {
	for _, r := range text {
		code, shiftedLevel, ok := s.session.Translator.Translate(r)
		if !ok {
			if s.config.Strict {
				return fmt.Errorf("character %q: %w", r, UntranslatableCharErr)
			}
			slog.Warn("Skipping character without key", "char", string(r))
			continue
		}
		if !s.needsShift(r, shiftedLevel) {
			if err := s.pressKey(target, ModNone, code); err != nil {
				return err
			}
			continue
		}
		if err := s.send(target, true, ModNone, s.shift); err != nil {
			return err
		}
		if err := s.pressKey(target, ModShift, code); err != nil {
			return err
		}
		if err := s.send(target, false, ModShift, s.shift); err != nil {
			return err
		}
	}
	return nil
}

func (s *Synthesizer) pressKey(target FocusTarget, mods Modifier, code KeyCode) error {
	if err := s.send(target, true, mods, code); err != nil {
		return err
	}
	return s.send(target, false, mods, code)
}

func (s *Synthesizer) send(target FocusTarget, press bool, mods Modifier, code KeyCode) error {
	if err := s.session.Injector.Send(target, press, code, mods); err != nil {
		return fmt.Errorf("failed to send key %s: %w", code, err)
	}
	return nil
}

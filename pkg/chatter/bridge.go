package chatter

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/holoplot/go-evdev"
)

var NoEventsRegisteredErr = fmt.Errorf("no events registered")

// Bridge reads raw key events of one device and replaces presses of mapped
// keys with the mapped text. Everything runs on the calling goroutine.
type Bridge struct {
	session    *Session
	table      *MappingTable
	tracker    *KeyStateTracker
	synth      *Synthesizer
	registered []Kind
	// keys pressed again by reconciliation, with the target they went to
	restored map[KeyCode]FocusTarget
}

func NewBridge(session *Session, table *MappingTable, config Config) *Bridge {
	return &Bridge{
		session:  session,
		table:    table,
		tracker:  NewKeyStateTracker(),
		synth:    NewSynthesizer(session, config),
		restored: make(map[KeyCode]FocusTarget),
	}
}

func (b *Bridge) Tracker() *KeyStateTracker {
	return b.tracker
}

// Register subscribes to key press and key release of the source. A source
// without key events registers nothing, which is an error.
func (b *Bridge) Register() error {
	b.registered = nil
	if slices.Contains(b.session.Source.CapableTypes(), evdev.EV_KEY) {
		b.registered = append(b.registered, Press, Release)
	}
	if len(b.registered) == 0 {
		return NoEventsRegisteredErr
	}
	slog.Debug("Registered events", "kinds", b.registered)
	return nil
}

// Run handles events until the source fails or a replay fails. The context
// is checked between events.
func (b *Bridge) Run(ctx context.Context) error {
	if b.registered == nil {
		if err := b.Register(); err != nil {
			return err
		}
	}
	for {
		ev, err := b.session.Source.ReadOne()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return err
		}
		if err := b.Handle(ev); err != nil {
			return err
		}
	}
}

func (b *Bridge) Handle(ev *Event) error {
	kind, code := Classify(ev)
	if !slices.Contains(b.registered, kind) {
		return nil
	}
	slog.Debug("key "+kind.String(), "code", uint16(code))
	switch kind {
	case Release:
		b.tracker.OnRelease(code)
		return b.releaseRestored(code)
	case Press:
		return b.handlePress(code)
	default:
		return nil
	}
}

func (b *Bridge) handlePress(code KeyCode) error {
	if !code.Valid() {
		return nil
	}
	target, err := b.session.Focus.Focus()
	if err != nil {
		return fmt.Errorf("failed to get input focus: %w", err)
	}
	text, ok := b.table.Lookup(code)
	if !ok {
		b.tracker.OnPressNoMapping(code)
		return nil
	}
	slog.Info("Replacing key", "code", code.String(), "target", target)
	err = b.synth.Replay(target, text, b.tracker)
	for _, held := range b.tracker.Held() {
		b.restored[held] = target
	}
	return err
}

// releaseRestored follows the genuine release of a key with a release on the
// injector, if the injector holds the key since reconciliation.
func (b *Bridge) releaseRestored(code KeyCode) error {
	target, ok := b.restored[code]
	if !ok {
		return nil
	}
	delete(b.restored, code)
	releaser, ok := b.session.Injector.(Releaser)
	if !ok {
		return nil
	}
	slog.Debug("Releasing restored key", "code", code.String())
	if err := releaser.Release(target, code); err != nil {
		return fmt.Errorf("failed to release key %s: %w", code, err)
	}
	return b.session.Injector.Flush()
}

package chatter

import (
	"fmt"
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// KeyStateTracker remembers which physical keys are down. Keys which trigger a
// mapping are never added.
type KeyStateTracker struct {
	held mapset.Set[KeyCode]
}

func NewKeyStateTracker() *KeyStateTracker {
	return &KeyStateTracker{held: mapset.NewThreadUnsafeSet[KeyCode]()}
}

func (t *KeyStateTracker) OnRelease(code KeyCode) {
	if !code.Valid() {
		return
	}
	t.held.Remove(code)
}

func (t *KeyStateTracker) OnPressNoMapping(code KeyCode) {
	if !code.Valid() {
		return
	}
	t.held.Add(code)
}

func (t *KeyStateTracker) IsHeld(code KeyCode) bool {
	return t.held.Contains(code)
}

// Held returns the held codes in ascending order.
func (t *KeyStateTracker) Held() []KeyCode {
	codes := t.held.ToSlice()
	slices.Sort(codes)
	return codes
}

// Reconcile presses every held key again, lowest code first. The set is not
// cleared: the genuine release events arrive later.
func (t *KeyStateTracker) Reconcile(injector Injector, target FocusTarget) error {
	for _, code := range t.Held() {
		slog.Debug("Restoring held key", "code", code.String())
		if err := injector.Send(target, true, code, ModNone); err != nil {
			return fmt.Errorf("failed to restore held key %s: %w", code, err)
		}
		if err := injector.Flush(); err != nil {
			return err
		}
	}
	return nil
}

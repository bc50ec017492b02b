package device

import (
	"fmt"
	"time"

	"github.com/guettli/quickerchat/pkg/chatter"
	keybd "github.com/micmonay/keybd_event"
)

// KeybdInjector sends keys through keybd_event. On Linux the codes of
// keybd_event are kernel codes.
type KeybdInjector struct {
	kb keybd.KeyBonding
}

func NewKeybdInjector() (*KeybdInjector, error) {
	kb, err := keybd.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("failed to create KeyBonding: %w", err)
	}
	// The desktop needs a moment until it picks up the new virtual keyboard.
	time.Sleep(2 * time.Second)
	return &KeybdInjector{kb: kb}, nil
}

func (k *KeybdInjector) Send(_ chatter.FocusTarget, press bool, code chatter.KeyCode, _ chatter.Modifier) error {
	k.kb.Clear()
	k.kb.SetKeys(int(code.Evdev()))
	if press {
		return k.kb.Press()
	}
	return k.kb.Release()
}

func (k *KeybdInjector) Release(target chatter.FocusTarget, code chatter.KeyCode) error {
	return k.Send(target, false, code, chatter.ModNone)
}

func (k *KeybdInjector) Flush() error {
	return nil
}

var _ chatter.Releaser = &KeybdInjector{}

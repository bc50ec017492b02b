package device

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/guettli/quickerchat/pkg/chatter"
	"github.com/holoplot/go-evdev"
)

// UinputInjector writes key events to a virtual keyboard. The kernel hands
// them to the window which has the focus, so target and modifier mask are not
// used: shift arrives as its own key event.
type UinputInjector struct {
	out chatter.EventWriter
	dev *evdev.InputDevice
}

func NewUinputInjector(name string) (*UinputInjector, error) {
	keys := make([]evdev.EvCode, 0, int(chatter.MaxKeyCode-chatter.MinKeyCode)+1)
	for code := chatter.MinKeyCode; code <= chatter.MaxKeyCode; code++ {
		keys = append(keys, code.Evdev())
	}
	dev, err := evdev.CreateDevice(name, evdev.InputID{
		BusType: 0x03,
		Vendor:  0x4711,
		Product: 0x0816,
		Version: 1,
	}, map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: keys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create uinput device: %w", err)
	}
	return &UinputInjector{out: dev, dev: dev}, nil
}

func (u *UinputInjector) Send(_ chatter.FocusTarget, press bool, code chatter.KeyCode, _ chatter.Modifier) error {
	var value int32 = chatter.UP
	if press {
		value = chatter.DOWN
	}
	ev := chatter.Event{
		Time:  timeToSyscallTimeval(time.Now()),
		Type:  evdev.EV_KEY,
		Code:  code.Evdev(),
		Value: value,
	}
	err := u.out.WriteOne(&ev)
	return errors.Join(err, u.out.WriteOne(&chatter.Event{
		Time: ev.Time,
		Type: evdev.EV_SYN,
		Code: evdev.SYN_REPORT,
	}))
}

// Release lets go of a key which reconciliation pressed on the virtual
// keyboard. The physical release never reaches it.
func (u *UinputInjector) Release(target chatter.FocusTarget, code chatter.KeyCode) error {
	return u.Send(target, false, code, chatter.ModNone)
}

// Flush is a no-op, every event is followed by SYN_REPORT.
func (u *UinputInjector) Flush() error {
	return nil
}

func (u *UinputInjector) Close() error {
	if u.dev == nil {
		return nil
	}
	return u.dev.Close()
}

var _ chatter.Releaser = &UinputInjector{}

func timeToSyscallTimeval(t time.Time) syscall.Timeval {
	return syscall.Timeval{
		Sec:  int64(t.Unix()),              // Seconds since Unix epoch
		Usec: int64(t.Nanosecond() / 1000), // Nanoseconds to microseconds
	}
}

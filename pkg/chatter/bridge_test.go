package chatter

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, mappings string) *MappingTable {
	table, err := Build(strings.NewReader(mappings), nil)
	require.Nil(t, err)
	return table
}

var heldKeysAndMappedKey = `1711354959;655837;EV_KEY;KEY_A;down
1711354959;655837;EV_SYN;SYN_REPORT;0
1711354959;815829;EV_KEY;KEY_B;down
1711354959;815829;EV_SYN;SYN_REPORT;0
1711354959;999756;EV_KEY;KEY_F1;down
1711354959;999756;EV_SYN;SYN_REPORT;0
1711354960;127830;EV_KEY;KEY_F1;up
1711354960;127830;EV_SYN;SYN_REPORT;0
`

func TestBridge_roundTrip(t *testing.T) {
	src, err := NewReadFromSlice(heldKeysAndMappedKey)
	require.Nil(t, err)
	session, injector, _ := newTestSession(src, 7)
	bridge := NewBridge(session, newTestTable(t, "F1:gg\n"), DefaultConfig())

	err = bridge.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)

	g := key(evdev.KEY_G)
	require.Equal(t, []SentEvent{
		down(key(evdev.KEY_T), ModNone),
		up(key(evdev.KEY_T), ModNone),
		down(g, ModNone),
		up(g, ModNone),
		down(g, ModNone),
		up(g, ModNone),
		down(key(evdev.KEY_KPENTER), ModNone),
		up(key(evdev.KEY_KPENTER), ModNone),
		down(key(evdev.KEY_A), ModNone),
		down(key(evdev.KEY_B), ModNone),
	}, injector.Events)
	// the mapped key was never held, its release is a no-op
	require.Equal(t, []KeyCode{key(evdev.KEY_A), key(evdev.KEY_B)}, bridge.Tracker().Held())

	// genuine releases of the held keys: no further events
	src.s, err = csvToEvents(`1711354961;1;EV_KEY;KEY_B;up
1711354961;2;EV_KEY;KEY_A;up
`)
	require.Nil(t, err)
	err = bridge.Run(context.Background())
	require.ErrorIs(t, err, io.EOF)
	require.Len(t, injector.Events, 10)
	require.Empty(t, bridge.Tracker().Held())
}

// keyboardInjector keeps key state like a virtual keyboard.
type keyboardInjector struct {
	RecordingInjector
	down map[KeyCode]int
}

func (k *keyboardInjector) Send(target FocusTarget, press bool, code KeyCode, mods Modifier) error {
	if press {
		k.down[code]++
	} else {
		k.down[code]--
	}
	return k.RecordingInjector.Send(target, press, code, mods)
}

func (k *keyboardInjector) Release(target FocusTarget, code KeyCode) error {
	return k.Send(target, false, code, ModNone)
}

var _ Releaser = &keyboardInjector{}

func TestBridge_restoredKeysAreReleasedOnInjector(t *testing.T) {
	src, err := NewReadFromSlice(heldKeysAndMappedKey)
	require.Nil(t, err)
	session, _, _ := newTestSession(src, 7)
	injector := &keyboardInjector{down: map[KeyCode]int{}}
	session.Injector = injector
	bridge := NewBridge(session, newTestTable(t, "F1:gg\n"), DefaultConfig())
	require.ErrorIs(t, bridge.Run(context.Background()), io.EOF)

	// A and B are down on the injector after reconciliation
	require.Equal(t, 1, injector.down[key(evdev.KEY_A)])
	require.Equal(t, 1, injector.down[key(evdev.KEY_B)])

	src.s, err = csvToEvents(`1711354961;1;EV_KEY;KEY_B;up
1711354961;2;EV_KEY;KEY_A;up
1711354961;3;EV_KEY;KEY_A;up
`)
	require.Nil(t, err)
	require.ErrorIs(t, bridge.Run(context.Background()), io.EOF)
	require.Len(t, injector.Events, 12)
	require.Equal(t, up(key(evdev.KEY_B), ModNone), injector.Events[10])
	require.Equal(t, up(key(evdev.KEY_A), ModNone), injector.Events[11])
	for code, n := range injector.down {
		require.Equal(t, 0, n, code.String())
	}
	require.Empty(t, bridge.Tracker().Held())
}

func TestBridge_unmappedKeysAreOnlyTracked(t *testing.T) {
	src, err := NewReadFromSlice(`1712516686;34146;EV_KEY;KEY_S;down
1712516686;166940;EV_KEY;KEY_D;down
1712516686;747419;EV_KEY;KEY_D;repeat
1712516686;879558;EV_KEY;KEY_S;up
`)
	require.Nil(t, err)
	session, injector, sleeps := newTestSession(src, 7)
	bridge := NewBridge(session, newTestTable(t, "F1:gg\n"), DefaultConfig())

	require.ErrorIs(t, bridge.Run(context.Background()), io.EOF)
	require.Empty(t, injector.Events)
	require.Empty(t, sleeps.s)
	require.Equal(t, []KeyCode{key(evdev.KEY_D)}, bridge.Tracker().Held())
}

func TestBridge_outOfRangeCodesAreIgnored(t *testing.T) {
	session, injector, _ := newTestSession(&readFromSlice{types: []evdev.EvType{evdev.EV_KEY}}, 7)
	focusCalls := 0
	session.Focus = focusFunc(func() (FocusTarget, error) {
		focusCalls++
		return 7, nil
	})
	bridge := NewBridge(session, newTestTable(t, "F1:gg\n"), DefaultConfig())
	require.Nil(t, bridge.Register())

	// evdev code 0x2ff is KeyCode 775
	require.Nil(t, bridge.Handle(&Event{Type: evdev.EV_KEY, Code: evdev.KEY_MAX, Value: DOWN}))
	require.Nil(t, bridge.Handle(&Event{Type: evdev.EV_KEY, Code: evdev.KEY_MAX, Value: UP}))
	require.Empty(t, bridge.Tracker().Held())
	require.Empty(t, injector.Events)
	require.Equal(t, 0, focusCalls)

	require.Nil(t, bridge.Handle(&Event{Type: evdev.EV_KEY, Code: evdev.KEY_Q, Value: DOWN}))
	require.Equal(t, 1, focusCalls)
}

type focusFunc func() (FocusTarget, error)

func (f focusFunc) Focus() (FocusTarget, error) {
	return f()
}

func TestBridge_focusIsResolvedForEveryPress(t *testing.T) {
	src, err := NewReadFromSlice(`1;0;EV_KEY;KEY_F1;down
1;1;EV_KEY;KEY_F1;up
2;0;EV_KEY;KEY_F1;down
2;1;EV_KEY;KEY_F1;up
`)
	require.Nil(t, err)
	session, injector, _ := newTestSession(src, 0)
	targets := []FocusTarget{11, 22}
	session.Focus = focusFunc(func() (FocusTarget, error) {
		target := targets[0]
		targets = targets[1:]
		return target, nil
	})
	config := DefaultConfig()
	config.Activation = ""
	bridge := NewBridge(session, newTestTable(t, "F1:a\n"), config)

	require.ErrorIs(t, bridge.Run(context.Background()), io.EOF)
	require.Len(t, injector.Events, 8)
	for _, ev := range injector.Events[:4] {
		require.Equal(t, FocusTarget(11), ev.Target)
	}
	for _, ev := range injector.Events[4:] {
		require.Equal(t, FocusTarget(22), ev.Target)
	}
}

func TestBridge_focusError(t *testing.T) {
	src, err := NewReadFromSlice("1;0;EV_KEY;KEY_F1;down\n")
	require.Nil(t, err)
	session, _, _ := newTestSession(src, 0)
	session.Focus = focusFunc(func() (FocusTarget, error) {
		return 0, errors.New("no display")
	})
	bridge := NewBridge(session, newTestTable(t, "F1:a\n"), DefaultConfig())
	err = bridge.Run(context.Background())
	require.ErrorContains(t, err, "failed to get input focus: no display")
}

func TestBridge_registerNeedsKeyEvents(t *testing.T) {
	src := &readFromSlice{types: []evdev.EvType{evdev.EV_SYN, evdev.EV_REL}}
	session, _, _ := newTestSession(src, 0)
	bridge := NewBridge(session, newTestTable(t, ""), DefaultConfig())
	require.ErrorIs(t, bridge.Register(), NoEventsRegisteredErr)
	require.ErrorIs(t, bridge.Run(context.Background()), NoEventsRegisteredErr)
}

func TestBridge_strictReplayErrorStopsLoop(t *testing.T) {
	src, err := NewReadFromSlice(`1;0;EV_KEY;KEY_F1;down
1;1;EV_KEY;KEY_A;down
`)
	require.Nil(t, err)
	session, _, _ := newTestSession(src, 0)
	config := DefaultConfig()
	config.Strict = true
	bridge := NewBridge(session, newTestTable(t, "F1:ü\n"), config)
	require.ErrorIs(t, bridge.Run(context.Background()), UntranslatableCharErr)
	require.Len(t, src.s, 1)
}

func TestBridge_canceledContextStopsLoop(t *testing.T) {
	src, err := NewReadFromSlice(heldKeysAndMappedKey)
	require.Nil(t, err)
	session, injector, _ := newTestSession(src, 0)
	bridge := NewBridge(session, newTestTable(t, "F1:gg\n"), DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, bridge.Run(ctx), context.Canceled)
	require.Empty(t, injector.Events)
}

func TestReplayMain(t *testing.T) {
	dir := t.TempDir()
	mappings := dir + "/mappings.txt"
	events := dir + "/events.csv"
	require.Nil(t, os.WriteFile(mappings, []byte("F1:gg\n"), 0o600))
	require.Nil(t, os.WriteFile(events, []byte(heldKeysAndMappedKey), 0o600))

	out := &strings.Builder{}
	config := DefaultConfig()
	config.Settle = time.Hour // ReplayMain never sleeps
	require.Nil(t, ReplayMain(context.Background(), mappings, events, config, out))
	require.Contains(t, out.String(), "#Replaying")
	require.Equal(t, 10, strings.Count(out.String(), "  write "))
	require.Contains(t, out.String(), "  write 38(A) down -> 0\n")
}

package chatter

import (
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/require"
)

func TestResolveKeyName(t *testing.T) {
	tests := []struct {
		inString        string
		expectedKeyCode KeyCode
		expectedError   error
	}{
		{"x", FromEvdev(evdev.KEY_X), nil},
		{"A", FromEvdev(evdev.KEY_A), nil},
		{"1", FromEvdev(evdev.KEY_1), nil},
		{"F1", FromEvdev(evdev.KEY_F1), nil},
		{"KEY_F12", FromEvdev(evdev.KEY_F12), nil},
		{"capslock", FromEvdev(evdev.KEY_CAPSLOCK), nil},
		{"KP_1", FromEvdev(evdev.KEY_KP1), nil},
		{"KP_Enter", FromEvdev(evdev.KEY_KPENTER), nil},
		{"Return", FromEvdev(evdev.KEY_ENTER), nil},
		{"Shift_L", FromEvdev(evdev.KEY_LEFTSHIFT), nil},
		{"Page_Up", FromEvdev(evdev.KEY_PAGEUP), nil},
		{"", 0, UnknownKeyErr},
		{"ü", 0, UnknownKeyErr},
		{"key_not_existing", 0, UnknownKeyErr},
	}
	for _, tt := range tests {
		got, err := ResolveKeyName(tt.inString)
		if tt.expectedError != nil {
			require.ErrorIs(t, err, tt.expectedError, tt.inString)
		} else {
			require.Nil(t, err, tt.inString)
		}
		require.Equal(t, tt.expectedKeyCode, got, tt.inString)
	}
}

func TestKeyCode(t *testing.T) {
	a := FromEvdev(evdev.KEY_A)
	require.Equal(t, KeyCode(38), a)
	require.Equal(t, evdev.KEY_A, a.Evdev())
	require.True(t, a.Valid())
	require.Equal(t, "38(A)", a.String())

	require.False(t, KeyCode(7).Valid())
	require.True(t, KeyCode(8).Valid())
	require.True(t, KeyCode(255).Valid())
	require.False(t, KeyCode(256).Valid())
	require.Equal(t, "300", KeyCode(300).String())
}

func TestClassify(t *testing.T) {
	events, err := csvToEvents(`1711354959;655837;EV_KEY;KEY_A;down
1711354959;815829;EV_KEY;KEY_A;up
1711354959;999756;EV_KEY;KEY_A;repeat
1711354960;127830;EV_SYN;SYN_REPORT;0
`)
	require.Nil(t, err)
	require.Len(t, events, 4)

	kinds := make([]Kind, 0, len(events))
	for i := range events {
		kind, code := Classify(&events[i])
		if kind != Other {
			require.Equal(t, FromEvdev(evdev.KEY_A), code)
		}
		kinds = append(kinds, kind)
	}
	require.Equal(t, []Kind{Press, Release, Other, Other}, kinds)
}

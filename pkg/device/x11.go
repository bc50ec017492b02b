package device

import (
	"fmt"

	"github.com/guettli/quickerchat/pkg/chatter"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11 resolves the input focus and can send key events straight to the focus
// window (XSendEvent). Applications may ignore sent events, uinput is the
// safer default.
type X11 struct {
	conn *xgb.Conn
	root xproto.Window
}

func NewX11() (*X11, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("unable to connect to X server: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	return &X11{conn: conn, root: root}, nil
}

func (x *X11) Focus() (chatter.FocusTarget, error) {
	reply, err := xproto.GetInputFocus(x.conn).Reply()
	if err != nil {
		return 0, err
	}
	return chatter.FocusTarget(reply.Focus), nil
}

func x11State(mods chatter.Modifier) uint16 {
	var state uint16
	if mods&chatter.ModShift != 0 {
		state |= xproto.ModMaskShift
	}
	return state
}

func (x *X11) Send(target chatter.FocusTarget, press bool, code chatter.KeyCode, mods chatter.Modifier) error {
	ev := xproto.KeyPressEvent{
		Detail:     xproto.Keycode(code),
		Time:       xproto.TimeCurrentTime,
		Root:       x.root,
		Event:      xproto.Window(target),
		Child:      xproto.WindowNone,
		RootX:      1,
		RootY:      1,
		EventX:     1,
		EventY:     1,
		State:      x11State(mods),
		SameScreen: true,
	}
	buf := ev.Bytes()
	var mask uint32 = xproto.EventMaskKeyPress
	if !press {
		buf[0] = xproto.KeyRelease
		mask = xproto.EventMaskKeyRelease
	}
	return xproto.SendEventChecked(x.conn, true, xproto.Window(target), mask, string(buf)).Check()
}

// Flush waits for a round trip, so the server has handled every sent event.
func (x *X11) Flush() error {
	_, err := xproto.GetInputFocus(x.conn).Reply()
	return err
}

func (x *X11) Close() error {
	x.conn.Close()
	return nil
}

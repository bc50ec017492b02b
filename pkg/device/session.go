package device

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/guettli/quickerchat/pkg/chatter"
	"github.com/holoplot/go-evdev"
)

const (
	BackendUinput = "uinput"
	BackendKeybd  = "keybd"
	BackendX11    = "x11"
)

var Backends = []string{BackendUinput, BackendKeybd, BackendX11}

type Options struct {
	// DeviceID selects the device. Zero or less asks on In/Out.
	DeviceID int
	Backend  string
	In       io.Reader
	Out      io.Writer
}

// SelectDevice resolves the device from the id or from the prompt.
func SelectDevice(opts Options) (chatter.DeviceInfo, error) {
	devices, err := ListDevices()
	if err != nil {
		return chatter.DeviceInfo{}, err
	}
	if opts.DeviceID > 0 {
		return DeviceByID(devices, opts.DeviceID)
	}
	return PromptDevice(opts.In, opts.Out, devices)
}

// Open builds the session: the selected source device, the injector of the
// backend and a focus resolver. Close the session to release everything.
func Open(opts Options) (*chatter.Session, error) {
	info, err := SelectDevice(opts)
	if err != nil {
		return nil, err
	}
	src, err := evdev.Open(info.Path)
	if err != nil {
		return nil, fmt.Errorf("Unable to open device '%d' %q: %w", info.ID, info.Path, err)
	}
	session := &chatter.Session{
		Source:     src,
		Translator: chatter.NewUSLayout(),
	}
	session.AddCloser(src)
	slog.Info("Using device", "id", info.ID, "name", info.Name, "path", info.Path)

	if err := attachBackend(session, opts.Backend); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

func attachBackend(session *chatter.Session, backend string) error {
	switch backend {
	case BackendX11:
		x, err := NewX11()
		if err != nil {
			return err
		}
		session.AddCloser(x)
		session.Injector = x
		session.Focus = x
		return nil
	case BackendUinput, "":
		u, err := NewUinputInjector("quickerchat")
		if err != nil {
			return err
		}
		session.AddCloser(u)
		session.Injector = u
	case BackendKeybd:
		k, err := NewKeybdInjector()
		if err != nil {
			return err
		}
		session.Injector = k
	default:
		return fmt.Errorf("unknown backend %q, valid are %v", backend, Backends)
	}
	session.Focus = focusResolver(session)
	return nil
}

// The virtual keyboards type into whatever has the focus. The X11 focus is
// only resolved for the log, when a display is available.
func focusResolver(session *chatter.Session) chatter.FocusResolver {
	if os.Getenv("DISPLAY") == "" {
		return chatter.StaticFocus(0)
	}
	x, err := NewX11()
	if err != nil {
		slog.Debug("No X11 focus", "error", err)
		return chatter.StaticFocus(0)
	}
	session.AddCloser(x)
	return x
}

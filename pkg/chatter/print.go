package chatter

import (
	"fmt"
	"io"

	"github.com/holoplot/go-evdev"
)

// PrintEvents writes every key event of the source to out, either as text
// ("key press   38(A)") or as csv lines which `replay` can read.
func PrintEvents(src EventReader, out io.Writer, csv bool) error {
	for {
		ev, err := src.ReadOne()
		if err != nil {
			return err
		}
		// SYN_REPORT and MSC_SCAN follow every key event
		if ev.Type == evdev.EV_SYN || ev.Type == evdev.EV_MSC {
			continue
		}
		if csv {
			fmt.Fprint(out, FormatEventLine(ev))
			continue
		}
		fmt.Fprintln(out, eventToString(ev))
	}
}

// RecordingInjector prints the events it gets instead of sending them.
type RecordingInjector struct {
	Out    io.Writer
	Events []SentEvent
}

type SentEvent struct {
	Target FocusTarget
	Press  bool
	Code   KeyCode
	Mods   Modifier
}

func (e SentEvent) String() string {
	dir := "up"
	if e.Press {
		dir = "down"
	}
	shift := ""
	if e.Mods&ModShift != 0 {
		shift = " +shift"
	}
	return fmt.Sprintf("%s %s%s -> %d", e.Code, dir, shift, e.Target)
}

func (r *RecordingInjector) Send(target FocusTarget, press bool, code KeyCode, mods Modifier) error {
	ev := SentEvent{Target: target, Press: press, Code: code, Mods: mods}
	r.Events = append(r.Events, ev)
	if r.Out != nil {
		fmt.Fprintf(r.Out, "  write %s\n", ev)
	}
	return nil
}

func (r *RecordingInjector) Flush() error {
	return nil
}

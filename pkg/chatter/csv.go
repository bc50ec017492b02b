package chatter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"github.com/holoplot/go-evdev"
)

// Recorded events use one line per event:
//
//	sec;usec;EV_KEY;KEY_A;down
//
// Key names go through ResolveKeyName, so "F1" or "KP_Enter" work as well.

var MalformedEventErr = fmt.Errorf("malformed event, expected sec;usec;type;code;value")

var codesByType = map[evdev.EvType]map[string]evdev.EvCode{
	evdev.EV_SYN: evdev.SYNFromString,
	evdev.EV_MSC: evdev.MSCFromString,
}

var valueNames = map[string]int32{
	"down":   DOWN,
	"up":     UP,
	"repeat": REPEAT,
}

func ParseEventLine(line string) (*Event, error) {
	cols := strings.Split(line, ";")
	if len(cols) != 5 {
		return nil, MalformedEventErr
	}
	sec, err := strconv.ParseInt(cols[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("sec %q: %w", cols[0], MalformedEventErr)
	}
	usec, err := strconv.ParseInt(cols[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("usec %q: %w", cols[1], MalformedEventErr)
	}
	evType, ok := evdev.EVFromString[cols[2]]
	if !ok {
		return nil, fmt.Errorf("type %q: %w", cols[2], MalformedEventErr)
	}
	code, err := parseCode(evType, cols[3])
	if err != nil {
		return nil, err
	}
	value, ok := valueNames[cols[4]]
	if !ok {
		v, err := strconv.ParseInt(cols[4], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", cols[4], MalformedEventErr)
		}
		value = int32(v)
	}
	return &Event{
		Time:  syscall.Timeval{Sec: sec, Usec: usec},
		Type:  evType,
		Code:  code,
		Value: value,
	}, nil
}

func parseCode(evType evdev.EvType, name string) (evdev.EvCode, error) {
	if evType == evdev.EV_KEY {
		// BTN_LEFT and friends are in the KEY table, too
		if code, ok := evdev.KEYFromString[name]; ok {
			return code, nil
		}
		code, err := ResolveKeyName(name)
		if err != nil {
			return 0, err
		}
		return code.Evdev(), nil
	}
	if code, ok := codesByType[evType][name]; ok {
		return code, nil
	}
	n, err := strconv.ParseUint(name, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("code %q: %w", name, MalformedEventErr)
	}
	return evdev.EvCode(n), nil
}

// FormatEventLine is the inverse of ParseEventLine, including the newline.
func FormatEventLine(ev *Event) string {
	value := strconv.Itoa(int(ev.Value))
	if ev.Type == evdev.EV_KEY {
		switch kind, _ := Classify(ev); {
		case kind == Press:
			value = "down"
		case kind == Release:
			value = "up"
		case ev.Value == REPEAT:
			value = "repeat"
		}
	}
	return fmt.Sprintf("%d;%d;%s;%s;%s\n", ev.Time.Sec, ev.Time.Usec, ev.TypeName(), ev.CodeName(), value)
}

// CsvReader replays recorded events. It reports EV_KEY capability, so a
// bridge can register on it like on a device.
type CsvReader struct {
	scanner *bufio.Scanner
	line    int
}

func NewCsvReader(r io.Reader) *CsvReader {
	return &CsvReader{scanner: bufio.NewScanner(r)}
}

// ReadOne skips blank lines and "#" comments. It returns io.EOF at the end.
func (c *CsvReader) ReadOne() (*Event, error) {
	for c.scanner.Scan() {
		c.line++
		line := strings.TrimSpace(c.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ev, err := ParseEventLine(line)
		if err != nil {
			return nil, fmt.Errorf("line #%d %q: %w", c.line, line, err)
		}
		return ev, nil
	}
	if err := c.scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading events: %w", err)
	}
	return nil, io.EOF
}

func (c *CsvReader) CapableTypes() []evdev.EvType {
	return []evdev.EvType{evdev.EV_SYN, evdev.EV_KEY}
}

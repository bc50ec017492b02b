package chatter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ReplayMain runs the bridge over recorded events and prints what would be
// typed. Nothing is sent to a real device. Useful to check a mappings file.
func ReplayMain(ctx context.Context, mappingsFile string, eventsFile string, config Config, out io.Writer) error {
	table, err := LoadFile(mappingsFile, nil)
	if table == nil {
		return err
	}
	file, err := os.Open(eventsFile)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", eventsFile, err)
	}
	defer file.Close()

	session := &Session{
		Source:     NewCsvReader(file),
		Focus:      StaticFocus(0),
		Injector:   &RecordingInjector{Out: out},
		Translator: NewUSLayout(),
		Sleep:      func(time.Duration) {},
	}
	bridge := NewBridge(session, table, config)
	fmt.Fprintf(out, "#Replaying %s with %d mappings\n", eventsFile, table.Len())
	err = bridge.Run(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

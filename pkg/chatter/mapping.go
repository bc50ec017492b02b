package chatter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	tableSize = 256
	delimiter = ":"
)

var MalformedEntryErr = fmt.Errorf("malformed entry, expected KEY:text")

type slot struct {
	text string
	set  bool
}

// MappingTable maps key codes to replacement text. It is read-only after Build.
type MappingTable struct {
	slots [tableSize]slot
	count int
}

func (t *MappingTable) Lookup(code KeyCode) (string, bool) {
	if !code.Valid() || int(code) >= tableSize {
		return "", false
	}
	s := t.slots[code]
	return s.text, s.set
}

func (t *MappingTable) Len() int {
	return t.count
}

// Codes returns the mapped codes in ascending order.
func (t *MappingTable) Codes() []KeyCode {
	codes := make([]KeyCode, 0, t.count)
	for i := range t.slots {
		if t.slots[i].set {
			codes = append(codes, KeyCode(i))
		}
	}
	return codes
}

func (t *MappingTable) put(name string, text string, resolve KeyResolver) {
	code, err := resolve(name)
	if err != nil {
		slog.Debug("Skipping mapping", "key", name, "error", err)
		return
	}
	if !code.Valid() || int(code) >= tableSize {
		slog.Debug("Skipping mapping, key code out of range", "key", name, "code", uint16(code))
		return
	}
	if !t.slots[code].set {
		t.count++
	}
	t.slots[code] = slot{text: text, set: true}
}

// Build reads "KEY:text" lines. Malformed lines are logged and dropped; the
// returned table holds every valid entry and the returned error joins one
// MalformedEntryErr per dropped line.
func Build(r io.Reader, resolve KeyResolver) (*MappingTable, error) {
	if resolve == nil {
		resolve = ResolveKeyName
	}
	t := &MappingTable{}
	var errs []error
	reader := bufio.NewReader(r)
	lineNum := 0
	for {
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("error reading mappings: %w", readErr)
		}
		if readErr == io.EOF && raw == "" {
			break
		}
		lineNum++
		line := strings.TrimSpace(raw)
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
		case strings.Count(line, delimiter) != 1:
			err := fmt.Errorf("line #%d %q: %w", lineNum, truncate(line), MalformedEntryErr)
			slog.Warn("Error parsing mappings", "line", lineNum, "error", err)
			errs = append(errs, err)
		default:
			name, text, _ := strings.Cut(line, delimiter)
			t.put(strings.TrimSpace(name), strings.TrimSpace(text), resolve)
		}
		if readErr == io.EOF {
			break
		}
	}
	return t, errors.Join(errs...)
}

func truncate(line string) string {
	const maxLen = 40
	if len(line) <= maxLen {
		return line
	}
	return line[:maxLen] + "..."
}

// LoadYamlFromBytes reads a YAML map "KEY: text". Entries whose value is not a
// plain scalar are malformed.
func LoadYamlFromBytes(data []byte, resolve KeyResolver) (*MappingTable, error) {
	if resolve == nil {
		resolve = ResolveKeyName
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	t := &MappingTable{}
	if len(doc.Content) == 0 {
		return t, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line #%d: expected a map of key names to text: %w", root.Line, MalformedEntryErr)
	}
	var errs []error
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			err := fmt.Errorf("line #%d: %w", key.Line, MalformedEntryErr)
			slog.Warn("Error parsing mappings", "line", key.Line, "error", err)
			errs = append(errs, err)
			continue
		}
		t.put(strings.TrimSpace(key.Value), strings.TrimSpace(value.Value), resolve)
	}
	return t, errors.Join(errs...)
}

// LoadFile returns a nil table only when the file can't be used at all.
// Otherwise the error reports dropped entries, see Build.
func LoadFile(path string, resolve KeyResolver) (*MappingTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read mappings from %q: %w", path, err)
		}
		t, err := LoadYamlFromBytes(data, resolve)
		if t == nil {
			return nil, fmt.Errorf("failed to parse %q: %w", path, err)
		}
		return t, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings from %q: %w", path, err)
	}
	defer file.Close()
	t, err := Build(file, resolve)
	if t == nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return t, err
}

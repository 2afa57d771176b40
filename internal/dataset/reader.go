package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Parser reads a dataset in one text format.
type Parser func(r io.Reader) (Set, error)

// Serializer writes a dataset in one text format.
type Serializer func(w io.Writer, set Set) error

// Format pairs the writer and reader of a text format.
type Format struct {
	Write Serializer
	Read  Parser
}

// Built-in format names.
const (
	FormatLiblinear = "liblinear"
	FormatGBDT      = "gbdt"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Format{
		FormatLiblinear: {Write: Write, Read: ReadLiblinear},
		FormatGBDT:      {Write: WriteDense, Read: ReadDense},
	}
)

// Register adds or replaces format name.
func Register(name string, f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Lookup returns the format registered for name.
func Lookup(name string) (Format, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	f, ok := registry[name]
	if !ok {
		return Format{}, fmt.Errorf("unknown dataset format %q (known: %s)", name, strings.Join(formatsLocked(), ", "))
	}
	return f, nil
}

// Formats lists registered format names.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return formatsLocked()
}

func formatsLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadFile parses the file at path with the parser registered for format.
func ReadFile(path, format string) (Set, error) {
	fmtDef, err := Lookup(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	set, err := fmtDef.Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s as %s", path, format)
	}
	return set, nil
}

// MaxFeatureIndex bounds liblinear indices so a corrupt line cannot force a
// huge dense allocation.
const MaxFeatureIndex = 1 << 16

// ReadLiblinear parses sparse "<label> idx:value ..." lines. Indices are
// 1-based; absent indices are zero.
func ReadLiblinear(r io.Reader) (Set, error) {
	return scanLines(r, func(fields []string) ([]float64, error) {
		var features []float64
		for _, field := range fields {
			idxStr, valStr, ok := strings.Cut(field, ":")
			if !ok {
				return nil, fmt.Errorf("expected idx:value, got %q", field)
			}
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 1 || idx > MaxFeatureIndex {
				return nil, fmt.Errorf("invalid feature index %q", idxStr)
			}
			v, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid feature value %q", valStr)
			}
			for len(features) < idx {
				features = append(features, 0)
			}
			features[idx-1] = v
		}
		return features, nil
	})
}

// ReadDense parses "<label> v1 v2 ..." lines.
func ReadDense(r io.Reader) (Set, error) {
	return scanLines(r, func(fields []string) ([]float64, error) {
		features := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid feature value %q", field)
			}
			features[i] = v
		}
		return features, nil
	})
}

func scanLines(r io.Reader, parseFeatures func([]string) ([]float64, error)) (Set, error) {
	var set Set
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		label, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid label %q", line, fields[0])
		}
		features, err := parseFeatures(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		set = append(set, Example{Label: label, Features: features})
	}

	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scan dataset")
	}
	return set, nil
}

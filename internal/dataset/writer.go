package dataset

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// FormatLabel renders a label as +1 or -1.
func FormatLabel(label float64) string {
	if label > 0 {
		return "+1"
	}
	return "-1"
}

// formatValue uses the shortest representation that parses back to the
// same float64.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Write serializes set in liblinear format, one example per line:
// "<label> 1:<v1> 2:<v2> ...".
func Write(w io.Writer, set Set) error {
	bw := bufio.NewWriter(w)
	for _, e := range set {
		if _, err := bw.WriteString(FormatLabel(e.Label)); err != nil {
			return errors.Wrap(err, "write label")
		}
		for i, v := range e.Features {
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(i + 1))
			bw.WriteByte(':')
			bw.WriteString(formatValue(v))
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "write example")
		}
	}

	return errors.Wrap(bw.Flush(), "flush dataset")
}

// WriteDense serializes set as "<label> v1 v2 ..." lines.
func WriteDense(w io.Writer, set Set) error {
	bw := bufio.NewWriter(w)
	for _, e := range set {
		bw.WriteString(FormatLabel(e.Label))
		for _, v := range e.Features {
			bw.WriteByte(' ')
			bw.WriteString(formatValue(v))
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "write example")
		}
	}

	return errors.Wrap(bw.Flush(), "flush dataset")
}

// WriteFile writes set to path in the given format, creating parent
// directories.
func WriteFile(path, format string, set Set) error {
	fmtDef, err := Lookup(format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := fmtDef.Write(f, set); err != nil {
		f.Close()
		return err
	}

	return errors.Wrapf(f.Close(), "close %s", path)
}

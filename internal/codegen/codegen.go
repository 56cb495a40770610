// Package codegen renders an extracted retrograde dataset as either a C
// header/source pair holding a bitmap table, or a plain-text SQL script that
// creates and fills a table with one 0/1 column per body.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/papapumpkin/retrograde/internal/retrograde"
)

// Mode selects the output encoding.
type Mode string

// Supported output modes.
const (
	ModeC      Mode = "c"
	ModeSQLite Mode = "sqlite"
)

// DefaultTable is the table name used by the SQL renderer.
const DefaultTable = "retrograde_table"

// ErrUnknownMode is returned for a mode other than ModeC or ModeSQLite.
var ErrUnknownMode = errors.New("unknown output mode")

// ParseMode validates s as an output mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeC, ModeSQLite:
		return m, nil
	default:
		return "", fmt.Errorf("%w %q (want %q or %q)", ErrUnknownMode, s, ModeC, ModeSQLite)
	}
}

// Options tunes rendering.
type Options struct {
	Table string // SQL table name; DefaultTable when empty
}

// Artifact is one rendered output file.
type Artifact struct {
	Path string
	Data []byte
}

// Render produces the files for mode, named from prefix. Mode c yields
// <prefix>.h followed by <prefix>.c; mode sqlite yields <prefix>.sqlite.
func Render(mode Mode, ds *retrograde.Dataset, prefix string, opts Options) ([]Artifact, error) {
	switch mode {
	case ModeC:
		headerPath := prefix + ".h"
		var h, c bytes.Buffer
		if err := WriteHeader(&h, ds.Bodies); err != nil {
			return nil, fmt.Errorf("rendering %s: %w", headerPath, err)
		}
		if err := WriteSource(&c, filepath.Base(headerPath), ds); err != nil {
			return nil, fmt.Errorf("rendering %s.c: %w", prefix, err)
		}
		return []Artifact{
			{Path: headerPath, Data: h.Bytes()},
			{Path: prefix + ".c", Data: c.Bytes()},
		}, nil

	case ModeSQLite:
		table := opts.Table
		if table == "" {
			table = DefaultTable
		}
		var buf bytes.Buffer
		if err := WriteSQL(&buf, table, ds); err != nil {
			return nil, fmt.Errorf("rendering %s.sqlite: %w", prefix, err)
		}
		return []Artifact{{Path: prefix + ".sqlite", Data: buf.Bytes()}}, nil

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, mode)
	}
}

// WriteFile writes a.Data to a temporary file beside a.Path and renames it
// into place, so a failed write never leaves a truncated artifact.
func WriteFile(a Artifact) error {
	dir := filepath.Dir(a.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(a.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", a.Path, err)
	}

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(a.Data); err != nil {
		return fmt.Errorf("writing %s: %w", a.Path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", a.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", a.Path, err)
	}
	if err := os.Rename(tmp.Name(), a.Path); err != nil {
		return fmt.Errorf("renaming into %s: %w", a.Path, err)
	}
	success = true
	return nil
}

// lineWriter formats onto w and remembers the first error.
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) printf(format string, args ...any) {
	if lw.err != nil {
		return
	}
	_, lw.err = fmt.Fprintf(lw.w, format, args...)
}

func (lw *lineWriter) println(s string) {
	lw.printf("%s\n", s)
}

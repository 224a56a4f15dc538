// Package deck parses TSV deck files into in-memory Deck/Card values.
package deck

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jwulff/kbsr/internal/interp"
	"github.com/jwulff/kbsr/internal/keybind"
)

// ParseError is one malformed line collected while parsing a deck file;
// parsing continues past it.
type ParseError struct {
	File string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Card is one parsed deck line.
type Card struct {
	Keybind     string
	Description string
	Chords      keybind.ChordSeq
}

// Deck is a parsed TSV file: a name (the filename stem), a declared input
// mode, and its cards in file order.
type Deck struct {
	Name  string
	Mode  interp.Mode
	Cards []Card
}

// Parse reads a TSV deck file from r; name becomes the Deck's name and
// is used in error reports. Malformed lines are collected into errs
// rather than failing the whole parse.
func Parse(name string, r io.Reader) (Deck, []*ParseError) {
	d := Deck{Name: name, Mode: interp.Raw}
	var errs []*ParseError
	modeSet := false

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			if mode, ok, warn := interp.ParseModeDirective(trimmed); ok {
				if !modeSet {
					d.Mode = mode
					modeSet = true
				}
				if warn != "" {
					errs = append(errs, &ParseError{File: name, Line: lineNo, Text: line, Err: fmt.Errorf(warn, trimmed)})
				}
			}
			continue
		}

		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			errs = append(errs, &ParseError{File: name, Line: lineNo, Text: line, Err: fmt.Errorf("expected exactly one tab between keybind and description")})
			continue
		}

		kb, desc := parts[0], parts[1]
		chords, err := keybind.Parse(kb)
		if err != nil {
			errs = append(errs, &ParseError{File: name, Line: lineNo, Text: line, Err: err})
			continue
		}

		d.Cards = append(d.Cards, Card{Keybind: kb, Description: desc, Chords: chords})
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, &ParseError{File: name, Line: lineNo, Err: fmt.Errorf("reading deck file: %w", err)})
	}

	return d, errs
}

// LoadFile parses the deck file at path, using its basename (minus the
// .tsv extension) as the deck name.
func LoadFile(path string) (Deck, []*ParseError) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	f, err := os.Open(path)
	if err != nil {
		return Deck{Name: name}, []*ParseError{{File: path, Err: fmt.Errorf("opening deck file: %w", err)}}
	}
	defer f.Close()
	return Parse(name, f)
}

// ListDecks returns the sorted .tsv file paths under dir.
func ListDecks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading decks directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tsv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Package dsl implements the lexer and parser for the cel-position
// file described in spec.md 4.1: a line-oriented, whitespace-trimmed
// DSL of global directives and per-cel blocks, with a small set of
// dynamically-registered keywords for user side-tables.
//
// The grammar has no indentation sensitivity; it is validated the way
// nesrom/header.go validates a binary ROM header, eagerly, field by
// field, returning a typed error (here model.ParseError) that cites a
// position as soon as a violation is found. Undeclared palette
// references are checked once the whole file is read, by Finalize
// (which Parse calls last); out-of-bounds rects and color-match
// failures are left for later pipeline stages and are not checked by
// Parse.
package dsl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bdwalton/spritec/model"
)

// Table is a declared side-table (attribute/flag/actionpoint values
// keyed by cel), named and assigned to an output segment.
type Table struct {
	Name    string
	Segment string
	Line    int
}

// File is the fully-parsed cel-position file: global declarations
// plus the ordered list of cels. Palette-id references are validated
// by Finalize.
type File struct {
	HasBackdrop bool
	Backdrop    model.Color
	HFlip       bool

	Palettes map[int]*model.Palette
	Tables   map[string]*Table

	Cels     []*model.Cel
	CelIndex map[string]int // cel name -> index into Cels

	registry *KeywordRegistry
}

func newFile() *File {
	return &File{
		Palettes: make(map[int]*model.Palette),
		Tables:   make(map[string]*Table),
		CelIndex: make(map[string]int),
		registry: newKeywordRegistry(),
	}
}

// Parse reads a complete cel-position file from r.
func Parse(r io.Reader) (*File, error) {
	f := newFile()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cur *model.Cel
	pendingAlign := 0
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		toks := strings.Fields(line)
		kw, rest := toks[0], toks[1:]

		if kw != "frame" && kw != "align" {
			pendingAlign = 0
		}

		var err error
		switch kw {
		case "frame":
			cur, err = parseFrame(f, rest, lineNo, pendingAlign)
			pendingAlign = 0
		case "table":
			cur = nil
			err = parseTable(f, rest, lineNo)
		case "backdrop":
			err = parseBackdrop(f, rest, lineNo)
		case "palette":
			err = parsePalette(f, rest, lineNo)
		case "hflip":
			f.HFlip = true
		case "align":
			pendingAlign, err = parseAlign(rest, lineNo)
		case "attribute":
			err = parseAttribute(f, rest, lineNo)
		case "flag":
			err = parseFlag(f, rest, lineNo)
		case "actionpoint":
			err = parseActionpoint(f, rest, lineNo)
		default:
			if cur == nil {
				err = &model.ParseError{Line: lineNo, Code: "unknown-keyword", Msg: fmt.Sprintf("unrecognized global directive %q", kw)}
			} else {
				err = parseCelLine(f, cur, kw, rest, lineNo)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &model.IOError{Path: "<cel-position file>", Err: err}
	}

	if err := f.Finalize(); err != nil {
		return nil, err
	}

	return f, nil
}

// Finalize performs the checks spec.md 4.1 defers until after parsing:
// every strip's palette-id must reference a declared palette. Rect
// -bounds and color-match checks are deferred further still, to
// rasterization, since they require the decoded image.
func (f *File) Finalize() error {
	for _, c := range f.Cels {
		for _, s := range c.Strips {
			if _, ok := f.Palettes[s.PaletteID]; !ok {
				return &model.ParseError{
					Line: s.Line,
					Code: "undeclared-palette",
					Msg:  fmt.Sprintf("cel %q strip references undeclared palette %d", c.Name, s.PaletteID),
				}
			}
		}
	}
	return nil
}

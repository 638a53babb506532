package dsl

import (
	"fmt"
	"strings"

	"github.com/bdwalton/spritec/model"
)

func perr(line int, code, format string, args ...any) error {
	return &model.ParseError{Line: line, Code: code, Msg: fmt.Sprintf(format, args...)}
}

func parseFrame(f *File, rest []string, line, pendingAlign int) (*model.Cel, error) {
	if len(rest) == 0 {
		return nil, perr(line, "frame-missing-name", "frame directive requires a name")
	}
	name := rest[0]
	if _, exists := f.CelIndex[name]; exists {
		return nil, perr(line, "duplicate-cel", "cel %q already defined", name)
	}

	c := &model.Cel{
		Name:  name,
		ID:    -1,
		Line:  line,
		Align: 1,
		Table: make(map[string]map[string]model.TableValue),
	}

	args := rest[1:]
	if looksLikeRect(args) {
		rect, _, err := parseRect(args)
		if err != nil {
			return nil, perr(line, "frame-bad-rect", "%v", err)
		}
		c.Clip = rect
	}

	if pendingAlign > 0 {
		c.Align = pendingAlign
	}

	f.Cels = append(f.Cels, c)
	f.CelIndex[name] = len(f.Cels) - 1
	return c, nil
}

func parseTable(f *File, rest []string, line int) error {
	if len(rest) < 3 || rest[1] != "in" {
		return perr(line, "table-syntax", "expected 'table <name> in <segment>'")
	}
	name, segment := rest[0], rest[2]
	if _, exists := f.Tables[name]; exists {
		return perr(line, "duplicate-table", "table %q already defined", name)
	}
	f.Tables[name] = &Table{Name: name, Segment: segment, Line: line}
	return nil
}

func parseBackdrop(f *File, rest []string, line int) error {
	if len(rest) != 1 {
		return perr(line, "backdrop-syntax", "expected 'backdrop <color>'")
	}
	c, err := parseColor(rest[0])
	if err != nil {
		return perr(line, "backdrop-color", "%v", err)
	}
	f.Backdrop = c
	f.HasBackdrop = true
	return nil
}

// parsePalette implements "palette <id> <color>{3..} [<color>=<index>]*":
// positional colors fill indices 1-3 in order; any token containing
// '=' assigns (or reassigns) a specific index explicitly.
func parsePalette(f *File, rest []string, line int) error {
	if len(rest) < 1 {
		return perr(line, "palette-syntax", "expected 'palette <id> <color>...'")
	}
	id, err := parseInt(rest[0])
	if err != nil {
		return perr(line, "palette-id", "%v", err)
	}

	pal := &model.Palette{ID: id}
	positional := 0
	for _, tok := range rest[1:] {
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			colorTok, idxTok := tok[:eq], tok[eq+1:]
			c, err := parseColor(colorTok)
			if err != nil {
				return perr(line, "palette-color", "%v", err)
			}
			idx, err := parseInt(idxTok)
			if err != nil {
				return perr(line, "palette-index", "%v", err)
			}
			if idx < 1 || idx > 3 {
				return perr(line, "palette-index-range", "palette index %d out of range 1-3", idx)
			}
			pal.Colors[idx-1] = c
			continue
		}

		c, err := parseColor(tok)
		if err != nil {
			return perr(line, "palette-color", "%v", err)
		}
		if positional >= 3 {
			return perr(line, "palette-too-many-colors", "palette %d declares more than 3 positional colors", id)
		}
		pal.Colors[positional] = c
		positional++
	}

	f.Palettes[id] = pal
	return nil
}

func parseAlign(rest []string, line int) (int, error) {
	if len(rest) != 1 {
		return 0, perr(line, "align-syntax", "expected 'align <k>'")
	}
	k, err := parseInt(rest[0])
	if err != nil {
		return 0, perr(line, "align-value", "%v", err)
	}
	if k <= 1 {
		return 0, perr(line, "align-range", "align k must be > 1, got %d", k)
	}
	return k, nil
}

func parseAttribute(f *File, rest []string, line int) error {
	if len(rest) != 3 || rest[1] != "in" {
		return perr(line, "attribute-syntax", "expected 'attribute <kw> in <tablename>'")
	}
	f.registry.register(ColumnSpec{Keyword: rest[0], Kind: model.KindRaw, Table: rest[2]})
	return nil
}

func parseFlag(f *File, rest []string, line int) error {
	if len(rest) != 4 || rest[2] != "in" {
		return perr(line, "flag-syntax", "expected 'flag <kw> <intorhex> in <tablename>'")
	}
	val, err := parseInt(rest[1])
	if err != nil {
		return perr(line, "flag-value", "%v", err)
	}
	f.registry.register(ColumnSpec{Keyword: rest[0], Kind: model.KindBitflag, Table: rest[3], Bitmask: uint8(val)})
	return nil
}

func parseActionpoint(f *File, rest []string, line int) error {
	if len(rest) < 3 || rest[1] != "in" {
		return perr(line, "actionpoint-syntax", "expected 'actionpoint <kw> in <tablename> [<tablename>]'")
	}
	spec := ColumnSpec{Keyword: rest[0], Kind: model.KindSignedPair, Table: rest[2]}
	if len(rest) >= 4 {
		spec.Table2 = rest[3]
	}
	f.registry.register(spec)
	return nil
}

func parseCelLine(f *File, cur *model.Cel, kw string, rest []string, line int) error {
	switch kw {
	case "aka":
		if len(rest) != 1 {
			return perr(line, "aka-syntax", "expected 'aka <name>'")
		}
		cur.Aliases = append(cur.Aliases, rest[0])
		return nil
	case "strip":
		return parseStrip(cur, rest, line)
	case "hotspot":
		loc, _, err := parseLoc(rest)
		if err != nil {
			return perr(line, "hotspot-syntax", "%v", err)
		}
		cur.Hotspot = loc
		cur.HasHS = true
		return nil
	case "repeats":
		return parseRepeats(f, cur, rest, line)
	case "related":
		if len(rest) != 1 {
			return perr(line, "related-syntax", "expected 'related <name>'")
		}
		cur.Related = rest[0]
		return nil
	case "subset":
		cur.Subset = true
		return nil
	default:
		return parseUserKeyword(f, cur, kw, rest, line)
	}
}

func parseStrip(cur *model.Cel, rest []string, line int) error {
	if len(rest) == 0 {
		return perr(line, "strip-syntax", "expected 'strip <palid> [<rect>] [at <loc>]'")
	}
	palID, err := parseInt(rest[0])
	if err != nil {
		return perr(line, "strip-palette", "%v", err)
	}
	s := model.Strip{PaletteID: palID, Src: cur.Clip, Line: line}

	rest = rest[1:]
	if looksLikeRect(rest) {
		rect, rem, err := parseRect(rest)
		if err != nil {
			return perr(line, "strip-rect", "%v", err)
		}
		s.Src = rect
		rest = rem
	}

	if len(rest) > 0 {
		if rest[0] != "at" {
			return perr(line, "strip-syntax", "unexpected token %q after strip rect", rest[0])
		}
		loc, rem, err := parseLoc(rest[1:])
		if err != nil {
			return perr(line, "strip-dest", "%v", err)
		}
		rest = rem
		s.Dst = &loc
	}
	if len(rest) > 0 {
		return perr(line, "strip-syntax", "unexpected trailing token %q", rest[0])
	}

	cur.Strips = append(cur.Strips, s)
	return nil
}

func parseRepeats(f *File, cur *model.Cel, rest []string, line int) error {
	if len(rest) != 1 {
		return perr(line, "repeats-syntax", "expected 'repeats <name>'")
	}
	idx, ok := f.CelIndex[rest[0]]
	if !ok {
		return perr(line, "repeats-undefined", "repeats target %q is undefined or not yet defined", rest[0])
	}
	target := f.Cels[idx]

	cur.Strips = append(cur.Strips, target.Strips...)
	if target.HasHS {
		cur.Hotspot = target.Hotspot
		cur.HasHS = true
	}
	if (cur.Clip == model.Rect{}) {
		cur.Clip = target.Clip
	}
	return nil
}

func parseUserKeyword(f *File, cur *model.Cel, kw string, rest []string, line int) error {
	spec, ok := f.registry.lookup(kw)
	if !ok {
		return perr(line, "unknown-keyword", "unrecognized keyword %q inside frame %q", kw, cur.Name)
	}

	tbl := cur.Table[spec.Table]
	if tbl == nil {
		tbl = make(map[string]model.TableValue)
		cur.Table[spec.Table] = tbl
	}

	switch spec.Kind {
	case model.KindRaw:
		if len(rest) != 1 {
			return perr(line, "attribute-arity", "attribute %q expects one value", kw)
		}
		v, err := parseInt(rest[0])
		if err != nil {
			return perr(line, "attribute-value", "%v", err)
		}
		tbl[kw] = model.TableValue{Kind: model.KindRaw, Raw: uint8(v)}
	case model.KindBitflag:
		tbl[kw] = model.TableValue{Kind: model.KindBitflag, Flags: spec.Bitmask}
	case model.KindSignedPair:
		if len(rest) != 2 {
			return perr(line, "actionpoint-arity", "actionpoint %q expects an (x, y) pair", kw)
		}
		x, err := parseInt(rest[0])
		if err != nil {
			return perr(line, "actionpoint-value", "%v", err)
		}
		y, err := parseInt(rest[1])
		if err != nil {
			return perr(line, "actionpoint-value", "%v", err)
		}
		tbl[kw] = model.TableValue{Kind: model.KindSignedPair, Pair: [2]int8{int8(x), int8(y)}}
		if spec.Table2 != "" {
			tbl2 := cur.Table[spec.Table2]
			if tbl2 == nil {
				tbl2 = make(map[string]model.TableValue)
				cur.Table[spec.Table2] = tbl2
			}
			tbl2[kw] = model.TableValue{Kind: model.KindRaw, Raw: 1}
		}
	}
	return nil
}

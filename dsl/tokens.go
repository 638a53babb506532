package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bdwalton/spritec/model"
)

// parseInt accepts decimal, $HEX, and 0xHEX integer tokens, per
// spec.md 4.1.
func parseInt(tok string) (int, error) {
	neg := false
	s := tok
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var n int64
	var err error
	switch {
	case strings.HasPrefix(s, "$"):
		n, err = strconv.ParseInt(s[1:], 16, 64)
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		n, err = strconv.ParseInt(s[2:], 16, 64)
	default:
		n, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("malformed integer %q: %w", tok, err)
	}
	if neg {
		n = -n
	}
	return int(n), nil
}

// parseColor accepts #RGB (each nybble doubled to a full byte) and
// #RRGGBB color tokens.
func parseColor(tok string) (model.Color, error) {
	if !strings.HasPrefix(tok, "#") {
		return model.Color{}, fmt.Errorf("color token %q must start with '#'", tok)
	}
	hex := tok[1:]

	switch len(hex) {
	case 3:
		r, err := hexNybble(hex[0])
		if err != nil {
			return model.Color{}, err
		}
		g, err := hexNybble(hex[1])
		if err != nil {
			return model.Color{}, err
		}
		b, err := hexNybble(hex[2])
		if err != nil {
			return model.Color{}, err
		}
		return model.Color{R: r * 17, G: g * 17, B: b * 17}, nil
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return model.Color{}, fmt.Errorf("malformed color %q: %w", tok, err)
		}
		return model.Color{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
		}, nil
	default:
		return model.Color{}, fmt.Errorf("color token %q must be #RGB or #RRGGBB", tok)
	}
}

func hexNybble(c byte) (uint8, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, fmt.Errorf("invalid hex digit %q", c)
}

// parseLoc consumes two integer tokens as an (x, y) location.
func parseLoc(toks []string) (model.Loc, []string, error) {
	if len(toks) < 2 {
		return model.Loc{}, toks, fmt.Errorf("expected two integers for a location, got %d token(s)", len(toks))
	}
	x, err := parseInt(toks[0])
	if err != nil {
		return model.Loc{}, toks, err
	}
	y, err := parseInt(toks[1])
	if err != nil {
		return model.Loc{}, toks, err
	}
	return model.Loc{X: x, Y: y}, toks[2:], nil
}

// parseRect consumes four integer tokens as (left, top, width, height).
func parseRect(toks []string) (model.Rect, []string, error) {
	if len(toks) < 4 {
		return model.Rect{}, toks, fmt.Errorf("expected four integers for a rect, got %d token(s)", len(toks))
	}
	vals := [4]int{}
	for i := 0; i < 4; i++ {
		v, err := parseInt(toks[i])
		if err != nil {
			return model.Rect{}, toks, err
		}
		vals[i] = v
	}
	return model.Rect{Left: vals[0], Top: vals[1], Width: vals[2], Height: vals[3]}, toks[4:], nil
}

// looksLikeRect reports whether the next four tokens parse as a rect,
// used to disambiguate the optional rect on "frame" and "strip" lines
// without consuming tokens on failure.
func looksLikeRect(toks []string) bool {
	if len(toks) < 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if _, err := parseInt(toks[i]); err != nil {
			return false
		}
	}
	return true
}

func looksLikeLoc(toks []string) bool {
	if len(toks) < 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		if _, err := parseInt(toks[i]); err != nil {
			return false
		}
	}
	return true
}

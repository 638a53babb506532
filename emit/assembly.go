package emit

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bdwalton/spritec/model"
)

// AssemblyOptions configures the assembly emitter's symbol names and
// output segment (spec.md 6: "Symbol prefixes configurable; segment
// names pass through").
type AssemblyOptions struct {
	Prefix  string
	Segment string
}

// DefaultSegment is the CLI's --segment default.
const DefaultSegment = "RODATA"

// CelOutput bundles the per-cel results the earlier pipeline stages
// produced, gathered here so the emitter doesn't need to reach back
// into bankpack or metasprite directly.
type CelOutput struct {
	Name    string
	ID      int
	Bank    int
	Stream  []byte
	Aliases []string
}

func label(prefix, name string) string {
	return fmt.Sprintf("%s%s_msp", prefix, name)
}

// WriteAssembly emits the metasprite assembly table: a frametobank
// byte table, an mspraddrs word table, one exported byte stream per
// cel, and the NUMFRAMES/NUMTILES symbols. Unoccupied ids (the padding
// slots align produces) get a zero bank entry and a null address,
// since no cel ever references them at runtime.
func WriteAssembly(w io.Writer, opts AssemblyOptions, cels []CelOutput, numTiles int) error {
	segment := opts.Segment
	if segment == "" {
		segment = DefaultSegment
	}

	maxID := 0
	for _, c := range cels {
		if c.ID+1 > maxID {
			maxID = c.ID + 1
		}
	}

	byID := make(map[int]CelOutput, len(cels))
	for _, c := range cels {
		byID[c.ID] = c
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, ".segment %q\n\n", segment)
	fmt.Fprintf(&sb, ".export %sNUMFRAMES = %d\n", opts.Prefix, maxID)
	fmt.Fprintf(&sb, ".export %sNUMTILES = %d\n\n", opts.Prefix, numTiles)

	fmt.Fprintf(&sb, "%sframetobank:\n", opts.Prefix)
	for id := 0; id < maxID; id++ {
		bank := 0
		if c, ok := byID[id]; ok {
			bank = c.Bank
		}
		fmt.Fprintf(&sb, "\t.byte $%02x\n", bank)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "%smspraddrs:\n", opts.Prefix)
	for id := 0; id < maxID; id++ {
		if c, ok := byID[id]; ok {
			fmt.Fprintf(&sb, "\t.word %s\n", label(opts.Prefix, c.Name))
		} else {
			sb.WriteString("\t.word $0000\n")
		}
	}
	sb.WriteString("\n")

	sorted := append([]CelOutput{}, cels...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	for _, c := range sorted {
		fmt.Fprintf(&sb, "%s:\n\t.byte ", label(opts.Prefix, c.Name))
		parts := make([]string, len(c.Stream))
		for i, b := range c.Stream {
			parts[i] = fmt.Sprintf("$%02x", b)
		}
		sb.WriteString(strings.Join(parts, ","))
		sb.WriteString("\n")
	}

	if n, err := io.WriteString(w, sb.String()); n != sb.Len() || err != nil {
		return &model.IOError{Path: "assembly output", Err: err}
	}
	return nil
}

// WriteFrameNumbers writes the optional --write-frame-numbers output:
// one FRAME_/FRAMEBANK_/FRAMETILENUM_ triple per cel, repeated for
// each `aka` alias.
func WriteFrameNumbers(w io.Writer, cels []CelOutput, tileBase map[string]int) error {
	var sb strings.Builder
	sorted := append([]CelOutput{}, cels...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	writeTriple := func(name string, c CelOutput) {
		fmt.Fprintf(&sb, "FRAME_%s=%d\n", name, c.ID)
		fmt.Fprintf(&sb, "FRAMEBANK_%s=%d\n", name, c.Bank)
		fmt.Fprintf(&sb, "FRAMETILENUM_%s=%d\n", name, tileBase[c.Name])
	}

	for _, c := range sorted {
		writeTriple(c.Name, c)
		for _, alias := range c.Aliases {
			writeTriple(alias, c)
		}
	}

	if n, err := io.WriteString(w, sb.String()); n != sb.Len() || err != nil {
		return &model.IOError{Path: "frame-numbers output", Err: err}
	}
	return nil
}

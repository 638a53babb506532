// Package pipeline wires the compiler's stages together: parse the
// cel-position file, resolve colors, rasterize every cel into tiles,
// intern tiles canonically, pack cels into banks, encode each cel's
// metasprite, and hand the result to the emitter. Single-threaded,
// batch, as spec.md 5 requires: one invocation owns all of its data
// and releases it at the end.
package pipeline

import (
	"image"
	"io"
	"sort"

	"github.com/bdwalton/spritec/bankpack"
	"github.com/bdwalton/spritec/colorres"
	"github.com/bdwalton/spritec/dsl"
	"github.com/bdwalton/spritec/emit"
	"github.com/bdwalton/spritec/imgsrc"
	"github.com/bdwalton/spritec/metasprite"
	"github.com/bdwalton/spritec/model"
	"github.com/bdwalton/spritec/raster"
	"github.com/bdwalton/spritec/tileset"
)

// Options configures one compile run; it mirrors the CLI flags of
// spec.md 6.
type Options struct {
	BankSize int
	Prefix   string
	Segment  string
}

// Result is everything a caller (the CLI, or a debug-image writer)
// needs once a run completes.
type Result struct {
	File     *dsl.File
	Banks    []*model.Bank
	Tiles    *tileset.Interner
	Cels     []emit.CelOutput
	TileBase map[string]int // cel name -> bank-relative slot/2 of its first tile
}

// Run executes the full pipeline over a cel-position file reader
// (parsed here with dsl.Parse) and a decoded sprite sheet image.
func Run(celFile io.Reader, sheet image.Image, opts Options) (*Result, error) {
	f, err := dsl.Parse(celFile)
	if err != nil {
		return nil, err
	}

	resolver := colorres.New(f.Backdrop, f.HasBackdrop, f.Palettes)
	src := imgsrc.New(sheet, f.HFlip)
	rz := raster.New(src, resolver)

	interner := tileset.New()
	tileSets := make(map[string]map[int]bool, len(f.Cels))
	refsByName := make(map[string][]model.TileRef, len(f.Cels))

	for _, c := range f.Cels {
		placements, err := rz.Rasterize(c)
		if err != nil {
			return nil, err
		}
		refs := interner.InternCel(placements)
		refsByName[c.Name] = refs
		tileSets[c.Name] = tileset.TileIDSet(refs)
	}

	bankSize := opts.BankSize
	if bankSize <= 0 {
		bankSize = bankpack.DefaultCapacity
	}
	packer := bankpack.New(bankSize)
	binNames, ids, err := packer.Pack(f.Cels, tileSets)
	if err != nil {
		return nil, err
	}

	banks := make([]*model.Bank, len(binNames))
	bankOf := make(map[string]int, len(f.Cels))
	for i, names := range binNames {
		b := model.NewBank(i, bankSize)
		for _, name := range names {
			ordered := orderedTileIDs(refsByName[name])
			b.AddOrdered(ordered)
			bankOf[name] = i
		}
		banks[i] = b
	}

	byName := make(map[string]*model.Cel, len(f.Cels))
	for _, c := range f.Cels {
		c.ID = ids[c.Name]
		byName[c.Name] = c
	}

	tileBase := make(map[string]int, len(f.Cels))
	cels := make([]emit.CelOutput, 0, len(f.Cels))
	for _, c := range f.Cels {
		refs := refsByName[c.Name]
		bank := banks[bankOf[c.Name]]
		stream, err := metasprite.Encode(c.Name, refs, bank)
		if err != nil {
			return nil, err
		}
		base := 0
		if len(refs) > 0 {
			base = bank.SlotOf(refs[0].TileID) / 2
		}
		tileBase[c.Name] = base
		cels = append(cels, emit.CelOutput{
			Name:    c.Name,
			ID:      c.ID,
			Bank:    bankOf[c.Name],
			Stream:  stream,
			Aliases: c.Aliases,
		})
	}
	sort.Slice(cels, func(i, j int) bool { return cels[i].ID < cels[j].ID })

	return &Result{File: f, Banks: banks, Tiles: interner, Cels: cels, TileBase: tileBase}, nil
}

// orderedTileIDs collapses refs to their distinct tile ids, preserving
// first-encounter order so bank assignment is deterministic across
// runs given identical input (spec.md 8, property 7).
func orderedTileIDs(refs []model.TileRef) []int {
	seen := make(map[int]bool, len(refs))
	var ids []int
	for _, r := range refs {
		if !seen[r.TileID] {
			seen[r.TileID] = true
			ids = append(ids, r.TileID)
		}
	}
	return ids
}

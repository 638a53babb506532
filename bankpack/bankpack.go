// Package bankpack implements the overload-and-remove bank packer
// (spec.md 4.5): it assigns each cel's tile set to one of a minimal
// number of fixed-capacity banks, honoring `related` (same-bank) and
// `align` (cel-id alignment) constraints.
//
// The Bank bookkeeping is modeled after mappers.Mapper/baseMapper in
// the teacher repo (mappers/mapper_basics.go): a named, fixed-size,
// addressable unit that a registry-style assignment step hands work
// to, generalized here from ROM-bank address decoding to tile-set bin
// packing.
package bankpack

import (
	"fmt"

	"github.com/bdwalton/spritec/model"
)

// DefaultCapacity is the bank-size spec.md's CLI default (--bank-size
// 32) uses when the caller doesn't override it.
const DefaultCapacity = 32

// DefaultMaxIterations bounds the overload/remove loop (spec.md 5: "no
// timeouts... an iteration cap... fails with a surfaced error").
const DefaultMaxIterations = 10000

// workItem is one packable unit: either a single cel or, after
// `related` coalescing, several cels that must share a bank.
type workItem struct {
	names     []string
	tiles     map[int]bool
	subset    bool
	insertSeq int
}

// Packer partitions cels into banks of at most Capacity distinct tiles
// each, minimizing bank count via overload-and-remove.
type Packer struct {
	Capacity      int
	MaxIterations int
}

// New returns a Packer with the given bank capacity and a default
// iteration cap.
func New(capacity int) *Packer {
	return &Packer{Capacity: capacity, MaxIterations: DefaultMaxIterations}
}

// Pack runs the packer over cels (using tileSets[cel.Name] as each
// cel's required tile-id set) and returns the ordered list of bins,
// each an ordered list of cel names, plus a name->final-ID map that
// already accounts for `align` padding.
func (p *Packer) Pack(cels []*model.Cel, tileSets map[string]map[int]bool) ([][]string, map[string]int, error) {
	items, err := coalesceRelated(cels, tileSets)
	if err != nil {
		return nil, nil, err
	}
	for _, it := range items {
		if len(it.tiles) > p.Capacity {
			return nil, nil, &model.PackError{
				Reason: fmt.Sprintf("cel group %v needs %d tiles, exceeding bank-size %d", it.names, len(it.tiles), p.Capacity),
			}
		}
	}

	seedBySubset(items)

	bins, err := p.packItems(items)
	if err != nil {
		return nil, nil, err
	}

	binNames := make([][]string, len(bins))
	for i, b := range bins {
		for _, it := range b.items {
			binNames[i] = append(binNames[i], it.names...)
		}
	}

	ids := assignIDs(binNames, cels)
	return binNames, ids, nil
}

// coalesceRelated unions cels joined by `related` (spec.md 9: treat as
// an undirected graph; union-find coalesces cycles naturally) and
// builds one workItem per resulting group, preserving the relative
// declaration order of both groups and cels within a group.
func coalesceRelated(cels []*model.Cel, tileSets map[string]map[int]bool) ([]*workItem, error) {
	uf := newUnionFind()
	byName := make(map[string]*model.Cel, len(cels))
	for _, c := range cels {
		uf.find(c.Name)
		byName[c.Name] = c
	}
	for _, c := range cels {
		if c.Related == "" {
			continue
		}
		if _, ok := byName[c.Related]; !ok {
			return nil, &model.PackError{Reason: fmt.Sprintf("cel %q is related to undefined cel %q", c.Name, c.Related)}
		}
		uf.union(c.Name, c.Related)
	}

	order := make([]string, 0, len(cels))
	groups := make(map[string][]string)
	for _, c := range cels {
		root := uf.find(c.Name)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], c.Name)
	}

	items := make([]*workItem, 0, len(order))
	for _, root := range order {
		names := groups[root]
		tiles := make(map[int]bool)
		subset := false
		for _, n := range names {
			for id := range tileSets[n] {
				tiles[id] = true
			}
			if byName[n].Subset {
				subset = true
			}
		}
		items = append(items, &workItem{names: names, tiles: tiles, subset: subset})
	}
	return items, nil
}

// seedBySubset moves subset-flagged items to the front, stably, as a
// pure insertion-order seeding heuristic. spec.md 9: `subset` is
// deprecated and reduced to this seed only; no attempt is made to
// reproduce its pre-2019 greedy semantics.
func seedBySubset(items []*workItem) {
	seeded := make([]*workItem, 0, len(items))
	rest := make([]*workItem, 0, len(items))
	for _, it := range items {
		if it.subset {
			seeded = append(seeded, it)
		} else {
			rest = append(rest, it)
		}
	}
	copy(items, append(seeded, rest...))
}

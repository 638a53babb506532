package bankpack

import (
	"sort"

	"github.com/bdwalton/spritec/model"
)

// bin is one working bank during packing: an ordered list of items
// plus a model.Bank tracking their union tile set, kept in sync as
// items are added/removed. Reusing model.Bank here (rather than a
// bin-local map) means the packer's own capacity bookkeeping is the
// same Has/UnionSize/IntersectionSize/AddOrdered/Remove machinery
// spec.md 3 already designates for a bank's tile set; bin only adds
// the item list and insertion-order tracking the packer needs on top.
type bin struct {
	items []*workItem
	tiles *model.Bank
}

func newBin(capacity int) *bin { return &bin{tiles: model.NewBank(-1, capacity)} }

func sortedIDs(s map[int]bool) []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (b *bin) unionSizeWith(it *workItem) int {
	return b.tiles.UnionSize(it.tiles)
}

func (b *bin) intersectionWith(it *workItem) int {
	return b.tiles.IntersectionSize(it.tiles)
}

func (b *bin) add(it *workItem, seq *int) {
	b.tiles.AddOrdered(sortedIDs(it.tiles))
	*seq++
	it.insertSeq = *seq
	b.items = append(b.items, it)
}

// remove drops it from the bin. Tiles it contributed may still be held
// by other items in the bin, so only tile ids no other item in the
// bin still needs are actually removed from the bank.
func (b *bin) remove(it *workItem) {
	for i, x := range b.items {
		if x == it {
			b.items = append(b.items[:i], b.items[i+1:]...)
			break
		}
	}

	stale := make(map[int]bool)
	for id := range it.tiles {
		if b.tiles.Has(id) {
			stale[id] = true
		}
	}
	for _, other := range b.items {
		for id := range other.tiles {
			delete(stale, id)
		}
	}
	b.tiles.Remove(sortedIDs(stale))
}

func (b *bin) clone() *bin {
	nb := model.NewBank(b.tiles.ID, b.tiles.Capacity)
	nb.AddOrdered(append([]int{}, b.tiles.Tiles...))
	return &bin{items: append([]*workItem{}, b.items...), tiles: nb}
}

// insertOne is step 1 of overload-and-remove: insert it into the bin
// with the largest intersection among those it fits in without
// exceeding capacity (ties: lowest-index bin); open a new bin if none
// fit.
func insertOne(bins []*bin, it *workItem, capacity int, seq *int) []*bin {
	best, bestInter := -1, -1
	for i, b := range bins {
		if b.unionSizeWith(it) <= capacity {
			if inter := b.intersectionWith(it); inter > bestInter {
				bestInter = inter
				best = i
			}
		}
	}
	if best >= 0 {
		bins[best].add(it, seq)
		return bins
	}
	nb := newBin(capacity)
	nb.add(it, seq)
	return append(bins, nb)
}

// bestOverloadTarget is step 2: pick the bin with the largest
// intersection regardless of whether it currently fits, ties lowest
// index, since the overload step explicitly permits a temporary
// capacity violation.
func bestOverloadTarget(bins []*bin, it *workItem) int {
	best, bestInter := -1, -1
	for i, b := range bins {
		if inter := b.intersectionWith(it); inter > bestInter {
			bestInter = inter
			best = i
		}
	}
	return best
}

// pickEvictionVictim is step 3: evict the item whose removal most
// reduces the bin's overflow, i.e. the one with the most tiles unique
// to it within the bin; ties go to the most recently inserted item.
func pickEvictionVictim(b *bin) *workItem {
	count := make(map[int]int)
	for _, it := range b.items {
		for id := range it.tiles {
			count[id]++
		}
	}

	var best *workItem
	bestUnique := -1
	for _, it := range b.items {
		unique := 0
		for id := range it.tiles {
			if count[id] == 1 {
				unique++
			}
		}
		if unique > bestUnique || (unique == bestUnique && best != nil && it.insertSeq > best.insertSeq) {
			bestUnique = unique
			best = it
		}
	}
	return best
}

func (p *Packer) packItems(items []*workItem) ([]*bin, error) {
	var bins []*bin
	seq := 0
	for _, it := range items {
		bins = insertOne(bins, it, p.Capacity, &seq)
	}

	// Try, repeatedly, to empty the highest-index bin into earlier
	// ones via overload-and-remove, shrinking the bin count. Stop when
	// a round makes no progress or the iteration cap is reached.
	for round := 0; round < p.MaxIterations; round++ {
		shrunk, err := p.tryCloseLastBin(bins, &seq)
		if err != nil {
			return nil, err
		}
		if shrunk == nil {
			return bins, nil
		}
		bins = shrunk
	}

	// Reaching the cap while a prior round still reported progress
	// available means the process never stabilized.
	return nil, &model.PackError{Reason: "bank packer exceeded its iteration cap without converging"}
}

// tryCloseLastBin attempts one round of overload-and-remove aimed at
// emptying the last bin into earlier bins. It returns the new bin
// slice on success (with the last bin gone) or nil if no improvement
// was found, in which case bins is unchanged.
func (p *Packer) tryCloseLastBin(bins []*bin, seq *int) ([]*bin, error) {
	if len(bins) < 2 {
		return nil, nil
	}

	last := bins[len(bins)-1]
	working := make([]*bin, len(bins)-1)
	for i, b := range bins[:len(bins)-1] {
		working[i] = b.clone()
	}

	var displaced []*workItem
	for _, it := range last.items {
		idx := bestOverloadTarget(working, it)
		if idx < 0 {
			return nil, nil // no earlier bins to overload into
		}
		b := working[idx]
		b.add(it, seq) // step 2: temporarily overload

		for len(b.tiles.Tiles) > p.Capacity {
			victim := pickEvictionVictim(b)
			if victim == nil {
				return nil, &model.PackError{Reason: "overload-and-remove could not relieve an overloaded bank"}
			}
			b.remove(victim)
			displaced = append(displaced, victim)
		}
	}

	// Step 4: re-insert displaced items using step 1, but only into
	// freshly opened bins, per spec.md 4.5.
	var fresh []*bin
	for _, it := range displaced {
		fresh = insertOne(fresh, it, p.Capacity, seq)
	}

	result := append(working, fresh...)
	if len(result) >= len(bins) {
		return nil, nil // no net improvement; caller keeps the original bins
	}
	return result, nil
}

package bankpack

import "github.com/bdwalton/spritec/model"

// assignIDs walks bins in packed order and assigns each cel a global,
// monotonically increasing id, inserting padding slots ahead of any
// cel whose Align constraint isn't already satisfied by the running
// counter (spec.md 4.5's worked example: a cel requiring align 4
// starting at id 1 consumes ids 1-3 as padding before landing on 4).
func assignIDs(bins [][]string, cels []*model.Cel) map[string]int {
	byName := make(map[string]*model.Cel, len(cels))
	for _, c := range cels {
		byName[c.Name] = c
	}

	ids := make(map[string]int, len(cels))
	next := 0
	for _, bin := range bins {
		for _, name := range bin {
			align := byName[name].Align
			if align < 1 {
				align = 1
			}
			if rem := next % align; rem != 0 {
				next += align - rem
			}
			ids[name] = next
			next++
		}
	}
	return ids
}

package rules

import "github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"

// Slot tables are indexed by caster level. Each row lists slot counts by
// spell level starting at level 1.
var (
	fullCasterSlots = [][]int{
		{},
		{2},
		{3},
		{4, 2},
		{4, 3},
		{4, 3, 2},
		{4, 3, 3},
		{4, 3, 3, 1},
		{4, 3, 3, 2},
		{4, 3, 3, 3, 1},
		{4, 3, 3, 3, 2},
		{4, 3, 3, 3, 2, 1},
		{4, 3, 3, 3, 2, 1},
		{4, 3, 3, 3, 2, 1, 1},
		{4, 3, 3, 3, 2, 1, 1},
		{4, 3, 3, 3, 2, 1, 1, 1},
		{4, 3, 3, 3, 2, 1, 1, 1},
		{4, 3, 3, 3, 2, 1, 1, 1, 1},
		{4, 3, 3, 3, 3, 1, 1, 1, 1},
		{4, 3, 3, 3, 3, 2, 1, 1, 1},
		{4, 3, 3, 3, 3, 2, 2, 1, 1},
	}

	halfCasterSlots = [][]int{
		{},
		{2},
		{2},
		{3},
		{3},
		{4, 2},
		{4, 2},
		{4, 3},
		{4, 3},
		{4, 3, 2},
		{4, 3, 2},
		{4, 3, 3},
		{4, 3, 3},
		{4, 3, 3, 1},
		{4, 3, 3, 1},
		{4, 3, 3, 2},
		{4, 3, 3, 2},
		{4, 3, 3, 3, 1},
		{4, 3, 3, 3, 1},
		{4, 3, 3, 3, 2},
		{4, 3, 3, 3, 2},
	}

	thirdCasterSlots = [][]int{
		{},
		{},
		{},
		{2},
		{3},
		{3},
		{3},
		{4, 2},
		{4, 2},
		{4, 2},
		{4, 3},
		{4, 3},
		{4, 3},
		{4, 3, 2},
		{4, 3, 2},
		{4, 3, 2},
		{4, 3, 3},
		{4, 3, 3},
		{4, 3, 3},
		{4, 3, 3, 1},
		{4, 3, 3, 1},
	}
)

// pactSlots returns the pact magic slot count and slot level
func pactSlots(level int) (count, slotLevel int) {
	switch {
	case level < 1:
		return 0, 0
	case level == 1:
		return 1, 1
	case level == 2:
		return 2, 1
	case level <= 4:
		return 2, 2
	case level <= 6:
		return 2, 3
	case level <= 8:
		return 2, 4
	case level <= 10:
		return 2, 5
	case level <= 16:
		return 3, 5
	default:
		return 4, 5
	}
}

// SlotTable returns the slot pool for a caster kind at a caster level.
// Levels above 20 are capped; unknown kinds and level 0 give an empty pool.
func SlotTable(kind dnd5e.CasterKind, level int) map[int]int {
	if level > dnd5e.MaxLevel {
		level = dnd5e.MaxLevel
	}
	out := make(map[int]int)
	if level < 1 {
		return out
	}

	var table [][]int
	switch kind {
	case dnd5e.CasterFull:
		table = fullCasterSlots
	case dnd5e.CasterHalf:
		table = halfCasterSlots
	case dnd5e.CasterThird:
		table = thirdCasterSlots
	case dnd5e.CasterPact:
		if count, slotLevel := pactSlots(level); count > 0 {
			out[slotLevel] = count
		}
		return out
	default:
		return out
	}

	for i, n := range table[level] {
		out[i+1] = n
	}
	return out
}

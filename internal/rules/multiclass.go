package rules

import "github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"

// CasterLevels sums class levels by caster kind
type CasterLevels struct {
	Full  int
	Half  int
	Third int
	Pact  int
}

// CasterLevels totals the caster levels of a character's classes. Classes
// unknown to the book contribute nothing.
func (b *Book) CasterLevels(classes []dnd5e.ClassLevel) CasterLevels {
	var levels CasterLevels
	for _, cl := range classes {
		class, ok := b.Class(cl.Class)
		if !ok {
			continue
		}
		switch class.CasterKind(cl.Subclass) {
		case dnd5e.CasterFull:
			levels.Full += cl.Level
		case dnd5e.CasterHalf:
			levels.Half += cl.Level
		case dnd5e.CasterThird:
			levels.Third += cl.Level
		case dnd5e.CasterPact:
			levels.Pact += cl.Level
		}
	}
	return levels
}

// EffectiveLevel is full + half/2 + third/3, rounding each part down
func (l CasterLevels) EffectiveLevel() int {
	return l.Full + l.Half/2 + l.Third/3
}

// SpellSlots returns the regular slot capacity. A single caster kind uses
// its own table at its raw level. Mixed kinds use the highest present
// kind's table at the effective level, unless one kind's own table at its
// raw level holds more slots; the larger pool wins so that adding a level
// never shrinks it.
func (l CasterLevels) SpellSlots() map[int]int {
	var own []map[int]int
	highest := dnd5e.CasterNone
	for _, tier := range []struct {
		kind  dnd5e.CasterKind
		level int
	}{
		{dnd5e.CasterThird, l.Third},
		{dnd5e.CasterHalf, l.Half},
		{dnd5e.CasterFull, l.Full},
	} {
		if tier.level > 0 {
			own = append(own, SlotTable(tier.kind, tier.level))
			highest = tier.kind
		}
	}

	switch len(own) {
	case 0:
		return map[int]int{}
	case 1:
		return own[0]
	}

	best := SlotTable(highest, l.EffectiveLevel())
	for _, pool := range own {
		if slotCount(pool) > slotCount(best) {
			best = pool
		}
	}
	return best
}

func slotCount(pool map[int]int) int {
	total := 0
	for _, n := range pool {
		total += n
	}
	return total
}

// PactSlots returns the pact magic slot capacity
func (l CasterLevels) PactSlots() map[int]int {
	return SlotTable(dnd5e.CasterPact, l.Pact)
}

// PactSlotLevel returns the level all pact slots are cast at, or 0
func (l CasterLevels) PactSlotLevel() int {
	_, slotLevel := pactSlots(l.Pact)
	return slotLevel
}

package rules

import "github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"

// Subclass returns a subclass of the class by id
func (c *Class) Subclass(id string) (*Subclass, bool) {
	for _, s := range c.Subclasses {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// CasterKind returns the caster kind for a character holding the given
// subclass. Subclass-gated kinds return none for other subclasses.
func (c *Class) CasterKind(subclass string) dnd5e.CasterKind {
	sc := c.Spellcasting
	if sc == nil {
		return dnd5e.CasterNone
	}
	if len(sc.EligibleSubclasses) == 0 {
		return sc.Kind
	}
	for _, eligible := range sc.EligibleSubclasses {
		if eligible == subclass {
			return sc.Kind
		}
	}
	return dnd5e.CasterNone
}

// SpellList returns the class list the class draws spells from
func (c *Class) SpellList() string {
	if c.Spellcasting != nil && c.Spellcasting.SpellList != "" {
		return c.Spellcasting.SpellList
	}
	return c.ID
}

// HasSpellbook reports whether the class learns spells into a spellbook
func (c *Class) HasSpellbook() bool {
	return c.Spellcasting != nil && c.Spellcasting.Spellbook
}

// MaxSpellLevel returns the highest spell level the class can prepare at a
// class level, from the class's own slot table.
func (c *Class) MaxSpellLevel(level int, subclass string) int {
	slots := SlotTable(c.CasterKind(subclass), level)
	highest := 0
	for spellLevel, n := range slots {
		if n > 0 && spellLevel > highest {
			highest = spellLevel
		}
	}
	return highest
}

// Cantrips returns the cantrip slot count at a class level
func (c *Class) Cantrips(level int, subclass string) int {
	if c.CasterKind(subclass) == dnd5e.CasterNone {
		return 0
	}
	return tableRow(c.Spellcasting.Cantrips, level)
}

// PreparedCount returns the prepared spell slot count at a class level
func (c *Class) PreparedCount(level int, subclass string) int {
	if c.CasterKind(subclass) == dnd5e.CasterNone {
		return 0
	}
	return tableRow(c.Spellcasting.Prepared, level)
}

// AlwaysPrepared returns the spells the subclass keeps prepared at a level
func (c *Class) AlwaysPrepared(level int, subclass string) []string {
	sub, ok := c.Subclass(subclass)
	if !ok {
		return nil
	}
	var out []string
	for _, ap := range sub.AlwaysPrepared {
		if ap.Level <= level {
			out = append(out, ap.Spells...)
		}
	}
	return out
}

// Traits returns the class and subclass traits granted up to a level
func (c *Class) Traits(level int, subclass string) []dnd5e.Trait {
	var out []dnd5e.Trait
	for _, f := range c.Features {
		if f.Level <= level {
			out = append(out, featureTrait(f, dnd5e.TraitSourceClass, c.Name))
		}
	}
	if sub, ok := c.Subclass(subclass); ok {
		for _, f := range sub.Features {
			if f.Level <= level {
				out = append(out, featureTrait(f, dnd5e.TraitSourceSubclass, sub.Name))
			}
		}
	}
	return out
}

func featureTrait(f Feature, source dnd5e.TraitSource, detail string) dnd5e.Trait {
	level := f.Level
	return dnd5e.Trait{
		Name:         f.Name,
		Source:       source,
		SourceDetail: detail,
		Level:        &level,
	}
}

func tableRow(table []int, level int) int {
	if level < 1 || len(table) == 0 {
		return 0
	}
	if level > len(table) {
		level = len(table)
	}
	return table[level-1]
}

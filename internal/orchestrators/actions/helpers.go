package actions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

// Common field names
const (
	fieldClass   = "class"
	fieldSpellID = "spell_id"
	fieldItemID  = "item_id"
)

func classField() Field {
	return Field{Name: fieldClass, Type: FieldString, Required: true, Description: "Class id, e.g. wizard"}
}

func spellField() Field {
	return Field{Name: fieldSpellID, Type: FieldString, Required: true, Description: "Spell id, e.g. magic-missile"}
}

func itemField() Field {
	return Field{Name: fieldItemID, Type: FieldString, Required: true, Description: "Inventory item id"}
}

// caster resolves the class field to a held spellcasting class. ok is false
// when the field is absent or a violation was recorded.
func caster(env *Env, c *Check) (*rules.Class, *dnd5e.SpellInfo, bool) {
	if !c.Has(fieldClass) {
		return nil, nil, false
	}
	id := c.String(fieldClass)
	class, ok := env.Rules.Class(id)
	if !ok {
		c.Fail(fieldClass, "unknown class %s", id)
		return nil, nil, false
	}
	if _, held := env.Snapshot.ClassLevel(id); !held {
		c.Fail(fieldClass, "character has no %s levels", class.Name)
		return nil, nil, false
	}
	info, ok := env.Snapshot.SpellInfo(id)
	if !ok {
		c.Fail(fieldClass, "%s cannot cast spells", class.Name)
		return nil, nil, false
	}
	return class, info, true
}

// spell resolves the spell_id field. Unknown spells are a violation, any
// other lookup failure is returned.
func spell(ctx context.Context, env *Env, c *Check) (*rules.Spell, error) {
	if !c.Has(fieldSpellID) {
		return nil, nil
	}
	id := c.String(fieldSpellID)
	s, err := env.Spells.Spell(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			c.Fail(fieldSpellID, "unknown spell %s", id)
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// item resolves the item_id field to a carried item
func item(env *Env, c *Check) (dnd5e.Item, bool) {
	if !c.Has(fieldItemID) {
		return dnd5e.Item{}, false
	}
	id := c.String(fieldItemID)
	it, ok := env.Snapshot.Item(id)
	if !ok {
		c.Fail(fieldItemID, "no item %s", id)
		return dnd5e.Item{}, false
	}
	return it, true
}

// pactSlotLevel is the single level pact slots are cast at, or 0
func pactSlotLevel(snap *dnd5e.Snapshot) int {
	categories := snap.PactSlots.Categories()
	if len(categories) == 0 {
		return 0
	}
	return categories[len(categories)-1]
}

// hitDieGain is the hit points one spent hit die restores before the
// headroom cap
func hitDieGain(roll, conMod int) int {
	gain := roll + conMod
	if gain < 1 {
		return 1
	}
	return gain
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abilityEnum() []string {
	return enumOf(dnd5e.Abilities)
}

func skillEnum() []string {
	return sortedEnum(dnd5e.SkillAbilities)
}

func proficiencyEnum() []string {
	return enumOf([]dnd5e.Proficiency{
		dnd5e.ProficiencyNone,
		dnd5e.ProficiencyHalf,
		dnd5e.ProficiencyProficient,
		dnd5e.ProficiencyExpert,
	})
}

// counts tallies a list of die sizes or levels
func counts(list []int) map[int]int {
	out := make(map[int]int, len(list))
	for _, n := range list {
		out[n]++
	}
	return out
}

func sortedCategories(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// describeCounts renders {8:2, 6:1} as "2d8, 1d6"
func describeCounts(prefix string, m map[int]int) string {
	keys := sortedCategories(m)
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d%s%d", m[k], prefix, k))
	}
	return strings.Join(parts, ", ")
}

func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}

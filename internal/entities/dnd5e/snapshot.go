package dnd5e

import "sort"

// AbilityScore is a resolved ability with its derived values
type AbilityScore struct {
	Score       int  `json:"score"`
	Proficient  bool `json:"proficient"`
	Modifier    int  `json:"modifier"`
	SavingThrow int  `json:"saving_throw"`
}

// SkillValue is a resolved skill
type SkillValue struct {
	Ability     Ability     `json:"ability"`
	Proficiency Proficiency `json:"proficiency"`
	Modifier    int         `json:"modifier"`
}

// HitPoints are maximum and current hit points
type HitPoints struct {
	Max     int `json:"max"`
	Current int `json:"current"`
}

// Headroom is how many hit points can still be regained
func (h HitPoints) Headroom() int {
	return h.Max - h.Current
}

// Pool is a consumable resource with a per-category capacity and the
// currently available count. Categories are die sizes or spell levels.
type Pool struct {
	Capacity  map[int]int `json:"capacity"`
	Available map[int]int `json:"available"`
}

// Used returns how many units of a category are spent
func (p Pool) Used(category int) int {
	return p.Capacity[category] - p.Available[category]
}

// Total returns the total capacity across categories
func (p Pool) Total() int {
	total := 0
	for _, n := range p.Capacity {
		total += n
	}
	return total
}

// Empty reports whether the pool has no capacity at all
func (p Pool) Empty() bool {
	return p.Total() == 0
}

// Categories returns the categories with capacity in ascending order
func (p Pool) Categories() []int {
	out := make([]int, 0, len(p.Capacity))
	for category, n := range p.Capacity {
		if n > 0 {
			out = append(out, category)
		}
	}
	sort.Ints(out)
	return out
}

// Expand lists the available units in ascending order, one entry per unit.
// Three level-1 slots and a level-2 slot expand to [1 1 1 2].
func (p Pool) Expand() []int {
	var out []int
	for _, category := range p.Categories() {
		for i := 0; i < p.Available[category]; i++ {
			out = append(out, category)
		}
	}
	return out
}

// PreparedSlot is one cantrip or prepared-spell slot. An empty SpellID is a
// free slot.
type PreparedSlot struct {
	SpellID        string `json:"spell_id,omitempty"`
	AlwaysPrepared bool   `json:"always_prepared,omitempty"`
}

// SpellInfo is the spellcasting state for one class
type SpellInfo struct {
	Class         string         `json:"class"`
	Ability       Ability        `json:"ability"`
	MaxSpellLevel int            `json:"max_spell_level"`
	Cantrips      []PreparedSlot `json:"cantrips"`
	Prepared      []PreparedSlot `json:"prepared"`
	// Known is the spellbook. It is nil for classes that prepare from their
	// full list.
	Known []string `json:"known,omitempty"`
}

// Slots returns the slot list for a kind
func (s *SpellInfo) Slots(kind SlotKind) []PreparedSlot {
	if kind == SlotKindCantrip {
		return s.Cantrips
	}
	return s.Prepared
}

// FindPrepared returns the slot holding spellID for a kind
func (s *SpellInfo) FindPrepared(kind SlotKind, spellID string) (PreparedSlot, bool) {
	for _, slot := range s.Slots(kind) {
		if slot.SpellID == spellID {
			return slot, true
		}
	}
	return PreparedSlot{}, false
}

// FreeSlots counts empty slots of a kind
func (s *SpellInfo) FreeSlots(kind SlotKind) int {
	free := 0
	for _, slot := range s.Slots(kind) {
		if slot.SpellID == "" {
			free++
		}
	}
	return free
}

// KnowsSpell reports whether spellID is in the spellbook
func (s *SpellInfo) KnowsSpell(spellID string) bool {
	for _, id := range s.Known {
		if id == spellID {
			return true
		}
	}
	return false
}

// Snapshot is the derived current state of a character
type Snapshot struct {
	Character         *Character               `json:"character"`
	Classes           []ClassLevel             `json:"classes"`
	TotalLevel        int                      `json:"total_level"`
	ProficiencyBonus  int                      `json:"proficiency_bonus"`
	Abilities         map[Ability]AbilityScore `json:"abilities"`
	Skills            map[Skill]SkillValue     `json:"skills"`
	ArmorClass        int                      `json:"armor_class"`
	Initiative        int                      `json:"initiative"`
	PassivePerception int                      `json:"passive_perception"`
	HitPoints         HitPoints                `json:"hit_points"`
	HitDice           Pool                     `json:"hit_dice"`
	SpellSlots        Pool                     `json:"spell_slots"`
	PactSlots         Pool                     `json:"pact_slots"`
	Spellcasting      []SpellInfo              `json:"spellcasting,omitempty"`
	Traits            []Trait                  `json:"traits"`
	Coins             Coins                    `json:"coins"`
	Items             []Item                   `json:"items,omitempty"`
	// ArcaneRecoveryAvailable is false once Arcane Recovery has been used
	// since the last long rest.
	ArcaneRecoveryAvailable bool `json:"arcane_recovery_available"`
}

// ClassLevel returns the level entry for a class
func (s *Snapshot) ClassLevel(class string) (ClassLevel, bool) {
	for _, cl := range s.Classes {
		if cl.Class == class {
			return cl, true
		}
	}
	return ClassLevel{}, false
}

// SpellInfo returns the spellcasting info for a class
func (s *Snapshot) SpellInfo(class string) (*SpellInfo, bool) {
	for i := range s.Spellcasting {
		if s.Spellcasting[i].Class == class {
			return &s.Spellcasting[i], true
		}
	}
	return nil, false
}

// Item returns a carried item by id
func (s *Snapshot) Item(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Modifier returns an ability modifier
func (s *Snapshot) Modifier(ability Ability) int {
	return s.Abilities[ability].Modifier
}

// AbilityModifier computes floor((score-10)/2)
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 && diff%2 != 0 {
		return diff/2 - 1
	}
	return diff / 2
}

// ProficiencyBonus returns the bonus for a total character level
func ProficiencyBonus(totalLevel int) int {
	if totalLevel < 1 {
		return 2
	}
	return (totalLevel-1)/4 + 2
}

// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/replay"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/testutils"
)

// CharacterBuilder provides a fluent interface for building a character
// together with the ledger payloads that describe its history
type CharacterBuilder struct {
	character *dnd5e.Character
	payloads  []ledger.Payload
	levels    map[string]int
}

// NewCharacterBuilder creates a builder with a default character and no
// records
func NewCharacterBuilder() *CharacterBuilder {
	return &CharacterBuilder{
		character: testutils.CreateTestCharacter(""),
		levels:    map[string]int{},
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.character.ID = id
	return b
}

// WithOrigin sets species, lineage and background
func (b *CharacterBuilder) WithOrigin(species, lineage, background string) *CharacterBuilder {
	b.character.Species = species
	b.character.Lineage = lineage
	b.character.Background = background
	return b
}

// WithAbilities sets all six scores in sheet order
func (b *CharacterBuilder) WithAbilities(str, dex, con, intel, wis, cha int) *CharacterBuilder {
	for i, score := range []int{str, dex, con, intel, wis, cha} {
		b.payloads = append(b.payloads, ledger.AbilityPayload{Ability: dnd5e.Abilities[i], Score: score})
	}
	return b
}

// WithAbility sets one score and its saving throw proficiency
func (b *CharacterBuilder) WithAbility(ability dnd5e.Ability, score int, proficient bool) *CharacterBuilder {
	b.payloads = append(b.payloads, ledger.AbilityPayload{Ability: ability, Score: score, Proficient: proficient})
	return b
}

// WithSkill sets a skill proficiency
func (b *CharacterBuilder) WithSkill(skill dnd5e.Skill, p dnd5e.Proficiency) *CharacterBuilder {
	b.payloads = append(b.payloads, ledger.SkillPayload{Skill: skill, Proficiency: p})
	return b
}

// WithClass adds levels in a class. The subclass, when set, is recorded on
// every added level. Each level gets the matching roll, or 1 when rolls run
// out.
func (b *CharacterBuilder) WithClass(class string, levels int, subclass string, rolls ...int) *CharacterBuilder {
	for i := 0; i < levels; i++ {
		roll := 1
		if i < len(rolls) {
			roll = rolls[i]
		}
		b.levels[class]++
		b.payloads = append(b.payloads, ledger.ClassLevelPayload{
			Class:      class,
			Level:      b.levels[class],
			Subclass:   subclass,
			HitDieRoll: roll,
		})
	}
	return b
}

// WithSlotUse spends a spell slot
func (b *CharacterBuilder) WithSlotUse(level int, pact bool) *CharacterBuilder {
	b.payloads = append(b.payloads, ledger.SpellSlotPayload{Level: level, Pact: pact, Action: replay.ActionUse})
	return b
}

// WithPrepared prepares a spell for a class
func (b *CharacterBuilder) WithPrepared(class, spellID string, kind dnd5e.SlotKind) *CharacterBuilder {
	b.payloads = append(b.payloads, ledger.SpellPreparedPayload{
		Class:    class,
		SpellID:  spellID,
		SlotKind: kind,
		Action:   ledger.SpellPrepare,
	})
	return b
}

// WithKnown adds a spell to a class spellbook
func (b *CharacterBuilder) WithKnown(class, spellID string) *CharacterBuilder {
	b.payloads = append(b.payloads, ledger.SpellKnownPayload{Class: class, SpellID: spellID, Action: ledger.SpellLearn})
	return b
}

// WithHitPoints records a hit point change
func (b *CharacterBuilder) WithHitPoints(delta int) *CharacterBuilder {
	b.payloads = append(b.payloads, ledger.HitPointsPayload{Delta: delta})
	return b
}

// WithItem adds an item, optionally equipped
func (b *CharacterBuilder) WithItem(item ledger.ItemPayload, equipped bool) *CharacterBuilder {
	b.payloads = append(b.payloads, item)
	if equipped {
		b.payloads = append(b.payloads, ledger.ItemEquipPayload{ItemID: item.ItemID, Equipped: true})
	}
	return b
}

// WithPayloads appends arbitrary payloads
func (b *CharacterBuilder) WithPayloads(payloads ...ledger.Payload) *CharacterBuilder {
	b.payloads = append(b.payloads, payloads...)
	return b
}

// Build returns the character
func (b *CharacterBuilder) Build() *dnd5e.Character {
	c := *b.character
	return &c
}

// Records returns unsaved records for every payload added so far
func (b *CharacterBuilder) Records() []*ledger.Record {
	records, err := ledger.NewRecords(b.payloads...)
	if err != nil {
		panic(err)
	}
	return records
}

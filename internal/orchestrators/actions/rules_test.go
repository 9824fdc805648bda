package actions_test

import (
	"math"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/orchestrators/actions"
	"github.com/KirkDiggler/rpg-tracker/internal/replay"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
	"github.com/KirkDiggler/rpg-tracker/internal/testutils/builders"
)

// scribeWizard adds a wizard subclass that keeps shield prepared from
// level 3
const scribeWizard = `
classes:
  - id: wizard
    name: Wizard
    hit_die: 6
    subclass_level: 3
    spellcasting:
      kind: full
      ability: int
      spellbook: true
      cantrips: [3, 3, 3, 4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5]
      prepared: [4, 5, 6, 7, 9, 10, 11, 12, 14, 15, 16, 16, 17, 18, 19, 21, 22, 23, 24, 25]
    subclasses:
      - id: scribe
        name: Scribe
        always_prepared:
          - { level: 3, spells: [shield] }
`

func useDie(size int) ledger.Payload {
	return ledger.HitDiePayload{DieSize: size, Action: replay.ActionUse}
}

func restoreDie(size int) ledger.Payload {
	return ledger.HitDiePayload{DieSize: size, Action: replay.ActionRestore}
}

func useSlot(level int) ledger.Payload {
	return ledger.SpellSlotPayload{Level: level, Action: replay.ActionUse}
}

func restoreSlot(level int, pact bool) ledger.Payload {
	return ledger.SpellSlotPayload{Level: level, Pact: pact, Action: replay.ActionRestore}
}

func (s *OrchestratorTestSuite) TestCastSpell() {
	s.Run("upcasting spends only the higher slot", func() {
		id := s.given(wizard(3, "evoker").
			WithKnown("wizard", "magic-missile").
			WithPrepared("wizard", "magic-missile", dnd5e.SlotKindLeveled))
		s.expectAppend(id,
			useSlot(2),
			ledger.SpellCastPayload{Class: "wizard", SpellID: "magic-missile", SlotLevel: 2},
		)

		result := s.perform(id, actions.NameCastSpell, map[string]string{
			"class":      "wizard",
			"spell_id":   "magic-missile",
			"slot_level": "2",
		})

		s.True(result.Complete)
		s.Equal("Cast Magic Missile with a level 2 slot", result.Summary)
	})
	s.Run("slot below the spell level", func() {
		id := s.given(wizard(3, "evoker").
			WithKnown("wizard", "misty-step").
			WithPrepared("wizard", "misty-step", dnd5e.SlotKindLeveled))

		result := s.perform(id, actions.NameCastSpell, map[string]string{
			"class":      "wizard",
			"spell_id":   "misty-step",
			"slot_level": "1",
		})

		s.False(result.Complete)
		s.Contains(result.Errors["slot_level"], "level 2 or higher")
	})
	s.Run("no slot left", func() {
		id := s.given(wizard(1, "").
			WithKnown("wizard", "shield").
			WithPrepared("wizard", "shield", dnd5e.SlotKindLeveled).
			WithSlotUse(1, false).
			WithSlotUse(1, false))

		result := s.perform(id, actions.NameCastSpell, map[string]string{
			"class":      "wizard",
			"spell_id":   "shield",
			"slot_level": "1",
		})

		s.Equal("no level 1 slots available", result.Errors["slot_level"])
	})
	s.Run("unprepared spell", func() {
		id := s.given(wizard(1, "").WithKnown("wizard", "shield"))

		result := s.perform(id, actions.NameCastSpell, map[string]string{
			"class":      "wizard",
			"spell_id":   "shield",
			"slot_level": "1",
		})

		s.Equal("Shield is not prepared for Wizard", result.Errors["spell_id"])
	})
	s.Run("ritual from the spellbook", func() {
		id := s.given(wizard(1, "").WithKnown("wizard", "detect-magic"))
		s.expectAppend(id, ledger.SpellCastPayload{Class: "wizard", SpellID: "detect-magic", Ritual: true})

		result := s.perform(id, actions.NameCastSpell, map[string]string{
			"class":    "wizard",
			"spell_id": "detect-magic",
			"ritual":   "true",
		})

		s.True(result.Complete)
		s.Equal("Cast Detect Magic as a ritual", result.Summary)
	})
	s.Run("cantrips take no slot", func() {
		id := s.given(wizard(1, "").WithPrepared("wizard", "fire-bolt", dnd5e.SlotKindCantrip))

		result := s.perform(id, actions.NameCastSpell, map[string]string{
			"class":      "wizard",
			"spell_id":   "fire-bolt",
			"slot_level": "1",
		})

		s.Contains(result.Errors["slot_level"], "without a slot")
	})
	s.Run("pact slot level is fixed", func() {
		id := s.given(warlock3().WithPrepared("warlock", "hex", dnd5e.SlotKindLeveled))
		s.expectAppend(id,
			ledger.SpellSlotPayload{Level: 2, Pact: true, Action: replay.ActionUse},
			ledger.SpellCastPayload{Class: "warlock", SpellID: "hex", SlotLevel: 2, Pact: true},
		)

		result := s.perform(id, actions.NameCastSpell, map[string]string{
			"class":    "warlock",
			"spell_id": "hex",
			"pact":     "true",
		})

		s.True(result.Complete)
	})
	s.Run("unknown spell", func() {
		id := s.given(wizard(1, ""))

		result := s.perform(id, actions.NameCastSpell, map[string]string{
			"class":      "wizard",
			"spell_id":   "meteor-storm",
			"slot_level": "1",
		})

		s.Equal("unknown spell meteor-storm", result.Errors["spell_id"])
	})
}

func (s *OrchestratorTestSuite) TestPrepareSpell() {
	s.Run("already prepared by another class names it", func() {
		id := s.given(wizard(1, "").
			WithClass("cleric", 1, "", 5).
			WithKnown("wizard", "detect-magic").
			WithPrepared("cleric", "detect-magic", dnd5e.SlotKindLeveled))

		result := s.perform(id, actions.NamePrepareSpell, map[string]string{
			"class":    "wizard",
			"spell_id": "detect-magic",
		})

		s.False(result.Complete)
		s.Equal("Detect Magic is already prepared for cleric", result.Errors["spell_id"])
	})
	s.Run("replace swaps in one append", func() {
		id := s.given(wizard(1, "").
			WithKnown("wizard", "magic-missile").
			WithKnown("wizard", "shield").
			WithPrepared("wizard", "magic-missile", dnd5e.SlotKindLeveled))
		s.expectAppend(id,
			ledger.SpellPreparedPayload{Class: "wizard", SpellID: "magic-missile", SlotKind: dnd5e.SlotKindLeveled, Action: ledger.SpellUnprepare},
			ledger.SpellPreparedPayload{Class: "wizard", SpellID: "shield", SlotKind: dnd5e.SlotKindLeveled, Action: ledger.SpellPrepare},
		)

		result := s.perform(id, actions.NamePrepareSpell, map[string]string{
			"class":            "wizard",
			"spell_id":         "shield",
			"current_spell_id": "magic-missile",
		})

		s.True(result.Complete)
	})
	s.Run("spellbook casters prepare only known spells", func() {
		id := s.given(wizard(1, ""))

		result := s.perform(id, actions.NamePrepareSpell, map[string]string{
			"class":    "wizard",
			"spell_id": "shield",
		})

		s.Equal("Shield is not in the spellbook", result.Errors["spell_id"])
	})
	s.Run("above the preparable level", func() {
		id := s.given(lifeCleric3())

		result := s.perform(id, actions.NamePrepareSpell, map[string]string{
			"class":    "cleric",
			"spell_id": "spirit-guardians",
		})

		s.Contains(result.Errors["spell_id"], "up to level 2")
	})
	s.Run("always prepared spells cannot be swapped out", func() {
		id := s.given(lifeCleric3())

		result := s.perform(id, actions.NamePrepareSpell, map[string]string{
			"class":            "cleric",
			"spell_id":         "guiding-bolt",
			"current_spell_id": "bless",
		})

		s.Equal("bless is always prepared", result.Errors["current_spell_id"])
	})
	s.Run("no free slots", func() {
		b := builders.NewCharacterBuilder().WithClass("cleric", 1, "", 8)
		for _, id := range []string{"bless", "cure-wounds", "guiding-bolt", "healing-word"} {
			b.WithPrepared("cleric", id, dnd5e.SlotKindLeveled)
		}
		id := s.given(b)

		result := s.perform(id, actions.NamePrepareSpell, map[string]string{
			"class":    "cleric",
			"spell_id": "shield-of-faith",
		})

		s.Equal("no free leveled slots for Cleric", result.Errors["spell_id"])
	})
}

func (s *OrchestratorTestSuite) TestSpellbook() {
	s.Run("learn", func() {
		id := s.given(wizard(1, ""))
		s.expectAppend(id, ledger.SpellKnownPayload{Class: "wizard", SpellID: "sleep", Action: ledger.SpellLearn})

		result := s.perform(id, actions.NameLearnSpell, map[string]string{"class": "wizard", "spell_id": "sleep"})
		s.True(result.Complete)
	})
	s.Run("learn needs a spellbook class", func() {
		id := s.given(lifeCleric3())

		result := s.perform(id, actions.NameLearnSpell, map[string]string{"class": "cleric", "spell_id": "bless"})
		s.Equal("Cleric does not keep a spellbook", result.Errors["class"])
	})
	s.Run("learn rejects cantrips", func() {
		id := s.given(wizard(1, ""))

		result := s.perform(id, actions.NameLearnSpell, map[string]string{"class": "wizard", "spell_id": "light"})
		s.Contains(result.Errors["spell_id"], "cantrips")
	})
	s.Run("forget unprepares in the same append", func() {
		id := s.given(wizard(1, "").
			WithKnown("wizard", "sleep").
			WithPrepared("wizard", "sleep", dnd5e.SlotKindLeveled))
		s.expectAppend(id,
			ledger.SpellPreparedPayload{Class: "wizard", SpellID: "sleep", SlotKind: dnd5e.SlotKindLeveled, Action: ledger.SpellUnprepare},
			ledger.SpellKnownPayload{Class: "wizard", SpellID: "sleep", Action: ledger.SpellForget},
		)

		result := s.perform(id, actions.NameForgetSpell, map[string]string{"class": "wizard", "spell_id": "sleep"})
		s.True(result.Complete)
	})
	s.Run("forgetting an always prepared spell keeps it prepared", func() {
		book, err := rules.Load(strings.NewReader(scribeWizard))
		s.Require().NoError(err)
		s.useBook(book)

		id := s.given(wizard(3, "scribe").WithKnown("wizard", "shield"))
		s.expectAppend(id, ledger.SpellKnownPayload{Class: "wizard", SpellID: "shield", Action: ledger.SpellForget})

		result := s.perform(id, actions.NameForgetSpell, map[string]string{"class": "wizard", "spell_id": "shield"})
		s.True(result.Complete)
		s.Equal("Remove shield from the Wizard spellbook", result.Summary)

		id = s.given(wizard(3, "scribe").
			WithKnown("wizard", "shield").
			WithPayloads(ledger.SpellKnownPayload{Class: "wizard", SpellID: "shield", Action: ledger.SpellForget}))
		out, err := s.orchestrator.GetSnapshot(s.ctx, &tracker.GetSnapshotInput{CharacterID: id})
		s.Require().NoError(err)
		info, ok := out.Snapshot.SpellInfo("wizard")
		s.Require().True(ok)
		s.False(info.KnowsSpell("shield"))
		slot, ok := info.FindPrepared(dnd5e.SlotKindLeveled, "shield")
		s.True(ok)
		s.True(slot.AlwaysPrepared)
	})
	s.Run("unprepare needs a prepared spell", func() {
		id := s.given(wizard(1, ""))

		result := s.perform(id, actions.NameUnprepareSpell, map[string]string{"class": "wizard", "spell_id": "sleep"})
		s.Equal("sleep is not prepared for Wizard", result.Errors["spell_id"])
	})
}

func (s *OrchestratorTestSuite) TestRests() {
	s.Run("long rest restores half the dice largest first", func() {
		id := s.given(wizard(2, "").
			WithClass("fighter", 2, "", 10, 6).
			WithPayloads(useDie(10), useDie(6), useDie(10)).
			WithHitPoints(-5).
			WithSlotUse(1, false))
		s.expectAppend(id,
			ledger.HitPointsPayload{Delta: 5},
			restoreDie(10),
			restoreDie(10),
			restoreSlot(1, false),
			ledger.RestPayload{Type: ledger.RestLong},
		)

		result := s.perform(id, actions.NameLongRest, nil)

		s.True(result.Complete)
		s.Equal("Long rest: regain 5 hit points; regain 2 hit dice; regain 1 spell slots", result.Summary)
	})
	s.Run("long rest restores at least one die", func() {
		id := s.given(wizard(1, "").WithPayloads(useDie(6)))
		s.expectAppend(id, restoreDie(6), ledger.RestPayload{Type: ledger.RestLong})

		s.True(s.perform(id, actions.NameLongRest, nil).Complete)
	})
	s.Run("short rest spends dice and restores pact slots", func() {
		id := s.given(warlock3().
			WithHitPoints(-10).
			WithSlotUse(2, true))
		s.expectAppend(id,
			useDie(8),
			ledger.HitPointsPayload{Delta: 5},
			restoreSlot(2, true),
			ledger.RestPayload{Type: ledger.RestShort},
		)

		result := s.perform(id, actions.NameShortRest, map[string]string{
			"hit_dice": "8",
			"rolls":    "4",
		})

		s.True(result.Complete)
	})
	s.Run("short rest needs a roll per die", func() {
		id := s.given(fighter())

		result := s.perform(id, actions.NameShortRest, map[string]string{
			"hit_dice": "10,10",
			"rolls":    "4",
		})

		s.Contains(result.Errors["rolls"], "one roll for each")
	})
	s.Run("arcane recovery", func() {
		id := s.given(wizard(3, "").WithSlotUse(1, false).WithSlotUse(1, false))
		s.expectAppend(id,
			restoreSlot(1, false),
			restoreSlot(1, false),
			ledger.RestPayload{Type: ledger.RestShort, ArcaneRecovery: true},
		)

		s.True(s.perform(id, actions.NameShortRest, map[string]string{"recover_slots": "1,1"}).Complete)
	})
	s.Run("arcane recovery budget", func() {
		id := s.given(wizard(3, "").WithSlotUse(1, false).WithSlotUse(2, false))

		result := s.perform(id, actions.NameShortRest, map[string]string{"recover_slots": "1,2"})
		s.Equal("slot levels add up to 3, Arcane Recovery allows 2", result.Errors["recover_slots"])
	})
	s.Run("arcane recovery once per long rest", func() {
		id := s.given(wizard(3, "").
			WithSlotUse(1, false).
			WithPayloads(ledger.RestPayload{Type: ledger.RestShort, ArcaneRecovery: true}))

		result := s.perform(id, actions.NameShortRest, map[string]string{"recover_slots": "1"})
		s.Contains(result.Errors["recover_slots"], "already used")
	})
}

func (s *OrchestratorTestSuite) TestHitPoints() {
	s.Run("huge heal stops at the maximum", func() {
		id := s.given(fighter().WithHitPoints(-3))
		s.expectAppend(id, ledger.HitPointsPayload{Delta: 3})

		result := s.perform(id, actions.NameChangeHitPoints, map[string]string{"delta": strconv.Itoa(math.MaxInt)})
		s.True(result.Complete)
		s.Equal("Heal 3 hit points (20/20)", result.Summary)
	})
	s.Run("huge damage stops at zero", func() {
		id := s.given(fighter().WithHitPoints(-3))
		s.expectAppend(id, ledger.HitPointsPayload{Delta: -17})

		result := s.perform(id, actions.NameChangeHitPoints, map[string]string{"delta": strconv.Itoa(math.MinInt)})
		s.True(result.Complete)
		s.Equal("Take 17 damage (0/20)", result.Summary)
	})
}

func (s *OrchestratorTestSuite) TestHitDice() {
	s.Run("gain is capped at the headroom", func() {
		id := s.given(fighter().WithHitPoints(-3))
		s.expectAppend(id, useDie(10), ledger.HitPointsPayload{Delta: 3})

		result := s.perform(id, actions.NameUseHitDie, map[string]string{"die_size": "10", "roll": "9"})
		s.Equal("Spend a d10 hit die and regain 3 hit points", result.Summary)
	})
	s.Run("roll within the die", func() {
		id := s.given(fighter().WithHitPoints(-3))

		result := s.perform(id, actions.NameUseHitDie, map[string]string{"die_size": "10", "roll": "11"})
		s.Contains(result.Errors, "roll")
	})
	s.Run("die size must be held", func() {
		id := s.given(fighter())

		result := s.perform(id, actions.NameUseHitDie, map[string]string{"die_size": "12", "is_check": "true"})
		s.Equal("no d12 hit dice", result.Errors["die_size"])
	})
	s.Run("restore needs a spent die", func() {
		id := s.given(fighter())

		result := s.perform(id, actions.NameRestoreHitDie, map[string]string{"die_size": "10"})
		s.Equal("no spent d10 hit dice", result.Errors["die_size"])
	})
}

func (s *OrchestratorTestSuite) TestAddLevel() {
	s.Run("subclass is required at the grant level", func() {
		id := s.given(wizard(2, ""))

		result := s.perform(id, actions.NameAddLevel, map[string]string{
			"class":        "wizard",
			"level":        "3",
			"hit_die_roll": "4",
		})
		s.Equal("choose a Wizard subclass at level 3", result.Errors["subclass"])
	})
	s.Run("subclass is recorded", func() {
		id := s.given(wizard(2, ""))
		s.expectAppend(id, ledger.ClassLevelPayload{Class: "wizard", Level: 3, Subclass: "evoker", HitDieRoll: 4})

		result := s.perform(id, actions.NameAddLevel, map[string]string{
			"class":        "wizard",
			"level":        "3",
			"hit_die_roll": "4",
			"subclass":     "evoker",
		})
		s.Equal("Gain Wizard level 3 (Evoker)", result.Summary)
	})
	s.Run("subclass cannot change", func() {
		id := s.given(wizard(3, "evoker"))

		result := s.perform(id, actions.NameAddLevel, map[string]string{
			"class":        "wizard",
			"level":        "4",
			"hit_die_roll": "4",
			"subclass":     "abjurer",
		})
		s.Equal("subclass is already evoker", result.Errors["subclass"])
	})
	s.Run("new class starts at level 1", func() {
		id := s.given(wizard(2, ""))

		result := s.perform(id, actions.NameAddLevel, map[string]string{
			"class":        "cleric",
			"level":        "3",
			"hit_die_roll": "9",
		})
		s.Equal("next Cleric level is 1", result.Errors["level"])
		s.Equal("must be between 1 and 8", result.Errors["hit_die_roll"])
	})
	s.Run("level cap", func() {
		id := s.given(builders.NewCharacterBuilder().WithClass("fighter", 20, "champion"))

		result := s.perform(id, actions.NameAddLevel, map[string]string{"class": "wizard", "is_check": "true"})
		s.Equal("already at level 20", result.Errors["class"])
	})
}

func (s *OrchestratorTestSuite) TestAbilitiesAndSkills() {
	s.Run("one record carries score and proficiency", func() {
		id := s.given(fighter())
		s.expectAppend(id, ledger.AbilityPayload{Ability: dnd5e.AbilityStrength, Score: 16, Proficient: true})

		result := s.perform(id, actions.NameChangeAbility, map[string]string{"ability": "str", "proficient": "true"})
		s.Equal("Set STR to 16 with saving throw proficiency", result.Summary)
	})
	s.Run("something must change", func() {
		id := s.given(fighter())

		result := s.perform(id, actions.NameChangeAbility, map[string]string{"ability": "str", "score": "16"})
		s.Equal("STR is already 16", result.Errors["ability"])
	})
	s.Run("score or proficiency needed on commit", func() {
		id := s.given(fighter())

		result := s.perform(id, actions.NameChangeAbility, map[string]string{"ability": "str"})
		s.Contains(result.Errors, "score")
	})
	s.Run("score range", func() {
		id := s.given(fighter())

		result := s.perform(id, actions.NameChangeAbility, map[string]string{"ability": "dex", "score": "31"})
		s.Equal("must be between 1 and 30", result.Errors["score"])
	})
	s.Run("skill must change", func() {
		id := s.given(fighter().WithSkill(dnd5e.SkillAthletics, dnd5e.ProficiencyProficient))

		result := s.perform(id, actions.NameChangeSkill, map[string]string{"skill": "athletics", "proficiency": "proficient"})
		s.Equal("athletics is already proficient", result.Errors["proficiency"])
	})
}

func (s *OrchestratorTestSuite) TestInventory() {
	chain := ledger.ItemPayload{ItemID: "item_chain", Name: "Chain Mail", Kind: dnd5e.ItemKindArmor, BaseAC: 16}
	scale := ledger.ItemPayload{ItemID: "item_scale", Name: "Scale Mail", Kind: dnd5e.ItemKindArmor, BaseAC: 14, DexCap: 2}
	wand := ledger.ItemPayload{ItemID: "item_wand", Name: "Wand", Kind: dnd5e.ItemKindGear, MaxCharges: 3}

	s.Run("coins keep omitted denominations", func() {
		id := s.given(fighter().WithPayloads(ledger.CoinsPayload{Coins: dnd5e.Coins{GP: 10, SP: 4}}))
		s.expectAppend(id, ledger.CoinsPayload{Coins: dnd5e.Coins{GP: 25, SP: 4}})

		s.True(s.perform(id, actions.NameChangeCoins, map[string]string{"gp": "25"}).Complete)
	})
	s.Run("coins cannot go negative", func() {
		id := s.given(fighter())

		result := s.perform(id, actions.NameChangeCoins, map[string]string{"cp": "-1"})
		s.Equal("must not be negative", result.Errors["cp"])
	})
	s.Run("armor defaults to an uncapped DEX bonus", func() {
		id := s.given(fighter())
		s.expectAppend(id, ledger.ItemPayload{ItemID: "item_1", Name: "Leather", Kind: dnd5e.ItemKindArmor, BaseAC: 11, DexCap: -1})

		s.True(s.perform(id, actions.NameAddItem, map[string]string{"name": "Leather", "kind": "armor", "base_ac": "11"}).Complete)
	})
	s.Run("check passes do not take item ids", func() {
		input := map[string]string{"name": "Rope", "is_check": "true"}
		for i := 0; i < 3; i++ {
			id := s.given(fighter())
			result := s.perform(id, actions.NameAddItem, input)
			s.Empty(result.Errors)
		}

		id := s.given(fighter())
		s.expectAppend(id, ledger.ItemPayload{ItemID: "item_2", Name: "Rope", Kind: dnd5e.ItemKindGear})

		s.True(s.perform(id, actions.NameAddItem, map[string]string{"name": "Rope"}).Complete)
	})
	s.Run("one armor at a time", func() {
		id := s.given(fighter().WithItem(chain, true).WithItem(scale, false))

		result := s.perform(id, actions.NameEquipItem, map[string]string{"item_id": "item_scale"})
		s.Equal("unequip Chain Mail first", result.Errors["item_id"])
	})
	s.Run("unequip needs an equipped item", func() {
		id := s.given(fighter().WithItem(scale, false))

		result := s.perform(id, actions.NameUnequipItem, map[string]string{"item_id": "item_scale"})
		s.Equal("Scale Mail is not equipped", result.Errors["item_id"])
	})
	s.Run("charges", func() {
		id := s.given(fighter().WithItem(wand, false))
		s.expectAppend(id, ledger.ItemChargePayload{ItemID: "item_wand", Delta: -2})

		s.True(s.perform(id, actions.NameUseItemCharge, map[string]string{"item_id": "item_wand", "count": "2"}).Complete)
	})
	s.Run("not enough charges", func() {
		id := s.given(fighter().WithItem(wand, false).WithPayloads(ledger.ItemChargePayload{ItemID: "item_wand", Delta: -2}))

		result := s.perform(id, actions.NameUseItemCharge, map[string]string{"item_id": "item_wand", "count": "2"})
		s.Equal("Wand has 1 charges left", result.Errors["count"])
	})
	s.Run("restore needs spent charges", func() {
		id := s.given(fighter().WithItem(wand, false))

		result := s.perform(id, actions.NameRestoreItemCharge, map[string]string{"item_id": "item_wand"})
		s.Equal("Wand has 0 charges spent", result.Errors["count"])
	})
}

func (s *OrchestratorTestSuite) TestTraitsAndSlots() {
	s.Run("trait defaults to feat", func() {
		id := s.given(fighter())
		s.expectAppend(id, ledger.TraitPayload{Trait: dnd5e.Trait{Name: "Alert", Source: dnd5e.TraitSourceFeat}})

		s.True(s.perform(id, actions.NameAddTrait, map[string]string{"name": "Alert"}).Complete)
	})
	s.Run("duplicate trait", func() {
		id := s.given(fighter().WithPayloads(ledger.TraitPayload{Trait: dnd5e.Trait{Name: "Alert", Source: dnd5e.TraitSourceFeat}}))

		result := s.perform(id, actions.NameAddTrait, map[string]string{"name": "alert"})
		s.Contains(result.Errors["name"], "already has Alert")
	})
	s.Run("use a slot", func() {
		id := s.given(wizard(1, ""))
		s.expectAppend(id, useSlot(1))

		s.True(s.perform(id, actions.NameUseSpellSlot, map[string]string{"level": "1"}).Complete)
	})
	s.Run("restore needs a spent slot", func() {
		id := s.given(wizard(1, ""))

		result := s.perform(id, actions.NameRestoreSpellSlot, map[string]string{"level": "1"})
		s.Equal("no spent level 1 spell slots", result.Errors["level"])
	})
}

func warlock3() *builders.CharacterBuilder {
	return builders.NewCharacterBuilder().
		WithAbilities(8, 14, 12, 10, 10, 16).
		WithClass("warlock", 3, "fiend-patron", 8, 5, 5)
}

func lifeCleric3() *builders.CharacterBuilder {
	return builders.NewCharacterBuilder().
		WithAbilities(10, 10, 14, 10, 16, 10).
		WithClass("cleric", 3, "life-domain", 8, 5, 5)
}

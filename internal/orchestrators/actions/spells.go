package actions

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/replay"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

const fieldCurrentSpellID = "current_spell_id"

func castSpell() Action {
	return &definition{
		name:        NameCastSpell,
		description: "Cast a prepared spell, spending a slot unless it is a cantrip or ritual",
		schema: Schema{
			classField(),
			spellField(),
			{Name: "slot_level", Type: FieldInt, Description: "Slot level to cast at, at least the spell's level"},
			{Name: "ritual", Type: FieldBool, Description: "Cast as a ritual without a slot"},
			{Name: "pact", Type: FieldBool, Description: "Use a pact magic slot"},
		},
		validate: func(ctx context.Context, env *Env, c *Check) (*Effect, error) {
			class, info, hasClass := caster(env, c)
			sp, err := spell(ctx, env, c)
			if err != nil {
				return nil, err
			}
			if sp == nil {
				return nil, nil
			}

			ritual := c.Bool("ritual")
			if ritual && !sp.Ritual {
				c.Fail("ritual", "%s is not a ritual", sp.Name)
			}
			if hasClass {
				checkCastable(c, class, info, sp, ritual)
			}

			noSlot := sp.Level == 0 || ritual
			pact := c.Bool("pact")
			slotLevel := c.Int("slot_level")
			switch {
			case noSlot:
				if c.Has("slot_level") {
					c.Fail("slot_level", "%s is cast without a slot", sp.Name)
				}
				if pact {
					c.Fail("pact", "%s is cast without a slot", sp.Name)
				}
				slotLevel = 0
			case pact:
				slotLevel = checkPactSlot(env.Snapshot, c, sp)
			case c.Has("slot_level"):
				checkSlot(env.Snapshot, c, sp, slotLevel)
			default:
				c.Require("slot_level", "choose a slot level of at least %d", sp.Level)
			}

			effect := &Effect{}
			if !noSlot {
				effect.Payloads = append(effect.Payloads, ledger.SpellSlotPayload{
					Level:  slotLevel,
					Pact:   pact,
					Action: replay.ActionUse,
				})
			}
			effect.Payloads = append(effect.Payloads, ledger.SpellCastPayload{
				Class:     c.String(fieldClass),
				SpellID:   sp.ID,
				SlotLevel: slotLevel,
				Pact:      pact,
				Ritual:    ritual,
			})

			switch {
			case ritual:
				effect.Summary = fmt.Sprintf("Cast %s as a ritual", sp.Name)
			case noSlot:
				effect.Summary = fmt.Sprintf("Cast %s", sp.Name)
			case pact:
				effect.Summary = fmt.Sprintf("Cast %s with a level %d pact slot", sp.Name, slotLevel)
			default:
				effect.Summary = fmt.Sprintf("Cast %s with a level %d slot", sp.Name, slotLevel)
			}
			return effect, nil
		},
	}
}

// checkCastable requires the spell to be on the class list and either
// prepared or a known ritual in a spellbook
func checkCastable(c *Check, class *rules.Class, info *dnd5e.SpellInfo, sp *rules.Spell, ritual bool) {
	if !sp.OnList(class.SpellList()) {
		c.Fail(fieldSpellID, "%s is not on the %s spell list", sp.Name, class.Name)
		return
	}
	if _, ok := info.FindPrepared(dnd5e.SlotKindForLevel(sp.Level), sp.ID); ok {
		return
	}
	if ritual && sp.Ritual && class.HasSpellbook() && info.KnowsSpell(sp.ID) {
		return
	}
	c.Fail(fieldSpellID, "%s is not prepared for %s", sp.Name, class.Name)
}

func checkSlot(snap *dnd5e.Snapshot, c *Check, sp *rules.Spell, slotLevel int) {
	if slotLevel < sp.Level {
		c.Fail("slot_level", "%s needs a slot of level %d or higher", sp.Name, sp.Level)
		return
	}
	if snap.SpellSlots.Available[slotLevel] <= 0 {
		c.Fail("slot_level", "no level %d slots available", slotLevel)
	}
}

// checkPactSlot validates a pact cast and returns the pact slot level
func checkPactSlot(snap *dnd5e.Snapshot, c *Check, sp *rules.Spell) int {
	level := pactSlotLevel(snap)
	if level == 0 {
		c.Fail("pact", "no pact magic slots")
		return 0
	}
	if c.Has("slot_level") && c.Int("slot_level") != level {
		c.Fail("slot_level", "pact slots are level %d", level)
	}
	if level < sp.Level {
		c.Fail("pact", "pact slots are level %d, %s needs %d", level, sp.Name, sp.Level)
		return level
	}
	if snap.PactSlots.Available[level] <= 0 {
		c.Fail("pact", "no pact slots available")
	}
	return level
}

func prepareSpell() Action {
	return &definition{
		name:        NamePrepareSpell,
		description: "Prepare a spell or cantrip, optionally replacing one already prepared",
		schema: Schema{
			classField(),
			spellField(),
			{Name: fieldCurrentSpellID, Type: FieldString, Description: "Prepared spell to swap out"},
		},
		validate: func(ctx context.Context, env *Env, c *Check) (*Effect, error) {
			class, info, hasClass := caster(env, c)
			sp, err := spell(ctx, env, c)
			if err != nil {
				return nil, err
			}
			current := c.String(fieldCurrentSpellID)
			if c.Has(fieldSpellID, fieldCurrentSpellID) && current == c.String(fieldSpellID) {
				c.Fail(fieldCurrentSpellID, "must differ from the spell being prepared")
			}
			if sp == nil || !hasClass {
				return nil, nil
			}

			kind := dnd5e.SlotKindForLevel(sp.Level)
			switch {
			case !sp.OnList(class.SpellList()):
				c.Fail(fieldSpellID, "%s is not on the %s spell list", sp.Name, class.Name)
			case kind == dnd5e.SlotKindLeveled && sp.Level > info.MaxSpellLevel:
				c.Fail(fieldSpellID, "%s can prepare spells up to level %d", class.Name, info.MaxSpellLevel)
			case kind == dnd5e.SlotKindLeveled && class.HasSpellbook() && !info.KnowsSpell(sp.ID):
				c.Fail(fieldSpellID, "%s is not in the spellbook", sp.Name)
			}

			for i := range env.Snapshot.Spellcasting {
				other := &env.Snapshot.Spellcasting[i]
				if _, ok := other.FindPrepared(kind, sp.ID); ok {
					c.Fail(fieldSpellID, "%s is already prepared for %s", sp.Name, other.Class)
					break
				}
			}

			if c.Has(fieldCurrentSpellID) {
				slot, ok := info.FindPrepared(kind, current)
				switch {
				case !ok:
					c.Fail(fieldCurrentSpellID, "%s is not a prepared %s for %s", current, kind, class.Name)
				case slot.AlwaysPrepared:
					c.Fail(fieldCurrentSpellID, "%s is always prepared", current)
				}
			} else if info.FreeSlots(kind) == 0 {
				c.Fail(fieldSpellID, "no free %s slots for %s", kind, class.Name)
			}

			effect := &Effect{Summary: fmt.Sprintf("Prepare %s for %s", sp.Name, class.Name)}
			if c.Has(fieldCurrentSpellID) {
				effect.Payloads = append(effect.Payloads, ledger.SpellPreparedPayload{
					Class:    class.ID,
					SpellID:  current,
					SlotKind: kind,
					Action:   ledger.SpellUnprepare,
				})
				effect.Summary = fmt.Sprintf("Prepare %s for %s in place of %s", sp.Name, class.Name, current)
			}
			effect.Payloads = append(effect.Payloads, ledger.SpellPreparedPayload{
				Class:    class.ID,
				SpellID:  sp.ID,
				SlotKind: kind,
				Action:   ledger.SpellPrepare,
			})
			return effect, nil
		},
	}
}

func unprepareSpell() Action {
	return &definition{
		name:        NameUnprepareSpell,
		description: "Unprepare a spell or cantrip, freeing its slot",
		schema:      Schema{classField(), spellField()},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			class, info, hasClass := caster(env, c)
			if !hasClass || !c.Has(fieldSpellID) {
				return nil, nil
			}
			id := c.String(fieldSpellID)

			kind := dnd5e.SlotKindLeveled
			slot, ok := info.FindPrepared(kind, id)
			if !ok {
				kind = dnd5e.SlotKindCantrip
				slot, ok = info.FindPrepared(kind, id)
			}
			switch {
			case !ok:
				c.Fail(fieldSpellID, "%s is not prepared for %s", id, class.Name)
			case slot.AlwaysPrepared:
				c.Fail(fieldSpellID, "%s is always prepared", id)
			}

			return &Effect{
				Payloads: []ledger.Payload{ledger.SpellPreparedPayload{
					Class:    class.ID,
					SpellID:  id,
					SlotKind: kind,
					Action:   ledger.SpellUnprepare,
				}},
				Summary: fmt.Sprintf("Unprepare %s for %s", id, class.Name),
			}, nil
		},
	}
}

func learnSpell() Action {
	return &definition{
		name:        NameLearnSpell,
		description: "Copy a spell into a spellbook",
		schema:      Schema{classField(), spellField()},
		validate: func(ctx context.Context, env *Env, c *Check) (*Effect, error) {
			class, info, hasClass := caster(env, c)
			if hasClass && !class.HasSpellbook() {
				c.Fail(fieldClass, "%s does not keep a spellbook", class.Name)
				hasClass = false
			}
			sp, err := spell(ctx, env, c)
			if err != nil {
				return nil, err
			}
			if sp == nil || !hasClass {
				return nil, nil
			}

			switch {
			case sp.Level == 0:
				c.Fail(fieldSpellID, "cantrips are not kept in a spellbook")
			case !sp.OnList(class.SpellList()):
				c.Fail(fieldSpellID, "%s is not on the %s spell list", sp.Name, class.Name)
			case sp.Level > info.MaxSpellLevel:
				c.Fail(fieldSpellID, "%s can learn spells up to level %d", class.Name, info.MaxSpellLevel)
			case info.KnowsSpell(sp.ID):
				c.Fail(fieldSpellID, "%s is already in the spellbook", sp.Name)
			}

			return &Effect{
				Payloads: []ledger.Payload{ledger.SpellKnownPayload{
					Class:   class.ID,
					SpellID: sp.ID,
					Action:  ledger.SpellLearn,
				}},
				Summary: fmt.Sprintf("Add %s to the %s spellbook", sp.Name, class.Name),
			}, nil
		},
	}
}

func forgetSpell() Action {
	return &definition{
		name:        NameForgetSpell,
		description: "Remove a spell from a spellbook, unpreparing it if needed",
		schema:      Schema{classField(), spellField()},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			class, info, hasClass := caster(env, c)
			if !hasClass || !c.Has(fieldSpellID) {
				return nil, nil
			}
			id := c.String(fieldSpellID)
			if !info.KnowsSpell(id) {
				c.Fail(fieldSpellID, "%s is not in the %s spellbook", id, class.Name)
			}

			effect := &Effect{Summary: fmt.Sprintf("Remove %s from the %s spellbook", id, class.Name)}
			if slot, ok := info.FindPrepared(dnd5e.SlotKindLeveled, id); ok && !slot.AlwaysPrepared {
				effect.Payloads = append(effect.Payloads, ledger.SpellPreparedPayload{
					Class:    class.ID,
					SpellID:  id,
					SlotKind: dnd5e.SlotKindLeveled,
					Action:   ledger.SpellUnprepare,
				})
				effect.Summary += " and unprepare it"
			}
			effect.Payloads = append(effect.Payloads, ledger.SpellKnownPayload{
				Class:   class.ID,
				SpellID: id,
				Action:  ledger.SpellForget,
			})
			return effect, nil
		},
	}
}

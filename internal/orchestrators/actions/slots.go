package actions

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/replay"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
)

func slotFields() Schema {
	return Schema{
		{Name: "level", Type: FieldInt, Required: true, Description: "Slot level"},
		{Name: "pact", Type: FieldBool, Description: "Use the pact magic pool"},
	}
}

func slotPool(snap *dnd5e.Snapshot, pact bool) (dnd5e.Pool, string) {
	if pact {
		return snap.PactSlots, "pact"
	}
	return snap.SpellSlots, "spell"
}

func useSpellSlot() Action {
	return &definition{
		name:        NameUseSpellSlot,
		description: "Spend a spell slot without casting a tracked spell",
		schema:      slotFields(),
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			if !c.Has("level") {
				return nil, nil
			}
			level := c.Int("level")
			pact := c.Bool("pact")
			pool, label := slotPool(env.Snapshot, pact)
			if pool.Available[level] <= 0 {
				c.Fail("level", "no level %d %s slots available", level, label)
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.SpellSlotPayload{Level: level, Pact: pact, Action: replay.ActionUse}},
				Summary:  fmt.Sprintf("Spend a level %d %s slot", level, label),
			}, nil
		},
	}
}

func restoreSpellSlot() Action {
	return &definition{
		name:        NameRestoreSpellSlot,
		description: "Regain a spent spell slot",
		schema:      slotFields(),
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			if !c.Has("level") {
				return nil, nil
			}
			level := c.Int("level")
			pact := c.Bool("pact")
			pool, label := slotPool(env.Snapshot, pact)
			if pool.Used(level) <= 0 {
				c.Fail("level", "no spent level %d %s slots", level, label)
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.SpellSlotPayload{Level: level, Pact: pact, Action: replay.ActionRestore}},
				Summary:  fmt.Sprintf("Regain a level %d %s slot", level, label),
			}, nil
		},
	}
}

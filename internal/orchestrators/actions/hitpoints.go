package actions

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/replay"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
)

func changeHitPoints() Action {
	return &definition{
		name:        NameChangeHitPoints,
		description: "Heal (positive) or damage (negative) current hit points",
		schema: Schema{
			{Name: "delta", Type: FieldInt, Required: true, Description: "Hit points gained or lost"},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			if !c.Has("delta") {
				return nil, nil
			}
			hp := env.Snapshot.HitPoints
			delta := c.Int("delta")
			switch {
			case delta == 0:
				c.Fail("delta", "must not be zero")
			case delta > 0 && hp.Current >= hp.Max:
				c.Fail("delta", "already at maximum hit points")
			case delta < 0 && hp.Current <= 0:
				c.Fail("delta", "already at 0 hit points")
			}

			// Clamp before adding so huge deltas cannot overflow
			applied := clamp(delta, -hp.Current, hp.Max-hp.Current)
			after := hp.Current + applied
			summary := fmt.Sprintf("Heal %d hit points (%d/%d)", applied, after, hp.Max)
			if applied < 0 {
				summary = fmt.Sprintf("Take %d damage (%d/%d)", -applied, after, hp.Max)
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.HitPointsPayload{Delta: applied}},
				Summary:  summary,
			}, nil
		},
	}
}

// checkDieAvailable records a violation unless a die of size can be spent
func checkDieAvailable(snap *dnd5e.Snapshot, c *Check, field string, size, wanted int) bool {
	if snap.HitDice.Capacity[size] == 0 {
		c.Fail(field, "no d%d hit dice", size)
		return false
	}
	if snap.HitDice.Available[size] < wanted {
		c.Fail(field, "only %d d%d hit dice available", snap.HitDice.Available[size], size)
		return false
	}
	return true
}

func useHitDie() Action {
	return &definition{
		name:        NameUseHitDie,
		description: "Spend a hit die and regain hit points",
		schema: Schema{
			{Name: "die_size", Type: FieldInt, Required: true, Description: "Hit die size, e.g. 8"},
			{Name: "roll", Type: FieldInt, Required: true, Description: "The hit die roll"},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			snap := env.Snapshot
			size := c.Int("die_size")
			if c.Has("die_size") {
				checkDieAvailable(snap, c, "die_size", size, 1)
			}
			if c.Has("roll") {
				roll := c.Int("roll")
				if roll < 1 || (c.Has("die_size") && roll > size) {
					c.Fail("roll", "must be between 1 and the die size")
				}
			}
			if !c.Has("die_size", "roll") {
				return nil, nil
			}

			gain := hitDieGain(c.Int("roll"), snap.Modifier(dnd5e.AbilityConstitution))
			if headroom := snap.HitPoints.Headroom(); gain > headroom {
				gain = headroom
			}
			payloads := []ledger.Payload{ledger.HitDiePayload{DieSize: size, Action: replay.ActionUse}}
			if gain > 0 {
				payloads = append(payloads, ledger.HitPointsPayload{Delta: gain})
			}
			return &Effect{
				Payloads: payloads,
				Summary:  fmt.Sprintf("Spend a d%d hit die and regain %d hit points", size, gain),
			}, nil
		},
	}
}

func restoreHitDie() Action {
	return &definition{
		name:        NameRestoreHitDie,
		description: "Regain a spent hit die",
		schema: Schema{
			{Name: "die_size", Type: FieldInt, Required: true, Description: "Hit die size, e.g. 8"},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			if !c.Has("die_size") {
				return nil, nil
			}
			size := c.Int("die_size")
			if env.Snapshot.HitDice.Used(size) <= 0 {
				c.Fail("die_size", "no spent d%d hit dice", size)
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.HitDiePayload{DieSize: size, Action: replay.ActionRestore}},
				Summary:  fmt.Sprintf("Regain a d%d hit die", size),
			}, nil
		},
	}
}

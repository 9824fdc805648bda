package actions

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/replay"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
)

const (
	arcaneRecoveryClass    = "wizard"
	arcaneRecoveryMaxLevel = 5
)

func shortRest() Action {
	return &definition{
		name:        NameShortRest,
		description: "Take a short rest, spending hit dice and optionally using Arcane Recovery",
		schema: Schema{
			{Name: "hit_dice", Type: FieldIntList, Description: "Die sizes to spend, e.g. 8,8,6"},
			{Name: "rolls", Type: FieldIntList, Description: "One roll per die, in the same order"},
			{Name: "recover_slots", Type: FieldIntList, Description: "Slot levels to recover with Arcane Recovery, e.g. 2,1"},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			snap := env.Snapshot
			dice := c.Ints("hit_dice")
			rolls := c.Ints("rolls")

			if c.Has("hit_dice") {
				wanted := counts(dice)
				for _, size := range sortedCategories(wanted) {
					if !checkDieAvailable(snap, c, "hit_dice", size, wanted[size]) {
						break
					}
				}
			}
			switch {
			case c.Has("hit_dice", "rolls"):
				if len(dice) != len(rolls) {
					c.Fail("rolls", "need one roll for each of the %d hit dice", len(dice))
					break
				}
				for i, roll := range rolls {
					if roll < 1 || roll > dice[i] {
						c.Fail("rolls", "roll %d must be between 1 and %d", i+1, dice[i])
						break
					}
				}
			case c.Has("hit_dice") && len(dice) > 0:
				c.Require("rolls", "need one roll for each of the %d hit dice", len(dice))
			case c.Has("rolls") && len(rolls) > 0:
				c.Fail("hit_dice", "rolls given without hit dice")
			}

			recovered := c.Ints("recover_slots")
			if len(recovered) > 0 {
				checkArcaneRecovery(snap, c, recovered)
			}

			var payloads []ledger.Payload
			var parts []string

			gain := 0
			headroom := snap.HitPoints.Headroom()
			conMod := snap.Modifier(dnd5e.AbilityConstitution)
			for i, size := range dice {
				payloads = append(payloads, ledger.HitDiePayload{DieSize: size, Action: replay.ActionUse})
				if i < len(rolls) {
					gain += hitDieGain(rolls[i], conMod)
				}
			}
			if gain > headroom {
				gain = headroom
			}
			if gain > 0 {
				payloads = append(payloads, ledger.HitPointsPayload{Delta: gain})
			}
			if len(dice) > 0 {
				parts = append(parts, fmt.Sprintf("spend %s for %d hit points", describeCounts("d", counts(dice)), gain))
			}

			for _, level := range recovered {
				payloads = append(payloads, ledger.SpellSlotPayload{Level: level, Action: replay.ActionRestore})
			}
			if len(recovered) > 0 {
				parts = append(parts, fmt.Sprintf("recover slots %s", joinInts(recovered)))
			}

			pact := restoreAll(snap.PactSlots, true)
			payloads = append(payloads, pact...)
			if len(pact) > 0 {
				parts = append(parts, fmt.Sprintf("regain %d pact slots", len(pact)))
			}

			payloads = append(payloads, ledger.RestPayload{Type: ledger.RestShort, ArcaneRecovery: len(recovered) > 0})

			summary := "Short rest"
			if len(parts) > 0 {
				summary += ": " + strings.Join(parts, "; ")
			}
			return &Effect{Payloads: payloads, Summary: summary}, nil
		},
	}
}

func checkArcaneRecovery(snap *dnd5e.Snapshot, c *Check, levels []int) {
	wizard, ok := snap.ClassLevel(arcaneRecoveryClass)
	if !ok {
		c.Fail("recover_slots", "Arcane Recovery needs wizard levels")
		return
	}
	if !snap.ArcaneRecoveryAvailable {
		c.Fail("recover_slots", "Arcane Recovery was already used since the last long rest")
		return
	}

	budget := (wizard.Level + 1) / 2
	total := 0
	for _, level := range levels {
		if level < 1 || level > arcaneRecoveryMaxLevel {
			c.Fail("recover_slots", "slot levels must be between 1 and %d", arcaneRecoveryMaxLevel)
			return
		}
		total += level
	}
	if total > budget {
		c.Fail("recover_slots", "slot levels add up to %d, Arcane Recovery allows %d", total, budget)
		return
	}
	wanted := counts(levels)
	for _, level := range sortedCategories(wanted) {
		if used := snap.SpellSlots.Used(level); wanted[level] > used {
			c.Fail("recover_slots", "only %d level %d slots are spent", used, level)
			return
		}
	}
}

func longRest() Action {
	return &definition{
		name:        NameLongRest,
		description: "Take a long rest, regaining hit points, half the hit dice and all spell slots",
		schema:      Schema{},
		validate: func(_ context.Context, env *Env, _ *Check) (*Effect, error) {
			snap := env.Snapshot
			var payloads []ledger.Payload
			var parts []string

			if headroom := snap.HitPoints.Headroom(); headroom > 0 {
				payloads = append(payloads, ledger.HitPointsPayload{Delta: headroom})
				parts = append(parts, fmt.Sprintf("regain %d hit points", headroom))
			}

			dice := restoreHitDice(snap.HitDice)
			payloads = append(payloads, dice...)
			if len(dice) > 0 {
				parts = append(parts, fmt.Sprintf("regain %d hit dice", len(dice)))
			}

			slots := restoreAll(snap.SpellSlots, false)
			pact := restoreAll(snap.PactSlots, true)
			payloads = append(payloads, slots...)
			payloads = append(payloads, pact...)
			if n := len(slots) + len(pact); n > 0 {
				parts = append(parts, fmt.Sprintf("regain %d spell slots", n))
			}

			payloads = append(payloads, ledger.RestPayload{Type: ledger.RestLong})

			summary := "Long rest"
			if len(parts) > 0 {
				summary += ": " + strings.Join(parts, "; ")
			}
			return &Effect{Payloads: payloads, Summary: summary}, nil
		},
	}
}

// restoreHitDice regains half the total hit dice, at least one, taking the
// largest spent dice first
func restoreHitDice(pool dnd5e.Pool) []ledger.Payload {
	remaining := pool.Total() / 2
	if remaining < 1 {
		remaining = 1
	}

	sizes := pool.Categories()
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	var out []ledger.Payload
	for _, size := range sizes {
		for used := pool.Used(size); used > 0 && remaining > 0; used-- {
			out = append(out, ledger.HitDiePayload{DieSize: size, Action: replay.ActionRestore})
			remaining--
		}
	}
	return out
}

// restoreAll regains every spent slot of a pool
func restoreAll(pool dnd5e.Pool, pact bool) []ledger.Payload {
	var out []ledger.Payload
	for _, level := range pool.Categories() {
		for used := pool.Used(level); used > 0; used-- {
			out = append(out, ledger.SpellSlotPayload{Level: level, Pact: pact, Action: replay.ActionRestore})
		}
	}
	return out
}

func joinInts(list []int) string {
	parts := make([]string, len(list))
	for i, n := range list {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}

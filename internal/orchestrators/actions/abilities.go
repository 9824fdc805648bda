package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
)

const (
	minAbilityScore = 1
	maxAbilityScore = 30
)

func changeAbility() Action {
	return &definition{
		name:        NameChangeAbility,
		description: "Set an ability score and its saving throw proficiency",
		schema: Schema{
			{Name: "ability", Type: FieldEnum, Required: true, Enum: abilityEnum()},
			{Name: "score", Type: FieldInt, Description: "New score, 1 to 30"},
			{Name: "proficient", Type: FieldBool, Description: "Saving throw proficiency"},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			if c.Has("score") {
				if score := c.Int("score"); score < minAbilityScore || score > maxAbilityScore {
					c.Fail("score", "must be between %d and %d", minAbilityScore, maxAbilityScore)
				}
			}
			if !c.Has("score") && !c.Has("proficient") {
				c.Require("score", "set a score or a saving throw proficiency")
			}
			if !c.Has("ability") {
				return nil, nil
			}

			ability := dnd5e.Ability(c.String("ability"))
			current := env.Snapshot.Abilities[ability]
			score := c.IntOr("score", current.Score)
			proficient := c.BoolOr("proficient", current.Proficient)
			if (c.Has("score") || c.Has("proficient")) && score == current.Score && proficient == current.Proficient {
				c.Fail("ability", "%s is already %d", strings.ToUpper(string(ability)), score)
			}

			summary := fmt.Sprintf("Set %s to %d", strings.ToUpper(string(ability)), score)
			if proficient {
				summary += " with saving throw proficiency"
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.AbilityPayload{
					Ability:    ability,
					Score:      score,
					Proficient: proficient,
				}},
				Summary: summary,
			}, nil
		},
	}
}

func changeSkill() Action {
	return &definition{
		name:        NameChangeSkill,
		description: "Set a skill proficiency",
		schema: Schema{
			{Name: "skill", Type: FieldEnum, Required: true, Enum: skillEnum()},
			{Name: "proficiency", Type: FieldEnum, Required: true, Enum: proficiencyEnum()},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			if !c.Has("skill", "proficiency") {
				return nil, nil
			}
			skill := dnd5e.Skill(c.String("skill"))
			proficiency := dnd5e.Proficiency(c.String("proficiency"))
			if env.Snapshot.Skills[skill].Proficiency == proficiency {
				c.Fail("proficiency", "%s is already %s", skill, proficiency)
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.SkillPayload{Skill: skill, Proficiency: proficiency}},
				Summary:  fmt.Sprintf("Set %s proficiency to %s", skill, proficiency),
			}, nil
		},
	}
}

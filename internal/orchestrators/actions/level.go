package actions

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

func addLevel(book *rules.Book) Action {
	return &definition{
		name:        NameAddLevel,
		description: "Gain a level in a new or existing class",
		schema: Schema{
			{Name: fieldClass, Type: FieldEnum, Required: true, Enum: book.ClassIDs()},
			{Name: "level", Type: FieldInt, Required: true, Description: "The class level being reached"},
			{Name: "hit_die_roll", Type: FieldInt, Required: true, Description: "Hit die roll for the new level"},
			{Name: "subclass", Type: FieldString, Description: "Subclass id, required at the level it is chosen"},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			snap := env.Snapshot
			if snap.TotalLevel >= dnd5e.MaxLevel {
				c.Fail(fieldClass, "already at level %d", dnd5e.MaxLevel)
			}
			if c.Has("hit_die_roll") && c.Int("hit_die_roll") < 1 {
				c.Fail("hit_die_roll", "must be at least 1")
			}
			if !c.Has(fieldClass) {
				return nil, nil
			}

			class, ok := env.Rules.Class(c.String(fieldClass))
			if !ok {
				c.Fail(fieldClass, "unknown class %s", c.String(fieldClass))
				return nil, nil
			}
			held, _ := snap.ClassLevel(class.ID)
			next := held.Level + 1

			if c.Has("level") && c.Int("level") != next {
				c.Fail("level", "next %s level is %d", class.Name, next)
			}
			if c.Has("hit_die_roll") && c.Int("hit_die_roll") > class.HitDie {
				c.Fail("hit_die_roll", "must be between 1 and %d", class.HitDie)
			}

			subclass := checkSubclass(c, class, held, next)

			summary := fmt.Sprintf("Gain %s level %d", class.Name, next)
			if subclass != "" && held.Subclass == "" {
				if sub, ok := class.Subclass(subclass); ok {
					summary += fmt.Sprintf(" (%s)", sub.Name)
				}
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.ClassLevelPayload{
					Class:      class.ID,
					Level:      next,
					Subclass:   subclass,
					HitDieRoll: c.Int("hit_die_roll"),
				}},
				Summary: summary,
			}, nil
		},
	}
}

// checkSubclass applies the subclass rules for reaching level next and
// returns the subclass the new level carries
func checkSubclass(c *Check, class *rules.Class, held dnd5e.ClassLevel, next int) string {
	given := c.String("subclass")

	if held.Subclass != "" {
		if c.Has("subclass") && given != held.Subclass {
			c.Fail("subclass", "subclass is already %s", held.Subclass)
		}
		return held.Subclass
	}

	if class.SubclassLevel > 0 && next == class.SubclassLevel {
		if !c.Has("subclass") {
			c.Require("subclass", "choose a %s subclass at level %d", class.Name, next)
			return ""
		}
		if _, ok := class.Subclass(given); !ok {
			c.Fail("subclass", "unknown %s subclass %s", class.Name, given)
		}
		return given
	}

	if c.Has("subclass") {
		c.Fail("subclass", "%s chooses a subclass at level %d", class.Name, class.SubclassLevel)
	}
	return ""
}

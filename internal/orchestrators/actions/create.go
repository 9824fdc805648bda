package actions

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

const maxNameLength = 100

func createCharacter(book *rules.Book) Action {
	return &definition{
		name:        NameCreateCharacter,
		description: "Create a character from its origin choices",
		schema: Schema{
			{Name: "name", Type: FieldString, Required: true},
			{Name: "species", Type: FieldEnum, Required: true, Enum: book.SpeciesIDs()},
			{Name: "lineage", Type: FieldString, Description: "Required for species with lineages"},
			{Name: "background", Type: FieldEnum, Required: true, Enum: book.BackgroundIDs()},
			{Name: "alignment", Type: FieldEnum, Required: true, Enum: dnd5e.Alignments},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			if c.Has("name") && len(c.String("name")) > maxNameLength {
				c.Fail("name", "must be at most %d characters", maxNameLength)
			}

			if c.Has("species") {
				species, ok := env.Rules.SpeciesByID(c.String("species"))
				switch {
				case !ok:
					c.Fail("species", "unknown species %s", c.String("species"))
				case c.Has("lineage"):
					if _, ok := species.Lineage(c.String("lineage")); !ok {
						c.Fail("lineage", "%s has no lineage %s", species.Name, c.String("lineage"))
					}
				case len(species.Lineages) > 0:
					c.Require("lineage", "choose a %s lineage", species.Name)
				}
			} else if c.Has("lineage") {
				c.Require("species", "choose a species for the lineage")
			}

			if !c.Has("name", "species", "background", "alignment") {
				return nil, nil
			}

			character := &dnd5e.Character{
				ID:         env.IDs.Generate(),
				Name:       c.String("name"),
				Species:    c.String("species"),
				Lineage:    c.String("lineage"),
				Background: c.String("background"),
				Alignment:  c.String("alignment"),
				Ruleset:    env.Rules.Ruleset,
			}
			return &Effect{
				Character: character,
				Summary:   fmt.Sprintf("Create %s, a %s %s", character.Name, character.Species, character.Background),
			}, nil
		},
	}
}

package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
)

func addTrait() Action {
	return &definition{
		name:        NameAddTrait,
		description: "Record a feat or other trait not granted automatically",
		schema: Schema{
			{Name: "name", Type: FieldString, Required: true},
			{Name: "source", Type: FieldEnum, Enum: enumOf([]dnd5e.TraitSource{
				dnd5e.TraitSourceSpecies,
				dnd5e.TraitSourceLineage,
				dnd5e.TraitSourceBackground,
				dnd5e.TraitSourceClass,
				dnd5e.TraitSourceSubclass,
				dnd5e.TraitSourceFeat,
			}), Description: "Defaults to feat"},
			{Name: "source_detail", Type: FieldString},
			{Name: "level", Type: FieldInt, Description: "Level the trait was gained at"},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			source := dnd5e.TraitSource(c.String("source"))
			if source == "" {
				source = dnd5e.TraitSourceFeat
			}
			var level *int
			if c.Has("level") {
				n := c.Int("level")
				if n < 1 || n > dnd5e.MaxLevel {
					c.Fail("level", "must be between 1 and %d", dnd5e.MaxLevel)
				}
				level = &n
			}
			if !c.Has("name") {
				return nil, nil
			}

			name := c.String("name")
			for _, t := range env.Snapshot.Traits {
				if t.Source == source && strings.EqualFold(t.Name, name) {
					c.Fail("name", "%s already has %s from %s", env.Snapshot.Character.Name, t.Name, source)
					break
				}
			}

			return &Effect{
				Payloads: []ledger.Payload{ledger.TraitPayload{Trait: dnd5e.Trait{
					Name:         name,
					Source:       source,
					SourceDetail: c.String("source_detail"),
					Level:        level,
				}}},
				Summary: fmt.Sprintf("Add %s trait %s", source, name),
			}, nil
		},
	}
}

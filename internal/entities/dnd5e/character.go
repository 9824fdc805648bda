// Package dnd5e holds the character entities and derived snapshot types.
package dnd5e

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
)

// EntityType is the core.Entity type of a character
const EntityType = "character"

// Character is the identity and static choices of a character. It is
// written once and never changed by the engine.
type Character struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Species    string    `json:"species"`
	Lineage    string    `json:"lineage,omitempty"`
	Background string    `json:"background"`
	Alignment  string    `json:"alignment"`
	Ruleset    string    `json:"ruleset"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetID implements core.Entity
func (c *Character) GetID() string {
	return c.ID
}

// GetType implements core.Entity
func (c *Character) GetType() string {
	return EntityType
}

var _ core.Entity = (*Character)(nil)

// ClassLevel is the current level in one class
type ClassLevel struct {
	Class    string `json:"class"`
	Level    int    `json:"level"`
	Subclass string `json:"subclass,omitempty"`
}

// Trait is a feature granted by an origin, a class, or added explicitly
type Trait struct {
	Name         string      `json:"name"`
	Source       TraitSource `json:"source"`
	SourceDetail string      `json:"source_detail,omitempty"`
	Level        *int        `json:"level,omitempty"`
}

// Coins are coin totals by denomination
type Coins struct {
	CP int `json:"cp"`
	SP int `json:"sp"`
	EP int `json:"ep"`
	GP int `json:"gp"`
	PP int `json:"pp"`
}

// Item is a carried item and its current state
type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       ItemKind `json:"kind"`
	BaseAC     int      `json:"base_ac,omitempty"`
	DexCap     int      `json:"dex_cap,omitempty"`
	ACBonus    int      `json:"ac_bonus,omitempty"`
	MaxCharges int      `json:"max_charges,omitempty"`
	Charges    int      `json:"charges,omitempty"`
	Equipped   bool     `json:"equipped"`
}

package testutils

import (
	"time"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
)

const (
	// TestCharacterID is the default character id for test fixtures
	TestCharacterID = "char_test_001"

	// TestCharacterName is the default character name for test fixtures
	TestCharacterName = "Thorin Oakenshield"
)

// TestTime is a fixed timestamp for fixtures
var TestTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// CreateTestCharacter creates a character with sensible defaults
func CreateTestCharacter(id string) *dnd5e.Character {
	if id == "" {
		id = TestCharacterID
	}
	return &dnd5e.Character{
		ID:         id,
		Name:       TestCharacterName,
		Species:    "dwarf",
		Background: "soldier",
		Alignment:  "lawful_good",
		Ruleset:    "2024",
		CreatedAt:  TestTime,
	}
}

// StandardArray is 15, 14, 13, 12, 10, 8 in ability order
func StandardArray() map[dnd5e.Ability]int {
	return map[dnd5e.Ability]int{
		dnd5e.AbilityStrength:     15,
		dnd5e.AbilityDexterity:    14,
		dnd5e.AbilityConstitution: 13,
		dnd5e.AbilityIntelligence: 12,
		dnd5e.AbilityWisdom:       10,
		dnd5e.AbilityCharisma:     8,
	}
}

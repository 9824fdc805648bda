// Package tracker defines the interface for character tracking operations
package tracker

//go:generate mockgen -destination=mock/mock_service.go -package=trackermock github.com/KirkDiggler/rpg-tracker/internal/services/tracker Service

import (
	"context"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
)

// Service defines the interface for character tracking operations
type Service interface {
	// Character lifecycle
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)

	// GetSnapshot returns the derived current state of a character
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error)

	// Mutations
	PerformAction(ctx context.Context, input *PerformActionInput) (*PerformActionOutput, error)
	ListActions(ctx context.Context, input *ListActionsInput) (*ListActionsOutput, error)
}

// Sentinel input fields shared by every action
const (
	// FieldIsCheck selects check mode when true
	FieldIsCheck = "is_check"
)

// ActionResult is the outcome of running an action. Incomplete results carry
// the submitted values and field-keyed rule violations. Nothing is written
// unless Complete is true.
type ActionResult struct {
	Complete bool
	Values   map[string]string
	Errors   map[string]string
	Summary  string
}

// CreateCharacterInput defines the request for creating a character. Input
// is the flat form shape of the create_character action.
type CreateCharacterInput struct {
	Input map[string]string
}

// CreateCharacterOutput defines the response for creating a character.
// Character is set only when Result is complete.
type CreateCharacterOutput struct {
	Result    *ActionResult
	Character *dnd5e.Character
}

// ListCharactersInput defines the request for listing characters
type ListCharactersInput struct{}

// ListCharactersOutput defines the response for listing characters
type ListCharactersOutput struct {
	Characters []*dnd5e.Character
}

// GetSnapshotInput defines the request for a snapshot
type GetSnapshotInput struct {
	CharacterID string
}

// GetSnapshotOutput defines the response for a snapshot
type GetSnapshotOutput struct {
	Snapshot *dnd5e.Snapshot
}

// PerformActionInput defines the request for running an action
type PerformActionInput struct {
	CharacterID string
	Action      string
	Input       map[string]string
}

// PerformActionOutput defines the response for running an action
type PerformActionOutput struct {
	Result *ActionResult
}

// ListActionsInput defines the request for listing actions
type ListActionsInput struct{}

// ListActionsOutput describes every available action
type ListActionsOutput struct {
	Actions []ActionInfo
}

// ActionInfo describes one action and its input fields
type ActionInfo struct {
	Name        string
	Description string
	Fields      []FieldInfo
}

// FieldInfo describes one input field
type FieldInfo struct {
	Name        string
	Type        string
	Required    bool
	Enum        []string
	Description string
}

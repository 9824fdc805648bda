// Package v1alpha1 handles the grpc service interface
package v1alpha1

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	Service tracker.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Service == nil {
		return errors.InvalidArgument("tracker service is required")
	}
	return nil
}

// Handler implements the character service
type Handler struct {
	service tracker.Service
}

var _ CharacterServiceServer = (*Handler)(nil)

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		service: cfg.Service,
	}, nil
}

// CreateCharacter runs the create_character form
func (h *Handler) CreateCharacter(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input, err := formField(req, "input")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.service.CreateCharacter(ctx, &tracker.CreateCharacterInput{Input: input})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp := map[string]interface{}{"result": resultToMap(output.Result)}
	if output.Character != nil {
		resp["character"] = output.Character
	}
	return toStruct(resp)
}

// ListCharacters lists stored characters
func (h *Handler) ListCharacters(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	output, err := h.service.ListCharacters(ctx, &tracker.ListCharactersInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return toStruct(map[string]interface{}{"characters": output.Characters})
}

// GetSnapshot returns the derived state of a character
func (h *Handler) GetSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	characterID, err := requiredString(req, "character_id")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.service.GetSnapshot(ctx, &tracker.GetSnapshotInput{CharacterID: characterID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return toStruct(map[string]interface{}{"snapshot": output.Snapshot})
}

// PerformAction runs an action form against a character
func (h *Handler) PerformAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	vb := errors.NewValidationBuilder()
	characterID := req.GetFields()["character_id"].GetStringValue()
	if characterID == "" {
		vb.RequiredField("character_id")
	}
	action := req.GetFields()["action"].GetStringValue()
	if action == "" {
		vb.RequiredField("action")
	}
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	input, err := formField(req, "input")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.service.PerformAction(ctx, &tracker.PerformActionInput{
		CharacterID: characterID,
		Action:      action,
		Input:       input,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return toStruct(map[string]interface{}{"result": resultToMap(output.Result)})
}

// ListActions describes every action and its fields
func (h *Handler) ListActions(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	output, err := h.service.ListActions(ctx, &tracker.ListActionsInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return toStruct(map[string]interface{}{"actions": output.Actions})
}

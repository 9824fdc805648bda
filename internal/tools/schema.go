package tools

import (
	"github.com/KirkDiggler/rpg-tracker/internal/orchestrators/actions"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
)

// inputSchema renders an action's fields as a JSON schema object
func inputSchema(info tracker.ActionInfo) map[string]any {
	properties := map[string]any{}
	var required []string
	if info.Name != actions.NameCreateCharacter {
		properties[fieldCharacterID] = map[string]any{
			"type":        "string",
			"description": "The character to act on",
		}
		required = append(required, fieldCharacterID)
	}

	for _, f := range info.Fields {
		properties[f.Name] = fieldSchema(f)
		if f.Required && !autoRolled(info.Name, f.Name) {
			required = append(required, f.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func fieldSchema(f tracker.FieldInfo) map[string]any {
	var s map[string]any
	switch f.Type {
	case string(actions.FieldInt):
		s = map[string]any{"type": "integer"}
	case string(actions.FieldBool):
		s = map[string]any{"type": "boolean"}
	case string(actions.FieldEnum):
		s = map[string]any{"type": "string", "enum": f.Enum}
	case string(actions.FieldIntList):
		s = map[string]any{"type": "array", "items": map[string]any{"type": "integer"}}
	default:
		s = map[string]any{"type": "string"}
	}
	if f.Description != "" {
		s["description"] = f.Description
	}
	return s
}

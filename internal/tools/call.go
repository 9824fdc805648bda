package tools

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/orchestrators/actions"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
)

const fieldCharacterID = "character_id"

// call is one parsed tool invocation
type call struct {
	action      string
	characterID string
	fields      map[string]string
	rolled      map[string]string
}

func newCall(info tracker.ActionInfo, args map[string]any) (*call, error) {
	c := &call{
		action: info.Name,
		fields: map[string]string{},
		rolled: map[string]string{},
	}

	known := make(map[string]bool, len(info.Fields))
	for _, f := range info.Fields {
		known[f.Name] = true
	}

	vb := errors.NewValidationBuilder()
	for name, raw := range args {
		switch {
		case name == fieldCharacterID:
			if info.Name == actions.NameCreateCharacter {
				vb.Field(name, "not used when creating a character")
				continue
			}
			id, ok := raw.(string)
			if !ok {
				vb.Field(name, "must be a string")
				continue
			}
			c.characterID = strings.TrimSpace(id)
		case !known[name]:
			vb.Fieldf(name, "%s has no field %s", info.Name, name)
		default:
			value, ok := formValue(raw)
			if !ok {
				vb.Field(name, "must be a string, number, boolean or list of those")
				continue
			}
			if value != "" {
				c.fields[name] = value
			}
		}
	}
	if info.Name != actions.NameCreateCharacter && c.characterID == "" {
		vb.RequiredField(fieldCharacterID)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}
	return c, nil
}

// formValue renders a decoded JSON value the way form fields are typed in
func formValue(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", true
	case string:
		return value, true
	case bool:
		return strconv.FormatBool(value), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if _, nested := item.([]any); nested {
				return "", false
			}
			s, ok := formValue(item)
			if !ok || s == "" {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

func (c *call) form(checkOnly bool) map[string]string {
	form := make(map[string]string, len(c.fields)+1)
	for k, v := range c.fields {
		form[k] = v
	}
	if checkOnly {
		form[tracker.FieldIsCheck] = "true"
	}
	return form
}

func (c *call) set(name, value string) {
	c.fields[name] = value
	c.rolled[name] = value
}

// Describe is the one line request summary shown before anything runs
func (c *call) Describe() string {
	var b strings.Builder
	b.WriteString(c.action)
	if c.characterID != "" {
		fmt.Fprintf(&b, " for %s", c.characterID)
	}

	names := make([]string, 0, len(c.fields))
	for name := range c.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s", name, c.fields[name])
		if _, ok := c.rolled[name]; ok {
			b.WriteString(" (rolled)")
		}
	}
	return b.String()
}

func (c *call) result(r *tracker.ActionResult, characterID string) *ToolResult {
	out := &ToolResult{
		Request:     c.Describe(),
		Complete:    r.Complete,
		Values:      r.Values,
		Errors:      r.Errors,
		Summary:     r.Summary,
		CharacterID: characterID,
	}
	if len(c.rolled) > 0 {
		out.Rolled = c.rolled
	}
	return out
}

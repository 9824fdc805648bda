package actions

import (
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
)

// FieldType is how a raw string value is parsed
type FieldType string

// Field types
const (
	FieldInt     FieldType = "int"
	FieldString  FieldType = "string"
	FieldBool    FieldType = "bool"
	FieldEnum    FieldType = "enum"
	FieldIntList FieldType = "int_list"
)

// Field declares one input of an action
type Field struct {
	Name        string
	Type        FieldType
	Required    bool
	Enum        []string
	Description string
}

// Schema is the ordered input fields of an action
type Schema []Field

// Values are parsed inputs keyed by field name. Absent fields have no key.
type Values map[string]interface{}

// Parse converts raw input. Blank values count as absent. In partial mode
// missing required fields are allowed. Unparseable values are always an
// error.
func (s Schema) Parse(raw map[string]string, partial bool) (Values, error) {
	vb := errors.NewValidationBuilder()
	values := Values{}

	for _, f := range s {
		text := strings.TrimSpace(raw[f.Name])
		if text == "" {
			if f.Required && !partial {
				vb.RequiredField(f.Name)
			}
			continue
		}

		switch f.Type {
		case FieldInt:
			n, err := strconv.Atoi(text)
			if err != nil {
				vb.Fieldf(f.Name, "must be a whole number")
				continue
			}
			values[f.Name] = n
		case FieldBool:
			b, err := parseBool(text)
			if err != nil {
				vb.Fieldf(f.Name, "must be true or false")
				continue
			}
			values[f.Name] = b
		case FieldEnum:
			if !contains(f.Enum, text) {
				errors.ValidateEnum(f.Name, text, f.Enum, vb)
				continue
			}
			values[f.Name] = text
		case FieldIntList:
			list, err := parseIntList(text)
			if err != nil {
				vb.Fieldf(f.Name, "must be a comma separated list of whole numbers")
				continue
			}
			values[f.Name] = list
		default:
			values[f.Name] = text
		}
	}

	if err := vb.Build(); err != nil {
		return nil, err
	}
	return values, nil
}

// Info describes the schema for discovery
func (s Schema) Info() []tracker.FieldInfo {
	out := make([]tracker.FieldInfo, 0, len(s))
	for _, f := range s {
		out = append(out, tracker.FieldInfo{
			Name:        f.Name,
			Type:        string(f.Type),
			Required:    f.Required,
			Enum:        f.Enum,
			Description: f.Description,
		})
	}
	return out
}

// Names returns the field names in order
func (s Schema) Names() []string {
	out := make([]string, 0, len(s))
	for _, f := range s {
		out = append(out, f.Name)
	}
	return out
}

func parseBool(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(text)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func parseIntList(text string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// enumOf converts a string-kinded enum slice for schemas
func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// sortedEnum returns map keys of a string-kinded enum, sorted
func sortedEnum[T ~string, V any](m map[T]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

package v1alpha1

import (
	"encoding/json"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
)

func requiredString(req *structpb.Struct, name string) (string, error) {
	value := req.GetFields()[name].GetStringValue()
	if value == "" {
		return "", errors.NewValidationBuilder().RequiredField(name).Build()
	}
	return value, nil
}

// formField flattens a struct field into the string form actions parse.
// Numbers and bools are formatted, lists are comma joined, nulls are dropped.
func formField(req *structpb.Struct, name string) (map[string]string, error) {
	form := req.GetFields()[name].GetStructValue()
	out := make(map[string]string, len(form.GetFields()))

	vb := errors.NewValidationBuilder()
	for key, value := range form.GetFields() {
		if _, isNull := value.GetKind().(*structpb.Value_NullValue); isNull {
			continue
		}
		s, ok := formValue(value)
		if !ok {
			vb.Fieldf(name+"."+key, "unsupported value type")
			continue
		}
		out[key] = s
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}
	return out, nil
}

func formValue(v *structpb.Value) (string, bool) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, true
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64), true
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue), true
	case *structpb.Value_ListValue:
		parts := make([]string, 0, len(kind.ListValue.GetValues()))
		for _, item := range kind.ListValue.GetValues() {
			s, ok := formValue(item)
			if !ok {
				return "", false
			}
			if _, isList := item.GetKind().(*structpb.Value_ListValue); isList {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

func resultToMap(r *tracker.ActionResult) map[string]interface{} {
	if r == nil {
		return nil
	}
	out := map[string]interface{}{
		"complete": r.Complete,
		"summary":  r.Summary,
	}
	if r.Values != nil {
		out["values"] = r.Values
	}
	if r.Errors != nil {
		out["errors"] = r.Errors
	}
	return out
}

// toStruct converts through JSON so entity json tags shape the response
func toStruct(v map[string]interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	var generic map[string]interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	s, err := structpb.NewStruct(generic)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	return s, nil
}

package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
)

func TestSchemaParse(t *testing.T) {
	schema := Schema{
		{Name: "count", Type: FieldInt, Required: true},
		{Name: "flag", Type: FieldBool},
		{Name: "color", Type: FieldEnum, Enum: []string{"red", "blue"}},
		{Name: "dice", Type: FieldIntList},
		{Name: "note", Type: FieldString},
	}

	tests := []struct {
		name    string
		raw     map[string]string
		partial bool
		want    Values
		errOn   string
	}{
		{
			name: "every type",
			raw:  map[string]string{"count": " 3 ", "flag": "on", "color": "red", "dice": "8, 8,6", "note": "hi"},
			want: Values{"count": 3, "flag": true, "color": "red", "dice": []int{8, 8, 6}, "note": "hi"},
		},
		{
			name:    "blank is absent",
			raw:     map[string]string{"count": "", "note": "  "},
			partial: true,
			want:    Values{},
		},
		{
			name:  "required on full parse",
			raw:   map[string]string{},
			errOn: "count",
		},
		{
			name:    "bad int is structural even when partial",
			raw:     map[string]string{"count": "three"},
			partial: true,
			errOn:   "count",
		},
		{
			name:    "enum outside the list",
			raw:     map[string]string{"color": "green"},
			partial: true,
			errOn:   "color",
		},
		{
			name:    "bad list",
			raw:     map[string]string{"dice": "8,x"},
			partial: true,
			errOn:   "dice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.Parse(tt.raw, tt.partial)
			if tt.errOn != "" {
				require.Error(t, err)
				assert.True(t, errors.IsStructural(err))
				assert.Contains(t, errors.StructuralFields(err), tt.errOn)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckRequireOnlyWhenCommitting(t *testing.T) {
	check := NewCheck(nil, false)
	check.Require("score", "needed")
	assert.True(t, check.OK())

	commit := NewCheck(nil, true)
	commit.Require("score", "needed")
	commit.Fail("score", "second message is dropped")
	assert.Equal(t, map[string]string{"score": "needed"}, commit.Errors())
}

func TestIsCheck(t *testing.T) {
	got, err := isCheck(map[string]string{"is_check": "yes"})
	require.NoError(t, err)
	assert.True(t, got)

	got, err = isCheck(map[string]string{})
	require.NoError(t, err)
	assert.False(t, got)

	_, err = isCheck(map[string]string{"is_check": "maybe"})
	assert.True(t, errors.IsStructural(err))
}

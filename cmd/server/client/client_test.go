package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
)

func TestParseForm(t *testing.T) {
	form, err := parseForm([]string{"class=wizard", "spell_id=magic-missile", "note=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"class":    "wizard",
		"spell_id": "magic-missile",
		"note":     "a=b",
		"empty":    "",
	}, form)

	_, err = parseForm([]string{"class"})
	require.Error(t, err)
	assert.Contains(t, errors.StructuralFields(err), "class")
}

func TestCallErrorListsFields(t *testing.T) {
	grpcErr := errors.ToGRPCError(errors.NewValidationBuilder().RequiredField("character_id").Build())

	err := callError("act", grpcErr)
	assert.Contains(t, err.Error(), "character_id: is required")

	plain := callError("act", status.Error(codes.NotFound, "character with ID char_9 not found"))
	assert.Contains(t, plain.Error(), "char_9")
}

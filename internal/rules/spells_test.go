package rules_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

type staticSource struct {
	spells map[string]*rules.Spell
	err    error
}

func (s staticSource) Spell(_ context.Context, id string) (*rules.Spell, error) {
	if s.err != nil {
		return nil, s.err
	}
	if spell, ok := s.spells[id]; ok {
		return spell, nil
	}
	return nil, errors.NotFoundf("spell %s not found", id)
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	book, err := rules.Default()
	require.NoError(t, err)

	remote := staticSource{spells: map[string]*rules.Spell{
		"witch-bolt": {ID: "witch-bolt", Name: "Witch Bolt", Level: 1},
	}}
	chain := rules.Chain{book, remote}

	spell, err := chain.Spell(ctx, "fireball")
	require.NoError(t, err)
	assert.Equal(t, "Fireball", spell.Name)

	spell, err = chain.Spell(ctx, "witch-bolt")
	require.NoError(t, err)
	assert.True(t, spell.OnList("anything"), "remote spells without lists match every list")

	_, err = chain.Spell(ctx, "nope")
	assert.True(t, errors.IsNotFound(err))

	broken := rules.Chain{staticSource{err: fmt.Errorf("timeout")}, book}
	_, err = broken.Spell(ctx, "fireball")
	assert.EqualError(t, err, "timeout")
}

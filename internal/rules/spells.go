package rules

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
)

//go:generate mockgen -destination=mock/mock_spells.go -package=rulesmock github.com/KirkDiggler/rpg-tracker/internal/rules SpellSource

// SpellSource looks up spell definitions. Unknown spells return a NotFound
// error.
type SpellSource interface {
	Spell(ctx context.Context, id string) (*Spell, error)
}

// Chain tries each source in order and returns the first hit. NotFound from
// one source moves on to the next; any other error is returned.
type Chain []SpellSource

// Spell implements SpellSource
func (c Chain) Spell(ctx context.Context, id string) (*Spell, error) {
	for _, source := range c {
		spell, err := source.Spell(ctx, id)
		if err == nil {
			return spell, nil
		}
		if !errors.IsNotFound(err) {
			slog.ErrorContext(ctx, "spell lookup failed", "spell_id", id, "error", err)
			return nil, err
		}
	}
	return nil, errors.NotFoundf("spell %s not found", id)
}

// Package snapshot derives the current state of a character from its ledger.
package snapshot

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

// Config holds the dependencies for the snapshot builder
type Config struct {
	Ledger ledger.Repository
	Rules  *rules.Book
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	if c.Ledger == nil {
		vb.RequiredField("Ledger")
	}
	if c.Rules == nil {
		vb.RequiredField("Rules")
	}
	return vb.Build()
}

// Builder reads a character's ledger and derives a snapshot. It keeps no
// state between calls.
type Builder struct {
	ledger ledger.Repository
	rules  *rules.Book
}

// New creates a snapshot builder
func New(cfg *Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Builder{ledger: cfg.Ledger, rules: cfg.Rules}, nil
}

// Build returns the current snapshot of a character, or nil when the
// character does not exist. Ledger errors are returned unchanged.
func (b *Builder) Build(ctx context.Context, characterID string) (*dnd5e.Snapshot, error) {
	got, err := b.ledger.GetCharacter(ctx, ledger.GetCharacterInput{CharacterID: characterID})
	if err != nil {
		if errors.IsNotFound(err) {
			slog.DebugContext(ctx, "no snapshot for missing character", "character_id", characterID)
			return nil, nil
		}
		return nil, err
	}

	state := &State{
		Character: got.Character,
		Latest:    map[ledger.Kind]map[string]*ledger.Record{},
	}
	for _, kind := range []ledger.Kind{ledger.KindAbility, ledger.KindSkill, ledger.KindCoins} {
		latest, err := b.ledger.Latest(ctx, ledger.LatestInput{CharacterID: characterID, Kind: kind})
		if err != nil {
			return nil, err
		}
		state.Latest[kind] = latest.Records
	}

	history, err := b.ledger.List(ctx, ledger.ListInput{CharacterID: characterID, Kinds: replayedKinds})
	if err != nil {
		return nil, err
	}
	state.History = history.Records

	return Compute(b.rules, state)
}

// replayedKinds are read as full history
var replayedKinds = []ledger.Kind{
	ledger.KindHitPoints,
	ledger.KindHitDie,
	ledger.KindSpellSlot,
	ledger.KindSpellKnown,
	ledger.KindSpellPrepared,
	ledger.KindClassLevel,
	ledger.KindItem,
	ledger.KindItemEquip,
	ledger.KindItemCharge,
	ledger.KindTrait,
	ledger.KindRest,
}

package actions

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/observe"
	"github.com/KirkDiggler/rpg-tracker/internal/orchestrators/snapshot"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
)

// Config holds the dependencies for the actions orchestrator
type Config struct {
	Ledger    ledger.Repository
	Snapshots *snapshot.Builder
	Rules     *rules.Book
	// Spells defaults to the rules book
	Spells rules.SpellSource
	// CharacterIDs and ItemIDs default to prefixed uuids
	CharacterIDs idgen.Generator
	ItemIDs      idgen.Generator
	// Metrics defaults to the global meter provider
	Metrics *observe.Metrics
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
	if c.Snapshots == nil {
		vb.RequiredField("Snapshots")
	}
	if c.Rules == nil {
		vb.RequiredField("Rules")
	}
	return vb.Build()
}

// Orchestrator implements the tracker service
type Orchestrator struct {
	ledger       ledger.Repository
	snapshots    *snapshot.Builder
	rules        *rules.Book
	spells       rules.SpellSource
	characterIDs idgen.Generator
	itemIDs      idgen.Generator
	metrics      *observe.Metrics
	registry     *Registry
}

// New creates an actions orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	o := &Orchestrator{
		ledger:       cfg.Ledger,
		snapshots:    cfg.Snapshots,
		rules:        cfg.Rules,
		spells:       cfg.Spells,
		characterIDs: cfg.CharacterIDs,
		itemIDs:      cfg.ItemIDs,
		metrics:      cfg.Metrics,
		registry:     NewRegistry(cfg.Rules),
	}
	if o.spells == nil {
		o.spells = cfg.Rules
	}
	if o.characterIDs == nil {
		o.characterIDs = idgen.NewPrefixed("char")
	}
	if o.itemIDs == nil {
		o.itemIDs = idgen.NewPrefixed("item")
	}
	if o.metrics == nil {
		o.metrics = observe.DefaultMetrics()
	}
	return o, nil
}

var _ tracker.Service = (*Orchestrator)(nil)

// CreateCharacter runs the create_character action and stores the result
func (o *Orchestrator) CreateCharacter(ctx context.Context, input *tracker.CreateCharacterInput) (*tracker.CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	act, _ := o.registry.Lookup(NameCreateCharacter)
	env := &Env{Rules: o.rules, Spells: o.spells, IDs: o.characterIDs}
	result, effect, err := o.run(ctx, act, env, input.Input)
	if err != nil {
		return nil, err
	}
	if effect == nil {
		return &tracker.CreateCharacterOutput{Result: result}, nil
	}

	created, err := o.ledger.CreateCharacter(ctx, ledger.CreateCharacterInput{Character: effect.Character})
	if err != nil {
		o.metrics.RecordAction(ctx, act.Name(), observe.OutcomeFailed)
		return nil, errors.Wrap(err, "failed to create character")
	}
	o.metrics.RecordAction(ctx, act.Name(), observe.OutcomeCommitted)

	slog.InfoContext(ctx, "character created",
		"character_id", created.Character.ID,
		"name", created.Character.Name)

	return &tracker.CreateCharacterOutput{Result: result, Character: created.Character}, nil
}

// ListCharacters returns every stored character
func (o *Orchestrator) ListCharacters(ctx context.Context, _ *tracker.ListCharactersInput) (*tracker.ListCharactersOutput, error) {
	out, err := o.ledger.ListCharacters(ctx, ledger.ListCharactersInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	return &tracker.ListCharactersOutput{Characters: out.Characters}, nil
}

// GetSnapshot derives the current state of a character
func (o *Orchestrator) GetSnapshot(ctx context.Context, input *tracker.GetSnapshotInput) (*tracker.GetSnapshotOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	snap, err := o.snapshot(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}
	return &tracker.GetSnapshotOutput{Snapshot: snap}, nil
}

// PerformAction validates an action against a fresh snapshot and, unless
// in check mode or rejected, appends its records
func (o *Orchestrator) PerformAction(ctx context.Context, input *tracker.PerformActionInput) (*tracker.PerformActionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	act, ok := o.registry.Lookup(input.Action)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown action %q", input.Action)
	}
	if act.Name() == NameCreateCharacter {
		return nil, errors.InvalidArgument("characters are created with CreateCharacter")
	}

	snap, err := o.snapshot(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	env := &Env{Snapshot: snap, Rules: o.rules, Spells: o.spells, IDs: o.itemIDs}
	result, effect, err := o.run(ctx, act, env, input.Input)
	if err != nil {
		return nil, err
	}
	if effect == nil {
		return &tracker.PerformActionOutput{Result: result}, nil
	}

	records, err := ledger.NewRecords(effect.Payloads...)
	if err != nil {
		o.metrics.RecordAction(ctx, act.Name(), observe.OutcomeFailed)
		return nil, err
	}
	if _, err := o.ledger.Append(ctx, ledger.AppendInput{CharacterID: input.CharacterID, Records: records}); err != nil {
		o.metrics.RecordAction(ctx, act.Name(), observe.OutcomeFailed)
		return nil, errors.Wrapf(err, "failed to append %s records", act.Name())
	}
	o.metrics.RecordAction(ctx, act.Name(), observe.OutcomeCommitted)

	slog.InfoContext(ctx, "action committed",
		"character_id", input.CharacterID,
		"action", act.Name(),
		"records", len(records))

	return &tracker.PerformActionOutput{Result: result}, nil
}

// ListActions describes every action
func (o *Orchestrator) ListActions(_ context.Context, _ *tracker.ListActionsInput) (*tracker.ListActionsOutput, error) {
	all := o.registry.All()
	out := &tracker.ListActionsOutput{Actions: make([]tracker.ActionInfo, 0, len(all))}
	for _, act := range all {
		out.Actions = append(out.Actions, tracker.ActionInfo{
			Name:        act.Name(),
			Description: act.Description(),
			Fields:      act.Schema().Info(),
		})
	}
	return out, nil
}

func (o *Orchestrator) snapshot(ctx context.Context, characterID string) (*dnd5e.Snapshot, error) {
	if characterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	snap, err := o.snapshots.Build(ctx, characterID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build snapshot for %s", characterID)
	}
	if snap == nil {
		return nil, errors.NotFoundf("character with ID %s not found", characterID)
	}
	return snap, nil
}

// run executes the protocol and records every outcome except the final
// write, which the caller records
func (o *Orchestrator) run(ctx context.Context, act Action, env *Env, raw map[string]string) (*tracker.ActionResult, *Effect, error) {
	result, effect, err := Run(ctx, act, env, raw)
	switch {
	case err != nil:
		o.metrics.RecordAction(ctx, act.Name(), observe.OutcomeFailed)
		slog.DebugContext(ctx, "action failed", "action", act.Name(), "error", err)
		return nil, nil, err
	case result.Complete:
		return result, effect, nil
	case len(result.Errors) > 0 && !isCheckOnly(raw):
		o.metrics.RecordAction(ctx, act.Name(), observe.OutcomeRejected)
		slog.DebugContext(ctx, "action rejected", "action", act.Name(), "errors", result.Errors)
	default:
		o.metrics.RecordAction(ctx, act.Name(), observe.OutcomeChecked)
	}
	return result, nil, nil
}

func isCheckOnly(raw map[string]string) bool {
	checkOnly, err := isCheck(raw)
	return err == nil && checkOnly
}

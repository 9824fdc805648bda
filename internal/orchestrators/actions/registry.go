package actions

import (
	"context"
	"sort"

	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

// Action names
const (
	NameCreateCharacter   = "create_character"
	NameChangeAbility     = "change_ability"
	NameChangeSkill       = "change_skill"
	NameChangeHitPoints   = "change_hit_points"
	NameUseHitDie         = "use_hit_die"
	NameRestoreHitDie     = "restore_hit_die"
	NameUseSpellSlot      = "use_spell_slot"
	NameRestoreSpellSlot  = "restore_spell_slot"
	NameShortRest         = "short_rest"
	NameLongRest          = "long_rest"
	NameCastSpell         = "cast_spell"
	NamePrepareSpell      = "prepare_spell"
	NameUnprepareSpell    = "unprepare_spell"
	NameLearnSpell        = "learn_spell"
	NameForgetSpell       = "forget_spell"
	NameAddLevel          = "add_level"
	NameChangeCoins       = "change_coins"
	NameAddItem           = "add_item"
	NameEquipItem         = "equip_item"
	NameUnequipItem       = "unequip_item"
	NameUseItemCharge     = "use_item_charge"
	NameRestoreItemCharge = "restore_item_charge"
	NameAddTrait          = "add_trait"
)

type validateFunc func(ctx context.Context, env *Env, c *Check) (*Effect, error)

// definition is an Action assembled from its parts
type definition struct {
	name        string
	description string
	schema      Schema
	validate    validateFunc
}

func (d *definition) Name() string        { return d.name }
func (d *definition) Description() string { return d.description }
func (d *definition) Schema() Schema      { return d.schema }

func (d *definition) Validate(ctx context.Context, env *Env, c *Check) (*Effect, error) {
	return d.validate(ctx, env, c)
}

// Registry holds every action by name
type Registry struct {
	byName map[string]Action
	names  []string
}

// NewRegistry builds every action. Enum fields that depend on the loaded
// rules are filled from book.
func NewRegistry(book *rules.Book) *Registry {
	all := []Action{
		createCharacter(book),
		changeAbility(),
		changeSkill(),
		changeHitPoints(),
		useHitDie(),
		restoreHitDie(),
		useSpellSlot(),
		restoreSpellSlot(),
		shortRest(),
		longRest(),
		castSpell(),
		prepareSpell(),
		unprepareSpell(),
		learnSpell(),
		forgetSpell(),
		addLevel(book),
		changeCoins(),
		addItem(),
		equipItem(),
		unequipItem(),
		useItemCharge(),
		restoreItemCharge(),
		addTrait(),
	}

	r := &Registry{byName: make(map[string]Action, len(all))}
	for _, act := range all {
		r.byName[act.Name()] = act
		r.names = append(r.names, act.Name())
	}
	sort.Strings(r.names)
	return r
}

// Lookup returns an action by name
func (r *Registry) Lookup(name string) (Action, bool) {
	act, ok := r.byName[name]
	return act, ok
}

// All returns every action sorted by name
func (r *Registry) All() []Action {
	out := make([]Action, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}

package ledger

import (
	"encoding/json"
	"time"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/replay"
)

// Kind identifies the type of a record
type Kind string

// Record kinds
const (
	KindAbility       Kind = "ability"
	KindSkill         Kind = "skill"
	KindHitPoints     Kind = "hit_points"
	KindHitDie        Kind = "hit_die"
	KindSpellSlot     Kind = "spell_slot"
	KindSpellKnown    Kind = "spell_known"
	KindSpellPrepared Kind = "spell_prepared"
	KindSpellCast     Kind = "spell_cast"
	KindClassLevel    Kind = "class_level"
	KindCoins         Kind = "coins"
	KindItem          Kind = "item"
	KindItemEquip     Kind = "item_equip"
	KindItemCharge    Kind = "item_charge"
	KindTrait         Kind = "trait"
	KindRest          Kind = "rest"
)

// latestKinds are resolved by keeping the newest record per key. Stores
// keep a precomputed current value for these.
var latestKinds = map[Kind]bool{
	KindAbility: true,
	KindSkill:   true,
	KindCoins:   true,
}

// IsLatestWins reports whether a kind resolves as latest record wins
func IsLatestWins(kind Kind) bool {
	return latestKinds[kind]
}

// Record is one ledger entry. ID, CharacterID, Seq and CreatedAt are set by
// the store on append.
type Record struct {
	ID          string          `json:"id"`
	CharacterID string          `json:"character_id"`
	Seq         int64           `json:"seq"`
	Kind        Kind            `json:"kind"`
	Key         string          `json:"key,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Payload is the typed body of a record
type Payload interface {
	RecordKind() Kind
	// RecordKey groups latest-wins records. Empty for other kinds.
	RecordKey() string
}

// NewRecord wraps a payload in an unsaved record
func NewRecord(p Payload) (*Record, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s payload", p.RecordKind())
	}
	return &Record{
		Kind:    p.RecordKind(),
		Key:     p.RecordKey(),
		Payload: data,
	}, nil
}

// NewRecords wraps several payloads
func NewRecords(payloads ...Payload) ([]*Record, error) {
	out := make([]*Record, 0, len(payloads))
	for _, p := range payloads {
		rec, err := NewRecord(p)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Decode unmarshals the payload into v
func (r *Record) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s record %s", r.Kind, r.ID)
	}
	return nil
}

// AbilityPayload sets an ability score and its saving throw proficiency
type AbilityPayload struct {
	Ability    dnd5e.Ability `json:"ability"`
	Score      int           `json:"score"`
	Proficient bool          `json:"proficient"`
}

// RecordKind implements Payload
func (AbilityPayload) RecordKind() Kind { return KindAbility }

// RecordKey implements Payload
func (p AbilityPayload) RecordKey() string { return string(p.Ability) }

// SkillPayload sets a skill proficiency
type SkillPayload struct {
	Skill       dnd5e.Skill       `json:"skill"`
	Proficiency dnd5e.Proficiency `json:"proficiency"`
}

// RecordKind implements Payload
func (SkillPayload) RecordKind() Kind { return KindSkill }

// RecordKey implements Payload
func (p SkillPayload) RecordKey() string { return string(p.Skill) }

// CoinsPayload is a full coin snapshot
type CoinsPayload struct {
	dnd5e.Coins
}

// RecordKind implements Payload
func (CoinsPayload) RecordKind() Kind { return KindCoins }

// RecordKey implements Payload
func (CoinsPayload) RecordKey() string { return "coins" }

// HitPointsPayload is a change in current hit points
type HitPointsPayload struct {
	Delta int `json:"delta"`
}

// RecordKind implements Payload
func (HitPointsPayload) RecordKind() Kind { return KindHitPoints }

// RecordKey implements Payload
func (HitPointsPayload) RecordKey() string { return "" }

// HitDiePayload spends or regains one hit die
type HitDiePayload struct {
	DieSize int           `json:"die_size"`
	Action  replay.Action `json:"action"`
}

// RecordKind implements Payload
func (HitDiePayload) RecordKind() Kind { return KindHitDie }

// RecordKey implements Payload
func (HitDiePayload) RecordKey() string { return "" }

// SpellSlotPayload spends or regains one spell slot
type SpellSlotPayload struct {
	Level  int           `json:"level"`
	Pact   bool          `json:"pact,omitempty"`
	Action replay.Action `json:"action"`
}

// RecordKind implements Payload
func (SpellSlotPayload) RecordKind() Kind { return KindSpellSlot }

// RecordKey implements Payload
func (SpellSlotPayload) RecordKey() string { return "" }

// Spellbook actions
const (
	SpellLearn  = "learn"
	SpellForget = "forget"
)

// SpellKnownPayload adds or removes a spellbook entry
type SpellKnownPayload struct {
	Class   string `json:"class"`
	SpellID string `json:"spell_id"`
	Action  string `json:"action"`
}

// RecordKind implements Payload
func (SpellKnownPayload) RecordKind() Kind { return KindSpellKnown }

// RecordKey implements Payload
func (SpellKnownPayload) RecordKey() string { return "" }

// Preparation actions
const (
	SpellPrepare   = "prepare"
	SpellUnprepare = "unprepare"
)

// SpellPreparedPayload prepares or unprepares a spell for a class
type SpellPreparedPayload struct {
	Class    string         `json:"class"`
	SpellID  string         `json:"spell_id"`
	SlotKind dnd5e.SlotKind `json:"slot_kind"`
	Action   string         `json:"action"`
}

// RecordKind implements Payload
func (SpellPreparedPayload) RecordKind() Kind { return KindSpellPrepared }

// RecordKey implements Payload
func (SpellPreparedPayload) RecordKey() string { return "" }

// SpellCastPayload records a cast for history
type SpellCastPayload struct {
	Class     string `json:"class"`
	SpellID   string `json:"spell_id"`
	SlotLevel int    `json:"slot_level,omitempty"`
	Pact      bool   `json:"pact,omitempty"`
	Ritual    bool   `json:"ritual,omitempty"`
}

// RecordKind implements Payload
func (SpellCastPayload) RecordKind() Kind { return KindSpellCast }

// RecordKey implements Payload
func (SpellCastPayload) RecordKey() string { return "" }

// ClassLevelPayload adds a class level
type ClassLevelPayload struct {
	Class      string `json:"class"`
	Level      int    `json:"level"`
	Subclass   string `json:"subclass,omitempty"`
	HitDieRoll int    `json:"hit_die_roll"`
}

// RecordKind implements Payload
func (ClassLevelPayload) RecordKind() Kind { return KindClassLevel }

// RecordKey implements Payload
func (ClassLevelPayload) RecordKey() string { return "" }

// ItemPayload adds an item to the inventory
type ItemPayload struct {
	ItemID     string         `json:"item_id"`
	Name       string         `json:"name"`
	Kind       dnd5e.ItemKind `json:"kind"`
	BaseAC     int            `json:"base_ac,omitempty"`
	DexCap     int            `json:"dex_cap,omitempty"`
	ACBonus    int            `json:"ac_bonus,omitempty"`
	MaxCharges int            `json:"max_charges,omitempty"`
}

// RecordKind implements Payload
func (ItemPayload) RecordKind() Kind { return KindItem }

// RecordKey implements Payload
func (ItemPayload) RecordKey() string { return "" }

// ItemEquipPayload equips or unequips an item
type ItemEquipPayload struct {
	ItemID   string `json:"item_id"`
	Equipped bool   `json:"equipped"`
}

// RecordKind implements Payload
func (ItemEquipPayload) RecordKind() Kind { return KindItemEquip }

// RecordKey implements Payload
func (ItemEquipPayload) RecordKey() string { return "" }

// ItemChargePayload spends (negative) or regains (positive) item charges
type ItemChargePayload struct {
	ItemID string `json:"item_id"`
	Delta  int    `json:"delta"`
}

// RecordKind implements Payload
func (ItemChargePayload) RecordKind() Kind { return KindItemCharge }

// RecordKey implements Payload
func (ItemChargePayload) RecordKey() string { return "" }

// TraitPayload adds a trait
type TraitPayload struct {
	dnd5e.Trait
}

// RecordKind implements Payload
func (TraitPayload) RecordKind() Kind { return KindTrait }

// RecordKey implements Payload
func (TraitPayload) RecordKey() string { return "" }

// Rest types
const (
	RestShort = "short"
	RestLong  = "long"
)

// RestPayload marks a completed rest
type RestPayload struct {
	Type           string `json:"type"`
	ArcaneRecovery bool   `json:"arcane_recovery,omitempty"`
}

// RecordKind implements Payload
func (RestPayload) RecordKind() Kind { return KindRest }

// RecordKey implements Payload
func (RestPayload) RecordKey() string { return "" }

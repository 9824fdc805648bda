package snapshot

import (
	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/replay"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

// State is everything read from the ledger for one character
type State struct {
	Character *dnd5e.Character
	// Latest holds the resolved records of latest-wins kinds by key
	Latest map[ledger.Kind]map[string]*ledger.Record
	// History holds replayed kinds in append order
	History []*ledger.Record
}

// Compute derives a snapshot from ledger state. It does no I/O.
func Compute(book *rules.Book, state *State) (*dnd5e.Snapshot, error) {
	h, err := decodeHistory(state.History)
	if err != nil {
		return nil, err
	}

	snap := &dnd5e.Snapshot{
		Character: state.Character,
		Classes:   h.classes,
	}
	for _, cl := range snap.Classes {
		snap.TotalLevel += cl.Level
	}
	snap.ProficiencyBonus = dnd5e.ProficiencyBonus(snap.TotalLevel)

	if snap.Abilities, err = abilities(state.Latest[ledger.KindAbility], snap.ProficiencyBonus); err != nil {
		return nil, err
	}
	if snap.Skills, err = skills(state.Latest[ledger.KindSkill], snap); err != nil {
		return nil, err
	}
	if rec, ok := state.Latest[ledger.KindCoins]["coins"]; ok {
		var coins ledger.CoinsPayload
		if err := rec.Decode(&coins); err != nil {
			return nil, err
		}
		snap.Coins = coins.Coins
	}

	snap.Items = h.items()
	snap.ArmorClass = armorClass(snap)
	snap.Initiative = snap.Modifier(dnd5e.AbilityDexterity)
	snap.PassivePerception = 10 + snap.Skills[dnd5e.SkillPerception].Modifier

	snap.HitPoints = hitPoints(h, snap)
	snap.HitDice = hitDice(book, h)

	casters := book.CasterLevels(snap.Classes)
	snap.SpellSlots = pool(casters.SpellSlots(), h.slotEvents)
	snap.PactSlots = pool(casters.PactSlots(), h.pactEvents)
	snap.Spellcasting = spellcasting(book, h)

	snap.Traits = traits(book, state.Character, snap.Classes, h.traits)
	snap.ArcaneRecoveryAvailable = h.arcaneRecovery

	return snap, nil
}

// history is the decoded replayed records
type history struct {
	classes        []dnd5e.ClassLevel
	rolls          int
	hpDelta        int
	hitDieEvents   []replay.Event[int]
	slotEvents     []replay.Event[int]
	pactEvents     []replay.Event[int]
	known          map[string]*orderedSet
	prepared       map[string]map[dnd5e.SlotKind]*orderedSet
	itemOrder      []string
	itemDefs       map[string]ledger.ItemPayload
	equipped       map[string]bool
	chargeEvents   []replay.Event[string]
	traits         []dnd5e.Trait
	arcaneRecovery bool
}

func decodeHistory(records []*ledger.Record) (*history, error) {
	h := &history{
		known:          map[string]*orderedSet{},
		prepared:       map[string]map[dnd5e.SlotKind]*orderedSet{},
		itemDefs:       map[string]ledger.ItemPayload{},
		equipped:       map[string]bool{},
		arcaneRecovery: true,
	}
	classIndex := map[string]int{}

	for _, rec := range records {
		switch rec.Kind {
		case ledger.KindClassLevel:
			var p ledger.ClassLevelPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			h.rolls += p.HitDieRoll
			i, ok := classIndex[p.Class]
			if !ok {
				classIndex[p.Class] = len(h.classes)
				h.classes = append(h.classes, dnd5e.ClassLevel{Class: p.Class, Level: p.Level, Subclass: p.Subclass})
				continue
			}
			cl := &h.classes[i]
			if p.Level > cl.Level {
				cl.Level = p.Level
			}
			// The first subclass assigned sticks
			if cl.Subclass == "" {
				cl.Subclass = p.Subclass
			}

		case ledger.KindHitPoints:
			var p ledger.HitPointsPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			h.hpDelta += p.Delta

		case ledger.KindHitDie:
			var p ledger.HitDiePayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			h.hitDieEvents = append(h.hitDieEvents, replay.Event[int]{Category: p.DieSize, Action: p.Action})

		case ledger.KindSpellSlot:
			var p ledger.SpellSlotPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			event := replay.Event[int]{Category: p.Level, Action: p.Action}
			if p.Pact {
				h.pactEvents = append(h.pactEvents, event)
			} else {
				h.slotEvents = append(h.slotEvents, event)
			}

		case ledger.KindSpellKnown:
			var p ledger.SpellKnownPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			set := h.known[p.Class]
			if set == nil {
				set = &orderedSet{}
				h.known[p.Class] = set
			}
			set.apply(p.SpellID, p.Action == ledger.SpellLearn)

		case ledger.KindSpellPrepared:
			var p ledger.SpellPreparedPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			byKind := h.prepared[p.Class]
			if byKind == nil {
				byKind = map[dnd5e.SlotKind]*orderedSet{}
				h.prepared[p.Class] = byKind
			}
			set := byKind[p.SlotKind]
			if set == nil {
				set = &orderedSet{}
				byKind[p.SlotKind] = set
			}
			set.apply(p.SpellID, p.Action == ledger.SpellPrepare)

		case ledger.KindItem:
			var p ledger.ItemPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			if _, ok := h.itemDefs[p.ItemID]; !ok {
				h.itemOrder = append(h.itemOrder, p.ItemID)
			}
			h.itemDefs[p.ItemID] = p

		case ledger.KindItemEquip:
			var p ledger.ItemEquipPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			h.equipped[p.ItemID] = p.Equipped

		case ledger.KindItemCharge:
			var p ledger.ItemChargePayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			h.chargeEvents = append(h.chargeEvents, replay.Deltas(p.ItemID, p.Delta)...)

		case ledger.KindTrait:
			var p ledger.TraitPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			h.traits = append(h.traits, p.Trait)

		case ledger.KindRest:
			var p ledger.RestPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			switch {
			case p.Type == ledger.RestLong:
				h.arcaneRecovery = true
			case p.ArcaneRecovery:
				h.arcaneRecovery = false
			}
		}
	}
	return h, nil
}

func abilities(latest map[string]*ledger.Record, pb int) (map[dnd5e.Ability]dnd5e.AbilityScore, error) {
	out := make(map[dnd5e.Ability]dnd5e.AbilityScore, len(dnd5e.Abilities))
	for _, ability := range dnd5e.Abilities {
		score := dnd5e.AbilityScore{Score: 10}
		if rec, ok := latest[string(ability)]; ok {
			var p ledger.AbilityPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			score.Score = p.Score
			score.Proficient = p.Proficient
		}
		score.Modifier = dnd5e.AbilityModifier(score.Score)
		score.SavingThrow = score.Modifier
		if score.Proficient {
			score.SavingThrow += pb
		}
		out[ability] = score
	}
	return out, nil
}

func skills(latest map[string]*ledger.Record, snap *dnd5e.Snapshot) (map[dnd5e.Skill]dnd5e.SkillValue, error) {
	out := make(map[dnd5e.Skill]dnd5e.SkillValue, len(dnd5e.SkillAbilities))
	for skill, ability := range dnd5e.SkillAbilities {
		value := dnd5e.SkillValue{Ability: ability, Proficiency: dnd5e.ProficiencyNone}
		if rec, ok := latest[string(skill)]; ok {
			var p ledger.SkillPayload
			if err := rec.Decode(&p); err != nil {
				return nil, err
			}
			value.Proficiency = p.Proficiency
		}
		value.Modifier = snap.Modifier(ability) + value.Proficiency.Bonus(snap.ProficiencyBonus)
		out[skill] = value
	}
	return out, nil
}

func (h *history) items() []dnd5e.Item {
	if len(h.itemOrder) == 0 {
		return nil
	}

	capacity := replay.Pool[string]{}
	for _, id := range h.itemOrder {
		if charges := h.itemDefs[id].MaxCharges; charges > 0 {
			capacity[id] = charges
		}
	}
	charges := replay.Replay(capacity, h.chargeEvents)

	out := make([]dnd5e.Item, 0, len(h.itemOrder))
	for _, id := range h.itemOrder {
		def := h.itemDefs[id]
		out = append(out, dnd5e.Item{
			ID:         id,
			Name:       def.Name,
			Kind:       def.Kind,
			BaseAC:     def.BaseAC,
			DexCap:     def.DexCap,
			ACBonus:    def.ACBonus,
			MaxCharges: def.MaxCharges,
			Charges:    charges[id],
			Equipped:   h.equipped[id],
		})
	}
	return out
}

// armorClass uses equipped armor when present, else 10 + DEX. A negative
// dex cap means uncapped.
func armorClass(snap *dnd5e.Snapshot) int {
	dex := snap.Modifier(dnd5e.AbilityDexterity)
	ac := 10 + dex
	shield := 0
	for _, item := range snap.Items {
		if !item.Equipped {
			continue
		}
		switch item.Kind {
		case dnd5e.ItemKindArmor:
			bonus := dex
			if item.DexCap >= 0 && bonus > item.DexCap {
				bonus = item.DexCap
			}
			ac = item.BaseAC + bonus
		case dnd5e.ItemKindShield:
			shield += item.ACBonus
		}
	}
	return ac + shield
}

func hitPoints(h *history, snap *dnd5e.Snapshot) dnd5e.HitPoints {
	maxHP := h.rolls + snap.Modifier(dnd5e.AbilityConstitution)*snap.TotalLevel
	if maxHP < 0 {
		maxHP = 0
	}
	current := maxHP + h.hpDelta
	if current < 0 {
		current = 0
	}
	if current > maxHP {
		current = maxHP
	}
	return dnd5e.HitPoints{Max: maxHP, Current: current}
}

func hitDice(book *rules.Book, h *history) dnd5e.Pool {
	capacity := replay.Pool[int]{}
	for _, cl := range h.classes {
		class, ok := book.Class(cl.Class)
		if !ok {
			continue
		}
		capacity[class.HitDie] += cl.Level
	}
	return pool(capacity, h.hitDieEvents)
}

func pool(capacity replay.Pool[int], events []replay.Event[int]) dnd5e.Pool {
	return dnd5e.Pool{
		Capacity:  capacity,
		Available: replay.Replay(capacity, events),
	}
}

func spellcasting(book *rules.Book, h *history) []dnd5e.SpellInfo {
	var out []dnd5e.SpellInfo
	for _, cl := range h.classes {
		class, ok := book.Class(cl.Class)
		if !ok || class.CasterKind(cl.Subclass) == dnd5e.CasterNone {
			continue
		}

		info := dnd5e.SpellInfo{
			Class:         cl.Class,
			Ability:       class.Spellcasting.Ability,
			MaxSpellLevel: class.MaxSpellLevel(cl.Level, cl.Subclass),
		}

		prepared := h.prepared[cl.Class]
		info.Cantrips = fillSlots(nil, prepared[dnd5e.SlotKindCantrip], class.Cantrips(cl.Level, cl.Subclass))

		var always []dnd5e.PreparedSlot
		for _, spellID := range class.AlwaysPrepared(cl.Level, cl.Subclass) {
			always = append(always, dnd5e.PreparedSlot{SpellID: spellID, AlwaysPrepared: true})
		}
		info.Prepared = fillSlots(always, prepared[dnd5e.SlotKindLeveled], class.PreparedCount(cl.Level, cl.Subclass))

		if class.HasSpellbook() {
			info.Known = []string{}
			if set := h.known[cl.Class]; set != nil {
				info.Known = append(info.Known, set.items...)
			}
		}
		out = append(out, info)
	}
	return out
}

// fillSlots lists fixed slots, then prepared spells, then free slots up to
// count. Prepared spells beyond count are kept so a lowered count never
// hides them.
func fillSlots(fixed []dnd5e.PreparedSlot, prepared *orderedSet, count int) []dnd5e.PreparedSlot {
	out := make([]dnd5e.PreparedSlot, 0, len(fixed)+count)
	out = append(out, fixed...)
	used := 0
	if prepared != nil {
		for _, spellID := range prepared.items {
			out = append(out, dnd5e.PreparedSlot{SpellID: spellID})
			used++
		}
	}
	for ; used < count; used++ {
		out = append(out, dnd5e.PreparedSlot{})
	}
	return out
}

func traits(book *rules.Book, c *dnd5e.Character, classes []dnd5e.ClassLevel, recorded []dnd5e.Trait) []dnd5e.Trait {
	var out []dnd5e.Trait
	if species, ok := book.SpeciesByID(c.Species); ok {
		for _, name := range species.Traits {
			out = append(out, dnd5e.Trait{Name: name, Source: dnd5e.TraitSourceSpecies, SourceDetail: species.Name})
		}
		if lineage, ok := species.Lineage(c.Lineage); ok {
			for _, name := range lineage.Traits {
				out = append(out, dnd5e.Trait{Name: name, Source: dnd5e.TraitSourceLineage, SourceDetail: lineage.Name})
			}
		}
	}
	if background, ok := book.Background(c.Background); ok {
		for _, name := range background.Traits {
			out = append(out, dnd5e.Trait{Name: name, Source: dnd5e.TraitSourceBackground, SourceDetail: background.Name})
		}
	}
	for _, cl := range classes {
		if class, ok := book.Class(cl.Class); ok {
			out = append(out, class.Traits(cl.Level, cl.Subclass)...)
		}
	}
	return append(out, recorded...)
}

// orderedSet keeps insertion order and drops duplicates
type orderedSet struct {
	items []string
}

func (s *orderedSet) apply(id string, add bool) {
	for i, existing := range s.items {
		if existing == id {
			if !add {
				s.items = append(s.items[:i], s.items[i+1:]...)
			}
			return
		}
	}
	if add {
		s.items = append(s.items, id)
	}
}

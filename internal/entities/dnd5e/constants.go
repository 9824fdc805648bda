package dnd5e

// Ability identifies one of the six ability scores
type Ability string

// Abilities
const (
	AbilityStrength     Ability = "str"
	AbilityDexterity    Ability = "dex"
	AbilityConstitution Ability = "con"
	AbilityIntelligence Ability = "int"
	AbilityWisdom       Ability = "wis"
	AbilityCharisma     Ability = "cha"
)

// Abilities lists every ability in sheet order
var Abilities = []Ability{
	AbilityStrength,
	AbilityDexterity,
	AbilityConstitution,
	AbilityIntelligence,
	AbilityWisdom,
	AbilityCharisma,
}

// Skill identifies a skill
type Skill string

// Skills
const (
	SkillAcrobatics     Skill = "acrobatics"
	SkillAnimalHandling Skill = "animal_handling"
	SkillArcana         Skill = "arcana"
	SkillAthletics      Skill = "athletics"
	SkillDeception      Skill = "deception"
	SkillHistory        Skill = "history"
	SkillInsight        Skill = "insight"
	SkillIntimidation   Skill = "intimidation"
	SkillInvestigation  Skill = "investigation"
	SkillMedicine       Skill = "medicine"
	SkillNature         Skill = "nature"
	SkillPerception     Skill = "perception"
	SkillPerformance    Skill = "performance"
	SkillPersuasion     Skill = "persuasion"
	SkillReligion       Skill = "religion"
	SkillSleightOfHand  Skill = "sleight_of_hand"
	SkillStealth        Skill = "stealth"
	SkillSurvival       Skill = "survival"
)

// SkillAbilities maps each skill to its governing ability
var SkillAbilities = map[Skill]Ability{
	SkillAcrobatics:     AbilityDexterity,
	SkillAnimalHandling: AbilityWisdom,
	SkillArcana:         AbilityIntelligence,
	SkillAthletics:      AbilityStrength,
	SkillDeception:      AbilityCharisma,
	SkillHistory:        AbilityIntelligence,
	SkillInsight:        AbilityWisdom,
	SkillIntimidation:   AbilityCharisma,
	SkillInvestigation:  AbilityIntelligence,
	SkillMedicine:       AbilityWisdom,
	SkillNature:         AbilityIntelligence,
	SkillPerception:     AbilityWisdom,
	SkillPerformance:    AbilityCharisma,
	SkillPersuasion:     AbilityCharisma,
	SkillReligion:       AbilityIntelligence,
	SkillSleightOfHand:  AbilityDexterity,
	SkillStealth:        AbilityDexterity,
	SkillSurvival:       AbilityWisdom,
}

// Proficiency is a skill proficiency tier
type Proficiency string

// Proficiency tiers
const (
	ProficiencyNone       Proficiency = "none"
	ProficiencyHalf       Proficiency = "half"
	ProficiencyProficient Proficiency = "proficient"
	ProficiencyExpert     Proficiency = "expert"
)

// Bonus returns the amount this tier adds for the given proficiency bonus
func (p Proficiency) Bonus(proficiencyBonus int) int {
	switch p {
	case ProficiencyHalf:
		return proficiencyBonus / 2
	case ProficiencyProficient:
		return proficiencyBonus
	case ProficiencyExpert:
		return 2 * proficiencyBonus
	default:
		return 0
	}
}

// CasterKind classifies how a class casts spells
type CasterKind string

// Caster kinds
const (
	CasterNone  CasterKind = "none"
	CasterFull  CasterKind = "full"
	CasterHalf  CasterKind = "half"
	CasterThird CasterKind = "third"
	CasterPact  CasterKind = "pact"
)

// SlotKind separates cantrip preparation from leveled spell preparation
type SlotKind string

// Slot kinds
const (
	SlotKindCantrip SlotKind = "cantrip"
	SlotKindLeveled SlotKind = "leveled"
)

// SlotKindForLevel returns the preparation slot kind for a spell level
func SlotKindForLevel(spellLevel int) SlotKind {
	if spellLevel == 0 {
		return SlotKindCantrip
	}
	return SlotKindLeveled
}

// TraitSource says where a trait came from
type TraitSource string

// Trait sources
const (
	TraitSourceSpecies    TraitSource = "species"
	TraitSourceLineage    TraitSource = "lineage"
	TraitSourceBackground TraitSource = "background"
	TraitSourceClass      TraitSource = "class"
	TraitSourceSubclass   TraitSource = "subclass"
	TraitSourceFeat       TraitSource = "feat"
)

// ItemKind decides how an equipped item affects armor class
type ItemKind string

// Item kinds
const (
	ItemKindGear   ItemKind = "gear"
	ItemKindArmor  ItemKind = "armor"
	ItemKindShield ItemKind = "shield"
)

// Alignments
var Alignments = []string{
	"lawful_good", "neutral_good", "chaotic_good",
	"lawful_neutral", "true_neutral", "chaotic_neutral",
	"lawful_evil", "neutral_evil", "chaotic_evil",
}

// MaxLevel is the highest total character level
const MaxLevel = 20

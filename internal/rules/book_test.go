package rules_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
)

type BookTestSuite struct {
	suite.Suite
	book *rules.Book
}

func TestBookSuite(t *testing.T) {
	suite.Run(t, new(BookTestSuite))
}

func (s *BookTestSuite) SetupTest() {
	book, err := rules.Default()
	s.Require().NoError(err)
	s.book = book
}

func (s *BookTestSuite) TestDefaultLoadsEveryClass() {
	s.Equal("2024", s.book.Ruleset)
	s.Len(s.book.ClassIDs(), 12)

	wizard, ok := s.book.Class("wizard")
	s.Require().True(ok)
	s.Equal(6, wizard.HitDie)
	s.True(wizard.HasSpellbook())
	s.Equal(dnd5e.CasterFull, wizard.CasterKind(""))
	s.Equal(3, wizard.Cantrips(1, ""))
	s.Equal(1, wizard.MaxSpellLevel(1, ""))
	s.Equal(3, wizard.MaxSpellLevel(5, "evoker"))
}

func (s *BookTestSuite) TestSubclassGatedCaster() {
	fighter, ok := s.book.Class("fighter")
	s.Require().True(ok)

	s.Equal(dnd5e.CasterNone, fighter.CasterKind("champion"))
	s.Equal(dnd5e.CasterThird, fighter.CasterKind("eldritch-knight"))
	s.Equal("wizard", fighter.SpellList())
	s.Equal(0, fighter.Cantrips(3, "champion"))
	s.Equal(2, fighter.Cantrips(3, "eldritch-knight"))
	s.Equal(0, fighter.MaxSpellLevel(5, "champion"))
	s.Equal(1, fighter.MaxSpellLevel(5, "eldritch-knight"))
}

func (s *BookTestSuite) TestAlwaysPreparedAndTraits() {
	cleric, ok := s.book.Class("cleric")
	s.Require().True(ok)

	s.Empty(cleric.AlwaysPrepared(2, "life-domain"))
	s.Equal([]string{"bless", "cure-wounds"}, cleric.AlwaysPrepared(3, "life-domain"))
	s.Len(cleric.AlwaysPrepared(5, "life-domain"), 4)

	traits := cleric.Traits(3, "life-domain")
	var names []string
	for _, t := range traits {
		names = append(names, t.Name)
	}
	s.Contains(names, "Divine Order")
	s.Contains(names, "Disciple of Life")
	s.NotContains(names, "Sear Undead")
}

func (s *BookTestSuite) TestSpellLookup() {
	fireball, err := s.book.Spell(context.Background(), "fireball")
	s.Require().NoError(err)
	s.Equal(3, fireball.Level)
	s.True(fireball.OnList("wizard"))
	s.False(fireball.OnList("cleric"))

	findFamiliar, err := s.book.Spell(context.Background(), "find-familiar")
	s.Require().NoError(err)
	s.True(findFamiliar.Ritual)

	_, err = s.book.Spell(context.Background(), "tashas-hideous-laughter")
	s.True(errors.IsNotFound(err))
}

func (s *BookTestSuite) TestOrigins() {
	elf, ok := s.book.SpeciesByID("elf")
	s.Require().True(ok)
	_, ok = elf.Lineage("wood-elf")
	s.True(ok)
	_, ok = elf.Lineage("rock-gnome")
	s.False(ok)

	_, ok = s.book.Background("sage")
	s.True(ok)
	s.Contains(s.book.SpeciesIDs(), "tiefling")
	s.Contains(s.book.BackgroundIDs(), "acolyte")
}

func (s *BookTestSuite) TestOverlayReplacesEntries() {
	overlay := `
spells:
  - { id: fireball, name: Fireball, level: 3, classes: [sorcerer, wizard, cleric] }
  - { id: tashas-hideous-laughter, name: Hideous Laughter, level: 1, classes: [bard, wizard] }
`
	book, err := rules.Load(strings.NewReader(overlay))
	s.Require().NoError(err)

	fireball, err := book.Spell(context.Background(), "fireball")
	s.Require().NoError(err)
	s.True(fireball.OnList("cleric"))

	_, err = book.Spell(context.Background(), "tashas-hideous-laughter")
	s.NoError(err)
}

func (s *BookTestSuite) TestOverlayRejectsUnknownFields() {
	_, err := rules.Load(strings.NewReader("spells:\n  - { id: x, levle: 1 }\n"))
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *BookTestSuite) TestOverlayIsValidated() {
	overlay := `
classes:
  - id: artificer
    name: Artificer
    hit_die: 8
    subclass_level: 3
    spellcasting:
      kind: quarter
      ability: int
      prepared: [2, 3]
`
	_, err := rules.Load(strings.NewReader(overlay))
	s.Require().Error(err)
	fields := errors.StructuralFields(err)
	s.NotEmpty(fields["classes.artificer"])
}

func (s *BookTestSuite) TestLoadFileEmptyPathUsesDefaults() {
	book, err := rules.LoadFile("")
	s.Require().NoError(err)
	s.Len(book.ClassIDs(), 12)

	_, err = rules.LoadFile("/nonexistent/rules.yaml")
	s.Error(err)
}

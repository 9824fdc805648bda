// Package rules holds the read-only class, spell and origin definitions and
// the pure table lookups derived from them. A Book is loaded once at startup
// and never written afterwards.
package rules

import (
	"bytes"
	"context"
	"embed"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
)

//go:embed data/*.yaml
var embedded embed.FS

// Feature is a trait granted at a level
type Feature struct {
	Level int    `yaml:"level"`
	Name  string `yaml:"name"`
}

// AlwaysPrepared lists spells a subclass keeps prepared from a level on
type AlwaysPrepared struct {
	Level  int      `yaml:"level"`
	Spells []string `yaml:"spells"`
}

// Spellcasting describes how a class casts spells
type Spellcasting struct {
	Kind    dnd5e.CasterKind `yaml:"kind"`
	Ability dnd5e.Ability    `yaml:"ability"`
	// Spellbook casters learn spells and prepare leveled spells from what
	// they know.
	Spellbook bool `yaml:"spellbook"`
	// SpellList names the class list the caster draws from. Empty means the
	// class's own list.
	SpellList string `yaml:"spell_list"`
	// EligibleSubclasses gates the caster kind on the subclass when set.
	EligibleSubclasses []string `yaml:"eligible_subclasses"`
	Cantrips           []int    `yaml:"cantrips"`
	Prepared           []int    `yaml:"prepared"`
}

// Subclass is a class specialization
type Subclass struct {
	ID             string           `yaml:"id"`
	Name           string           `yaml:"name"`
	Features       []Feature        `yaml:"features"`
	AlwaysPrepared []AlwaysPrepared `yaml:"always_prepared"`
}

// Class is a class definition
type Class struct {
	ID            string        `yaml:"id"`
	Name          string        `yaml:"name"`
	HitDie        int           `yaml:"hit_die"`
	SubclassLevel int           `yaml:"subclass_level"`
	Spellcasting  *Spellcasting `yaml:"spellcasting"`
	Features      []Feature     `yaml:"features"`
	Subclasses    []*Subclass   `yaml:"subclasses"`
}

// Spell is a spell definition
type Spell struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Level   int      `yaml:"level"`
	Ritual  bool     `yaml:"ritual"`
	Classes []string `yaml:"classes"`
}

// OnList reports whether the spell belongs to a class spell list. Spells
// with no recorded lists are treated as available to every list.
func (s *Spell) OnList(list string) bool {
	if len(s.Classes) == 0 {
		return true
	}
	for _, c := range s.Classes {
		if c == list {
			return true
		}
	}
	return false
}

// Lineage is a species variant
type Lineage struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Traits []string `yaml:"traits"`
}

// Species is a playable species
type Species struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name"`
	Traits   []string   `yaml:"traits"`
	Lineages []*Lineage `yaml:"lineages"`
}

// Lineage returns a lineage of the species by id
func (s *Species) Lineage(id string) (*Lineage, bool) {
	for _, l := range s.Lineages {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// Background is a character background
type Background struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Traits []string `yaml:"traits"`
}

type bookFile struct {
	Ruleset     string        `yaml:"ruleset"`
	Classes     []*Class      `yaml:"classes"`
	Spells      []*Spell      `yaml:"spells"`
	Species     []*Species    `yaml:"species"`
	Backgrounds []*Background `yaml:"backgrounds"`
}

// Book is the loaded rules data
type Book struct {
	Ruleset     string
	classes     map[string]*Class
	spells      map[string]*Spell
	species     map[string]*Species
	backgrounds map[string]*Background
}

func newBook() *Book {
	return &Book{
		classes:     make(map[string]*Class),
		spells:      make(map[string]*Spell),
		species:     make(map[string]*Species),
		backgrounds: make(map[string]*Background),
	}
}

// Default loads the embedded rules
func Default() (*Book, error) {
	book := newBook()

	names, err := fs.Glob(embedded, "data/*.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list embedded rules")
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := embedded.ReadFile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", name)
		}
		if err := book.decode(bytes.NewReader(data), path.Base(name)); err != nil {
			return nil, err
		}
	}

	if err := book.validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// Load returns the embedded rules with the given overlay documents applied.
// Entries in an overlay replace embedded entries with the same id.
func Load(overlays ...io.Reader) (*Book, error) {
	book, err := Default()
	if err != nil {
		return nil, err
	}

	for i, r := range overlays {
		if err := book.decode(r, "overlay"); err != nil {
			return nil, errors.Wrapf(err, "overlay %d", i)
		}
	}

	if err := book.validate(); err != nil {
		return nil, err
	}
	return book, nil
}

// LoadFile applies a YAML overlay from disk. An empty path returns the
// embedded rules.
func LoadFile(filename string) (*Book, error) {
	if filename == "" {
		return Default()
	}

	f, err := os.Open(filename) // #nosec G304 -- operator supplied rules path
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open rules file %s", filename)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

func (b *Book) decode(r io.Reader, name string) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file bookFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode rules "+name)
	}

	if file.Ruleset != "" {
		b.Ruleset = file.Ruleset
	}
	for _, c := range file.Classes {
		b.classes[c.ID] = c
	}
	for _, s := range file.Spells {
		b.spells[s.ID] = s
	}
	for _, s := range file.Species {
		b.species[s.ID] = s
	}
	for _, bg := range file.Backgrounds {
		b.backgrounds[bg.ID] = bg
	}
	return nil
}

func (b *Book) validate() error {
	vb := errors.NewValidationBuilder()
	if b.Ruleset == "" {
		vb.RequiredField("ruleset")
	}

	for id, c := range b.classes {
		if c.HitDie <= 0 {
			vb.Fieldf("classes."+id, "hit_die must be positive")
		}
		sc := c.Spellcasting
		if sc == nil {
			continue
		}
		switch sc.Kind {
		case dnd5e.CasterFull, dnd5e.CasterHalf, dnd5e.CasterThird, dnd5e.CasterPact:
		default:
			vb.Fieldf("classes."+id, "unknown spellcasting kind %q", sc.Kind)
		}
		if len(sc.Cantrips) != 0 && len(sc.Cantrips) != dnd5e.MaxLevel {
			vb.Fieldf("classes."+id, "cantrips table needs %d rows", dnd5e.MaxLevel)
		}
		if len(sc.Prepared) != dnd5e.MaxLevel {
			vb.Fieldf("classes."+id, "prepared table needs %d rows", dnd5e.MaxLevel)
		}
		for _, sub := range c.Subclasses {
			for _, ap := range sub.AlwaysPrepared {
				for _, spellID := range ap.Spells {
					if _, ok := b.spells[spellID]; !ok {
						vb.Fieldf("classes."+id, "subclass %s grants unknown spell %s", sub.ID, spellID)
					}
				}
			}
		}
	}

	return vb.Build()
}

// Class returns a class definition
func (b *Book) Class(id string) (*Class, bool) {
	c, ok := b.classes[id]
	return c, ok
}

// ClassIDs returns every class id in sorted order
func (b *Book) ClassIDs() []string {
	return sortedKeys(b.classes)
}

// SpeciesByID returns a species definition
func (b *Book) SpeciesByID(id string) (*Species, bool) {
	s, ok := b.species[id]
	return s, ok
}

// SpeciesIDs returns every species id in sorted order
func (b *Book) SpeciesIDs() []string {
	return sortedKeys(b.species)
}

// Background returns a background definition
func (b *Book) Background(id string) (*Background, bool) {
	bg, ok := b.backgrounds[id]
	return bg, ok
}

// BackgroundIDs returns every background id in sorted order
func (b *Book) BackgroundIDs() []string {
	return sortedKeys(b.backgrounds)
}

// Spell implements SpellSource
func (b *Book) Spell(_ context.Context, id string) (*Spell, error) {
	s, ok := b.spells[id]
	if !ok {
		return nil, errors.NotFoundf("spell %s not found", id)
	}
	return s, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

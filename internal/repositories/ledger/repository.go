// Package ledger stores characters and their append-only event records.
package ledger

//go:generate mockgen -destination=mock/mock_repository.go -package=ledgermock github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger Repository

import (
	"context"
	"encoding/json"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/idgen"
)

const (
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
	errNoRecords        = "at least one record is required"
)

// Repository is an append-only store of character records. Records are
// never updated or deleted.
type Repository interface {
	// CreateCharacter stores a new character along with any initial records
	// Returns errors.AlreadyExists if the id is taken
	CreateCharacter(ctx context.Context, input CreateCharacterInput) (*CreateCharacterOutput, error)

	// GetCharacter returns a character
	// Returns errors.NotFound if it does not exist
	GetCharacter(ctx context.Context, input GetCharacterInput) (*GetCharacterOutput, error)

	// ListCharacters returns every stored character
	ListCharacters(ctx context.Context, input ListCharactersInput) (*ListCharactersOutput, error)

	// Append stores records for a character atomically. Either every record
	// is stored or none is. Ids, sequence numbers and timestamps are
	// assigned by the store.
	// Returns errors.NotFound if the character does not exist
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// List returns a character's records in append order, optionally
	// filtered by kind
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Latest returns the newest record per key for a latest-wins kind
	Latest(ctx context.Context, input LatestInput) (*LatestOutput, error)
}

// CreateCharacterInput defines the input for creating a character
type CreateCharacterInput struct {
	Character *dnd5e.Character
	Records   []*Record
}

// CreateCharacterOutput defines the output for creating a character
type CreateCharacterOutput struct {
	Character *dnd5e.Character
	Records   []*Record
}

// GetCharacterInput defines the input for getting a character
type GetCharacterInput struct {
	CharacterID string
}

// GetCharacterOutput defines the output for getting a character
type GetCharacterOutput struct {
	Character *dnd5e.Character
}

// ListCharactersInput defines the input for listing characters
type ListCharactersInput struct{}

// ListCharactersOutput defines the output for listing characters
type ListCharactersOutput struct {
	Characters []*dnd5e.Character
}

// AppendInput defines the input for appending records
type AppendInput struct {
	CharacterID string
	Records     []*Record
}

// AppendOutput returns the stored records with ids and sequence numbers set
type AppendOutput struct {
	Records []*Record
}

// ListInput defines the input for listing records
type ListInput struct {
	CharacterID string
	// Kinds filters the result. Empty returns every kind.
	Kinds []Kind
}

// ListOutput defines the output for listing records
type ListOutput struct {
	Records []*Record
}

// LatestInput defines the input for reading resolved values
type LatestInput struct {
	CharacterID string
	Kind        Kind
}

// LatestOutput maps record key to the newest record with that key
type LatestOutput struct {
	Records map[string]*Record
}

// stamp assigns store-owned fields to records in order, starting at firstSeq
func stamp(records []*Record, characterID string, firstSeq int64, clk clock.Clock, ids idgen.Generator) {
	now := clk.Now()
	for i, rec := range records {
		rec.ID = ids.Generate()
		rec.CharacterID = characterID
		rec.Seq = firstSeq + int64(i)
		rec.CreatedAt = now
	}
}

func validateAppend(input AppendInput) error {
	if input.CharacterID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}
	if len(input.Records) == 0 {
		return errors.InvalidArgument(errNoRecords)
	}
	for _, rec := range input.Records {
		if rec == nil || rec.Kind == "" {
			return errors.InvalidArgument("records must have a kind")
		}
	}
	return nil
}

func validateCharacter(c *dnd5e.Character) error {
	if c == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if c.ID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}
	return nil
}

func kindFilter(kinds []Kind) func(Kind) bool {
	if len(kinds) == 0 {
		return func(Kind) bool { return true }
	}
	set := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return func(k Kind) bool {
		_, ok := set[k]
		return ok
	}
}

func marshalCharacter(c *dnd5e.Character) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal character")
	}
	return data, nil
}

func unmarshalCharacter(data []byte) (*dnd5e.Character, error) {
	var c dnd5e.Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal character")
	}
	return &c, nil
}

func validateLatest(input LatestInput) error {
	if input.CharacterID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}
	if !IsLatestWins(input.Kind) {
		return errors.InvalidArgumentf("%s records are not latest-wins", input.Kind)
	}
	return nil
}

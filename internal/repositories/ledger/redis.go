package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-tracker/internal/redis"
)

const (
	keyPrefix     = "ledger:"
	characterSet  = "ledger:characters"
	seqSuffix     = ":seq"
	recordsSuffix = ":records"
	latestSuffix  = ":latest:"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ids    idgen.Generator
}

// RedisConfig contains configuration for the Redis ledger
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	IDs    idgen.Generator
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed ledger. Each character owns a JSON
// document, a sequence counter, a list of records and one hash per
// latest-wins kind.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = idgen.NewPrefixed("rec")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
		ids:    ids,
	}, nil
}

func entityKey(e core.Entity) string {
	return keyPrefix + e.GetType() + ":" + e.GetID()
}

func characterKey(id string) string {
	return entityKey(&dnd5e.Character{ID: id})
}

func (r *redisRepository) CreateCharacter(ctx context.Context, input CreateCharacterInput) (*CreateCharacterOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	key := entityKey(input.Character)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("character with ID %s already exists", input.Character.ID)
	}

	if input.Character.CreatedAt.IsZero() {
		input.Character.CreatedAt = r.clock.Now()
	}
	data, err := marshalCharacter(input.Character)
	if err != nil {
		return nil, err
	}

	stamp(input.Records, input.Character.ID, 1, r.clock, r.ids)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, characterSet, input.Character.ID)
	if len(input.Records) > 0 {
		pipe.Set(ctx, key+seqSuffix, len(input.Records), 0)
		if err := r.queueRecords(ctx, pipe, key, input.Records); err != nil {
			pipe.Discard()
			return nil, err
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}
	return &CreateCharacterOutput{
		Character: input.Character,
		Records:   input.Records,
	}, nil
}

func (r *redisRepository) GetCharacter(ctx context.Context, input GetCharacterInput) (*GetCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.client.Get(ctx, characterKey(input.CharacterID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character with ID %s not found", input.CharacterID)
		}
		return nil, errors.Wrap(err, "failed to get character")
	}

	c, err := unmarshalCharacter([]byte(result))
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{Character: c}, nil
}

func (r *redisRepository) ListCharacters(ctx context.Context, _ ListCharactersInput) (*ListCharactersOutput, error) {
	ids, err := r.client.SMembers(ctx, characterSet).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list character ids")
	}
	if len(ids) == 0 {
		return &ListCharactersOutput{Characters: []*dnd5e.Character{}}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = characterKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get characters")
	}

	characters := make([]*dnd5e.Character, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Indexed but missing, skip it
			slog.WarnContext(ctx, "character index entry has no document", "character_id", ids[i])
			continue
		}
		c, err := unmarshalCharacter([]byte(s))
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	sortCharacters(characters)

	return &ListCharactersOutput{Characters: characters}, nil
}

func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateAppend(input); err != nil {
		return nil, err
	}

	key := characterKey(input.CharacterID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("character with ID %s not found", input.CharacterID)
	}

	// Reserve a contiguous range of sequence numbers. A failed Exec leaves a
	// gap, which readers tolerate since only order matters.
	last, err := r.client.IncrBy(ctx, key+seqSuffix, int64(len(input.Records))).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to reserve sequence numbers")
	}
	stamp(input.Records, input.CharacterID, last-int64(len(input.Records))+1, r.clock, r.ids)

	pipe := r.client.TxPipeline()
	if err := r.queueRecords(ctx, pipe, key, input.Records); err != nil {
		pipe.Discard()
		return nil, err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to append records for character %s", input.CharacterID)
	}

	return &AppendOutput{Records: input.Records}, nil
}

func (r *redisRepository) queueRecords(ctx context.Context, pipe redis.Pipeliner, key string, records []*Record) error {
	values := make([]interface{}, 0, len(records))
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal %s record", rec.Kind)
		}
		values = append(values, data)
		if IsLatestWins(rec.Kind) {
			pipe.HSet(ctx, key+latestSuffix+string(rec.Kind), rec.Key, data)
		}
	}
	pipe.RPush(ctx, key+recordsSuffix, values...)
	return nil
}

func (r *redisRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	values, err := r.client.LRange(ctx, characterKey(input.CharacterID)+recordsSuffix, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list records")
	}

	keep := kindFilter(input.Kinds)
	records := make([]*Record, 0, len(values))
	for _, v := range values {
		var rec Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal record")
		}
		if keep(rec.Kind) {
			records = append(records, &rec)
		}
	}

	return &ListOutput{Records: records}, nil
}

func (r *redisRepository) Latest(ctx context.Context, input LatestInput) (*LatestOutput, error) {
	if err := validateLatest(input); err != nil {
		return nil, err
	}

	values, err := r.client.HGetAll(ctx, characterKey(input.CharacterID)+latestSuffix+string(input.Kind)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read latest %s records", input.Kind)
	}

	out := make(map[string]*Record, len(values))
	for k, v := range values {
		var rec Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal record")
		}
		out[k] = &rec
	}
	return &LatestOutput{Records: out}, nil
}

func sortCharacters(characters []*dnd5e.Character) {
	sort.Slice(characters, func(i, j int) bool {
		if !characters[i].CreatedAt.Equal(characters[j].CreatedAt) {
			return characters[i].CreatedAt.Before(characters[j].CreatedAt)
		}
		return characters[i].ID < characters[j].ID
	})
}

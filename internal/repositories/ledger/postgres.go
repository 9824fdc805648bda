package ledger

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger/migrations"
)

// PostgresConfig contains configuration for the Postgres ledger
type PostgresConfig struct {
	DSN   string
	Clock clock.Clock
	IDs   idgen.Generator
}

// Validate validates the PostgresConfig
func (cfg *PostgresConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.DSN == "" {
		return errors.InvalidArgument("dsn cannot be empty")
	}
	return nil
}

// PostgresRepository is a ledger backed by a pgx connection pool
type PostgresRepository struct {
	pool  *pgxpool.Pool
	clock clock.Clock
	ids   idgen.Generator
}

// OpenPostgres connects, pings and migrates
func OpenPostgres(ctx context.Context, cfg *PostgresConfig) (*PostgresRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse postgres dsn")
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to ping postgres")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = idgen.NewPrefixed("rec")
	}

	repo := &PostgresRepository{pool: pool, clock: c, ids: ids}
	if err := repo.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	files, err := migrations.Files(migrations.Postgres, "postgres")
	if err != nil {
		return errors.Wrap(err, "failed to read postgres migrations")
	}
	for _, file := range files {
		if _, err := r.pool.Exec(ctx, file.Up); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", file.Name)
		}
	}
	return nil
}

// Close releases the pool
func (r *PostgresRepository) Close() {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
}

// CreateCharacter implements Repository
func (r *PostgresRepository) CreateCharacter(ctx context.Context, input CreateCharacterInput) (*CreateCharacterOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}
	if input.Character.CreatedAt.IsZero() {
		input.Character.CreatedAt = r.clock.Now()
	}
	data, err := marshalCharacter(input.Character)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO characters (id, data, created_at) VALUES ($1, $2, $3)`,
		input.Character.ID, data, input.Character.CreatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, errors.AlreadyExistsf("character with ID %s already exists", input.Character.ID)
		}
		return nil, errors.Wrap(err, "failed to insert character")
	}

	stamp(input.Records, input.Character.ID, 1, r.clock, r.ids)
	if err := copyRecords(ctx, tx, input.Records); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}
	return &CreateCharacterOutput{Character: input.Character, Records: input.Records}, nil
}

// GetCharacter implements Repository
func (r *PostgresRepository) GetCharacter(ctx context.Context, input GetCharacterInput) (*GetCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM characters WHERE id = $1`, input.CharacterID).Scan(&data)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NotFoundf("character with ID %s not found", input.CharacterID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get character")
	}

	c, err := unmarshalCharacter(data)
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{Character: c}, nil
}

// ListCharacters implements Repository
func (r *PostgresRepository) ListCharacters(ctx context.Context, _ ListCharactersInput) (*ListCharactersOutput, error) {
	rows, err := r.pool.Query(ctx, `SELECT data FROM characters ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	defer rows.Close()

	characters := []*dnd5e.Character{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "failed to scan character")
		}
		c, err := unmarshalCharacter(data)
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate characters")
	}
	return &ListCharactersOutput{Characters: characters}, nil
}

// Append implements Repository. The character row is locked for the
// duration of the transaction so concurrent appends serialize.
func (r *PostgresRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateAppend(input); err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `SELECT id FROM characters WHERE id = $1 FOR UPDATE`, input.CharacterID).Scan(&id)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NotFoundf("character with ID %s not found", input.CharacterID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock character")
	}

	var last int64
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM records WHERE character_id = $1`, input.CharacterID,
	).Scan(&last)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sequence")
	}

	stamp(input.Records, input.CharacterID, last+1, r.clock, r.ids)
	if err := copyRecords(ctx, tx, input.Records); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to append records for character %s", input.CharacterID)
	}
	return &AppendOutput{Records: input.Records}, nil
}

func copyRecords(ctx context.Context, tx pgx.Tx, records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO records (character_id, seq, id, kind, record_key, payload, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.CharacterID, rec.Seq, rec.ID, string(rec.Kind), rec.Key, []byte(rec.Payload), rec.CreatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "failed to insert records")
	}
	return nil
}

// List implements Repository
func (r *PostgresRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT character_id, seq, id, kind, record_key, payload, created_at
		 FROM records WHERE character_id = $1 ORDER BY seq`, input.CharacterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list records")
	}
	records, err := collectRecords(rows, kindFilter(input.Kinds))
	if err != nil {
		return nil, err
	}
	return &ListOutput{Records: records}, nil
}

// Latest implements Repository
func (r *PostgresRepository) Latest(ctx context.Context, input LatestInput) (*LatestOutput, error) {
	if err := validateLatest(input); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT ON (record_key) character_id, seq, id, kind, record_key, payload, created_at
		 FROM records WHERE character_id = $1 AND kind = $2
		 ORDER BY record_key, seq DESC`, input.CharacterID, string(input.Kind))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read latest %s records", input.Kind)
	}
	records, err := collectRecords(rows, kindFilter(nil))
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Record, len(records))
	for _, rec := range records {
		out[rec.Key] = rec
	}
	return &LatestOutput{Records: out}, nil
}

func collectRecords(rows pgx.Rows, keep func(Kind) bool) ([]*Record, error) {
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		var (
			rec       Record
			kind      string
			payload   []byte
			createdAt time.Time
		)
		if err := rows.Scan(&rec.CharacterID, &rec.Seq, &rec.ID, &kind, &rec.Key, &payload, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan record")
		}
		rec.Kind = Kind(kind)
		if !keep(rec.Kind) {
			continue
		}
		rec.Payload = payload
		rec.CreatedAt = createdAt.UTC()
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate records")
	}
	return records, nil
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ Repository = (*PostgresRepository)(nil)

package ledger

import (
	"context"
	"database/sql"
	stderrors "errors"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger/migrations"
)

const sqliteDSNParams = "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

// SQLiteConfig contains configuration for the SQLite ledger
type SQLiteConfig struct {
	Path  string
	Clock clock.Clock
	IDs   idgen.Generator
}

// Validate validates the SQLiteConfig
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return errors.InvalidArgument("path cannot be empty")
	}
	return nil
}

// SQLiteRepository is a ledger backed by a single SQLite file
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
	ids   idgen.Generator
}

// OpenSQLite opens the database file and applies embedded migrations
func OpenSQLite(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Clean(cfg.Path)+sqliteDSNParams)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite db")
	}
	// One writer at a time. Appends read the last sequence number and write
	// in the same transaction.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping sqlite db")
	}
	if err := migrations.ApplySQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = idgen.NewPrefixed("rec")
	}

	return &SQLiteRepository{db: db, clock: c, ids: ids}, nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CreateCharacter implements Repository
func (r *SQLiteRepository) CreateCharacter(ctx context.Context, input CreateCharacterInput) (*CreateCharacterOutput, error) {
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

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO characters (id, data, created_at) VALUES (?, ?, ?)`,
		input.Character.ID, string(data), toMillis(input.Character.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.AlreadyExistsf("character with ID %s already exists", input.Character.ID)
		}
		return nil, errors.Wrap(err, "failed to insert character")
	}

	stamp(input.Records, input.Character.ID, 1, r.clock, r.ids)
	if err := insertRecords(ctx, tx, input.Records); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to create character")
	}
	return &CreateCharacterOutput{Character: input.Character, Records: input.Records}, nil
}

// GetCharacter implements Repository
func (r *SQLiteRepository) GetCharacter(ctx context.Context, input GetCharacterInput) (*GetCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM characters WHERE id = ?`, input.CharacterID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("character with ID %s not found", input.CharacterID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get character")
	}

	c, err := unmarshalCharacter([]byte(data))
	if err != nil {
		return nil, err
	}
	return &GetCharacterOutput{Character: c}, nil
}

// ListCharacters implements Repository
func (r *SQLiteRepository) ListCharacters(ctx context.Context, _ ListCharactersInput) (*ListCharactersOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM characters ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	defer func() { _ = rows.Close() }()

	characters := []*dnd5e.Character{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "failed to scan character")
		}
		c, err := unmarshalCharacter([]byte(data))
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

// Append implements Repository
func (r *SQLiteRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateAppend(input); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var found int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM characters WHERE id = ?`, input.CharacterID).Scan(&found)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("character with ID %s not found", input.CharacterID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existence")
	}

	var last int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM records WHERE character_id = ?`, input.CharacterID,
	).Scan(&last)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read sequence")
	}

	stamp(input.Records, input.CharacterID, last+1, r.clock, r.ids)
	if err := insertRecords(ctx, tx, input.Records); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrapf(err, "failed to append records for character %s", input.CharacterID)
	}
	return &AppendOutput{Records: input.Records}, nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, records []*Record) error {
	for _, rec := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO records (character_id, seq, id, kind, record_key, payload, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.CharacterID, rec.Seq, rec.ID, string(rec.Kind), rec.Key, string(rec.Payload), toMillis(rec.CreatedAt),
		)
		if err != nil {
			return errors.Wrapf(err, "failed to insert %s record", rec.Kind)
		}
	}
	return nil
}

// List implements Repository
func (r *SQLiteRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT character_id, seq, id, kind, record_key, payload, created_at
		 FROM records WHERE character_id = ? ORDER BY seq`, input.CharacterID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list records")
	}
	records, err := scanRecords(rows, kindFilter(input.Kinds))
	if err != nil {
		return nil, err
	}
	return &ListOutput{Records: records}, nil
}

// Latest implements Repository
func (r *SQLiteRepository) Latest(ctx context.Context, input LatestInput) (*LatestOutput, error) {
	if err := validateLatest(input); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT r.character_id, r.seq, r.id, r.kind, r.record_key, r.payload, r.created_at
		 FROM records r
		 WHERE r.character_id = ? AND r.kind = ?
		   AND r.seq = (
		     SELECT MAX(seq) FROM records
		     WHERE character_id = r.character_id AND kind = r.kind AND record_key = r.record_key
		   )`, input.CharacterID, string(input.Kind))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read latest %s records", input.Kind)
	}
	records, err := scanRecords(rows, kindFilter(nil))
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Record, len(records))
	for _, rec := range records {
		out[rec.Key] = rec
	}
	return &LatestOutput{Records: out}, nil
}

func scanRecords(rows *sql.Rows, keep func(Kind) bool) ([]*Record, error) {
	defer func() { _ = rows.Close() }()

	records := []*Record{}
	for rows.Next() {
		var (
			rec       Record
			kind      string
			payload   string
			createdAt int64
		)
		if err := rows.Scan(&rec.CharacterID, &rec.Seq, &rec.ID, &kind, &rec.Key, &payload, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan record")
		}
		rec.Kind = Kind(kind)
		if !keep(rec.Kind) {
			continue
		}
		rec.Payload = []byte(payload)
		rec.CreatedAt = fromMillis(createdAt)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate records")
	}
	return records, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

var _ Repository = (*SQLiteRepository)(nil)

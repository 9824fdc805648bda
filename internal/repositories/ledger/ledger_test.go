package ledger_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-tracker/internal/replay"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/testutils"
	"github.com/KirkDiggler/rpg-tracker/internal/testutils/builders"
)

// RepositoryTestSuite runs the same behavior checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	open func(t *testing.T, clk clock.Clock, ids idgen.Generator) ledger.Repository
	repo ledger.Repository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.open(s.T(), clock.NewStepping(testutils.TestTime, time.Second), idgen.NewSequential("rec"))
}

func (s *RepositoryTestSuite) createCharacter(id string) {
	b := builders.NewCharacterBuilder().WithID(id).WithAbilities(10, 12, 14, 8, 13, 15)
	_, err := s.repo.CreateCharacter(s.ctx, ledger.CreateCharacterInput{
		Character: b.Build(),
		Records:   b.Records(),
	})
	s.Require().NoError(err)
}

func (s *RepositoryTestSuite) payloads(payloads ...ledger.Payload) []*ledger.Record {
	records, err := ledger.NewRecords(payloads...)
	s.Require().NoError(err)
	return records
}

func (s *RepositoryTestSuite) TestCreateCharacter() {
	s.Run("stores the character and initial records", func() {
		s.createCharacter("char_a")

		got, err := s.repo.GetCharacter(s.ctx, ledger.GetCharacterInput{CharacterID: "char_a"})
		s.Require().NoError(err)
		s.Equal(testutils.TestCharacterName, got.Character.Name)

		list, err := s.repo.List(s.ctx, ledger.ListInput{CharacterID: "char_a"})
		s.Require().NoError(err)
		s.Require().Len(list.Records, 6)
		for i, rec := range list.Records {
			s.Equal(int64(i+1), rec.Seq)
			s.Equal("char_a", rec.CharacterID)
			s.NotEmpty(rec.ID)
		}
	})

	s.Run("rejects a duplicate id", func() {
		_, err := s.repo.CreateCharacter(s.ctx, ledger.CreateCharacterInput{
			Character: testutils.CreateTestCharacter("char_a"),
		})
		s.Require().Error(err)
		s.True(errors.IsAlreadyExists(err))
	})

	s.Run("rejects a missing id", func() {
		_, err := s.repo.CreateCharacter(s.ctx, ledger.CreateCharacterInput{Character: &dnd5e.Character{}})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RepositoryTestSuite) TestGetCharacterNotFound() {
	_, err := s.repo.GetCharacter(s.ctx, ledger.GetCharacterInput{CharacterID: "missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestListCharacters() {
	s.createCharacter("char_b")
	s.createCharacter("char_a")

	out, err := s.repo.ListCharacters(s.ctx, ledger.ListCharactersInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Characters, 2)
	s.Equal("char_a", out.Characters[0].ID)
	s.Equal("char_b", out.Characters[1].ID)
}

func (s *RepositoryTestSuite) TestAppend() {
	s.createCharacter("char_a")

	s.Run("continues the sequence", func() {
		out, err := s.repo.Append(s.ctx, ledger.AppendInput{
			CharacterID: "char_a",
			Records: s.payloads(
				ledger.SpellSlotPayload{Level: 1, Action: replay.ActionUse},
				ledger.HitPointsPayload{Delta: -4},
			),
		})
		s.Require().NoError(err)
		s.Require().Len(out.Records, 2)
		s.Equal(int64(7), out.Records[0].Seq)
		s.Equal(int64(8), out.Records[1].Seq)
	})

	s.Run("filters by kind", func() {
		out, err := s.repo.List(s.ctx, ledger.ListInput{
			CharacterID: "char_a",
			Kinds:       []ledger.Kind{ledger.KindHitPoints},
		})
		s.Require().NoError(err)
		s.Require().Len(out.Records, 1)

		var hp ledger.HitPointsPayload
		s.Require().NoError(out.Records[0].Decode(&hp))
		s.Equal(-4, hp.Delta)
	})

	s.Run("unknown character", func() {
		_, err := s.repo.Append(s.ctx, ledger.AppendInput{
			CharacterID: "missing",
			Records:     s.payloads(ledger.HitPointsPayload{Delta: 1}),
		})
		s.True(errors.IsNotFound(err))
	})

	s.Run("empty batch", func() {
		_, err := s.repo.Append(s.ctx, ledger.AppendInput{CharacterID: "char_a"})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RepositoryTestSuite) TestLatest() {
	s.createCharacter("char_a")
	_, err := s.repo.Append(s.ctx, ledger.AppendInput{
		CharacterID: "char_a",
		Records: s.payloads(
			ledger.AbilityPayload{Ability: dnd5e.AbilityStrength, Score: 16, Proficient: true},
			ledger.AbilityPayload{Ability: dnd5e.AbilityStrength, Score: 18, Proficient: true},
		),
	})
	s.Require().NoError(err)

	s.Run("newest record per key wins", func() {
		out, err := s.repo.Latest(s.ctx, ledger.LatestInput{CharacterID: "char_a", Kind: ledger.KindAbility})
		s.Require().NoError(err)
		s.Len(out.Records, 6)

		var str ledger.AbilityPayload
		s.Require().NoError(out.Records[string(dnd5e.AbilityStrength)].Decode(&str))
		s.Equal(18, str.Score)

		var dex ledger.AbilityPayload
		s.Require().NoError(out.Records[string(dnd5e.AbilityDexterity)].Decode(&dex))
		s.Equal(12, dex.Score)
	})

	s.Run("empty for a kind never written", func() {
		out, err := s.repo.Latest(s.ctx, ledger.LatestInput{CharacterID: "char_a", Kind: ledger.KindCoins})
		s.Require().NoError(err)
		s.Empty(out.Records)
	})

	s.Run("rejects replayed kinds", func() {
		_, err := s.repo.Latest(s.ctx, ledger.LatestInput{CharacterID: "char_a", Kind: ledger.KindSpellSlot})
		s.True(errors.IsInvalidArgument(err))
	})
}

func (s *RepositoryTestSuite) TestConcurrentAppendsKeepUniqueSequence() {
	s.createCharacter("char_a")

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := ledger.NewRecords(ledger.HitPointsPayload{Delta: -1})
			if err != nil {
				errs <- err
				return
			}
			_, err = s.repo.Append(s.ctx, ledger.AppendInput{CharacterID: "char_a", Records: records})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	out, err := s.repo.List(s.ctx, ledger.ListInput{CharacterID: "char_a", Kinds: []ledger.Kind{ledger.KindHitPoints}})
	s.Require().NoError(err)
	s.Len(out.Records, writers)

	seen := map[int64]bool{}
	for _, rec := range out.Records {
		s.False(seen[rec.Seq], "duplicate seq %d", rec.Seq)
		seen[rec.Seq] = true
	}
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		open: func(t *testing.T, clk clock.Clock, ids idgen.Generator) ledger.Repository {
			client, cleanup := testutils.CreateTestRedisClient(t)
			t.Cleanup(cleanup)
			repo, err := ledger.NewRedis(&ledger.RedisConfig{Client: client, Clock: clk, IDs: ids})
			if err != nil {
				t.Fatalf("NewRedis: %v", err)
			}
			return repo
		},
	})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		open: func(t *testing.T, clk clock.Clock, ids idgen.Generator) ledger.Repository {
			repo, err := ledger.OpenSQLite(context.Background(), &ledger.SQLiteConfig{
				Path:  filepath.Join(t.TempDir(), "ledger.db"),
				Clock: clk,
				IDs:   ids,
			})
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	})
}

func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("RPG_TRACKER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RPG_TRACKER_TEST_POSTGRES_DSN not set, skipping PostgreSQL integration tests")
	}

	suite.Run(t, &RepositoryTestSuite{
		open: func(t *testing.T, clk clock.Clock, ids idgen.Generator) ledger.Repository {
			ctx := context.Background()
			dropSchema(t, ctx, dsn)
			repo, err := ledger.OpenPostgres(ctx, &ledger.PostgresConfig{DSN: dsn, Clock: clk, IDs: ids})
			if err != nil {
				t.Fatalf("OpenPostgres: %v", err)
			}
			t.Cleanup(repo.Close)
			return repo
		},
	})
}

func dropSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS records; DROP TABLE IF EXISTS characters;`); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
}

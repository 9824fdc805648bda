package replay_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-tracker/internal/replay"
)

type ReplayTestSuite struct {
	suite.Suite
}

func TestReplaySuite(t *testing.T) {
	suite.Run(t, new(ReplayTestSuite))
}

func (s *ReplayTestSuite) TestNoEventsReturnsCapacity() {
	capacity := replay.Pool[int]{8: 3, 6: 1}
	available := replay.Replay(capacity, nil)

	s.Equal(capacity, available)

	available[8] = 0
	s.Equal(3, capacity[8], "replay must not alias the capacity map")
}

func (s *ReplayTestSuite) TestUseAndRestore() {
	capacity := replay.Pool[int]{1: 2, 2: 1}
	events := []replay.Event[int]{
		replay.Use(1),
		replay.Use(2),
		replay.Restore(1),
		replay.Use(1),
	}

	s.Equal(replay.Pool[int]{1: 1, 2: 0}, replay.Replay(capacity, events))
}

func (s *ReplayTestSuite) TestUseAtZeroIsIgnored() {
	capacity := replay.Pool[int]{1: 1}
	events := []replay.Event[int]{
		replay.Use(1),
		replay.Use(1),
		replay.Use(1),
		replay.Restore(1),
	}

	s.Equal(replay.Pool[int]{1: 1}, replay.Replay(capacity, events))
}

func (s *ReplayTestSuite) TestRestoreAtCapacityIsDropped() {
	capacity := replay.Pool[int]{1: 2}

	s.Run("restore before any use is dropped", func() {
		events := []replay.Event[int]{
			replay.Restore(1),
			replay.Use(1),
			replay.Use(1),
		}
		s.Equal(replay.Pool[int]{1: 0}, replay.Replay(capacity, events))
	})

	s.Run("order within a category matters", func() {
		events := []replay.Event[int]{
			replay.Use(1),
			replay.Use(1),
			replay.Restore(1),
		}
		s.Equal(replay.Pool[int]{1: 1}, replay.Replay(capacity, events))
	})
}

func (s *ReplayTestSuite) TestUnknownCategory() {
	capacity := replay.Pool[int]{1: 1}
	events := []replay.Event[int]{replay.Use(9), replay.Restore(9)}

	s.Equal(replay.Pool[int]{1: 1}, replay.Replay(capacity, events))
}

func (s *ReplayTestSuite) TestStringCategories() {
	capacity := replay.Pool[string]{"wand": 7}
	events := replay.Deltas("wand", -3)
	events = append(events, replay.Deltas("wand", 1)...)

	s.Equal(replay.Pool[string]{"wand": 5}, replay.Replay(capacity, events))
}

func (s *ReplayTestSuite) TestInvariantsHoldForRandomHistories() {
	rng := rand.New(rand.NewSource(42))
	capacity := replay.Pool[int]{1: 4, 2: 3, 3: 2, 5: 1}
	categories := []int{1, 2, 3, 4, 5}

	for i := 0; i < 200; i++ {
		var events []replay.Event[int]
		for j := 0; j < rng.Intn(40); j++ {
			category := categories[rng.Intn(len(categories))]
			if rng.Intn(2) == 0 {
				events = append(events, replay.Use(category))
			} else {
				events = append(events, replay.Restore(category))
			}
		}

		first := replay.Replay(capacity, events)
		second := replay.Replay(capacity, events)
		s.Equal(first, second)

		for category, n := range first {
			s.GreaterOrEqual(n, 0)
			s.LessOrEqual(n, capacity[category])
		}
	}
}

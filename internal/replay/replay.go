// Package replay folds use/restore events over a capacity pool.
//
// Hit dice, spell slots and item charges are all stored as a capacity that
// comes from tables plus a history of use and restore events. The available
// pool is recomputed from that history on every read.
package replay

// Action is what an event does to its category
type Action string

// Actions
const (
	ActionUse     Action = "use"
	ActionRestore Action = "restore"
)

// Event is a single use or restore of one unit of a category
type Event[K comparable] struct {
	Category K
	Action   Action
}

// Use builds a use event
func Use[K comparable](category K) Event[K] {
	return Event[K]{Category: category, Action: ActionUse}
}

// Restore builds a restore event
func Restore[K comparable](category K) Event[K] {
	return Event[K]{Category: category, Action: ActionRestore}
}

// Pool maps a category to a count
type Pool[K comparable] map[K]int

// Replay returns the available pool after applying events in order to a
// fresh copy of capacity. A use with nothing available and a restore at
// capacity are dropped. Events for categories without capacity never
// change the result.
func Replay[K comparable](capacity Pool[K], events []Event[K]) Pool[K] {
	available := make(Pool[K], len(capacity))
	for category, n := range capacity {
		available[category] = n
	}

	for _, event := range events {
		switch event.Action {
		case ActionUse:
			if available[event.Category] > 0 {
				available[event.Category]--
			}
		case ActionRestore:
			if available[event.Category] < capacity[event.Category] {
				available[event.Category]++
			}
		}
	}

	return available
}

// Deltas expands a signed delta into unit events. Negative deltas are uses,
// positive deltas are restores.
func Deltas[K comparable](category K, delta int) []Event[K] {
	var events []Event[K]
	for ; delta < 0; delta++ {
		events = append(events, Use(category))
	}
	for ; delta > 0; delta-- {
		events = append(events, Restore(category))
	}
	return events
}

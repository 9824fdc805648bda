package tools

import (
	"context"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/orchestrators/actions"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
)

// Fields the adapter rolls for when they are left out
var rolledFields = map[string]string{
	actions.NameUseHitDie: "roll",
	actions.NameShortRest: "rolls",
	actions.NameAddLevel:  "hit_die_roll",
}

func autoRolled(action, field string) bool {
	return rolledFields[action] == field
}

// autoRoll fills in omitted hit die rolls. Values it cannot interpret are
// left for the action to reject.
func (a *Adapter) autoRoll(ctx context.Context, c *call) error {
	field, ok := rolledFields[c.action]
	if !ok {
		return nil
	}
	if _, given := c.fields[field]; given {
		return nil
	}

	switch c.action {
	case actions.NameUseHitDie:
		size, err := strconv.Atoi(c.fields["die_size"])
		if err != nil || size < 1 {
			return nil
		}
		roll, err := a.roller.Roll(size)
		if err != nil {
			return errors.Wrap(err, "failed to roll hit die")
		}
		c.set(field, strconv.Itoa(roll))

	case actions.NameShortRest:
		sizes, ok := parseSizes(c.fields["hit_dice"])
		if !ok || len(sizes) == 0 {
			return nil
		}
		rolls := make([]string, 0, len(sizes))
		for _, size := range sizes {
			roll, err := a.roller.Roll(size)
			if err != nil {
				return errors.Wrap(err, "failed to roll hit dice")
			}
			rolls = append(rolls, strconv.Itoa(roll))
		}
		c.set(field, strings.Join(rolls, ","))

	case actions.NameAddLevel:
		class, ok := a.rules.Class(c.fields["class"])
		if !ok {
			return nil
		}
		out, err := a.service.GetSnapshot(ctx, &tracker.GetSnapshotInput{CharacterID: c.characterID})
		if err != nil {
			return err
		}
		// A first character level takes the full hit die
		if out.Snapshot == nil || out.Snapshot.TotalLevel == 0 {
			c.set(field, strconv.Itoa(class.HitDie))
			return nil
		}
		roll, err := a.roller.Roll(class.HitDie)
		if err != nil {
			return errors.Wrap(err, "failed to roll hit die")
		}
		c.set(field, strconv.Itoa(roll))
	}
	return nil
}

func parseSizes(s string) ([]int, bool) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		size, err := strconv.Atoi(part)
		if err != nil || size < 1 {
			return nil, false
		}
		sizes = append(sizes, size)
	}
	return sizes, true
}

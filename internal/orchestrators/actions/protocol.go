// Package actions validates and commits player actions against a
// character snapshot.
//
// Every action runs the same two passes. The first parses the raw form
// leniently and runs rule checks only for the fields that are present. In
// check mode that is all that happens. Otherwise the form is parsed again
// with every required field enforced and the resulting records are
// appended in one call.
package actions

import (
	"context"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	"github.com/KirkDiggler/rpg-tracker/internal/rules"
	"github.com/KirkDiggler/rpg-tracker/internal/services/tracker"
)

// Env is what an action may read while validating
type Env struct {
	// Snapshot is nil only for character creation
	Snapshot *dnd5e.Snapshot
	Rules    *rules.Book
	Spells   rules.SpellSource
	IDs      idgen.Generator
}

// Effect is the result of a successful validation
type Effect struct {
	Payloads []ledger.Payload
	// Character is set by character creation
	Character *dnd5e.Character
	Summary   string
}

// Action is one player action
type Action interface {
	Name() string
	Description() string
	Schema() Schema
	// Validate runs the rule checks, recording violations on c. The effect
	// is only used when c reports no violations in commit mode. Errors are
	// reserved for failed lookups and never carry rule violations.
	Validate(ctx context.Context, env *Env, c *Check) (*Effect, error)
}

// Check carries the parsed values of one pass and collects violations
type Check struct {
	values Values
	commit bool
	errs   errors.FieldErrors
}

// NewCheck creates a check over parsed values
func NewCheck(values Values, commit bool) *Check {
	if values == nil {
		values = Values{}
	}
	return &Check{values: values, commit: commit, errs: errors.FieldErrors{}}
}

// Committing reports whether this pass will write on success
func (c *Check) Committing() bool {
	return c.commit
}

// Has reports whether every named field was supplied
func (c *Check) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := c.values[name]; !ok {
			return false
		}
	}
	return true
}

// Int returns an int field or zero
func (c *Check) Int(name string) int {
	n, _ := c.values[name].(int)
	return n
}

// IntOr returns an int field or def when absent
func (c *Check) IntOr(name string, def int) int {
	if !c.Has(name) {
		return def
	}
	return c.Int(name)
}

// String returns a string or enum field
func (c *Check) String(name string) string {
	s, _ := c.values[name].(string)
	return s
}

// Bool returns a bool field or false
func (c *Check) Bool(name string) bool {
	b, _ := c.values[name].(bool)
	return b
}

// BoolOr returns a bool field or def when absent
func (c *Check) BoolOr(name string, def bool) bool {
	if !c.Has(name) {
		return def
	}
	return c.Bool(name)
}

// Ints returns an int list field
func (c *Check) Ints(name string) []int {
	list, _ := c.values[name].([]int)
	return list
}

// Fail records a violation on a field
func (c *Check) Fail(field, format string, args ...interface{}) {
	c.errs.Addf(field, format, args...)
}

// Require records a violation only when committing. It is for rules that
// span optional fields and would only be noise while a form is filled in.
func (c *Check) Require(field, format string, args ...interface{}) {
	if c.commit {
		c.errs.Addf(field, format, args...)
	}
}

// Failed reports whether a field already has a violation
func (c *Check) Failed(field string) bool {
	return c.errs.Has(field)
}

// OK reports whether no violation was recorded
func (c *Check) OK() bool {
	return len(c.errs) == 0
}

// Errors returns the recorded violations
func (c *Check) Errors() map[string]string {
	return c.errs
}

// Run executes the two-pass protocol for one action. The returned effect is
// non-nil only when the result is complete and the caller should write it.
func Run(ctx context.Context, act Action, env *Env, raw map[string]string) (*tracker.ActionResult, *Effect, error) {
	checkOnly, err := isCheck(raw)
	if err != nil {
		return nil, nil, err
	}

	schema := act.Schema()
	values, err := schema.Parse(raw, true)
	if err != nil {
		return nil, nil, err
	}

	c := NewCheck(values, !checkOnly)
	effect, err := act.Validate(ctx, env, c)
	if err != nil {
		return nil, nil, err
	}

	result := &tracker.ActionResult{
		Values: echo(raw),
		Errors: c.Errors(),
	}
	if checkOnly || !c.OK() {
		return result, nil, nil
	}

	if _, err := schema.Parse(raw, false); err != nil {
		return nil, nil, err
	}
	if effect == nil {
		return nil, nil, errors.Internalf("action %s produced no effect", act.Name())
	}

	result.Complete = true
	result.Errors = nil
	result.Summary = effect.Summary
	return result, effect, nil
}

func isCheck(raw map[string]string) (bool, error) {
	text := strings.TrimSpace(raw[tracker.FieldIsCheck])
	if text == "" {
		return false, nil
	}
	b, err := parseBool(text)
	if err != nil {
		return false, errors.NewValidationBuilder().
			Fieldf(tracker.FieldIsCheck, "must be true or false").
			Build()
	}
	return b, nil
}

func echo(raw map[string]string) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if k == tracker.FieldIsCheck {
			continue
		}
		out[k] = v
	}
	return out
}

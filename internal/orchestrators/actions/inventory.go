package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
)

var denominations = []string{"cp", "sp", "ep", "gp", "pp"}

func changeCoins() Action {
	schema := make(Schema, 0, len(denominations))
	for _, d := range denominations {
		schema = append(schema, Field{Name: d, Type: FieldInt, Description: "New " + strings.ToUpper(d) + " total"})
	}

	return &definition{
		name:        NameChangeCoins,
		description: "Set coin totals. Omitted denominations keep their current value",
		schema:      schema,
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			coins := env.Snapshot.Coins
			targets := map[string]*int{
				"cp": &coins.CP,
				"sp": &coins.SP,
				"ep": &coins.EP,
				"gp": &coins.GP,
				"pp": &coins.PP,
			}

			var parts []string
			for _, d := range denominations {
				if !c.Has(d) {
					continue
				}
				n := c.Int(d)
				if n < 0 {
					c.Fail(d, "must not be negative")
					continue
				}
				*targets[d] = n
				parts = append(parts, fmt.Sprintf("%d %s", n, d))
			}
			if len(parts) == 0 {
				c.Require("gp", "set at least one coin total")
			}

			return &Effect{
				Payloads: []ledger.Payload{ledger.CoinsPayload{Coins: coins}},
				Summary:  "Set coins to " + strings.Join(parts, ", "),
			}, nil
		},
	}
}

func addItem() Action {
	return &definition{
		name:        NameAddItem,
		description: "Add an item to the inventory",
		schema: Schema{
			{Name: "name", Type: FieldString, Required: true},
			{Name: "kind", Type: FieldEnum, Enum: enumOf([]dnd5e.ItemKind{dnd5e.ItemKindGear, dnd5e.ItemKindArmor, dnd5e.ItemKindShield}), Description: "Defaults to gear"},
			{Name: "base_ac", Type: FieldInt, Description: "Armor base AC"},
			{Name: "dex_cap", Type: FieldInt, Description: "Armor DEX bonus cap, negative for none"},
			{Name: "ac_bonus", Type: FieldInt, Description: "Shield AC bonus"},
			{Name: "max_charges", Type: FieldInt, Description: "Charges when full"},
		},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			kind := dnd5e.ItemKind(c.String("kind"))
			if kind == "" {
				kind = dnd5e.ItemKindGear
			}

			if kind == dnd5e.ItemKindArmor && !c.Has("base_ac") {
				c.Require("base_ac", "armor needs a base AC")
			}
			if c.Has("base_ac") {
				if n := c.Int("base_ac"); n < 1 || n > maxAbilityScore {
					c.Fail("base_ac", "must be between 1 and %d", maxAbilityScore)
				} else if kind != dnd5e.ItemKindArmor {
					c.Fail("base_ac", "only armor has a base AC")
				}
			}
			if c.Has("dex_cap") && kind != dnd5e.ItemKindArmor {
				c.Fail("dex_cap", "only armor has a DEX cap")
			}
			if c.Has("ac_bonus") {
				if c.Int("ac_bonus") < 0 {
					c.Fail("ac_bonus", "must not be negative")
				} else if kind != dnd5e.ItemKindShield {
					c.Fail("ac_bonus", "only shields have an AC bonus")
				}
			}
			if c.Has("max_charges") && c.Int("max_charges") < 0 {
				c.Fail("max_charges", "must not be negative")
			}
			if !c.Has("name") {
				return nil, nil
			}

			dexCap := c.IntOr("dex_cap", -1)
			if kind != dnd5e.ItemKindArmor {
				dexCap = 0
			}
			name := c.String("name")
			// Check passes run on every edit; only a commit takes an id
			itemID := ""
			if c.Committing() {
				itemID = env.IDs.Generate()
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.ItemPayload{
					ItemID:     itemID,
					Name:       name,
					Kind:       kind,
					BaseAC:     c.Int("base_ac"),
					DexCap:     dexCap,
					ACBonus:    c.Int("ac_bonus"),
					MaxCharges: c.Int("max_charges"),
				}},
				Summary: fmt.Sprintf("Add %s (%s)", name, kind),
			}, nil
		},
	}
}

func equipItem() Action {
	return &definition{
		name:        NameEquipItem,
		description: "Equip an item. At most one armor and one shield can be worn",
		schema:      Schema{itemField()},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			it, ok := item(env, c)
			if !ok {
				return nil, nil
			}
			if it.Equipped {
				c.Fail(fieldItemID, "%s is already equipped", it.Name)
			} else if it.Kind != dnd5e.ItemKindGear {
				for _, other := range env.Snapshot.Items {
					if other.Equipped && other.Kind == it.Kind {
						c.Fail(fieldItemID, "unequip %s first", other.Name)
						break
					}
				}
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.ItemEquipPayload{ItemID: it.ID, Equipped: true}},
				Summary:  fmt.Sprintf("Equip %s", it.Name),
			}, nil
		},
	}
}

func unequipItem() Action {
	return &definition{
		name:        NameUnequipItem,
		description: "Unequip an item",
		schema:      Schema{itemField()},
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			it, ok := item(env, c)
			if !ok {
				return nil, nil
			}
			if !it.Equipped {
				c.Fail(fieldItemID, "%s is not equipped", it.Name)
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.ItemEquipPayload{ItemID: it.ID, Equipped: false}},
				Summary:  fmt.Sprintf("Unequip %s", it.Name),
			}, nil
		},
	}
}

func chargeFields() Schema {
	return Schema{
		itemField(),
		{Name: "count", Type: FieldInt, Description: "Number of charges, defaults to 1"},
	}
}

// chargeItem resolves the item and count shared by the charge actions
func chargeItem(env *Env, c *Check) (dnd5e.Item, int, bool) {
	count := c.IntOr("count", 1)
	if count < 1 {
		c.Fail("count", "must be at least 1")
	}
	it, ok := item(env, c)
	if !ok {
		return dnd5e.Item{}, 0, false
	}
	if it.MaxCharges == 0 {
		c.Fail(fieldItemID, "%s has no charges", it.Name)
		return dnd5e.Item{}, 0, false
	}
	return it, count, true
}

func useItemCharge() Action {
	return &definition{
		name:        NameUseItemCharge,
		description: "Spend charges from an item",
		schema:      chargeFields(),
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			it, count, ok := chargeItem(env, c)
			if !ok {
				return nil, nil
			}
			if it.Charges < count {
				c.Fail("count", "%s has %d charges left", it.Name, it.Charges)
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.ItemChargePayload{ItemID: it.ID, Delta: -count}},
				Summary:  fmt.Sprintf("Spend %d charges of %s", count, it.Name),
			}, nil
		},
	}
}

func restoreItemCharge() Action {
	return &definition{
		name:        NameRestoreItemCharge,
		description: "Regain spent item charges",
		schema:      chargeFields(),
		validate: func(_ context.Context, env *Env, c *Check) (*Effect, error) {
			it, count, ok := chargeItem(env, c)
			if !ok {
				return nil, nil
			}
			if spent := it.MaxCharges - it.Charges; spent < count {
				c.Fail("count", "%s has %d charges spent", it.Name, spent)
			}
			return &Effect{
				Payloads: []ledger.Payload{ledger.ItemChargePayload{ItemID: it.ID, Delta: count}},
				Summary:  fmt.Sprintf("Regain %d charges of %s", count, it.Name),
			}, nil
		},
	}
}

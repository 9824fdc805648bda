package client

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

var actCheck bool

var actCmd = &cobra.Command{
	Use:   "act <character-id> <action> [key=value...]",
	Short: "Perform an action on a character",
	Long: `Perform an action on a character, for example:

  rpg-tracker client act char_1 cast_spell class=wizard spell_id=magic-missile slot_level=2
  rpg-tracker client act char_1 short_rest hit_dice=8,8 rolls=5,3 --check`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAct,
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List actions and their fields",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		client, cleanup, err := createClient()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := client.ListActions(ctx)
		if err != nil {
			return callError("actions", err)
		}
		return printResponse(resp)
	},
}

func init() {
	actCmd.Flags().BoolVar(&actCheck, "check", false, "Validate only")
}

func runAct(_ *cobra.Command, args []string) error {
	characterID, action := args[0], args[1]
	form, err := parseForm(args[2:])
	if err != nil {
		return err
	}
	if actCheck {
		form["is_check"] = "true"
	}

	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Printf("Performing %s on %s...", action, characterID)

	resp, err := client.PerformAction(ctx, characterID, action, form)
	if err != nil {
		return callError(action, err)
	}
	return printResponse(resp)
}

package client

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

var createCheck bool

var createCmd = &cobra.Command{
	Use:   "create key=value...",
	Short: "Create a character",
	Long: `Create a character from its origin choices, for example:

  rpg-tracker client create name=Mira species=elf lineage=high-elf background=sage alignment=neutral_good`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().BoolVar(&createCheck, "check", false, "Validate only")
}

func runCreate(_ *cobra.Command, args []string) error {
	form, err := parseForm(args)
	if err != nil {
		return err
	}
	if createCheck {
		form["is_check"] = "true"
	}

	client, cleanup, err := createClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Printf("Creating character %q...", form["name"])

	resp, err := client.CreateCharacter(ctx, form)
	if err != nil {
		return callError("create", err)
	}
	return printResponse(resp)
}

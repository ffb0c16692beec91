package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Load and validate a scenario recipe without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		recipe, err := loadRecipe()
		if err != nil {
			return err
		}
		fmt.Printf("scenario valid: %d builders, %d attacker-builders, %d proposers, %d proposer-builders, %d proposer-attacker-builders, %d chain length\n",
			recipe.Builders.Count, recipe.AttackerBuilders.Count, recipe.Proposers.Count,
			recipe.ProposerBuilders.Count, recipe.ProposerAttackerBuilders.Count, recipe.ChainLength)
		return nil
	},
}

package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/campredict/internal/frontend/render"
	"github.com/cory-johannsen/campredict/internal/game/camping"
)

func newBuildingsCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "buildings <distance>",
		Short: "List the buildings that can be found at a distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			distance, err := strconv.Atoi(args[0])
			if err != nil || distance < camping.MinDistance || distance > camping.MaxDistance {
				return exitError(exitInvalidInput, "distance: %s",
					camping.MsgBetween(camping.MinDistance, camping.MaxDistance))
			}
			_, tables, err := root.loadTables()
			if err != nil {
				return err
			}
			buildings := tables.BuildingsAt(distance)
			if root.jsonOut {
				if buildings == nil {
					buildings = []camping.Building{}
				}
				return writeJSON(cmd.OutOrStdout(), buildings)
			}
			root.print(cmd.OutOrStdout(), render.RenderBuildings(distance, buildings))
			return nil
		},
	}
}

func newTiersCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Show the survival tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tables, err := root.loadTables()
			if err != nil {
				return err
			}
			if root.jsonOut {
				return writeJSON(cmd.OutOrStdout(), tables.Tiers)
			}
			root.print(cmd.OutOrStdout(), render.RenderTiers(tables.Tiers))
			return nil
		},
	}
}

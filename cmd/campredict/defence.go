package main

import (
	"github.com/spf13/cobra"

	"github.com/cory-johannsen/campredict/internal/frontend/render"
	"github.com/cory-johannsen/campredict/internal/game/camping"
)

type defenceFlags struct {
	od           int
	improvements int
	carry        float64
}

func newDefenceCmd(root *rootFlags) *cobra.Command {
	f := &defenceFlags{}

	cmd := &cobra.Command{
		Use:   "defence",
		Short: "Compute the current and maximum camping defence",
		Long: "Compute the current and maximum camping defence. Values are not validated:\n" +
			"out-of-range counts give the neutral result.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := camping.ComputeDefence(f.od, f.improvements, f.carry)
			if root.jsonOut {
				return writeJSON(cmd.OutOrStdout(), d)
			}
			root.print(cmd.OutOrStdout(), render.RenderDefence(d, false, 0))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.od, "od", 0, "Defence objects installed")
	flags.IntVar(&f.improvements, "improvements", 0, "Camping improvements made")
	flags.Float64Var(&f.carry, "carry", 0, "Defence carried over from the previous day")

	return cmd
}

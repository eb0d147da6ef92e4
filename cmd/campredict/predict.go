package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/campredict/internal/frontend/render"
	"github.com/cory-johannsen/campredict/internal/game/camping"
)

type predictFlags struct {
	city           string
	job            string
	previousNights int
	pro            bool
	distance       int
	zombies        int
	building       string
	improvements   int
	od             int
	carry          float64
	campers        int
	tent           int
	tomb           bool
	night          bool
	lighthouse     bool
	hood           bool
	devastation    bool
}

func newPredictCmd(root *rootFlags) *cobra.Command {
	f := &predictFlags{}
	def := camping.DefaultInput()

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Compute the camping score, survival chance and defence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, root, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.city, "city", string(def.CityType), "City type: RE or Pandé")
	flags.StringVar(&f.job, "job", string(def.Job), "Job: ermite, capuche or autre")
	flags.IntVar(&f.previousNights, "nights", 0, "Nights already spent camping (0-8)")
	flags.BoolVar(&f.pro, "pro", false, "Professional camper")
	flags.IntVar(&f.distance, "distance", def.Distance, "Distance from town in km (1-28)")
	flags.IntVar(&f.zombies, "zombies", 0, "Zombies on the zone")
	flags.StringVar(&f.building, "building", "", "Building camped in (see the buildings command)")
	flags.IntVar(&f.improvements, "improvements", 0, "Camping improvements made (0-10)")
	flags.IntVar(&f.od, "od", 0, "Defence objects installed (0-6)")
	flags.Float64Var(&f.carry, "carry", 0, "Defence carried over from the previous day (0-11.6)")
	flags.IntVar(&f.campers, "campers", 0, "Citizens already camping on the zone (0-6)")
	flags.IntVar(&f.tent, "tent", 0, "Tents on the zone (0-9)")
	flags.BoolVar(&f.tomb, "tomb", false, "Tomb dug")
	flags.BoolVar(&f.night, "night", false, "Camping at night")
	flags.BoolVar(&f.lighthouse, "lighthouse", false, "Town has a lighthouse")
	flags.BoolVar(&f.hood, "hood", false, "Hood worn (capuche only)")
	flags.BoolVar(&f.devastation, "devastation", false, "Town is devastated")

	return cmd
}

func (f *predictFlags) input() (camping.Input, error) {
	city, err := camping.ParseCityType(f.city)
	if err != nil {
		return camping.Input{}, err
	}
	job, err := camping.ParseJob(f.job)
	if err != nil {
		return camping.Input{}, err
	}
	return camping.Input{
		CityType:       city,
		Job:            job,
		PreviousNights: f.previousNights,
		Pro:            f.pro,
		Distance:       f.distance,
		Zombies:        f.zombies,
		Building:       f.building,
		Improvements:   f.improvements,
		OD:             f.od,
		PreviousCarry:  f.carry,
		Campers:        f.campers,
		Tent:           f.tent,
		Tomb:           f.tomb,
		Night:          f.night,
		Lighthouse:     f.lighthouse,
		Hood:           f.hood,
		Devastation:    f.devastation,
	}, nil
}

func runPredict(cmd *cobra.Command, root *rootFlags, f *predictFlags) error {
	_, tables, err := root.loadTables()
	if err != nil {
		return err
	}
	in, err := f.input()
	if err != nil {
		return exitError(exitInvalidInput, "%v", err)
	}

	p, err := camping.Evaluate(in, tables)
	if err != nil {
		var verrs camping.ValidationErrors
		if errors.As(err, &verrs) {
			root.print(cmd.ErrOrStderr(), render.RenderValidation(verrs))
			return exitError(exitInvalidInput, "%d invalid field(s)", len(verrs))
		}
		return exitError(exitInvalidInput, "%v", err)
	}

	if root.jsonOut {
		return writeJSON(cmd.OutOrStdout(), p)
	}
	root.print(cmd.OutOrStdout(), render.RenderPrediction(p))
	return nil
}

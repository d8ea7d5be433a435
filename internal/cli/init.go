package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/loadcalc/internal/factors"
	"github.com/rshade/loadcalc/internal/project"
)

// ErrAborted is returned when the user declines to overwrite a file.
var ErrAborted = errors.New("aborted")

// InitParams holds the parameters for the init command. Exported for testing.
type InitParams struct {
	Path        string
	Name        string
	ClimateZone string
	Length      float64
	Width       float64
	Height      float64
	Force       bool
}

// NewInitCmd creates the "init" command that writes a starter project file.
func NewInitCmd() *cobra.Command {
	var params InitParams

	cmd := &cobra.Command{
		Use:   "init [project-file]",
		Short: "Create a starter project file",
		Long: `Write the default project (no walls or windows, nobody in the room) to a
YAML or JSON file. Room dimensions and climate zone can be set with flags;
walls and windows are added by editing the file.`,
		Example: `  loadcalc init office.yaml --name "Front office" --length 4 --width 3 --zone hot-humid
  loadcalc init room.json --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Path = "project.yaml"
			if len(args) == 1 {
				params.Path = args[0]
			}
			return executeInit(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.Name, "name", "", "project name")
	cmd.Flags().StringVarP(&params.ClimateZone, "zone", "z", "", "climate zone")
	cmd.Flags().Float64Var(&params.Length, "length", 0, "room length in meters")
	cmd.Flags().Float64Var(&params.Width, "width", 0, "room width in meters")
	cmd.Flags().Float64Var(&params.Height, "height", 0, "ceiling height in meters")
	cmd.Flags().BoolVar(&params.Force, "force", false, "overwrite an existing file")

	return cmd
}

// BuildInitialProject returns the default project with the init flags
// applied. Exported for testing.
func BuildInitialProject(params InitParams) (project.ProjectState, error) {
	s := project.CreateDefault()
	s.Name = params.Name
	if params.ClimateZone != "" {
		zone, ok := factors.ParseClimateZone(params.ClimateZone)
		if !ok {
			return project.ProjectState{}, fmt.Errorf("unknown climate zone %q (valid: %v)",
				params.ClimateZone, factors.ClimateZones())
		}
		s.ClimateZone = zone
	}
	if params.Length < 0 || params.Width < 0 || params.Height < 0 {
		return project.ProjectState{}, errors.New("room dimensions cannot be negative")
	}
	if params.Length > 0 && params.Width > 0 {
		s.Dimensions = project.Dimensions{Length: params.Length, Width: params.Width, Height: params.Height}
		s.RoomVolume = 0
	}
	return project.Normalize(s), nil
}

func executeInit(cmd *cobra.Command, params InitParams) error {
	if _, err := os.Stat(params.Path); err == nil && !params.Force {
		res := ConfirmOverwrite(cmd.OutOrStdout(), cmd.InOrStdin(), params.Path, isTerminal(os.Stdin))
		if !res.Accepted {
			return fmt.Errorf("%w: %s already exists, use --force to overwrite", ErrAborted, params.Path)
		}
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot access %s: %w", params.Path, err)
	}

	s, err := BuildInitialProject(params)
	if err != nil {
		return err
	}
	if err := project.Save(s, params.Path); err != nil {
		return err
	}

	cmd.Printf("Project written to %s\n", params.Path)
	return nil
}

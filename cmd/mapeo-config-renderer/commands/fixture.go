package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/digidem/mapeo-config-renderer/internal/fixture"
)

var fixtureCmd = &cobra.Command{
	Use:   "fixture <legacy|comapeo> <out-dir>",
	Short: "Write a sample configuration project",
	Long: `Write a complete sample configuration to out-dir. "legacy" produces a
Mapeo project with sorted presets and sized icons; "comapeo" produces a
CoMapeo project with colors, translations and a stylesheet.`,
	Args: cobra.ExactArgs(2),
	RunE: runFixture,
}

func runFixture(cmd *cobra.Command, args []string) error {
	kind, err := fixture.ParseKind(args[0])
	if err != nil {
		return err
	}
	if err := fixture.Write(afero.NewOsFs(), args[1], kind); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s configuration to %s\n", kind, args[1])
	return nil
}

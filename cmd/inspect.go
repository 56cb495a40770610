package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/retrograde/internal/retrograde"
	"github.com/papapumpkin/retrograde/internal/summary"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input_json_file>",
		Short: "Print the bit assignment and row counts of an input file as TOML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			ds, err := retrograde.ExtractFile(args[0])
			if err != nil {
				return err
			}
			data, err := summary.Marshal(summary.Build(args[0], ds))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

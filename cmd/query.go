package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/retrograde/internal/retrograde"
	"github.com/papapumpkin/retrograde/internal/ui"
)

var (
	errUnsorted = errors.New("input dates are not in increasing order; lookup needs a chronological table")
	errNoData   = errors.New("date is outside the range covered by the input")
)

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <input_json_file> <YYYY-MM-DD>",
		Short: "Show which bodies are in retrograde on a date",
		Long: `Looks up the state in effect at midnight UTC of the given date with the same
binary search a consumer of the generated C table would use: an exact match,
otherwise the last row before the date. Dates before the first row or after
the last row have no answer.`,
		Args: cobra.ExactArgs(2),
		RunE: runQuery,
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	_, log, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	ds, err := retrograde.ExtractFile(args[0])
	if err != nil {
		return err
	}
	if !ds.Sorted() {
		return fmt.Errorf("%s: %w", args[0], errUnsorted)
	}
	ts, err := retrograde.ParseDate(args[1])
	if err != nil {
		return err
	}

	rec, ok := ds.Lookup(ts)
	if !ok {
		return fmt.Errorf("%w: %s", errNoData, args[1])
	}
	log.Debug().Int64("ts", ts).Int64("row", rec.Timestamp).Uint64("bitmap", rec.Bitmap).Msg("lookup")

	ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).Retrograde(ts, ds.Bodies.Set(rec.Bitmap))
	return nil
}

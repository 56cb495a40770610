package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/retrograde/internal/codegen"
	"github.com/papapumpkin/retrograde/internal/config"
	"github.com/papapumpkin/retrograde/internal/logger"
	"github.com/papapumpkin/retrograde/internal/retrograde"
	"github.com/papapumpkin/retrograde/internal/store"
	"github.com/papapumpkin/retrograde/internal/ui"
	"github.com/papapumpkin/retrograde/internal/watch"
)

// modeCommand describes one output-mode subcommand.
type modeCommand struct {
	mode  codegen.Mode
	short string
	long  string
}

var generateC = modeCommand{
	mode:  codegen.ModeC,
	short: "Generate a C header and source holding the retrograde bitmap table",
	long: `Writes <prefix>.h with the body count, BITPOS_/_BIT macros per body, the
record struct and extern declarations, and <prefix>.c with the name table and
one { timestamp, bitmap } entry per kept row.`,
}

var generateSQLite = modeCommand{
	mode:  codegen.ModeSQLite,
	short: "Generate a SQL script that creates and fills the retrograde table",
	long: `Writes <prefix>.sqlite: a CREATE TABLE IF NOT EXISTS statement with one
INTEGER column per body, then one INSERT per kept row. The file is plain SQL
text. Pass --database to also load it into a real SQLite database file.`,
}

func newGenerateCmd(mc modeCommand) *cobra.Command {
	c := &cobra.Command{
		Use:   string(mc.mode) + " <input_json_file> <output_file_prefix>",
		Short: mc.short,
		Long:  mc.long,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, mc.mode, args[0], args[1])
		},
	}
	c.Flags().Bool("watch", false, "regenerate whenever the input file changes")
	if mc.mode == codegen.ModeSQLite {
		c.Flags().String("table", codegen.DefaultTable, "table name")
		c.Flags().String("database", "", "also load the script into this SQLite database file")
	}
	return c
}

// generator runs one extraction and render pass for a fixed input and prefix.
type generator struct {
	mode    codegen.Mode
	input   string
	prefix  string
	cfg     config.Config
	log     logger.Logger
	printer *ui.Printer
}

func runGenerate(cmd *cobra.Command, mode codegen.Mode, input, prefix string) error {
	cmd.SilenceUsage = true

	cfg, log, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	g := &generator{
		mode:    mode,
		input:   input,
		prefix:  prefix,
		cfg:     cfg,
		log:     log,
		printer: ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}

	if err := g.run(cmd.Context()); err != nil {
		return err
	}

	if watching, _ := cmd.Flags().GetBool("watch"); watching {
		return g.watch(cmd.Context())
	}
	return nil
}

// run extracts the input, writes every artifact and, in sqlite mode with a
// database configured, loads the script into it.
func (g *generator) run(ctx context.Context) error {
	ds, err := retrograde.ExtractFile(g.input)
	if err != nil {
		return err
	}
	g.log.Debug().
		Str("input", g.input).
		Int("bodies", ds.Bodies.Len()).
		Int("source_dates", ds.SourceDates).
		Int("records", len(ds.Records)).
		Msg("extracted dataset")

	arts, err := codegen.Render(g.mode, ds, g.prefix, codegen.Options{Table: g.cfg.SQLite.Table})
	if err != nil {
		return err
	}
	for _, a := range arts {
		if err := codegen.WriteFile(a); err != nil {
			return err
		}
		g.log.Debug().Str("file", a.Path).Int("bytes", len(a.Data)).Msg("wrote artifact")
		g.printer.Generated(a.Path)
	}

	if g.mode == codegen.ModeSQLite && g.cfg.SQLite.Database != "" {
		if err := g.load(ctx, string(arts[0].Data), len(ds.Records)); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) load(ctx context.Context, script string, rows int) error {
	db, err := store.Open(ctx, g.cfg.SQLite.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Replace(ctx, g.cfg.SQLite.Table, script); err != nil {
		return fmt.Errorf("loading %s: %w", g.cfg.SQLite.Database, err)
	}
	g.printer.Loaded(g.cfg.SQLite.Database, rows)
	return nil
}

// watch regenerates on every settled change to the input until interrupted.
// Failures are reported and the loop keeps going.
func (g *generator) watch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(g.input, g.cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.Start(); err != nil {
		return err
	}

	g.printer.Watching(g.input)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Changes:
			if !ok {
				return nil
			}
			g.log.Info().Str("input", g.input).Msg("input changed, regenerating")
			if err := g.run(ctx); err != nil {
				g.log.Error().Err(err).Msg("regeneration failed")
				g.printer.Error(err.Error())
			}
		}
	}
}

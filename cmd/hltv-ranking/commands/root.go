package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"hltv-ranking/internal/archive"
	"hltv-ranking/internal/components/telemetry"
	"hltv-ranking/internal/export"
	"hltv-ranking/internal/scrapers/hltv"

	"github.com/spf13/cobra"
)

// usageError is returned for invalid command line input, the usage of the
// command is printed along with it.
type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func (e usageError) Unwrap() error {
	return e.err
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := validate(cmd, args)
		if err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

// parseTarget resolves the optional <ranking_at> argument.
func parseTarget(args []string) (hltv.Target, error) {
	if len(args) == 0 {
		return hltv.Latest(), nil
	}
	date, err := hltv.ParseDate(args[0])
	if err != nil {
		return hltv.Target{}, usageError{err: fmt.Errorf("invalid ranking date %q: %w", args[0], err)}
	}
	return hltv.On(date), nil
}

type flags struct {
	config   string
	archive  string
	dumpHttp string
	verbose  bool
}

// session holds what every command needs once the config has been loaded.
type session struct {
	flags     flags
	config    Config
	telemetry telemetry.Telemetry
	client    *hltv.Client
	archive   *archive.Store
}

func (s *session) open(cmd *cobra.Command) error {
	ctx := cmd.Context()

	config, err := loadConfig(s.flags.config)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	s.config = config

	telemetry.InitSlog(cmd.ErrOrStderr(), s.flags.verbose)

	s.telemetry, err = telemetry.Setup(ctx, "hltv-ranking", config.Telemetry)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	opts := config.clientOptions()
	if s.flags.dumpHttp != "" {
		output, err := telemetry.NewFilesystemOutput(s.flags.dumpHttp)
		if err != nil {
			return fmt.Errorf("prepare http dump: %w", err)
		}
		opts.HttpOutput = output
	}
	s.client = hltv.NewClient(opts, telemetry.SlogAPI{})

	dsn := s.flags.archive
	if dsn == "" {
		dsn = config.Archive
	}
	if dsn != "" {
		store, err := archive.Open(ctx, dsn)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		s.archive = &store
	}

	return nil
}

func (s *session) close(ctx context.Context) {
	if s.archive != nil {
		err := s.archive.Close()
		if err != nil {
			slog.Warn("failed to close archive", "err", err)
		}
		s.archive = nil
	}
	err := s.telemetry.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
	s.telemetry = telemetry.Telemetry{}
}

func (s *session) exporter() export.Exporter {
	exporter := export.Exporter{
		Source:  s.client,
		Options: s.config.encodeOptions(),
	}
	if s.archive != nil {
		exporter.Archive = *s.archive
	}
	return exporter
}

func newRootCmd() (*cobra.Command, *session) {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "hltv-ranking <output_path> [<ranking_at>]",
		Short: "hltv-ranking exports the HLTV world team ranking as json.",
		Long: `hltv-ranking exports the HLTV world team ranking as json.

<output_path> may contain {{ranking_date}}, which is replaced by the date of
the ranking (YYYY-MM-DD). <ranking_at> selects the ranking of the week that
date falls in, the latest ranking is exported if it is omitted.`,
		Example: `  hltv-ranking ranking.json
  hltv-ranking "rankings/{{ranking_date}}.json" 2024-10-23
  hltv-ranking "rankings/{{ranking_date}}.json" "October 23rd, 2024" --archive rankings.db`,
		Args:          usageArgs(cobra.RangeArgs(1, 2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args[1:])
			if err != nil {
				return err
			}
			path, err := s.exporter().ExportToFile(cmd.Context(), args[0], target)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&s.flags.config, "config", "", "The config file to read, defaults to the nearest "+defaultConfigName+".")
	pflags.StringVar(&s.flags.archive, "archive", "", "A sqlite path or libsql url to archive rankings in.")
	pflags.StringVar(&s.flags.dumpHttp, "dump-http", "", "A directory to write every http request and response to.")
	pflags.BoolVarP(&s.flags.verbose, "verbose", "v", false, "Enable debug logging.")

	rootCmd.AddCommand(newShowCmd(s))
	rootCmd.AddCommand(newHistoryCmd(s))

	return rootCmd, s
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd, s := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	s.close(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		var usage usageError
		if errors.As(err, &usage) {
			fmt.Fprintln(stderr)
			fmt.Fprint(stderr, cmd.UsageString())
		}
	}
	return err
}

func ExecuteContext(ctx context.Context) {
	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

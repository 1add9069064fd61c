package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/em-/dumph/config"
	"github.com/em-/dumph/internal/dump"
	phabRepo "github.com/em-/dumph/internal/dump/repository/phabricator"
	"github.com/em-/dumph/internal/dump/usecase"
	"github.com/em-/dumph/internal/export"
	"github.com/em-/dumph/pkg/datemath"
	pkgLog "github.com/em-/dumph/pkg/log"
	"github.com/em-/dumph/pkg/phabricator"
)

var (
	flagTimeout time.Duration
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dumph",
	Short: "Dump Phabricator tasks to a spreadsheet",
	Long: `dumph queries the Maniphest search API of a Phabricator instance and
writes the matching tasks to a spreadsheet file (xlsx or csv), one row per
task under a fixed header row.

The Conduit API token is taken from --token, DUMPH_PHABRICATOR_TOKEN, the
dumph.yaml config file, or arcanist's ~/.arcrc, in that order.`,
	Example: `  dumph --url https://phab.example.com -o tasks.xlsx
  dumph --url https://phab.example.com --project platform --status open --since 2w -o open.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDump,
}

func init() {
	flags := rootCmd.Flags()

	flags.String("url", "", "Phabricator instance base URL")
	flags.String("token", "", "Conduit API token")
	flags.StringP("output", "o", "tasks.xlsx", "output spreadsheet path")
	flags.String("format", "", "output format: xlsx or csv (default: inferred from path)")
	flags.StringSlice("project", nil, "project slug or PHID to filter on (repeatable)")
	flags.StringSlice("status", nil, "task status to filter on, e.g. open, resolved (repeatable)")
	flags.StringSlice("priority", nil, "task priority to filter on, e.g. high, normal (repeatable)")
	flags.StringSlice("owner", nil, "owner username or PHID to filter on (repeatable)")
	flags.String("since", "", "only tasks created on or after this date (2006-01-02, 7d, 2w, today)")
	flags.String("until", "", "only tasks created on or before this date")
	flags.String("text", "", "fulltext search query")
	flags.String("order", "newest", "result order: priority, updated, newest, oldest, closed, title, relevance")
	flags.Int("limit", 0, "stop after this many tasks (0 = all)")
	flags.Int("page-size", 100, "tasks fetched per API call (max 100)")
	flags.DurationVar(&flagTimeout, "timeout", 5*time.Minute, "overall run deadline (0 = none)")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	// Flag > env > config file > default, all through viper.
	viper.BindPFlag("phabricator.url", flags.Lookup("url"))
	viper.BindPFlag("phabricator.token", flags.Lookup("token"))
	viper.BindPFlag("output.path", flags.Lookup("output"))
	viper.BindPFlag("output.format", flags.Lookup("format"))
	viper.BindPFlag("query.projects", flags.Lookup("project"))
	viper.BindPFlag("query.statuses", flags.Lookup("status"))
	viper.BindPFlag("query.priorities", flags.Lookup("priority"))
	viper.BindPFlag("query.owners", flags.Lookup("owner"))
	viper.BindPFlag("query.since", flags.Lookup("since"))
	viper.BindPFlag("query.until", flags.Lookup("until"))
	viper.BindPFlag("query.text", flags.Lookup("text"))
	viper.BindPFlag("query.order", flags.Lookup("order"))
	viper.BindPFlag("query.limit", flags.Lookup("limit"))
	viper.BindPFlag("query.page_size", flags.Lookup("page-size"))
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ResolveToken()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if flagVerbose {
		cfg.Logger.Level = "debug"
	}
	logger := pkgLog.Init(pkgLog.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagTimeout)
		defer cancel()
	}

	input, err := buildInput(cfg)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if format == "" {
		format = export.InferFormat(cfg.Output.Path)
	}
	writer, err := export.New(format)
	if err != nil {
		return err
	}

	client := phabricator.NewClient(cfg.Phabricator.URL, cfg.Phabricator.Token)
	client.SetRateLimit(cfg.Phabricator.RateLimit)
	source := phabRepo.New(client, cfg.Phabricator.URL, logger)
	uc := usecase.New(logger, source)

	logger.Infof(ctx, "dumping tasks from %s", cfg.Phabricator.URL)

	out, err := uc.Dump(ctx, input)
	if err != nil {
		return err
	}

	// The output file is only touched once the whole fetch has succeeded.
	if err := writer.Write(cfg.Output.Path, out.Tasks); err != nil {
		return err
	}

	logger.Infof(ctx, "wrote %d tasks to %s", len(out.Tasks), cfg.Output.Path)
	fmt.Fprintf(cmd.OutOrStdout(), "%d tasks written to %s\n", len(out.Tasks), cfg.Output.Path)
	return nil
}

// buildInput converts the string-level config into a dump query: priority
// names to Conduit values, date expressions to epoch bounds.
func buildInput(cfg *config.Config) (dump.Input, error) {
	input := dump.Input{
		Projects: cfg.Query.Projects,
		Statuses: cfg.Query.Statuses,
		Owners:   cfg.Query.Owners,
		Query:    cfg.Query.Text,
		Order:    cfg.Query.Order,
		Limit:    cfg.Query.Limit,
		PageSize: cfg.Query.PageSize,
	}

	if !phabricator.ValidOrder(input.Order) {
		return dump.Input{}, fmt.Errorf("unknown order %q", input.Order)
	}

	for _, name := range cfg.Query.Priorities {
		v, err := phabricator.PriorityValue(name)
		if err != nil {
			return dump.Input{}, err
		}
		input.Priorities = append(input.Priorities, v)
	}

	if cfg.Query.Since != "" || cfg.Query.Until != "" {
		parser, err := datemath.NewParser(cfg.Query.Timezone)
		if err != nil {
			return dump.Input{}, err
		}
		now := time.Now()
		if cfg.Query.Since != "" {
			since, err := parser.Parse(cfg.Query.Since, now)
			if err != nil {
				return dump.Input{}, fmt.Errorf("invalid --since: %w", err)
			}
			input.Since = since
		}
		if cfg.Query.Until != "" {
			until, err := parser.Parse(cfg.Query.Until, now)
			if err != nil {
				return dump.Input{}, fmt.Errorf("invalid --until: %w", err)
			}
			input.Until = parser.EndOfDay(until)
		}
	}

	return input, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dumph: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/peakmap/internal/duckdb"
	"github.com/inodb/peakmap/internal/genome"
	"github.com/inodb/peakmap/internal/knowngene"
	"github.com/inodb/peakmap/internal/mapper"
	"github.com/inodb/peakmap/internal/output"
	"github.com/inodb/peakmap/internal/peaks"
)

type mapOptions struct {
	genesPath   string
	peaksPath   string
	xrefPath    string
	peakFormat  string
	mapOutput   string
	statsOutput string
	dbPath      string
	verbose     bool
}

func newMapCmd() *cobra.Command {
	var opts mapOptions

	cmd := &cobra.Command{
		Use:   "map [flags] <knownGene file> <peaks file>",
		Short: "Map peaks to the genes whose search window they overlap",
		Long: `Map peaks to genes. Each gene gets a search window reaching
--upstream-window bases upstream of its TSS and --downstream-window bases
past its TES (or TSS with --tss). A peak is assigned to every gene whose
window it overlaps. Use '-' to read peaks from stdin.`,
		Example: `  peakmap map knownGene.txt peaks.bed
  peakmap map --upstream-window 50000 --symbol-xref kgXref.txt knownGene.txt.gz NA_peaks.xls
  peakmap map --intergenic -o map.tsv.gz --db results.duckdb knownGene.txt events.txt`,
		Args: exactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			for key, flag := range map[string]string{
				keyUpstreamWindow:   "upstream-window",
				keyDownstreamWindow: "downstream-window",
				keyTSS:              "tss",
				keyIntergenic:       "intergenic",
				keyWorkers:          "workers",
			} {
				if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.genesPath = args[0]
			opts.peaksPath = args[1]
			cfg, err := configFromViper()
			if err != nil {
				return err
			}
			return runMap(cmd, opts, cfg)
		},
	}

	flags := cmd.Flags()
	flags.Int64("upstream-window", mapper.DefaultUpstreamWindow, "Bases upstream of the TSS included in the search window")
	flags.Int64("downstream-window", mapper.DefaultDownstreamWindow, "Bases downstream of the TES (or TSS with --tss) included in the search window")
	flags.Bool("tss", false, "Measure the downstream window from the TSS instead of the TES")
	flags.Bool("intergenic", false, "Write peaks that overlap no gene, with None as gene id")
	flags.Int("workers", 0, "Number of chromosomes mapped concurrently (0 = number of CPUs)")
	flags.StringVar(&opts.xrefPath, "symbol-xref", "", "kgXref table; adds the gene symbol as second output column")
	flags.StringVar(&opts.peakFormat, "peak-format", string(peaks.FormatAuto), "Peak file format: auto, bed, macs, gps")
	flags.StringVarP(&opts.mapOutput, "map-output", "o", "", "Mapping output file, .gz for gzip (default: stdout)")
	flags.StringVar(&opts.statsOutput, "stats-output", "", "Summary statistics output file (default: stderr)")
	flags.StringVar(&opts.dbPath, "db", "", "Also store the associations in this DuckDB database")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Show debug messages")

	return cmd
}

// configFromViper resolves the mapping options from flags, environment
// and config file. Values that do not convert are rejected rather than
// read as zero.
func configFromViper() (mapper.Config, error) {
	var cfg mapper.Config
	var err error

	if cfg.UpstreamWindow, err = cast.ToInt64E(viper.Get(keyUpstreamWindow)); err != nil {
		return cfg, configError(keyUpstreamWindow, err)
	}
	if cfg.DownstreamWindow, err = cast.ToInt64E(viper.Get(keyDownstreamWindow)); err != nil {
		return cfg, configError(keyDownstreamWindow, err)
	}
	if cfg.UseTSSForDownstream, err = cast.ToBoolE(viper.Get(keyTSS)); err != nil {
		return cfg, configError(keyTSS, err)
	}
	if cfg.ReportIntergenic, err = cast.ToBoolE(viper.Get(keyIntergenic)); err != nil {
		return cfg, configError(keyIntergenic, err)
	}
	if cfg.Workers, err = cast.ToIntE(viper.Get(keyWorkers)); err != nil {
		return cfg, configError(keyWorkers, err)
	}
	return cfg, nil
}

func configError(key string, err error) error {
	return usageError{fmt.Errorf("%w: %s: %v", genome.ErrConfiguration, key, err)}
}

func runMap(cmd *cobra.Command, opts mapOptions, cfg mapper.Config) error {
	if err := cfg.Validate(); err != nil {
		return usageError{err}
	}
	format, err := peaks.ParseFormat(opts.peakFormat)
	if err != nil {
		return usageError{err}
	}

	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	genes, err := loadGenes(logger, opts)
	if err != nil {
		return err
	}

	parser, err := peaks.NewParser(opts.peaksPath, format)
	if err != nil {
		return err
	}
	defer parser.Close()

	ps, err := parser.ReadAll()
	if err != nil {
		return fmt.Errorf("reading peaks: %w", err)
	}
	logger.Info("loaded peaks",
		zap.String("path", opts.peaksPath),
		zap.String("format", string(parser.Format())),
		zap.Int("count", len(ps)))

	m := mapper.New(cfg)
	m.SetLogger(logger)
	res, err := m.Map(cmd.Context(), genes, ps)
	if err != nil {
		return err
	}

	if err := writeMap(cmd, opts, res); err != nil {
		return err
	}
	if err := writeStats(cmd, opts, cfg, res); err != nil {
		return err
	}

	if opts.dbPath != "" {
		if err := storeRun(logger, opts, cfg, res); err != nil {
			return err
		}
	}
	return nil
}

func loadGenes(logger *zap.Logger, opts mapOptions) ([]*genome.Gene, error) {
	genes, err := knowngene.NewLoader(opts.genesPath).Load()
	if err != nil {
		return nil, fmt.Errorf("loading genes: %w", err)
	}
	logger.Info("loaded genes", zap.String("path", opts.genesPath), zap.Int("count", len(genes)))

	if opts.xrefPath == "" {
		return genes, nil
	}
	xref, err := knowngene.LoadXref(opts.xrefPath)
	if err != nil {
		return nil, fmt.Errorf("loading symbol xref: %w", err)
	}
	n := xref.Apply(genes)
	logger.Info("applied gene symbols", zap.String("path", opts.xrefPath), zap.Int("matched", n))
	if n < len(genes) {
		logger.Debug("genes without symbol", zap.Int("count", len(genes)-n))
	}
	return genes, nil
}

func writeMap(cmd *cobra.Command, opts mapOptions, res *mapper.Result) error {
	out, err := output.Create(opts.mapOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	w := output.NewTabWriter(out, opts.xrefPath != "")
	if err := mapper.WriteAll(res, w); err != nil {
		out.Close()
		return fmt.Errorf("writing map output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing map output: %w", err)
	}
	return nil
}

func writeStats(cmd *cobra.Command, opts mapOptions, cfg mapper.Config, res *mapper.Result) error {
	out, err := output.Create(opts.statsOutput, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if err := output.WriteStats(out, cfg, res.Stats); err != nil {
		out.Close()
		return fmt.Errorf("writing stats: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing stats output: %w", err)
	}
	return nil
}

func storeRun(logger *zap.Logger, opts mapOptions, cfg mapper.Config, res *mapper.Result) error {
	store, err := duckdb.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := duckdb.NewRun(opts.genesPath, opts.peaksPath, cfg)
	if err != nil {
		return err
	}
	if err := store.WriteRun(run, res); err != nil {
		return fmt.Errorf("storing run: %w", err)
	}
	logger.Info("stored associations",
		zap.String("db", store.Path()),
		zap.String("run_id", run.ID))
	return nil
}

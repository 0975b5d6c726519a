package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sarchlab/spmdbench/config"
	"github.com/sarchlab/spmdbench/telemetry"
	"github.com/sarchlab/spmdbench/variant"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string

	benches    []string
	strategies []string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "spmdbench",
		Short: "Build and measure SPMD benchmark variants on Nyuzi",
		Long: `spmdbench compiles each benchmark as scalar, SPMD, and intrinsics
variants, runs every image on the Nyuzi simulator, and derives speedups
and code-size increases into a CSV report.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./spmdbench.yaml)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.IntP("jobs", "j", 1, "Variants built and measured concurrently")
	flags.Int("runs", 3, "Simulator runs per image")
	flags.String("policy", "strict", "Run reduction policy (strict, majority, retry)")
	flags.StringSliceVar(&a.benches, "bench", nil, "Only these benchmarks")
	flags.StringSliceVar(&a.strategies, "strategy", nil, "Only these strategies (scalar, spmd, intrin)")

	bindFlags(a.v, flags, "verbose", "jobs", "runs", "policy")

	root.AddCommand(
		newRunCmd(a),
		newAnalyseCmd(a),
		newAllCmd(a),
		newCheckCmd(a),
		newListCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = telemetry.InitLogger(cfg.Verbose, cfg.LogFormat, os.Stderr)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

// suite returns the configured benchmark suite.
func (a *app) suite() (variant.Suite, error) {
	if a.cfg.SuiteFile == "" {
		return variant.DefaultSuite(), nil
	}
	return variant.LoadSuite(a.cfg.SuiteFile)
}

// jobs enumerates the build matrix after applying the command-line filter.
func (a *app) jobs() ([]variant.Job, error) {
	s, err := a.suite()
	if err != nil {
		return nil, err
	}
	f, err := variant.NewFilter(a.benches, a.strategies)
	if err != nil {
		return nil, err
	}
	jobs := variant.Enumerate(s, f)
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no benchmark variants match the filter")
	}
	return jobs, nil
}

// bindFlags makes the named flags override the matching config keys.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = v.BindPFlag(name, fs.Lookup(name))
	}
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/pulsesim"
	"github.com/db47h/pulsesim/internal/netlist"
)

var (
	configPath string
	cfg        = DefaultConfig()
	logger     = slog.New(discardHandler)

	expectCount uint64
	expectFirst uint64

	rootCmd = &cobra.Command{
		Use:           "pulsesim",
		Short:         "Simulate pulse propagation networks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				c, err := LoadConfig(configPath)
				if err != nil {
					return err
				}
				applyConfig(cmd, c)
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid options")
			}
			logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.level()}))
			return nil
		},
	}

	countCmd = &cobra.Command{
		Use:   "count FILE",
		Short: "Press the button and print the product of the low and high pulse counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			c, err := pulsesim.NewSimulator(net, pulsesim.WithLogger(logger)).Run(cfg.Presses)
			if err != nil {
				return err
			}
			logger.Info("pulses counted", "presses", cfg.Presses, "low", c.Low, "high", c.High)
			p, err := c.Product()
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), "count", p)
			return nil
		},
	}

	firstCmd = &cobra.Command{
		Use:   "first FILE",
		Short: "Print the first press during which the target receives a low pulse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			p, err := pulsesim.Solve(cmd.Context(), net, cfg.Target, cfg.solveOptions(logger))
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), "first", p)
			return nil
		},
	}

	periodCmd = &cobra.Command{
		Use:   "period FILE",
		Short: "Print the period of the network state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			p, err := pulsesim.NewSimulator(net, pulsesim.WithLogger(logger)).DetectPeriod(cmd.Context(), cfg.Limit)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), "start", p.Start)
			printResult(cmd.OutOrStdout(), "length", p.Length)
			return nil
		},
	}

	checkCmd = &cobra.Command{
		Use:   "check FILE",
		Short: "Compare count and first results against expected values",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML configuration file")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	pf.Uint64Var(&cfg.Limit, "limit", cfg.Limit, "maximum number of presses per simulation")

	countCmd.Flags().Uint64VarP(&cfg.Presses, "presses", "n", cfg.Presses, "number of button presses")

	for _, c := range []*cobra.Command{firstCmd, checkCmd} {
		f := c.Flags()
		f.StringVarP(&cfg.Target, "target", "t", cfg.Target, "module or sink waiting for a low pulse")
		f.BoolVar(&cfg.AssumeCounters, "assume-counters", cfg.AssumeCounters,
			"combine branch periods with LCM; the target's feeder inputs must be free running counters")
		f.IntVar(&cfg.Workers, "workers", cfg.Workers, "branches simulated in parallel (0: GOMAXPROCS)")
	}
	checkCmd.Flags().Uint64VarP(&cfg.Presses, "presses", "n", cfg.Presses, "number of button presses")
	checkCmd.Flags().Uint64Var(&expectCount, "expect-count", 0, "expected count result (0: skip)")
	checkCmd.Flags().Uint64Var(&expectFirst, "expect-first", 0, "expected first result (0: skip)")

	rootCmd.AddCommand(countCmd, firstCmd, periodCmd, checkCmd)
}

// applyConfig copies the values of file into cfg, except for options set on
// the command line.
func applyConfig(cmd *cobra.Command, file Config) {
	set := cmd.Flags().Changed
	if !set("presses") {
		cfg.Presses = file.Presses
	}
	if !set("target") {
		cfg.Target = file.Target
	}
	if !set("limit") {
		cfg.Limit = file.Limit
	}
	if !set("workers") {
		cfg.Workers = file.Workers
	}
	if !set("assume-counters") {
		cfg.AssumeCounters = file.AssumeCounters
	}
	if !set("log-level") {
		cfg.LogLevel = file.LogLevel
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	net, err := loadNetwork(args[0])
	if err != nil {
		return err
	}
	ok := true
	if expectCount != 0 {
		p, err := pulsesim.CountProduct(net.Clone(), cfg.Presses)
		if err != nil {
			return err
		}
		ok = printCheck(cmd.OutOrStdout(), "count", p, expectCount) && ok
	}
	if expectFirst != 0 {
		p, err := pulsesim.Solve(cmd.Context(), net, cfg.Target, cfg.solveOptions(logger))
		if err != nil {
			return err
		}
		ok = printCheck(cmd.OutOrStdout(), "first", p, expectFirst) && ok
	}
	if !ok {
		return errors.New("check failed")
	}
	return nil
}

func loadNetwork(path string) (*pulsesim.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	specs, err := netlist.Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	net, err := pulsesim.Build(specs)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	logger.Debug("network loaded", "file", path, "modules", len(net.Names()))
	return net, nil
}

func execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/geodesim/internal/config"
	"github.com/san-kum/geodesim/internal/storage"
)

var (
	configFile string
	dbPath     string
	logLevel   string

	energy     float64
	momentum   float64
	r0         float64
	maxSteps   int
	step       float64
	integrator string
	preset     string

	logger log.Logger = log.NewNopLogger()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "geodesim",
		Short:         "test-particle orbits around a Schwarzschild black hole",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultStoragePath, "run catalog path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	rootCmd.AddCommand(
		traceCommand(),
		presetsCommand(),
		thresholdCommand(),
		convergeCommand(),
		compareCommand(),
		sweepCommand(),
		mapCommand(),
		listCommand(),
		showCommand(),
		exportCommand(),
		deleteCommand(),
		exploreCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newLogger(name string) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	var opt level.Option
	switch name {
	case "debug":
		opt = level.AllowDebug()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		opt = level.AllowInfo()
	}
	return level.NewFilter(l, opt)
}

// addOrbitFlags registers the per-run inputs. Defaults only apply when
// neither a preset, the config file nor the environment sets a value.
func addOrbitFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().Float64VarP(&energy, "energy", "e", d.Orbit.Energy, "specific energy E")
	cmd.Flags().Float64VarP(&momentum, "momentum", "l", d.Orbit.AngularMomentum, "specific angular momentum L (units of M)")
	cmd.Flags().Float64Var(&r0, "r0", d.Orbit.R0, "initial radius (units of M)")
	cmd.Flags().IntVarP(&maxSteps, "steps", "n", d.Orbit.MaxSteps, "maximum number of steps")
	cmd.Flags().Float64Var(&step, "dphi", d.Integration.Step, "angular step Δφ")
	cmd.Flags().StringVar(&integrator, "integrator", d.Integration.Integrator, "integrator (rk4, verlet, euler)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
}

// loadConfig resolves preset < config file < environment < explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
		}
		cfg.ApplyPreset(p)
	}
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("energy") {
		cfg.Orbit.Energy = energy
	}
	if flags.Changed("momentum") {
		cfg.Orbit.AngularMomentum = momentum
	}
	if flags.Changed("r0") {
		cfg.Orbit.R0 = r0
	}
	if flags.Changed("steps") {
		cfg.Orbit.MaxSteps = maxSteps
	}
	if flags.Changed("dphi") {
		cfg.Integration.Step = step
	}
	if flags.Changed("integrator") {
		cfg.Integration.Integrator = integrator
	}
	if flags.Changed("db") {
		cfg.Storage.Path = dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level.Debug(logger).Log("msg", "config resolved", "E", cfg.Orbit.Energy, "L", cfg.Orbit.AngularMomentum,
		"r0", cfg.Orbit.R0, "steps", cfg.Orbit.MaxSteps, "integrator", cfg.Integration.Integrator)
	return cfg, nil
}

// openStore opens the catalog named by --db, the config file or the
// environment, in that order.
func openStore(cmd *cobra.Command) (*storage.Store, error) {
	path := dbPath
	if !cmd.Flags().Changed("db") {
		cfg := config.DefaultConfig()
		if configFile != "" {
			var err error
			if cfg, err = config.Load(configFile); err != nil {
				return nil, err
			}
		}
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		path = cfg.Storage.Path
	}
	level.Debug(logger).Log("msg", "opening catalog", "path", path)
	return storage.Open(path)
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/geodesim/internal/analysis"
	"github.com/san-kum/geodesim/internal/config"
	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/export"
	"github.com/san-kum/geodesim/internal/geodesic"
	"github.com/san-kum/geodesim/internal/integrators"
	"github.com/san-kum/geodesim/internal/metrics"
	"github.com/san-kum/geodesim/internal/optim"
	"github.com/san-kum/geodesim/internal/orbit"
	"github.com/san-kum/geodesim/internal/storage"
	"github.com/san-kum/geodesim/internal/viz"
)

const (
	plotWidth  = 60
	plotHeight = 24
)

func traceCommand() *cobra.Command {
	var (
		save bool
		plot bool
		name string
	)
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "compute one trajectory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			in, err := cfg.Integrator(orbit.WithLogger(logger))
			if err != nil {
				return err
			}
			p := cfg.Params()
			drift := metrics.NewInvariantDrift(geodesic.NewField(p.L))
			traj, err := in.ComputeWithMetrics(p, drift)
			if errors.Is(err, dynamo.ErrInvalidInitialConditions) {
				return fmt.Errorf("%w: E must be at least %.6f for L=%g at r0=%g, try raising E or L",
					err, geodesic.MinEnergy(p.L, p.R0), p.L, p.R0)
			}
			if err != nil {
				return err
			}

			if plot {
				fmt.Println(viz.NewScene(plotWidth, plotHeight/2, export.ViewRadius([]*orbit.Trajectory{traj})).Render([]*orbit.Trajectory{traj}))
				fmt.Println(viz.RadiusChart(traj, plotWidth, 10))
				fmt.Println()
			}
			if err := printSummary(os.Stdout, traj); err != nil {
				return err
			}
			if traj.Len() > 0 {
				fmt.Printf("invariant     %.8f (E² = %.8f), max drift %.3e\n", drift.Initial(), p.E*p.E, drift.Value())
			}

			if save {
				st, err := openStore(cmd)
				if err != nil {
					return err
				}
				defer st.Close()
				id, err := st.Save(cmd.Context(), storage.Run{
					Name: name, Params: p, Policy: cfg.Dynamo(),
					Integrator: cfg.Integration.Integrator, Trajectory: traj,
				})
				if err != nil {
					return err
				}
				fmt.Printf("\nsaved run %d\n", id)
			}
			return nil
		},
	}
	addOrbitFlags(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "store the run in the catalog")
	cmd.Flags().BoolVar(&plot, "plot", false, "draw the orbit and r(φ)")
	cmd.Flags().StringVar(&name, "name", "", "catalog name for --save")
	return cmd
}

func printSummary(out io.Writer, traj *orbit.Trajectory) error {
	s := analysis.Summarize(traj)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "E\t%g\n", traj.E)
	fmt.Fprintf(w, "L\t%gM\n", traj.L)
	fmt.Fprintf(w, "outcome\t%s\n", traj.Outcome)
	fmt.Fprintf(w, "class\t%s\n", analysis.Classify(traj))
	fmt.Fprintf(w, "samples\t%d\n", s.Samples)
	fmt.Fprintf(w, "r range\t[%.4f, %.4f]\n", s.RMin, s.RMax)
	fmt.Fprintf(w, "swept\t%.3f rad (%.2f rev)\n", s.Swept, s.Revolutions)
	fmt.Fprintf(w, "eccentricity\t%.4f\n", s.Eccentricity)
	fmt.Fprintf(w, "apsides\t%d peri, %d apo\n", s.Periapsides, s.Apoapsides)
	if s.HasPrecession {
		fmt.Fprintf(w, "precession\t%.4f rad/orbit\n", s.Precession)
	}
	return w.Flush()
}

func presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tE\tL\tR0\tSTEPS\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%d\t%s\n", p.Name,
					p.Orbit.Energy, p.Orbit.AngularMomentum, p.Orbit.R0, p.Orbit.MaxSteps, p.Description)
			}
			return w.Flush()
		},
	}
}

func thresholdCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "admissibility threshold and circular orbits for L and r0",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			o := cfg.Orbit
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "V_eff(r0)\t%.6f\n", geodesic.EffectivePotential(o.R0, o.AngularMomentum))
			fmt.Fprintf(w, "E_min\t%.6f\n", geodesic.MinEnergy(o.AngularMomentum, o.R0))
			fmt.Fprintf(w, "E=%g\t%s\n", o.Energy, admissibleLabel(geodesic.Admissible(o.Energy, o.AngularMomentum, o.R0)))

			if e, l, ok := geodesic.CircularOrbit(o.R0); ok {
				stability := "unstable"
				if geodesic.StableCircular(o.R0) {
					stability = "stable"
				}
				fmt.Fprintf(w, "circular at r0\tE=%.6f L=%.6f (%s)\n", e, l, stability)
			} else {
				fmt.Fprintf(w, "circular at r0\tnone inside the photon sphere\n")
			}
			if r, ok := geodesic.CircularRadius(o.AngularMomentum); ok {
				fmt.Fprintf(w, "stable circular for L\tr=%.6f\n", r)
			} else {
				fmt.Fprintf(w, "stable circular for L\tnone, L < √12\n")
			}
			return w.Flush()
		},
	}
	addOrbitFlags(cmd)
	return cmd
}

func admissibleLabel(ok bool) string {
	if ok {
		return "admissible"
	}
	return "rejected"
}

func convergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "converge",
		Short: "step-doubling study at Δφ, Δφ/2, Δφ/4",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			f, err := integrators.Lookup(cfg.Integration.Integrator)
			if err != nil {
				return err
			}
			res, err := analysis.Convergence(cfg.Dynamo(), cfg.Params(), f)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "integrator\t%s\n", cfg.Integration.Integrator)
			fmt.Fprintf(w, "steps\t%g, %g, %g\n", res.Steps[0], res.Steps[1], res.Steps[2])
			fmt.Fprintf(w, "points\t%d\n", res.Points)
			fmt.Fprintf(w, "Σ|r_h - r_h/2|\t%.3e\n", res.Coarse)
			fmt.Fprintf(w, "Σ|r_h/2 - r_h/4|\t%.3e\n", res.Fine)
			fmt.Fprintf(w, "ratio\t%.3f\n", res.Ratio)
			fmt.Fprintf(w, "order\t%.3f (expected %d)\n", res.Order, integrators.Order(cfg.Integration.Integrator))
			return w.Flush()
		},
	}
	addOrbitFlags(cmd)
	return cmd
}

func compareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "compare integrators on the same orbit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("comparing integrators (Δφ=%g, steps=%d)\n\n", cfg.Integration.Step, cfg.Orbit.MaxSteps)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INTEGRATOR\tORDER\tOBSERVED\tOUTCOME\tSAMPLES\tFINAL R\tDRIFT\tTIME")
			for _, name := range integrators.Names() {
				f, err := integrators.Lookup(name)
				if err != nil {
					return err
				}
				in, err := orbit.New(cfg.Dynamo(), orbit.WithStepper(f), orbit.WithLogger(logger))
				if err != nil {
					return err
				}
				drift := metrics.NewInvariantDrift(geodesic.NewField(cfg.Orbit.AngularMomentum))
				start := time.Now()
				traj, err := in.ComputeWithMetrics(cfg.Params(), drift)
				elapsed := time.Since(start)
				if err != nil {
					fmt.Fprintf(w, "%s\t%d\terror: %v\n", name, integrators.Order(name), err)
					continue
				}
				observed := "-"
				if res, err := analysis.Convergence(cfg.Dynamo(), cfg.Params(), f); err == nil {
					observed = strconv.FormatFloat(res.Order, 'f', 3, 64)
				} else {
					level.Warn(logger).Log("msg", "convergence study failed", "integrator", name, "err", err)
				}
				last, _ := traj.Last()
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%.6f\t%.2e\t%v\n", name, integrators.Order(name), observed,
					traj.Outcome, traj.Len(), last.R, drift.Value(), elapsed.Round(time.Microsecond))
			}
			return w.Flush()
		},
	}
	addOrbitFlags(cmd)
	return cmd
}

func sweepCommand() *cobra.Command {
	var (
		from, to float64
		count    int
		workers  int
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "compute a range of energies in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Integration.Workers
			}
			in, err := cfg.Integrator(orbit.WithLogger(logger))
			if err != nil {
				return err
			}
			o := cfg.Orbit
			ps := orbit.EnergySweep(from, to, o.AngularMomentum, o.R0, o.MaxSteps, count)

			start := time.Now()
			trajs, err := in.ComputeAll(cmd.Context(), ps, workers)
			if err != nil {
				return err
			}
			level.Info(logger).Log("msg", "sweep done", "runs", len(ps), "elapsed", time.Since(start))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "E\tOUTCOME\tCLASS\tSAMPLES\tR MIN\tR MAX\tPRECESSION")
			for _, t := range trajs {
				s := analysis.Summarize(t)
				prec := "-"
				if s.HasPrecession {
					prec = fmt.Sprintf("%.4f", s.Precession)
				}
				fmt.Fprintf(w, "%.4f\t%s\t%s\t%d\t%.3f\t%.3f\t%s\n",
					t.E, t.Outcome, analysis.Classify(t), s.Samples, s.RMin, s.RMax, prec)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if save {
				st, err := openStore(cmd)
				if err != nil {
					return err
				}
				defer st.Close()
				for i, t := range trajs {
					if _, err := st.Save(cmd.Context(), storage.Run{
						Name:   fmt.Sprintf("sweep E=%.4f", ps[i].E),
						Params: ps[i], Policy: cfg.Dynamo(),
						Integrator: cfg.Integration.Integrator, Trajectory: t,
					}); err != nil {
						return err
					}
				}
				fmt.Printf("\nsaved %d runs\n", len(trajs))
			}
			return nil
		},
	}
	addOrbitFlags(cmd)
	cmd.Flags().Float64Var(&from, "from", 0.95, "lowest energy")
	cmd.Flags().Float64Var(&to, "to", 1.05, "highest energy")
	cmd.Flags().IntVar(&count, "count", 11, "number of energies")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&save, "save", false, "store every run in the catalog")
	return cmd
}

var classGlyphs = map[analysis.Class]byte{
	analysis.Empty:      ' ',
	analysis.Plunging:   'x',
	analysis.Scattered:  '>',
	analysis.Unstable:   '!',
	analysis.Circular:   'o',
	analysis.Precessing: '*',
	analysis.Bound:      '-',
}

func mapCommand() *cobra.Command {
	var (
		eFrom, eTo float64
		lFrom, lTo float64
		eCount     int
		lCount     int
		workers    int
		target     float64
	)
	cmd := &cobra.Command{
		Use:   "map",
		Short: "classify orbits over an E × L grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Integration.Workers
			}
			in, err := cfg.Integrator(orbit.WithLogger(logger))
			if err != nil {
				return err
			}
			g := &optim.Grid{
				Energies: optim.Linspace(eFrom, eTo, eCount),
				Momenta:  optim.Linspace(lFrom, lTo, lCount),
				R0:       cfg.Orbit.R0,
				MaxSteps: cfg.Orbit.MaxSteps,
			}
			cells, err := g.Scan(cmd.Context(), in, workers)
			if err != nil {
				return err
			}

			fmt.Printf("r0 = %g, E %g..%g across, L %g..%g down\n\n", g.R0, eFrom, eTo, lFrom, lTo)
			for i := len(cells) - 1; i >= 0; i-- {
				row := make([]byte, len(cells[i]))
				for j, c := range cells[i] {
					row[j] = classGlyphs[c.Class]
				}
				fmt.Printf("%7.3f |%s|\n", g.Momenta[i], row)
			}
			fmt.Println("\nx plunging  > scattered  ! unstable  o circular  * precessing  - bound")

			if cmd.Flags().Changed("precession") {
				best, diff, ok := optim.Best(cells, optim.PrecessionTarget(target))
				if !ok {
					fmt.Println("\nno precessing orbit in range")
					return nil
				}
				fmt.Printf("\nclosest to %.4f rad: E=%.4f L=%.4f (%.4f, off by %.2g)\n",
					target, best.E, best.L, best.Summary.Precession, diff)
			}
			return nil
		},
	}
	addOrbitFlags(cmd)
	cmd.Flags().Float64Var(&eFrom, "e-from", 0.94, "lowest energy")
	cmd.Flags().Float64Var(&eTo, "e-to", 1.06, "highest energy")
	cmd.Flags().IntVar(&eCount, "e-count", 48, "energy columns")
	cmd.Flags().Float64Var(&lFrom, "l-from", 3.4, "lowest angular momentum")
	cmd.Flags().Float64Var(&lTo, "l-to", 4.6, "highest angular momentum")
	cmd.Flags().IntVar(&lCount, "l-count", 16, "angular momentum rows")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")
	cmd.Flags().Float64Var(&target, "precession", 0, "report the cell closest to this precession per orbit")
	return cmd
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIME\tE\tL\tR0\tINTEG\tOUTCOME\tSAMPLES")
			for _, run := range runs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%g\t%g\t%s\t%s\t%d\n",
					run.ID,
					run.Name,
					run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					run.Params.E,
					run.Params.L,
					run.Params.R0,
					run.Integrator,
					run.Outcome,
					run.Samples,
				)
			}
			return w.Flush()
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q", arg)
	}
	return id, nil
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			meta, err := st.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			traj, err := st.LoadTrajectory(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("run %d: %s (r0=%g, Δφ=%g, %s)\n\n", meta.ID, meta.Name, meta.Params.R0, meta.Policy.Step, meta.Integrator)
			ts := []*orbit.Trajectory{traj}
			fmt.Println(viz.NewScene(plotWidth, plotHeight/2, export.ViewRadius(ts)).Render(ts))
			if chart := viz.RadiusChart(traj, plotWidth, 10); chart != "" {
				fmt.Println(chart)
				fmt.Println()
			}
			return printSummary(os.Stdout, traj)
		},
	}
}

func exportCommand() *cobra.Command {
	var (
		format string
		out    string
		size   int
	)
	cmd := &cobra.Command{
		Use:   "export [run_id...]",
		Short: "export saved runs as csv, json or svg",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "svg" && len(args) > 1 {
				return fmt.Errorf("%s export takes one run", format)
			}
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			var (
				metas []storage.RunMetadata
				trajs []*orbit.Trajectory
			)
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				meta, err := st.Load(cmd.Context(), id)
				if err != nil {
					return err
				}
				traj, err := st.LoadTrajectory(cmd.Context(), id)
				if err != nil {
					return err
				}
				metas = append(metas, meta)
				trajs = append(trajs, traj)
			}

			w := io.Writer(os.Stdout)
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				err = export.WriteCSV(w, trajs[0])
			case "json":
				m := metas[0]
				err = export.WriteJSON(w, export.NewDocument(m.Name, m.Params, m.Policy, trajs[0]))
			case "svg":
				_, err = io.WriteString(w, export.TrajectoriesToSVG(trajs, size))
			default:
				return fmt.Errorf("unknown format %q (csv, json, svg)", format)
			}
			if err != nil {
				return err
			}
			if out != "" {
				level.Info(logger).Log("msg", "exported", "format", format, "runs", len(trajs), "path", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, json or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&size, "size", 800, "svg width and height in pixels")
	return cmd
}

func deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run_id]",
		Short: "remove a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("deleted run %d\n", id)
			return nil
		},
	}
}

func exploreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive orbit explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			in, err := cfg.Integrator(orbit.WithLogger(logger))
			if err != nil {
				return err
			}
			m := viz.NewExplorer(in, cfg.Params(), orbit.NewCollection())
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	addOrbitFlags(cmd)
	return cmd
}

package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sominlee1211/simsopt/internal/analysis"
	"github.com/sominlee1211/simsopt/internal/config"
	"github.com/sominlee1211/simsopt/internal/storage"
	"github.com/sominlee1211/simsopt/internal/tracing"
	"github.com/sominlee1211/simsopt/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	tmax   float64
	abstol float64
	reltol float64
	vtotal float64
	vtang  float64
	startS float64
	startT float64
	startZ float64
	vacuum bool
	noK    bool

	phis      []float64
	phisStop  bool
	vparsStop bool
	maxFlux   float64
	transits  int

	component int
	plane     int
	outFile   string

	particles int
	workers   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simsopt",
		Short: "particle and field-line tracing for toroidal magnetic fields",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".simsopt", "data directory")

	traceCmd := &cobra.Command{
		Use:   "trace [mode]",
		Short: "trace a particle or field line",
		Long: "Trace a trajectory through a magnetic field. Modes: fieldline, " +
			"fullorbit, gc, gc-boozer.",
		Args: cobra.ExactArgs(1),
		RunE: runTrace,
	}
	traceCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	traceCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	traceCmd.Flags().Float64Var(&tmax, "tmax", config.DefaultTmax, "integration time (arc length for field lines)")
	traceCmd.Flags().Float64Var(&abstol, "abstol", config.DefaultAbsTol, "absolute tolerance")
	traceCmd.Flags().Float64Var(&reltol, "reltol", config.DefaultRelTol, "relative tolerance")
	traceCmd.Flags().Float64Var(&vtotal, "vtotal", config.DefaultVtotal, "total speed")
	traceCmd.Flags().Float64Var(&vtang, "vtang", 0.8*config.DefaultVtotal, "initial parallel speed")
	traceCmd.Flags().Float64Var(&startS, "s", 0.25, "initial s (or x)")
	traceCmd.Flags().Float64Var(&startT, "theta", 0, "initial theta (or y)")
	traceCmd.Flags().Float64Var(&startZ, "zeta", 0, "initial zeta (or z)")
	traceCmd.Flags().BoolVar(&vacuum, "vacuum", true, "use the vacuum guiding-center model")
	traceCmd.Flags().BoolVar(&noK, "no-k", false, "use the K=0 current-carrying model")
	traceCmd.Flags().Float64SliceVar(&phis, "phis", nil, "angular planes to record")
	traceCmd.Flags().BoolVar(&phisStop, "phis-stop", false, "stop at the first angular plane hit")
	traceCmd.Flags().BoolVar(&vparsStop, "vpars-stop", false, "stop at the first vpar=0 crossing")
	traceCmd.Flags().Float64Var(&maxFlux, "max-flux", 0, "stop when s exceeds this bound")
	traceCmd.Flags().IntVar(&transits, "transits", 0, "stop after this many toroidal transits")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a state component of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&component, "component", 0, "state component to plot")

	poincareCmd := &cobra.Command{
		Use:   "poincare [run_id]",
		Short: "plot the Poincaré section of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  poincareRun,
	}
	poincareCmd.Flags().IntVar(&plane, "plane", 0, "angular plane index")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "replay a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  liveRun,
	}
	liveCmd.Flags().IntVar(&component, "component", 0, "state component to follow")

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list available presets for a mode",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets(args[0]) {
				fmt.Println(name)
			}
		},
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "trace a pitch-scanned particle ensemble and report confinement",
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	ensembleCmd.Flags().StringVar(&preset, "preset", "loss", "base preset (gc-boozer)")
	ensembleCmd.Flags().IntVar(&particles, "particles", 32, "number of particles")
	ensembleCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "concurrent traces")

	rootCmd.AddCommand(traceCmd, listCmd, plotCmd, poincareCmd, exportCmd, liveCmd, presetsCmd, ensembleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildConfig(mode string, flags *cobra.Command) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		cfg := config.GetPreset(mode, preset)
		if cfg == nil {
			return nil, fmt.Errorf("no preset %q for mode %q", preset, mode)
		}
		return cfg, nil
	}

	cfg := config.DefaultConfig()
	cfg.Mode = mode
	switch mode {
	case "fieldline", "fullorbit", "gc":
		cfg.Field.Type = "toroidal"
		cfg.Particle.Start = [3]float64{1, 0, 0}
	}
	cfg.Trace.Tmax = tmax
	cfg.Trace.AbsTol = abstol
	cfg.Trace.RelTol = reltol
	cfg.Trace.Vacuum = vacuum
	cfg.Trace.NoK = noK
	cfg.Trace.Phis = phis
	cfg.Trace.PhisStop = phisStop
	cfg.Trace.MaxFlux = maxFlux
	cfg.Trace.MaxTransits = transits
	cfg.Particle.Vtotal = vtotal
	cfg.Particle.Vtang = vtang
	if flags.Flags().Changed("s") || flags.Flags().Changed("theta") || flags.Flags().Changed("zeta") {
		cfg.Particle.Start = [3]float64{startS, startT, startZ}
	}
	if vparsStop {
		cfg.Trace.VPars = []float64{0}
		cfg.Trace.VParsStop = true
	}
	return cfg, nil
}

func traceWithConfig(cfg *config.Config) (*tracing.Result, error) {
	opt := cfg.Options()
	p := cfg.Particle

	switch cfg.Mode {
	case "fieldline":
		f, err := cfg.BuildField()
		if err != nil {
			return nil, err
		}
		return tracing.FieldLine(f, p.Start, opt)

	case "fullorbit":
		f, err := cfg.BuildField()
		if err != nil {
			return nil, err
		}
		vperp := math.Sqrt(p.Vtotal*p.Vtotal - p.Vtang*p.Vtang)
		// parallel along the field at phi=0 is the y direction for a
		// toroidal field; put vperp in the plane
		v := [3]float64{vperp, p.Vtang, 0}
		return tracing.ParticleFullOrbit(f, p.Start, v, p.Mass, p.Charge, opt)

	case "gc":
		f, err := cfg.BuildField()
		if err != nil {
			return nil, err
		}
		return tracing.ParticleGuidingCenter(f, p.Start, p.Mass, p.Charge, p.Vtotal, p.Vtang, opt)

	case "gc-boozer":
		f, err := cfg.BuildBoozerField()
		if err != nil {
			return nil, err
		}
		return tracing.ParticleGuidingCenterBoozer(f, p.Start, p.Mass, p.Charge,
			p.Vtotal, p.Vtang, cfg.Trace.Vacuum, cfg.Trace.NoK, opt)

	default:
		return nil, fmt.Errorf("unknown trace mode %q", cfg.Mode)
	}
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(args[0], cmd)
	if err != nil {
		return err
	}

	res, err := traceWithConfig(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Mode, cfg.Field.Type, cfg.Trace.Tmax, cfg.Trace.AbsTol, cfg.Trace.RelTol, res)
	if err != nil {
		return err
	}

	last := res.Samples[len(res.Samples)-1]
	fmt.Printf("run %s\n", runID)
	fmt.Printf("  samples: %d  events: %d  final t: %.6g\n", len(res.Samples), len(res.Hits), last.T)
	for _, hit := range res.Hits {
		if hit.Kind < 0 {
			fmt.Printf("  stopped by criterion %d at t=%.6g\n", -hit.Kind-1, hit.T)
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tFIELD\tTMAX\tSAMPLES\tEVENTS\tTIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\t%d\t%d\t%s\n",
			run.ID, run.Mode, run.Field, run.Tmax, run.Samples, run.Hits,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	fmt.Println(viz.SeriesPlot(res.Samples, component, args[0], 70, 15))
	return nil
}

func poincareRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	results := []*tracing.Result{res}
	if meta.Field == "boozer" {
		pts := analysis.FluxSection(results, plane)
		fmt.Println(viz.SectionPlot(pts, "s", "theta", 60, 20))
	} else {
		pts := analysis.RealSpaceSection(results, plane)
		fmt.Println(viz.SectionPlot(pts, "R", "Z", 60, 20))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		return storage.ExportJSON(outFile, meta.Mode, meta.Field, meta.Tmax, res)
	}
	return storage.ExportJSONStdout(meta.Mode, meta.Field, meta.Tmax, res)
}

func liveRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return viz.Live(res, meta.Mode, component)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
	} else {
		cfg = config.GetPreset("gc-boozer", preset)
		if cfg == nil {
			return fmt.Errorf("no gc-boozer preset %q", preset)
		}
	}

	f, err := cfg.BuildBoozerField()
	if err != nil {
		return err
	}

	if particles < 2 {
		particles = 2
	}
	p := cfg.Particle
	results, err := tracing.TraceMany(context.Background(), particles, workers, func(i int) (*tracing.Result, error) {
		// scan pitch from deeply trapped to passing
		pitch := -0.95 + 1.9*float64(i)/float64(particles-1)
		opt := cfg.Options()
		opt.ForgetExactPath = true
		return tracing.ParticleGuidingCenterBoozer(f, p.Start, p.Mass, p.Charge,
			p.Vtotal, pitch*p.Vtotal, cfg.Trace.Vacuum, cfg.Trace.NoK, opt)
	})
	if err != nil {
		return err
	}

	st := analysis.Confinement(results)
	fmt.Printf("particles: %d  lost: %d  loss fraction: %.3f\n", st.Total, st.Lost, st.LossFraction)
	if st.Lost > 0 {
		fmt.Printf("mean loss time: %.6g  median: %.6g\n", st.MeanLossTime, st.MedianLossTime)
	}
	return nil
}

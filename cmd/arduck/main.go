package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/arduck/internal/ar"
	"github.com/san-kum/arduck/internal/asset"
	"github.com/san-kum/arduck/internal/automation"
	"github.com/san-kum/arduck/internal/config"
	"github.com/san-kum/arduck/internal/export"
	"github.com/san-kum/arduck/internal/input"
	"github.com/san-kum/arduck/internal/metrics"
	"github.com/san-kum/arduck/internal/optim"
	"github.com/san-kum/arduck/internal/sim"
	"github.com/san-kum/arduck/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	model      string
	seed       int64
	balls      int
	frames     int
	// Scripted touch window for headless runs
	touchFrom int
	touchTo   int
	// Outputs
	gifPath   string
	gifEvery  int
	svgPath   string
	traceSVG  string
	themeName string
	// Ensembles
	runs      int
	sweepName string
	sweepMin  float64
	sweepMax  float64
	sweepN    int
	gridSteps int

	logger = log.New(os.Stderr, "arduck: ", log.LstdFlags)
)

// main registers the commands and opens the preset picker when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "arduck",
		Short:        "drop rubber ducks into an augmented-reality room",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model url, file or builtin:<name>")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "random seed for spawn positions")
	rootCmd.PersistentFlags().IntVar(&balls, "balls", config.DefaultBallCount, "number of ducks")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "terminal AR view; hold the mouse button to pull the ducks",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&themeName, "theme", viz.CurrentTheme.Name, "colour theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless and summarize it",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate")
	runCmd.Flags().IntVar(&touchFrom, "touch-from", -1, "first touched frame")
	runCmd.Flags().IntVar(&touchTo, "touch-to", -1, "first frame after the touch")
	runCmd.Flags().StringVar(&gifPath, "gif", "", "record the run as a GIF")
	runCmd.Flags().IntVar(&gifEvery, "gif-every", 4, "keep every n-th frame in the GIF")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the last frame as SVG")
	runCmd.Flags().StringVar(&traceSVG, "trace-svg", "", "write the mean height plot as SVG")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark scenes of increasing size",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 300, "frames per scene")
	benchCmd.Flags().IntVar(&runs, "runs", 4, "parallel scenes per size")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and compare settling",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepName, "param", "restitution", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.9, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "steps", 4, "number of values")
	sweepCmd.Flags().IntVar(&runs, "runs", 2, "scenes per value")
	sweepCmd.Flags().IntVar(&frames, "frames", 600, "frames per scene")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search restitution and friction for the quietest floor",
		RunE:  runTune,
	}
	tuneCmd.Flags().IntVar(&gridSteps, "steps", 3, "values per parameter")
	tuneCmd.Flags().IntVar(&runs, "runs", 2, "scenes per point")
	tuneCmd.Flags().IntVar(&frames, "frames", 300, "frames per scene")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return config.Save(args[0], cfg)
		},
	}

	rootCmd.AddCommand(liveCmd, runCmd, benchCmd, scriptCmd, sweepCmd, tuneCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves defaults, then the preset, then the config file,
// then explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(preset, configFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("model") {
		cfg.Model = model
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("balls") {
		cfg.Balls.Count = balls
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newSession(cfg *config.Config) ar.Session {
	opts := ar.DefaultOptions()
	opts.Height = cfg.Session.Height
	opts.Sway = cfg.Session.Sway
	return ar.NewSimulated(opts)
}

func runLive(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	if themeName != "" {
		viz.SetTheme(themeName)
	}

	start := func(cfg *config.Config, title string) (viz.Model, error) {
		renderer := viz.NewRenderer(cfg.World.GroundY)
		tracker := input.NewTracker()
		loop, err := sim.Bootstrap(ctx, cfg, sim.Deps{
			Session:  newSession(cfg),
			Loader:   asset.NewLoader(),
			Renderer: renderer,
			Surface:  viz.NewTerminal(cfg.Surface.Cols, cfg.Surface.Rows),
			Touch:    tracker,
			Logger:   logger,
		})
		if err != nil {
			return viz.Model{}, err
		}
		return viz.NewModel(ctx, title, loop, renderer, tracker), nil
	}

	if preset == "" && configFile == "" {
		picker := viz.NewPicker(config.ListPresets(), func(name string) (viz.Model, error) {
			preset = name
			cfg, err := loadConfig(cmd)
			if err != nil {
				return viz.Model{}, err
			}
			return start(cfg, name)
		})
		return viz.RunLive(ctx, picker)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	title := preset
	if title == "" {
		title = "arduck"
	}
	m, err := start(cfg, title)
	if err != nil {
		return err
	}
	return viz.RunLive(ctx, m)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	renderer := viz.NewRenderer(cfg.World.GroundY)
	recorder := viz.NewRecorder(cfg.Surface.Cols, cfg.Surface.Rows, renderer)
	if gifPath != "" {
		recorder.Capture(gifEvery)
	}
	tracker := input.NewTracker()

	loop, err := sim.Bootstrap(ctx, cfg, sim.Deps{
		Session:  newSession(cfg),
		Loader:   asset.NewLoader(),
		Renderer: renderer,
		Surface:  recorder,
		Touch:    tracker,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	trace := metrics.NewHeightTrace(frames)
	loop.AddObserver(trace)
	for _, m := range defaultMetrics(cfg) {
		loop.AddMetric(m)
	}
	if touchFrom >= 0 && touchTo > touchFrom {
		automation.NewTouchScript(tracker, []automation.Window{{From: touchFrom, To: touchTo}}).Attach(loop)
	}

	fmt.Printf("running %d frames with %d ducks...\n", frames, cfg.Balls.Count)
	start := time.Now()
	if err := loop.Run(ctx, sim.Immediate(frames)); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d presented: %d\n", loop.Frames(), recorder.Presented())
	fmt.Printf("simulated: %.2fs\n", loop.World().Time())

	fmt.Println("\nmetrics:")
	printMetrics(loop.Metrics())

	if len(trace.Heights) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(trace.Downsample(80),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("mean duck height (m)"),
		))
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DUCK\tX\tY\tZ\tSPEED")
	for i, p := range loop.Registry().Pairs() {
		pos := p.Body.Position
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%.3f\n", i, pos.X(), pos.Y(), pos.Z(), p.Body.Velocity.Len())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if gifPath != "" {
		if err := recorder.SaveGIF(gifPath, 2*gifEvery); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s (%d frames)\n", gifPath, recorder.Captured())
	}
	if svgPath != "" {
		if err := writeFile(svgPath, export.CanvasToSVG(renderer.Canvas(), 3)); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	if traceSVG != "" {
		if err := writeFile(traceSVG, export.TraceToSVG(trace, 800, 300, "#f2f200")); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", traceSVG)
	}
	return nil
}

func writeFile(path, svg string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteSVG(f, svg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func defaultMetrics(cfg *config.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewMeanHeight(),
		metrics.NewMaxSpeed(),
		metrics.NewSettled(0.05, cfg.World.GroundY+2*cfg.Balls.Radius),
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

// headlessDeps builds collaborators that share one model fetch.
func headlessDeps(cfg *config.Config, cache *asset.Cache) func() sim.Deps {
	return func() sim.Deps {
		renderer := viz.NewRenderer(cfg.World.GroundY)
		return sim.Deps{
			Session:  newSession(cfg),
			Loader:   cache,
			Renderer: renderer,
			Surface:  viz.NewRecorder(cfg.Surface.Cols, cfg.Surface.Rows, renderer),
		}
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	cache := asset.NewCache(asset.NewLoader())
	sizes := []int{base.Balls.Count, 2 * base.Balls.Count, 5 * base.Balls.Count}

	fmt.Printf("benchmarking %s\n\n", base.Model)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DUCKS\tRUNS\tFRAMES\tTIME\tFRAMES/SEC\tSETTLED")

	for _, n := range sizes {
		cfg := *base
		cfg.Balls.Count = n

		ens := sim.NewEnsemble(&cfg, runs, cfg.Seed, frames, headlessDeps(&cfg, cache))
		ens.NewMetrics = func() []sim.Metric { return defaultMetrics(&cfg) }

		start := time.Now()
		results, err := ens.Run(ctx)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		total := 0
		for _, r := range results {
			total += r.Frames
		}
		mean := automation.MeanMetrics(results)
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%.0f%%\n",
			n, runs, frames, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds(), 100*mean["settled"])
	}

	return w.Flush()
}

func runScript(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	cache := asset.NewCache(asset.NewLoader())
	runner := &automation.Runner{
		Base: base,
		NewDeps: func(tracker *input.Tracker) sim.Deps {
			renderer := viz.NewRenderer(base.World.GroundY)
			return sim.Deps{
				Session:  newSession(base),
				Loader:   cache,
				Renderer: renderer,
				Surface:  viz.NewRecorder(base.Surface.Cols, base.Surface.Rows, renderer),
				Touch:    tracker,
				Logger:   logger,
			}
		},
		NewMetrics: defaultMetrics,
		Logger:     logger,
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	results, err := runner.RunScenario(ctx, scenario)
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tSEED\tFRAMES\tTOUCHES\tTIME\tHEIGHT\tSETTLED")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%v\t%.3f\t%.0f%%\n",
			r.Step, r.Preset, r.Seed, r.Frames, r.Grants, r.Elapsed.Round(time.Millisecond),
			r.Metrics["mean_height"], 100*r.Metrics["settled"])
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	sweep := &automation.ParameterSweep{
		Param:    sweepName,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepN,
		Runs:     runs,
		Frames:   frames,
	}
	cache := asset.NewCache(asset.NewLoader())
	results, err := automation.RunSweep(ctx, sweep, base, headlessDeps(base, cache),
		func() []sim.Metric { return defaultMetrics(base) })
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY\tMAX SPEED\tHEIGHT\tSETTLED\n", sweepName)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.3f\t%.3f\t%.0f%%\n",
			r.Value, r.Metrics["kinetic_energy"], r.Metrics["max_speed"], r.Metrics["mean_height"], 100*r.Metrics["settled"])
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	cache := asset.NewCache(asset.NewLoader())
	grid := optim.NewGridSearch(
		[]string{"restitution", "friction"},
		[][]float64{optim.Linspace(0, 0.9, gridSteps), optim.Linspace(0.1, 1, gridSteps)},
	)

	best, score, err := grid.Search(ctx, func(ctx context.Context, params map[string]float64) (float64, error) {
		cfg := *base
		for k, v := range params {
			if err := config.SetParam(&cfg, k, v); err != nil {
				return 0, err
			}
		}
		ens := sim.NewEnsemble(&cfg, runs, cfg.Seed, frames, headlessDeps(&cfg, cache))
		ens.NewMetrics = func() []sim.Metric { return []sim.Metric{metrics.NewKineticEnergy()} }
		results, err := ens.Run(ctx)
		if err != nil {
			return 0, err
		}
		energy := automation.MeanMetrics(results)["kinetic_energy"]
		logger.Printf("restitution=%.2f friction=%.2f energy=%.5f", params["restitution"], params["friction"], energy)
		return energy, nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("quietest floor: restitution=%.2f friction=%.2f (mean kinetic energy %.5f J)\n",
		best["restitution"], best["friction"], score)
	return nil
}

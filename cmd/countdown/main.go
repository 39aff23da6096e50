package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/countdown/internal/automation"
	"github.com/san-kum/countdown/internal/config"
	"github.com/san-kum/countdown/internal/director"
	"github.com/san-kum/countdown/internal/dynamo"
	"github.com/san-kum/countdown/internal/export"
	"github.com/san-kum/countdown/internal/gui"
	"github.com/san-kum/countdown/internal/metrics"
	"github.com/san-kum/countdown/internal/raster"
	"github.com/san-kum/countdown/internal/show"
	"github.com/san-kum/countdown/internal/sim"
	"github.com/san-kum/countdown/internal/storage"
	"github.com/san-kum/countdown/internal/surface"
	"github.com/san-kum/countdown/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	// Window
	fullscreen bool
	hideHUD    bool
	// Terminal
	frameRate int
	themeName string
	// Headless runs
	duration  time.Duration
	startAt   time.Duration
	scenario  string
	autostart bool
	numRuns   int
	noSave    bool
	// Plot and snapshot
	metricNames []string
	svgOut      string
	snapOut     string
	snapAt      time.Duration
	// Sampling
	sampleSize   float64
	sampleStride int
	sampleWidth  int
	sampleHeight int
	// Config output
	writePath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "countdown",
		Short: "particle countdown show",
		RunE:  runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".countdown", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the show in a window",
		RunE:  runGUI,
	}
	for _, c := range []*cobra.Command{rootCmd, guiCmd} {
		c.Flags().BoolVar(&fullscreen, "fullscreen", false, "start fullscreen")
		c.Flags().BoolVar(&hideHUD, "no-hud", false, "hide the frame counter")
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the show in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 0, "frames per second (default from config, at most 30)")
	liveCmd.Flags().StringVar(&themeName, "theme", "midnight", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the show headless against a simulated clock",
		RunE:  runHeadless,
	}
	addHeadlessFlags(runCmd)
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of seeds to run concurrently")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot metric series of a stored run, or of a fresh headless run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	addHeadlessFlags(plotCmd)
	plotCmd.Flags().StringSliceVar(&metricNames, "metric", []string{"convergence", "particles"}, "metrics to plot ("+strings.Join(metrics.Names(), ", ")+")")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the first metric as an SVG chart")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "write one frame of a headless run as SVG",
		RunE:  snapshot,
	}
	addHeadlessFlags(snapshotCmd)
	snapshotCmd.Flags().DurationVar(&snapAt, "at", 5*time.Second, "offset into the run")
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "frame.svg", "output file")

	sampleCmd := &cobra.Command{
		Use:   "sample [text]",
		Short: "rasterise text into particle targets",
		Args:  cobra.ExactArgs(1),
		RunE:  sampleText,
	}
	sampleCmd.Flags().Float64Var(&sampleSize, "size", 200, "font size in pixels")
	sampleCmd.Flags().IntVar(&sampleStride, "stride", 4, "sampling stride in pixels")
	sampleCmd.Flags().IntVar(&sampleWidth, "width", 800, "canvas width")
	sampleCmd.Flags().IntVar(&sampleHeight, "height", 600, "canvas height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("available presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  - %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print or write the effective configuration",
		RunE:  dumpConfig,
	}
	configCmd.Flags().StringVarP(&writePath, "write", "w", "", "write yaml to this path instead of stdout")

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, listCmd, plotCmd, exportCmd, snapshotCmd, sampleCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addHeadlessFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&duration, "time", 30*time.Second, "simulated duration")
	cmd.Flags().DurationVar(&startAt, "start-at", 40*time.Second, "how long before the target the run starts")
	cmd.Flags().StringVar(&scenario, "scenario", "", "scenario file (yaml), or \"walkthrough\"")
	cmd.Flags().BoolVar(&autostart, "autostart", false, "press start twice on the first frame")
	cmd.Flags().IntVar(&frameRate, "fps", 0, "simulated frames per second (default from config)")
}

// loadConfig applies the preset, then the config file, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if f := cmd.Flags().Lookup("fps"); f != nil && f.Changed {
		cfg.FPS = frameRate
	}
	return cfg, cfg.Validate()
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, cfg.TargetAt(time.Now()), gui.Options{
		Fullscreen: fullscreen,
		HUD:        !hideHUD,
	})
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ras, err := raster.New(cfg.Text.FontPath)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("fps") {
		cfg.FPS = min(cfg.FPS, 30)
	}

	surf := viz.NewSurface(80, 24, 5, ras)
	w, h := surf.Size()
	s := show.New(cfg, director.SystemClock{}, cfg.TargetAt(time.Now()), ras, surf, w, h)
	return viz.Run(viz.NewModel(s, surf, cfg.FPS, viz.GetTheme(themeName)))
}

// headless holds what one simulated run needs.
type headless struct {
	cfg      *config.Config
	target   time.Time
	scenario *automation.Scenario
}

func newHeadless(cmd *cobra.Command) (*headless, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	h := &headless{cfg: cfg, target: cfg.TargetAt(time.Now())}
	switch scenario {
	case "":
	case "walkthrough":
		h.scenario = automation.Walkthrough(cfg)
	default:
		h.scenario, err = automation.LoadScenario(scenario)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
	}
	return h, nil
}

// build returns a runner with every metric attached, seeded with s. Each
// runner gets its own rasterizer so ensemble runs share nothing.
func (h *headless) build(s int64) (*sim.Runner, error) {
	cfg := *h.cfg
	cfg.Seed = s

	ras, err := raster.New(cfg.Text.FontPath)
	if err != nil {
		return nil, err
	}
	clock := director.NewFakeClock(h.target.Add(-startAt))
	sh := show.New(&cfg, clock, h.target, ras, ras, cfg.Viewport.Width, cfg.Viewport.Height)
	r := sim.New(sh, clock)
	for _, m := range metrics.All() {
		r.AddMetric(m)
	}
	if h.scenario != nil {
		r.AddObserver(automation.NewPlayer(h.scenario))
	}
	return r, nil
}

func (h *headless) simConfig(d time.Duration) sim.Config {
	return sim.Config{FPS: h.cfg.FPS, Duration: d, Autostart: autostart}
}

func (h *headless) info() storage.RunInfo {
	name := preset
	if name == "" {
		name = "default"
	}
	info := storage.RunInfo{Preset: name, Seed: h.cfg.Seed, FPS: h.cfg.FPS, Duration: duration}
	if h.scenario != nil {
		info.Scenario = h.scenario.Name
	}
	return info
}

func runHeadless(cmd *cobra.Command, args []string) error {
	h, err := newHeadless(cmd)
	if err != nil {
		return err
	}
	if numRuns > 1 {
		return runEnsemble(h)
	}

	runner, err := h.build(h.cfg.Seed)
	if err != nil {
		return err
	}

	fmt.Printf("running %s of the show, starting %s before %s...\n", duration, startAt, h.target.Format(time.RFC3339))
	start := time.Now()

	result, err := runner.Run(context.Background(), h.simConfig(duration))
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return result.Errors[0]
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("final phase: %s\n", result.Final)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(h.info(), result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\ntransitions:")
	for _, tr := range result.Phases {
		fmt.Printf("  %s\n", tr)
	}

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range metrics.Names() {
		fmt.Fprintf(w, "  %s\t%.3f\n", name, result.Metrics[name])
	}
	return w.Flush()
}

func runEnsemble(h *headless) error {
	seedStart := max(h.cfg.Seed, 1)
	fmt.Printf("running %d seeds from %d...\n", numRuns, seedStart)
	start := time.Now()

	results, err := sim.NewEnsemble(h.build, numRuns, seedStart).Run(context.Background(), h.simConfig(duration))
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN")
	for _, name := range metrics.Names() {
		fmt.Fprintf(w, "%s\t%.3f\n", name, sim.Mean(results, name))
	}

	finals := make(map[director.Phase]int)
	for _, r := range results {
		finals[r.Final]++
	}
	for _, p := range director.Phases() {
		if n := finals[p]; n > 0 {
			fmt.Fprintf(w, "final %s\t%d/%d\n", p, n, len(results))
		}
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tFPS\tFRAMES\tFINAL\tSCENARIO")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%s\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FPS,
			run.Frames,
			run.Final,
			run.Scenario,
		)
	}

	return w.Flush()
}

// series returns the stored run's series, or runs the show headless when
// no run id is given.
func series(cmd *cobra.Command, args []string) (string, map[string][]float64, []float64, error) {
	if len(args) == 1 {
		st := storage.New(dataDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return "", nil, nil, err
		}
		data, times, err := st.LoadSeries(meta.ID)
		return meta.ID, data, times, err
	}

	h, err := newHeadless(cmd)
	if err != nil {
		return "", nil, nil, err
	}
	runner, err := h.build(h.cfg.Seed)
	if err != nil {
		return "", nil, nil, err
	}
	result, err := runner.Run(context.Background(), h.simConfig(duration))
	if err != nil {
		return "", nil, nil, err
	}
	return "headless", result.Series, result.Times, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	label, data, times, err := series(cmd, args)
	if err != nil {
		return err
	}

	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", label)
	fmt.Printf("samples: %d\n\n", len(times))

	for _, name := range metricNames {
		values, ok := data[name]
		if !ok {
			return fmt.Errorf("unknown metric %q (available: %v)", name, metrics.Names())
		}
		graph := asciigraph.Plot(values,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time (%.1fs)", name, times[len(times)-1])),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" && len(metricNames) > 0 {
		name := metricNames[0]
		doc := export.SeriesToSVG(times, data[name], 800, 300, "#ffcc00", name)
		if err := os.WriteFile(svgOut, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	var (
		meta *storage.RunMetadata
		err  error
	)
	if len(args) == 1 {
		meta, err = st.Load(args[0])
	} else {
		meta, err = st.Latest()
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func snapshot(cmd *cobra.Command, args []string) error {
	h, err := newHeadless(cmd)
	if err != nil {
		return err
	}
	runner, err := h.build(h.cfg.Seed)
	if err != nil {
		return err
	}

	result, err := runner.Run(context.Background(), h.simConfig(snapAt))
	if err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return result.Errors[0]
	}

	w, hgt := runner.Show().Size()
	svg := export.NewSVG(w, hgt)
	runner.Show().Draw(svg)

	f, err := os.Create(snapOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := svg.WriteTo(f); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %s at %s, %d elements\n", snapOut, result.Final, snapAt, svg.Elements())
	return nil
}

func sampleText(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ras, err := raster.New(cfg.Text.FontPath)
	if err != nil {
		return err
	}

	pts, err := ras.Sample(args[0], sampleSize, sampleWidth, sampleHeight, sampleStride)
	if err != nil {
		return err
	}
	fmt.Printf("%d points at stride %d on %dx%d\n\n", len(pts), sampleStride, sampleWidth, sampleHeight)

	const cols = 80
	scale := float64(sampleWidth) / float64(cols*2)
	rows := int(float64(sampleHeight)/(scale*4)) + 1
	canvas := viz.NewCanvas(cols, rows)

	textColor, err := surface.Hex(cfg.Text.Color)
	if err != nil {
		return err
	}
	for _, p := range pts {
		canvas.Set(int(p.X/scale), int(p.Y/scale), textColor)
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(cfg.Text.Color))
	fmt.Println(frame.Render(canvas.Render()))
	return nil
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if writePath != "" {
		if err := config.Save(writePath, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", writePath)
		return nil
	}
	return config.Write(os.Stdout, cfg)
}

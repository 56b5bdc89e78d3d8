package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/quadmorph/internal/automation"
	"github.com/san-kum/quadmorph/internal/config"
	"github.com/san-kum/quadmorph/internal/export"
	"github.com/san-kum/quadmorph/internal/gui"
	"github.com/san-kum/quadmorph/internal/label"
	"github.com/san-kum/quadmorph/internal/logging"
	"github.com/san-kum/quadmorph/internal/stage"
	"github.com/san-kum/quadmorph/internal/storage"
	"github.com/san-kum/quadmorph/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string
	// Playback overrides
	radius    float64
	segU      int
	segV      int
	increment float64
	delayMs   int
	policy    string
	// View overrides
	locale string
	theme  string
	fps    int
	spin   bool
	// Timeline sampling
	atT       float64
	sweepFrom float64
	sweepTo   float64
	sweepN    int
	outPath   string
	// Recording
	recordStride int
	scriptStride int
)

// main registers the commands and runs the terminal app when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:           "quadmorph",
		Short:         "animated quadric surface morphing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".quadmorph", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "log file; \"off\" discards")
	pf.Float64Var(&radius, "radius", config.DefaultRadius, "surface radius R")
	pf.IntVar(&segU, "segments-u", config.DefaultSegmentsU, "mesh segments across u")
	pf.IntVar(&segV, "segments-v", config.DefaultSegmentsV, "mesh segments across v")
	pf.Float64Var(&increment, "increment", config.DefaultIncrement, "t advance per frame")
	pf.IntVar(&delayMs, "delay-ms", config.DefaultBoundaryDelayMs, "boundary hold in milliseconds")
	pf.StringVar(&policy, "resume-policy", "cancel_on_idle", "pending resume on pause (cancel_on_idle, fire_always)")
	pf.StringVar(&locale, "locale", "nl", "label language (nl, en)")
	pf.StringVar(&theme, "theme", "ocean", "terminal theme")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.BoolVar(&spin, "spin", true, "rotate the surface about z")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the terminal renderer",
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the window renderer",
		RunE:  runGUI,
	}

	labelCmd := &cobra.Command{
		Use:   "label [t]",
		Short: "print the label for t, or a sweep",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printLabel,
	}
	labelCmd.Flags().Float64Var(&sweepFrom, "from", 0, "sweep start")
	labelCmd.Flags().Float64Var(&sweepTo, "to", 6, "sweep end")
	labelCmd.Flags().IntVar(&sweepN, "n", 0, "sweep samples (0 disables)")

	resolveCmd := &cobra.Command{
		Use:   "resolve [t]",
		Short: "show stage and slot bindings for t",
		Args:  cobra.ExactArgs(1),
		RunE:  printResolve,
	}

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "play the whole timeline headless and save the run",
		RunE:  recordRun,
	}
	recordCmd.Flags().IntVar(&recordStride, "stride", 10, "keep every n-th tick")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scenario file and save the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().IntVar(&scriptStride, "stride", 1, "keep every n-th tick")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot t and the morph coefficient of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportOBJCmd := &cobra.Command{
		Use:   "export-obj",
		Short: "write the visible surfaces at t as Wavefront OBJ",
		RunE:  exportOBJ,
	}
	exportOBJCmd.Flags().Float64Var(&atT, "t", 0, "timeline position")
	exportOBJCmd.Flags().StringVarP(&outPath, "out", "o", "quadmorph.obj", "output file")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write the wireframe at t, or a run's t series, as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().Float64Var(&atT, "t", 0, "timeline position")
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "quadmorph.svg", "output file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, labelCmd, resolveCmd, recordCmd, scriptCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportOBJCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if changed(cmd, "radius") {
		cfg.Radius = radius
	}
	if changed(cmd, "segments-u") {
		cfg.SegmentsU = segU
	}
	if changed(cmd, "segments-v") {
		cfg.SegmentsV = segV
	}
	if changed(cmd, "increment") {
		cfg.Playback.Increment = increment
		cfg.Playback.ResumeIncrement = increment
	}
	if changed(cmd, "delay-ms") {
		cfg.Playback.BoundaryDelayMs = delayMs
	}
	if changed(cmd, "resume-policy") {
		cfg.Playback.ResumePolicy = policy
	}
	if changed(cmd, "locale") {
		cfg.View.Locale = locale
	}
	if changed(cmd, "theme") {
		cfg.View.Theme = theme
	}
	if changed(cmd, "fps") {
		cfg.View.FPS = fps
	}
	if changed(cmd, "spin") {
		cfg.View.Spin = spin
	}
	if changed(cmd, "log-level") {
		cfg.Log.Level = logLevel
	}
	if changed(cmd, "log-file") {
		cfg.Log.File = logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup resolves the config and opens the logger. fullscreen commands own
// the terminal, so they only log when a file is configured.
func setup(cmd *cobra.Command, fullscreen bool) (*config.Config, *log.Logger, io.Closer, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	path := cfg.Log.File
	if fullscreen && path == "" {
		path = "off"
	}
	logger, closer, err := logging.New(cfg.Log.Level, path)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closer, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("starting terminal renderer", "theme", cfg.View.Theme, "locale", cfg.View.Locale)
	return viz.New(viz.Options{Config: cfg, Logger: logger}).Run()
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("starting window renderer", "segments", fmt.Sprintf("%dx%d", cfg.SegmentsU, cfg.SegmentsV))
	return gui.Run(gui.Options{Config: cfg, Logger: logger})
}

func parseT(s string) (float64, error) {
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid t %q: %w", s, err)
	}
	return t, nil
}

func printLabel(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	gen := label.New(cfg.Locale())

	if sweepN > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "T\tSTAGE\tMORPH\tEXACT\tLABEL")
		for _, r := range automation.Sweep(gen, sweepFrom, sweepTo, sweepN) {
			fmt.Fprintf(w, "%.3f\t%s\t%.3f\t%v\t%s\n",
				r.T, r.Stage, r.Morph, r.Label.Exact,
				strings.ReplaceAll(viz.PlainLabel(r.Markup), "\n\n", " | "))
		}
		return w.Flush()
	}

	if len(args) == 0 {
		return fmt.Errorf("label needs t or --n")
	}
	t, err := parseT(args[0])
	if err != nil {
		return err
	}
	markup := gen.Label(t)
	fmt.Println(markup)
	fmt.Println()
	fmt.Println(viz.PlainLabel(markup))
	return nil
}

func printResolve(cmd *cobra.Command, args []string) error {
	t, err := parseT(args[0])
	if err != nil {
		return err
	}
	res := stage.Resolve(t)
	fmt.Printf("t: %g\n", t)
	fmt.Printf("stage: %s\n", res.Stage)
	fmt.Printf("morph: %.4f\n\n", label.Morph(t))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tFAMILY\tVISIBLE")
	for _, s := range stage.Slots() {
		b := res.Bindings[s]
		family := "-"
		if b.Active {
			family = b.Family.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%v\n", s, family, b.Active)
	}
	return w.Flush()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func recordRun(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := signalContext()
	defer cancel()

	sc := &automation.Scenario{
		Name: "timeline",
		Steps: []automation.Step{
			{Action: "play"},
			{Action: "run_to_end"},
		},
	}
	return saveHeadless(ctx, cfg, logger, sc, "record", recordStride)
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return saveHeadless(ctx, cfg, logger, sc, "script", scriptStride)
}

func saveHeadless(ctx context.Context, cfg *config.Config, logger *log.Logger, sc *automation.Scenario, kind string, stride int) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s...\n", sc.Name)
	h, runErr := runHeadless(ctx, cfg, logger, sc, stride)
	if h == nil {
		return runErr
	}

	meta := storage.RunMetadata{
		Kind:     kind,
		Name:     sc.Name,
		Settings: settingsOf(cfg),
		FinalT:   h.Result.Final.T,
		Metrics:  h.Metrics,
	}
	runID, err := st.Save(meta, h.Samples)
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  frames: %d  final t: %.4f\n", h.Result.Steps, h.Result.Frames, h.Result.Final.T)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(h.Metrics) {
		fmt.Printf("  %s: %.4f\n", name, h.Metrics[name])
	}
	return runErr
}

func settingsOf(cfg *config.Config) storage.Settings {
	return storage.Settings{
		Radius:          cfg.Radius,
		SegmentsU:       cfg.SegmentsU,
		SegmentsV:       cfg.SegmentsV,
		Increment:       cfg.Playback.Increment,
		BoundaryDelayMs: cfg.Playback.BoundaryDelayMs,
		ResumePolicy:    cfg.PlaybackOptions().Policy.String(),
		Locale:          string(cfg.Locale()),
	}
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
	fmt.Fprintln(w, "ID\tKIND\tNAME\tTIME\tFRAMES\tFINAL T\tPAUSES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.3f\t%.0f\n",
			run.ID,
			run.Kind,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.FinalT,
			run.Metrics["boundary_pauses"],
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []storage.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("samples: %d\n\n", len(samples))

	ts := storage.Series(samples)
	coef := make([]float64, len(ts))
	for i, t := range ts {
		coef[i] = label.Morph(t)
	}
	fmt.Println(asciigraph.Plot(ts,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("t over frames"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(coef,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("morph coefficient"),
	))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, samples)
}

func exportOBJ(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sc := export.NewScene(atT, cfg.Radius, cfg.SegmentsU, cfg.SegmentsV)
	defer sc.Close()
	if err := export.SaveOBJ(outPath, sc); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s, %d objects)\n", outPath, sc.Stage, len(sc.Parts))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	var doc string
	if len(args) == 1 {
		_, samples, err := loadRun(args[0])
		if err != nil {
			return err
		}
		xs := make([]float64, len(samples))
		ys := make([]float64, len(samples))
		for i, s := range samples {
			xs[i], ys[i] = float64(s.ElapsedMs)/1000, s.T
		}
		doc = export.SeriesToSVG(xs, ys, 800, 300, "#00a8cc")
		if doc == "" {
			return fmt.Errorf("no data to export")
		}
	} else {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		sc := export.NewScene(atT, cfg.Radius, cfg.SegmentsU, cfg.SegmentsV)
		defer sc.Close()
		cam := viz.NewCamera(cfg.View.CameraDistance)
		doc = export.SceneToSVG(sc, cam, 800, 800, string(viz.GetTheme(cfg.View.Theme).Surface))
	}

	if err := os.WriteFile(outPath, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

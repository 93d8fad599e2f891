package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/dtsim/internal/config"
	"github.com/san-kum/dtsim/internal/dsys"
	"github.com/san-kum/dtsim/internal/metrics"
	"github.com/san-kum/dtsim/internal/store"
	"github.com/san-kum/dtsim/internal/viz"
)

var (
	dataDir string
	ts      float64
	steps   int
	kp      float64
	ki      float64
	kd      float64
	// Reference signal shape
	refKind   string
	amplitude float64
	stepTime  float64
	slope     float64
	frequency float64
	offset    float64
	// Transfer function coefficients for --plant transfer
	numer []float64
	denom []float64
	// Config file and preset name
	configFile string
	preset     string
	// Sample dump for the step command
	doDump     bool
	dumpFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dtsim",
		Short: "discrete-time control loop lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dtsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [plant]",
		Short: "run a closed-loop simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoop,
	}
	addLoopFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	stepCmd := &cobra.Command{
		Use:   "step [plant]",
		Short: "open-loop step response of a plant",
		Args:  cobra.ExactArgs(1),
		RunE:  stepResponse,
	}
	stepCmd.Flags().Float64Var(&ts, "ts", config.DefaultTs, "sampling period")
	stepCmd.Flags().IntVar(&steps, "steps", 100, "number of samples")
	stepCmd.Flags().Float64Var(&amplitude, "amplitude", 1.0, "input amplitude")
	stepCmd.Flags().Float64SliceVar(&numer, "b", nil, "numerator coefficients (plant transfer)")
	stepCmd.Flags().Float64SliceVar(&denom, "a", nil, "denominator coefficients (plant transfer)")
	stepCmd.Flags().BoolVar(&doDump, "dump", false, "dump the sampled response after the plot")
	stepCmd.Flags().StringVar(&dumpFormat, "format", "tsv", "dump format: tsv or matlab")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export full run data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [plant]",
		Short: "run the loop with live visualization and tuning",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addLoopFlags(liveCmd)
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	presetsCmd := &cobra.Command{
		Use:   "presets [plant]",
		Short: "list available presets for a plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for plant: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, stepCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLoopFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&ts, "ts", config.DefaultTs, "sampling period")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of samples")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	cmd.Flags().StringVar(&refKind, "ref", "step", "reference kind: step, ramp or sine")
	cmd.Flags().Float64Var(&amplitude, "amplitude", 1.0, "reference amplitude")
	cmd.Flags().Float64Var(&stepTime, "step-time", 0.0, "reference step time")
	cmd.Flags().Float64Var(&slope, "slope", 1.0, "reference ramp slope")
	cmd.Flags().Float64Var(&frequency, "freq", 0.25, "reference sine frequency (hz)")
	cmd.Flags().Float64Var(&offset, "offset", 0.0, "reference offset")
	cmd.Flags().Float64SliceVar(&numer, "b", nil, "numerator coefficients (plant transfer)")
	cmd.Flags().Float64SliceVar(&denom, "a", nil, "denominator coefficients (plant transfer)")
}

// buildConfig merges preset, config file and flags into one Config. Flags
// the user set explicitly win over file and preset values.
func buildConfig(cmd *cobra.Command, plantName string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(plantName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(plantName))
		}
		*cfg = *p
	} else {
		cfg.Plant.Kind = plantName
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("ts") {
		cfg.Ts = ts
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("kp") {
		cfg.PID.Kp = kp
	}
	if cmd.Flags().Changed("ki") {
		cfg.PID.Ki = ki
	}
	if cmd.Flags().Changed("kd") {
		cfg.PID.Kd = kd
	}
	if cmd.Flags().Changed("ref") {
		cfg.Reference.Kind = refKind
	}
	if cmd.Flags().Changed("amplitude") {
		cfg.Reference.Amplitude = amplitude
	}
	if cmd.Flags().Changed("step-time") {
		cfg.Reference.StepTime = stepTime
	}
	if cmd.Flags().Changed("slope") {
		cfg.Reference.Slope = slope
	}
	if cmd.Flags().Changed("freq") {
		cfg.Reference.Frequency = frequency
	}
	if cmd.Flags().Changed("offset") {
		cfg.Reference.Offset = offset
	}
	if cmd.Flags().Changed("b") {
		cfg.Plant.B = numer
	}
	if cmd.Flags().Changed("a") {
		cfg.Plant.A = denom
	}

	return cfg, nil
}

func runLoop(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	l, err := cfg.BuildLoop()
	if err != nil {
		return err
	}
	l.AddMetric(metrics.NewIAE(cfg.Ts))
	l.AddMetric(metrics.NewISE(cfg.Ts))
	l.AddMetric(metrics.NewControlEffort())
	l.AddMetric(metrics.NewOvershoot())

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s loop...\n", cfg.Plant.Kind)
	start := time.Now()

	result, err := l.Run(context.Background(), cfg.Steps)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Plant.Kind, cfg.Reference.Kind, cfg.Ts, cfg.PID.Kp, cfg.PID.Ki, cfg.PID.Kd, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func stepResponse(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Ts = ts
	cfg.Plant.Kind = args[0]
	if cmd.Flags().Changed("b") {
		cfg.Plant.B = numer
	}
	if cmd.Flags().Changed("a") {
		cfg.Plant.A = denom
	}

	pl, err := cfg.BuildPlant()
	if err != nil {
		return err
	}

	outputs := make([]float64, 0, steps)
	for i := 0; i < steps; i++ {
		outputs = append(outputs, pl.Advance(amplitude))
	}

	graph := asciigraph.Plot(outputs,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s step response (u=%g)", args[0], amplitude)),
	)
	fmt.Println(graph)

	if !doDump {
		return nil
	}

	format := dsys.FormatTSV
	if dumpFormat == "matlab" {
		format = dsys.FormatMatlab
	}

	d, ok := pl.(interface {
		Dump(w io.Writer, f dsys.Format) error
	})
	if !ok {
		return fmt.Errorf("plant %s does not support dumping", args[0])
	}
	fmt.Println()
	return d.Dump(os.Stdout, format)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLANT\tREF\tTIME\tSTEPS\tTS\tKP\tKI\tKD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4fs\t%.3f\t%.3f\t%.3f\n",
			run.ID,
			run.Plant,
			run.Reference,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Ts,
			run.Kp,
			run.Ki,
			run.Kd,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	result, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if result.Steps == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("plant: %s, reference: %s\n", meta.Plant, meta.Reference)
	fmt.Printf("samples: %d\n\n", result.Steps)

	fmt.Println(viz.Plot(result, 80, 10))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	result, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	return store.ExportJSONStdout(meta.Plant, meta.Reference, meta.Ts, result)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	l, err := cfg.BuildLoop()
	if err != nil {
		return err
	}

	return viz.Run(l, cfg.Plant.Kind)
}

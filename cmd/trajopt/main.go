package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/trajopt/internal/config"
	"github.com/san-kum/trajopt/internal/nlp"
	"github.com/san-kum/trajopt/internal/ocp"
	"github.com/san-kum/trajopt/internal/problems"
	"github.com/san-kum/trajopt/internal/rollout"
	"github.com/san-kum/trajopt/internal/schemes"
	"github.com/san-kum/trajopt/internal/storage"
	"github.com/san-kum/trajopt/internal/transcribe"
	"github.com/san-kum/trajopt/internal/viz"
)

var (
	dataDir    string
	scheme     string
	intervals  int
	backend    string
	guessMode  string
	seed       int64
	fallback   float64
	substeps   int
	configFile string
	preset     string
	live       bool
	noVerify   bool
	noSave     bool
	plotHeight int
	plotWidth  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trajopt",
		Short: "trajectory optimization lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".trajopt", "data directory")

	solveCmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "transcribe and solve a problem",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVar(&scheme, "scheme", "trapezoidal", "collocation scheme (trapezoidal, hermite-simpson)")
	solveCmd.Flags().IntVar(&intervals, "intervals", config.DefaultIntervals, "mesh intervals")
	solveCmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "NLP backend")
	solveCmd.Flags().StringVar(&guessMode, "guess", config.DefaultGuess, "initial guess (midpoint, random)")
	solveCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for the random guess")
	solveCmd.Flags().Float64Var(&fallback, "fallback", config.DefaultRandomFallback, "sampling half-range for unbounded variables")
	solveCmd.Flags().IntVar(&substeps, "substeps", config.DefaultSubsteps, "RK4 substeps per interval for verification")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	solveCmd.Flags().BoolVar(&live, "live", false, "show live solver view")
	solveCmd.Flags().BoolVar(&noVerify, "no-verify", false, "skip rollout verification")
	solveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trajectory to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run trajectory to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list available problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range problems.List() {
				fmt.Println(name)
			}
			return nil
		},
	}

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list available NLP backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range nlp.List() {
				b, err := nlp.Get(name)
				if err != nil {
					return err
				}
				status := "available"
				if !b.Available() {
					status = "unavailable"
				}
				fmt.Printf("%s\t%s\n", name, status)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [problem]",
		Short: "list available presets for a problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for problem: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(solveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, problemsCmd, backendsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig resolves preset, config file and flags into one run
// config. Flags set on the command line win over the file, which wins
// over the preset.
func buildConfig(cmd *cobra.Command, problem string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Problem = problem

	if preset != "" {
		p := config.GetPreset(problem, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(problem))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
		cfg.Problem = problem
	}

	if cmd.Flags().Changed("scheme") || cfg.Scheme == "" {
		cfg.Scheme = scheme
	}
	if cmd.Flags().Changed("intervals") || cfg.Intervals == 0 {
		cfg.Intervals = intervals
	}
	if cmd.Flags().Changed("backend") || cfg.Backend == "" {
		cfg.Backend = backend
	}
	if cmd.Flags().Changed("guess") || cfg.Guess == "" {
		cfg.Guess = guessMode
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("fallback") {
		cfg.GuessOpts.RandomFallback = fallback
	}
	if cmd.Flags().Changed("substeps") || cfg.Substeps == 0 {
		cfg.Substeps = substeps
	}

	return cfg, cfg.Validate()
}

func buildScheme(cfg *config.Config, solver transcribe.Solver, problem ocp.Problem) (transcribe.Scheme, error) {
	switch cfg.Scheme {
	case "hermite-simpson":
		return schemes.NewHermiteSimpson(solver, problem, cfg.Intervals)
	default:
		return schemes.NewTrapezoidal(solver, problem, cfg.Intervals)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	problem, err := problems.Get(cfg.Problem)
	if err != nil {
		return err
	}

	solver := cfg.Solver()

	// The callback both feeds the live view and records the history
	// for the convergence plot.
	var history []float64
	record := func(iter int, objective, violation, stationarity float64) {
		history = append(history, objective)
	}
	solver.PluginOptions = map[string]any{"iter_callback": nlp.IterFunc(record)}

	s, err := buildScheme(cfg, solver, problem)
	if err != nil {
		return err
	}
	tr := s.Core()

	var guess *ocp.Iterate
	if cfg.Guess == "random" {
		guess = tr.CreateRandomIterateWithinBounds(rand.New(rand.NewSource(cfg.Seed)))
	} else {
		guess = tr.CreateInitialGuessFromBounds()
	}

	fmt.Printf("solving %s (%s, %d intervals, %s backend)...\n", cfg.Problem, cfg.Scheme, cfg.Intervals, cfg.Backend)
	start := time.Now()

	var sol *ocp.Solution
	if live {
		maxIter := 60
		if v, ok := cfg.Options["max_iter"].(int); ok {
			maxIter = v
		}
		sol, err = viz.RunLive(cfg.Problem, cfg.Backend, maxIter, func(cb nlp.IterFunc) (*ocp.Solution, error) {
			solver.PluginOptions["iter_callback"] = nlp.IterFunc(func(iter int, objective, violation, stationarity float64) {
				record(iter, objective, violation, stationarity)
				cb(iter, objective, violation, stationarity)
			})
			return tr.Solve(guess)
		})
	} else {
		sol, err = tr.Solve(guess)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n\n", elapsed)
	fmt.Println(viz.RenderSummary(cfg.Problem, cfg.Scheme, cfg.Backend, sol.Stats))

	if len(history) > 1 {
		fmt.Println(viz.PlotConvergence(history, 8, 60))
		fmt.Println()
	}

	if !noVerify {
		rep, err := rollout.Verify(problem, sol, cfg.Substeps)
		if err != nil {
			fmt.Printf("rollout verification failed: %v\n", err)
		} else {
			fmt.Println("rollout verification:")
			for r, e := range rep.MaxStateError {
				fmt.Printf("  x%d: max drift %.3e, final drift %.3e\n", r, e, rep.FinalStateError[r])
			}
		}
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Problem, cfg.Scheme, cfg.Intervals, cfg.Backend, cfg.Seed, sol)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
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
	fmt.Fprintln(w, "ID\tPROBLEM\tTIME\tSCHEME\tINTERVALS\tBACKEND\tOBJECTIVE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%.6g\n",
			run.ID,
			run.Problem,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Scheme,
			run.Intervals,
			run.Backend,
			run.Stats["objective"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, times, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("problem: %s\n", meta.Problem)
	fmt.Printf("grid points: %d\n\n", len(rows))

	numVars := len(rows[0])
	maxPlots := 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(rows))
		for i := range rows {
			if varIdx < len(rows[i]) {
				data[i] = rows[i][varIdx]
			}
		}
		fmt.Println(viz.PlotSeries(data, fmt.Sprintf("column %d vs grid point", varIdx), plotHeight, plotWidth))
		fmt.Println()
	}

	_ = times
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rows, times, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	for i, t := range times {
		fmt.Print(strconv.FormatFloat(t, 'f', 6, 64))
		for _, v := range rows[i] {
			fmt.Print(",", strconv.FormatFloat(v, 'f', 6, 64))
		}
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, times, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	doc := struct {
		Meta  *storage.RunMetadata `json:"meta"`
		Times []float64            `json:"times"`
		Rows  [][]float64          `json:"rows"`
	}{meta, times, rows}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Package cmd implements C12, the CLI front-end: a single Cobra root
// command translating the flat flag surface of spec §6 into the
// strategy x engine x goal cross product the estimation controller (C9)
// drives, in the manner of the teacher's pkg/cmd/root.go + pkg/cmd/util.go
// split.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/raulmonti/fig/pkg/diag"
	"github.com/raulmonti/fig/pkg/estimate"
	"github.com/raulmonti/fig/pkg/iosa"
	"github.com/raulmonti/fig/pkg/modelbuild"
)

// Exit codes, matching spec §6/§7's "non-zero on parse error, type error,
// IOSA error, or engine failure".
const (
	exitOK = iota
	exitUsage
	exitParseOrCheckError
	exitBuildError
	exitEstimationError
)

var rootCmd = &cobra.Command{
	Use:   "fig <model_file> <props_file>",
	Short: "Front-end and estimation controller for the FIG rare-event simulator.",
	Long: `fig compiles an IOSA model and property file, checks them, and drives
Monte-Carlo/importance-splitting estimation over the requested strategies,
engines and stopping criteria.`,
	Args: cobra.ExactArgs(2),
	Run:  runFig,
}

// Execute runs the root command, whose flags are registered in init. Called
// once by cmd/fig/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitUsage)
	}
}

func runFig(cmd *cobra.Command, args []string) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}

	modelFile, propsFile := args[0], args[1]

	model, global, checkLog, err := LoadProgram(modelFile, propsFile)
	if err != nil {
		fmt.Println(err)
		os.Exit(exitParseOrCheckError)
	}

	if checkLog.HasErrors() {
		fmt.Print(diag.Render(checkLog, nil))
		os.Exit(exitParseOrCheckError)
	}

	_, iosaLog := iosa.AnalyzeAll(global, model, nil)
	if iosaLog.HasErrors() {
		fmt.Print(diag.Render(iosaLog, nil))
		os.Exit(exitParseOrCheckError)
	}

	for _, w := range iosaLog.Warnings() {
		log.Warnln(w.Error())
	}

	network, properties, buildLog := modelbuild.Build(global, model)
	if buildLog.HasErrors() {
		fmt.Print(diag.Render(buildLog, nil))
		os.Exit(exitBuildError)
	}

	strategies, err := parseStrategies(GetStringArray(cmd, "imp-strategy"))
	if err != nil {
		fmt.Println(err)
		os.Exit(exitUsage)
	}

	engines, err := parseEngines(GetStringArray(cmd, "engine"))
	if err != nil {
		fmt.Println(err)
		os.Exit(exitUsage)
	}

	goal, err := parseGoal(GetStringArray(cmd, "confidence"), GetStringArray(cmd, "time-budget"))
	if err != nil {
		fmt.Println(err)
		os.Exit(exitUsage)
	}

	controller := estimate.NewController(strategies, engines, goal)
	results := controller.Run(context.Background(), network, properties)

	failed := false

	for _, r := range results {
		if r.Err != nil {
			log.Errorf("%s/%s/%s: %s", r.Property, r.Strategy, r.Engine, r.Err)
			failed = true

			continue
		}

		fmt.Printf("%s\t%s\t%s\tn=%d\testimate=%g\thalf-width=%g\n",
			r.Property, r.Strategy, r.Engine, r.Interval.N(), r.Interval.Point(), r.Interval.HalfWidth())
	}

	if failed {
		os.Exit(exitEstimationError)
	}
}

// strategyFactories maps every --imp-strategy name from spec §6 to its
// constructor. Only "null" has a real implementation (spec §1 Non-goals:
// the rest are external collaborators); the others still parse and run,
// reporting a clear per-row error rather than refusing the flag outright.
var strategyFactories = map[string]func() estimate.ImportanceStrategy{
	"null":       func() estimate.ImportanceStrategy { return estimate.NullStrategy{} },
	"auto":       func() estimate.ImportanceStrategy { return estimate.UnimplementedStrategy{NameValue: "auto"} },
	"adhoc":      func() estimate.ImportanceStrategy { return estimate.UnimplementedStrategy{NameValue: "adhoc"} },
	"split-auto": func() estimate.ImportanceStrategy { return estimate.UnimplementedStrategy{NameValue: "split-auto"} },
}

var engineNames = map[string]bool{
	"nosplit": true, "restart": true, "fixed-effort": true, "sfe": true, "bfe": true,
}

func parseStrategies(names []string) ([]estimate.ImportanceStrategy, error) {
	if len(names) == 0 {
		names = []string{"null"}
	}

	out := make([]estimate.ImportanceStrategy, 0, len(names))

	for _, n := range names {
		factory, ok := strategyFactories[n]
		if !ok {
			return nil, fmt.Errorf("fig: unknown --imp-strategy %q", n)
		}

		out = append(out, factory())
	}

	return out, nil
}

func parseEngines(names []string) ([]estimate.SimulationEngine, error) {
	if len(names) == 0 {
		names = []string{"nosplit"}
	}

	out := make([]estimate.SimulationEngine, 0, len(names))

	for _, n := range names {
		if !engineNames[n] {
			return nil, fmt.Errorf("fig: unknown --engine %q", n)
		}

		out = append(out, estimate.UnimplementedEngine{NameValue: n})
	}

	return out, nil
}

// parseGoal builds a StoppingGoal from the repeated --confidence and
// --time-budget flags. At most one of the two may be non-empty (spec §4.9:
// a goal is either value-driven or budget-driven, never both).
func parseGoal(confidences, budgets []string) (estimate.StoppingGoal, error) {
	if len(confidences) > 0 && len(budgets) > 0 {
		return estimate.StoppingGoal{}, fmt.Errorf("fig: --confidence and --time-budget are mutually exclusive")
	}

	if len(budgets) > 0 {
		durations := make([]time.Duration, 0, len(budgets))

		for _, b := range budgets {
			secs, err := strconv.ParseFloat(b, 64)
			if err != nil {
				return estimate.StoppingGoal{}, fmt.Errorf("fig: invalid --time-budget %q: %w", b, err)
			}

			durations = append(durations, time.Duration(secs*float64(time.Second)))
		}

		return estimate.StoppingGoal{TimeBudgets: durations}, nil
	}

	if len(confidences) == 0 {
		confidences = []string{"0.95,0.1"}
	}

	criteria := make([]estimate.ConfidenceCriterion, 0, len(confidences))

	for _, c := range confidences {
		crit, err := parseConfidence(c)
		if err != nil {
			return estimate.StoppingGoal{}, err
		}

		criteria = append(criteria, crit)
	}

	return estimate.StoppingGoal{Confidence: criteria}, nil
}

// parseConfidence parses one "level,precision[,relative]" triple, the
// comma-joined encoding §4.12 uses to pack --confidence's three logical
// arguments into one repeatable StringArray flag value.
func parseConfidence(s string) (estimate.ConfidenceCriterion, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return estimate.ConfidenceCriterion{}, fmt.Errorf("fig: invalid --confidence %q, want level,precision[,relative]", s)
	}

	level, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return estimate.ConfidenceCriterion{}, fmt.Errorf("fig: invalid --confidence level %q: %w", parts[0], err)
	}

	precision, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return estimate.ConfidenceCriterion{}, fmt.Errorf("fig: invalid --confidence precision %q: %w", parts[1], err)
	}

	relative := false

	if len(parts) == 3 {
		relative, err = strconv.ParseBool(strings.TrimSpace(parts[2]))
		if err != nil {
			return estimate.ConfidenceCriterion{}, fmt.Errorf("fig: invalid --confidence relative flag %q: %w", parts[2], err)
		}
	}

	return estimate.ConfidenceCriterion{Level: level, Precision: precision, Relative: relative}, nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.Flags().StringArray("imp-strategy", nil, "importance strategy: null|auto|adhoc|split-auto (repeatable)")
	rootCmd.Flags().StringArray("engine", nil, "simulation engine: nosplit|restart|fixed-effort|sfe|bfe (repeatable)")
	rootCmd.Flags().StringArray("confidence", nil, "level,precision[,relative] confidence criterion (repeatable)")
	rootCmd.Flags().StringArray("time-budget", nil, "time budget in seconds (repeatable)")
}

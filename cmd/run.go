package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppgllrd/contagion-sim/internal/render"
	"github.com/ppgllrd/contagion-sim/internal/sim"
)

var (
	runSeed          int64
	runHz            int
	runPopulationSz  int
	runVelocitySigma float64
	runTimeLimit     float64
	runProbInfection float64
	runProbDying     float64
	runTimeInfectious float64
	runEventLogPath  string
	runSnapshotDir   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation headlessly to completion and print a run summary",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "PRNG seed (when omitted, the configured value is kept)")
	runCmd.Flags().IntVar(&runHz, "hz", 0, "Redraw events per simulated time unit (0 disables Redraw)")
	runCmd.Flags().IntVar(&runPopulationSz, "population", 0, "population size (when omitted, the configured value is kept)")
	runCmd.Flags().Float64Var(&runVelocitySigma, "velocity-sigma", 0, "initial velocity std-dev (when omitted, the configured value is kept)")
	runCmd.Flags().Float64Var(&runTimeLimit, "time-limit", 0, "simulation horizon (when omitted, the configured value is kept)")
	runCmd.Flags().Float64Var(&runProbInfection, "prob-infection", -1, "transmission probability per contact (when omitted, the configured value is kept)")
	runCmd.Flags().Float64Var(&runProbDying, "prob-dying", -1, "probability an infection ends in death (when omitted, the configured value is kept)")
	runCmd.Flags().Float64Var(&runTimeInfectious, "time-infectious", 0, "mean infectious duration (when omitted, the configured value is kept)")
	runCmd.Flags().StringVar(&runEventLogPath, "event-log", "", "optional path to append newline-delimited JSON frames")
	runCmd.Flags().StringVar(&runSnapshotDir, "snapshot-dir", "", "optional directory to dump one PNG per Redraw")
}

// applyRunFlags overlays explicitly-set run flags onto the base sim.Config,
// the final, highest-precedence configuration layer.
func applyRunFlags(flags *cobra.Command, base sim.Config) sim.Config {
	if flags.Flags().Changed("seed") {
		base.Seed = runSeed
	}
	if flags.Flags().Changed("hz") {
		base.Hz = runHz
	}
	if flags.Flags().Changed("population") {
		base.PopulationSz = runPopulationSz
	}
	if flags.Flags().Changed("velocity-sigma") {
		base.VelocitySigma = runVelocitySigma
	}
	if flags.Flags().Changed("time-limit") {
		base.TimeLimit = runTimeLimit
	}
	if flags.Flags().Changed("prob-infection") {
		base.ProbInfection = runProbInfection
	}
	if flags.Flags().Changed("prob-dying") {
		base.ProbDying = runProbDying
	}
	if flags.Flags().Changed("time-infectious") {
		base.TimeInfectious = runTimeInfectious
	}
	return base
}

func runRun(cmd *cobra.Command, args []string) error {
	appCfg, err := resolveAppConfig()
	if err != nil {
		return err
	}
	log := configureLogging(appCfg)
	simCfg := applyRunFlags(cmd, appCfg.Sim)

	renderer, cleanup, err := buildRunRenderer()
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := sim.New(simCfg, renderer, log)
	if err != nil {
		return err
	}

	if runEventLogPath != "" {
		f, err := os.OpenFile(runEventLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		recorder := sim.NewEventRecorder(f)
		defer recorder.Flush()
		s.SetEventRecorder(recorder)
	}

	log.Infof("starting run %s: population=%d seed=%d horizon=%.0f", s.RunID(), simCfg.PopulationSz, simCfg.Seed, simCfg.TimeLimit)
	if err := s.Simulate(context.Background()); err != nil {
		return err
	}

	return printFinalTally(s)
}

// buildRunRenderer returns NullRenderer unless --snapshot-dir names a
// directory, in which case it returns a PNGRenderer that dumps one frame
// per Redraw into it. The returned cleanup is always safe to call.
func buildRunRenderer() (render.Renderer, func(), error) {
	if runSnapshotDir == "" {
		return render.NullRenderer{}, func() {}, nil
	}
	if err := os.MkdirAll(runSnapshotDir, 0o755); err != nil {
		return nil, nil, err
	}
	pr := render.NewPNGRenderer(800, 400, "", runSnapshotDir)
	return render.Renderer(pr), func() {}, nil
}

func printFinalTally(s *sim.Simulator) error {
	h := s.History()
	n := len(h.PercentInfected)
	_, err := fmt.Printf("run %s complete: %d history samples recorded (resolution %d/time-unit)\n", s.RunID(), n, sim.HistoryResolution)
	return err
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/chrisdamba/cafeorder/internal/events"
	"github.com/chrisdamba/cafeorder/internal/simulator"
	"github.com/chrisdamba/cafeorder/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a café day on virtual time",
	Long: `simulate runs generated customers and staff against the café for the configured
duration without waiting in real time. By default the run uses an in-memory
store; --persist writes into the configured store instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start, err := simulationStart(mustString(cmd, "start"))
		if err != nil {
			return err
		}

		var st store.Store = store.NewMemory()
		if persist, _ := cmd.Flags().GetBool("persist"); persist {
			if st, err = store.Open(ctx, cfg.Store); err != nil {
				return fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
			}
		}
		defer st.Close()

		sink, err := events.Open(cfg.Events, logger)
		if err != nil {
			return fmt.Errorf("failed to open event sinks: %w", err)
		}
		publisher := events.NewPublisher(sink, logger)
		defer publisher.Close()

		opts := simulator.Options{
			Start:     start,
			Store:     st,
			Publisher: publisher,
			Logger:    logger,
		}
		if quiet, _ := cmd.Flags().GetBool("no-progress"); !quiet {
			opts.Progress = os.Stderr
		}
		sim, err := simulator.NewSimulator(ctx, cfg, opts)
		if err != nil {
			return err
		}
		defer sim.Close()

		summary, err := sim.Run(ctx)
		summary.Print(os.Stdout)
		return err
	},
}

func init() {
	simulateCmd.Flags().Int64("seed", 42, "random seed")
	simulateCmd.Flags().Duration("duration", 8*time.Hour, "simulated time span")
	simulateCmd.Flags().Duration("step", time.Minute, "virtual time advanced per step")
	simulateCmd.Flags().Float64("order-frequency", 0.5, "average orders per minute outside rush hours")
	simulateCmd.Flags().Float64("cancel-rate", 0.05, "chance that staff cancel an order they pick up")
	simulateCmd.Flags().String("start", "", "start time, RFC3339 (default today 07:00 local)")
	simulateCmd.Flags().Bool("persist", false, "write into the configured store instead of memory")
	simulateCmd.Flags().Bool("no-progress", false, "hide the progress bar")

	viper.BindPFlag("simulation.seed", simulateCmd.Flags().Lookup("seed"))
	viper.BindPFlag("simulation.duration", simulateCmd.Flags().Lookup("duration"))
	viper.BindPFlag("simulation.step", simulateCmd.Flags().Lookup("step"))
	viper.BindPFlag("simulation.order_frequency", simulateCmd.Flags().Lookup("order-frequency"))
	viper.BindPFlag("simulation.cancel_rate", simulateCmd.Flags().Lookup("cancel-rate"))

	rootCmd.AddCommand(simulateCmd)
}

func simulationStart(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 7, 0, 0, 0, now.Location()), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q: %w", s, err)
	}
	return t, nil
}

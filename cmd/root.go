package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/chrisdamba/cafeorder/internal/cafe"
	"github.com/chrisdamba/cafeorder/internal/events"
	"github.com/chrisdamba/cafeorder/internal/logging"
	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/chrisdamba/cafeorder/internal/orders"
	"github.com/chrisdamba/cafeorder/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *models.Config
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cafeorder",
	Short: "Café ordering: menu, cart, orders and fulfilment",
	Long: `cafeorder manages a small café's menu and orders. Customers place orders from
the menu and staff move them through Pending, In Progress, Ready and Completed.
State is kept in the configured store so every command sees the same café.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./cafeorder.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console or json)")
	rootCmd.PersistentFlags().String("store", "file", "state store (memory, file, postgres, redis, s3)")
	rootCmd.PersistentFlags().StringSlice("events", nil, "event sinks (console, json, csv, kafka, amqp)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("events.sinks", rootCmd.PersistentFlags().Lookup("events"))
}

func initConfig() {
	var err error
	cfg, err = models.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug().Str("file", used).Msg("using config file")
	}
}

// openCafe wires the configured store and event sinks into a container.
// The returned close func releases all three.
func openCafe(ctx context.Context) (*cafe.Cafe, func(), error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	sink, err := events.Open(cfg.Events, logger)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("failed to open event sinks: %w", err)
	}
	publisher := events.NewPublisher(sink, logger)

	c, err := cafe.New(ctx, cafe.Options{
		Store:           st,
		Publisher:       publisher,
		Logger:          logger,
		Timing:          cfg.Timing,
		PastOrdersLimit: cfg.PastOrdersLimit,
	})
	if err != nil {
		publisher.Close()
		st.Close()
		return nil, nil, err
	}

	closeAll := func() {
		c.Close()
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close event sinks")
		}
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close store")
		}
	}
	return c, closeAll, nil
}

func defaultSort() orders.SortOption {
	opt, err := orders.ParseSortOption(cfg.DefaultSort)
	if err != nil {
		logger.Warn().Err(err).Msg("falling back to newest first")
		return orders.DefaultSort
	}
	return opt
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

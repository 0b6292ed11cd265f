package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/balkashynov/tranquil/internal/config"
	"github.com/balkashynov/tranquil/internal/db"
	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/logger"
	"github.com/balkashynov/tranquil/internal/mirror"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	v       = viper.New()
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tranquil",
	Short: "A heart rate and HRV viewer",
	Long: `tranquil shows live heart rate and heart rate variability during a workout,
and lists the heart rate samples of the past week from the local health store.`,
	SilenceUsage: true,
}

// setup loads the configuration, starts logging and opens the database
func setup() error {
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}
	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	if err := db.Initialize(cfg.DBPath); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	logger.Logger.WithField("db", cfg.DBPath).Debug("tranquil started")
	return nil
}

func teardown() {
	if err := db.Close(); err != nil {
		logger.Logger.WithError(err).Warn("failed to close database")
	}
	logger.Close()
}

// withApp wraps a command function to set up config, logging and the database first
func withApp(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := setup(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer teardown()
		fn(cmd, args)
	}
}

// newHealthStore builds the local health store from the configuration.
// The simulator only runs when simulate is set.
func newHealthStore(simulate bool) *health.LocalStore {
	opts := health.LocalOptions{
		Available:    cfg.HealthAvailable,
		Authorize:    cfg.HealthAuthorization == config.AuthorizationGrant,
		PollInterval: cfg.PollInterval,
	}
	if simulate {
		opts.Simulator = health.NewSimulator(cfg.SimulatorInterval, cfg.SimulatorHRVEvery, uint64(time.Now().UnixNano()))
	}
	return health.NewLocalStore(opts)
}

// newMirrorStore builds the mirror backend from the configuration
func newMirrorStore(ctx context.Context) (mirror.Store, error) {
	switch cfg.MirrorBackend {
	case config.MirrorFirebase:
		return mirror.NewFirebaseStore(ctx, cfg.FirebaseDatabaseURL, cfg.FirebaseCredentialsFile)
	case config.MirrorNone:
		return mirror.Discard{}, nil
	default:
		return mirror.LocalStore{}, nil
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tranquil %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.tranquil/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Add subcommands here
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}

// Root command for the shelved CLI.
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jcoldwell/shelved/internal/backup"
	"github.com/jcoldwell/shelved/internal/catalog"
	"github.com/jcoldwell/shelved/internal/logging"
	"github.com/jcoldwell/shelved/internal/paths"
	"github.com/jcoldwell/shelved/internal/session"
)

// Global flag values.
var (
	flagConfigDir  string
	flagDataDir    string
	flagLogLevel   string
	flagJSON       bool
	flagNoAutoSave bool
)

// Session state initialized by PersistentPreRunE for all subcommands.
var (
	logger *zap.Logger
	sess   *session.Session
)

var rootCmd = &cobra.Command{
	Use:     "shelved",
	Short:   "Shelved is a local-first comic reading log",
	Version: version,
	Long: `Shelved keeps a log of the comics you have read, rolled up by series
and by event. The catalogue lives in memory while the program runs and is
persisted to dated JSON backup folders on disk.`,
	PersistentPreRunE:  openSession,
	PersistentPostRunE: closeSession,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "backup root directory (default: platform data dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoAutoSave, "no-autosave", false, "do not write a backup after every change")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(saveCmd)
}

// openSession loads config, builds the logger, and opens the catalogue
// session. Skipped for commands that do not touch the catalogue.
func openSession(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	level := flagLogLevel
	if level == "" {
		level = cfg.LogLevel
	}
	logger, err = logging.NewLogger(level)
	if err != nil {
		return err
	}

	dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.DataDir)
	if err != nil {
		return err
	}
	cfg.DataDir = dataDir
	if flagNoAutoSave {
		cfg.AutoSave = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := catalog.OpenStore()
	if err != nil {
		return err
	}
	engine := catalog.NewEngine(store, logger)
	backups := backup.NewStore(dataDir, cfg.KeepBackups, logger)

	sess = session.New(engine, backups, logger, cfg.AutoSave)
	if err := sess.Open(); err != nil {
		_ = store.Close()
		sess = nil
		return err
	}
	return nil
}

// closeSession releases the in-memory store and flushes the logger.
func closeSession(cmd *cobra.Command, args []string) error {
	if sess != nil {
		if err := sess.Close(); err != nil {
			return err
		}
		sess = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mgrell/lorekeep/internal/config"
)

var (
	cfg         *config.Config
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "lorekeep",
	Short:         "Incremental compendium-to-vault exporter",
	Long:          "Lorekeep exports compendium JSON sources into a markdown vault, one document per record, and only re-exports what changed since the last run.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		setupLogging(cfg.LogPath)
		return nil
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "per-record logging")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statusCmd)
}

// logSink is the rotating log file shared by all commands.
var logSink *lumberjack.Logger

// setupLogging sends warnings and errors to stderr and to a rotating log
// file next to the state snapshot.
func setupLogging(logPath string) {
	logSink = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}
	log.SetFlags(log.LstdFlags)
	log.SetOutput(io.MultiWriter(os.Stderr, logSink))
}

// logToFile writes a line to the rotating log only, for bookkeeping that
// would be noise on the terminal.
func logToFile(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(logSink, "[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), msg)
}

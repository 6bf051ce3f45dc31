package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mgrell/lorekeep"
	"github.com/mgrell/lorekeep/internal/catalog"
)

var (
	flagForce bool
	flagTypes string
	flagOut   string
	flagClean bool
)

var exportCmd = &cobra.Command{
	Use:   "export [source files...]",
	Short: "Export changed records into the vault",
	Long:  "Diffs each source file against the last-run snapshot and rewrites only the records that are new or modified. With no arguments, all .json files under the configured source directory are processed.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&flagForce, "force", false, "re-export every eligible record, ignoring the snapshot")
	exportCmd.Flags().StringVar(&flagTypes, "type", "", "comma-separated record type filter (e.g. spell,item)")
	exportCmd.Flags().StringVar(&flagOut, "out", "", "vault directory override")
	exportCmd.Flags().BoolVar(&flagClean, "clean", false, "wipe the vault, snapshot, and catalog before exporting")
}

func runExport(cmd *cobra.Command, args []string) error {
	start := time.Now()

	vaultDir := cfg.VaultDir
	if flagOut != "" {
		vaultDir = flagOut
	}

	if flagClean {
		for _, path := range []string{vaultDir, cfg.StatePath, cfg.CatalogPath} {
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("clean %s: %w", path, err)
			}
		}
		fmt.Fprintf(os.Stderr, "Cleaned vault and snapshot\n")
	}

	paths := args
	if len(paths) == 0 {
		var err error
		paths, err = lorekeep.FindSources(cfg.SourceDir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no source files under %s", cfg.SourceDir)
		}
	}

	types := cfg.Types
	if flagTypes != "" {
		types = strings.Split(flagTypes, ",")
	}

	opts := []lorekeep.Option{
		lorekeep.WithForce(flagForce),
		lorekeep.WithTypes(types...),
		lorekeep.WithVerbose(flagVerbose),
		lorekeep.WithLogf(log.Printf),
	}

	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		log.Printf("WARN: catalog unavailable: %v", err)
	} else {
		defer cat.Close()
		opts = append(opts, lorekeep.WithCatalog(cat))
	}

	engine := lorekeep.New(cfg.StatePath, vaultDir, opts...)
	stats, err := engine.Export(context.Background(), paths)
	if err != nil {
		return err
	}

	printSummary(stats, time.Since(start))
	logToFile("run %s: %s", engine.RunID(), stats)
	return nil
}

func printSummary(stats lorekeep.Stats, elapsed time.Duration) {
	fmt.Printf("%s %s, %s, %s, %s in %s (%d files, %d unchanged)\n",
		color.GreenString("Exported:"),
		color.GreenString("%d created", stats.Created),
		color.CyanString("%d updated", stats.Updated),
		color.YellowString("%d skipped", stats.Skipped),
		errorCount(stats.Errors),
		elapsed.Round(time.Millisecond),
		stats.Files,
		stats.Unchanged,
	)
}

func errorCount(n int) string {
	if n > 0 {
		return color.RedString("%d errors", n)
	}
	return fmt.Sprintf("%d errors", n)
}

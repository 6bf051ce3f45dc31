package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mgrell/lorekeep/internal/source"
	"github.com/mgrell/lorekeep/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the snapshot knows about past exports",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	store := state.NewStore(cfg.StatePath)
	st := store.State()

	fmt.Printf("Snapshot:    %s\n", cfg.StatePath)
	if st.LastExport.IsZero() {
		fmt.Println(color.YellowString("No export recorded yet"))
		return nil
	}
	fmt.Printf("Last export: %s (run %s)\n", st.LastExport.Local().Format("2006-01-02 15:04:05"), st.LastRunID)
	fmt.Printf("Files:       %d\n", len(st.Files))
	fmt.Printf("Records:     %d\n", len(st.Index))

	byType := make(map[string]int)
	for key := range st.Index {
		recordType, _, _ := source.SplitKey(key)
		byType[recordType]++
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %s %d\n", color.CyanString("%-12s", t), byType[t])
	}
	return nil
}

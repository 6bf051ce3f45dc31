package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mgrell/lorekeep/internal/catalog"
)

var (
	flagSearchType  string
	flagSearchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search exported records by name or body text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchType, "type", "", "restrict to one record type")
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 20, "maximum number of results (0 = all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if _, err := os.Stat(cfg.CatalogPath); err != nil {
		return fmt.Errorf("no catalog at %s — run an export first", cfg.CatalogPath)
	}
	cat, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer cat.Close()

	hits, err := cat.Search(context.Background(), query, flagSearchType, flagSearchLimit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("no matches")
		return nil
	}

	for _, h := range hits {
		fmt.Printf("%s  %s  %s\n",
			color.CyanString("%-10s", h.Type),
			color.New(color.Bold).Sprintf("%s (%s)", h.Name, h.Source),
			h.OutputFile,
		)
	}
	return nil
}

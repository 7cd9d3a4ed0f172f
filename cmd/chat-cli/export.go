package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog-assistant/internal/catalog"
	"catalog-assistant/internal/lexicon"
)

var (
	exportOut    string
	exportSearch string
)

var exportCmd = &cobra.Command{
	Use:   "export <table>",
	Short: "Export a catalog table to an .xlsx spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (defaults to <table>.xlsx)")
	exportCmd.Flags().StringVarP(&exportSearch, "search", "s", "", "keep rows whose name or description contains this term")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	table := args[0]
	if !lexicon.IsKnownTable(table) {
		return fmt.Errorf("unknown table %q", table)
	}
	out := exportOut
	if out == "" {
		out = table + ".xlsx"
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	d, err := openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.close()

	records, err := d.gateway.FetchTable(ctx, table, exportSearch)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", table, err)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := catalog.ExportWorkbook(f, table, records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records from %s to %s\n", len(records), table, out)
	return nil
}

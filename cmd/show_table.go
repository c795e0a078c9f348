/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/utils"
)

var showTableCmd = &cobra.Command{
	Use:     "show-table",
	Short:   "Read seeded tables back from the database",
	Long:    `Reads the selected tables (all catalog tables by default) and writes them as aligned text to a file or the terminal.`,
	Example: `./inventory show-table --dialect sqlite --database data/supply_chain.db --tables "orders[order_id,quantity_ordered],stock_levels" --limit 20`,
	RunE:    runShowTable,
}

func runShowTable(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	tableFilters, err := utils.ParseTablesFlag(cmd.Flag("tables").Value.String())
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	outputFile := cmd.Flag("out_file").Value.String()
	if outputFile == "" {
		outputFile = utils.GetDefaultOutputFilePath(cfg.Database.DBName, "show-table")
	}

	catalog := schema.Supply()
	names := catalog.Names()
	if len(tableFilters) > 0 {
		names = names[:0]
		for _, name := range catalog.Names() {
			if _, ok := tableFilters[name]; ok {
				names = append(names, name)
			}
		}
		for name := range tableFilters {
			if _, ok := catalog.Table(name); !ok {
				return fmt.Errorf("unknown table %q", name)
			}
		}
	}

	logger.Info("Starting show-table operation",
		zap.String("dialect", cfg.Database.Dialect),
		zap.String("database", cfg.Database.DBName),
		zap.Strings("tables", names))

	ctx := cmd.Context()
	db, err := setupDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var out strings.Builder
	for _, name := range names {
		def, _ := catalog.Table(name)
		t, err := db.ReadTable(ctx, def)
		if err != nil {
			return fmt.Errorf("failed to read table %s: %w", name, err)
		}
		if cols := tableFilters[name]; len(cols) > 0 {
			if t, err = t.Select(cols); err != nil {
				return err
			}
		}
		if err := formatTableText(&out, t, limit); err != nil {
			return err
		}
	}

	if outputFile == "-" {
		fmt.Fprint(cmd.OutOrStdout(), out.String())
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write tables to file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tables written to: %s\n", outputFile)
	return nil
}

// formatTableText renders t as tab-aligned columns under a title line.
// limit <= 0 renders every row. Null cells render as NULL.
func formatTableText(w io.Writer, t *dataset.Table, limit int) error {
	fmt.Fprintf(w, "Table: %s (%d rows)\n", t.Name, t.Len())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.ColumnNames(), "\t"))
	for i, row := range t.Rows {
		if limit > 0 && i >= limit {
			break
		}
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				cells[j] = "NULL"
				continue
			}
			cells[j] = dataset.FormatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if limit > 0 && t.Len() > limit {
		fmt.Fprintf(w, "... %d more rows\n", t.Len()-limit)
	}
	fmt.Fprintln(w)
	return nil
}

func init() {
	showTableCmd.Flags().StringP("out_file", "o", "", "File to write the tables to, or - for the terminal (defaults to <database>_tables.txt)")
	showTableCmd.Flags().String("tables", "", "Comma-separated list of tables and columns to show (e.g., 'orders[order_id,quantity_ordered],stock_levels')")
	showTableCmd.Flags().Int("limit", 0, "Maximum number of rows per table (0 shows all)")
}

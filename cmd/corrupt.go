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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/corrupt"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/utils"
)

var corruptCmd = &cobra.Command{
	Use:   "corrupt",
	Short: "Corrupt one table's CSV file without touching a database",
	Long: `Reads a clean CSV file for one of the corruptible tables, runs it through the
configured corruption chain and writes the dirty CSV plus the step reports.`,
	Example: `./inventory corrupt --table orders --in data/ai_generated/orders.csv --out dirty/orders.csv --seed 42`,
	RunE:    runCorrupt,
}

// tableReport is the document written by `corrupt --report-out`.
type tableReport struct {
	Table   string           `json:"table" yaml:"table"`
	Seed    uint64           `json:"seed" yaml:"seed"`
	RowsIn  int              `json:"rows_in" yaml:"rows_in"`
	RowsOut int              `json:"rows_out" yaml:"rows_out"`
	Reports []corrupt.Report `json:"reports" yaml:"reports"`
}

func runCorrupt(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	table := cmd.Flag("table").Value.String()
	in := cmd.Flag("in").Value.String()
	out := cmd.Flag("out").Value.String()
	reportOut := cmd.Flag("report-out").Value.String()

	def, ok := schema.Supply().Table(table)
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}
	if in == "" {
		in = filepath.Join(cfg.DataDir, table+".csv")
	}
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + "_dirty.csv"
	}
	if reportOut == "" {
		reportOut = utils.GetDefaultOutputFilePath(table, "corrupt")
	}

	chain, err := buildChain(cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	clean, err := dataset.ReadCSV(f, def.Name, def.DatasetColumns())
	f.Close()
	if err != nil {
		return err
	}

	dirty, reports, err := chain.Run(def.Name, clean)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()
	if err := dataset.WriteCSV(file, dirty); err != nil {
		return err
	}

	report := tableReport{
		Table:   def.Name,
		Seed:    chain.Seed(),
		RowsIn:  clean.Len(),
		RowsOut: dirty.Len(),
		Reports: reports,
	}
	if err := writeReport(reportOut, report); err != nil {
		return err
	}
	for _, r := range reports {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
	logger.Info("Corrupted table written",
		zap.String("table", def.Name),
		zap.String("out", out),
		zap.String("report", reportOut),
		zap.Int("rows_in", clean.Len()),
		zap.Int("rows_out", dirty.Len()))
	return nil
}

func init() {
	corruptCmd.Flags().String("table", "", "Table the CSV file holds (one of daily_demand, orders, stock_levels, supplier_lead_times)")
	corruptCmd.Flags().String("in", "", "Clean CSV file (defaults to <data_dir>/<table>.csv)")
	corruptCmd.Flags().StringP("out", "o", "", "Dirty CSV file (defaults to <in>_dirty.csv)")
	corruptCmd.Flags().String("report-out", "", "File to write the step reports to (.json, .yaml or .yml)")
	_ = corruptCmd.MarkFlagRequired("table")
}

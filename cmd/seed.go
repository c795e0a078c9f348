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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/database"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/seeder"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/utils"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the supply chain tables and load them with corrupted data",
	Long: `Creates the supply chain tables, loads <data_dir>/<table>.csv for each of them,
runs the tables that allow it through the configured corruption chain, inserts
the result and records one corruption_audit row per step. With --dry-run the
data is loaded and corrupted but nothing is written to the database; the run
summary is written to --report-out instead.`,
	Example: `./inventory seed --dialect sqlite --database data/supply_chain.db --seed 42 --reset --report-out reports/seed.yaml`,
	RunE:    runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	tableFilters, err := utils.ParseTablesFlag(cmd.Flag("tables").Value.String())
	if err != nil {
		return err
	}
	reset, _ := cmd.Flags().GetBool("reset")
	parallel, _ := cmd.Flags().GetBool("parallel")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = cfg.DataDir
	}
	reportOut := cmd.Flag("report-out").Value.String()
	if reportOut == "" && dryRun {
		reportOut = utils.GetDefaultOutputFilePath(cfg.Database.DBName, "seed")
	}

	chain, err := buildChain(cfg)
	if err != nil {
		return err
	}
	runID := database.NewRunID()
	logger.Info("Starting seed operation",
		zap.String("dialect", cfg.Database.Dialect),
		zap.String("database", cfg.Database.DBName),
		zap.String("data_dir", dataDir),
		zap.Uint64("seed", chain.Seed()),
		zap.Bool("dry_run", dryRun))

	params := seeder.SeedParams{
		TableFilters: tableFilters,
		Source:       seeder.CSVDir(dataDir),
		Reset:        reset,
		Parallel:     parallel,
		RunID:        runID,
	}
	ctx := cmd.Context()

	var results []seeder.TableResult
	if dryRun {
		results, err = seeder.NewService(nil, schema.Supply(), chain, seeder.Config{Logger: logger}).Preview(ctx, params)
		if err != nil {
			return fmt.Errorf("seed preview failed: %w", err)
		}
		logger.Info("No rows were written in dry-run mode.")
	} else {
		db, err := setupDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		svc := seeder.NewService(db, schema.Supply(), chain, seeder.Config{Logger: logger})
		results, err = svc.Seed(ctx, params)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	}

	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%-22s read=%-6d inserted=%-6d corrupted=%t\n", r.Table, r.RowsRead, r.RowsInserted, r.Corrupted)
		for _, rep := range r.Reports {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", rep)
		}
	}

	if reportOut != "" {
		summary := seeder.RunSummary{RunID: runID, Seed: chain.Seed(), Tables: results}
		if err := writeReport(reportOut, summary); err != nil {
			return err
		}
		logger.Info("Run summary written", zap.String("path", reportOut))
	}
	return nil
}

func init() {
	seedCmd.Flags().Bool("reset", false, "Drop the selected tables before creating them")
	seedCmd.Flags().Bool("parallel", false, "Corrupt tables concurrently (results do not change)")
	seedCmd.Flags().String("tables", "", "Comma-separated list of tables to seed (e.g., 'aircraft_parts,orders')")
	seedCmd.Flags().String("data-dir", "", "Directory holding <table>.csv files (defaults to data_dir from the configuration)")
	seedCmd.Flags().String("report-out", "", "File to write the run summary to (.json, .yaml or .yml)")
}

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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/database"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/utils"
)

var dropTablesCmd = &cobra.Command{
	Use:     "drop-tables",
	Short:   "Drop the supply chain tables",
	Long:    `Writes DROP TABLE statements for the selected tables, referencing tables first, and executes them after confirmation unless --dry-run is set.`,
	Example: `./inventory drop-tables --dialect postgres --host localhost --username user --password pass --database inventory --tables "orders,stock_levels" --include-audit`,
	RunE:    runDropTables,
}

func runDropTables(cmd *cobra.Command, args []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return err
	}

	outputFile := cmd.Flag("out_file").Value.String()
	if outputFile == "" {
		outputFile = utils.GetDefaultOutputFilePath(cfg.Database.DBName, "drop-tables")
	}
	tableFilters, err := utils.ParseTablesFlag(cmd.Flag("tables").Value.String())
	if err != nil {
		return err
	}
	includeAudit, _ := cmd.Flags().GetBool("include-audit")

	catalog := schema.Supply()
	var defs []schema.Table
	for _, def := range catalog.Tables() {
		if _, ok := tableFilters[def.Name]; ok || len(tableFilters) == 0 {
			defs = append(defs, def)
		}
	}
	for name := range tableFilters {
		if _, ok := catalog.Table(name); !ok {
			return fmt.Errorf("unknown table %q", name)
		}
	}
	if includeAudit {
		defs = append(defs, database.AuditTableDef())
	}

	logger.Info("Starting drop-tables operation",
		zap.String("dialect", cfg.Database.Dialect),
		zap.String("database", cfg.Database.DBName),
		zap.Int("tables", len(defs)))

	ctx := cmd.Context()
	db, err := setupDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	sqlStatements := make([]string, 0, len(defs))
	for i := len(defs) - 1; i >= 0; i-- {
		stmt, err := db.GenerateDropTableSQL(defs[i].Name)
		if err != nil {
			return err
		}
		sqlStatements = append(sqlStatements, stmt)
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()
	if err := utils.WriteSQLStatements(file, "drop-tables for "+cfg.Database.DBName, sqlStatements); err != nil {
		return err
	}
	logger.Info("SQL statements to drop tables have been written", zap.String("path", outputFile))

	if dryRun {
		logger.Info("No tables were dropped in dry-run mode. Run apply-sql to drop them.")
		return nil
	}

	if len(sqlStatements) == 0 {
		logger.Info("No tables selected to drop.")
		return nil
	}
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !utils.ConfirmAction("SQL statements to drop tables") {
		logger.Info("Table drop aborted by user.")
		return nil
	}
	if err := db.ExecuteSQLStatements(ctx, sqlStatements); err != nil {
		return fmt.Errorf("failed to execute SQL statements to drop tables: %w", err)
	}
	logger.Info("Successfully dropped tables.", zap.Int("tables", len(sqlStatements)))
	return nil
}

func init() {
	dropTablesCmd.Flags().StringP("out_file", "o", "", "File path to output generated SQL statements (defaults to <database>_drop_tables.sql)")
	dropTablesCmd.Flags().String("tables", "", "Comma-separated list of tables to drop (defaults to all supply chain tables)")
	dropTablesCmd.Flags().Bool("include-audit", false, "Also drop the corruption_audit table")
	dropTablesCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

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

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/utils"
)

var applySQLCmd = &cobra.Command{
	Use:     "apply-sql",
	Short:   "Execute a SQL file written by a previous dry run",
	Long:    `Reads the statements from --in_file and executes them in a single transaction after confirmation.`,
	Example: `./inventory apply-sql --dialect sqlite --database data/supply_chain.db --in_file supply_chain_drop_tables.sql`,
	RunE:    runApplySQL,
}

func runApplySQL(cmd *cobra.Command, args []string) error {
	inputFile := cmd.Flag("in_file").Value.String()
	if inputFile == "" {
		return fmt.Errorf("--in_file is required")
	}

	sqlStatements, err := utils.ReadSQLStatementsFromFile(inputFile)
	if err != nil {
		return err
	}
	if len(sqlStatements) == 0 {
		logger.Info("No SQL statements found in file.", zap.String("path", inputFile))
		return nil
	}
	for _, stmt := range sqlStatements {
		fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt)
	}
	if dryRun {
		logger.Info("No statements were executed in dry-run mode.", zap.Int("statements", len(sqlStatements)))
		return nil
	}

	ctx := cmd.Context()
	db, err := setupDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !utils.ConfirmAction(fmt.Sprintf("%d SQL statements from %s", len(sqlStatements), inputFile)) {
		logger.Info("Apply aborted by user.")
		return nil
	}
	if err := db.ExecuteSQLStatements(ctx, sqlStatements); err != nil {
		return fmt.Errorf("failed to execute SQL statements: %w", err)
	}
	logger.Info("Successfully applied SQL statements.", zap.Int("statements", len(sqlStatements)))
	return nil
}

func init() {
	applySQLCmd.Flags().StringP("in_file", "i", "", "SQL file to execute")
	applySQLCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

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
	"strings"

	"github.com/spf13/cobra"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/corrupt"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

var listTablesCmd = &cobra.Command{
	Use:   "list-tables",
	Short: "List the supply chain tables and the columns each corruption may target",
	Long: `Prints the table catalog in creation order with its columns, keys and the
corruption eligibility of each table. With --live the tables present in the
configured database are listed as well.`,
	RunE: runListTables,
}

func runListTables(cmd *cobra.Command, args []string) error {
	writeCatalog(cmd.OutOrStdout(), schema.Supply(), corrupt.SupplyRegistry())

	live, _ := cmd.Flags().GetBool("live")
	if !live {
		return nil
	}
	db, err := setupDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()
	tables, err := db.ListTables()
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Database tables: %s\n", strings.Join(tables, ", "))
	return nil
}

func writeCatalog(w io.Writer, catalog *schema.Catalog, registry *corrupt.Registry) {
	for _, def := range catalog.Tables() {
		fmt.Fprintf(w, "%s\n", def.Name)
		for _, c := range def.Columns {
			var flags []string
			if c.PrimaryKey {
				flags = append(flags, "primary key")
			}
			if c.AutoIncrement {
				flags = append(flags, "auto increment")
			}
			if c.NotNull {
				flags = append(flags, "not null")
			}
			line := fmt.Sprintf("  %-22s %s", c.Name, c.Type)
			if len(flags) > 0 {
				line += " (" + strings.Join(flags, ", ") + ")"
			}
			fmt.Fprintln(w, line)
		}
		for _, fk := range def.ForeignKeys {
			fmt.Fprintf(w, "  foreign key %s -> %s.%s\n", fk.Column, fk.RefTable, fk.RefColumn)
		}
		e, err := registry.Lookup(def.Name)
		if err != nil {
			fmt.Fprintln(w, "  corruption: none (loaded clean)")
			continue
		}
		fmt.Fprintf(w, "  negatable: %s\n", strings.Join(e.Negatable, ", "))
		fmt.Fprintf(w, "  outlier: %s\n", strings.Join(e.Outlier, ", "))
		fmt.Fprintf(w, "  corruptible: %s\n", strings.Join(e.Corruptible, ", "))
	}
}

func init() {
	listTablesCmd.Flags().Bool("live", false, "Also list the tables present in the configured database")
}

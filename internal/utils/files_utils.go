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
package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadSQLStatementsFromFile splits a file written by WriteSQLStatements back
// into statements. Lines starting with "--" are dropped.
func ReadSQLStatementsFromFile(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var body strings.Builder
	for _, line := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}

	sqlStatements := strings.Split(body.String(), ";\n")
	var trimmedStatements []string
	for _, stmt := range sqlStatements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt != "" {
			trimmedStatements = append(trimmedStatements, strings.TrimSuffix(trimmedStmt, ";"))
		}
	}
	return trimmedStatements, nil
}

// WriteSQLStatements writes one statement per block, each terminated by
// ";" and a newline.
func WriteSQLStatements(w io.Writer, header string, stmts []string) error {
	if header != "" {
		if _, err := fmt.Fprintf(w, "-- %s\n", header); err != nil {
			return err
		}
	}
	for _, stmt := range stmts {
		stmt = strings.TrimSuffix(strings.TrimSpace(stmt), ";")
		if _, err := fmt.Fprintf(w, "%s;\n", stmt); err != nil {
			return fmt.Errorf("failed to write SQL statement: %w", err)
		}
	}
	return nil
}

// GetDefaultOutputFilePath derives an output file name from the database
// name, which for sqlite is a path.
func GetDefaultOutputFilePath(dbName, commandName string) string {
	base := strings.TrimSuffix(filepath.Base(dbName), filepath.Ext(dbName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "inventory"
	}
	switch commandName {
	case "show-table":
		return fmt.Sprintf("%s_tables.txt", base)
	case "seed":
		return fmt.Sprintf("%s_seed_report.json", base)
	case "corrupt":
		return fmt.Sprintf("%s_corruption_report.json", base)
	default: // drop-tables, create-tables
		return fmt.Sprintf("%s_%s.sql", base, strings.ReplaceAll(commandName, "-", "_"))
	}
}

func ConfirmAction(actionDescription string) bool {
	return confirm(os.Stdin, os.Stdout, actionDescription)
}

func confirm(in io.Reader, out io.Writer, actionDescription string) bool {
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "\n-------------------------------------------------------------\n")
	fmt.Fprintf(out, "Generated %s:\n", actionDescription)
	fmt.Fprint(out, "Do you want to apply these changes to the database? (yes/no): ")
	text, _ := reader.ReadString('\n')
	action := strings.TrimSpace(strings.ToLower(text))
	return action == "yes" || action == "y"
}

func ParseTablesFlag(tablesFlag string) (map[string][]string, error) {
	tableColumns := make(map[string][]string)
	if tablesFlag == "" {
		return tableColumns, nil
	}

	// strip any whitespace
	tablesFlag = strings.ReplaceAll(tablesFlag, " ", "")

	// Split by comma, but only if the comma is not within square brackets
	parts := SplitOutsideBrackets(tablesFlag)

	for _, part := range parts {
		part = strings.TrimSpace(part)

		// Check if there are columns specified
		bracketStart := strings.Index(part, "[")
		if bracketStart != -1 {
			bracketEnd := strings.Index(part, "]")
			if bracketEnd == -1 {
				return nil, fmt.Errorf("missing closing bracket in: %s", part)
			}

			tableName := strings.TrimSpace(part[:bracketStart])
			if tableName == "" {
				return nil, fmt.Errorf("missing table name before '[' in: %s", part)
			}
			columnsStr := strings.TrimSpace(part[bracketStart+1 : bracketEnd])

			// Split columns by comma and trim spaces
			columns := strings.Split(columnsStr, ",")
			var trimmedColumns []string
			for _, col := range columns {
				trimmedColumns = append(trimmedColumns, strings.TrimSpace(col))
			}
			tableColumns[tableName] = trimmedColumns
		} else {
			// No columns specified, just table name
			tableColumns[part] = nil
		}
	}

	return tableColumns, nil
}

// SplitOutsideBrackets Helper function to split string by commas that are not within brackets
func SplitOutsideBrackets(s string) []string {
	var result []string
	var current strings.Builder
	inBrackets := false

	for _, char := range s {
		switch char {
		case '[':
			inBrackets = true
			current.WriteRune(char)
		case ']':
			inBrackets = false
			current.WriteRune(char)
		case ',':
			if inBrackets {
				current.WriteRune(char)
			} else {
				result = append(result, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	// Add the last part
	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}

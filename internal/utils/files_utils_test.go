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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTablesFlag(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		want    map[string][]string
		wantErr bool
	}{
		{name: "empty", flag: "", want: map[string][]string{}},
		{name: "tables only", flag: "orders, stock_levels", want: map[string][]string{"orders": nil, "stock_levels": nil}},
		{
			name: "with columns",
			flag: "orders[order_id, quantity_ordered],daily_demand",
			want: map[string][]string{"orders": {"order_id", "quantity_ordered"}, "daily_demand": nil},
		},
		{name: "unclosed bracket", flag: "orders[order_id", wantErr: true},
		{name: "missing table name", flag: "[order_id]", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTablesFlag(tt.flag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitOutsideBrackets(t *testing.T) {
	assert.Equal(t, []string{"a[x,y]", "b", "c[z]"}, SplitOutsideBrackets("a[x,y],b,c[z]"))
	assert.Nil(t, SplitOutsideBrackets(""))
}

func TestGetDefaultOutputFilePath(t *testing.T) {
	assert.Equal(t, "supply_chain_tables.txt", GetDefaultOutputFilePath("data/supply_chain.db", "show-table"))
	assert.Equal(t, "inventory_seed_report.json", GetDefaultOutputFilePath("inventory", "seed"))
	assert.Equal(t, "inventory_corruption_report.json", GetDefaultOutputFilePath("", "corrupt"))
	assert.Equal(t, "supply_chain_drop_tables.sql", GetDefaultOutputFilePath("supply_chain.db", "drop-tables"))
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("yes\n"), &out, "DROP statements"))
	assert.Contains(t, out.String(), "Generated DROP statements:")
	assert.True(t, confirm(strings.NewReader(" Y \n"), &out, "x"))
	assert.False(t, confirm(strings.NewReader("no\n"), &out, "x"))
	assert.False(t, confirm(strings.NewReader(""), &out, "x"))
}

func TestSQLStatementsRoundTrip(t *testing.T) {
	stmts := []string{
		"DROP TABLE IF EXISTS \"orders\";",
		"CREATE TABLE IF NOT EXISTS \"t\" (\n    \"id\" BIGINT\n);",
		"DROP TABLE IF EXISTS \"aircraft_parts\"",
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSQLStatements(&buf, "generated for supply_chain", stmts))
	assert.True(t, strings.HasPrefix(buf.String(), "-- generated for supply_chain\n"))

	path := filepath.Join(t.TempDir(), "out.sql")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	got, err := ReadSQLStatementsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"DROP TABLE IF EXISTS \"orders\"",
		"CREATE TABLE IF NOT EXISTS \"t\" (\n    \"id\" BIGINT\n)",
		"DROP TABLE IF EXISTS \"aircraft_parts\"",
	}, got)

	_, err = ReadSQLStatementsFromFile(filepath.Join(t.TempDir(), "missing.sql"))
	assert.Error(t, err)
}

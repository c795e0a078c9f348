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
package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/corrupt"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/database"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "supply_chain.db")
	db, err := database.New(context.Background(), config.DatabaseConfig{Dialect: "sqlite", DBName: path}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteColumnDefinition(t *testing.T) {
	h := sqliteHandler{}
	assert.Equal(t, "INTEGER PRIMARY KEY AUTOINCREMENT",
		h.ColumnDefinition(schema.Column{Type: dataset.Integer, PrimaryKey: true, AutoIncrement: true}, true))
	assert.Equal(t, "TEXT PRIMARY KEY", h.ColumnDefinition(schema.Column{Type: dataset.Text, PrimaryKey: true}, true))
	assert.Equal(t, "REAL NOT NULL", h.ColumnDefinition(schema.Column{Type: dataset.Real, NotNull: true}, false))
	assert.Equal(t, "TEXT", h.ColumnDefinition(schema.Column{Type: dataset.Text}, false))
}

func TestSQLiteRequiresPath(t *testing.T) {
	_, err := sqliteHandler{}.CreateStandardPool(config.DatabaseConfig{Dialect: "sqlite"})
	assert.Error(t, err)
	_, err = sqliteHandler{}.CreateCloudSQLPool(config.DatabaseConfig{})
	assert.Error(t, err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	catalog := schema.Supply()

	require.NoError(t, db.CreateTables(ctx, catalog.Tables()))
	// Creating again is a no-op.
	require.NoError(t, db.CreateTables(ctx, catalog.Tables()))

	tables, err := db.ListTables()
	require.NoError(t, err)
	assert.ElementsMatch(t, catalog.Names(), tables)

	def, _ := catalog.Table(schema.SupplierLeadTimes)
	rows := dataset.New(def.Name, def.DatasetColumns())
	rows.Rows = []dataset.Row{
		{int64(1), int64(10), "Acme Aero", int64(-3), int64(12), int64(20)},
		{int64(2), int64(11), "Jet Parts", nil, int64(40), nil},
	}
	n, err := db.InsertRows(ctx, def, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	back, err := db.ReadTable(ctx, def)
	require.NoError(t, err)
	assert.True(t, back.Equal(rows), "read back %v", back.Rows)

	require.NoError(t, db.DropTables(ctx, catalog.Tables()))
	tables, err = db.ListTables()
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestSQLiteAudit(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.EnsureAuditTable(ctx))
	reports := []corrupt.Report{
		{Step: "drop", Kind: corrupt.KindDropRows, Applied: true, Details: corrupt.Details{"dropped_rows": 2, "p_row": 0.1}},
		{Step: "nulls", Kind: corrupt.KindNullValues, Applied: false, Details: corrupt.Details{}},
	}
	runID := database.NewRunID()
	require.NoError(t, db.RecordReports(ctx, runID, schema.Orders, reports))

	got, err := db.ReadTable(ctx, database.AuditTableDef())
	require.NoError(t, err)
	require.Equal(t, 2, got.Len())

	first := got.Rows[0]
	assert.Equal(t, int64(1), first[0])
	assert.Equal(t, runID, first[1])
	assert.Equal(t, schema.Orders, first[2])
	assert.Equal(t, int64(0), first[3])
	assert.Equal(t, "drop", first[4])
	assert.Equal(t, "drop_rows", first[5])
	assert.Equal(t, int64(1), first[6])
	assert.JSONEq(t, `{"dropped_rows":2,"p_row":0.1}`, first[7].(string))

	second := got.Rows[1]
	assert.Equal(t, int64(1), second[3])
	assert.Equal(t, int64(0), second[6])
	assert.Equal(t, "{}", second[7])
}

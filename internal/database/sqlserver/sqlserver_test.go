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
package sqlserver

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/database"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

func TestSQLServerQuoteIdentifier(t *testing.T) {
	h := sqlServerHandler{}
	assert.Equal(t, "[orders]", h.QuoteIdentifier("orders"))
	assert.Equal(t, "[a]]b]", h.QuoteIdentifier("a]b"))
}

func TestSQLServerCreateTableSQL(t *testing.T) {
	db := &database.DB{Handler: sqlServerHandler{}}

	def, ok := schema.Supply().Table(schema.WarehouseLocations)
	require.True(t, ok)
	got, err := db.GenerateCreateTableSQL(def)
	require.NoError(t, err)

	want := "IF OBJECT_ID(N'warehouse_locations', N'U') IS NULL\n" +
		"CREATE TABLE [warehouse_locations] (\n" +
		"    [location_id] NVARCHAR(255) PRIMARY KEY,\n" +
		"    [facility_code] NVARCHAR(MAX) NOT NULL,\n" +
		"    [location_type] NVARCHAR(MAX) NOT NULL,\n" +
		"    [max_capacity_units] BIGINT NOT NULL,\n" +
		"    [temperature_control] NVARCHAR(MAX),\n" +
		"    [hazmat_rating] NVARCHAR(MAX),\n" +
		"    [is_secure] NVARCHAR(MAX),\n" +
		"    [notes] NVARCHAR(MAX)\n" +
		");"
	assert.Equal(t, want, got)

	insert, err := db.GenerateInsertSQL("orders", []string{"order_id", "part_id", "quantity_ordered"})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO [orders] ([order_id], [part_id], [quantity_ordered]) VALUES (@p1, @p2, @p3)", insert)
}

func TestSQLServerIdentityFreeKeys(t *testing.T) {
	def, _ := schema.Supply().Table(schema.Orders)
	col, _ := def.Column("order_id")
	assert.Equal(t, "BIGINT PRIMARY KEY", sqlServerHandler{}.ColumnDefinition(col, true))
}

func TestSQLServerListTables(t *testing.T) {
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := &database.DB{Pool: mockDb, Handler: sqlServerHandler{}, Config: config.DatabaseConfig{Dialect: "sqlserver"}}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES")).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("aircraft_parts").AddRow("orders"))

	tables, err := db.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"aircraft_parts", "orders"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLServerReadTable(t *testing.T) {
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := &database.DB{Pool: mockDb, Handler: sqlServerHandler{}}
	defer db.Close()

	def, _ := schema.Supply().Table(schema.DailyDemand)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT [demand_id], [part_id], [location_id], [demand_date], [demand_quantity] FROM [daily_demand] ORDER BY [demand_id]")).
		WillReturnRows(sqlmock.NewRows([]string{"demand_id", "part_id", "location_id", "demand_date", "demand_quantity"}).
			AddRow(int64(1), int64(3), []byte("WH-A"), "2024-01-01", int64(-2)))

	got, err := db.ReadTable(context.Background(), def)
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, []any{int64(1), int64(3), "WH-A", "2024-01-01", int64(-2)}, []any(got.Rows[0]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

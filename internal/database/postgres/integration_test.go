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
package postgres

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/corrupt"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/database"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

const (
	testDBHost     = "localhost"
	testDBPort     = 5432
	testDBUser     = "test_user"
	testDBPassword = "test_password"
	testDBName     = "test_db"
)

// liveConfig points at a local PostgreSQL when INVENTORY_TEST_POSTGRES is set.
// The INVENTORY_TEST_POSTGRES_* variables override the defaults above.
func liveConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	if testing.Short() || os.Getenv("INVENTORY_TEST_POSTGRES") == "" {
		t.Skip("set INVENTORY_TEST_POSTGRES=1 to run against a live PostgreSQL")
	}
	env := func(key, def string) string {
		if v := os.Getenv("INVENTORY_TEST_POSTGRES_" + key); v != "" {
			return v
		}
		return def
	}
	port, err := strconv.Atoi(env("PORT", strconv.Itoa(testDBPort)))
	require.NoError(t, err)
	return config.DatabaseConfig{
		Dialect:  "postgres",
		Host:     env("HOST", testDBHost),
		Port:     port,
		User:     env("USER", testDBUser),
		Password: env("PASSWORD", testDBPassword),
		DBName:   env("NAME", testDBName),
		SSLMode:  "disable",
	}
}

func TestLivePostgresRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := database.New(ctx, liveConfig(t), nil)
	require.NoError(t, err)
	defer db.Close()

	catalog := schema.Supply()
	defs := catalog.Tables()
	require.NoError(t, db.DropTables(ctx, append(defs, database.AuditTableDef())))
	require.NoError(t, db.CreateTables(ctx, defs))
	require.NoError(t, db.EnsureAuditTable(ctx))
	t.Cleanup(func() {
		_ = db.DropTables(context.Background(), append(defs, database.AuditTableDef()))
	})

	tables, err := db.ListTables()
	require.NoError(t, err)
	assert.Subset(t, tables, catalog.Names())

	parts, _ := catalog.Table(schema.AircraftParts)
	rows := dataset.New(parts.Name, parts.DatasetColumns())
	rows.Rows = []dataset.Row{
		{int64(1), "APU-STARTER-001", "APU", "APU starter motor", int64(49), "HIGH", 18250.5, int64(45)},
		{int64(2), "HYD-PUMP-002", nil, "Engine driven pump", nil, nil, 9100.0, int64(30)},
	}
	n, err := db.InsertRows(ctx, parts, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	stored, err := db.ReadTable(ctx, parts)
	require.NoError(t, err)
	assert.True(t, rows.Equal(stored))

	locations, _ := catalog.Table(schema.WarehouseLocations)
	loc := dataset.New(locations.Name, locations.DatasetColumns())
	loc.Rows = []dataset.Row{{"LOC-A", "MRO1", "HANGAR", int64(500), nil, nil, "Y", nil}}
	_, err = db.InsertRows(ctx, locations, loc)
	require.NoError(t, err)

	// Identity keys are filled in when the column is omitted.
	demand, _ := catalog.Table(schema.DailyDemand)
	noKey := dataset.New(demand.Name, demand.DatasetColumns()[1:])
	noKey.Rows = []dataset.Row{{int64(1), "LOC-A", "2024-01-01", int64(-3)}}
	_, err = db.InsertRows(ctx, demand, noKey)
	require.NoError(t, err)
	back, err := db.ReadTable(ctx, demand)
	require.NoError(t, err)
	require.Equal(t, 1, back.Len())
	id, _ := back.Value(0, "demand_id")
	assert.Equal(t, int64(1), id)

	reports := []corrupt.Report{{Step: "negate", Kind: corrupt.KindNegativeQuantity, Applied: true, Details: corrupt.Details{"p_cell": 1.0}}}
	require.NoError(t, db.RecordReports(ctx, database.NewRunID(), demand.Name, reports))
}

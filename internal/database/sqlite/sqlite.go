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
// Package sqlite registers the file-backed SQLite dialect, the default
// target for local seeding runs.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/database"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type sqliteHandler struct{}

var _ database.DialectHandler = (*sqliteHandler)(nil)

func (h sqliteHandler) CreateCloudSQLPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	return nil, fmt.Errorf("sqlite has no Cloud SQL variant")
}

// CreateStandardPool opens the database file named by cfg.DBName, creating
// its directory when needed.
func (h sqliteHandler) CreateStandardPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	path := cfg.DBName
	if path == "" {
		return nil, fmt.Errorf("sqlite needs a database file path")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}

	dbPool, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open (sqlite): %w", err)
	}
	// One writer at a time; an in-memory database also exists per connection.
	dbPool.SetMaxOpenConns(1)
	return dbPool, nil
}

func (h sqliteHandler) DriverName() string {
	return "sqlite"
}

func (h sqliteHandler) QuoteIdentifier(name string) string {
	return fmt.Sprintf(`"%s"`, strings.ReplaceAll(name, `"`, `""`))
}

func (h sqliteHandler) ColumnDefinition(col schema.Column, _ bool) string {
	def := col.Type.String()
	switch {
	case col.PrimaryKey && col.AutoIncrement && col.Type == dataset.Integer:
		return def + " PRIMARY KEY AUTOINCREMENT"
	case col.PrimaryKey:
		return def + " PRIMARY KEY"
	case col.NotNull:
		return def + " NOT NULL"
	}
	return def
}

func (h sqliteHandler) CreateTableSQL(table string, body string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);", h.QuoteIdentifier(table), body)
}

func (h sqliteHandler) Placeholder(int) string {
	return "?"
}

func (h sqliteHandler) ListTables(db *database.DB) ([]string, error) {
	query := "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	return database.QueryStrings(db, query)
}

func init() {
	database.RegisterDialectHandler("sqlite", sqliteHandler{})
}

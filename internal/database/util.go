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
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

// GenerateCreateTableSQL renders the CREATE TABLE statement for def in the
// handler's dialect, foreign keys included.
func (db *DB) GenerateCreateTableSQL(def schema.Table) (string, error) {
	if db.Handler == nil {
		return "", fmt.Errorf("dialect handler not initialized")
	}
	if len(def.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", def.Name)
	}
	h := db.Handler

	fkColumns := make(map[string]bool, len(def.ForeignKeys))
	for _, fk := range def.ForeignKeys {
		fkColumns[fk.Column] = true
	}

	lines := make([]string, 0, len(def.Columns)+len(def.ForeignKeys))
	for _, col := range def.Columns {
		indexed := col.PrimaryKey || fkColumns[col.Name]
		lines = append(lines, fmt.Sprintf("    %s %s", h.QuoteIdentifier(col.Name), h.ColumnDefinition(col, indexed)))
	}
	for _, fk := range def.ForeignKeys {
		lines = append(lines, fmt.Sprintf("    FOREIGN KEY (%s) REFERENCES %s(%s)",
			h.QuoteIdentifier(fk.Column), h.QuoteIdentifier(fk.RefTable), h.QuoteIdentifier(fk.RefColumn)))
	}
	return h.CreateTableSQL(def.Name, strings.Join(lines, ",\n")), nil
}

// GenerateDropTableSQL renders a DROP TABLE that tolerates a missing table.
func (db *DB) GenerateDropTableSQL(table string) (string, error) {
	if db.Handler == nil {
		return "", fmt.Errorf("dialect handler not initialized")
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", db.Handler.QuoteIdentifier(table)), nil
}

// GenerateInsertSQL renders a parameterized single-row INSERT for columns.
func (db *DB) GenerateInsertSQL(table string, columns []string) (string, error) {
	if db.Handler == nil {
		return "", fmt.Errorf("dialect handler not initialized")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("insert into %s needs at least one column", table)
	}
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = db.Handler.QuoteIdentifier(c)
		params[i] = db.Handler.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		db.Handler.QuoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(params, ", ")), nil
}

// CreateTables creates defs in order inside one transaction.
func (db *DB) CreateTables(ctx context.Context, defs []schema.Table) error {
	stmts := make([]string, 0, len(defs))
	for _, def := range defs {
		stmt, err := db.GenerateCreateTableSQL(def)
		if err != nil {
			return err
		}
		stmts = append(stmts, stmt)
	}
	return db.ExecuteSQLStatements(ctx, stmts)
}

// DropTables drops defs in reverse order so referencing tables go first.
func (db *DB) DropTables(ctx context.Context, defs []schema.Table) error {
	stmts := make([]string, 0, len(defs))
	for i := len(defs) - 1; i >= 0; i-- {
		stmt, err := db.GenerateDropTableSQL(defs[i].Name)
		if err != nil {
			return err
		}
		stmts = append(stmts, stmt)
	}
	return db.ExecuteSQLStatements(ctx, stmts)
}

// InsertRows writes every row of rows into def's table through one prepared
// statement in one transaction and returns the number of rows written.
// Columns are taken from rows, so it may omit columns the database fills in.
func (db *DB) InsertRows(ctx context.Context, def schema.Table, rows *dataset.Table) (int64, error) {
	if db.Pool == nil {
		return 0, fmt.Errorf("database connection pool is not initialized")
	}
	if rows.Len() == 0 {
		return 0, nil
	}
	for _, c := range rows.Columns {
		if _, ok := def.Column(c.Name); !ok {
			return 0, fmt.Errorf("column %s is not declared on table %s", c.Name, def.Name)
		}
	}

	query, err := db.GenerateInsertSQL(def.Name, rows.ColumnNames())
	if err != nil {
		return 0, err
	}

	tx, err := db.Pool.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert into %s: %w", def.Name, err)
	}
	defer stmt.Close()

	var n int64
	for i, row := range rows.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("failed inserting row %d into %s: %w", i+1, def.Name, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	db.log().Debug("Inserted rows", zap.String("table", def.Name), zap.Int64("rows", n))
	return n, nil
}

// ReadTable reads every row of def's table, ordered by its primary key when
// it has one, converting driver values to the declared column types.
func (db *DB) ReadTable(ctx context.Context, def schema.Table) (*dataset.Table, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database connection pool is not initialized")
	}
	if db.Handler == nil {
		return nil, fmt.Errorf("dialect handler not initialized")
	}
	h := db.Handler

	cols := make([]string, len(def.Columns))
	var order []string
	for i, c := range def.Columns {
		cols[i] = h.QuoteIdentifier(c.Name)
		if c.PrimaryKey {
			order = append(order, cols[i])
		}
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), h.QuoteIdentifier(def.Name))
	if len(order) > 0 {
		query += " ORDER BY " + strings.Join(order, ", ")
	}

	x := sqlx.NewDb(db.Pool, h.DriverName())
	rows, err := x.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying table %s: %w", def.Name, err)
	}
	defer rows.Close()

	out := dataset.New(def.Name, def.DatasetColumns())
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("error scanning row of %s: %w", def.Name, err)
		}
		row := make(dataset.Row, len(def.Columns))
		for i, c := range def.Columns {
			v, err := dataset.NormalizeValue(values[i], c.Type)
			if err != nil {
				return nil, fmt.Errorf("column %s.%s: %w", def.Name, c.Name, err)
			}
			row[i] = v
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows of %s: %w", def.Name, err)
	}
	return out, nil
}

// QueryStrings runs query and collects its single string column, the shape
// every ListTables query returns.
func QueryStrings(db *DB, query string, args ...any) ([]string, error) {
	rows, err := db.Pool.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("error scanning table name: %w", err)
		}
		tables = append(tables, tableName)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating table rows: %w", err)
	}
	return tables, nil
}

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
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/corrupt"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

// DBAdapter defines the database operations needed by the seeder and the CLI.
type DBAdapter interface {
	ListTables() ([]string, error)
	CreateTables(ctx context.Context, defs []schema.Table) error
	DropTables(ctx context.Context, defs []schema.Table) error
	InsertRows(ctx context.Context, def schema.Table, rows *dataset.Table) (int64, error)
	ReadTable(ctx context.Context, def schema.Table) (*dataset.Table, error)
	EnsureAuditTable(ctx context.Context) error
	RecordReports(ctx context.Context, runID, table string, reports []corrupt.Report) error
	ExecuteSQLStatements(ctx context.Context, sqlStatements []string) error
	Ping(ctx context.Context) error
	Close() error
	GetConfig() config.DatabaseConfig
}

var _ DBAdapter = (*DB)(nil)

// DB holds the database connection pool and dialect handler.
type DB struct {
	Pool    *sql.DB
	Handler DialectHandler
	Config  config.DatabaseConfig
	Logger  *zap.Logger
}

// DialectHandler hides the differences between database engines: how to
// connect, how to spell identifiers, column types and bind parameters, and
// how to list tables.
type DialectHandler interface {
	CreateCloudSQLPool(cfg config.DatabaseConfig) (*sql.DB, error)
	CreateStandardPool(cfg config.DatabaseConfig) (*sql.DB, error)
	// DriverName is the database/sql driver name, used to pick the bind
	// style for sqlx.
	DriverName() string
	QuoteIdentifier(name string) string
	// ColumnDefinition renders everything after the quoted column name.
	// indexed is true for key and foreign key columns, which some engines
	// cannot store as unbounded text.
	ColumnDefinition(col schema.Column, indexed bool) string
	// CreateTableSQL wraps a column list into a statement that is a no-op
	// when the table already exists.
	CreateTableSQL(table string, body string) string
	// Placeholder returns the bind parameter for the n-th argument, from 1.
	Placeholder(n int) string
	ListTables(db *DB) ([]string, error)
}

var (
	dialectHandlers = make(map[string]DialectHandler)
	mu              sync.RWMutex
)

func RegisterDialectHandler(dialect string, handler DialectHandler) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := dialectHandlers[dialect]; exists {
		zap.L().Warn("Dialect handler is being overwritten", zap.String("dialect", dialect))
	}
	dialectHandlers[dialect] = handler
}

func GetDialectHandler(dialect string) (DialectHandler, error) {
	mu.RLock()
	defer mu.RUnlock()
	handler, ok := dialectHandlers[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported database dialect: %s", dialect)
	}
	return handler, nil
}

// Dialects returns the registered dialect names.
func Dialects() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(dialectHandlers))
	for name := range dialectHandlers {
		names = append(names, name)
	}
	return names
}

func New(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	handler, err := GetDialectHandler(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var pool *sql.DB
	if strings.HasPrefix(cfg.Dialect, "cloudsql") {
		pool, err = handler.CreateCloudSQLPool(cfg)
	} else {
		pool, err = handler.CreateStandardPool(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool for dialect %s: %w", cfg.Dialect, err)
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database (ping failed) for dialect %s: %w", cfg.Dialect, err)
	}

	logger.Debug("Connected to database", zap.String("dialect", cfg.Dialect), zap.String("database", cfg.DBName))
	return &DB{
		Pool:    pool,
		Handler: handler,
		Config:  cfg,
		Logger:  logger,
	}, nil
}

func (db *DB) log() *zap.Logger {
	if db.Logger == nil {
		return zap.NewNop()
	}
	return db.Logger
}

func (db *DB) GetConfig() config.DatabaseConfig {
	return db.Config
}

func (db *DB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database connection pool is not initialized")
	}
	return db.Pool.PingContext(ctx)
}

func (db *DB) Close() error {
	if db.Pool != nil {
		return db.Pool.Close()
	}
	db.log().Warn("Attempted to close a nil database connection pool")
	return nil
}

func (db *DB) ListTables() ([]string, error) {
	if db.Handler == nil {
		return nil, fmt.Errorf("dialect handler not initialized")
	}
	return db.Handler.ListTables(db)
}

// ExecuteSQLStatements runs the statements in order inside one transaction.
// Blank statements are skipped.
func (db *DB) ExecuteSQLStatements(ctx context.Context, sqlStatements []string) error {
	if db.Pool == nil {
		return fmt.Errorf("database connection pool is not initialized")
	}
	if len(sqlStatements) == 0 {
		db.log().Info("No SQL statements provided to ExecuteSQLStatements")
		return nil
	}

	tx, err := db.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range sqlStatements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, trimmedStmt); err != nil {
			db.log().Error("Failed executing statement",
				zap.Int("statement", i+1), zap.String("sql", trimmedStmt), zap.Error(err))
			return fmt.Errorf("failed executing statement #%d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

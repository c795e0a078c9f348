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
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

// Mock DialectHandler implementation
type mockDialectHandler struct {
	mu                   sync.Mutex
	createCloudSQLPoolFn func(cfg config.DatabaseConfig) (*sql.DB, error)
	createStandardPoolFn func(cfg config.DatabaseConfig) (*sql.DB, error)
	listTablesFn         func(db *DB) ([]string, error)

	// Call counters/trackers
	cloudPoolCalls    int
	standardPoolCalls int
	listTablesCalls   int
}

func (m *mockDialectHandler) CreateCloudSQLPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cloudPoolCalls++
	if m.createCloudSQLPoolFn != nil {
		return m.createCloudSQLPoolFn(cfg)
	}
	// Return a mock DB by default
	mockDb, _, _ := sqlmock.New()
	return mockDb, nil
}

func (m *mockDialectHandler) CreateStandardPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standardPoolCalls++
	if m.createStandardPoolFn != nil {
		return m.createStandardPoolFn(cfg)
	}
	mockDb, _, _ := sqlmock.New()
	return mockDb, nil
}

func (m *mockDialectHandler) DriverName() string { return "mock" }

func (m *mockDialectHandler) QuoteIdentifier(name string) string { return "<" + name + ">" }

func (m *mockDialectHandler) ColumnDefinition(col schema.Column, indexed bool) string {
	def := col.Type.String()
	if indexed {
		def += " INDEXED"
	}
	if col.PrimaryKey {
		def += " KEY"
	}
	return def
}

func (m *mockDialectHandler) CreateTableSQL(table string, body string) string {
	return fmt.Sprintf("CREATE %s (%s)", m.QuoteIdentifier(table), body)
}

func (m *mockDialectHandler) Placeholder(n int) string { return fmt.Sprintf(":%d", n) }

func (m *mockDialectHandler) ListTables(db *DB) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listTablesCalls++
	if m.listTablesFn != nil {
		return m.listTablesFn(db)
	}
	return []string{"mock_table"}, nil
}

func TestRegisterAndGetDialectHandler(t *testing.T) {
	// Clean up handlers registered by other tests or init()
	mu.Lock()
	originalHandlers := make(map[string]DialectHandler)
	for k, v := range dialectHandlers {
		originalHandlers[k] = v
	}
	dialectHandlers = make(map[string]DialectHandler)
	mu.Unlock()

	// Restore original handlers after test
	defer func() {
		mu.Lock()
		dialectHandlers = originalHandlers
		mu.Unlock()
	}()

	mockHandler := &mockDialectHandler{}
	testDialect := "testdialect"

	// Test Get before Register
	_, err := GetDialectHandler(testDialect)
	if err == nil {
		t.Errorf("Expected error when getting unregistered dialect, got nil")
	}

	// Test Register
	RegisterDialectHandler(testDialect, mockHandler)

	handler, err := GetDialectHandler(testDialect)
	if err != nil {
		t.Errorf("Unexpected error getting registered dialect: %v", err)
	}
	if handler != mockHandler {
		t.Errorf("Got wrong handler back, expected mock, got %T", handler)
	}
	if got := Dialects(); len(got) != 1 || got[0] != testDialect {
		t.Errorf("Dialects() = %v, want [%s]", got, testDialect)
	}

	// Test Overwrite
	mockHandler2 := &mockDialectHandler{}
	RegisterDialectHandler(testDialect, mockHandler2)
	handler, err = GetDialectHandler(testDialect)
	if err != nil {
		t.Errorf("Unexpected error getting overwritten dialect: %v", err)
	}
	if handler != mockHandler2 {
		t.Errorf("Got wrong handler back after overwrite, expected mock2, got %T", handler)
	}
}

func TestNewPicksPool(t *testing.T) {
	mockHandler := &mockDialectHandler{}
	RegisterDialectHandler("mockdb", mockHandler)
	RegisterDialectHandler("cloudsqlmockdb", mockHandler)
	defer func() {
		mu.Lock()
		delete(dialectHandlers, "mockdb")
		delete(dialectHandlers, "cloudsqlmockdb")
		mu.Unlock()
	}()
	ctx := context.Background()

	db, err := New(ctx, config.DatabaseConfig{Dialect: "mockdb"}, nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	db.Close()
	db, err = New(ctx, config.DatabaseConfig{Dialect: "cloudsqlmockdb"}, nil)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	db.Close()
	if mockHandler.standardPoolCalls != 1 || mockHandler.cloudPoolCalls != 1 {
		t.Errorf("pool calls standard=%d cloud=%d, want 1 and 1", mockHandler.standardPoolCalls, mockHandler.cloudPoolCalls)
	}

	mockHandler.createStandardPoolFn = func(config.DatabaseConfig) (*sql.DB, error) {
		return nil, errors.New("no route to host")
	}
	if _, err := New(ctx, config.DatabaseConfig{Dialect: "mockdb"}, nil); err == nil {
		t.Errorf("New() expected pool error, got nil")
	}

	if _, err := New(ctx, config.DatabaseConfig{Dialect: "nosuchdb"}, nil); err == nil {
		t.Errorf("New() expected unsupported dialect error, got nil")
	}
}

func TestDBMethodsDelegateToHandler(t *testing.T) {
	mockHandler := &mockDialectHandler{}
	mockDb, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	db := &DB{Pool: mockDb, Handler: mockHandler, Config: config.DatabaseConfig{Dialect: "mock"}}
	defer db.Close()

	tables, err := db.ListTables()
	if err != nil || len(tables) != 1 || mockHandler.listTablesCalls != 1 {
		t.Errorf("ListTables() = %v, %v after %d calls", tables, err, mockHandler.listTablesCalls)
	}

	mock.ExpectPing()
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("db.Ping() returned unexpected error: %v", err)
	}
	if cfg := db.GetConfig(); cfg.Dialect != "mock" {
		t.Errorf("db.GetConfig() returned wrong dialect, got %s, want mock", cfg.Dialect)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}

	empty := &DB{}
	if _, err := empty.ListTables(); err == nil {
		t.Errorf("ListTables() without handler expected error")
	}
	if err := empty.Ping(context.Background()); err == nil {
		t.Errorf("Ping() without pool expected error")
	}
	if err := empty.Close(); err != nil {
		t.Errorf("Close() without pool returned %v", err)
	}
}

func TestExecuteSQLStatements(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		sqlStatements []string
		mockSetup     func(mock sqlmock.Sqlmock) // Setup mock expectations
		expectedError bool
	}{
		{
			name:          "Success case",
			sqlStatements: []string{"SELECT 1;", "UPDATE t SET c=1;"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("SELECT 1;").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("UPDATE t SET c=1;").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedError: false,
		},
		{
			name:          "Empty statements list",
			sqlStatements: []string{},
			mockSetup:     func(mock sqlmock.Sqlmock) {},
			expectedError: false,
		},
		{
			name:          "Statements with only whitespace",
			sqlStatements: []string{"  ", "\n\t ", ";"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(";").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
			},
			expectedError: false,
		},
		{
			name:          "Begin fails",
			sqlStatements: []string{"SELECT 1;"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("begin failed"))
			},
			expectedError: true,
		},
		{
			name:          "Exec fails",
			sqlStatements: []string{"SELECT 1;", "BAD SQL;", "SELECT 3;"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("SELECT 1;").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("BAD SQL;").WillReturnError(errors.New("syntax error"))
				mock.ExpectRollback() // Expect rollback after error
			},
			expectedError: true,
		},
		{
			name:          "Commit fails",
			sqlStatements: []string{"SELECT 1;"},
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("SELECT 1;").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit().WillReturnError(errors.New("commit failed"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDb, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
			}
			defer mockDb.Close()

			db := &DB{Pool: mockDb}

			tt.mockSetup(mock)

			err = db.ExecuteSQLStatements(ctx, tt.sqlStatements)

			if (err != nil) != tt.expectedError {
				t.Errorf("ExecuteSQLStatements() error = %v, expectedError %v", err, tt.expectedError)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestInsertRowsRollsBackOnFailure(t *testing.T) {
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	defer mockDb.Close()
	db := &DB{Pool: mockDb, Handler: &mockDialectHandler{}}

	def := schema.Table{Name: "t", Columns: []schema.Column{{Name: "a", Type: dataset.Integer}}}
	rows := dataset.New("t", def.DatasetColumns())
	rows.Rows = []dataset.Row{{int64(1)}, {int64(2)}}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO <t>")
	prep.ExpectExec().WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(int64(2)).WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	if _, err := db.InsertRows(context.Background(), def, rows); err == nil {
		t.Errorf("InsertRows() expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}

	// Nothing to write touches no connection.
	n, err := db.InsertRows(context.Background(), def, dataset.New("t", def.DatasetColumns()))
	if err != nil || n != 0 {
		t.Errorf("InsertRows(empty) = %d, %v", n, err)
	}

	undeclared := dataset.New("t", []dataset.Column{{Name: "b", Type: dataset.Text}})
	undeclared.Rows = []dataset.Row{{"x"}}
	if _, err := db.InsertRows(context.Background(), def, undeclared); err == nil {
		t.Errorf("InsertRows() with undeclared column expected error")
	}
}

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
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/corrupt"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

// AuditTable records every corruption report written by a seeding run.
const AuditTable = "corruption_audit"

// AuditTableDef is the declaration of AuditTable.
func AuditTableDef() schema.Table {
	return schema.Table{
		Name: AuditTable,
		Columns: []schema.Column{
			{Name: "audit_id", Type: dataset.Integer, PrimaryKey: true, AutoIncrement: true},
			{Name: "run_id", Type: dataset.Text, NotNull: true},
			{Name: "table_name", Type: dataset.Text, NotNull: true},
			{Name: "step_index", Type: dataset.Integer, NotNull: true},
			{Name: "step_name", Type: dataset.Text, NotNull: true},
			{Name: "step_kind", Type: dataset.Text, NotNull: true},
			{Name: "applied", Type: dataset.Integer, NotNull: true},
			{Name: "details", Type: dataset.Text},
			{Name: "recorded_at", Type: dataset.Text, NotNull: true},
		},
	}
}

// NewRunID returns an identifier grouping the audit rows of one run.
func NewRunID() string {
	return uuid.NewString()
}

// EnsureAuditTable creates AuditTable when it does not exist.
func (db *DB) EnsureAuditTable(ctx context.Context) error {
	return db.CreateTables(ctx, []schema.Table{AuditTableDef()})
}

// RecordReports appends one audit row per report, keeping the chain order in
// step_index. Details are stored as JSON.
func (db *DB) RecordReports(ctx context.Context, runID, table string, reports []corrupt.Report) error {
	rows, err := auditRows(runID, table, reports, time.Now().UTC())
	if err != nil {
		return err
	}
	if _, err := db.InsertRows(ctx, AuditTableDef(), rows); err != nil {
		return fmt.Errorf("failed to record corruption reports for %s: %w", table, err)
	}
	return nil
}

func auditRows(runID, table string, reports []corrupt.Report, at time.Time) (*dataset.Table, error) {
	def := AuditTableDef()
	// audit_id is assigned by the database.
	out := dataset.New(AuditTable, def.DatasetColumns()[1:])
	stamp := at.Format(time.RFC3339)
	for i, r := range reports {
		details, err := json.Marshal(r.Details)
		if err != nil {
			return nil, fmt.Errorf("encode details of step %s: %w", r.Step, err)
		}
		applied := int64(0)
		if r.Applied {
			applied = 1
		}
		out.Rows = append(out.Rows, dataset.Row{
			runID, table, int64(i), r.Step, string(r.Kind), applied, string(details), stamp,
		})
	}
	return out, nil
}

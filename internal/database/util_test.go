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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

func TestGenerateCreateTableSQL(t *testing.T) {
	db := &DB{Handler: &mockDialectHandler{}}

	def := schema.Table{
		Name: "usage",
		Columns: []schema.Column{
			{Name: "id", Type: dataset.Integer, PrimaryKey: true},
			{Name: "part_id", Type: dataset.Integer},
			{Name: "note", Type: dataset.Text},
		},
		ForeignKeys: []schema.ForeignKey{{Column: "part_id", RefTable: "parts", RefColumn: "id"}},
	}
	got, err := db.GenerateCreateTableSQL(def)
	require.NoError(t, err)
	assert.Equal(t, "CREATE <usage> (    <id> INTEGER INDEXED KEY,\n"+
		"    <part_id> INTEGER INDEXED,\n"+
		"    <note> TEXT,\n"+
		"    FOREIGN KEY (<part_id>) REFERENCES <parts>(<id>))", got)

	_, err = db.GenerateCreateTableSQL(schema.Table{Name: "empty"})
	assert.Error(t, err)
	_, err = (&DB{}).GenerateCreateTableSQL(def)
	assert.Error(t, err)
}

func TestGenerateDropAndInsertSQL(t *testing.T) {
	db := &DB{Handler: &mockDialectHandler{}}

	drop, err := db.GenerateDropTableSQL("orders")
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE IF EXISTS <orders>;", drop)

	insert, err := db.GenerateInsertSQL("orders", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO <orders> (<a>, <b>, <c>) VALUES (:1, :2, :3)", insert)

	_, err = db.GenerateInsertSQL("orders", nil)
	assert.Error(t, err)
}

func TestAuditRows(t *testing.T) {
	def := AuditTableDef()
	assert.Equal(t, AuditTable, def.Name)
	id, ok := def.Column("audit_id")
	require.True(t, ok)
	assert.True(t, id.AutoIncrement)

	runID := NewRunID()
	assert.Len(t, runID, 36)
	assert.NotEqual(t, runID, NewRunID())
}

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
// Package schema describes the supply-chain tables: their columns, keys,
// foreign keys, and which columns each corruption kind may target.
package schema

import (
	"fmt"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
)

// Column is a declared table column.
type Column struct {
	Name          string
	Type          dataset.ColumnType
	NotNull       bool
	PrimaryKey    bool
	AutoIncrement bool
}

// ForeignKey links Column to RefTable.RefColumn.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Table is the declaration of one table.
type Table struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
}

// Column returns the named column.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// DatasetColumns returns the column layout used by dataset.Table.
func (t Table) DatasetColumns() []dataset.Column {
	cols := make([]dataset.Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = dataset.Column{Name: c.Name, Type: c.Type}
	}
	return cols
}

// ColumnNames returns the declared column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Catalog is an ordered set of table declarations. The order is a valid
// creation order: referenced tables come before referencing ones.
type Catalog struct {
	tables []Table
	index  map[string]int
}

// NewCatalog validates the declarations and returns a catalog.
func NewCatalog(tables ...Table) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(tables))}
	for _, t := range tables {
		if _, dup := c.index[t.Name]; dup {
			return nil, fmt.Errorf("table %q declared twice", t.Name)
		}
		for _, fk := range t.ForeignKeys {
			if _, ok := t.Column(fk.Column); !ok {
				return nil, fmt.Errorf("table %s: foreign key on unknown column %q", t.Name, fk.Column)
			}
			ri, ok := c.index[fk.RefTable]
			if !ok {
				return nil, fmt.Errorf("table %s: foreign key references %q which is not declared before it", t.Name, fk.RefTable)
			}
			if _, ok := c.tables[ri].Column(fk.RefColumn); !ok {
				return nil, fmt.Errorf("table %s: foreign key references unknown column %s.%s", t.Name, fk.RefTable, fk.RefColumn)
			}
		}
		c.index[t.Name] = len(c.tables)
		c.tables = append(c.tables, t)
	}
	return c, nil
}

// Tables returns the declarations in creation order.
func (c *Catalog) Tables() []Table {
	out := make([]Table, len(c.tables))
	copy(out, c.tables)
	return out
}

// Names returns the table names in creation order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.tables))
	for i, t := range c.tables {
		names[i] = t.Name
	}
	return names
}

// Table looks up a declaration by name.
func (c *Catalog) Table(name string) (Table, bool) {
	i, ok := c.index[name]
	if !ok {
		return Table{}, false
	}
	return c.tables[i], true
}

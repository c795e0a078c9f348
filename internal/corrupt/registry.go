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
package corrupt

import (
	"fmt"
	"sort"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/schema"
)

// Eligibility lists the columns of one table that each corruption kind may
// target.
type Eligibility struct {
	Negatable   []string `json:"negatable" yaml:"negatable"`
	Outlier     []string `json:"outlier" yaml:"outlier"`
	Corruptible []string `json:"corruptible" yaml:"corruptible"`
}

func (e Eligibility) clone() Eligibility {
	return Eligibility{
		Negatable:   append([]string(nil), e.Negatable...),
		Outlier:     append([]string(nil), e.Outlier...),
		Corruptible: append([]string(nil), e.Corruptible...),
	}
}

// Registry maps table names to their eligibility. It is immutable once built
// and safe for concurrent reads.
type Registry struct {
	entries map[string]Eligibility
}

// NewRegistry validates targets against the catalog. Negatable and outlier
// columns must be numeric; no set may contain a primary key.
func NewRegistry(catalog *schema.Catalog, targets map[string]schema.Targets) (*Registry, error) {
	r := &Registry{entries: make(map[string]Eligibility, len(targets))}
	for table, t := range targets {
		def, ok := catalog.Table(table)
		if !ok {
			return nil, fmt.Errorf("registry entry for undeclared table %q: %w", table, ErrUnknownColumn)
		}
		check := func(kind string, cols []string, numeric bool) error {
			for _, name := range cols {
				col, ok := def.Column(name)
				if !ok {
					return fmt.Errorf("%s column %s.%s: %w", kind, table, name, ErrUnknownColumn)
				}
				if col.PrimaryKey {
					return fmt.Errorf("%s column %s.%s is a primary key: %w", kind, table, name, ErrIneligibleColumn)
				}
				if numeric && !col.Type.IsNumeric() {
					return fmt.Errorf("%s column %s.%s has type %s: %w", kind, table, name, col.Type, ErrIneligibleColumn)
				}
			}
			return nil
		}
		if err := check("negatable", t.Negatable, true); err != nil {
			return nil, err
		}
		if err := check("outlier", t.Outlier, true); err != nil {
			return nil, err
		}
		if err := check("corruptible", t.Corruptible, false); err != nil {
			return nil, err
		}
		r.entries[table] = Eligibility{
			Negatable:   t.Negatable,
			Outlier:     t.Outlier,
			Corruptible: t.Corruptible,
		}.clone()
	}
	return r, nil
}

// SupplyRegistry returns the registry for the supply chain tables.
func SupplyRegistry() *Registry {
	r, err := NewRegistry(schema.Supply(), schema.SupplyTargets())
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns a copy of the eligibility registered for table.
func (r *Registry) Lookup(table string) (Eligibility, error) {
	e, ok := r.entries[table]
	if !ok {
		return Eligibility{}, fmt.Errorf("table %q: %w", table, ErrNoEligibility)
	}
	return e.clone(), nil
}

// Has reports whether table has a registry entry.
func (r *Registry) Has(table string) bool {
	_, ok := r.entries[table]
	return ok
}

// Tables returns the registered table names, sorted.
func (r *Registry) Tables() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

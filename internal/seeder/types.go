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
package seeder

import (
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/corrupt"
)

// TableResult summarizes what a seeding run did to one table.
type TableResult struct {
	Table string `json:"table" yaml:"table"`
	// SourceMissing is set when no clean CSV existed; the table is created
	// but left empty.
	SourceMissing bool  `json:"source_missing,omitempty" yaml:"source_missing,omitempty"`
	RowsRead      int   `json:"rows_read" yaml:"rows_read"`
	RowsInserted  int64 `json:"rows_inserted" yaml:"rows_inserted"`
	Corrupted     bool  `json:"corrupted" yaml:"corrupted"`
	// Seed is the derived seed the table's chain ran with.
	Seed    uint64           `json:"seed,omitempty" yaml:"seed,omitempty"`
	Reports []corrupt.Report `json:"reports,omitempty" yaml:"reports,omitempty"`
}

// RunSummary is the document written by `seed --report-out`.
type RunSummary struct {
	RunID  string        `json:"run_id" yaml:"run_id"`
	Seed   uint64        `json:"seed" yaml:"seed"`
	Tables []TableResult `json:"tables" yaml:"tables"`
}

// filterTables keeps the catalog tables named in filters, in catalog order.
// An empty filter keeps everything. Column lists in filters are ignored.
func filterTables(all []string, filters map[string][]string) ([]string, []string) {
	if len(filters) == 0 {
		return all, nil
	}
	known := make(map[string]bool, len(all))
	var kept []string
	for _, name := range all {
		known[name] = true
		if _, ok := filters[name]; ok {
			kept = append(kept, name)
		}
	}
	var unknown []string
	for name := range filters {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return kept, unknown
}

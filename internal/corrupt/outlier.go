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
	"math"
	"math/rand/v2"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
)

// OutlierSpike replaces selected cells of the outlier columns with values
// anchored just beyond the column's Tukey fences, so quartile-based
// detectors flag them.
type OutlierSpike struct {
	Gate
	PCell float64
}

var _ Step = OutlierSpike{}

func (s OutlierSpike) Kind() Kind { return KindOutlierSpike }

func (s OutlierSpike) validate() error {
	if err := s.Gate.validate(); err != nil {
		return err
	}
	return checkProbability(s.Label, "p_cell", s.PCell)
}

func (s OutlierSpike) Run(in *dataset.Table, scope Scope, rng *rand.Rand) (*dataset.Table, Report, error) {
	cols, err := resolveColumns(in, scope, "outlier", scope.Columns.Outlier, true)
	if err != nil {
		return in, Report{}, err
	}
	return s.run(s.Kind(), in, rng, func(out *dataset.Table) (Details, error) {
		counts := make(map[string]int, len(cols))
		rows := make(map[string][]int, len(cols))
		fences := make(map[string]Fence, len(cols))
		for _, c := range cols {
			f := ComputeFences(columnFloats(out, c.index))
			fences[c.name] = f

			selected := selectRows(rng, out.Len(), s.PCell)
			for _, i := range selected {
				anchor := f.Upper
				if rng.Float64() < 0.5 {
					anchor = f.Lower
				}
				v := anchor * (0.95 + 0.1*rng.Float64())
				out.Rows[i][c.index] = spikeValue(max(v, 0), c.typ)
			}
			counts[c.name] = len(selected)
			rows[c.name] = selected
		}
		return Details{"affected_cells": counts, "affected_rows": rows, "p_cell": s.PCell, "fences": fences}, nil
	})
}

func spikeValue(v float64, typ dataset.ColumnType) any {
	if typ == dataset.Integer {
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
		if v >= math.MaxInt64 {
			return int64(math.MaxInt64)
		}
		return int64(math.RoundToEven(v))
	}
	return v
}

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

// NegativeQuantity rewrites selected cells of the negatable columns to
// -|v|: the quantity went negative, whatever its original sign.
type NegativeQuantity struct {
	Gate
	PCell float64
}

var _ Step = NegativeQuantity{}

func (s NegativeQuantity) Kind() Kind { return KindNegativeQuantity }

func (s NegativeQuantity) validate() error {
	if err := s.Gate.validate(); err != nil {
		return err
	}
	return checkProbability(s.Label, "p_cell", s.PCell)
}

func (s NegativeQuantity) Run(in *dataset.Table, scope Scope, rng *rand.Rand) (*dataset.Table, Report, error) {
	cols, err := resolveColumns(in, scope, "negatable", scope.Columns.Negatable, true)
	if err != nil {
		return in, Report{}, err
	}
	return s.run(s.Kind(), in, rng, func(out *dataset.Table) (Details, error) {
		counts := make(map[string]int, len(cols))
		rows := make(map[string][]int, len(cols))
		for _, c := range cols {
			hit := []int{}
			for _, i := range selectRows(rng, out.Len(), s.PCell) {
				switch v := out.Rows[i][c.index].(type) {
				case int64:
					if v > 0 {
						out.Rows[i][c.index] = -v
					}
				case float64:
					if math.IsNaN(v) {
						continue
					}
					out.Rows[i][c.index] = -math.Abs(v)
				default:
					// null cells stay null
					continue
				}
				hit = append(hit, i)
			}
			counts[c.name] = len(hit)
			rows[c.name] = hit
		}
		return Details{"affected_cells": counts, "affected_rows": rows, "p_cell": s.PCell}, nil
	})
}

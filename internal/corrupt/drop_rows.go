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
	"math/rand/v2"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
)

// DropRows deletes each row independently with probability PRow.
type DropRows struct {
	Gate
	PRow float64
}

var _ Step = DropRows{}

func (s DropRows) Kind() Kind { return KindDropRows }

func (s DropRows) validate() error {
	if err := s.Gate.validate(); err != nil {
		return err
	}
	return checkProbability(s.Label, "p_row", s.PRow)
}

func (s DropRows) Run(in *dataset.Table, _ Scope, rng *rand.Rand) (*dataset.Table, Report, error) {
	return s.run(s.Kind(), in, rng, func(out *dataset.Table) (Details, error) {
		kept := make([]dataset.Row, 0, len(out.Rows))
		dropped := 0
		for _, row := range out.Rows {
			if rng.Float64() >= s.PRow {
				kept = append(kept, row)
			} else {
				dropped++
			}
		}
		out.Rows = kept
		return Details{"dropped_rows": dropped, "p_row": s.PRow}, nil
	})
}

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

// NullValues keeps its place in a chain but does not mutate anything yet:
// when it fires it reports zero affected rows.
//
// TODO: decide which of Eligibility.Corruptible to null and at what rate
// (p_row per row or p_cell per cell) before implementing the mutation.
type NullValues struct {
	Gate
	PRow float64
}

var _ Step = NullValues{}

func (s NullValues) Kind() Kind { return KindNullValues }

func (s NullValues) validate() error {
	if err := s.Gate.validate(); err != nil {
		return err
	}
	return checkProbability(s.Label, "p_row", s.PRow)
}

func (s NullValues) Run(in *dataset.Table, _ Scope, rng *rand.Rand) (*dataset.Table, Report, error) {
	return s.run(s.Kind(), in, rng, func(out *dataset.Table) (Details, error) {
		return Details{"affected_rows": 0, "p_row": s.PRow}, nil
	})
}

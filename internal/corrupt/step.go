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
// Package corrupt degrades clean tables into realistic dirty ones. A Chain
// runs an ordered list of probabilistic steps over a working copy of a table
// and returns the mutated copy with one Report per step.
package corrupt

import (
	"fmt"
	"math/rand/v2"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
)

// Kind identifies a step variant.
type Kind string

const (
	KindDropRows         Kind = "drop_rows"
	KindNegativeQuantity Kind = "negative_quantity"
	KindOutlierSpike     Kind = "outlier_spike"
	KindNullValues       Kind = "null_values"
)

// Scope is the table a step is being applied to, resolved by the chain for
// a single run.
type Scope struct {
	Table   string
	Columns Eligibility
}

// Step is one corruption variant. The set of implementations is closed:
// DropRows, NegativeQuantity, OutlierSpike and NullValues.
type Step interface {
	Name() string
	Kind() Kind
	// ShouldApply consumes exactly one draw and reports whether the step
	// fires this run.
	ShouldApply(rng *rand.Rand) bool
	// Run never modifies in. When the gate is closed it returns in as is.
	Run(in *dataset.Table, scope Scope, rng *rand.Rand) (*dataset.Table, Report, error)

	validate() error
}

// Gate is the part every step shares: a label for reports and the
// probability that the step fires at all.
type Gate struct {
	Label  string
	PApply float64
}

func (g Gate) Name() string { return g.Label }

func (g Gate) ShouldApply(rng *rand.Rand) bool {
	return rng.Float64() < g.PApply
}

func (g Gate) validate() error {
	return checkProbability(g.Label, "p_apply", g.PApply)
}

// run draws the gate and, when it opens, hands mutate a private copy of in.
// A mutation error discards the copy.
func (g Gate) run(kind Kind, in *dataset.Table, rng *rand.Rand, mutate func(out *dataset.Table) (Details, error)) (*dataset.Table, Report, error) {
	if !g.ShouldApply(rng) {
		return in, Report{Step: g.Label, Kind: kind, Applied: false, Details: Details{}}, nil
	}
	out := in.Clone()
	details, err := mutate(out)
	if err != nil {
		return in, Report{}, fmt.Errorf("step %s: %w", g.Label, err)
	}
	return out, Report{Step: g.Label, Kind: kind, Applied: true, Details: details}, nil
}

func checkProbability(step, name string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return fmt.Errorf("step %s: %s=%v outside [0,1]: %w", step, name, p, ErrInvalidProbability)
	}
	return nil
}

// selectRows draws one uniform per row and returns the rows whose draw
// falls below p, in row order.
func selectRows(rng *rand.Rand, n int, p float64) []int {
	selected := []int{}
	for i := 0; i < n; i++ {
		if rng.Float64() < p {
			selected = append(selected, i)
		}
	}
	return selected
}

type columnRef struct {
	name  string
	index int
	typ   dataset.ColumnType
}

// resolveColumns maps registered column names to dataset positions. An
// empty list means the table has no entry for this corruption kind.
func resolveColumns(t *dataset.Table, scope Scope, kind string, names []string, numeric bool) ([]columnRef, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("table %q has no %s columns: %w", scope.Table, kind, ErrNoEligibility)
	}
	refs := make([]columnRef, 0, len(names))
	for _, name := range names {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("%s column %s.%s not in dataset: %w", kind, scope.Table, name, ErrUnknownColumn)
		}
		typ := t.Columns[idx].Type
		if numeric && !typ.IsNumeric() {
			return nil, fmt.Errorf("%s column %s.%s has type %s: %w", kind, scope.Table, name, typ, ErrIneligibleColumn)
		}
		refs = append(refs, columnRef{name: name, index: idx, typ: typ})
	}
	return refs, nil
}

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
	"math/rand/v2"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
)

// Chain applies its steps in order to a working copy of a table. All steps
// draw from one generator, so a fixed seed reproduces a whole run. A Chain
// is not safe for concurrent use; see ForTable.
type Chain struct {
	steps    []Step
	registry *Registry
	seed     uint64
	rng      *rand.Rand
	logger   *zap.Logger
}

// Option configures a Chain.
type Option func(*Chain)

// WithSeed makes the chain deterministic.
func WithSeed(seed uint64) Option {
	return func(c *Chain) { c.seed = seed }
}

// WithLogger sets the logger used for per-step debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChain validates the steps and seeds the generator. Without WithSeed the
// seed is drawn at random; Seed reports it either way.
func NewChain(registry *Registry, steps []Step, opts ...Option) (*Chain, error) {
	if registry == nil {
		return nil, fmt.Errorf("corruption chain needs a registry")
	}
	for i, s := range steps {
		if s == nil {
			return nil, fmt.Errorf("step #%d is nil", i+1)
		}
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	c := &Chain{
		steps:    append([]Step(nil), steps...),
		registry: registry,
		seed:     rand.Uint64(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rng = newRand(c.seed)
	return c, nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// DeriveSeed mixes a table name into a base seed, giving each table an
// independent but reproducible stream.
func DeriveSeed(base uint64, table string) uint64 {
	return base ^ xxh3.HashString(table)
}

// ForTable returns a fresh chain with the same steps and registry whose
// generator is seeded with DeriveSeed(c.Seed(), table). Use one per table
// when corrupting tables concurrently.
func (c *Chain) ForTable(table string) *Chain {
	seed := DeriveSeed(c.seed, table)
	return &Chain{
		steps:    c.steps,
		registry: c.registry,
		seed:     seed,
		rng:      newRand(seed),
		logger:   c.logger,
	}
}

// Seed returns the seed the generator started from.
func (c *Chain) Seed() uint64 { return c.seed }

// Registry returns the eligibility registry the chain resolves tables with.
func (c *Chain) Registry() *Registry { return c.registry }

// Steps returns the configured steps in order.
func (c *Chain) Steps() []Step {
	return append([]Step(nil), c.steps...)
}

// Run corrupts a copy of in as table and returns it with one report per
// configured step, skipped steps included. in is never modified. A table
// without a registry entry is a configuration error.
func (c *Chain) Run(table string, in *dataset.Table) (*dataset.Table, []Report, error) {
	if in == nil {
		return nil, nil, fmt.Errorf("corrupt %s: nil dataset", table)
	}
	cols, err := c.registry.Lookup(table)
	if err != nil {
		return nil, nil, fmt.Errorf("corrupt %s: %w", table, err)
	}
	scope := Scope{Table: table, Columns: cols}

	out := in.Clone()
	reports := make([]Report, 0, len(c.steps))
	for _, step := range c.steps {
		before := out.Len()
		next, rep, err := step.Run(out, scope, c.rng)
		if err != nil {
			return nil, reports, fmt.Errorf("corrupt %s: %w", table, err)
		}
		c.logger.Debug("Corruption step finished",
			zap.String("table", table),
			zap.String("step", step.Name()),
			zap.String("kind", string(step.Kind())),
			zap.Bool("applied", rep.Applied),
			zap.Int("rows_before", before),
			zap.Int("rows_after", next.Len()))
		out = next
		reports = append(reports, rep)
	}
	return out, reports, nil
}

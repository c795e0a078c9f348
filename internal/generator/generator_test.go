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
package generator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
)

func TestNewSeriesGenerator(t *testing.T) {
	g, err := NewSeriesGenerator(3)
	require.NoError(t, err)
	assert.Equal(t, 1095, g.Days())

	_, err = NewSeriesGenerator(0)
	assert.Error(t, err)
}

func TestDemandSeries(t *testing.T) {
	g := &SeriesGenerator{Years: 2}

	a, err := g.DemandSeries(0.2, 4, 42)
	require.NoError(t, err)
	b, err := g.DemandSeries(0.2, 4, 42)
	require.NoError(t, err)
	require.Len(t, a, 730)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different series (-first +second):\n%s", diff)
	}

	demandDays := 0
	for _, q := range a {
		assert.GreaterOrEqual(t, q, int64(0))
		if q > 0 {
			demandDays++
		}
	}
	// 730 days at p=0.2 averages 146 demand days.
	assert.Greater(t, demandDays, 80)
	assert.Less(t, demandDays, 220)
}

func TestDemandSeriesEdges(t *testing.T) {
	g := &SeriesGenerator{Years: 1}

	never, err := g.DemandSeries(0, 5, 1)
	require.NoError(t, err)
	for _, q := range never {
		assert.Zero(t, q)
	}

	always, err := g.DemandSeries(1, 0, 1)
	require.NoError(t, err)
	for _, q := range always {
		assert.Equal(t, int64(1), q)
	}

	daily, err := g.DemandSeries(1, 0.01, 9)
	require.NoError(t, err)
	for _, q := range daily {
		assert.GreaterOrEqual(t, q, int64(1), "a demand day must have at least one unit")
	}

	_, err = g.DemandSeries(1.5, 1, 1)
	assert.Error(t, err)
	_, err = g.DemandSeries(0.5, -1, 1)
	assert.Error(t, err)
}

func TestDemandTable(t *testing.T) {
	g := &SeriesGenerator{Years: 1}
	parts := config.DefaultParts()

	tbl, err := g.DemandTable(parts, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"day", "part_code", "qty"}, tbl.ColumnNames())
	require.Equal(t, 365*len(parts), tbl.Len())

	assert.Equal(t, int64(1), tbl.Rows[0][0])
	assert.Equal(t, parts[0].Code, tbl.Rows[0][1])
	assert.Equal(t, parts[2].Code, tbl.Rows[2][1])
	assert.Equal(t, int64(365), tbl.Rows[tbl.Len()-1][0])

	// The first part's series is unaffected by the parts that follow it.
	only, err := g.DemandTable(parts[:1], 42)
	require.NoError(t, err)
	series, err := g.DemandSeries(parts[0].Probability, parts[0].MeanSize, 42)
	require.NoError(t, err)
	for day, row := range only.Rows {
		assert.Equal(t, series[day], row[2])
		assert.Equal(t, series[day], tbl.Rows[day*len(parts)][2])
	}

	_, err = g.DemandTable([]config.PartDemand{{Code: "X", Probability: 2}}, 1)
	assert.Error(t, err)
}

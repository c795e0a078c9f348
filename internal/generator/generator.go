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
// Package generator synthesizes intermittent daily demand for spare parts.
package generator

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
)

// YearDays is the length of a synthetic year.
const YearDays = 365

// DemandColumns is the layout of the table built by DemandTable.
var DemandColumns = []dataset.Column{
	{Name: "day", Type: dataset.Integer},
	{Name: "part_code", Type: dataset.Text},
	{Name: "qty", Type: dataset.Integer},
}

// SeriesGenerator produces daily series covering Years years.
type SeriesGenerator struct {
	Years int
}

// NewSeriesGenerator returns a generator for the given number of years.
func NewSeriesGenerator(years int) (*SeriesGenerator, error) {
	if years <= 0 {
		return nil, fmt.Errorf("years must be positive, got %d", years)
	}
	return &SeriesGenerator{Years: years}, nil
}

// Days returns the series length.
func (g *SeriesGenerator) Days() int {
	return YearDays * g.Years
}

// DemandSeries draws one value per day. A day has demand with probability
// prob; its quantity is Poisson(mean) raised to at least 1. Days without
// demand are 0. The same seed yields the same series.
func (g *SeriesGenerator) DemandSeries(prob, mean float64, seed uint64) ([]int64, error) {
	if !(prob >= 0 && prob <= 1) {
		return nil, fmt.Errorf("demand probability %v outside [0,1]", prob)
	}
	if !(mean >= 0) || math.IsInf(mean, 0) {
		return nil, fmt.Errorf("mean quantity %v must be finite and non-negative", mean)
	}

	src := rand.NewSource(seed)
	days := g.Days()

	onDay := distuv.Bernoulli{P: prob, Src: src}
	demand := make([]bool, days)
	for i := range demand {
		demand[i] = onDay.Rand() == 1
	}

	series := make([]int64, days)
	if mean == 0 {
		for i, d := range demand {
			if d {
				series[i] = 1
			}
		}
		return series, nil
	}
	size := distuv.Poisson{Lambda: mean, Src: src}
	for i := range series {
		q := int64(size.Rand())
		if demand[i] {
			series[i] = max(1, q)
		}
	}
	return series, nil
}

// DemandTable builds one row per day and part. Part i draws from seed+i so
// adding a part does not change the series of the parts before it.
func (g *SeriesGenerator) DemandTable(parts []config.PartDemand, seed uint64) (*dataset.Table, error) {
	series := make([][]int64, len(parts))
	for i, p := range parts {
		s, err := g.DemandSeries(p.Probability, p.MeanSize, seed+uint64(i))
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", p.Code, err)
		}
		series[i] = s
	}

	t := dataset.New("demand_series", DemandColumns)
	t.Rows = make([]dataset.Row, 0, g.Days()*len(parts))
	for day := 0; day < g.Days(); day++ {
		for i, p := range parts {
			t.Rows = append(t.Rows, dataset.Row{int64(day + 1), p.Code, series[i][day]})
		}
	}
	return t, nil
}

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
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"
)

const (
	// tukeyK is the extreme-outlier multiplier (3·IQR, not the usual 1.5).
	tukeyK = 3.0
	// collapsedIQR treats a column whose IQR is at or below this as constant.
	collapsedIQR = 1e-12
)

// Fence is the replacement range computed for one column. Q1, Q3 and IQR are
// zero when the column had no numeric values.
type Fence struct {
	Q1       float64 `json:"q1" yaml:"q1"`
	Q3       float64 `json:"q3" yaml:"q3"`
	IQR      float64 `json:"iqr" yaml:"iqr"`
	Lower    float64 `json:"lower" yaml:"lower"`
	Upper    float64 `json:"upper" yaml:"upper"`
	Fallback bool    `json:"fallback" yaml:"fallback"`
	Samples  int     `json:"samples" yaml:"samples"`
}

// ComputeFences returns Tukey fences at 3·IQR around the quartiles of values.
// The lower fence is never negative. A collapsed or empty distribution falls
// back to 3·max for the upper fence (1.0 without a positive max) and a
// quarter of the smallest positive value for the lower fence (0 without
// one). NaN and infinite values are ignored. The result is always finite.
func ComputeFences(values []float64) Fence {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)

	f := Fence{Samples: len(sorted)}
	q1, q3 := math.NaN(), math.NaN()
	if len(sorted) > 0 {
		// LinInterp is Hyndman-Fan definition 4, not the definition 7 pandas uses.
		q1 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
		q3 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
		f.Q1, f.Q3, f.IQR = q1, q3, q3-q1
	}
	iqr := q3 - q1

	lower := q1 - tukeyK*iqr
	upper := q3 + tukeyK*iqr
	if !isFinite(lower) || lower < 0 {
		lower = 0
	}

	if !isFinite(upper) || !(iqr > collapsedIQR) {
		f.Fallback = true
		upper = 1.0
		if len(sorted) > 0 {
			if mx := floats.Max(sorted); mx > 0 {
				upper = 3 * mx
			}
		}
		lower = 0
		if i := sort.SearchFloat64s(sorted, math.SmallestNonzeroFloat64); i < len(sorted) {
			lower = 0.25 * floats.Min(sorted[i:])
		}
	}

	f.Lower, f.Upper = lower, upper
	return f
}

// columnFloats collects the numeric cells of one column.
func columnFloats(t *dataset.Table, idx int) []float64 {
	vals := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v, ok := dataset.Float(row[idx]); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

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

	"github.com/benaspinall1/aircraft-inventory-optimization/internal/config"
)

// BuildSteps turns step configurations into steps, in order. A step without
// a name is labelled with its kind.
func BuildSteps(cfgs []config.StepConfig) ([]Step, error) {
	steps := make([]Step, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := buildStep(c)
		if err != nil {
			return nil, fmt.Errorf("corruption step #%d: %w", i+1, err)
		}
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("corruption step #%d: %w", i+1, err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func buildStep(c config.StepConfig) (Step, error) {
	label := c.Name
	if label == "" {
		label = c.Kind
	}
	gate := Gate{Label: label, PApply: c.PApply}

	switch Kind(c.Kind) {
	case KindDropRows:
		p, err := required(label, "p_row", c.PRow)
		if err != nil {
			return nil, err
		}
		return DropRows{Gate: gate, PRow: p}, nil
	case KindNegativeQuantity:
		p, err := required(label, "p_cell", c.PCell)
		if err != nil {
			return nil, err
		}
		return NegativeQuantity{Gate: gate, PCell: p}, nil
	case KindOutlierSpike:
		p, err := required(label, "p_cell", c.PCell)
		if err != nil {
			return nil, err
		}
		return OutlierSpike{Gate: gate, PCell: p}, nil
	case KindNullValues:
		p, err := required(label, "p_row", c.PRow)
		if err != nil {
			return nil, err
		}
		return NullValues{Gate: gate, PRow: p}, nil
	default:
		return nil, fmt.Errorf("%q: %w", c.Kind, ErrUnknownStepKind)
	}
}

func required(step, name string, p *float64) (float64, error) {
	if p == nil {
		return 0, fmt.Errorf("step %s: %s is required: %w", step, name, ErrInvalidProbability)
	}
	return *p, nil
}

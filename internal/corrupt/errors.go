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

import "errors"

// Configuration errors. They are fatal for a run and are never retried.
var (
	// ErrNoEligibility is returned when a table has no registry entry, or
	// no columns for the corruption kind a step needs.
	ErrNoEligibility = errors.New("no eligible columns registered")

	// ErrIneligibleColumn is returned when a registry entry names a column
	// whose declaration forbids the corruption kind.
	ErrIneligibleColumn = errors.New("column is not eligible for corruption")

	// ErrUnknownColumn is returned when a registered column is missing from
	// the table or dataset it is applied to.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidProbability is returned for a probability outside [0,1] or a
	// missing probability the step kind requires.
	ErrInvalidProbability = errors.New("invalid probability")

	// ErrUnknownStepKind is returned when a step configuration names a kind
	// this package does not implement.
	ErrUnknownStepKind = errors.New("unknown corruption step kind")
)

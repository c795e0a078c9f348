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
	"encoding/json"
	"fmt"
)

// Details holds the diagnostic facts a step records about what it did.
type Details map[string]any

// Report is the audit record for one step of one run.
type Report struct {
	Step    string  `json:"step" yaml:"step"`
	Kind    Kind    `json:"kind" yaml:"kind"`
	Applied bool    `json:"applied" yaml:"applied"`
	Details Details `json:"details" yaml:"details"`
}

func (r Report) String() string {
	details, err := json.Marshal(r.Details)
	if err != nil {
		details = []byte(fmt.Sprintf("%v", r.Details))
	}
	return fmt.Sprintf("CorruptionReport(step=%s, applied=%t, details=%s)", r.Step, r.Applied, details)
}

// Int returns an integer detail, accepting the numeric types steps record.
func (d Details) Int(key string) (int, bool) {
	switch v := d[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

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
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ConvertValue parses a raw CSV field into the scalar for the column type.
// Empty fields become nil.
func ConvertValue(raw string, typ ColumnType) (any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	switch typ {
	case Integer:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		// Spreadsheet exports write integers as "12.0".
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != math.Trunc(f) {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		return int64(f), nil
	case Real:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real %q", raw)
		}
		return f, nil
	default:
		return raw, nil
	}
}

// NormalizeValue coerces a value returned by a database driver to the scalar
// representation used by Table for the given column type.
func NormalizeValue(v any, typ ColumnType) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return ConvertValue(string(x), typ)
	case string:
		if typ == Text {
			return x, nil
		}
		return ConvertValue(x, typ)
	case int64:
		if typ == Real {
			return float64(x), nil
		}
		if typ == Text {
			return strconv.FormatInt(x, 10), nil
		}
		return x, nil
	case int32:
		return NormalizeValue(int64(x), typ)
	case int:
		return NormalizeValue(int64(x), typ)
	case float32:
		return NormalizeValue(float64(x), typ)
	case float64:
		switch typ {
		case Integer:
			return int64(math.Round(x)), nil
		case Text:
			return strconv.FormatFloat(x, 'f', -1, 64), nil
		}
		return x, nil
	default:
		return fmt.Sprint(x), nil
	}
}

// FormatValue renders a cell for CSV or text output.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"encoding/json"
	"reflect"
	"strings"
)

const redacted = "[redacted]"

// Sanitize marshals cfg with every non-empty field tagged `sensitive:"true"`
// replaced by a placeholder. Use it before logging a loaded configuration.
func Sanitize(cfg interface{}) ([]byte, error) {
	if cfg == nil {
		return nil, nil
	}

	return json.Marshal(sanitizeValue(reflect.ValueOf(cfg)))
}

func sanitizeValue(v reflect.Value) interface{} {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct || v.Type().Implements(jsonMarshaler) {
		return v.Interface()
	}

	t := v.Type()
	out := make(map[string]interface{}, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}

		if name == "" {
			name = f.Name
		}

		fv := v.Field(i)
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}

		if f.Tag.Get("sensitive") == "true" && !fv.IsZero() {
			out[name] = redacted
			continue
		}

		out[name] = sanitizeValue(fv)
	}

	return out
}

var jsonMarshaler = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

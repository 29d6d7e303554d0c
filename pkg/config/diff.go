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

import "reflect"

// FieldsChangedByTag compares the top-level exported fields of two values of
// the same struct type and returns the names of those that differ and whose
// tag value is one of triggers.
func FieldsChangedByTag(before, after interface{}, tag string, triggers map[string]bool) []string {
	bv := reflect.Indirect(reflect.ValueOf(before))
	av := reflect.Indirect(reflect.ValueOf(after))

	if bv.Kind() != reflect.Struct || av.Kind() != reflect.Struct || bv.Type() != av.Type() {
		return nil
	}

	var changed []string

	for _, f := range reflect.VisibleFields(bv.Type()) {
		if !f.IsExported() || len(f.Index) != 1 {
			continue
		}

		if !triggers[f.Tag.Get(tag)] {
			continue
		}

		if !reflect.DeepEqual(bv.Field(f.Index[0]).Interface(), av.Field(f.Index[0]).Interface()) {
			changed = append(changed, f.Name)
		}
	}

	return changed
}

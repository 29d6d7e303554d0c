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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/hostsentry/pkg/logger"
)

var (
	// ErrDstMustBeNonNilPointer indicates that the destination must be a non-nil pointer.
	ErrDstMustBeNonNilPointer = errors.New("dst must be a non-nil pointer")
	// ErrDstMustBePointerToStruct indicates that the destination must be a pointer to a struct.
	ErrDstMustBePointerToStruct = errors.New("dst must be a pointer to a struct")

	durationType      = reflect.TypeOf(time.Duration(0))
	jsonUnmarshalType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// EnvConfigLoader loads configuration from environment variables named after
// json tags. Nested structs join names with underscores, so with prefix
// HOSTSENTRY_ the field Discovery.MaxConcurrentProbes (json
// "discovery"/"max_concurrent_probes") is read from
// HOSTSENTRY_DISCOVERY_MAX_CONCURRENT_PROBES. Values already in dst are kept
// when the variable is unset.
type EnvConfigLoader struct {
	logger logger.Logger
	prefix string
}

func NewEnvConfigLoader(log logger.Logger, prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{
		logger: log,
		prefix: prefix,
	}
}

// Load implements ConfigLoader. A complete JSON document in <prefix>CONFIG_JSON
// takes precedence over individual variables.
func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	if doc := os.Getenv(e.prefix + "CONFIG_JSON"); doc != "" {
		if err := json.Unmarshal([]byte(doc), dst); err != nil {
			return fmt.Errorf("failed to unmarshal %sCONFIG_JSON: %w", e.prefix, err)
		}

		return nil
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrDstMustBeNonNilPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrDstMustBePointerToStruct
	}

	n, err := e.loadStruct(v, e.prefix)
	if err != nil {
		return err
	}

	if e.logger != nil {
		e.logger.Debug().Int("variables", n).Str("prefix", e.prefix).Msg("Loaded configuration from environment")
	}

	return nil
}

func (e *EnvConfigLoader) loadStruct(v reflect.Value, prefix string) (int, error) {
	t := v.Type()

	var (
		errs  []error
		count int
	)

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		name := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}

		envName := prefix + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))

		if isNestedStruct(field) {
			n, err := e.loadNested(field, envName+"_")
			count += n

			if err != nil {
				errs = append(errs, err)
			}

			continue
		}

		raw, ok := os.LookupEnv(envName)
		if !ok {
			continue
		}

		if err := setValue(field, raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", envName, err))

			continue
		}

		count++
	}

	return count, errors.Join(errs...)
}

// loadNested descends into a struct field. A nil pointer is only allocated
// when at least one variable with the nested prefix is set.
func (e *EnvConfigLoader) loadNested(field reflect.Value, prefix string) (int, error) {
	if field.Kind() != reflect.Ptr {
		return e.loadStruct(field, prefix)
	}

	if field.IsNil() {
		if !anyEnvWithPrefix(prefix) {
			return 0, nil
		}

		field.Set(reflect.New(field.Type().Elem()))
	}

	return e.loadStruct(field.Elem(), prefix)
}

func isNestedStruct(field reflect.Value) bool {
	t := field.Type()
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return false
	}

	return !reflect.PointerTo(t).Implements(jsonUnmarshalType)
}

func anyEnvWithPrefix(prefix string) bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}

	return false
}

// setValue parses raw into field. Types with their own JSON decoding get raw
// as a JSON value, or as a JSON string when raw is not valid JSON.
func setValue(field reflect.Value, raw string) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}

		return setValue(field.Elem(), raw)
	}

	if field.CanAddr() && field.Addr().Type().Implements(jsonUnmarshalType) {
		doc := []byte(raw)
		if !json.Valid(doc) {
			doc = []byte(strconv.Quote(raw))
		}

		return json.Unmarshal(doc, field.Addr().Interface())
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}

			field.SetInt(int64(d))

			return nil
		}

		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}

		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}

		field.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}

		field.SetFloat(f)
	case reflect.Slice:
		return setSlice(field, raw)
	default:
		return json.Unmarshal([]byte(raw), field.Addr().Interface())
	}

	return nil
}

// setSlice accepts a JSON array or a comma separated list.
func setSlice(field reflect.Value, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal([]byte(trimmed), field.Addr().Interface())
	}

	parts := strings.Split(trimmed, ",")
	slice := reflect.MakeSlice(field.Type(), 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		elem := reflect.New(field.Type().Elem()).Elem()
		if err := setValue(elem, part); err != nil {
			return err
		}

		slice = reflect.Append(slice, elem)
	}

	field.Set(slice)

	return nil
}

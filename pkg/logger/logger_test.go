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

package logger

import (
	"io"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFor(t *testing.T) {
	assert.Equal(t, os.Stderr, OutputFor(&Config{Output: "stderr"}))
	assert.Equal(t, io.Discard, OutputFor(&Config{Output: "discard"}))
	assert.Equal(t, os.Stdout, OutputFor(&Config{}))
}

func TestParseLevelDebugWins(t *testing.T) {
	level, err := ParseLevel(&Config{Level: "error", Debug: true})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)

	_, err = ParseLevel(&Config{Level: "shouting"})
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DEBUG", "yes")

	config := DefaultConfig()

	assert.Equal(t, "warn", config.Level)
	assert.True(t, config.Debug)
	assert.Equal(t, "stdout", config.Output)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(&Config{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	level, err = ParseLevel(&Config{Level: "error"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.ErrorLevel, level)
}

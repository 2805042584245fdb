// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigEmptyPathReturnsZeroValue(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, &Config{}, cfg)
}

func TestLoadConfigReadsYAMLFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cozo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_path: /tmp/cozo.db\nverbose: true\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/cozo.db", cfg.StorePath)
	require.True(t, cfg.Verbose)
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := loadConfig("/nonexistent/cozo.yaml")
	require.Error(t, err)
}

func TestLoadConfigMalformedYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_path: [unterminated\n"), 0o644))

	_, err := loadConfig(path)
	require.Error(t, err)
}

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

package dlerrors_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liangxianzhe/cozo/dlerrors"
)

func TestKindsAreDistinguishableByIdentity(t *testing.T) {
	parseErr := dlerrors.ErrParse.New("bad payload")
	schemaErr := dlerrors.ErrSchema.New("unknown attribute")

	require.True(t, dlerrors.ErrParse.Is(parseErr))
	require.False(t, dlerrors.ErrSchema.Is(parseErr))
	require.True(t, dlerrors.ErrSchema.Is(schemaErr))
}

func TestKindMessageFormatting(t *testing.T) {
	err := dlerrors.ErrSafety.New("unsafe variable ?x")
	require.Contains(t, err.Error(), "unsafe variable ?x")
}

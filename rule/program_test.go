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

package rule_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liangxianzhe/cozo/rule"
	"github.com/liangxianzhe/cozo/value"
)

func TestBuildProgramRequiresEntryRule(t *testing.T) {
	_, err := rule.BuildProgram([]rule.NamedRawRule{
		{Name: "helper", RawRule: rule.RawRule{Head: []value.Keyword{"?x"}, Body: triple("?x", "?y")}},
	})
	require.Error(t, err)
}

func TestBuildProgramRejectsInconsistentArity(t *testing.T) {
	_, err := rule.BuildProgram([]rule.NamedRawRule{
		{Name: value.Entry, RawRule: rule.RawRule{Head: []value.Keyword{"?x"}, Body: triple("?x", "?y")}},
		{Name: value.Entry, RawRule: rule.RawRule{Head: []value.Keyword{"?x", "?y"}, Body: triple("?x", "?y")}},
	})
	require.Error(t, err)
}

func TestBuildProgramRejectsMismatchedEntryHeadNames(t *testing.T) {
	_, err := rule.BuildProgram([]rule.NamedRawRule{
		{Name: value.Entry, RawRule: rule.RawRule{Head: []value.Keyword{"?x"}, Body: triple("?x", "?y")}},
		{Name: value.Entry, RawRule: rule.RawRule{Head: []value.Keyword{"?z"}, Body: triple("?z", "?w")}},
	})
	require.Error(t, err)
}

func TestBuildProgramAssemblesRulesByName(t *testing.T) {
	p, err := rule.BuildProgram([]rule.NamedRawRule{
		{Name: value.Entry, RawRule: rule.RawRule{Head: []value.Keyword{"?x"}, Body: triple("?x", "?y")}},
		{Name: "helper", RawRule: rule.RawRule{Head: []value.Keyword{"?x"}, Body: triple("?x", "?y")}},
	})
	require.NoError(t, err)
	require.Len(t, p.EntryRules(), 1)
	require.Len(t, p.Rules["helper"], 1)
}

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

package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liangxianzhe/cozo/dlerrors"
	"github.com/liangxianzhe/cozo/session"
)

func TestBackgroundNeverFires(t *testing.T) {
	tok := session.Background()
	require.NoError(t, tok.Check())
}

func TestCancelTokenFiresAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tok := session.NewCancelToken(ctx)
	require.NoError(t, tok.Check())

	cancel()

	err := tok.Check()
	require.Error(t, err)
	require.True(t, dlerrors.ErrCancelled.Is(err))
}

func TestCancelTokenContextAccessor(t *testing.T) {
	ctx := context.WithValue(context.Background(), struct{}{}, "marker")
	tok := session.NewCancelToken(ctx)
	require.Equal(t, ctx, tok.Context())
}

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

// Package session carries the cancellation token ("poison", §5) and the
// tracing span an evaluation threads through every relation pull.
package session

import (
	"context"
	"fmt"

	"github.com/liangxianzhe/cozo/dlerrors"
)

// CancelToken is the poison token of §5, backed by a context.Context the
// host supplies rather than a bespoke atomic flag, since the host already
// threads a transaction-scoped context through the call (§6).
type CancelToken struct {
	ctx context.Context
}

// NewCancelToken wraps ctx as a CancelToken.
func NewCancelToken(ctx context.Context) CancelToken {
	return CancelToken{ctx: ctx}
}

// Background returns a CancelToken that never fires, for tests and the
// CLI's simplest invocation.
func Background() CancelToken {
	return CancelToken{ctx: context.Background()}
}

// Context returns the context.Context backing c, for callers that need
// to derive a tracing span (StartEpochSpan, StartAlgoSpan) from it.
func (c CancelToken) Context() context.Context {
	return c.ctx
}

// Check returns dlerrors.ErrCancelled if the token has fired, nil
// otherwise. Every tuple a relation iterator yields, and every
// algorithm-host edge expansion, calls Check.
func (c CancelToken) Check() error {
	select {
	case <-c.ctx.Done():
		return dlerrors.ErrCancelled.New(fmt.Sprintf("%v", c.ctx.Err()))
	default:
		return nil
	}
}

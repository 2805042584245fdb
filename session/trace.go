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

package session

import (
	"context"

	"github.com/opentracing/opentracing-go"
)

// StartEpochSpan opens a span tagged with the stratum/epoch/predicate an
// evaluation step is working on. It uses whatever tracer
// opentracing.SetGlobalTracer registered; when the host never registers
// one, opentracing's no-op tracer makes this a cheap no-op, so callers
// never need to check whether tracing is configured.
func StartEpochSpan(ctx context.Context, stratum, epoch int, predicate string) (opentracing.Span, context.Context) {
	span, spanCtx := opentracing.StartSpanFromContext(ctx, "eval.epoch")
	span.SetTag("stratum", stratum)
	span.SetTag("epoch", epoch)
	span.SetTag("predicate", predicate)
	return span, spanCtx
}

// StartAlgoSpan opens a span for one algorithm-host run (e.g. bfs).
func StartAlgoSpan(ctx context.Context, name string) (opentracing.Span, context.Context) {
	span, spanCtx := opentracing.StartSpanFromContext(ctx, "eval.algo")
	span.SetTag("algorithm", name)
	return span, spanCtx
}

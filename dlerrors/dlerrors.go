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

// Package dlerrors defines the kinded error taxonomy shared by every stage
// of the query engine, from payload parsing through fixpoint evaluation.
package dlerrors

import errorkit "gopkg.in/src-d/go-errors.v1"

// Each Kind is created once and reused via .New(...); callers match on
// identity with Is, never on message text.
var (
	// ErrParse covers malformed payloads, unknown operators, wrong arity,
	// reserved-keyword misuse, and missing required keys.
	ErrParse = errorkit.NewKind("parse error: %s")

	// ErrSchema covers unknown attributes, coercion failures, and
	// unique-index lookups attempted against a non-unique attribute.
	ErrSchema = errorkit.NewKind("schema error: %s")

	// ErrSafety covers unsafe variables in predicates or negations,
	// duplicate head variables, arity mismatches, and a missing ENTRY rule.
	ErrSafety = errorkit.NewKind("safety error: %s")

	// ErrStratification covers negation/aggregation cycles in the rule
	// dependency graph.
	ErrStratification = errorkit.NewKind("stratification error: %s")

	// ErrEvaluation covers runtime type errors in predicates and
	// algorithm-host misconfiguration.
	ErrEvaluation = errorkit.NewKind("evaluation error: %s")

	// ErrCancelled is returned when the cancellation token fires mid-query.
	// It is always distinguishable from the other kinds.
	ErrCancelled = errorkit.NewKind("cancelled: %s")

	// ErrStorage wraps failures bubbled up from the triple store or a temp
	// store.
	ErrStorage = errorkit.NewKind("storage error: %s")
)

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

package query

import (
	"fmt"

	"github.com/liangxianzhe/cozo/dlerrors"
)

// PullSpec is an opaque request to project an entity binding through a
// graph of attributes. This engine does not itself execute pull
// projection (that's an external collaborator over the final relation);
// it only validates the shape and passes Spec through untouched.
type PullSpec struct {
	Binding string
	Spec    interface{}
}

// OutSpec describes how the caller wants ENTRY's tuples packaged. Names
// is the output order; for each name, exactly one of Bindings or Pull
// holds the projection.
type OutSpec struct {
	Names    []string
	Bindings map[string]string
	Pull     map[string]PullSpec
}

// parseOutSpec parses the optional "out" field: either an array of
// binding-name strings (output name == binding name) or an object
// mapping output name to either a binding-name string or a
// {"pull": binding, "spec": ...} descriptor.
func parseOutSpec(raw interface{}) (OutSpec, error) {
	out := OutSpec{Bindings: map[string]string{}, Pull: map[string]PullSpec{}}
	if raw == nil {
		return out, nil
	}
	switch v := raw.(type) {
	case []interface{}:
		for _, elem := range v {
			name, ok := elem.(string)
			if !ok {
				return OutSpec{}, dlerrors.ErrParse.New("array-form \"out\" entries must be binding-name strings")
			}
			out.Names = append(out.Names, name)
			out.Bindings[name] = name
		}
		return out, nil
	case map[string]interface{}:
		for name, spec := range v {
			out.Names = append(out.Names, name)
			switch s := spec.(type) {
			case string:
				out.Bindings[name] = s
			case map[string]interface{}:
				binding, ok := s["pull"].(string)
				if !ok {
					return OutSpec{}, dlerrors.ErrParse.New(fmt.Sprintf("out.%s: pull descriptor requires a \"pull\" binding-name string", name))
				}
				out.Pull[name] = PullSpec{Binding: binding, Spec: s["spec"]}
			default:
				return OutSpec{}, dlerrors.ErrParse.New(fmt.Sprintf("out.%s: unsupported output descriptor shape %T", name, spec))
			}
		}
		return out, nil
	default:
		return OutSpec{}, dlerrors.ErrParse.New(fmt.Sprintf("\"out\" must be an array or object, got %T", raw))
	}
}

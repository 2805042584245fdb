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

package value

import "github.com/mitchellh/hashstructure"

// TupleFingerprint hashes a tuple's canonical encoding. It's used where a
// cheap, fixed-width key is preferred over the variable-length byte
// encoding from Tuple.Encode — the BFS algorithm host's visited set and
// predecessor map key it for exactly this reason.
func TupleFingerprint(t Tuple) uint64 {
	// hashstructure hashes the canonical encoding rather than the DataValue
	// struct directly, since DataValue's unexported fields would otherwise
	// make equal values hash differently depending on which variant's
	// fields happen to be zeroed.
	h, err := hashstructure.Hash(t.Encode(), nil)
	if err != nil {
		// hashstructure only errors on unsupported kinds; []byte is always
		// supported, so this is unreachable.
		panic(err)
	}
	return h
}
